// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staffroom/pkg/uuid"
)

/*
TestNew verifies identifiers are random v4 values and distinct.
*/
func TestNew(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := uuid.New()

		parsed, err := googleuuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, googleuuid.Version(4), parsed.Version())

		_, duplicate := seen[id]
		assert.False(t, duplicate)
		seen[id] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	assert.True(t, uuid.Valid(uuid.New()))
	assert.False(t, uuid.Valid("42"))
	assert.False(t, uuid.Valid("{0f8fad5b-d9cb-469f-a165-70867728950e}"))
	assert.False(t, uuid.Valid(""))
}
