// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crud_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staffroom/internal/platform/crud"
)

/*
TestMemoryStore_AssignsSequentialIDs verifies internal ids increase per insert.
*/
func TestMemoryStore_AssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	store := newNoteStore()

	first, err := store.Insert(ctx, noteRecord{PublicID: "a", Title: "a"})
	require.NoError(t, err)
	second, err := store.Insert(ctx, noteRecord{PublicID: "b", Title: "b"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

/*
TestMemoryStore_PublicIDUnique verifies the implicit public id index.
*/
func TestMemoryStore_PublicIDUnique(t *testing.T) {
	ctx := context.Background()
	store := newNoteStore()

	_, err := store.Insert(ctx, noteRecord{PublicID: "a", Title: "one"})
	require.NoError(t, err)
	_, err = store.Insert(ctx, noteRecord{PublicID: "a", Title: "two"})

	assert.ErrorIs(t, err, crud.ErrConflict)
	assert.Contains(t, err.Error(), "public_id")
}

/*
TestMemoryStore_ConcurrentUniqueInsert verifies only one of many racing
inserts with the same unique key succeeds.
*/
func TestMemoryStore_ConcurrentUniqueInsert(t *testing.T) {
	ctx := context.Background()
	store := newNoteStore()

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Insert(ctx, noteRecord{PublicID: fmt.Sprintf("p-%d", i), Title: "contested"})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, crud.ErrConflict)
		}
	}
	assert.Equal(t, 1, successes)
}

/*
TestMemoryStore_ReturnsCopies verifies callers cannot mutate stored records.
*/
func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := newNoteStore()
	_, err := store.Insert(ctx, noteRecord{PublicID: "a", Title: "original"})
	require.NoError(t, err)

	found, err := store.FindByPublicID(ctx, "a")
	require.NoError(t, err)
	found.Title = "mutated"

	list, err := store.List(ctx)
	require.NoError(t, err)
	list[0].Title = "mutated"

	again, err := store.FindByPublicID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Title)
}

/*
TestMemoryStore_CancelledContext verifies cancellation is honoured.
*/
func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newNoteStore().Insert(ctx, noteRecord{PublicID: "a"})
	assert.ErrorIs(t, err, context.Canceled)
}
