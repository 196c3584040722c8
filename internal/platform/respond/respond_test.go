// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staffroom/internal/platform/apperr"
	"github.com/taibuivan/staffroom/internal/platform/respond"
)

/*
TestError_AppError renders the code, message and status of an AppError.
*/
func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/employees/x", nil)

	respond.Error(recorder, request, apperr.DuplicateEmail())

	assert.Equal(t, http.StatusNotAcceptable, recorder.Code)

	var body respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeDuplicateEmail, body.Code)
	assert.Equal(t, "Employee with email already exists!", body.Error)
}

/*
TestError_Unexpected hides unknown errors behind a generic 500.
*/
func TestError_Unexpected(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/employees/", nil)

	respond.Error(recorder, request, errors.New("dial tcp 10.0.0.3:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "10.0.0.3")
	assert.Contains(t, recorder.Body.String(), apperr.CodeInternal)
}

/*
TestCreated wraps the payload in the data envelope.
*/
func TestCreated(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Created(recorder, map[string]string{"email": "ada@example.com"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"email":"ada@example.com"}}`, recorder.Body.String())
}
