// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staffroom/internal/platform/apperr"
	"github.com/taibuivan/staffroom/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/staffroom/internal/platform/request"
	"github.com/taibuivan/staffroom/internal/platform/sec"
	"github.com/taibuivan/staffroom/internal/platform/validate"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	t.Run("valid", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
		var target payload
		require.NoError(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target))
		assert.Equal(t, "a@b.co", target.Email)
	})

	t.Run("undeclared fields are ignored", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","department":"R&D"}`))
		var target payload
		require.NoError(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target))
		assert.Equal(t, "a@b.co", target.Email)
	})

	t.Run("dash-tagged fields stay empty", func(t *testing.T) {
		type guarded struct {
			Email string `json:"email"`
			Role  string `json:"-"`
		}
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","role":"admin","-":"admin"}`))
		var target guarded
		require.NoError(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target))
		assert.Empty(t, target.Role)
	})

	t.Run("malformed", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		var target payload
		assert.ErrorIs(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target), validate.ErrInvalidJSON)
	})
}

func TestForm(t *testing.T) {
	request := httptest.NewRequest(http.MethodPost, "/?password=from-query", strings.NewReader("email=a%40b.co"))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	form, err := requestutil.Form(request)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", form.Get("email"))
	assert.Empty(t, form.Get("password"), "query parameters are not form fields")
}

func TestForm_Malformed(t *testing.T) {
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=%zz"))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err := requestutil.Form(request)
	assert.ErrorIs(t, err, validate.ErrInvalidForm)
}

func TestRequiredClaims(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := requestutil.RequiredClaims(request)
	assert.ErrorIs(t, err, apperr.MissingToken())

	claims := &sec.Claims{PublicID: "p-1"}
	request = request.WithContext(ctxutil.WithClaims(request.Context(), claims))

	got, err := requestutil.RequiredClaims(request)
	require.NoError(t, err)
	assert.Same(t, claims, got)
}
