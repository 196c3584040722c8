// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staffroom/internal/employee"
	"github.com/taibuivan/staffroom/internal/platform/apperr"
	"github.com/taibuivan/staffroom/internal/platform/constants"
	"github.com/taibuivan/staffroom/internal/platform/middleware"
	"github.com/taibuivan/staffroom/internal/platform/respond"
	"github.com/taibuivan/staffroom/internal/platform/sec"
)

type httpFixture struct {
	fixture
	router chi.Router
}

func newHTTPFixture(t *testing.T) httpFixture {
	t.Helper()

	f := newFixture(t)
	handler := employee.NewHandler(f.service, middleware.NewGuard(f.tokens))

	router := chi.NewRouter()
	router.Mount("/employees", handler.Routes())

	return httpFixture{fixture: f, router: router}
}

func (f httpFixture) do(t *testing.T, request *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

func jsonRequest(method, target, body string) *http.Request {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	return request
}

func loginRequest(email, password string) *http.Request {
	form := url.Values{}
	if email != "" {
		form.Set("email", email)
	}
	if password != "" {
		form.Set("password", password)
	}
	request := httptest.NewRequest(http.MethodPost, "/employees/login", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return request
}

func decodeData[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

type loginBody struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

const adaJSON = `{"first_name":"Ada","middle_name":"","last_name":"Lovelace","email":"ada@example.com","password":"analytical-engine"}`

func TestHandler_Create(t *testing.T) {
	f := newHTTPFixture(t)

	recorder := f.do(t, jsonRequest(http.MethodPost, "/employees/", adaJSON))
	require.Equal(t, http.StatusCreated, recorder.Code)

	body := recorder.Body.String()
	assert.NotContains(t, body, "analytical-engine")
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, `"id"`)

	created := decodeData[employee.Employee](t, recorder)
	assert.Equal(t, "Ada  Lovelace", created.FullName)
	assert.NotEmpty(t, created.PublicID)
}

func TestHandler_CreateErrors(t *testing.T) {
	f := newHTTPFixture(t)
	require.Equal(t, http.StatusCreated, f.do(t, jsonRequest(http.MethodPost, "/employees/", adaJSON)).Code)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"duplicate email", adaJSON, http.StatusNotAcceptable, apperr.CodeDuplicateEmail},
		{"malformed json", `{"first_name":`, http.StatusBadRequest, apperr.CodeValidation},
		{"missing fields", `{"first_name":"Ada"}`, http.StatusBadRequest, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := f.do(t, jsonRequest(http.MethodPost, "/employees/", tt.body))
			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, recorder).Code)
		})
	}
}

func TestHandler_CreateIgnoresExtraFields(t *testing.T) {
	f := newHTTPFixture(t)

	body := `{"first_name":"Grace","middle_name":"B","last_name":"Hopper","email":"grace@example.com",` +
		`"password":"compiler-pioneer","department":"R&D","role":"admin"}`

	recorder := f.do(t, jsonRequest(http.MethodPost, "/employees/", body))
	require.Equal(t, http.StatusCreated, recorder.Code)

	created := decodeData[employee.Employee](t, recorder)
	assert.Equal(t, sec.RoleEmployee, created.Role, "role is never taken from the body")
	assert.NotContains(t, recorder.Body.String(), "department")

	stored, err := f.service.Get(context.Background(), created.PublicID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleEmployee, stored.Role)
}

func TestHandler_Get(t *testing.T) {
	f := newHTTPFixture(t)

	created := decodeData[employee.Employee](t, f.do(t, jsonRequest(http.MethodPost, "/employees/", adaJSON)))

	recorder := f.do(t, httptest.NewRequest(http.MethodGet, "/employees/"+created.PublicID, nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, created, decodeData[employee.Employee](t, recorder))

	recorder = f.do(t, httptest.NewRequest(http.MethodGet, "/employees/00000000-0000-4000-8000-000000000000", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Employee does not exist.", decodeError(t, recorder).Error)
}

func TestHandler_Login(t *testing.T) {
	f := newHTTPFixture(t)
	require.Equal(t, http.StatusCreated, f.do(t, jsonRequest(http.MethodPost, "/employees/", adaJSON)).Code)

	recorder := f.do(t, loginRequest("ada@example.com", "analytical-engine"))
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeData[loginBody](t, recorder)
	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "bearer", body.TokenType)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, constants.RefreshTokenCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.NotEqual(t, body.AccessToken, cookie.Value)
	assert.NotContains(t, recorder.Body.String(), cookie.Value, "refresh token is cookie-only")
}

func TestHandler_LoginFailures(t *testing.T) {
	f := newHTTPFixture(t)
	require.Equal(t, http.StatusCreated, f.do(t, jsonRequest(http.MethodPost, "/employees/", adaJSON)).Code)

	wrongPassword := f.do(t, loginRequest("ada@example.com", "wrong-password"))
	unknownEmail := f.do(t, loginRequest("ghost@example.com", "analytical-engine"))

	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, apperr.CodeUserDoesNotExist, decodeError(t, wrongPassword).Code)
	assert.Empty(t, wrongPassword.Result().Cookies())

	missing := f.do(t, loginRequest("ada@example.com", ""))
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, apperr.CodeMissingCredentials, decodeError(t, missing).Code)

	malformed := httptest.NewRequest(http.MethodPost, "/employees/login", strings.NewReader("email=%zz"))
	malformed.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := f.do(t, malformed)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, apperr.CodeValidation, decodeError(t, recorder).Code)
}

func bearer(request *http.Request, token string) *http.Request {
	request.Header.Set("Authorization", "Bearer "+token)
	return request
}

func TestHandler_ListRequiresAdmin(t *testing.T) {
	f := newHTTPFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.EnsureAdmin(ctx, "root@example.com", "bootstrap-password"))
	require.Equal(t, http.StatusCreated, f.do(t, jsonRequest(http.MethodPost, "/employees/", adaJSON)).Code)

	adminSession, err := f.service.Login(ctx, "root@example.com", "bootstrap-password")
	require.NoError(t, err)
	employeeSession, err := f.service.Login(ctx, "ada@example.com", "analytical-engine")
	require.NoError(t, err)

	noToken := f.do(t, httptest.NewRequest(http.MethodGet, "/employees/", nil))
	assert.Equal(t, http.StatusUnauthorized, noToken.Code)
	assert.Equal(t, apperr.CodeMissingToken, decodeError(t, noToken).Code)

	asEmployee := f.do(t, bearer(httptest.NewRequest(http.MethodGet, "/employees/", nil), employeeSession.AccessToken.Value))
	assert.Equal(t, http.StatusForbidden, asEmployee.Code)

	asAdmin := f.do(t, bearer(httptest.NewRequest(http.MethodGet, "/employees/", nil), adminSession.AccessToken.Value))
	require.Equal(t, http.StatusOK, asAdmin.Code)

	listed := decodeData[[]employee.Employee](t, asAdmin)
	require.Len(t, listed, 2)
	assert.Equal(t, "root@example.com", listed[0].Email)
	assert.Equal(t, "ada@example.com", listed[1].Email)
}

func TestHandler_Me(t *testing.T) {
	f := newHTTPFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, adaInput())
	require.NoError(t, err)
	session, err := f.service.Login(ctx, "ada@example.com", "analytical-engine")
	require.NoError(t, err)

	recorder := f.do(t, bearer(httptest.NewRequest(http.MethodGet, "/employees/me", nil), session.AccessToken.Value))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, created.PublicID, decodeData[employee.Employee](t, recorder).PublicID)

	invalid := f.do(t, bearer(httptest.NewRequest(http.MethodGet, "/employees/me", nil), "not.a.token"))
	assert.Equal(t, http.StatusUnauthorized, invalid.Code)
	assert.Equal(t, apperr.CodeInvalidToken, decodeError(t, invalid).Code)

	refresh := f.do(t, bearer(httptest.NewRequest(http.MethodGet, "/employees/me", nil), session.RefreshToken.Value))
	assert.Equal(t, http.StatusUnauthorized, refresh.Code)
}

func TestHandler_LoginLimiter(t *testing.T) {
	f := newFixture(t)
	limiter := middleware.NewRateLimiter(0.001, 2)
	handler := employee.NewHandler(f.service, middleware.NewGuard(f.tokens), employee.WithLoginLimiter(limiter))

	router := chi.NewRouter()
	router.Mount("/employees", handler.Routes())

	statuses := make([]int, 0, 6)
	for i := range 6 {
		request := loginRequest("ghost@example.com", "whatever-password")
		// Forwarding headers from an untrusted peer must not mint fresh buckets.
		request.Header.Set(constants.HeaderXForwardedFor, fmt.Sprintf("203.0.113.%d", i+1))
		request.Header.Set(constants.HeaderXRealIP, fmt.Sprintf("198.51.100.%d", i+1))

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{
		http.StatusBadRequest, http.StatusBadRequest,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
	}, statuses)

	// Other routes are not throttled by the login limiter.
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/employees/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
