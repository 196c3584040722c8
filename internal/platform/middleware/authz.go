// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/staffroom/internal/platform/apperr"
	"github.com/taibuivan/staffroom/internal/platform/ctxutil"
	"github.com/taibuivan/staffroom/internal/platform/respond"
	"github.com/taibuivan/staffroom/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Defining TokenVerifier here decouples the guard from [sec.TokenService],
// allowing tests to inject stubs.
type TokenVerifier interface {
	VerifyRequest(request *http.Request) (*sec.Claims, error)
}

// Guard wraps handlers with authentication and role checks.
//
// On failure the wrapped handler is never invoked.
type Guard struct {
	verifier TokenVerifier
}

// NewGuard constructs a [Guard] around verifier.
func NewGuard(verifier TokenVerifier) *Guard {
	return &Guard{verifier: verifier}
}

// RequireAuth verifies the request token and exposes the claims to next.
//
// # Flow
//  1. Verify the Authorization header via [TokenVerifier].
//  2. On failure, abort with 401 and the matching error code.
//  3. Inject [*sec.Claims] into the request context, see [GetClaims].
func (guard *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims, err := guard.verifier.VerifyRequest(request)
		if err != nil {
			ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "token_rejected",
				slog.String("reason", err.Error()),
			)
			respond.Error(writer, request, tokenError(err))
			return
		}

		ctx := ctxutil.WithClaims(request.Context(), claims)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RequireRole behaves like [Guard.RequireAuth] and additionally demands that
// the role claim equals role, answering 403 otherwise.
func (guard *Guard) RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return guard.RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := GetClaims(request.Context())
			if claims == nil || claims.Role != role {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}
			next.ServeHTTP(writer, request)
		}))
	}
}

// GetClaims retrieves the verified claims placed by [Guard.RequireAuth].
var GetClaims = ctxutil.GetClaims

// tokenError maps a verification failure onto the client-facing taxonomy.
func tokenError(err error) *apperr.AppError {
	switch {
	case errors.Is(err, sec.ErrMissingToken):
		return apperr.MissingToken()
	case errors.Is(err, sec.ErrExpiredToken):
		return apperr.ExpiredToken()
	default:
		return apperr.InvalidToken()
	}
}
