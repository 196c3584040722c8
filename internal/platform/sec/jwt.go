// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// employee service and the HTTP guards via small interfaces.
//
// # Known limitation
//
// Tokens are stateless and are never stored server-side, so an issued token
// cannot be revoked before it expires. The access TTL is kept short for that reason.
package sec

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification outcomes. Every failed verification wraps exactly one of these.
var (
	ErrMissingToken = errors.New("sec: token is missing")
	ErrInvalidToken = errors.New("sec: token is invalid")
	ErrExpiredToken = errors.New("sec: token has expired")

	// ErrEmptySecret is a fatal misconfiguration detected at construction.
	ErrEmptySecret = errors.New("sec: secret key is empty")
)

const (
	// DefaultAccessTokenTTL is how long an access token stays valid.
	DefaultAccessTokenTTL = 30 * time.Minute

	// DefaultRefreshTokenTTL is how long the cookie-delivered refresh token stays valid.
	DefaultRefreshTokenTTL = 24 * time.Hour

	// ExpireAtLayout formats the expire_at claim (asctime style, UTC).
	ExpireAtLayout = time.ANSIC
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Claims is the payload embedded inside every token.
//
// public_id is the only identity reference carried; the internal storage
// key never leaves the database.
type Claims struct {
	jwt.RegisteredClaims

	PublicID string    `json:"public_id"`
	ExpireAt string    `json:"expire_at"`
	Role     Role      `json:"role,omitempty"`
	Type     TokenType `json:"typ,omitempty"`
}

// Principal is the identity a token is minted for.
type Principal struct {
	PublicID string
	Role     Role
}

// Token is a signed, encoded token together with its absolute expiry.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SecretProvider supplies the HMAC key. It is read once at construction.
type SecretProvider interface {
	Secret() []byte
}

// StaticSecret is a [SecretProvider] backed by a fixed string, typically
// loaded from the environment at startup.
type StaticSecret string

// Secret implements [SecretProvider].
func (s StaticSecret) Secret() []byte { return []byte(s) }

// TokenService issues and verifies HS256 tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option customises a [TokenService].
type Option func(*TokenService)

// WithAccessTTL overrides [DefaultAccessTokenTTL].
func WithAccessTTL(ttl time.Duration) Option {
	return func(service *TokenService) {
		if ttl > 0 {
			service.accessTTL = ttl
		}
	}
}

// WithRefreshTTL overrides [DefaultRefreshTokenTTL].
func WithRefreshTTL(ttl time.Duration) Option {
	return func(service *TokenService) {
		if ttl > 0 {
			service.refreshTTL = ttl
		}
	}
}

// WithClock replaces time.Now for issuance and verification.
func WithClock(now func() time.Time) Option {
	return func(service *TokenService) {
		if now != nil {
			service.now = now
		}
	}
}

// NewTokenService creates a new TokenService.
//
// It fails with [ErrEmptySecret] when the provider yields no key: signing with
// an empty HMAC key would make every token forgeable.
func NewTokenService(secrets SecretProvider, opts ...Option) (*TokenService, error) {
	if secrets == nil {
		return nil, ErrEmptySecret
	}

	secret := secrets.Secret()
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	service := &TokenService{
		secret:     secret,
		accessTTL:  DefaultAccessTokenTTL,
		refreshTTL: DefaultRefreshTokenTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// AccessTTL returns the configured access token lifetime.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// IssueAccessToken mints a short-lived access token for principal.
func (service *TokenService) IssueAccessToken(principal Principal) (Token, error) {
	return service.issue(principal, TokenAccess, service.accessTTL)
}

// IssueRefreshToken mints the longer-lived token delivered via cookie.
func (service *TokenService) IssueRefreshToken(principal Principal) (Token, error) {
	return service.issue(principal, TokenRefresh, service.refreshTTL)
}

func (service *TokenService) issue(principal Principal, tokenType TokenType, timeToLive time.Duration) (Token, error) {
	if principal.PublicID == "" {
		return Token{}, fmt.Errorf("sec: cannot issue token without a public id")
	}

	// Second precision keeps exp and expire_at in agreement.
	currentTime := service.now().UTC().Truncate(time.Second)
	expiresAt := currentTime.Add(timeToLive)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		PublicID: principal.PublicID,
		ExpireAt: expiresAt.Format(ExpireAtLayout),
		Role:     principal.Role,
		Type:     tokenType,
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return Token{Value: signedToken, ExpiresAt: expiresAt}, nil
}

// VerifyToken checks an access token and returns its claims.
//
// The returned error wraps [ErrMissingToken], [ErrInvalidToken] or [ErrExpiredToken].
func (service *TokenService) VerifyToken(tokenString string) (*Claims, error) {
	return service.verify(tokenString, TokenAccess)
}

// VerifyRequest reads the token from the Authorization header and verifies it.
func (service *TokenService) VerifyRequest(request *http.Request) (*Claims, error) {
	return service.VerifyToken(BearerToken(request))
}

func (service *TokenService) verify(tokenString string, expected TokenType) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(service.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.PublicID == "" || claims.Type != expected {
		return nil, ErrInvalidToken
	}

	deadline, err := time.ParseInLocation(ExpireAtLayout, claims.ExpireAt, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed expire_at: %w", ErrInvalidToken, err)
	}
	if !service.now().Before(deadline) {
		return nil, ErrExpiredToken
	}

	return claims, nil
}

// BearerToken extracts the raw token from the Authorization header.
// Both "Bearer <token>" and a bare token are accepted.
func BearerToken(request *http.Request) string {
	header := strings.TrimSpace(request.Header.Get("Authorization"))

	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}

	return header
}
