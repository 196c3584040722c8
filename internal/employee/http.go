// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/staffroom/internal/platform/constants"
	"github.com/taibuivan/staffroom/internal/platform/middleware"
	requestutil "github.com/taibuivan/staffroom/internal/platform/request"
	"github.com/taibuivan/staffroom/internal/platform/respond"
	"github.com/taibuivan/staffroom/internal/platform/sec"
)

// Handler implements the employee HTTP endpoints.
type Handler struct {
	service      *Service
	guard        *middleware.Guard
	loginLimiter *middleware.RateLimiter
}

// HandlerOption customises a [Handler].
type HandlerOption func(*Handler)

// WithLoginLimiter throttles POST /login per client IP on top of the global limit.
func WithLoginLimiter(limiter *middleware.RateLimiter) HandlerOption {
	return func(handler *Handler) { handler.loginLimiter = limiter }
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, guard *middleware.Guard, opts ...HandlerOption) *Handler {
	handler := &Handler{service: service, guard: guard}
	for _, opt := range opts {
		opt(handler)
	}
	return handler
}

// Routes returns a [chi.Router] mounted under /employees.
//
// # Endpoints
//   - POST /        : Registers an employee.
//   - GET  /        : Lists every employee (admin only).
//   - GET  /me      : Returns the caller's own profile.
//   - GET  /{id}    : Returns one employee by public id.
//   - POST /login   : Exchanges form credentials for a token pair.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)

	router.Group(func(login chi.Router) {
		if handler.loginLimiter != nil {
			login.Use(handler.loginLimiter.Middleware)
		}
		login.Post("/login", handler.login)
	})

	router.With(handler.guard.RequireRole(sec.RoleAdmin)).Get("/", handler.list)
	router.With(handler.guard.RequireAuth).Get("/me", handler.me)
	router.Get("/{id}", handler.get)

	return router
}

// create handles POST /employees/.
//
// # Returns
//   - 201 Created with the employee read shape.
//   - 400 Bad Request on malformed JSON or failed validation.
//   - 406 Not Acceptable if the email is already registered.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// list handles GET /employees/.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	employees, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, employees)
}

// get handles GET /employees/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// me handles GET /employees/me using the identity placed by the guard.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.Get(request.Context(), claims.PublicID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// loginResponse is the body of a successful login. The refresh token is only
// ever sent as a cookie.
type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Employee    Employee  `json:"employee"`
}

// login handles POST /employees/login with a form-encoded body.
//
// # Returns
//   - 200 OK with the access token, plus the refresh token cookie.
//   - 401 Unauthorized if email or password is missing.
//   - 400 Bad Request with USER_DOES_NOT_EXIST for any credential mismatch.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	form, err := requestutil.Form(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), form.Get(FieldEmail), form.Get(FieldPassword))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken.Value,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshToken.ExpiresAt,
		MaxAge:   int(time.Until(session.RefreshToken.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, loginResponse{
		AccessToken: session.AccessToken.Value,
		TokenType:   "bearer",
		ExpiresAt:   session.AccessToken.ExpiresAt,
		Employee:    session.Employee,
	})
}
