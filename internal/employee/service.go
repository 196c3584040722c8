// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/staffroom/internal/platform/apperr"
	"github.com/taibuivan/staffroom/internal/platform/crud"
	"github.com/taibuivan/staffroom/internal/platform/sec"
	"github.com/taibuivan/staffroom/internal/platform/validate"
)

// TokenIssuer mints the token pair handed out on login.
type TokenIssuer interface {
	IssueAccessToken(principal sec.Principal) (sec.Token, error)
	IssueRefreshToken(principal sec.Principal) (sec.Token, error)
}

// Session is the outcome of a successful login.
type Session struct {
	AccessToken  sec.Token
	RefreshToken sec.Token
	Employee     Employee
}

// Service implements the employee use cases on top of [Repository].
type Service struct {
	repository *Repository
	hasher     sec.Hasher
	tokens     TokenIssuer
	logger     *slog.Logger

	// decoyOnce lazily hashes a throwaway password so that logins for unknown
	// emails still pay for one bcrypt comparison.
	decoyOnce sync.Once
	decoyHash string
}

// NewService constructs a new [Service].
func NewService(repository *Repository, hasher sec.Hasher, tokens TokenIssuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repository: repository,
		hasher:     hasher,
		tokens:     tokens,
		logger:     logger,
	}
}

// Create registers a new employee.
//
// # Returns
//   - The read shape of the stored employee.
//   - [apperr.ValidationError] if the input is malformed.
//   - [apperr.DuplicateEmail] if the email is taken, whether detected by the
//     lookup before insert or by the storage constraint during it.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Employee, error) {
	// ── 1. Validation ─────────────────────────────────────────────────────

	if err := validateCreate(input); err != nil {
		return nil, err
	}

	// ── 2. Uniqueness pre-check ───────────────────────────────────────────

	existing, err := service.repository.ReadByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.DuplicateEmail()
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	created, err := service.repository.Create(ctx, input)
	if err != nil {
		if errors.Is(err, crud.ErrConflict) {
			return nil, apperr.DuplicateEmail()
		}
		return nil, apperr.Internal(err)
	}

	service.logger.InfoContext(ctx, "employee_created",
		slog.String("public_id", created.PublicID),
		slog.String("role", created.Role.String()),
	)

	return &created, nil
}

// Get returns the employee with publicID.
//
// Returns [apperr.NotFound] if no employee has that id.
func (service *Service) Get(ctx context.Context, publicID string) (*Employee, error) {
	found, err := service.repository.Read(ctx, publicID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if found == nil {
		return nil, apperr.NotFound("Employee does not exist.")
	}
	return found, nil
}

// List returns every employee in registration order.
func (service *Service) List(ctx context.Context) ([]Employee, error) {
	employees, err := service.repository.ReadMulti(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return employees, nil
}

// Authenticate checks an email and password pair.
//
// An unknown email and a wrong password both produce
// [apperr.UserDoesNotExist] so callers cannot tell them apart.
func (service *Service) Authenticate(ctx context.Context, email, password string) (*Record, error) {
	if email == "" || password == "" {
		return nil, apperr.MissingCredentials()
	}

	record, err := service.repository.ReadByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if record == nil {
		service.hasher.Verify(service.decoy(ctx), password)
		service.logger.DebugContext(ctx, "login_failed")
		return nil, apperr.UserDoesNotExist()
	}

	if !service.hasher.Verify(record.HashedPassword, password) {
		service.logger.DebugContext(ctx, "login_failed")
		return nil, apperr.UserDoesNotExist()
	}

	return record, nil
}

// Login authenticates and issues an access token plus a refresh token.
func (service *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	record, err := service.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	principal := record.Principal()

	accessToken, err := service.tokens.IssueAccessToken(principal)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("employee_access_token_failed: %w", err))
	}

	refreshToken, err := service.tokens.IssueRefreshToken(principal)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("employee_refresh_token_failed: %w", err))
	}

	service.logger.InfoContext(ctx, "employee_logged_in", slog.String("public_id", record.PublicID))

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Employee:     ToEmployee(*record),
	}, nil
}

// EnsureAdmin creates an admin account for email unless one already exists.
// It is safe to call on every startup.
func (service *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	existing, err := service.repository.ReadByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("employee_ensure_admin_lookup_failed: %w", err)
	}

	if existing != nil {
		if existing.Role != sec.RoleAdmin {
			service.logger.WarnContext(ctx, "employee_bootstrap_email_not_admin",
				slog.String("public_id", existing.PublicID),
			)
		}
		return nil
	}

	_, err = service.repository.Create(ctx, CreateInput{
		FirstName: "Admin",
		LastName:  "Account",
		Email:     email,
		Password:  password,
		Role:      sec.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, crud.ErrConflict) {
			return nil
		}
		return fmt.Errorf("employee_ensure_admin_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "employee_bootstrap_admin_created")
	return nil
}

// fallbackDecoyHash is a cost-10 bcrypt hash of decoyPassword, used when the
// configured hasher cannot produce one.
const (
	decoyPassword     = "staffroom-decoy-password"
	fallbackDecoyHash = "$2b$10$ghgPTIBydYjWJ1Twg8eOce9n/eOn6bvjpna.m8B3Rs9O17lpD.cy6"
)

func (service *Service) decoy(ctx context.Context) string {
	service.decoyOnce.Do(func() {
		hash, err := service.hasher.Hash(decoyPassword)
		if err != nil {
			service.logger.WarnContext(ctx, "employee_decoy_hash_failed", slog.Any("error", err))
			hash = fallbackDecoyHash
		}
		service.decoyHash = hash
	})
	return service.decoyHash
}

func validateCreate(input CreateInput) error {
	validator := &validate.Validator{}

	validator.
		Required(FieldFirstName, input.FirstName).
		MaxLen(FieldFirstName, input.FirstName, MaxNameLength).
		PlainText(FieldFirstName, input.FirstName).
		MaxLen(FieldMiddleName, input.MiddleName, MaxNameLength).
		PlainText(FieldMiddleName, input.MiddleName).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldLastName, input.LastName, MaxNameLength).
		PlainText(FieldLastName, input.LastName).
		Required(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, MaxEmailLength).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxBytes(FieldPassword, input.Password, sec.MaxPasswordBytes)

	return validator.Err()
}
