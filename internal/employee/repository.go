// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/staffroom/internal/platform/crud"
	"github.com/taibuivan/staffroom/internal/platform/sec"
	"github.com/taibuivan/staffroom/pkg/uuid"
)

// Repository specialises [crud.Repository] for employees.
type Repository struct {
	*crud.Repository[CreateInput, Record, Employee]
	store  Store
	hasher sec.Hasher
}

// RepositoryOption customises a [Repository].
type RepositoryOption func(*repositoryConfig)

type repositoryConfig struct {
	cache  crud.Cache[Employee]
	logger *slog.Logger
	newID  func() string
}

// WithCache enables read-through caching of employees by public id.
func WithCache(cache crud.Cache[Employee]) RepositoryOption {
	return func(config *repositoryConfig) { config.cache = cache }
}

// WithLogger sets the logger used for cache degradation warnings.
func WithLogger(logger *slog.Logger) RepositoryOption {
	return func(config *repositoryConfig) { config.logger = logger }
}

// WithIDGenerator replaces the random UUID generator for public ids.
func WithIDGenerator(newID func() string) RepositoryOption {
	return func(config *repositoryConfig) {
		if newID != nil {
			config.newID = newID
		}
	}
}

// NewRepository wires the generic repository to store and hasher.
func NewRepository(store Store, hasher sec.Hasher, opts ...RepositoryOption) *Repository {
	config := repositoryConfig{newID: uuid.New}
	for _, opt := range opts {
		opt(&config)
	}

	repository := &Repository{store: store, hasher: hasher}

	mapper := crud.Mapper[CreateInput, Record, Employee]{
		ToStorage: func(ctx context.Context, input CreateInput) (Record, error) {
			return repository.toRecord(input, config.newID())
		},
		ToRead:   ToEmployee,
		PublicID: func(employee Employee) string { return employee.PublicID },
	}

	var crudOptions []crud.Option[CreateInput, Record, Employee]
	if config.cache != nil {
		crudOptions = append(crudOptions, crud.WithCache[CreateInput, Record, Employee](config.cache))
	}
	if config.logger != nil {
		crudOptions = append(crudOptions, crud.WithLogger[CreateInput, Record, Employee](config.logger))
	}

	repository.Repository = crud.New[CreateInput, Record, Employee](store, mapper, crudOptions...)
	return repository
}

// ReadByEmail returns the stored record, hash included, for exactly email.
// Absence is reported as nil, nil.
func (repository *Repository) ReadByEmail(ctx context.Context, email string) (*Record, error) {
	record, err := repository.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("employee_read_by_email_failed: %w", err)
	}
	return record, nil
}

// toRecord derives the storage shape. The plaintext password is consumed by
// the hasher and has no field in [Record].
func (repository *Repository) toRecord(input CreateInput, publicID string) (Record, error) {
	hashedPassword, err := repository.hasher.Hash(input.Password)
	if err != nil {
		return Record{}, fmt.Errorf("employee_hash_failed: %w", err)
	}

	role := input.Role
	if role == "" {
		role = sec.RoleEmployee
	}

	// Full name is derived from the stored parts so the two never disagree.
	first := NormalizeName(input.FirstName)
	middle := NormalizeName(input.MiddleName)
	last := NormalizeName(input.LastName)

	return Record{
		PublicID:       publicID,
		FirstName:      first,
		MiddleName:     middle,
		LastName:       last,
		FullName:       FullName(first, middle, last),
		Email:          input.Email,
		HashedPassword: hashedPassword,
		Role:           role,
	}, nil
}
