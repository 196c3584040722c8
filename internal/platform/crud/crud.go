// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package crud provides the entity-agnostic repository shared by every domain.

An entity is described by three shapes:

  - C: the creation input received from the client (may hold plaintext secrets).
  - S: the storage shape that is persisted (hashed and derived fields included).
  - R: the read shape, the only one allowed to cross the response boundary.

[Repository] owns the S to R projection; callers own wire decoding into C.
Entity-specific rules (hashing, derived fields, uniqueness pre-checks) live in
the [Mapper] and in the domain package, never here.
*/
package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/staffroom/pkg/pointer"
	"github.com/taibuivan/staffroom/pkg/slice"
)

// ErrConflict is returned by stores when a unique constraint rejects an insert.
var ErrConflict = errors.New("crud: unique constraint violated")

// Store is the backing collection of storage-shape records.
//
// Records are keyed internally by a storage id and externally by a public id.
type Store[S any] interface {
	// Insert persists record and returns it with storage-assigned fields set.
	// Returns an error wrapping [ErrConflict] on a uniqueness violation.
	Insert(ctx context.Context, record S) (S, error)

	// FindByPublicID returns nil, nil when no record matches.
	FindByPublicID(ctx context.Context, publicID string) (*S, error)

	// List returns every record in insertion order.
	List(ctx context.Context) ([]S, error)
}

// Cache is an optional read-through cache of read shapes keyed by public id.
// A miss is reported as nil, nil.
type Cache[R any] interface {
	Get(ctx context.Context, publicID string) (*R, error)
	Set(ctx context.Context, publicID string, value R) error
}

// Mapper converts between the three shapes of an entity.
type Mapper[C, S, R any] struct {
	// ToStorage builds the record to persist from client input.
	ToStorage func(ctx context.Context, input C) (S, error)

	// ToRead projects a stored record onto its client-safe shape.
	ToRead func(record S) R

	// PublicID extracts the public identifier of a read shape (cache key).
	PublicID func(value R) string
}

// Repository implements create/read/read-many over any entity.
type Repository[C, S, R any] struct {
	store  Store[S]
	mapper Mapper[C, S, R]
	cache  Cache[R]
	logger *slog.Logger
}

// Option customises a [Repository].
type Option[C, S, R any] func(*Repository[C, S, R])

// WithCache enables read-through caching of read shapes.
func WithCache[C, S, R any](cache Cache[R]) Option[C, S, R] {
	return func(repository *Repository[C, S, R]) {
		repository.cache = cache
	}
}

// WithLogger sets the logger used to report cache degradation.
func WithLogger[C, S, R any](logger *slog.Logger) Option[C, S, R] {
	return func(repository *Repository[C, S, R]) {
		if logger != nil {
			repository.logger = logger
		}
	}
}

// New constructs a [Repository]. ToStorage and ToRead are mandatory.
func New[C, S, R any](store Store[S], mapper Mapper[C, S, R], opts ...Option[C, S, R]) *Repository[C, S, R] {
	if mapper.ToStorage == nil || mapper.ToRead == nil {
		panic("crud: mapper requires ToStorage and ToRead")
	}

	repository := &Repository[C, S, R]{
		store:  store,
		mapper: mapper,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(repository)
	}

	return repository
}

// Create converts input to its storage shape, persists it and returns the
// read projection of what was stored.
func (repository *Repository[C, S, R]) Create(ctx context.Context, input C) (R, error) {
	var zero R

	record, err := repository.mapper.ToStorage(ctx, input)
	if err != nil {
		return zero, err
	}

	stored, err := repository.store.Insert(ctx, record)
	if err != nil {
		return zero, fmt.Errorf("crud_create_failed: %w", err)
	}

	created := repository.mapper.ToRead(stored)
	repository.remember(ctx, created)

	return created, nil
}

// Read looks up a record by public id. Absence is reported as nil, nil.
func (repository *Repository[C, S, R]) Read(ctx context.Context, publicID string) (*R, error) {
	if repository.cache != nil {
		cached, err := repository.cache.Get(ctx, publicID)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			repository.logger.WarnContext(ctx, "crud_cache_get_failed", slog.Any("error", err))
		}
	}

	record, err := repository.store.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("crud_read_failed: %w", err)
	}
	if record == nil {
		return nil, nil
	}

	value := repository.mapper.ToRead(*record)
	repository.remember(ctx, value)

	return pointer.To(value), nil
}

// ReadMulti returns every record's read projection in insertion order.
func (repository *Repository[C, S, R]) ReadMulti(ctx context.Context) ([]R, error) {
	records, err := repository.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("crud_read_multi_failed: %w", err)
	}

	values := slice.Map(records, repository.mapper.ToRead)
	if values == nil {
		values = []R{}
	}
	return values, nil
}

// remember stores value in the cache. Cache failures never fail the request.
func (repository *Repository[C, S, R]) remember(ctx context.Context, value R) {
	if repository.cache == nil || repository.mapper.PublicID == nil {
		return
	}

	if err := repository.cache.Set(ctx, repository.mapper.PublicID(value), value); err != nil {
		repository.logger.WarnContext(ctx, "crud_cache_set_failed", slog.Any("error", err))
	}
}
