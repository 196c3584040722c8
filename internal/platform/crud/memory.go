// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crud

import (
	"context"
	"fmt"
	"sync"

	"github.com/taibuivan/staffroom/pkg/pointer"
)

// uniqueIndex enforces that key yields distinct values across records.
type uniqueIndex[S any] struct {
	name string
	key  func(S) string
}

// MemoryStore is an insertion-ordered, process-local [Store].
//
// It mirrors the guarantees of the relational store: a monotonically
// increasing internal id, unique public ids, and optional named unique
// indexes checked atomically with the insert.
type MemoryStore[S any] struct {
	mu       sync.RWMutex
	records  []S
	nextID   int64
	publicID func(S) string
	assignID func(S, int64) S
	indexes  []uniqueIndex[S]
}

// MemoryOption customises a [MemoryStore].
type MemoryOption[S any] func(*MemoryStore[S])

// WithUniqueIndex rejects inserts whose key collides with an existing record.
// The conflict error names the index.
func WithUniqueIndex[S any](name string, key func(S) string) MemoryOption[S] {
	return func(store *MemoryStore[S]) {
		store.indexes = append(store.indexes, uniqueIndex[S]{name: name, key: key})
	}
}

// NewMemoryStore creates an empty store. publicID reads a record's public id;
// assignID returns the record with its internal id set.
func NewMemoryStore[S any](publicID func(S) string, assignID func(S, int64) S, opts ...MemoryOption[S]) *MemoryStore[S] {
	store := &MemoryStore[S]{publicID: publicID, assignID: assignID}
	store.indexes = append(store.indexes, uniqueIndex[S]{name: "public_id", key: publicID})
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Insert implements [Store].
func (store *MemoryStore[S]) Insert(ctx context.Context, record S) (S, error) {
	if err := ctx.Err(); err != nil {
		return record, err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	for _, index := range store.indexes {
		candidate := index.key(record)
		for _, existing := range store.records {
			if index.key(existing) == candidate {
				return record, fmt.Errorf("%w: %s", ErrConflict, index.name)
			}
		}
	}

	store.nextID++
	record = store.assignID(record, store.nextID)
	store.records = append(store.records, record)

	return record, nil
}

// FindByPublicID implements [Store].
func (store *MemoryStore[S]) FindByPublicID(ctx context.Context, publicID string) (*S, error) {
	return store.Find(ctx, func(record S) bool {
		return store.publicID(record) == publicID
	})
}

// Find returns the first record matching predicate, or nil, nil.
func (store *MemoryStore[S]) Find(ctx context.Context, predicate func(S) bool) (*S, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store.mu.RLock()
	defer store.mu.RUnlock()

	for _, record := range store.records {
		if predicate(record) {
			return pointer.To(record), nil
		}
	}
	return nil, nil
}

// List implements [Store].
func (store *MemoryStore[S]) List(ctx context.Context) ([]S, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store.mu.RLock()
	defer store.mu.RUnlock()

	records := make([]S, len(store.records))
	copy(records, store.records)
	return records, nil
}
