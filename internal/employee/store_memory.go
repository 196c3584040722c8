// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee

import (
	"context"
	"time"

	"github.com/taibuivan/staffroom/internal/platform/crud"
	"github.com/taibuivan/staffroom/internal/platform/database/schema"
)

// MemoryStore is a process-local [Store]. Data does not survive a restart.
type MemoryStore struct {
	*crud.MemoryStore[Record]
	now func() time.Time
}

// NewMemoryStore creates an empty store with a unique email index named
// after the relational constraint.
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{now: time.Now}
	store.MemoryStore = crud.NewMemoryStore(
		func(record Record) string { return record.PublicID },
		func(record Record, id int64) Record {
			record.ID = id
			if record.CreatedAt.IsZero() {
				record.CreatedAt = store.now().UTC()
			}
			return record
		},
		crud.WithUniqueIndex(schema.EmailConstraint, func(record Record) string { return record.Email }),
	)
	return store
}

// FindByEmail implements [Store].
func (store *MemoryStore) FindByEmail(ctx context.Context, email string) (*Record, error) {
	return store.Find(ctx, func(record Record) bool {
		return record.Email == email
	})
}
