// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee

import (
	"context"

	"github.com/taibuivan/staffroom/internal/platform/crud"
)

// Store defines the data access contract for employee records.
//
// # Implementations
//
//   - [PostgresStore]: the production store, backed by staff.employee.
//   - [MemoryStore]: a process-local store for development and tests.
//
// Both enforce email uniqueness at insert time and report a collision as an
// error wrapping [crud.ErrConflict].
type Store interface {
	crud.Store[Record]

	// FindByEmail returns the record with exactly this email, or nil, nil.
	FindByEmail(ctx context.Context, email string) (*Record, error)
}
