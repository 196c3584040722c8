// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package employee implements the employee directory: registration, lookup
// and credential login.
//
// # Architecture
//
// An employee exists in three shapes:
//
//   - [CreateInput]: what a client sends, including the plaintext password.
//   - [Record]: what is persisted, with the bcrypt hash and derived fields.
//   - [Employee]: the read shape, the only one ever written to a response.
//
// The generic [crud.Repository] moves records between storage and read shape.
// This package supplies the employee-specific mapping and lookups.
package employee

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/staffroom/internal/platform/sec"
)

// Field names as they appear on the wire and in validation details.
const (
	FieldFirstName  = "first_name"
	FieldMiddleName = "middle_name"
	FieldLastName   = "last_name"
	FieldEmail      = "email"
	FieldPassword   = "password"
)

// Input limits.
const (
	MaxNameLength     = 100
	MaxEmailLength    = 254
	MinPasswordLength = 8
)

// CreateInput is the registration payload.
type CreateInput struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`

	// Role is never read from the wire. Empty means [sec.RoleEmployee].
	Role sec.Role `json:"-"`
}

// Record is the persisted employee row.
//
// ID is the storage key and never leaves this package's stores.
type Record struct {
	ID             int64
	PublicID       string
	FirstName      string
	MiddleName     string
	LastName       string
	FullName       string
	Email          string
	HashedPassword string
	Role           sec.Role
	CreatedAt      time.Time
}

// Employee is the client-safe projection of a [Record].
type Employee struct {
	PublicID   string    `json:"public_id"`
	FirstName  string    `json:"first_name"`
	MiddleName string    `json:"middle_name"`
	LastName   string    `json:"last_name"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Role       sec.Role  `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// Principal returns the identity tokens are minted for.
func (record Record) Principal() sec.Principal {
	return sec.Principal{PublicID: record.PublicID, Role: record.Role}
}

// ToEmployee projects a stored record onto its read shape.
func ToEmployee(record Record) Employee {
	return Employee{
		PublicID:   record.PublicID,
		FirstName:  record.FirstName,
		MiddleName: record.MiddleName,
		LastName:   record.LastName,
		FullName:   record.FullName,
		Email:      record.Email,
		Role:       record.Role,
		CreatedAt:  record.CreatedAt,
	}
}

// FullName joins the name parts with single spaces.
//
// Empty parts are kept, so a missing middle name yields a double space
// ("Ada  Lovelace").
func FullName(first, middle, last string) string {
	return strings.Join([]string{first, middle, last}, " ")
}

// NormalizeName composes a name part to NFC so that visually identical
// names are stored, and compared, byte for byte the same.
func NormalizeName(part string) string {
	return norm.NFC.String(part)
}
