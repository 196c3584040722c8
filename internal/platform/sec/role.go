// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Role represents the authorization level granted to an identity.
type Role string

const (
	// Full access, including the employee directory listing
	RoleAdmin Role = "admin"

	// Default role for every self-registered employee
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// String implements [fmt.Stringer].
func (r Role) String() string {
	return string(r)
}
