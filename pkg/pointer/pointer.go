// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer holds generic pointer helpers.
package pointer

// To returns a pointer to a copy of v. Mutating the result never affects the
// caller's value, which is how stores hand out records without aliasing.
func To[T any](v T) *T {
	return &v
}
