// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates and checks the public identifiers exposed by the API.

Public identifiers are random (version 4) so that they reveal neither creation
order nor the sequential storage key behind them.
*/
package uuid

import "github.com/google/uuid"

// New generates a new random UUIDv4 string.
func New() string {

	// entropy failure is an unrecoverable system-level error
	id, err := uuid.NewRandom()
	if err != nil {
		panic("uuid: failed to generate UUID: " + err.Error())
	}

	return id.String()
}

// Valid reports whether s is a canonical, hyphenated UUID string.
func Valid(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
