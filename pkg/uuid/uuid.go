// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides the record identifiers used across the book API.

Records are keyed by UUIDv7: naturally ordered by creation time, friendly to
PostgreSQL B-tree indexes, and stored in the native 'uuid' column type.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// Canonical parses s and returns its canonical lowercase form.
//
// The second result is false when s is not a UUID at all; such an identifier
// can never match a stored record.
func Canonical(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
