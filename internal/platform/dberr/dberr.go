// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// the store contract seen by services.
//
// Stores report exactly two kinds of failure: [ErrNotFound] when no row
// matched the predicate, and [*Error] for everything else. Services decide
// how to present each kind; this package never produces HTTP-level errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is the store signal for "no row matched the predicate".
var ErrNotFound = errors.New("dberr: no row matched the predicate")

// Error is a store failure other than [ErrNotFound].
type Error struct {
	// Op names the store operation that failed (e.g. "insert_book").
	Op string
	// Err is the driver error.
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Wrap inspects a database error and classifies it for the caller.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}

	// 2. Already classified
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return err
	}

	return &Error{Op: op, Err: err}
}

// IsNotFound reports whether err is the store's no-row signal.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Message returns the most specific human-readable text for err.
//
// A PostgreSQL error contributes its primary message only (no SQLSTATE
// suffix); any other error contributes its full text. A nil error yields "".
func Message(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Message != "" {
		return pgErr.Message
	}

	var storeErr *Error
	if errors.As(err, &storeErr) && storeErr.Err != nil {
		return storeErr.Err.Error()
	}

	return err.Error()
}
