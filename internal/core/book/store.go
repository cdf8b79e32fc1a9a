// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import "context"

// Filter narrows the live books a read operates on.
//
// Soft-deleted rows are always excluded; that predicate is not optional.
type Filter struct {
	// Search matches title or author by case-insensitive substring, or a genre
	// exactly. Empty means no search.
	Search string
}

// Window selects a slice of the ordered result.
type Window struct {
	Offset int
	// Limit is nil for "every remaining row".
	Limit *int
}

// Patch describes a mutation applied to a single live book.
//
// updatedAt is refreshed by every patch.
type Patch struct {
	// Fields replaces all client-controlled fields when set.
	Fields *Input
	// SoftDelete stamps deletedAt with the current time.
	SoftDelete bool
}

// Repository persists books.
//
// Implementations report "no live row matched" as [dberr.ErrNotFound] and
// every other failure as a wrapped store error.
type Repository interface {
	Insert(context context.Context, book *Book) error
	FindMany(context context.Context, filter Filter, window Window) ([]*Book, error)
	Count(context context.Context, filter Filter) (int, error)
	FindOne(context context.Context, id string) (*Book, error)
	UpdateWhere(context context.Context, id string, patch Patch) (*Book, error)
}
