// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book implements the book resource: the records themselves, the store
contract they are persisted through, the service that owns the business rules,
and the HTTP transport that exposes them.

Records are never physically removed. Deleting a book stamps its deletedAt
column, after which every operation treats it as absent.
*/
package book

import (
	"time"

	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// Resource is the name used in client-facing messages ("No Book found.").
const Resource = "Book"

// DeletedMessage acknowledges a successful delete.
const DeletedMessage = "Book deleted successfully"

// Accepted publication years.
const (
	MinPublishedYear = 1500
	MaxPublishedYear = 3000
)

// Global field names for validation
const (
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldPublishedYear = "publishedYear"
	FieldGenres        = "genres"
	FieldStock         = "stock"
	FieldSearch        = "search"
)

// Book is a stored book record.
//
// This is also the shape of list items: timestamps included.
type Book struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	PublishedYear int        `json:"publishedYear"`
	Genres        []string   `json:"genres"`
	Stock         int        `json:"stock"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	DeletedAt     *time.Time `json:"deletedAt"`
}

// Input carries the client-controlled fields of a book.
//
// It is the create/update payload and also the create response.
type Input struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	PublishedYear int      `json:"publishedYear"`
	Genres        []string `json:"genres"`
	Stock         int      `json:"stock"`
}

// Detail is the projection returned by detail and update.
type Detail struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	PublishedYear int      `json:"publishedYear"`
	Genres        []string `json:"genres"`
	Stock         int      `json:"stock"`
}

// Acknowledgement is the delete response.
type Acknowledgement struct {
	Message string `json:"message"`
}

// Query is a list request: paging plus an optional free-text search.
type Query struct {
	pagination.Params
	Search string
}

// # Projections

// Fields returns the client-controlled fields of b.
func (b *Book) Fields() Input {
	return Input{
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		Genres:        b.Genres,
		Stock:         b.Stock,
	}
}

// Detail projects b without its timestamps.
func (b *Book) Detail() Detail {
	return Detail{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		Genres:        b.Genres,
		Stock:         b.Stock,
	}
}
