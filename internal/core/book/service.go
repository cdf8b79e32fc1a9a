// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"log/slog"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/pkg/pagination"
	"github.com/taibuivan/bookshelf/pkg/uuid"
)

// Service implements the book operations on top of a [Repository].
//
// Inputs are assumed to be validated by the transport. Every store failure
// leaves the service as an [apperr.AppError]: NOT_FOUND when no live row
// matched, INVALID_OPERATION otherwise.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create persists a new book and echoes its client-controlled fields.
func (service *Service) Create(context context.Context, input Input) (Input, error) {
	book := &Book{
		ID:            uuid.New(),
		Title:         input.Title,
		Author:        input.Author,
		PublishedYear: input.PublishedYear,
		Genres:        input.Genres,
		Stock:         input.Stock,
	}

	if err := service.repo.Insert(context, book); err != nil {
		return Input{}, service.invalid(context, "create", err)
	}

	service.logger.InfoContext(context, "book_created", slog.String("book_id", book.ID))
	return book.Fields(), nil
}

// List returns one page of live books, newest first.
//
// Unbounded params return every match in a single page.
func (service *Service) List(context context.Context, query Query) (pagination.Envelope[*Book], error) {
	filter := Filter{Search: query.Search}
	window := Window{Offset: query.Offset(), Limit: query.Limit}

	books, err := service.repo.FindMany(context, filter, window)
	if err != nil {
		return pagination.Envelope[*Book]{}, service.invalid(context, "list", err)
	}

	total, err := service.repo.Count(context, filter)
	if err != nil {
		return pagination.Envelope[*Book]{}, service.invalid(context, "count", err)
	}

	return pagination.NewEnvelope(books, total, query.Params), nil
}

// Detail returns the live book with the given id.
func (service *Service) Detail(context context.Context, id string) (Detail, error) {
	book, err := service.repo.FindOne(context, id)
	if err != nil {
		return Detail{}, service.classify(context, "detail", err)
	}
	return book.Detail(), nil
}

// Update replaces all client-controlled fields of a live book.
func (service *Service) Update(context context.Context, id string, input Input) (Detail, error) {
	book, err := service.repo.UpdateWhere(context, id, Patch{Fields: &input})
	if err != nil {
		return Detail{}, service.classify(context, "update", err)
	}

	service.logger.InfoContext(context, "book_updated", slog.String("book_id", book.ID))
	return book.Detail(), nil
}

// Delete soft-deletes a live book. A second delete reports NOT_FOUND.
func (service *Service) Delete(context context.Context, id string) (Acknowledgement, error) {
	book, err := service.repo.UpdateWhere(context, id, Patch{SoftDelete: true})
	if err != nil {
		return Acknowledgement{}, service.classify(context, "delete", err)
	}

	service.logger.WarnContext(context, "book_deleted", slog.String("book_id", book.ID))
	return Acknowledgement{Message: DeletedMessage}, nil
}

// # Error classification

// classify maps a store failure on a single-book operation.
func (service *Service) classify(context context.Context, op string, err error) error {
	if dberr.IsNotFound(err) {
		return apperr.NotFound(Resource)
	}
	return service.invalid(context, op, err)
}

// invalid maps any store failure to INVALID_OPERATION, carrying the store's
// message when it has one.
func (service *Service) invalid(context context.Context, op string, err error) error {
	service.logger.ErrorContext(context, "book_store_failed",
		slog.String("op", op),
		slog.Any("error", err),
	)
	return apperr.InvalidOperation(dberr.Message(err), err)
}
