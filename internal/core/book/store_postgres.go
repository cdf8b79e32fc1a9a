// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"
	// postgres dialect renders $n placeholders and ILIKE.
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/pkg/uuid"
)

const tracerName = "github.com/taibuivan/bookshelf/internal/core/book"

var dialect = goqu.Dialect("postgres")

// querier is the subset of [pgxpool.Pool] the repository uses.
type querier interface {
	Query(context context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(context context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements [Repository] on top of pgx.
type PostgresRepository struct {
	db     querier
	tracer trace.Tracer
}

// NewPostgresRepository accepts a *pgxpool.Pool or any compatible querier.
func NewPostgresRepository(db querier) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		tracer: otel.Tracer(tracerName),
	}
}

// # Predicates

// livePredicate excludes soft-deleted rows and ANDs in any extra conditions.
// Every read and write goes through it.
func livePredicate(extra ...goqu.Expression) goqu.Expression {
	conditions := append([]goqu.Expression{goqu.C(schema.Book.DeletedAt).IsNull()}, extra...)
	return goqu.And(conditions...)
}

func filterPredicate(filter Filter) goqu.Expression {
	if filter.Search == "" {
		return livePredicate()
	}
	return livePredicate(searchPredicate(filter.Search))
}

// searchPredicate matches title or author by substring (case-insensitive) or
// the genres array by exact element.
func searchPredicate(term string) goqu.Expression {
	pattern := "%" + escapeLike(term) + "%"
	return goqu.Or(
		goqu.C(schema.Book.Title).ILike(pattern),
		goqu.C(schema.Book.Author).ILike(pattern),
		goqu.L("? = ANY(?)", term, goqu.C(schema.Book.Genres)),
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// # Statements

func selectManySQL(filter Filter, window Window) (string, []any, error) {
	statement := dialect.From(schema.Book.Table).Prepared(true).
		Select(schema.Book.Columns()...).
		Where(filterPredicate(filter)).
		Order(goqu.C(schema.Book.CreatedAt).Desc(), goqu.C(schema.Book.ID).Desc())

	if window.Offset > 0 {
		statement = statement.Offset(uint(window.Offset))
	}
	if window.Limit != nil {
		statement = statement.Limit(uint(*window.Limit))
	}

	return statement.ToSQL()
}

func countSQL(filter Filter) (string, []any, error) {
	return dialect.From(schema.Book.Table).Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(filterPredicate(filter)).
		ToSQL()
}

func selectOneSQL(id string) (string, []any, error) {
	return dialect.From(schema.Book.Table).Prepared(true).
		Select(schema.Book.Columns()...).
		Where(livePredicate(goqu.C(schema.Book.ID).Eq(id))).
		Limit(1).
		ToSQL()
}

func insertSQL(book *Book) (string, []any, error) {
	return dialect.Insert(schema.Book.Table).Prepared(true).
		Rows(goqu.Record{
			schema.Book.ID:            book.ID,
			schema.Book.Title:         book.Title,
			schema.Book.Author:        book.Author,
			schema.Book.PublishedYear: book.PublishedYear,
			schema.Book.Genres:        pq.StringArray(book.Genres),
			schema.Book.Stock:         book.Stock,
			schema.Book.CreatedAt:     goqu.L("NOW()"),
			schema.Book.UpdatedAt:     goqu.L("NOW()"),
		}).
		Returning(schema.Book.Columns()...).
		ToSQL()
}

func updateSQL(id string, patch Patch) (string, []any, error) {
	record := goqu.Record{schema.Book.UpdatedAt: goqu.L("NOW()")}

	if fields := patch.Fields; fields != nil {
		record[schema.Book.Title] = fields.Title
		record[schema.Book.Author] = fields.Author
		record[schema.Book.PublishedYear] = fields.PublishedYear
		record[schema.Book.Genres] = pq.StringArray(fields.Genres)
		record[schema.Book.Stock] = fields.Stock
	}
	if patch.SoftDelete {
		record[schema.Book.DeletedAt] = goqu.L("NOW()")
	}

	return dialect.Update(schema.Book.Table).Prepared(true).
		Set(record).
		Where(livePredicate(goqu.C(schema.Book.ID).Eq(id))).
		Returning(schema.Book.Columns()...).
		ToSQL()
}

// # Repository

// Insert stores book and refreshes it with the persisted timestamps.
func (repository *PostgresRepository) Insert(context context.Context, book *Book) error {
	context, span := repository.tracer.Start(context, "book.store.insert",
		trace.WithAttributes(attribute.String("book.id", book.ID)),
	)
	defer span.End()

	query, args, err := insertSQL(book)
	if err != nil {
		return fail(span, dberr.Wrap(err, "build_insert_book"))
	}

	if err := scanBook(repository.db.QueryRow(context, query, args...), book); err != nil {
		return fail(span, dberr.Wrap(err, "insert_book"))
	}
	return nil
}

// FindMany returns live books matching filter, newest first.
func (repository *PostgresRepository) FindMany(context context.Context, filter Filter, window Window) ([]*Book, error) {
	context, span := repository.tracer.Start(context, "book.store.find_many",
		trace.WithAttributes(
			attribute.Bool("book.search", filter.Search != ""),
			attribute.Int("window.offset", window.Offset),
			attribute.Bool("window.bounded", window.Limit != nil),
		),
	)
	defer span.End()

	query, args, err := selectManySQL(filter, window)
	if err != nil {
		return nil, fail(span, dberr.Wrap(err, "build_list_books"))
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, fail(span, dberr.Wrap(err, "list_books"))
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		book := &Book{}
		if err := scanBook(rows, book); err != nil {
			return nil, fail(span, dberr.Wrap(err, "scan_book"))
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(span, dberr.Wrap(err, "list_books"))
	}

	span.SetAttributes(attribute.Int("book.count", len(books)))
	return books, nil
}

// Count returns the number of live books matching filter.
func (repository *PostgresRepository) Count(context context.Context, filter Filter) (int, error) {
	context, span := repository.tracer.Start(context, "book.store.count",
		trace.WithAttributes(attribute.Bool("book.search", filter.Search != "")),
	)
	defer span.End()

	query, args, err := countSQL(filter)
	if err != nil {
		return 0, fail(span, dberr.Wrap(err, "build_count_books"))
	}

	var total int
	if err := repository.db.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, fail(span, dberr.Wrap(err, "count_books"))
	}
	return total, nil
}

// FindOne returns the live book with the given id.
//
// An id that is not a UUID cannot match any row and reports not-found.
func (repository *PostgresRepository) FindOne(context context.Context, id string) (*Book, error) {
	context, span := repository.tracer.Start(context, "book.store.find_one",
		trace.WithAttributes(attribute.String("book.id", id)),
	)
	defer span.End()

	canonical, ok := uuid.Canonical(id)
	if !ok {
		return nil, dberr.ErrNotFound
	}

	query, args, err := selectOneSQL(canonical)
	if err != nil {
		return nil, fail(span, dberr.Wrap(err, "build_get_book"))
	}

	book := &Book{}
	if err := scanBook(repository.db.QueryRow(context, query, args...), book); err != nil {
		return nil, fail(span, dberr.Wrap(err, "get_book"))
	}
	return book, nil
}

// UpdateWhere applies patch to the live book with the given id and returns
// the row as stored afterwards.
func (repository *PostgresRepository) UpdateWhere(context context.Context, id string, patch Patch) (*Book, error) {
	context, span := repository.tracer.Start(context, "book.store.update",
		trace.WithAttributes(
			attribute.String("book.id", id),
			attribute.Bool("book.soft_delete", patch.SoftDelete),
		),
	)
	defer span.End()

	canonical, ok := uuid.Canonical(id)
	if !ok {
		return nil, dberr.ErrNotFound
	}

	query, args, err := updateSQL(canonical, patch)
	if err != nil {
		return nil, fail(span, dberr.Wrap(err, "build_update_book"))
	}

	book := &Book{}
	if err := scanBook(repository.db.QueryRow(context, query, args...), book); err != nil {
		return nil, fail(span, dberr.Wrap(err, "update_book"))
	}
	return book, nil
}

// # Helpers

// scanBook reads one row in [schema.BookTable.Columns] order.
func scanBook(row pgx.Row, book *Book) error {
	return row.Scan(
		&book.ID, &book.Title, &book.Author, &book.PublishedYear, &book.Genres,
		&book.Stock, &book.CreatedAt, &book.UpdatedAt, &book.DeletedAt,
	)
}

// fail records err on span unless it is the expected not-found outcome.
func fail(span trace.Span, err error) error {
	if !dberr.IsNotFound(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, dberr.Message(err))
	}
	return err
}
