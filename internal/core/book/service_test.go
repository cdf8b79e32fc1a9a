// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

func newTestService() (*book.Service, *memoryRepository) {
	repo := newMemoryRepository()
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	return book.NewService(repo, logger), repo
}

var orwell = book.Input{
	Title:         "1984",
	Author:        "Orwell",
	PublishedYear: 1949,
	Genres:        []string{"Dystopian"},
	Stock:         5,
}

// idOf returns the id of the only live book titled title.
func idOf(t *testing.T, service *book.Service, title string) string {
	t.Helper()

	page, err := service.List(context.Background(), book.Query{Params: pagination.All()})
	require.NoError(t, err)
	for _, b := range page.Data {
		if b.Title == title {
			return b.ID
		}
	}
	t.Fatalf("no live book titled %q", title)
	return ""
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()

	appErr := apperr.As(err)
	require.NotNil(t, appErr, "expected an AppError, got %v", err)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)
	assert.Equal(t, "No Book found.", appErr.Message)
}

/*
TestService_Lifecycle follows one book from create to soft delete.
*/
func TestService_Lifecycle(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, orwell)
	require.NoError(t, err)
	assert.Equal(t, orwell, created)

	id := idOf(t, service, "1984")

	detail, err := service.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, book.Detail{
		ID:            id,
		Title:         "1984",
		Author:        "Orwell",
		PublishedYear: 1949,
		Genres:        []string{"Dystopian"},
		Stock:         5,
	}, detail)

	ack, err := service.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Book deleted successfully", ack.Message)

	_, err = service.Detail(ctx, id)
	assertNotFound(t, err)
}

func TestService_Update(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Create(ctx, orwell)
	require.NoError(t, err)
	id := idOf(t, service, "1984")

	replacement := book.Input{
		Title:         "Nineteen Eighty-Four",
		Author:        "George Orwell",
		PublishedYear: 1949,
		Genres:        []string{"Dystopian", "Classics"},
		Stock:         0,
	}

	detail, err := service.Update(ctx, id, replacement)
	require.NoError(t, err)
	assert.Equal(t, id, detail.ID)
	assert.Equal(t, replacement.Title, detail.Title)
	assert.Equal(t, replacement.Genres, detail.Genres)
	assert.Zero(t, detail.Stock)

	page, err := service.List(ctx, book.Query{Params: pagination.All()})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.True(t, page.Data[0].UpdatedAt.After(page.Data[0].CreatedAt), "update refreshes updatedAt")
}

/*
TestService_MissingBook covers NOT_FOUND on every single-book operation.
*/
func TestService_MissingBook(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	for _, id := range []string{"0191f1c4-7b7a-7cc0-8e55-3c1b5e0d9a10", "not-a-uuid", ""} {
		t.Run(fmt.Sprintf("id=%q", id), func(t *testing.T) {
			_, err := service.Detail(ctx, id)
			assertNotFound(t, err)

			_, err = service.Update(ctx, id, orwell)
			assertNotFound(t, err)

			_, err = service.Delete(ctx, id)
			assertNotFound(t, err)
		})
	}
}

func TestService_DeleteTwice(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Create(ctx, orwell)
	require.NoError(t, err)
	id := idOf(t, service, "1984")

	_, err = service.Delete(ctx, id)
	require.NoError(t, err)

	_, err = service.Delete(ctx, id)
	assertNotFound(t, err)

	_, err = service.Update(ctx, id, orwell)
	assertNotFound(t, err)
}

/*
TestService_Search checks title/author substring and exact genre matching.
*/
func TestService_Search(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	seed := []book.Input{
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", PublishedYear: 1925, Genres: []string{"Fiction", "Classics"}, Stock: 3},
		{Title: "Dune", Author: "Frank Herbert", PublishedYear: 1965, Genres: []string{"Science Fiction"}, Stock: 7},
		{Title: "Sapiens", Author: "Yuval Noah Harari", PublishedYear: 2011, Genres: []string{"History"}, Stock: 2},
	}
	for _, input := range seed {
		_, err := service.Create(ctx, input)
		require.NoError(t, err)
	}

	tests := []struct {
		search string
		titles []string
	}{
		{"gatsby", []string{"The Great Gatsby"}},
		{"HERBERT", []string{"Dune"}},
		{"Fiction", []string{"The Great Gatsby"}},
		{"Science Fiction", []string{"Dune"}},
		{"fic", nil},
		{"Classics", []string{"The Great Gatsby"}},
		{"%", nil},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			page, err := service.List(ctx, book.Query{Params: pagination.Page(1, 10), Search: tt.search})
			require.NoError(t, err)

			var titles []string
			for _, b := range page.Data {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tt.titles, titles)
			assert.Equal(t, len(tt.titles), page.TotalDatas)
		})
	}
}

func TestService_ListOrderAndPaging(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := service.Create(ctx, book.Input{
			Title: fmt.Sprintf("Book %d", i), Author: "A", PublishedYear: 2000, Genres: []string{"G"}, Stock: i,
		})
		require.NoError(t, err)
	}

	page, err := service.List(ctx, book.Query{Params: pagination.Page(2, 2)})
	require.NoError(t, err)

	assert.Equal(t, 5, page.TotalDatas)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Book 3", page.Data[0].Title, "newest first")
	assert.Equal(t, "Book 2", page.Data[1].Title)

	t.Run("unbounded", func(t *testing.T) {
		all, err := service.List(ctx, book.Query{Params: pagination.All()})
		require.NoError(t, err)

		assert.Len(t, all.Data, 5)
		assert.Equal(t, 5, all.TotalDatas)
		assert.Equal(t, 0, all.Limit)
		assert.Equal(t, 1, all.TotalPages)
	})

	t.Run("past_the_end", func(t *testing.T) {
		empty, err := service.List(ctx, book.Query{Params: pagination.Page(9, 2)})
		require.NoError(t, err)

		assert.NotNil(t, empty.Data)
		assert.Empty(t, empty.Data)
		assert.Equal(t, 5, empty.TotalDatas)
	})
}

/*
TestService_ErrorClassification ensures only the store's no-row signal becomes
NOT_FOUND and everything else INVALID_OPERATION.
*/
func TestService_ErrorClassification(t *testing.T) {
	ctx := context.Background()
	id := "0191f1c4-7b7a-7cc0-8e55-3c1b5e0d9a10"

	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{"no_row", dberr.ErrNotFound, apperr.CodeNotFound, "No Book found."},
		{
			"constraint",
			dberr.Wrap(&pgconn.PgError{Code: "23514", Message: `new row violates check constraint "book_stock_check"`}, "update_book"),
			apperr.CodeInvalidOperation,
			`new row violates check constraint "book_stock_check"`,
		},
		{"timeout", dberr.Wrap(context.DeadlineExceeded, "update_book"), apperr.CodeInvalidOperation, "context deadline exceeded"},
		{"no_message", errors.New(""), apperr.CodeInvalidOperation, apperr.FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newTestService()
			repo.failAll(tt.err)

			for name, call := range map[string]func() error{
				"detail": func() error { _, err := service.Detail(ctx, id); return err },
				"update": func() error { _, err := service.Update(ctx, id, orwell); return err },
				"delete": func() error { _, err := service.Delete(ctx, id); return err },
			} {
				appErr := apperr.As(call())
				require.NotNil(t, appErr, name)
				assert.Equal(t, tt.code, appErr.Code, name)
				assert.Equal(t, tt.message, appErr.Message, name)
			}
		})
	}

	t.Run("create_and_list_never_not_found", func(t *testing.T) {
		service, repo := newTestService()
		repo.failAll(dberr.ErrNotFound)

		_, err := service.Create(ctx, orwell)
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidOperation))

		_, err = service.List(ctx, book.Query{Params: pagination.Page(1, 10)})
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidOperation))
	})

	t.Run("cause_is_kept", func(t *testing.T) {
		service, repo := newTestService()
		repo.failAll(dberr.Wrap(context.Canceled, "insert_book"))

		_, err := service.Create(ctx, orwell)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// # Properties

var genInput = rapid.Custom(func(t *rapid.T) book.Input {
	return book.Input{
		Title:         rapid.StringMatching(`[A-Za-z0-9 ]{1,40}`).Draw(t, "title"),
		Author:        rapid.StringMatching(`[A-Za-z .]{1,30}`).Draw(t, "author"),
		PublishedYear: rapid.IntRange(book.MinPublishedYear, book.MaxPublishedYear).Draw(t, "publishedYear"),
		Genres:        rapid.SliceOfN(rapid.StringMatching(`[A-Z][a-z]{2,12}`), 1, 4).Draw(t, "genres"),
		Stock:         rapid.IntRange(0, 10_000).Draw(t, "stock"),
	}
})

/*
TestService_CreateEchoesInput_Property checks create returns exactly its input.
*/
func TestService_CreateEchoesInput_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		service, _ := newTestService()
		input := genInput.Draw(t, "input")

		created, err := service.Create(context.Background(), input)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		assert.Equal(t, input, created)
	})
}

/*
TestService_ListPaging_Property checks page metadata and that deleted books
never appear.
*/
func TestService_ListPaging_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		service, repo := newTestService()
		ctx := context.Background()

		count := rapid.IntRange(0, 30).Draw(t, "count")
		for i := 0; i < count; i++ {
			if _, err := service.Create(ctx, genInput.Draw(t, "input")); err != nil {
				t.Fatalf("create: %v", err)
			}
		}

		deleted := map[string]bool{}
		for _, b := range repo.books {
			if rapid.Bool().Draw(t, "delete") {
				if _, err := service.Delete(ctx, b.ID); err != nil {
					t.Fatalf("delete: %v", err)
				}
				deleted[b.ID] = true
			}
		}

		page := rapid.IntRange(1, 10).Draw(t, "page")
		limit := rapid.IntRange(1, pagination.MaxLimit).Draw(t, "limit")

		result, err := service.List(ctx, book.Query{Params: pagination.Page(page, limit)})
		if err != nil {
			t.Fatalf("list: %v", err)
		}

		live := count - len(deleted)
		if result.TotalDatas != live {
			t.Fatalf("totalDatas = %d, want %d", result.TotalDatas, live)
		}
		if want := (live + limit - 1) / limit; result.TotalPages != want {
			t.Fatalf("totalPages = %d, want %d", result.TotalPages, want)
		}
		if len(result.Data) > limit {
			t.Fatalf("page holds %d books, limit %d", len(result.Data), limit)
		}
		for _, b := range result.Data {
			if deleted[b.ID] || b.DeletedAt != nil {
				t.Fatalf("deleted book %s listed", b.ID)
			}
		}
	})
}
