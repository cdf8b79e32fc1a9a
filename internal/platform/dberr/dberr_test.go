// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, dberr.Wrap(nil, "op"))
	})

	t.Run("no_rows", func(t *testing.T) {
		err := dberr.Wrap(fmt.Errorf("scan: %w", pgx.ErrNoRows), "find_book")
		assert.True(t, dberr.IsNotFound(err))
	})

	t.Run("other", func(t *testing.T) {
		err := dberr.Wrap(context.DeadlineExceeded, "count_books")

		assert.False(t, dberr.IsNotFound(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		var storeErr *dberr.Error
		require.True(t, errors.As(err, &storeErr))
		assert.Equal(t, "count_books", storeErr.Op)
	})

	t.Run("already_wrapped", func(t *testing.T) {
		first := dberr.Wrap(errors.New("broken pipe"), "insert_book")
		assert.Same(t, first, dberr.Wrap(first, "outer"))
	})
}

func TestMessage(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23514", Message: `new row violates check constraint "book_stock_check"`}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"postgres", dberr.Wrap(pgErr, "insert_book"), `new row violates check constraint "book_stock_check"`},
		{"store_error", dberr.Wrap(errors.New("connection refused"), "insert_book"), "connection refused"},
		{"plain", errors.New("plain failure"), "plain failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dberr.Message(tt.err))
		})
	}
}
