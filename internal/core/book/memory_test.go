// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

// memoryRepository is an in-process [book.Repository] with the same
// filtering, ordering and not-found semantics as the Postgres store.
type memoryRepository struct {
	mu    sync.Mutex
	books []*book.Book
	clock time.Time

	// failWith, when set, is returned by every call.
	failWith error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memoryRepository) tick() time.Time {
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

func (m *memoryRepository) Insert(_ context.Context, b *book.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}

	now := m.tick()
	b.CreatedAt, b.UpdatedAt, b.DeletedAt = now, now, nil

	stored := *b
	stored.Genres = slices.Clone(b.Genres)
	m.books = append(m.books, &stored)
	return nil
}

func (m *memoryRepository) FindMany(_ context.Context, filter book.Filter, window book.Window) ([]*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	matched := m.matching(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if window.Offset >= len(matched) {
		return []*book.Book{}, nil
	}
	matched = matched[window.Offset:]
	if window.Limit != nil && *window.Limit < len(matched) {
		matched = matched[:*window.Limit]
	}
	return matched, nil
}

func (m *memoryRepository) Count(_ context.Context, filter book.Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return 0, m.failWith
	}
	return len(m.matching(filter)), nil
}

func (m *memoryRepository) FindOne(_ context.Context, id string) (*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	stored := m.live(id)
	if stored == nil {
		return nil, dberr.ErrNotFound
	}
	found := *stored
	return &found, nil
}

func (m *memoryRepository) UpdateWhere(_ context.Context, id string, patch book.Patch) (*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	stored := m.live(id)
	if stored == nil {
		return nil, dberr.ErrNotFound
	}

	now := m.tick()
	if fields := patch.Fields; fields != nil {
		stored.Title = fields.Title
		stored.Author = fields.Author
		stored.PublishedYear = fields.PublishedYear
		stored.Genres = slices.Clone(fields.Genres)
		stored.Stock = fields.Stock
	}
	if patch.SoftDelete {
		stored.DeletedAt = &now
	}
	stored.UpdatedAt = now

	updated := *stored
	return &updated, nil
}

// live returns the stored, non-deleted book with id. Caller holds mu.
func (m *memoryRepository) live(id string) *book.Book {
	for _, b := range m.books {
		if b.ID == id && b.DeletedAt == nil {
			return b
		}
	}
	return nil
}

// matching returns copies of live books matching filter. Caller holds mu.
func (m *memoryRepository) matching(filter book.Filter) []*book.Book {
	term := strings.ToLower(filter.Search)

	var out []*book.Book
	for _, b := range m.books {
		if b.DeletedAt != nil {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(b.Title), term) &&
			!strings.Contains(strings.ToLower(b.Author), term) &&
			!slices.Contains(b.Genres, filter.Search) {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out
}

func (m *memoryRepository) failAll(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}
