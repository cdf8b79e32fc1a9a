// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
//
// # Unbounded Lists
//
// A [Params] without a Limit means "no bound": callers get every matching row
// in a single page. HTTP requests always carry a limit (defaulting to
// [DefaultLimit]); the unbounded form exists for in-process callers such as
// bulk exports.
package pagination

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 10
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage is the largest page whose offset fits in an int at [MaxLimit].
	MaxPage = math.MaxInt/MaxLimit + 1
)

// Query parameter names.
const (
	ParamPage  = "page"
	ParamLimit = "limit"
)

// Params holds the requested page and the optional page size.
type Params struct {
	Page int
	// Limit is nil for an unbounded request.
	Limit *int
}

// Page returns bounded params for the given page and page size.
func Page(page, limit int) Params {
	return Params{Page: page, Limit: &limit}
}

// All returns unbounded params: every matching row, no skip.
func All() Params {
	return Params{Page: DefaultPage}
}

// Bounded reports whether a page size was requested.
func (p Params) Bounded() bool {
	return p.Limit != nil
}

// Offset returns the number of rows to skip (limit * (page - 1)).
//
// Unbounded requests never skip rows. The result saturates at math.MaxInt.
func (p Params) Offset() int {
	if !p.Bounded() || p.Page <= 1 || *p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt / *p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * *p.Limit
}

// Envelope is the paginated response body returned by list endpoints.
type Envelope[T any] struct {
	TotalDatas int `json:"totalDatas"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
	Data       []T `json:"data"`
}

// TotalPages returns ceil(total / limit), or 0 for a non-positive limit.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NewEnvelope wraps one page of data together with its metadata.
//
// For unbounded params the whole result is a single page: Limit is reported
// as 0 and TotalPages is 1 when anything matched.
func NewEnvelope[T any](data []T, total int, params Params) Envelope[T] {
	if data == nil {
		data = []T{}
	}

	envelope := Envelope[T]{
		TotalDatas: total,
		Page:       params.Page,
		Data:       data,
	}

	if !params.Bounded() {
		if total > 0 {
			envelope.TotalPages = 1
		}
		return envelope
	}

	envelope.Limit = *params.Limit
	envelope.TotalPages = TotalPages(total, *params.Limit)
	return envelope
}

// ParamError describes a rejected page or limit value.
type ParamError struct {
	Field  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("pagination: %s %s", e.Field, e.Reason)
}

// FromQuery parses "page" and "limit" from URL query values.
//
// Missing values fall back to [DefaultPage] and [DefaultLimit]. Malformed or
// out-of-range values are rejected with a [*ParamError] rather than clamped.
func FromQuery(values url.Values) (Params, error) {
	page, err := parseIntParam(values, ParamPage, DefaultPage)
	if err != nil {
		return Params{}, err
	}
	if page < 1 {
		return Params{}, &ParamError{Field: ParamPage, Reason: "must not be less than 1"}
	}
	if page > MaxPage {
		return Params{}, &ParamError{Field: ParamPage, Reason: fmt.Sprintf("must not be greater than %d", MaxPage)}
	}

	limit, err := parseIntParam(values, ParamLimit, DefaultLimit)
	if err != nil {
		return Params{}, err
	}
	if limit < 1 {
		return Params{}, &ParamError{Field: ParamLimit, Reason: "must not be less than 1"}
	}
	if limit > MaxLimit {
		return Params{}, &ParamError{Field: ParamLimit, Reason: fmt.Sprintf("must not be greater than %d", MaxLimit)}
	}

	return Page(page, limit), nil
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(values url.Values, key string, defaultVal int) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return defaultVal, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParamError{Field: key, Reason: "must be a number"}
	}

	return n, nil
}
