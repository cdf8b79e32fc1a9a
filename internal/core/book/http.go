// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// ParamBookID is the URL parameter carrying the book id.
const ParamBookID = "bookId"

const publishedYearMessage = "Please provide publishedYear in valid format, it must be exactly 4 digits, and must be between 1500 and 3000 like 1900"

// Handler exposes the book operations over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted under /books.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.createBook)
	router.Get("/", handler.listBooks)
	router.Get("/{"+ParamBookID+"}", handler.getBook)
	router.Put("/{"+ParamBookID+"}", handler.updateBook)
	router.Delete("/{"+ParamBookID+"}", handler.deleteBook)

	return router
}

// # Handlers

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	query, err := parseQuery(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.List(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.Detail(request.Context(), requestutil.Param(request, ParamBookID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.Update(request.Context(), requestutil.Param(request, ParamBookID), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	ack, err := handler.service.Delete(request.Context(), requestutil.Param(request, ParamBookID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ack)
}

// # Request parsing

// bookRequest mirrors [Input] with pointers so omitted fields are detectable.
type bookRequest struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	PublishedYear *float64 `json:"publishedYear"`
	Genres        []string `json:"genres"`
	Stock         *float64 `json:"stock"`
}

// decodeInput decodes and validates a create/update body.
func decodeInput(request *http.Request) (Input, error) {
	var body bookRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		return Input{}, err
	}

	validator := &validate.Validator{}

	validator.Required(FieldTitle, deref(body.Title))
	validator.Required(FieldAuthor, deref(body.Author))

	validator.Present(FieldPublishedYear, body.PublishedYear != nil)
	if body.PublishedYear != nil {
		year := *body.PublishedYear
		validator.Custom(FieldPublishedYear,
			!isInteger(year) || year < MinPublishedYear || year > MaxPublishedYear,
			publishedYearMessage,
		)
	}

	validator.NonEmpty(FieldGenres, body.Genres).EachRequired(FieldGenres, body.Genres)

	validator.Present(FieldStock, body.Stock != nil)
	if body.Stock != nil {
		stock := *body.Stock
		if !isInteger(stock) || math.Abs(stock) > math.MaxInt32 {
			validator.Custom(FieldStock, true, "Must be a 32-bit integer")
		} else {
			validator.Min(FieldStock, int(stock), 0)
		}
	}

	if err := validator.Err(); err != nil {
		return Input{}, err
	}

	return Input{
		Title:         *body.Title,
		Author:        *body.Author,
		PublishedYear: int(*body.PublishedYear),
		Genres:        body.Genres,
		Stock:         int(*body.Stock),
	}, nil
}

// parseQuery reads page, limit and search from the query string.
func parseQuery(request *http.Request) (Query, error) {
	values := request.URL.Query()

	params, err := pagination.FromQuery(values)
	if err != nil {
		var paramErr *pagination.ParamError
		if errors.As(err, &paramErr) {
			return Query{}, validate.FieldError(paramErr.Field, paramErr.Reason)
		}
		return Query{}, err
	}

	return Query{Params: params, Search: values.Get(FieldSearch)}, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func isInteger(value float64) bool {
	return value == math.Trunc(value) && !math.IsInf(value, 0)
}
