// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/taibuivan/bookshelf/internal/platform/validate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns validate.ErrInvalidJSON if the body is empty or not valid JSON for target.
*/
func DecodeJSON(request *http.Request, target any) error {
	if request.Body == nil {
		return validate.ErrInvalidJSON
	}
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request, trimmed of whitespace.
*/
func Param(request *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(request, name))
}
