// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/staffroom/internal/platform/apperr"
	"github.com/taibuivan/staffroom/internal/platform/ctxutil"
	"github.com/taibuivan/staffroom/internal/platform/sec"
	"github.com/taibuivan/staffroom/internal/platform/validate"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Fields the target does not declare are ignored. Fields tagged json:"-" are
never populated from the body.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Form parses a urlencoded body and returns its fields. Query string
parameters are not included.

Returns:
  - error: validate.ErrInvalidForm if the body cannot be parsed
*/
func Form(request *http.Request) (url.Values, error) {
	if err := request.ParseForm(); err != nil {
		return nil, validate.ErrInvalidForm
	}
	return request.PostForm, nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredClaims returns the verified token claims placed on the context by the
auth guard.

Returns:
  - error: apperr.MissingToken if the request did not pass through the guard
*/
func RequiredClaims(request *http.Request) (*sec.Claims, error) {
	claims := ctxutil.GetClaims(request.Context())
	if claims == nil {
		return nil, apperr.MissingToken()
	}
	return claims, nil
}
