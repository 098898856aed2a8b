// Copyright (c) 2026 Folioworks. All rights reserved.

// Package requestutil provides helpers for reading inbound HTTP requests.
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/folioworks/folio/internal/platform/validate"
	"github.com/folioworks/folio/pkg/convert"
)

// DecodeJSON decodes the request body into destination, rejecting unknown fields.
func DecodeJSON(request *http.Request, destination interface{}) error {
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(destination); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param returns the named URL path parameter.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Flag reads a boolean query parameter such as dryRun, upsert or allowNew.
// Absent or unparseable values default to false.
func Flag(request *http.Request, name string) bool {
	return convert.ToBool(request.URL.Query().Get(name))
}
