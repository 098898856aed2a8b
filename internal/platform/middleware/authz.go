// Copyright (c) 2026 Folioworks. All rights reserved.

package middleware

import (
	"net/http"

	"github.com/folioworks/folio/internal/platform/apperr"
	"github.com/folioworks/folio/internal/platform/constants"
	"github.com/folioworks/folio/internal/platform/ctxutil"
	"github.com/folioworks/folio/internal/platform/respond"
	"github.com/folioworks/folio/internal/platform/sec"
)

// RequireAdmin blocks requests that do not carry a valid admin token.
//
// # Flow
//  1. Read the X-Admin-Token header.
//  2. Verify it against the configured token via [sec.TokenGuard].
//  3. On success, mark the context as admin for downstream logging.
//  4. On failure, abort with HTTP 401 Unauthorized.
//
// There is no partial access: every route mounted behind this middleware
// is all-or-nothing admin territory.
func RequireAdmin(guard *sec.TokenGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			presented := request.Header.Get(constants.HeaderXAdminToken)

			if !guard.Verify(presented) {
				respond.Error(writer, request, apperr.Unauthorized("Admin token missing or invalid"))
				return
			}

			ctx := ctxutil.WithAdmin(request.Context())
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
