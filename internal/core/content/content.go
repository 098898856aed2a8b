// Copyright (c) 2026 Folioworks. All rights reserved.

/*
Package content holds the write semantics shared by every content family
(projects, demos, resume items).

All admin writes move through the same state machine: validate, look up the
existing document by its natural identity, then either report a dry-run plan
or resolve relations and persist inside an optional transaction. The types
here keep that contract identical across the families.
*/
package content

import (
	"net/http"
	"strings"

	"github.com/folioworks/folio/internal/platform/apperr"
	requestutil "github.com/folioworks/folio/internal/platform/request"
)

// WriteOptions are the per-request admin write modifiers, parsed from the
// dryRun / upsert / allowNew query parameters.
type WriteOptions struct {
	// DryRun reports what the write would do without persisting anything,
	// content document and catalog alike.
	DryRun bool

	// Upsert turns a create that hits an existing identity into an update
	// instead of a conflict.
	Upsert bool

	// AllowNew permits catalog entry creation for refs that ask for it.
	AllowNew bool
}

// OptionsFromRequest parses the write option flags off the query string.
func OptionsFromRequest(request *http.Request) WriteOptions {
	return WriteOptions{
		DryRun:   requestutil.Flag(request, "dryRun"),
		Upsert:   requestutil.Flag(request, "upsert"),
		AllowNew: requestutil.Flag(request, "allowNew"),
	}
}

// Plan actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
)

// Plan describes what a dry-run write would have done.
type Plan struct {
	// Action is "create" or "update".
	Action string `json:"action"`

	// Target identifies the document: its slug or id.
	Target string `json:"target"`

	// Set maps field names to the values the write would have stored,
	// including the resolved (or would-be-created) relation snapshots.
	Set map[string]any `json:"set"`
}

// UnresolvedError builds the single error reported when one or more relation
// refs could not be confirmed against the catalog. The whole write aborts;
// every unresolved ref is named, not just the first.
func UnresolvedError(missing []string) error {
	return apperr.Unprocessable("Unresolved relations: " + strings.Join(missing, ", "))
}
