// Copyright (c) 2026 Folioworks. All rights reserved.

/*
Package catalog manages the canonical registry of reusable portfolio entities:
skills, tasks, project types, clients and studios.

# Architecture

Content documents (projects, demos, resume items) never hold foreign keys into
the catalog. Instead they embed point-in-time snapshots ({slug, name}) that are
confirmed against this registry at write time by the [Resolver]. The catalog is
therefore the single source of truth for slugs, while reads stay join-free.

All five kinds share one table discriminated by a kind column, with slug
uniqueness enforced per kind. Slugs may be temporarily absent on legacy rows;
the resolver and the backfill CLI derive and persist them on contact.

# Cache Staleness

The public kind listings are cached in Redis. Admin entry creation invalidates
the affected kind eagerly; resolver-driven writes (create-if-missing entries,
slug backfills) deliberately do not, because they run inside a content write's
optional transaction and an invalidation there would fire before commit,
or for a write that later rolls back. Listings instead converge within
[constants.CatalogListCacheTTL].
*/
package catalog

import (
	"fmt"
	"time"

	"github.com/folioworks/folio/pkg/slug"
)

// # Kinds

// Kind discriminates the catalog entry families.
type Kind string

const (
	KindSkill  Kind = "skill"
	KindTask   Kind = "task"
	KindType   Kind = "type"
	KindClient Kind = "client"
	KindStudio Kind = "studio"
)

// Kinds lists every valid catalog kind in presentation order.
func Kinds() []Kind {
	return []Kind{KindSkill, KindTask, KindType, KindClient, KindStudio}
}

// ParseKind converts a string into a [Kind], reporting whether it is valid.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindSkill, KindTask, KindType, KindClient, KindStudio:
		return Kind(s), true
	default:
		return "", false
	}
}

// # Entities

// Entry is a single canonical catalog record.
//
// Slug is a pointer because legacy rows may predate slug derivation; a nil
// slug is valid in storage but is never copied into a content snapshot.
type Entry struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Slug      *string   `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// Ref is a loose inbound reference to a catalog entry, as accepted on admin
// write payloads. Any one of ID, Slug or Name identifies the target; they are
// probed in that order. A Ref with none of the three set is an empty slot and
// resolves to nothing without error.
type Ref struct {
	ID              string `json:"id,omitempty"`
	Slug            string `json:"slug,omitempty"`
	Name            string `json:"name,omitempty"`
	CreateIfMissing bool   `json:"createIfMissing,omitempty"`
}

// IsEmpty reports whether the ref carries no identifying information.
func (ref Ref) IsEmpty() bool {
	return ref.ID == "" && ref.Slug == "" && ref.Name == ""
}

// Label renders the ref for error messages, preferring the most specific
// identifier the caller supplied.
func (ref Ref) Label(field string) string {
	switch {
	case ref.ID != "":
		return fmt.Sprintf("%s.id=%q", field, ref.ID)
	case ref.Slug != "":
		return fmt.Sprintf("%s.slug=%q", field, ref.Slug)
	default:
		return fmt.Sprintf("%s.name=%q", field, ref.Name)
	}
}

// Snapshot is the embedded {slug, name} copy written into content documents.
// Slug is always present; a snapshot without a resolvable slug is never
// produced.
type Snapshot struct {
	Slug string `json:"slug"`
	Name string `json:"name,omitempty"`
}

// # Derivation Helpers

// DesiredName returns the name a newly created entry should carry for this
// ref: the explicit name, else the slug verbatim, else "Untitled".
func (ref Ref) DesiredName() string {
	if ref.Name != "" {
		return ref.Name
	}
	if ref.Slug != "" {
		return ref.Slug
	}
	return "Untitled"
}

// DesiredSlug returns the slug a newly created entry should carry for this
// ref: the explicit slug verbatim, else one derived from the desired name.
func (ref Ref) DesiredSlug() string {
	if ref.Slug != "" {
		return ref.Slug
	}
	return slug.From(ref.DesiredName())
}

// MissingRefs returns error labels for every non-empty ref that did not make
// it into the resolved snapshots, preserving input order.
//
// Matching is structural: a ref claims the first unclaimed snapshot that
// carries its slug, its name, or its name's derived slug. Refs identified
// only by id cannot be compared to a snapshot directly, so they claim the
// leftover snapshots in order after all slug/name refs are settled.
func MissingRefs(field string, refs []Ref, resolved []Snapshot) []string {
	claimed := make([]bool, len(resolved))

	claim := func(predicate func(Snapshot) bool) bool {
		for i, snapshot := range resolved {
			if !claimed[i] && predicate(snapshot) {
				claimed[i] = true
				return true
			}
		}
		return false
	}

	matches := func(ref Ref) func(Snapshot) bool {
		return func(snapshot Snapshot) bool {
			if ref.Slug != "" && snapshot.Slug == ref.Slug {
				return true
			}
			if ref.Name != "" && (snapshot.Name == ref.Name || snapshot.Slug == slug.From(ref.Name)) {
				return true
			}
			return false
		}
	}

	unmatched := make([]bool, len(refs))

	// First pass: refs with a slug or name claim their snapshots.
	for i, ref := range refs {
		if ref.IsEmpty() || (ref.Slug == "" && ref.Name == "") {
			continue
		}
		if !claim(matches(ref)) {
			unmatched[i] = true
		}
	}

	// Second pass: id-only refs absorb whatever snapshots remain.
	for i, ref := range refs {
		if ref.IsEmpty() || ref.Slug != "" || ref.Name != "" {
			continue
		}
		if !claim(func(Snapshot) bool { return true }) {
			unmatched[i] = true
		}
	}

	var missing []string
	for i, ref := range refs {
		if unmatched[i] {
			missing = append(missing, ref.Label(field))
		}
	}

	return missing
}
