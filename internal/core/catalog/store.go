// Copyright (c) 2026 Folioworks. All rights reserved.

package catalog

import (
	"context"

	"github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/pkg/pagination"
)

// Store is the persistence contract for catalog entries.
//
// Every method takes an explicit [postgres.Querier] so the same store instance
// works against the shared pool and inside a transaction handed out by the
// transactional runner. Catalog entries are append-and-amend only: there is
// no delete, because embedded snapshots in content documents would dangle.
type Store interface {
	GetByID(ctx context.Context, q postgres.Querier, kind Kind, id string) (*Entry, error)
	GetBySlug(ctx context.Context, q postgres.Querier, kind Kind, slug string) (*Entry, error)
	GetByName(ctx context.Context, q postgres.Querier, kind Kind, name string) (*Entry, error)

	// Insert persists a new entry. A unique violation on (kind, slug) is
	// returned unwrapped so callers can detect the concurrent-create race.
	Insert(ctx context.Context, q postgres.Querier, entry *Entry) error

	// SetSlug assigns a slug to an existing slug-less entry (backfill).
	SetSlug(ctx context.Context, q postgres.Querier, id string, slug string) error

	// List returns entries of a kind ordered by name, optionally filtered by a
	// case-insensitive substring over name and slug.
	List(ctx context.Context, q postgres.Querier, kind Kind, filter string, page pagination.Params) ([]*Entry, error)
	Count(ctx context.Context, q postgres.Querier, kind Kind, filter string) (int, error)

	// ListSlugless returns every entry of a kind that has no slug yet.
	ListSlugless(ctx context.Context, q postgres.Querier, kind Kind) ([]*Entry, error)
}
