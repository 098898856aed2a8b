// Copyright (c) 2026 Folioworks. All rights reserved.

package resume

import (
	"context"

	"github.com/folioworks/folio/internal/platform/postgres"
)

// Store is the persistence contract for resume items.
type Store interface {
	GetByID(ctx context.Context, q postgres.Querier, id string) (*Item, error)

	// GetByIdentity looks up an item by its composite create-time identity.
	GetByIdentity(ctx context.Context, q postgres.Querier, identity Identity) (*Item, error)

	// ListVisible returns non-hidden items ordered section, sort order,
	// then start date descending.
	ListVisible(ctx context.Context, q postgres.Querier) ([]*Item, error)

	// ListAll returns every item, hidden included (backfill walks these).
	ListAll(ctx context.Context, q postgres.Querier) ([]*Item, error)

	Insert(ctx context.Context, q postgres.Querier, item *Item) error
	Update(ctx context.Context, q postgres.Querier, item *Item) error
	Delete(ctx context.Context, q postgres.Querier, id string) (int64, error)
}
