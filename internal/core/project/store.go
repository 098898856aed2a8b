// Copyright (c) 2026 Folioworks. All rights reserved.

package project

import (
	"context"

	"github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/pkg/pagination"
)

// Store is the persistence contract for projects. Methods take an explicit
// [postgres.Querier] so writes can run inside the optional transaction.
type Store interface {
	GetBySlug(ctx context.Context, q postgres.Querier, slug string) (*Project, error)

	// List returns projects ordered featured first, then by sort order, then
	// newest first. publishedOnly restricts to the public read surface.
	List(ctx context.Context, q postgres.Querier, publishedOnly bool, page pagination.Params) ([]*Project, error)
	Count(ctx context.Context, q postgres.Querier, publishedOnly bool) (int, error)

	Insert(ctx context.Context, q postgres.Querier, project *Project) error

	// Update replaces every mutable column, relation snapshots included.
	Update(ctx context.Context, q postgres.Querier, project *Project) error

	// Delete removes by slug and returns the number of rows deleted.
	Delete(ctx context.Context, q postgres.Querier, slug string) (int64, error)
}
