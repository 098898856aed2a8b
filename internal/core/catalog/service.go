// Copyright (c) 2026 Folioworks. All rights reserved.

package catalog

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/folioworks/folio/internal/platform/apperr"
	"github.com/folioworks/folio/internal/platform/dberr"
	"github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/internal/platform/validate"
	"github.com/folioworks/folio/pkg/pagination"
	"github.com/folioworks/folio/pkg/slug"
	"github.com/folioworks/folio/pkg/uuidv7"
)

// Service exposes the catalog read path (public, cached) and the admin
// create path. Entries are never deleted or renamed through the API: content
// snapshots referencing them would silently go stale.
type Service struct {
	db     postgres.Querier
	store  Store
	cache  *listCache
	logger *slog.Logger
}

func NewService(db postgres.Querier, store Store, cacheClient *redis.Client, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		store:  store,
		cache:  newListCache(cacheClient, logger),
		logger: logger,
	}
}

// CreateInput is the admin payload for a new catalog entry.
type CreateInput struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// ListEntries returns one page of entries for a kind, filtered by an optional
// case-insensitive substring over name and slug. Results are served from the
// Redis cache when present.
func (service *Service) ListEntries(ctx context.Context, kind Kind, filter string, page pagination.Params) ([]*Entry, pagination.Meta, error) {
	if cached, ok := service.cache.get(ctx, kind, filter, page); ok {
		return cached.Entries, pagination.NewMeta(page.Page, page.Limit, cached.Total), nil
	}

	entries, err := service.store.List(ctx, service.db, kind, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	total, err := service.store.Count(ctx, service.db, kind, filter)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	service.cache.set(ctx, kind, filter, page, &cachedList{Entries: entries, Total: total})

	return entries, pagination.NewMeta(page.Page, page.Limit, total), nil
}

// CreateEntry inserts a new catalog entry on behalf of an admin.
//
// The slug defaults to one derived from the name. Duplicate slugs within the
// kind are a conflict here, not a race to absorb: an admin creating an entry
// that already exists should find out.
func (service *Service) CreateEntry(ctx context.Context, kind Kind, input CreateInput) (*Entry, error) {
	validator := &validate.Validator{}
	validator.Required("name", input.Name).MaxLen("name", input.Name, 200)
	if input.Slug != "" {
		validator.Slug("slug", input.Slug).MaxLen("slug", input.Slug, 200)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entrySlug := input.Slug
	if entrySlug == "" {
		entrySlug = slug.From(input.Name)
	}

	entry := &Entry{
		ID:   uuidv7.New(),
		Kind: kind,
		Slug: &entrySlug,
		Name: input.Name,
	}

	if err := service.store.Insert(ctx, service.db, entry); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("%s with slug %q already exists", kind, entrySlug)
		}
		return nil, apperr.Internal(err)
	}

	service.cache.invalidate(ctx, kind)

	service.logger.InfoContext(ctx, "catalog_entry_admin_created",
		slog.String("kind", string(kind)),
		slog.String("slug", entrySlug),
	)

	return entry, nil
}
