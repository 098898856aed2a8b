// Copyright (c) 2026 Folioworks. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/folioworks/folio/internal/platform/database/schema"
	"github.com/folioworks/folio/internal/platform/dberr"
	"github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/pkg/pagination"
)

// PostgresStore implements [Store] on the folio.catalog_entry table.
type PostgresStore struct{}

func NewPostgresStore() *PostgresStore {
	return &PostgresStore{}
}

func (store *PostgresStore) GetByID(ctx context.Context, q postgres.Querier, kind Kind, id string) (*Entry, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CatalogEntry.ID, schema.CatalogEntry.Kind, schema.CatalogEntry.Slug,
		schema.CatalogEntry.Name, schema.CatalogEntry.CreatedAt, schema.CatalogEntry.UpdatedAt,
		schema.CatalogEntry.Table, schema.CatalogEntry.Kind, schema.CatalogEntry.ID)

	return store.scanOne(q.QueryRow(ctx, query, kind, id), "get_catalog_by_id")
}

func (store *PostgresStore) GetBySlug(ctx context.Context, q postgres.Querier, kind Kind, slug string) (*Entry, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CatalogEntry.ID, schema.CatalogEntry.Kind, schema.CatalogEntry.Slug,
		schema.CatalogEntry.Name, schema.CatalogEntry.CreatedAt, schema.CatalogEntry.UpdatedAt,
		schema.CatalogEntry.Table, schema.CatalogEntry.Kind, schema.CatalogEntry.Slug)

	return store.scanOne(q.QueryRow(ctx, query, kind, slug), "get_catalog_by_slug")
}

func (store *PostgresStore) GetByName(ctx context.Context, q postgres.Querier, kind Kind, name string) (*Entry, error) {
	// Oldest first so repeated lookups of a duplicated name stay deterministic.
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s ASC LIMIT 1`,
		schema.CatalogEntry.ID, schema.CatalogEntry.Kind, schema.CatalogEntry.Slug,
		schema.CatalogEntry.Name, schema.CatalogEntry.CreatedAt, schema.CatalogEntry.UpdatedAt,
		schema.CatalogEntry.Table, schema.CatalogEntry.Kind, schema.CatalogEntry.Name,
		schema.CatalogEntry.CreatedAt)

	return store.scanOne(q.QueryRow(ctx, query, kind, name), "get_catalog_by_name")
}

func (store *PostgresStore) Insert(ctx context.Context, q postgres.Querier, entry *Entry) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.CatalogEntry.Table,
		schema.CatalogEntry.ID, schema.CatalogEntry.Kind, schema.CatalogEntry.Slug,
		schema.CatalogEntry.Name, schema.CatalogEntry.CreatedAt, schema.CatalogEntry.UpdatedAt)

	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	// The raw error is returned on purpose: the resolver inspects it for a
	// unique violation to detect concurrent creation of the same slug.
	_, err := q.Exec(ctx, query, entry.ID, entry.Kind, entry.Slug, entry.Name, entry.CreatedAt, entry.UpdatedAt)
	return err
}

func (store *PostgresStore) SetSlug(ctx context.Context, q postgres.Querier, id string, slug string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3 AND %s IS NULL`,
		schema.CatalogEntry.Table,
		schema.CatalogEntry.Slug, schema.CatalogEntry.UpdatedAt,
		schema.CatalogEntry.ID, schema.CatalogEntry.Slug)

	_, err := q.Exec(ctx, query, slug, time.Now().UTC(), id)
	if err != nil {
		return dberr.Wrap(err, "set_catalog_slug")
	}
	return nil
}

func (store *PostgresStore) List(ctx context.Context, q postgres.Querier, kind Kind, filter string, page pagination.Params) ([]*Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s FROM %s
		WHERE %s = $1 AND ($2 = '' OR %s ILIKE '%%' || $2 || '%%' OR %s ILIKE '%%' || $2 || '%%')
		ORDER BY %s ASC
		LIMIT $3 OFFSET $4
	`,
		schema.CatalogEntry.ID, schema.CatalogEntry.Kind, schema.CatalogEntry.Slug,
		schema.CatalogEntry.Name, schema.CatalogEntry.CreatedAt, schema.CatalogEntry.UpdatedAt,
		schema.CatalogEntry.Table,
		schema.CatalogEntry.Kind, schema.CatalogEntry.Name, schema.CatalogEntry.Slug,
		schema.CatalogEntry.Name)

	rows, err := q.Query(ctx, query, kind, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, dberr.Wrap(err, "list_catalog")
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(&entry.ID, &entry.Kind, &entry.Slug, &entry.Name, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_catalog_entry")
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (store *PostgresStore) Count(ctx context.Context, q postgres.Querier, kind Kind, filter string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE %s = $1 AND ($2 = '' OR %s ILIKE '%%' || $2 || '%%' OR %s ILIKE '%%' || $2 || '%%')
	`,
		schema.CatalogEntry.Table,
		schema.CatalogEntry.Kind, schema.CatalogEntry.Name, schema.CatalogEntry.Slug)

	var total int
	if err := q.QueryRow(ctx, query, kind, filter).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_catalog")
	}
	return total, nil
}

func (store *PostgresStore) ListSlugless(ctx context.Context, q postgres.Querier, kind Kind) ([]*Entry, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 AND %s IS NULL ORDER BY %s ASC`,
		schema.CatalogEntry.ID, schema.CatalogEntry.Kind, schema.CatalogEntry.Slug,
		schema.CatalogEntry.Name, schema.CatalogEntry.CreatedAt, schema.CatalogEntry.UpdatedAt,
		schema.CatalogEntry.Table, schema.CatalogEntry.Kind, schema.CatalogEntry.Slug,
		schema.CatalogEntry.CreatedAt)

	rows, err := q.Query(ctx, query, kind)
	if err != nil {
		return nil, dberr.Wrap(err, "list_slugless_catalog")
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(&entry.ID, &entry.Kind, &entry.Slug, &entry.Name, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_catalog_entry")
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// scanOne scans a single-entry row, mapping no-rows to [dberr.ErrNotFound]
// through the standard wrapper.
func (store *PostgresStore) scanOne(row interface{ Scan(...any) error }, action string) (*Entry, error) {
	entry := &Entry{}
	err := row.Scan(&entry.ID, &entry.Kind, &entry.Slug, &entry.Name, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return entry, nil
}
