// Copyright (c) 2026 Folioworks. All rights reserved.

package resume

import (
	"context"
	"fmt"
	"time"

	"github.com/folioworks/folio/internal/platform/database/schema"
	"github.com/folioworks/folio/internal/platform/dberr"
	"github.com/folioworks/folio/internal/platform/postgres"
)

// PostgresStore implements [Store] on the folio.resume_item table.
type PostgresStore struct{}

func NewPostgresStore() *PostgresStore {
	return &PostgresStore{}
}

func itemColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.ResumeItem.ID, schema.ResumeItem.Section, schema.ResumeItem.Title,
		schema.ResumeItem.Organization, schema.ResumeItem.Location, schema.ResumeItem.StartDate,
		schema.ResumeItem.EndDate, schema.ResumeItem.Current, schema.ResumeItem.Bullets,
		schema.ResumeItem.Links, schema.ResumeItem.Skills, schema.ResumeItem.SortOrder,
		schema.ResumeItem.Hidden, schema.ResumeItem.CreatedAt, schema.ResumeItem.UpdatedAt)
}

func scanItem(row interface{ Scan(...any) error }) (*Item, error) {
	item := &Item{}
	err := row.Scan(
		&item.ID, &item.Section, &item.Title,
		&item.Organization, &item.Location, &item.StartDate,
		&item.EndDate, &item.Current, &item.Bullets,
		&item.Links, &item.Skills, &item.SortOrder,
		&item.Hidden, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (store *PostgresStore) GetByID(ctx context.Context, q postgres.Querier, id string) (*Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		itemColumns(), schema.ResumeItem.Table, schema.ResumeItem.ID)

	item, err := scanItem(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_resume_item_by_id")
	}
	return item, nil
}

func (store *PostgresStore) GetByIdentity(ctx context.Context, q postgres.Querier, identity Identity) (*Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3 AND %s = $4`,
		itemColumns(), schema.ResumeItem.Table,
		schema.ResumeItem.Section, schema.ResumeItem.Title,
		schema.ResumeItem.Organization, schema.ResumeItem.StartDate)

	item, err := scanItem(q.QueryRow(ctx, query,
		identity.Section, identity.Title, identity.Organization, identity.StartDate))
	if err != nil {
		return nil, dberr.Wrap(err, "get_resume_item_by_identity")
	}
	return item, nil
}

func (store *PostgresStore) ListVisible(ctx context.Context, q postgres.Querier) ([]*Item, error) {
	return store.list(ctx, q, true)
}

func (store *PostgresStore) ListAll(ctx context.Context, q postgres.Querier) ([]*Item, error) {
	return store.list(ctx, q, false)
}

func (store *PostgresStore) list(ctx context.Context, q postgres.Querier, visibleOnly bool) ([]*Item, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE ($1 = FALSE OR %s = FALSE)
		ORDER BY %s ASC, %s ASC, %s DESC
	`,
		itemColumns(), schema.ResumeItem.Table, schema.ResumeItem.Hidden,
		schema.ResumeItem.Section, schema.ResumeItem.SortOrder, schema.ResumeItem.StartDate)

	rows, err := q.Query(ctx, query, visibleOnly)
	if err != nil {
		return nil, dberr.Wrap(err, "list_resume_items")
	}
	defer rows.Close()

	items := make([]*Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_resume_item")
		}
		items = append(items, item)
	}

	return items, nil
}

func (store *PostgresStore) Insert(ctx context.Context, q postgres.Querier, item *Item) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, schema.ResumeItem.Table, itemColumns())

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := q.Exec(ctx, query,
		item.ID, item.Section, item.Title,
		item.Organization, item.Location, item.StartDate,
		item.EndDate, item.Current, item.Bullets,
		item.Links, item.Skills, item.SortOrder,
		item.Hidden, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "insert_resume_item")
	}
	return nil
}

func (store *PostgresStore) Update(ctx context.Context, q postgres.Querier, item *Item) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
			%s = $9, %s = $10, %s = $11, %s = $12, %s = $13, %s = $14
		WHERE %s = $1
	`,
		schema.ResumeItem.Table,
		schema.ResumeItem.Section, schema.ResumeItem.Title, schema.ResumeItem.Organization,
		schema.ResumeItem.Location, schema.ResumeItem.StartDate, schema.ResumeItem.EndDate,
		schema.ResumeItem.Current, schema.ResumeItem.Bullets, schema.ResumeItem.Links,
		schema.ResumeItem.Skills, schema.ResumeItem.SortOrder, schema.ResumeItem.Hidden,
		schema.ResumeItem.UpdatedAt,
		schema.ResumeItem.ID)

	item.UpdatedAt = time.Now().UTC()

	tag, err := q.Exec(ctx, query,
		item.ID,
		item.Section, item.Title, item.Organization,
		item.Location, item.StartDate, item.EndDate,
		item.Current, item.Bullets, item.Links,
		item.Skills, item.SortOrder, item.Hidden,
		item.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_resume_item")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (store *PostgresStore) Delete(ctx context.Context, q postgres.Querier, id string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ResumeItem.Table, schema.ResumeItem.ID)

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_resume_item")
	}
	return tag.RowsAffected(), nil
}
