package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/folioworks/folio/internal/platform/database/schema"
	"github.com/folioworks/folio/internal/platform/dberr"
	"github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/pkg/pagination"
)

// PostgresStore implements [Store] on the folio.demo table.
type PostgresStore struct{}

func NewPostgresStore() *PostgresStore {
	return &PostgresStore{}
}

func demoColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.Demo.ID, schema.Demo.Title, schema.Demo.Slug, schema.Demo.Summary,
		schema.Demo.Description, schema.Demo.URL, schema.Demo.RepoURL, schema.Demo.Thumb,
		schema.Demo.Media, schema.Demo.Skills, schema.Demo.Type, schema.Demo.Client,
		schema.Demo.Studio, schema.Demo.Published, schema.Demo.Featured, schema.Demo.SortOrder,
		schema.Demo.CreatedAt, schema.Demo.UpdatedAt)
}

func scanDemo(row interface{ Scan(...any) error }) (*Demo, error) {
	demo := &Demo{}
	err := row.Scan(
		&demo.ID, &demo.Title, &demo.Slug, &demo.Summary,
		&demo.Description, &demo.URL, &demo.RepoURL, &demo.Thumb,
		&demo.Media, &demo.Skills, &demo.Type, &demo.Client,
		&demo.Studio, &demo.Published, &demo.Featured, &demo.SortOrder,
		&demo.CreatedAt, &demo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return demo, nil
}

func (store *PostgresStore) GetBySlug(ctx context.Context, q postgres.Querier, slug string) (*Demo, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		demoColumns(), schema.Demo.Table, schema.Demo.Slug)

	demo, err := scanDemo(q.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "get_demo_by_slug")
	}
	return demo, nil
}

func (store *PostgresStore) List(ctx context.Context, q postgres.Querier, publishedOnly bool, page pagination.Params) ([]*Demo, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE ($1 = FALSE OR %s = TRUE)
		ORDER BY %s DESC, %s ASC, %s DESC
		LIMIT $2 OFFSET $3
	`,
		demoColumns(), schema.Demo.Table, schema.Demo.Published,
		schema.Demo.Featured, schema.Demo.SortOrder, schema.Demo.CreatedAt)

	rows, err := q.Query(ctx, query, publishedOnly, page.Limit, page.Offset())
	if err != nil {
		return nil, dberr.Wrap(err, "list_demos")
	}
	defer rows.Close()

	demos := make([]*Demo, 0)
	for rows.Next() {
		demo, err := scanDemo(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_demo")
		}
		demos = append(demos, demo)
	}

	return demos, nil
}

func (store *PostgresStore) Count(ctx context.Context, q postgres.Querier, publishedOnly bool) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE ($1 = FALSE OR %s = TRUE)`,
		schema.Demo.Table, schema.Demo.Published)

	var total int
	if err := q.QueryRow(ctx, query, publishedOnly).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_demos")
	}
	return total, nil
}

func (store *PostgresStore) Insert(ctx context.Context, q postgres.Querier, demo *Demo) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`, schema.Demo.Table, demoColumns())

	now := time.Now().UTC()
	demo.CreatedAt = now
	demo.UpdatedAt = now

	_, err := q.Exec(ctx, query,
		demo.ID, demo.Title, demo.Slug, demo.Summary,
		demo.Description, demo.URL, demo.RepoURL, demo.Thumb,
		demo.Media, demo.Skills, demo.Type, demo.Client,
		demo.Studio, demo.Published, demo.Featured, demo.SortOrder,
		demo.CreatedAt, demo.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "insert_demo")
	}
	return nil
}

func (store *PostgresStore) Update(ctx context.Context, q postgres.Querier, demo *Demo) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
			%s = $9, %s = $10, %s = $11, %s = $12, %s = $13, %s = $14,
			%s = $15, %s = $16, %s = $17
		WHERE %s = $1
	`,
		schema.Demo.Table,
		schema.Demo.Title, schema.Demo.Slug, schema.Demo.Summary, schema.Demo.Description,
		schema.Demo.URL, schema.Demo.RepoURL, schema.Demo.Thumb,
		schema.Demo.Media, schema.Demo.Skills, schema.Demo.Type, schema.Demo.Client,
		schema.Demo.Studio, schema.Demo.Published, schema.Demo.Featured, schema.Demo.SortOrder,
		schema.Demo.UpdatedAt,
		schema.Demo.ID)

	demo.UpdatedAt = time.Now().UTC()

	tag, err := q.Exec(ctx, query,
		demo.ID,
		demo.Title, demo.Slug, demo.Summary, demo.Description,
		demo.URL, demo.RepoURL, demo.Thumb,
		demo.Media, demo.Skills, demo.Type, demo.Client,
		demo.Studio, demo.Published, demo.Featured, demo.SortOrder,
		demo.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_demo")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (store *PostgresStore) Delete(ctx context.Context, q postgres.Querier, slug string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Demo.Table, schema.Demo.Slug)

	tag, err := q.Exec(ctx, query, slug)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_demo")
	}
	return tag.RowsAffected(), nil
}
