// Copyright (c) 2026 Folioworks. All rights reserved.

package project

import (
	"context"
	"fmt"
	"time"

	"github.com/folioworks/folio/internal/platform/database/schema"
	"github.com/folioworks/folio/internal/platform/dberr"
	"github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/pkg/pagination"
)

// PostgresStore implements [Store] on the folio.project table. Relation
// snapshots live in jsonb columns; pgx encodes the snapshot structs directly.
type PostgresStore struct{}

func NewPostgresStore() *PostgresStore {
	return &PostgresStore{}
}

func projectColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.Project.ID, schema.Project.Title, schema.Project.Slug, schema.Project.Summary,
		schema.Project.Description, schema.Project.URL, schema.Project.RepoURL, schema.Project.Thumb,
		schema.Project.Media, schema.Project.Skills, schema.Project.Tasks, schema.Project.Type,
		schema.Project.Client, schema.Project.Studio, schema.Project.Published, schema.Project.Featured,
		schema.Project.SortOrder, schema.Project.CreatedAt, schema.Project.UpdatedAt)
}

func scanProject(row interface{ Scan(...any) error }) (*Project, error) {
	project := &Project{}
	err := row.Scan(
		&project.ID, &project.Title, &project.Slug, &project.Summary,
		&project.Description, &project.URL, &project.RepoURL, &project.Thumb,
		&project.Media, &project.Skills, &project.Tasks, &project.Type,
		&project.Client, &project.Studio, &project.Published, &project.Featured,
		&project.SortOrder, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (store *PostgresStore) GetBySlug(ctx context.Context, q postgres.Querier, slug string) (*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		projectColumns(), schema.Project.Table, schema.Project.Slug)

	project, err := scanProject(q.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "get_project_by_slug")
	}
	return project, nil
}

func (store *PostgresStore) List(ctx context.Context, q postgres.Querier, publishedOnly bool, page pagination.Params) ([]*Project, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE ($1 = FALSE OR %s = TRUE)
		ORDER BY %s DESC, %s ASC, %s DESC
		LIMIT $2 OFFSET $3
	`,
		projectColumns(), schema.Project.Table, schema.Project.Published,
		schema.Project.Featured, schema.Project.SortOrder, schema.Project.CreatedAt)

	rows, err := q.Query(ctx, query, publishedOnly, page.Limit, page.Offset())
	if err != nil {
		return nil, dberr.Wrap(err, "list_projects")
	}
	defer rows.Close()

	projects := make([]*Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_project")
		}
		projects = append(projects, project)
	}

	return projects, nil
}

func (store *PostgresStore) Count(ctx context.Context, q postgres.Querier, publishedOnly bool) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE ($1 = FALSE OR %s = TRUE)`,
		schema.Project.Table, schema.Project.Published)

	var total int
	if err := q.QueryRow(ctx, query, publishedOnly).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_projects")
	}
	return total, nil
}

func (store *PostgresStore) Insert(ctx context.Context, q postgres.Querier, project *Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`, schema.Project.Table, projectColumns())

	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := q.Exec(ctx, query,
		project.ID, project.Title, project.Slug, project.Summary,
		project.Description, project.URL, project.RepoURL, project.Thumb,
		project.Media, project.Skills, project.Tasks, project.Type,
		project.Client, project.Studio, project.Published, project.Featured,
		project.SortOrder, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "insert_project")
	}
	return nil
}

func (store *PostgresStore) Update(ctx context.Context, q postgres.Querier, project *Project) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
			%s = $9, %s = $10, %s = $11, %s = $12, %s = $13, %s = $14,
			%s = $15, %s = $16, %s = $17, %s = $18
		WHERE %s = $1
	`,
		schema.Project.Table,
		schema.Project.Title, schema.Project.Slug, schema.Project.Summary, schema.Project.Description,
		schema.Project.URL, schema.Project.RepoURL, schema.Project.Thumb,
		schema.Project.Media, schema.Project.Skills, schema.Project.Tasks, schema.Project.Type,
		schema.Project.Client, schema.Project.Studio,
		schema.Project.Published, schema.Project.Featured, schema.Project.SortOrder, schema.Project.UpdatedAt,
		schema.Project.ID)

	project.UpdatedAt = time.Now().UTC()

	tag, err := q.Exec(ctx, query,
		project.ID,
		project.Title, project.Slug, project.Summary, project.Description,
		project.URL, project.RepoURL, project.Thumb,
		project.Media, project.Skills, project.Tasks, project.Type,
		project.Client, project.Studio,
		project.Published, project.Featured, project.SortOrder, project.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_project")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (store *PostgresStore) Delete(ctx context.Context, q postgres.Querier, slug string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Project.Table, schema.Project.Slug)

	tag, err := q.Exec(ctx, query, slug)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_project")
	}
	return tag.RowsAffected(), nil
}
