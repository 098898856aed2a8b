// Copyright (c) 2026 Folioworks. All rights reserved.

package project_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioworks/folio/internal/core/catalog"
	"github.com/folioworks/folio/internal/core/content"
	"github.com/folioworks/folio/internal/core/project"
	"github.com/folioworks/folio/internal/platform/apperr"
	"github.com/folioworks/folio/internal/platform/dberr"
	"github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/pkg/pagination"
	"github.com/folioworks/folio/pkg/pointer"
)

// # Test Doubles

// memCatalog is an in-memory catalog.Store backing a real resolver, so the
// service tests exercise genuine resolution semantics.
type memCatalog struct {
	entries []*catalog.Entry
	inserts int
}

func (store *memCatalog) GetByID(_ context.Context, _ postgres.Querier, kind catalog.Kind, id string) (*catalog.Entry, error) {
	for _, entry := range store.entries {
		if entry.Kind == kind && entry.ID == id {
			return entry, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *memCatalog) GetBySlug(_ context.Context, _ postgres.Querier, kind catalog.Kind, slug string) (*catalog.Entry, error) {
	for _, entry := range store.entries {
		if entry.Kind == kind && entry.Slug != nil && *entry.Slug == slug {
			return entry, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *memCatalog) GetByName(_ context.Context, _ postgres.Querier, kind catalog.Kind, name string) (*catalog.Entry, error) {
	for _, entry := range store.entries {
		if entry.Kind == kind && entry.Name == name {
			return entry, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *memCatalog) Insert(_ context.Context, _ postgres.Querier, entry *catalog.Entry) error {
	store.inserts++
	store.entries = append(store.entries, entry)
	return nil
}

func (store *memCatalog) SetSlug(_ context.Context, _ postgres.Querier, id string, slug string) error {
	for _, entry := range store.entries {
		if entry.ID == id {
			entry.Slug = &slug
		}
	}
	return nil
}

func (store *memCatalog) List(_ context.Context, _ postgres.Querier, _ catalog.Kind, _ string, _ pagination.Params) ([]*catalog.Entry, error) {
	return store.entries, nil
}

func (store *memCatalog) Count(_ context.Context, _ postgres.Querier, _ catalog.Kind, _ string) (int, error) {
	return len(store.entries), nil
}

func (store *memCatalog) ListSlugless(_ context.Context, _ postgres.Querier, _ catalog.Kind) ([]*catalog.Entry, error) {
	return nil, nil
}

// memProjects is an in-memory project.Store.
type memProjects struct {
	projects []*project.Project
	inserts  int
	updates  int
}

func (store *memProjects) GetBySlug(_ context.Context, _ postgres.Querier, slug string) (*project.Project, error) {
	for _, p := range store.projects {
		if p.Slug == slug {
			clone := *p
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *memProjects) List(_ context.Context, _ postgres.Querier, publishedOnly bool, _ pagination.Params) ([]*project.Project, error) {
	var out []*project.Project
	for _, p := range store.projects {
		if !publishedOnly || p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

func (store *memProjects) Count(_ context.Context, _ postgres.Querier, publishedOnly bool) (int, error) {
	found, _ := store.List(nil, nil, publishedOnly, pagination.Params{})
	return len(found), nil
}

func (store *memProjects) Insert(_ context.Context, _ postgres.Querier, p *project.Project) error {
	store.inserts++
	store.projects = append(store.projects, p)
	return nil
}

func (store *memProjects) Update(_ context.Context, _ postgres.Querier, p *project.Project) error {
	store.updates++
	for i, stored := range store.projects {
		if stored.ID == p.ID {
			store.projects[i] = p
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (store *memProjects) Delete(_ context.Context, _ postgres.Querier, slug string) (int64, error) {
	for i, p := range store.projects {
		if p.Slug == slug {
			store.projects = append(store.projects[:i], store.projects[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// passRunner executes the unit of work directly, no transaction involved.
type passRunner struct{}

func (passRunner) WithOptionalTx(_ context.Context, fn func(q postgres.Querier) error) error {
	return fn(nil)
}

func newTestService(catalogStore *memCatalog, projectStore *memProjects) *project.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := catalog.NewResolver(catalogStore, logger)
	return project.NewService(nil, projectStore, resolver, passRunner{}, logger)
}

func seedSkill(slug, name string) *catalog.Entry {
	return &catalog.Entry{ID: "id-" + slug, Kind: catalog.KindSkill, Slug: pointer.To(slug), Name: name}
}

// # Tests

/*
TestService_Create_ResolvesRelations verifies the central write scenario: an
existing skill resolves to its canonical snapshot and a new skill opted into
creation is added to the catalog during the same write.
*/
func TestService_Create_ResolvesRelations(t *testing.T) {
	catalogStore := &memCatalog{entries: []*catalog.Entry{seedSkill("react", "React")}}
	projectStore := &memProjects{}
	service := newTestService(catalogStore, projectStore)

	input := project.Input{
		Title: "Portfolio Site",
		Skills: []catalog.Ref{
			{Name: "React"},
			{Name: "Vue", CreateIfMissing: true},
		},
		Published: true,
	}

	created, plan, err := service.Create(context.Background(), input, content.WriteOptions{AllowNew: true})

	require.NoError(t, err)
	assert.Nil(t, plan)
	require.NotNil(t, created)

	// 1. Slug derived from the title
	assert.Equal(t, "portfolio-site", created.Slug)

	// 2. Both skills resolved, in input order, with canonical names
	require.Len(t, created.Skills, 2)
	assert.Equal(t, catalog.Snapshot{Slug: "react", Name: "React"}, created.Skills[0])
	assert.Equal(t, catalog.Snapshot{Slug: "vue", Name: "Vue"}, created.Skills[1])

	// 3. Vue was created in the catalog
	assert.Equal(t, 1, catalogStore.inserts)
	assert.Equal(t, 1, projectStore.inserts)
}

/*
TestService_Create_UnresolvedAborts verifies that unresolved refs abort the
whole write with every missing ref named, and nothing is persisted.
*/
func TestService_Create_UnresolvedAborts(t *testing.T) {
	catalogStore := &memCatalog{entries: []*catalog.Entry{seedSkill("react", "React")}}
	projectStore := &memProjects{}
	service := newTestService(catalogStore, projectStore)

	input := project.Input{
		Title:  "Legacy Rewrite",
		Skills: []catalog.Ref{{Name: "React"}, {Slug: "cobol"}},
		Tasks:  []catalog.Ref{{Slug: "mainframe-ops"}},
	}

	created, _, err := service.Create(context.Background(), input, content.WriteOptions{})

	require.Error(t, err)
	assert.Nil(t, created)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNPROCESSABLE", appError.Code)
	assert.Contains(t, appError.Message, `skills.slug="cobol"`)
	assert.Contains(t, appError.Message, `tasks.slug="mainframe-ops"`)

	assert.Equal(t, 0, projectStore.inserts)
	assert.Equal(t, 0, catalogStore.inserts)
}

/*
TestService_Create_DryRun verifies that a dry run reports the full plan,
including would-be-created catalog entries, while persisting nothing.
*/
func TestService_Create_DryRun(t *testing.T) {
	catalogStore := &memCatalog{}
	projectStore := &memProjects{}
	service := newTestService(catalogStore, projectStore)

	input := project.Input{
		Title:  "Prototype",
		Skills: []catalog.Ref{{Name: "Godot", CreateIfMissing: true}},
	}

	created, plan, err := service.Create(context.Background(), input,
		content.WriteOptions{DryRun: true, AllowNew: true})

	require.NoError(t, err)
	assert.Nil(t, created)
	require.NotNil(t, plan)

	// 1. The plan describes a create with the derived slug
	assert.Equal(t, content.ActionCreate, plan.Action)
	assert.Equal(t, "prototype", plan.Target)

	// 2. The would-be skill snapshot carries its derived slug
	skills, ok := plan.Set["skills"].([]catalog.Snapshot)
	require.True(t, ok)
	require.Len(t, skills, 1)
	assert.Equal(t, "godot", skills[0].Slug)

	// 3. Zero writes anywhere
	assert.Equal(t, 0, projectStore.inserts)
	assert.Equal(t, 0, catalogStore.inserts)
}

/*
TestService_Create_ConflictAndUpsert verifies duplicate-slug handling with and
without the upsert option.
*/
func TestService_Create_ConflictAndUpsert(t *testing.T) {
	projectStore := &memProjects{projects: []*project.Project{
		{ID: "id-1", Title: "Old Title", Slug: "site"},
	}}
	service := newTestService(&memCatalog{}, projectStore)

	input := project.Input{Title: "New Title", Slug: "site"}

	// 1. Plain create conflicts
	_, _, err := service.Create(context.Background(), input, content.WriteOptions{})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// 2. Upsert updates in place, preserving identity
	updated, _, err := service.Create(context.Background(), input, content.WriteOptions{Upsert: true})
	require.NoError(t, err)
	assert.Equal(t, "id-1", updated.ID)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, 0, projectStore.inserts)
	assert.Equal(t, 1, projectStore.updates)
}

/*
TestService_Update_ClearVersusOmit verifies patch semantics through real JSON:
an omitted field keeps its value, an explicit empty list clears wholesale.
*/
func TestService_Update_ClearVersusOmit(t *testing.T) {
	projectStore := &memProjects{projects: []*project.Project{{
		ID:     "id-1",
		Title:  "Site",
		Slug:   "site",
		Skills: []catalog.Snapshot{{Slug: "react", Name: "React"}},
		Tasks:  []catalog.Snapshot{{Slug: "ux", Name: "UX"}},
	}}}
	service := newTestService(&memCatalog{}, projectStore)

	patch := project.Patch{}
	require.NoError(t, json.Unmarshal([]byte(`{"tasks": []}`), &patch))

	updated, _, err := service.Update(context.Background(), "site", patch, content.WriteOptions{})

	require.NoError(t, err)
	// 1. tasks cleared by the explicit empty list
	assert.Empty(t, updated.Tasks)
	// 2. skills untouched because the field was absent
	require.Len(t, updated.Skills, 1)
	assert.Equal(t, "react", updated.Skills[0].Slug)
}

/*
TestService_Update_ReplacesRelationsWholesale verifies that a present relation
list replaces the stored snapshots entirely instead of merging.
*/
func TestService_Update_ReplacesRelationsWholesale(t *testing.T) {
	catalogStore := &memCatalog{entries: []*catalog.Entry{
		seedSkill("react", "React"),
		seedSkill("go", "Go"),
	}}
	projectStore := &memProjects{projects: []*project.Project{{
		ID:     "id-1",
		Title:  "Site",
		Slug:   "site",
		Skills: []catalog.Snapshot{{Slug: "react", Name: "React"}},
	}}}
	service := newTestService(catalogStore, projectStore)

	patch := project.Patch{}
	require.NoError(t, json.Unmarshal([]byte(`{"skills": [{"slug": "go"}]}`), &patch))

	updated, _, err := service.Update(context.Background(), "site", patch, content.WriteOptions{})

	require.NoError(t, err)
	require.Len(t, updated.Skills, 1)
	assert.Equal(t, "go", updated.Skills[0].Slug)
}

/*
TestService_Update_NotFound verifies the 404 on unknown slugs.
*/
func TestService_Update_NotFound(t *testing.T) {
	service := newTestService(&memCatalog{}, &memProjects{})

	_, _, err := service.Update(context.Background(), "ghost", project.Patch{}, content.WriteOptions{})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
	assert.True(t, strings.Contains(appError.Message, "ghost"))
}

/*
TestService_Delete verifies delete semantics including the zero-rows case.
*/
func TestService_Delete(t *testing.T) {
	projectStore := &memProjects{projects: []*project.Project{{ID: "id-1", Slug: "site"}}}
	service := newTestService(&memCatalog{}, projectStore)

	// 1. Existing project deletes cleanly
	require.NoError(t, service.Delete(context.Background(), "site"))
	assert.Empty(t, projectStore.projects)

	// 2. Deleting it again is a NotFound
	err := service.Delete(context.Background(), "site")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_GetPublished verifies that drafts stay invisible publicly.
*/
func TestService_GetPublished(t *testing.T) {
	projectStore := &memProjects{projects: []*project.Project{
		{ID: "id-1", Slug: "live", Published: true},
		{ID: "id-2", Slug: "draft", Published: false},
	}}
	service := newTestService(&memCatalog{}, projectStore)

	found, err := service.GetPublished(context.Background(), "live")
	require.NoError(t, err)
	assert.Equal(t, "id-1", found.ID)

	_, err = service.GetPublished(context.Background(), "draft")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestProject_MarshalsWriteSurfaceKeys verifies the public read payload uses the
same field keys as the admin write surface, repoUrl in particular.
*/
func TestProject_MarshalsWriteSurfaceKeys(t *testing.T) {
	raw, err := json.Marshal(&project.Project{
		Title:   "Folio",
		Slug:    "folio",
		RepoURL: "https://example.com/folio.git",
	})

	require.NoError(t, err)
	assert.Contains(t, string(raw), `"repoUrl"`)
	assert.NotContains(t, string(raw), `"repo_url"`)
}
