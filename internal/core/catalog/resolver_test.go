// Copyright (c) 2026 Folioworks. All rights reserved.

package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioworks/folio/internal/core/catalog"
	"github.com/folioworks/folio/internal/platform/dberr"
	"github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/pkg/pagination"
	"github.com/folioworks/folio/pkg/pointer"
)

// fakeStore is an in-memory Store for resolver tests.
type fakeStore struct {
	entries []*catalog.Entry

	// nextInsertErr is returned (and cleared) by the next Insert call.
	nextInsertErr error

	insertCalls  int
	setSlugCalls int
}

func (store *fakeStore) GetByID(_ context.Context, _ postgres.Querier, kind catalog.Kind, id string) (*catalog.Entry, error) {
	for _, entry := range store.entries {
		if entry.Kind == kind && entry.ID == id {
			return entry, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *fakeStore) GetBySlug(_ context.Context, _ postgres.Querier, kind catalog.Kind, slug string) (*catalog.Entry, error) {
	for _, entry := range store.entries {
		if entry.Kind == kind && entry.Slug != nil && *entry.Slug == slug {
			return entry, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *fakeStore) GetByName(_ context.Context, _ postgres.Querier, kind catalog.Kind, name string) (*catalog.Entry, error) {
	for _, entry := range store.entries {
		if entry.Kind == kind && entry.Name == name {
			return entry, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *fakeStore) Insert(_ context.Context, _ postgres.Querier, entry *catalog.Entry) error {
	store.insertCalls++
	if store.nextInsertErr != nil {
		err := store.nextInsertErr
		store.nextInsertErr = nil
		return err
	}
	store.entries = append(store.entries, entry)
	return nil
}

func (store *fakeStore) SetSlug(_ context.Context, _ postgres.Querier, id string, slug string) error {
	store.setSlugCalls++
	for _, entry := range store.entries {
		if entry.ID == id && entry.Slug == nil {
			entry.Slug = &slug
		}
	}
	return nil
}

func (store *fakeStore) List(_ context.Context, _ postgres.Querier, kind catalog.Kind, _ string, _ pagination.Params) ([]*catalog.Entry, error) {
	var out []*catalog.Entry
	for _, entry := range store.entries {
		if entry.Kind == kind {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (store *fakeStore) Count(_ context.Context, _ postgres.Querier, kind catalog.Kind, _ string) (int, error) {
	count := 0
	for _, entry := range store.entries {
		if entry.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (store *fakeStore) ListSlugless(_ context.Context, _ postgres.Querier, kind catalog.Kind) ([]*catalog.Entry, error) {
	var out []*catalog.Entry
	for _, entry := range store.entries {
		if entry.Kind == kind && entry.Slug == nil {
			out = append(out, entry)
		}
	}
	return out, nil
}

func newTestResolver(store *fakeStore) *catalog.Resolver {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return catalog.NewResolver(store, logger)
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
}

/*
TestResolver_EmptyRef verifies that a ref with no identifying fields resolves
to nothing without error.
*/
func TestResolver_EmptyRef(t *testing.T) {
	resolver := newTestResolver(&fakeStore{})

	snapshot, err := resolver.ResolveOne(context.Background(), nil, catalog.KindSkill, &catalog.Ref{}, catalog.Options{})

	require.NoError(t, err)
	assert.Nil(t, snapshot)

	// nil refs behave the same way
	snapshot, err = resolver.ResolveOne(context.Background(), nil, catalog.KindSkill, nil, catalog.Options{})
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

/*
TestResolver_LookupOrder verifies that id beats slug and slug beats name when
a ref carries more than one identifier.
*/
func TestResolver_LookupOrder(t *testing.T) {
	store := &fakeStore{entries: []*catalog.Entry{
		{ID: "id-react", Kind: catalog.KindSkill, Slug: pointer.To("react"), Name: "React"},
		{ID: "id-vue", Kind: catalog.KindSkill, Slug: pointer.To("vue"), Name: "Vue"},
	}}
	resolver := newTestResolver(store)

	// 1. id wins over slug even though the slug points at a different entry
	snapshot, err := resolver.ResolveOne(context.Background(), nil, catalog.KindSkill,
		&catalog.Ref{ID: "id-react", Slug: "vue"}, catalog.Options{})
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "react", snapshot.Slug)

	// 2. slug wins over name
	snapshot, err = resolver.ResolveOne(context.Background(), nil, catalog.KindSkill,
		&catalog.Ref{Slug: "vue", Name: "React"}, catalog.Options{})
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "vue", snapshot.Slug)

	// 3. an id that matches nothing does not fall through to the slug
	snapshot, err = resolver.ResolveOne(context.Background(), nil, catalog.KindSkill,
		&catalog.Ref{ID: "id-missing", Slug: "vue"}, catalog.Options{})
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

/*
TestResolver_SnapshotPrefersCatalogName verifies that a resolved snapshot
carries the canonical catalog name, not whatever the caller sent.
*/
func TestResolver_SnapshotPrefersCatalogName(t *testing.T) {
	store := &fakeStore{entries: []*catalog.Entry{
		{ID: "id-1", Kind: catalog.KindSkill, Slug: pointer.To("react"), Name: "React"},
	}}
	resolver := newTestResolver(store)

	snapshot, err := resolver.ResolveOne(context.Background(), nil, catalog.KindSkill,
		&catalog.Ref{Slug: "react", Name: "Totally Different"}, catalog.Options{})

	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "React", snapshot.Name)
}

/*
TestResolver_BackfillSlug verifies that a slug-less legacy entry gets a
derived slug persisted on contact, and that the persisted slug is stable on
repeat resolution.
*/
func TestResolver_BackfillSlug(t *testing.T) {
	store := &fakeStore{entries: []*catalog.Entry{
		{ID: "id-1", Kind: catalog.KindClient, Slug: nil, Name: "Café Müller"},
	}}
	resolver := newTestResolver(store)
	opts := catalog.Options{BackfillSlug: true}

	// 1. First contact derives and persists the slug
	snapshot, err := resolver.ResolveOne(context.Background(), nil, catalog.KindClient,
		&catalog.Ref{Name: "Café Müller"}, opts)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "cafe-muller", snapshot.Slug)
	assert.Equal(t, 1, store.setSlugCalls)
	require.NotNil(t, store.entries[0].Slug)
	assert.Equal(t, "cafe-muller", *store.entries[0].Slug)

	// 2. Second resolution reads the persisted slug, no further writes
	snapshot, err = resolver.ResolveOne(context.Background(), nil, catalog.KindClient,
		&catalog.Ref{Name: "Café Müller"}, opts)
	require.NoError(t, err)
	assert.Equal(t, "cafe-muller", snapshot.Slug)
	assert.Equal(t, 1, store.setSlugCalls)
}

/*
TestResolver_BackfillDisabled verifies that without the backfill option the
derived slug is returned but never persisted.
*/
func TestResolver_BackfillDisabled(t *testing.T) {
	store := &fakeStore{entries: []*catalog.Entry{
		{ID: "id-1", Kind: catalog.KindClient, Slug: nil, Name: "Acme"},
	}}
	resolver := newTestResolver(store)

	snapshot, err := resolver.ResolveOne(context.Background(), nil, catalog.KindClient,
		&catalog.Ref{Name: "Acme"}, catalog.Options{})

	require.NoError(t, err)
	assert.Equal(t, "acme", snapshot.Slug)
	assert.Equal(t, 0, store.setSlugCalls)
	assert.Nil(t, store.entries[0].Slug)
}

/*
TestResolver_NotFoundWithoutCreate verifies that an unknown ref resolves to
nothing unless both the caller option and the ref opt in to creation.
*/
func TestResolver_NotFoundWithoutCreate(t *testing.T) {
	resolver := newTestResolver(&fakeStore{})

	// 1. Neither side opted in
	snapshot, err := resolver.ResolveOne(context.Background(), nil, catalog.KindSkill,
		&catalog.Ref{Name: "Zig"}, catalog.Options{})
	require.NoError(t, err)
	assert.Nil(t, snapshot)

	// 2. Option set, ref did not opt in
	snapshot, err = resolver.ResolveOne(context.Background(), nil, catalog.KindSkill,
		&catalog.Ref{Name: "Zig"}, catalog.Options{AllowNew: true})
	require.NoError(t, err)
	assert.Nil(t, snapshot)

	// 3. Ref opted in, option not set
	snapshot, err = resolver.ResolveOne(context.Background(), nil, catalog.KindSkill,
		&catalog.Ref{Name: "Zig", CreateIfMissing: true}, catalog.Options{})
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

/*
TestResolver_CreateWhenAllowed verifies creation semantics: both opt-ins set,
name and slug defaults applied, entry persisted.
*/
func TestResolver_CreateWhenAllowed(t *testing.T) {
	store := &fakeStore{}
	resolver := newTestResolver(store)
	opts := catalog.Options{AllowNew: true}

	// 1. Name-only ref: slug derived from name
	snapshot, err := resolver.ResolveOne(context.Background(), nil, catalog.KindSkill,
		&catalog.Ref{Name: "Unreal Engine", CreateIfMissing: true}, opts)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "unreal-engine", snapshot.Slug)
	assert.Equal(t, "Unreal Engine", snapshot.Name)
	require.Len(t, store.entries, 1)
	assert.Equal(t, catalog.KindSkill, store.entries[0].Kind)
	assert.NotEmpty(t, store.entries[0].ID)

	// 2. Slug-only ref: name falls back to the slug verbatim
	snapshot, err = resolver.ResolveOne(context.Background(), nil, catalog.KindTask,
		&catalog.Ref{Slug: "level-design", CreateIfMissing: true}, opts)
	require.NoError(t, err)
	assert.Equal(t, "level-design", snapshot.Slug)
	assert.Equal(t, "level-design", snapshot.Name)

	// 3. Id-only ref that matches nothing: name falls back to "Untitled"
	snapshot, err = resolver.ResolveOne(context.Background(), nil, catalog.KindType,
		&catalog.Ref{ID: "0198b000-0000-7000-8000-000000000000", CreateIfMissing: true}, opts)
	require.NoError(t, err)
	assert.Equal(t, "untitled", snapshot.Slug)
	assert.Equal(t, "Untitled", snapshot.Name)
}

/*
TestResolver_SimulateWritesNothing verifies that simulate mode performs zero
store writes while still reporting the would-be snapshots.
*/
func TestResolver_SimulateWritesNothing(t *testing.T) {
	store := &fakeStore{entries: []*catalog.Entry{
		{ID: "id-1", Kind: catalog.KindClient, Slug: nil, Name: "Acme"},
	}}
	resolver := newTestResolver(store)
	opts := catalog.Options{AllowNew: true, BackfillSlug: true, Simulate: true}

	// 1. Would-be backfill
	snapshot, err := resolver.ResolveOne(context.Background(), nil, catalog.KindClient,
		&catalog.Ref{Name: "Acme"}, opts)
	require.NoError(t, err)
	assert.Equal(t, "acme", snapshot.Slug)

	// 2. Would-be creation
	snapshot, err = resolver.ResolveOne(context.Background(), nil, catalog.KindSkill,
		&catalog.Ref{Name: "Zig", CreateIfMissing: true}, opts)
	require.NoError(t, err)
	assert.Equal(t, "zig", snapshot.Slug)

	// 3. Nothing touched the store
	assert.Equal(t, 0, store.setSlugCalls)
	assert.Equal(t, 0, store.insertCalls)
	assert.Len(t, store.entries, 1)
}

/*
TestResolver_CreateRaceReReads verifies the concurrent-create policy: a
unique violation on insert resolves to the winner's entry instead of an error.
*/
func TestResolver_CreateRaceReReads(t *testing.T) {
	store := &fakeStore{
		entries: []*catalog.Entry{
			// The "winner" that a concurrent request inserted first.
			{ID: "id-winner", Kind: catalog.KindSkill, Slug: pointer.To("zig"), Name: "Zig (canonical)"},
		},
		nextInsertErr: uniqueViolation(),
	}

	// The resolver probes by name and must miss, so the winner's name is
	// deliberately different; the insert then collides on the derived slug
	// and the winner is re-read by that slug.
	resolver := newTestResolver(store)

	snapshot, err := resolver.ResolveOne(context.Background(), nil, catalog.KindSkill,
		&catalog.Ref{Name: "Zig", CreateIfMissing: true}, catalog.Options{AllowNew: true})

	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "zig", snapshot.Slug)
	assert.Equal(t, "Zig (canonical)", snapshot.Name)
}

/*
TestResolver_ResolveMany verifies ordering, empty-slot skipping and silent
dropping of unresolved refs.
*/
func TestResolver_ResolveMany(t *testing.T) {
	store := &fakeStore{entries: []*catalog.Entry{
		{ID: "id-react", Kind: catalog.KindSkill, Slug: pointer.To("react"), Name: "React"},
		{ID: "id-go", Kind: catalog.KindSkill, Slug: pointer.To("go"), Name: "Go"},
	}}
	resolver := newTestResolver(store)

	refs := []catalog.Ref{
		{Slug: "go"},
		{},               // empty slot
		{Slug: "cobol"},  // unresolved, silently dropped
		{Name: "React"},
	}

	snapshots, err := resolver.ResolveMany(context.Background(), nil, catalog.KindSkill, refs, catalog.Options{})

	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "go", snapshots[0].Slug)
	assert.Equal(t, "react", snapshots[1].Slug)

	// MissingRefs reports exactly the dropped ref
	missing := catalog.MissingRefs("skills", refs, snapshots)
	require.Len(t, missing, 1)
	assert.Equal(t, `skills.slug="cobol"`, missing[0])
}

/*
TestMissingRefs_Labels verifies the label format for each identifier shape.
*/
func TestMissingRefs_Labels(t *testing.T) {
	refs := []catalog.Ref{
		{ID: "some-id"},
		{Slug: "some-slug"},
		{Name: "Some Name"},
	}

	missing := catalog.MissingRefs("tasks", refs, nil)

	require.Len(t, missing, 3)
	assert.Equal(t, `tasks.id="some-id"`, missing[0])
	assert.Equal(t, `tasks.slug="some-slug"`, missing[1])
	assert.Equal(t, `tasks.name="Some Name"`, missing[2])
}
