package demo_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioworks/folio/internal/core/catalog"
	"github.com/folioworks/folio/internal/core/content"
	"github.com/folioworks/folio/internal/core/demo"
	"github.com/folioworks/folio/internal/platform/apperr"
	"github.com/folioworks/folio/internal/platform/dberr"
	"github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/pkg/pagination"
)

// fakeResolver resolves from a fixed set of snapshots keyed by kind and slug.
type fakeResolver struct {
	known map[catalog.Kind]map[string]catalog.Snapshot
}

func (resolver *fakeResolver) ResolveOne(_ context.Context, _ postgres.Querier, kind catalog.Kind, ref *catalog.Ref, _ catalog.Options) (*catalog.Snapshot, error) {
	if ref == nil || ref.IsEmpty() {
		return nil, nil
	}
	if snapshot, ok := resolver.known[kind][ref.DesiredSlug()]; ok {
		return &snapshot, nil
	}
	return nil, nil
}

func (resolver *fakeResolver) ResolveMany(ctx context.Context, q postgres.Querier, kind catalog.Kind, refs []catalog.Ref, opts catalog.Options) ([]catalog.Snapshot, error) {
	snapshots := make([]catalog.Snapshot, 0, len(refs))
	for i := range refs {
		snapshot, err := resolver.ResolveOne(ctx, q, kind, &refs[i], opts)
		if err != nil {
			return nil, err
		}
		if snapshot != nil {
			snapshots = append(snapshots, *snapshot)
		}
	}
	return snapshots, nil
}

type memDemos struct {
	demos   []*demo.Demo
	inserts int
}

func (store *memDemos) GetBySlug(_ context.Context, _ postgres.Querier, slug string) (*demo.Demo, error) {
	for _, d := range store.demos {
		if d.Slug == slug {
			clone := *d
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *memDemos) List(_ context.Context, _ postgres.Querier, publishedOnly bool, _ pagination.Params) ([]*demo.Demo, error) {
	var out []*demo.Demo
	for _, d := range store.demos {
		if !publishedOnly || d.Published {
			out = append(out, d)
		}
	}
	return out, nil
}

func (store *memDemos) Count(_ context.Context, _ postgres.Querier, publishedOnly bool) (int, error) {
	found, _ := store.List(nil, nil, publishedOnly, pagination.Params{})
	return len(found), nil
}

func (store *memDemos) Insert(_ context.Context, _ postgres.Querier, d *demo.Demo) error {
	store.inserts++
	store.demos = append(store.demos, d)
	return nil
}

func (store *memDemos) Update(_ context.Context, _ postgres.Querier, d *demo.Demo) error {
	for i, stored := range store.demos {
		if stored.ID == d.ID {
			store.demos[i] = d
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (store *memDemos) Delete(_ context.Context, _ postgres.Querier, slug string) (int64, error) {
	for i, d := range store.demos {
		if d.Slug == slug {
			store.demos = append(store.demos[:i], store.demos[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type passRunner struct{}

func (passRunner) WithOptionalTx(_ context.Context, fn func(q postgres.Querier) error) error {
	return fn(nil)
}

func newTestService(resolver *fakeResolver, store *memDemos) *demo.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return demo.NewService(nil, store, resolver, passRunner{}, logger)
}

/*
TestDemoService_Create verifies slug derivation and single-relation
resolution on the demo write path.
*/
func TestDemoService_Create(t *testing.T) {
	resolver := &fakeResolver{known: map[catalog.Kind]map[string]catalog.Snapshot{
		catalog.KindSkill: {"godot": {Slug: "godot", Name: "Godot"}},
		catalog.KindType:  {"game": {Slug: "game", Name: "Game"}},
	}}
	store := &memDemos{}
	service := newTestService(resolver, store)

	input := demo.Input{
		Title:  "Tower Defense Prototype",
		Skills: []catalog.Ref{{Slug: "godot"}},
		Type:   &catalog.Ref{Slug: "game"},
	}

	created, plan, err := service.Create(context.Background(), input, content.WriteOptions{})

	require.NoError(t, err)
	assert.Nil(t, plan)
	assert.Equal(t, "tower-defense-prototype", created.Slug)
	require.Len(t, created.Skills, 1)
	require.NotNil(t, created.Type)
	assert.Equal(t, "game", created.Type.Slug)
	assert.Equal(t, 1, store.inserts)
}

/*
TestDemoService_Create_UnresolvedSingleAborts verifies that an unresolvable
single-valued relation (type/client/studio) aborts the write too.
*/
func TestDemoService_Create_UnresolvedSingleAborts(t *testing.T) {
	resolver := &fakeResolver{known: map[catalog.Kind]map[string]catalog.Snapshot{}}
	store := &memDemos{}
	service := newTestService(resolver, store)

	input := demo.Input{
		Title:  "Prototype",
		Studio: &catalog.Ref{Name: "Ghost Studio"},
	}

	_, _, err := service.Create(context.Background(), input, content.WriteOptions{})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNPROCESSABLE", appError.Code)
	assert.Contains(t, appError.Message, `studio.name="Ghost Studio"`)
	assert.Equal(t, 0, store.inserts)
}

/*
TestDemoService_EmptySlotIgnored verifies that an empty single-relation ref
is treated as "no relation", not an error.
*/
func TestDemoService_EmptySlotIgnored(t *testing.T) {
	service := newTestService(&fakeResolver{known: map[catalog.Kind]map[string]catalog.Snapshot{}}, &memDemos{})

	input := demo.Input{
		Title:  "Plain Demo",
		Client: &catalog.Ref{},
	}

	created, _, err := service.Create(context.Background(), input, content.WriteOptions{})

	require.NoError(t, err)
	assert.Nil(t, created.Client)
}

/*
TestDemo_MarshalsWriteSurfaceKeys verifies the public read payload uses the
same field keys as the admin write surface, repoUrl in particular.
*/
func TestDemo_MarshalsWriteSurfaceKeys(t *testing.T) {
	raw, err := json.Marshal(&demo.Demo{
		Title:   "Tower Defense",
		Slug:    "tower-defense",
		RepoURL: "https://example.com/td.git",
	})

	require.NoError(t, err)
	assert.Contains(t, string(raw), `"repoUrl"`)
	assert.NotContains(t, string(raw), `"repo_url"`)
}
