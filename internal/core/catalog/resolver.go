// Copyright (c) 2026 Folioworks. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/folioworks/folio/internal/platform/dberr"
	"github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/pkg/slug"
	"github.com/folioworks/folio/pkg/uuidv7"
)

// Options controls how the resolver treats refs it cannot find.
type Options struct {
	// AllowNew permits creation of catalog entries for refs that opted in
	// with CreateIfMissing. Both flags must be set for a create to happen.
	AllowNew bool

	// BackfillSlug persists a derived slug onto slug-less entries on contact.
	BackfillSlug bool

	// Simulate suppresses every catalog write. Backfills and creations still
	// return the snapshot that would have been written.
	Simulate bool
}

// Resolver confirms inbound [Ref]s against the catalog and produces the
// [Snapshot]s embedded into content documents.
//
// # Lookup contract
//
// A ref is probed by exactly one key, the most specific one it carries:
// id, then slug, then name. First match wins; the remaining keys are ignored
// even if they would have matched a different entry.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

func NewResolver(store Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// lookupKey is the normalized probe derived from a loose ref.
type lookupKey struct {
	by    string // "id", "slug" or "name"
	value string
}

func keyFor(ref Ref) (lookupKey, bool) {
	switch {
	case ref.ID != "":
		return lookupKey{by: "id", value: ref.ID}, true
	case ref.Slug != "":
		return lookupKey{by: "slug", value: ref.Slug}, true
	case ref.Name != "":
		return lookupKey{by: "name", value: ref.Name}, true
	default:
		return lookupKey{}, false
	}
}

// ResolveOne resolves a single ref to a snapshot.
//
// It returns (nil, nil) for empty refs and for refs that cannot be found and
// are not eligible for creation. A snapshot is returned only when a slug
// exists or can be derived; the resolver never emits a slug-less snapshot.
func (resolver *Resolver) ResolveOne(ctx context.Context, q postgres.Querier, kind Kind, ref *Ref, opts Options) (*Snapshot, error) {
	if ref == nil || ref.IsEmpty() {
		return nil, nil
	}

	key, _ := keyFor(*ref)

	entry, err := resolver.lookup(ctx, q, kind, key)
	if err != nil {
		if !errors.Is(err, dberr.ErrNotFound) {
			return nil, err
		}
		entry = nil
	}

	if entry != nil {
		return resolver.snapshotExisting(ctx, q, entry, opts)
	}

	if !opts.AllowNew || !ref.CreateIfMissing {
		return nil, nil
	}

	return resolver.createForRef(ctx, q, kind, *ref, opts)
}

// ResolveMany resolves refs in order, skipping empty slots and silently
// dropping refs that cannot be resolved. Callers that need hard failure
// semantics diff the result against the input with [MissingRefs].
func (resolver *Resolver) ResolveMany(ctx context.Context, q postgres.Querier, kind Kind, refs []Ref, opts Options) ([]Snapshot, error) {
	snapshots := make([]Snapshot, 0, len(refs))

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

func (resolver *Resolver) lookup(ctx context.Context, q postgres.Querier, kind Kind, key lookupKey) (*Entry, error) {
	switch key.by {
	case "id":
		return resolver.store.GetByID(ctx, q, kind, key.value)
	case "slug":
		return resolver.store.GetBySlug(ctx, q, kind, key.value)
	case "name":
		return resolver.store.GetByName(ctx, q, kind, key.value)
	default:
		return nil, dberr.ErrNotFound
	}
}

// snapshotExisting turns a found entry into a snapshot, deriving and
// optionally persisting a slug for legacy slug-less rows.
func (resolver *Resolver) snapshotExisting(ctx context.Context, q postgres.Querier, entry *Entry, opts Options) (*Snapshot, error) {
	if entry.Slug != nil && *entry.Slug != "" {
		return &Snapshot{Slug: *entry.Slug, Name: entry.Name}, nil
	}

	derived := slug.From(entry.Name)

	if opts.BackfillSlug && !opts.Simulate {
		if err := resolver.store.SetSlug(ctx, q, entry.ID, derived); err != nil {
			return nil, err
		}
		resolver.logger.InfoContext(ctx, "catalog_slug_backfilled",
			slog.String("kind", string(entry.Kind)),
			slog.String("id", entry.ID),
			slog.String("slug", derived),
		)
	}

	return &Snapshot{Slug: derived, Name: entry.Name}, nil
}

// createForRef inserts a new catalog entry for an unmatched ref.
//
// A unique violation on insert means a concurrent caller created the same
// slug first; the entry is re-read and used as-is instead of failing.
func (resolver *Resolver) createForRef(ctx context.Context, q postgres.Querier, kind Kind, ref Ref, opts Options) (*Snapshot, error) {
	name := ref.DesiredName()
	desired := ref.DesiredSlug()

	if opts.Simulate {
		return &Snapshot{Slug: desired, Name: name}, nil
	}

	entry := &Entry{
		ID:   uuidv7.New(),
		Kind: kind,
		Slug: &desired,
		Name: name,
	}

	err := resolver.store.Insert(ctx, q, entry)
	if err == nil {
		resolver.logger.InfoContext(ctx, "catalog_entry_created",
			slog.String("kind", string(kind)),
			slog.String("slug", desired),
			slog.String("name", name),
		)
		return &Snapshot{Slug: desired, Name: name}, nil
	}

	if !dberr.IsUniqueViolation(err) {
		return nil, dberr.Wrap(err, "insert_catalog_entry")
	}

	winner, readErr := resolver.store.GetBySlug(ctx, q, kind, desired)
	if readErr != nil {
		return nil, readErr
	}

	return &Snapshot{Slug: *winner.Slug, Name: winner.Name}, nil
}
