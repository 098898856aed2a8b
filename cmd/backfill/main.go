// Copyright (c) 2026 Folioworks. All rights reserved.

// Command backfill repairs catalog slugs after bulk imports.
//
// It runs in two phases:
//
//  1. Every slug-less catalog entry gets a slug derived from its name,
//     suffixed -2, -3 and so on when the derived slug is already taken.
//  2. Every project, demo, and resume item is walked and relation snapshots
//     that carry a name but no slug are filled from the canonical catalog
//     entry of that name.
//
// The tool is idempotent. Pass -dry-run to report changes without writing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/folioworks/folio/internal/core/catalog"
	"github.com/folioworks/folio/internal/core/demo"
	"github.com/folioworks/folio/internal/core/project"
	"github.com/folioworks/folio/internal/core/resume"
	"github.com/folioworks/folio/internal/platform/config"
	"github.com/folioworks/folio/internal/platform/dberr"
	pgstore "github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/pkg/pagination"
	"github.com/folioworks/folio/pkg/slug"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report changes without writing")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With(slog.String("app", "folio-backfill"))

	cfg, err := config.Load()
	must(log, err, "load configuration")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	runner := &backfiller{
		db:           pool,
		catalogStore: catalog.NewPostgresStore(),
		projectStore: project.NewPostgresStore(),
		demoStore:    demo.NewPostgresStore(),
		resumeStore:  resume.NewPostgresStore(),
		log:          log,
		dryRun:       *dryRun,
	}

	must(log, runner.run(ctx), "backfill")

	log.Info("backfill complete",
		slog.Int("slugs_assigned", runner.slugsAssigned),
		slog.Int("snapshots_filled", runner.snapshotsFilled),
		slog.Bool("dry_run", *dryRun),
	)
}

type backfiller struct {
	db           pgstore.Querier
	catalogStore catalog.Store
	projectStore project.Store
	demoStore    demo.Store
	resumeStore  resume.Store
	log          *slog.Logger
	dryRun       bool

	slugsAssigned   int
	snapshotsFilled int
}

func (b *backfiller) run(ctx context.Context) error {
	for _, kind := range catalog.Kinds() {
		if err := b.backfillKind(ctx, kind); err != nil {
			return fmt.Errorf("backfill %s slugs: %w", kind, err)
		}
	}

	if err := b.fillProjectSnapshots(ctx); err != nil {
		return fmt.Errorf("fill project snapshots: %w", err)
	}
	if err := b.fillDemoSnapshots(ctx); err != nil {
		return fmt.Errorf("fill demo snapshots: %w", err)
	}
	if err := b.fillResumeSnapshots(ctx); err != nil {
		return fmt.Errorf("fill resume snapshots: %w", err)
	}

	return nil
}

// # Phase 1: Catalog Slugs

func (b *backfiller) backfillKind(ctx context.Context, kind catalog.Kind) error {
	entries, err := b.catalogStore.ListSlugless(ctx, b.db, kind)
	if err != nil {
		return err
	}

	// Slugs assigned earlier in this run count as taken even before they are
	// written, so a dry run reports the same suffixes a real run would assign.
	assigned := make(map[string]struct{})

	for _, entry := range entries {
		base := slug.From(entry.Name)
		candidate := base
		for n := 2; b.slugTaken(ctx, kind, candidate, assigned); n++ {
			candidate = fmt.Sprintf("%s-%d", base, n)
		}
		assigned[candidate] = struct{}{}

		b.log.Info("assigning catalog slug",
			slog.String("kind", string(kind)),
			slog.String("id", entry.ID),
			slog.String("name", entry.Name),
			slog.String("slug", candidate),
		)
		b.slugsAssigned++

		if b.dryRun {
			continue
		}
		if err := b.catalogStore.SetSlug(ctx, b.db, entry.ID, candidate); err != nil {
			return err
		}
	}

	return nil
}

func (b *backfiller) slugTaken(ctx context.Context, kind catalog.Kind, candidate string, assigned map[string]struct{}) bool {
	if _, ok := assigned[candidate]; ok {
		return true
	}
	_, err := b.catalogStore.GetBySlug(ctx, b.db, kind, candidate)
	return !errors.Is(err, dberr.ErrNotFound)
}

// # Phase 2: Content Snapshots

func (b *backfiller) fillProjectSnapshots(ctx context.Context) error {
	page := pagination.Params{Page: 1, Limit: pagination.MaxLimit}
	for {
		projects, err := b.projectStore.List(ctx, b.db, false, page)
		if err != nil {
			return err
		}

		for _, item := range projects {
			changed := b.fillList(ctx, catalog.KindSkill, item.Skills)
			changed = b.fillList(ctx, catalog.KindTask, item.Tasks) || changed
			changed = b.fillSingle(ctx, catalog.KindType, item.Type) || changed
			changed = b.fillSingle(ctx, catalog.KindClient, item.Client) || changed
			changed = b.fillSingle(ctx, catalog.KindStudio, item.Studio) || changed
			if !changed {
				continue
			}

			b.log.Info("filling project snapshots", slog.String("slug", item.Slug))
			if b.dryRun {
				continue
			}
			if err := b.projectStore.Update(ctx, b.db, item); err != nil {
				return err
			}
		}

		if len(projects) < page.Limit {
			return nil
		}
		page.Page++
	}
}

func (b *backfiller) fillDemoSnapshots(ctx context.Context) error {
	page := pagination.Params{Page: 1, Limit: pagination.MaxLimit}
	for {
		demos, err := b.demoStore.List(ctx, b.db, false, page)
		if err != nil {
			return err
		}

		for _, item := range demos {
			changed := b.fillList(ctx, catalog.KindSkill, item.Skills)
			changed = b.fillSingle(ctx, catalog.KindType, item.Type) || changed
			changed = b.fillSingle(ctx, catalog.KindClient, item.Client) || changed
			changed = b.fillSingle(ctx, catalog.KindStudio, item.Studio) || changed
			if !changed {
				continue
			}

			b.log.Info("filling demo snapshots", slog.String("slug", item.Slug))
			if b.dryRun {
				continue
			}
			if err := b.demoStore.Update(ctx, b.db, item); err != nil {
				return err
			}
		}

		if len(demos) < page.Limit {
			return nil
		}
		page.Page++
	}
}

func (b *backfiller) fillResumeSnapshots(ctx context.Context) error {
	items, err := b.resumeStore.ListAll(ctx, b.db)
	if err != nil {
		return err
	}

	for _, item := range items {
		if !b.fillList(ctx, catalog.KindSkill, item.Skills) {
			continue
		}

		b.log.Info("filling resume snapshots", slog.String("id", item.ID))
		if b.dryRun {
			continue
		}
		if err := b.resumeStore.Update(ctx, b.db, item); err != nil {
			return err
		}
	}

	return nil
}

// fillList fills missing slugs in a snapshot list in place and reports
// whether anything changed.
func (b *backfiller) fillList(ctx context.Context, kind catalog.Kind, snapshots []catalog.Snapshot) bool {
	changed := false
	for i := range snapshots {
		if b.fillSingle(ctx, kind, &snapshots[i]) {
			changed = true
		}
	}
	return changed
}

// fillSingle fills a snapshot's slug from the canonical catalog entry of the
// same name. Lookup misses are left alone; the admin API is the place to
// create missing entries.
func (b *backfiller) fillSingle(ctx context.Context, kind catalog.Kind, snapshot *catalog.Snapshot) bool {
	if snapshot == nil || snapshot.Slug != "" || snapshot.Name == "" {
		return false
	}

	entry, err := b.catalogStore.GetByName(ctx, b.db, kind, snapshot.Name)
	if err != nil || entry.Slug == nil {
		return false
	}

	snapshot.Slug = *entry.Slug
	b.snapshotsFilled++
	return true
}

func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
