// Copyright (c) 2026 Folioworks. All rights reserved.

package project

import (
	"context"
	"errors"
	"log/slog"

	"github.com/folioworks/folio/internal/core/catalog"
	"github.com/folioworks/folio/internal/core/content"
	"github.com/folioworks/folio/internal/platform/apperr"
	"github.com/folioworks/folio/internal/platform/dberr"
	"github.com/folioworks/folio/internal/platform/postgres"
	"github.com/folioworks/folio/internal/platform/validate"
	"github.com/folioworks/folio/pkg/pagination"
	"github.com/folioworks/folio/pkg/slug"
	"github.com/folioworks/folio/pkg/uuidv7"
)

// RelationResolver is the slice of the catalog resolver the service needs.
// Declared here so tests can substitute a fake without a database.
type RelationResolver interface {
	ResolveOne(ctx context.Context, q postgres.Querier, kind catalog.Kind, ref *catalog.Ref, opts catalog.Options) (*catalog.Snapshot, error)
	ResolveMany(ctx context.Context, q postgres.Querier, kind catalog.Kind, refs []catalog.Ref, opts catalog.Options) ([]catalog.Snapshot, error)
}

// Service orchestrates project reads and admin writes.
type Service struct {
	db       postgres.Querier
	store    Store
	resolver RelationResolver
	runner   postgres.Runner
	logger   *slog.Logger
}

func NewService(db postgres.Querier, store Store, resolver RelationResolver, runner postgres.Runner, logger *slog.Logger) *Service {
	return &Service{
		db:       db,
		store:    store,
		resolver: resolver,
		runner:   runner,
		logger:   logger,
	}
}

// # Public Reads

// ListPublished returns one page of published projects in display order.
func (service *Service) ListPublished(ctx context.Context, page pagination.Params) ([]*Project, pagination.Meta, error) {
	projects, err := service.store.List(ctx, service.db, true, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	total, err := service.store.Count(ctx, service.db, true)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return projects, pagination.NewMeta(page.Page, page.Limit, total), nil
}

// GetPublished fetches a single published project by slug.
func (service *Service) GetPublished(ctx context.Context, projectSlug string) (*Project, error) {
	found, err := service.store.GetBySlug(ctx, service.db, projectSlug)
	if err != nil {
		return nil, err
	}

	// Unpublished drafts are invisible on the public surface.
	if !found.Published {
		return nil, apperr.NotFoundMsg("Project %q not found", projectSlug)
	}

	return found, nil
}

// # Admin Writes

/*
Create persists a new project (or updates an existing one when upsert is
requested).

Description: Runs the shared write state machine. Validation and the
existing-document lookup happen against the pool; relation resolution and the
final persist run inside the optional transaction so a failed write leaves
neither the document nor half-created catalog entries behind. Relation refs
that cannot be confirmed abort the whole write with every unresolved ref
named in one error.

Parameters:
  - ctx: context.Context
  - input: Input (loose refs, not snapshots)
  - opts: content.WriteOptions (dryRun / upsert / allowNew)

Returns:
  - *Project: The persisted document (nil on dry run)
  - *content.Plan: The dry-run plan (nil on a real write)
  - error: Validation, conflict, unresolved-relation or storage errors
*/
func (service *Service) Create(ctx context.Context, input Input, opts content.WriteOptions) (*Project, *content.Plan, error) {

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required("title", input.Title).MaxLen("title", input.Title, 300)

	projectSlug := input.Slug
	if projectSlug == "" {
		projectSlug = slug.From(input.Title)
	}
	validator.Slug("slug", projectSlug)

	if err := validator.Err(); err != nil {
		return nil, nil, err
	}

	// Natural identity lookup
	existing, err := service.store.GetBySlug(ctx, service.db, projectSlug)
	if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		return nil, nil, err
	}

	if existing != nil && !opts.Upsert {
		return nil, nil, apperr.Conflict("Project with slug %q already exists", projectSlug)
	}

	resolveOpts := catalog.Options{
		AllowNew:     opts.AllowNew,
		BackfillSlug: true,
		Simulate:     opts.DryRun,
	}

	// Dry run: resolve against the pool in simulate mode, report the plan.
	if opts.DryRun {
		resolved, missing, err := service.resolveRelations(ctx, service.db, input, resolveOpts)
		if err != nil {
			return nil, nil, err
		}
		if len(missing) > 0 {
			return nil, nil, content.UnresolvedError(missing)
		}

		action := content.ActionCreate
		if existing != nil {
			action = content.ActionUpdate
		}
		return nil, service.buildPlan(action, projectSlug, input, resolved), nil
	}

	// Real write: resolution and persist share the optional transaction.
	var result *Project
	err = service.runner.WithOptionalTx(ctx, func(q postgres.Querier) error {
		resolved, missing, err := service.resolveRelations(ctx, q, input, resolveOpts)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return content.UnresolvedError(missing)
		}

		updated := service.buildProject(projectSlug, input, resolved)

		if existing != nil {
			updated.ID = existing.ID
			updated.CreatedAt = existing.CreatedAt
			result = updated
			return service.store.Update(ctx, q, updated)
		}

		updated.ID = uuidv7.New()
		result = updated
		return service.store.Insert(ctx, q, updated)
	})
	if err != nil {
		return nil, nil, err
	}

	action := "project_created"
	if existing != nil {
		action = "project_upserted"
	}
	service.logger.InfoContext(ctx, action,
		slog.String("slug", result.Slug),
		slog.String("id", result.ID),
	)

	return result, nil, nil
}

/*
Update applies a partial update to the project addressed by slug.

Description: Absent patch fields keep their stored values; explicit nulls and
empty lists clear. Relation fields that are present are resolved and replaced
wholesale; the stored snapshots never merge with the incoming ones. Concurrent
updates are last-writer-wins.

Parameters:
  - ctx: context.Context
  - projectSlug: string (natural identity)
  - patch: Patch
  - opts: content.WriteOptions

Returns:
  - *Project: The updated document (nil on dry run)
  - *content.Plan: The dry-run plan (nil on a real write)
  - error: NotFound, validation, unresolved-relation or storage errors
*/
func (service *Service) Update(ctx context.Context, projectSlug string, patch Patch, opts content.WriteOptions) (*Project, *content.Plan, error) {
	existing, err := service.store.GetBySlug(ctx, service.db, projectSlug)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, nil, apperr.NotFoundMsg("Project %q not found", projectSlug)
		}
		return nil, nil, err
	}

	validator := &validate.Validator{}
	if patch.Title.IsSet() {
		validator.Required("title", patch.Title.Value()).MaxLen("title", patch.Title.Value(), 300)
	}
	if patch.Slug.IsSet() && patch.Slug.Value() != "" {
		validator.Slug("slug", patch.Slug.Value())
	}
	if err := validator.Err(); err != nil {
		return nil, nil, err
	}

	resolveOpts := catalog.Options{
		AllowNew:     opts.AllowNew,
		BackfillSlug: true,
		Simulate:     opts.DryRun,
	}

	if opts.DryRun {
		updated := *existing
		set, missing, err := service.applyPatch(ctx, service.db, &updated, patch, resolveOpts)
		if err != nil {
			return nil, nil, err
		}
		if len(missing) > 0 {
			return nil, nil, content.UnresolvedError(missing)
		}
		return nil, &content.Plan{Action: content.ActionUpdate, Target: projectSlug, Set: set}, nil
	}

	var result *Project
	err = service.runner.WithOptionalTx(ctx, func(q postgres.Querier) error {
		updated := *existing
		_, missing, err := service.applyPatch(ctx, q, &updated, patch, resolveOpts)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return content.UnresolvedError(missing)
		}

		result = &updated
		return service.store.Update(ctx, q, &updated)
	})
	if err != nil {
		return nil, nil, err
	}

	service.logger.InfoContext(ctx, "project_updated", slog.String("slug", result.Slug))

	return result, nil, nil
}

// Delete removes the project addressed by slug.
func (service *Service) Delete(ctx context.Context, projectSlug string) error {
	deleted, err := service.store.Delete(ctx, service.db, projectSlug)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperr.NotFoundMsg("Project %q not found", projectSlug)
	}

	service.logger.InfoContext(ctx, "project_deleted", slog.String("slug", projectSlug))

	return nil
}

// # Relation Resolution

// resolvedRelations carries the confirmed snapshots for one write.
type resolvedRelations struct {
	skills []catalog.Snapshot
	tasks  []catalog.Snapshot
	typ    *catalog.Snapshot
	client *catalog.Snapshot
	studio *catalog.Snapshot
}

// resolveRelations confirms every relation ref in the input, accumulating the
// labels of all refs that could not be resolved.
func (service *Service) resolveRelations(ctx context.Context, q postgres.Querier, input Input, opts catalog.Options) (resolvedRelations, []string, error) {
	resolved := resolvedRelations{}
	var missing []string

	var err error
	if resolved.skills, missing, err = service.resolveList(ctx, q, catalog.KindSkill, "skills", input.Skills, missing, opts); err != nil {
		return resolved, nil, err
	}
	if resolved.tasks, missing, err = service.resolveList(ctx, q, catalog.KindTask, "tasks", input.Tasks, missing, opts); err != nil {
		return resolved, nil, err
	}
	if resolved.typ, missing, err = service.resolveSingle(ctx, q, catalog.KindType, "type", input.Type, missing, opts); err != nil {
		return resolved, nil, err
	}
	if resolved.client, missing, err = service.resolveSingle(ctx, q, catalog.KindClient, "client", input.Client, missing, opts); err != nil {
		return resolved, nil, err
	}
	if resolved.studio, missing, err = service.resolveSingle(ctx, q, catalog.KindStudio, "studio", input.Studio, missing, opts); err != nil {
		return resolved, nil, err
	}

	return resolved, missing, nil
}

func (service *Service) resolveList(ctx context.Context, q postgres.Querier, kind catalog.Kind, field string, refs []catalog.Ref, missing []string, opts catalog.Options) ([]catalog.Snapshot, []string, error) {
	snapshots, err := service.resolver.ResolveMany(ctx, q, kind, refs, opts)
	if err != nil {
		return nil, nil, err
	}
	return snapshots, append(missing, catalog.MissingRefs(field, refs, snapshots)...), nil
}

func (service *Service) resolveSingle(ctx context.Context, q postgres.Querier, kind catalog.Kind, field string, ref *catalog.Ref, missing []string, opts catalog.Options) (*catalog.Snapshot, []string, error) {
	if ref == nil || ref.IsEmpty() {
		return nil, missing, nil
	}

	snapshot, err := service.resolver.ResolveOne(ctx, q, kind, ref, opts)
	if err != nil {
		return nil, nil, err
	}
	if snapshot == nil {
		return nil, append(missing, ref.Label(field)), nil
	}
	return snapshot, missing, nil
}

// # Write Assembly

// buildProject assembles the full document for a create/upsert write.
func (service *Service) buildProject(projectSlug string, input Input, resolved resolvedRelations) *Project {
	return &Project{
		Title:       input.Title,
		Slug:        projectSlug,
		Summary:     input.Summary,
		Description: input.Description,
		URL:         input.URL,
		RepoURL:     input.RepoURL,
		Thumb:       input.Thumb,
		Media:       input.Media,
		Skills:      resolved.skills,
		Tasks:       resolved.tasks,
		Type:        resolved.typ,
		Client:      resolved.client,
		Studio:      resolved.studio,
		Published:   input.Published,
		Featured:    input.Featured,
		SortOrder:   input.SortOrder,
	}
}

// buildPlan summarizes a dry-run create/upsert.
func (service *Service) buildPlan(action, projectSlug string, input Input, resolved resolvedRelations) *content.Plan {
	return &content.Plan{
		Action: action,
		Target: projectSlug,
		Set: map[string]any{
			"title":       input.Title,
			"slug":        projectSlug,
			"summary":     input.Summary,
			"description": input.Description,
			"url":         input.URL,
			"repoUrl":     input.RepoURL,
			"thumb":       input.Thumb,
			"media":       input.Media,
			"skills":      resolved.skills,
			"tasks":       resolved.tasks,
			"type":        resolved.typ,
			"client":      resolved.client,
			"studio":      resolved.studio,
			"published":   input.Published,
			"featured":    input.Featured,
			"order":       input.SortOrder,
		},
	}
}

// applyPatch mutates updated in place with every present patch field,
// resolving relation refs as it goes. It returns the set of applied fields
// (for the dry-run plan) and the labels of unresolved refs.
func (service *Service) applyPatch(ctx context.Context, q postgres.Querier, updated *Project, patch Patch, opts catalog.Options) (map[string]any, []string, error) {
	set := map[string]any{}
	var missing []string

	if patch.Title.IsSet() {
		updated.Title = patch.Title.Value()
		set["title"] = updated.Title
	}
	if patch.Slug.IsSet() && patch.Slug.Value() != "" {
		updated.Slug = patch.Slug.Value()
		set["slug"] = updated.Slug
	}
	if patch.Summary.IsSet() {
		updated.Summary = patch.Summary.Value()
		set["summary"] = updated.Summary
	}
	if patch.Description.IsSet() {
		updated.Description = patch.Description.Value()
		set["description"] = updated.Description
	}
	if patch.URL.IsSet() {
		updated.URL = patch.URL.Value()
		set["url"] = updated.URL
	}
	if patch.RepoURL.IsSet() {
		updated.RepoURL = patch.RepoURL.Value()
		set["repoUrl"] = updated.RepoURL
	}
	if patch.Thumb.IsSet() {
		updated.Thumb = patch.Thumb.Value()
		set["thumb"] = updated.Thumb
	}
	if patch.Media.IsSet() {
		updated.Media = patch.Media.Value()
		set["media"] = updated.Media
	}

	if patch.Skills.IsSet() {
		snapshots, err := service.resolver.ResolveMany(ctx, q, catalog.KindSkill, patch.Skills.Value(), opts)
		if err != nil {
			return nil, nil, err
		}
		missing = append(missing, catalog.MissingRefs("skills", patch.Skills.Value(), snapshots)...)
		updated.Skills = snapshots
		set["skills"] = snapshots
	}
	if patch.Tasks.IsSet() {
		snapshots, err := service.resolver.ResolveMany(ctx, q, catalog.KindTask, patch.Tasks.Value(), opts)
		if err != nil {
			return nil, nil, err
		}
		missing = append(missing, catalog.MissingRefs("tasks", patch.Tasks.Value(), snapshots)...)
		updated.Tasks = snapshots
		set["tasks"] = snapshots
	}

	var err error
	if patch.Type.IsSet() {
		if updated.Type, missing, err = service.resolveSingle(ctx, q, catalog.KindType, "type", patch.Type.Value(), missing, opts); err != nil {
			return nil, nil, err
		}
		set["type"] = updated.Type
	}
	if patch.Client.IsSet() {
		if updated.Client, missing, err = service.resolveSingle(ctx, q, catalog.KindClient, "client", patch.Client.Value(), missing, opts); err != nil {
			return nil, nil, err
		}
		set["client"] = updated.Client
	}
	if patch.Studio.IsSet() {
		if updated.Studio, missing, err = service.resolveSingle(ctx, q, catalog.KindStudio, "studio", patch.Studio.Value(), missing, opts); err != nil {
			return nil, nil, err
		}
		set["studio"] = updated.Studio
	}

	if patch.Published.IsSet() {
		updated.Published = patch.Published.Value()
		set["published"] = updated.Published
	}
	if patch.Featured.IsSet() {
		updated.Featured = patch.Featured.Value()
		set["featured"] = updated.Featured
	}
	if patch.SortOrder.IsSet() {
		updated.SortOrder = patch.SortOrder.Value()
		set["order"] = updated.SortOrder
	}

	return set, missing, nil
}
