package demo

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
type RelationResolver interface {
	ResolveOne(ctx context.Context, q postgres.Querier, kind catalog.Kind, ref *catalog.Ref, opts catalog.Options) (*catalog.Snapshot, error)
	ResolveMany(ctx context.Context, q postgres.Querier, kind catalog.Kind, refs []catalog.Ref, opts catalog.Options) ([]catalog.Snapshot, error)
}

// Service orchestrates demo reads and admin writes. The write state machine
// is identical to the project service's; demos just carry fewer relations.
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

func (service *Service) ListPublished(ctx context.Context, page pagination.Params) ([]*Demo, pagination.Meta, error) {
	demos, err := service.store.List(ctx, service.db, true, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	total, err := service.store.Count(ctx, service.db, true)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return demos, pagination.NewMeta(page.Page, page.Limit, total), nil
}

func (service *Service) GetPublished(ctx context.Context, demoSlug string) (*Demo, error) {
	found, err := service.store.GetBySlug(ctx, service.db, demoSlug)
	if err != nil {
		return nil, err
	}
	if !found.Published {
		return nil, apperr.NotFoundMsg("Demo %q not found", demoSlug)
	}
	return found, nil
}

// Create persists a new demo, or updates in place when upsert is requested.
// Unresolved relation refs abort the whole write.
func (service *Service) Create(ctx context.Context, input Input, opts content.WriteOptions) (*Demo, *content.Plan, error) {
	validator := &validate.Validator{}
	validator.Required("title", input.Title).MaxLen("title", input.Title, 300)

	demoSlug := input.Slug
	if demoSlug == "" {
		demoSlug = slug.From(input.Title)
	}
	validator.Slug("slug", demoSlug)

	if err := validator.Err(); err != nil {
		return nil, nil, err
	}

	existing, err := service.store.GetBySlug(ctx, service.db, demoSlug)
	if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		return nil, nil, err
	}
	if existing != nil && !opts.Upsert {
		return nil, nil, apperr.Conflict("Demo with slug %q already exists", demoSlug)
	}

	resolveOpts := catalog.Options{
		AllowNew:     opts.AllowNew,
		BackfillSlug: true,
		Simulate:     opts.DryRun,
	}

	if opts.DryRun {
		built, missing, err := service.assemble(ctx, service.db, demoSlug, input, resolveOpts)
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
		return nil, &content.Plan{
			Action: action,
			Target: demoSlug,
			Set: map[string]any{
				"title": built.Title, "slug": built.Slug, "summary": built.Summary,
				"description": built.Description, "url": built.URL, "repoUrl": built.RepoURL,
				"thumb": built.Thumb, "media": built.Media,
				"skills": built.Skills, "type": built.Type, "client": built.Client, "studio": built.Studio,
				"published": built.Published, "featured": built.Featured, "order": built.SortOrder,
			},
		}, nil
	}

	var result *Demo
	err = service.runner.WithOptionalTx(ctx, func(q postgres.Querier) error {
		built, missing, err := service.assemble(ctx, q, demoSlug, input, resolveOpts)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return content.UnresolvedError(missing)
		}

		if existing != nil {
			built.ID = existing.ID
			built.CreatedAt = existing.CreatedAt
			result = built
			return service.store.Update(ctx, q, built)
		}

		built.ID = uuidv7.New()
		result = built
		return service.store.Insert(ctx, q, built)
	})
	if err != nil {
		return nil, nil, err
	}

	service.logger.InfoContext(ctx, "demo_written",
		slog.String("slug", result.Slug),
		slog.String("id", result.ID),
	)

	return result, nil, nil
}

// Update applies a partial update; relation lists replace wholesale.
func (service *Service) Update(ctx context.Context, demoSlug string, patch Patch, opts content.WriteOptions) (*Demo, *content.Plan, error) {
	existing, err := service.store.GetBySlug(ctx, service.db, demoSlug)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, nil, apperr.NotFoundMsg("Demo %q not found", demoSlug)
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
		return nil, &content.Plan{Action: content.ActionUpdate, Target: demoSlug, Set: set}, nil
	}

	var result *Demo
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

	service.logger.InfoContext(ctx, "demo_updated", slog.String("slug", result.Slug))

	return result, nil, nil
}

func (service *Service) Delete(ctx context.Context, demoSlug string) error {
	deleted, err := service.store.Delete(ctx, service.db, demoSlug)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperr.NotFoundMsg("Demo %q not found", demoSlug)
	}

	service.logger.InfoContext(ctx, "demo_deleted", slog.String("slug", demoSlug))

	return nil
}

// assemble resolves every relation ref and builds the full document.
func (service *Service) assemble(ctx context.Context, q postgres.Querier, demoSlug string, input Input, opts catalog.Options) (*Demo, []string, error) {
	var missing []string

	skills, err := service.resolver.ResolveMany(ctx, q, catalog.KindSkill, input.Skills, opts)
	if err != nil {
		return nil, nil, err
	}
	missing = append(missing, catalog.MissingRefs("skills", input.Skills, skills)...)

	typ, missing, err := service.resolveSingle(ctx, q, catalog.KindType, "type", input.Type, missing, opts)
	if err != nil {
		return nil, nil, err
	}
	client, missing, err := service.resolveSingle(ctx, q, catalog.KindClient, "client", input.Client, missing, opts)
	if err != nil {
		return nil, nil, err
	}
	studio, missing, err := service.resolveSingle(ctx, q, catalog.KindStudio, "studio", input.Studio, missing, opts)
	if err != nil {
		return nil, nil, err
	}

	return &Demo{
		Title:       input.Title,
		Slug:        demoSlug,
		Summary:     input.Summary,
		Description: input.Description,
		URL:         input.URL,
		RepoURL:     input.RepoURL,
		Thumb:       input.Thumb,
		Media:       input.Media,
		Skills:      skills,
		Type:        typ,
		Client:      client,
		Studio:      studio,
		Published:   input.Published,
		Featured:    input.Featured,
		SortOrder:   input.SortOrder,
	}, missing, nil
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

func (service *Service) applyPatch(ctx context.Context, q postgres.Querier, updated *Demo, patch Patch, opts catalog.Options) (map[string]any, []string, error) {
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
