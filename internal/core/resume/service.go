// Copyright (c) 2026 Folioworks. All rights reserved.

package resume

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
	"github.com/folioworks/folio/pkg/uuidv7"
)

// RelationResolver is the slice of the catalog resolver the service needs.
// Skills resolve one ref at a time so the create fallback can retry exactly
// the refs that failed.
type RelationResolver interface {
	ResolveOne(ctx context.Context, q postgres.Querier, kind catalog.Kind, ref *catalog.Ref, opts catalog.Options) (*catalog.Snapshot, error)
}

// Service orchestrates resume item reads and admin writes.
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

// ListGrouped returns the visible resume items grouped by section, sections
// in presentation order, skipping empty sections.
func (service *Service) ListGrouped(ctx context.Context) (map[Section][]*Item, error) {
	items, err := service.store.ListVisible(ctx, service.db)
	if err != nil {
		return nil, err
	}

	grouped := make(map[Section][]*Item)
	for _, item := range items {
		grouped[item.Section] = append(grouped[item.Section], item)
	}

	return grouped, nil
}

// # Admin Writes

/*
Create persists a new resume item, deduplicating on the composite
(section, title, organization, startDate) identity.

Description: Follows the shared content write state machine. On top of normal
resolution, an allowNew write force-creates catalog skills that stayed
unresolved, so a bulk resume import never drops a skill just because the ref
forgot its createIfMissing flag.
*/
func (service *Service) Create(ctx context.Context, input Input, opts content.WriteOptions) (*Item, *content.Plan, error) {
	validator := &validate.Validator{}
	validator.Required("section", input.Section)
	validator.Custom("section", input.Section != "" && !Section(input.Section).IsValid(), "Unknown resume section")
	validator.Required("title", input.Title).MaxLen("title", input.Title, 300)
	validator.Required("startDate", input.StartDate)
	if err := validator.Err(); err != nil {
		return nil, nil, err
	}

	identity := IdentityOf(input)

	existing, err := service.store.GetByIdentity(ctx, service.db, identity)
	if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		return nil, nil, err
	}
	if existing != nil && !opts.Upsert {
		return nil, nil, apperr.Conflict("Resume item %q (%s) already exists", input.Title, input.Section)
	}

	resolveOpts := catalog.Options{
		AllowNew:     opts.AllowNew,
		BackfillSlug: true,
		Simulate:     opts.DryRun,
	}

	if opts.DryRun {
		skills, missing, err := service.resolveSkills(ctx, service.db, input.Skills, resolveOpts)
		if err != nil {
			return nil, nil, err
		}
		if len(missing) > 0 {
			return nil, nil, content.UnresolvedError(missing)
		}

		action := content.ActionCreate
		target := ""
		if existing != nil {
			action = content.ActionUpdate
			target = existing.ID
		}
		built := service.buildItem(input, skills)
		return nil, &content.Plan{
			Action: action,
			Target: target,
			Set: map[string]any{
				"section": built.Section, "title": built.Title,
				"organization": built.Organization, "location": built.Location,
				"startDate": built.StartDate, "endDate": built.EndDate, "current": built.Current,
				"bullets": built.Bullets, "links": built.Links, "skills": built.Skills,
				"order": built.SortOrder, "hidden": built.Hidden,
			},
		}, nil
	}

	var result *Item
	err = service.runner.WithOptionalTx(ctx, func(q postgres.Querier) error {
		skills, missing, err := service.resolveSkills(ctx, q, input.Skills, resolveOpts)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return content.UnresolvedError(missing)
		}

		built := service.buildItem(input, skills)

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

	service.logger.InfoContext(ctx, "resume_item_written",
		slog.String("id", result.ID),
		slog.String("section", string(result.Section)),
		slog.String("title", result.Title),
	)

	return result, nil, nil
}

// Update applies a partial update to the item addressed by id.
func (service *Service) Update(ctx context.Context, id string, patch Patch, opts content.WriteOptions) (*Item, *content.Plan, error) {
	existing, err := service.store.GetByID(ctx, service.db, id)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, nil, apperr.NotFoundMsg("Resume item %q not found", id)
		}
		return nil, nil, err
	}

	validator := &validate.Validator{}
	if patch.Section.IsSet() {
		validator.Custom("section", !Section(patch.Section.Value()).IsValid(), "Unknown resume section")
	}
	if patch.Title.IsSet() {
		validator.Required("title", patch.Title.Value()).MaxLen("title", patch.Title.Value(), 300)
	}
	if patch.StartDate.IsSet() {
		validator.Required("startDate", patch.StartDate.Value())
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
		return nil, &content.Plan{Action: content.ActionUpdate, Target: id, Set: set}, nil
	}

	var result *Item
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

	service.logger.InfoContext(ctx, "resume_item_updated", slog.String("id", result.ID))

	return result, nil, nil
}

// Delete removes the item addressed by id.
func (service *Service) Delete(ctx context.Context, id string) error {
	deleted, err := service.store.Delete(ctx, service.db, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperr.NotFoundMsg("Resume item %q not found", id)
	}

	service.logger.InfoContext(ctx, "resume_item_deleted", slog.String("id", id))

	return nil
}

// # Skill Resolution

// resolveSkills resolves the skill refs one by one, force-creating any ref
// that fails when new entries are allowed. Resolving per ref keeps each
// snapshot tied to the ref that produced it; only refs that genuinely failed
// get the create retry, so a ref whose catalog slug differs from its derived
// slug is never resolved twice. The retry sets createIfMissing and routes
// through the resolver's normal upsert-and-re-read race handling.
func (service *Service) resolveSkills(ctx context.Context, q postgres.Querier, refs []catalog.Ref, opts catalog.Options) ([]catalog.Snapshot, []string, error) {
	snapshots := make([]catalog.Snapshot, 0, len(refs))
	var missing []string

	for i := range refs {
		ref := refs[i]
		if ref.IsEmpty() {
			continue
		}

		snapshot, err := service.resolver.ResolveOne(ctx, q, catalog.KindSkill, &ref, opts)
		if err != nil {
			return nil, nil, err
		}

		if snapshot == nil && opts.AllowNew {
			ref.CreateIfMissing = true
			if snapshot, err = service.resolver.ResolveOne(ctx, q, catalog.KindSkill, &ref, opts); err != nil {
				return nil, nil, err
			}
		}

		if snapshot == nil {
			missing = append(missing, ref.Label("skills"))
			continue
		}
		snapshots = append(snapshots, *snapshot)
	}

	return snapshots, missing, nil
}

// # Write Assembly

func (service *Service) buildItem(input Input, skills []catalog.Snapshot) *Item {
	return &Item{
		Section:      Section(input.Section),
		Title:        input.Title,
		Organization: input.Organization,
		Location:     input.Location,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Current:      input.Current,
		Bullets:      input.Bullets,
		Links:        input.Links,
		Skills:       skills,
		SortOrder:    input.SortOrder,
		Hidden:       input.Hidden,
	}
}

func (service *Service) applyPatch(ctx context.Context, q postgres.Querier, updated *Item, patch Patch, opts catalog.Options) (map[string]any, []string, error) {
	set := map[string]any{}
	var missing []string

	if patch.Section.IsSet() {
		updated.Section = Section(patch.Section.Value())
		set["section"] = updated.Section
	}
	if patch.Title.IsSet() {
		updated.Title = patch.Title.Value()
		set["title"] = updated.Title
	}
	if patch.Organization.IsSet() {
		updated.Organization = patch.Organization.Value()
		set["organization"] = updated.Organization
	}
	if patch.Location.IsSet() {
		updated.Location = patch.Location.Value()
		set["location"] = updated.Location
	}
	if patch.StartDate.IsSet() {
		updated.StartDate = patch.StartDate.Value()
		set["startDate"] = updated.StartDate
	}
	if patch.EndDate.IsSet() {
		updated.EndDate = patch.EndDate.Value()
		set["endDate"] = updated.EndDate
	}
	if patch.Current.IsSet() {
		updated.Current = patch.Current.Value()
		set["current"] = updated.Current
	}
	if patch.Bullets.IsSet() {
		updated.Bullets = patch.Bullets.Value()
		set["bullets"] = updated.Bullets
	}
	if patch.Links.IsSet() {
		updated.Links = patch.Links.Value()
		set["links"] = updated.Links
	}

	if patch.Skills.IsSet() {
		snapshots, skillsMissing, err := service.resolveSkills(ctx, q, patch.Skills.Value(), opts)
		if err != nil {
			return nil, nil, err
		}
		missing = append(missing, skillsMissing...)
		updated.Skills = snapshots
		set["skills"] = snapshots
	}

	if patch.SortOrder.IsSet() {
		updated.SortOrder = patch.SortOrder.Value()
		set["order"] = updated.SortOrder
	}
	if patch.Hidden.IsSet() {
		updated.Hidden = patch.Hidden.Value()
		set["hidden"] = updated.Hidden
	}

	return set, missing, nil
}
