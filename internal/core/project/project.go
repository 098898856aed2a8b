// Copyright (c) 2026 Folioworks. All rights reserved.

/*
Package project manages the portfolio's project documents.

A project embeds point-in-time relation snapshots (skills, tasks, type,
client, studio) confirmed against the catalog at write time. Snapshots are a
deliberate cache: public reads never join back to the catalog, and a later
catalog rename does not rewrite history.

Core Responsibility:

  - Identity: Projects are addressed by a unique URL slug.
  - Relations: Loose inbound refs are resolved to snapshots on every write;
    relation lists are replaced wholesale, never merged.
  - Visibility: Only published projects appear on the public read API.
*/
package project

import (
	"time"

	"github.com/folioworks/folio/internal/core/catalog"
	"github.com/folioworks/folio/pkg/optional"
)

// Project is a single portfolio work item.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	RepoURL     string `json:"repoUrl,omitempty"`
	Thumb       string `json:"thumb,omitempty"`

	// Media holds gallery asset URLs in display order.
	Media []string `json:"media,omitempty"`

	// Relation snapshots, confirmed against the catalog at write time.
	Skills []catalog.Snapshot `json:"skills"`
	Tasks  []catalog.Snapshot `json:"tasks"`
	Type   *catalog.Snapshot  `json:"type,omitempty"`
	Client *catalog.Snapshot  `json:"client,omitempty"`
	Studio *catalog.Snapshot  `json:"studio,omitempty"`

	Published bool `json:"published"`
	Featured  bool `json:"featured"`
	SortOrder int  `json:"order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input is the admin payload for creating a project (POST). Relation fields
// carry loose refs, not snapshots; the service resolves them.
type Input struct {
	Title       string `json:"title"`
	Slug        string `json:"slug,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	RepoURL     string `json:"repoUrl,omitempty"`
	Thumb       string `json:"thumb,omitempty"`

	Media []string `json:"media,omitempty"`

	Skills []catalog.Ref `json:"skills,omitempty"`
	Tasks  []catalog.Ref `json:"tasks,omitempty"`
	Type   *catalog.Ref  `json:"type,omitempty"`
	Client *catalog.Ref  `json:"client,omitempty"`
	Studio *catalog.Ref  `json:"studio,omitempty"`

	Published bool `json:"published,omitempty"`
	Featured  bool `json:"featured,omitempty"`
	SortOrder int  `json:"order,omitempty"`
}

// Patch is the admin payload for partial updates (PATCH).
//
// Absent fields leave the stored value unchanged. An explicit null (or empty
// list) clears the field. The [optional.Field] wrapper preserves that
// distinction through JSON decoding.
type Patch struct {
	Title       optional.Field[string] `json:"title"`
	Slug        optional.Field[string] `json:"slug"`
	Summary     optional.Field[string] `json:"summary"`
	Description optional.Field[string] `json:"description"`
	URL         optional.Field[string] `json:"url"`
	RepoURL     optional.Field[string] `json:"repoUrl"`
	Thumb       optional.Field[string] `json:"thumb"`

	Media optional.Field[[]string] `json:"media"`

	Skills optional.Field[[]catalog.Ref] `json:"skills"`
	Tasks  optional.Field[[]catalog.Ref] `json:"tasks"`
	Type   optional.Field[*catalog.Ref]  `json:"type"`
	Client optional.Field[*catalog.Ref]  `json:"client"`
	Studio optional.Field[*catalog.Ref]  `json:"studio"`

	Published optional.Field[bool] `json:"published"`
	Featured  optional.Field[bool] `json:"featured"`
	SortOrder optional.Field[int]  `json:"order"`
}
