// Package demo manages playable/interactive demo documents. Demos mirror
// projects structurally (minus the tasks relation) but live in their own
// table and have their own public listing.
package demo

import (
	"time"

	"github.com/folioworks/folio/internal/core/catalog"
	"github.com/folioworks/folio/pkg/optional"
)

// Demo is a single interactive demo item.
type Demo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	RepoURL     string `json:"repoUrl,omitempty"`
	Thumb       string `json:"thumb,omitempty"`

	Media []string `json:"media,omitempty"`

	Skills []catalog.Snapshot `json:"skills"`
	Type   *catalog.Snapshot  `json:"type,omitempty"`
	Client *catalog.Snapshot  `json:"client,omitempty"`
	Studio *catalog.Snapshot  `json:"studio,omitempty"`

	Published bool `json:"published"`
	Featured  bool `json:"featured"`
	SortOrder int  `json:"order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input is the admin create payload.
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
	Type   *catalog.Ref  `json:"type,omitempty"`
	Client *catalog.Ref  `json:"client,omitempty"`
	Studio *catalog.Ref  `json:"studio,omitempty"`

	Published bool `json:"published,omitempty"`
	Featured  bool `json:"featured,omitempty"`
	SortOrder int  `json:"order,omitempty"`
}

// Patch is the admin partial-update payload. Absent fields keep their stored
// values; explicit nulls and empty lists clear.
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
	Type   optional.Field[*catalog.Ref]  `json:"type"`
	Client optional.Field[*catalog.Ref]  `json:"client"`
	Studio optional.Field[*catalog.Ref]  `json:"studio"`

	Published optional.Field[bool] `json:"published"`
	Featured  optional.Field[bool] `json:"featured"`
	SortOrder optional.Field[int]  `json:"order"`
}
