// Copyright (c) 2026 Folioworks. All rights reserved.

/*
Package resume manages resume/CV items.

Items have no natural slug. Their create-time identity is the composite
(section, title, organization, startDate) tuple; updates and deletes address
items by id. Skills embed catalog snapshots like the other content families,
with one extra behavior: when a write allows new entries, skills that are
still unresolved after normal resolution are upserted into the catalog by
their desired slug, so importing a resume never silently drops a skill.
*/
package resume

import (
	"time"

	"github.com/folioworks/folio/internal/core/catalog"
	"github.com/folioworks/folio/pkg/optional"
)

// Section buckets resume items for grouped public rendering.
type Section string

const (
	SectionExperience Section = "experience"
	SectionProjects   Section = "projects"
	SectionEducation  Section = "education"
	SectionAwards     Section = "awards"
	SectionSkills     Section = "skills"
	SectionOther      Section = "other"
)

// Sections lists every valid section in presentation order.
func Sections() []Section {
	return []Section{
		SectionExperience, SectionProjects, SectionEducation,
		SectionAwards, SectionSkills, SectionOther,
	}
}

// IsValid reports whether s is a recognised [Section] value.
func (s Section) IsValid() bool {
	switch s {
	case SectionExperience, SectionProjects, SectionEducation,
		SectionAwards, SectionSkills, SectionOther:
		return true
	}
	return false
}

// Link is an external reference attached to a resume item.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Item is a single resume entry.
//
// StartDate and EndDate are ISO-style year-month strings ("2023-04"); the
// start date participates in the composite identity, so it is stored verbatim
// rather than as a timestamp.
type Item struct {
	ID           string  `json:"id"`
	Section      Section `json:"section"`
	Title        string  `json:"title"`
	Organization string  `json:"organization,omitempty"`
	Location     string  `json:"location,omitempty"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate,omitempty"`
	Current      bool    `json:"current"`

	Bullets []string           `json:"bullets,omitempty"`
	Links   []Link             `json:"links,omitempty"`
	Skills  []catalog.Snapshot `json:"skills"`

	SortOrder int  `json:"order"`
	Hidden    bool `json:"hidden"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input is the admin create payload.
type Input struct {
	Section      string `json:"section"`
	Title        string `json:"title"`
	Organization string `json:"organization,omitempty"`
	Location     string `json:"location,omitempty"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate,omitempty"`
	Current      bool   `json:"current,omitempty"`

	Bullets []string      `json:"bullets,omitempty"`
	Links   []Link        `json:"links,omitempty"`
	Skills  []catalog.Ref `json:"skills,omitempty"`

	SortOrder int  `json:"order,omitempty"`
	Hidden    bool `json:"hidden,omitempty"`
}

// Patch is the admin partial-update payload.
type Patch struct {
	Section      optional.Field[string] `json:"section"`
	Title        optional.Field[string] `json:"title"`
	Organization optional.Field[string] `json:"organization"`
	Location     optional.Field[string] `json:"location"`
	StartDate    optional.Field[string] `json:"startDate"`
	EndDate      optional.Field[string] `json:"endDate"`
	Current      optional.Field[bool]   `json:"current"`

	Bullets optional.Field[[]string]      `json:"bullets"`
	Links   optional.Field[[]Link]        `json:"links"`
	Skills  optional.Field[[]catalog.Ref] `json:"skills"`

	SortOrder optional.Field[int]  `json:"order"`
	Hidden    optional.Field[bool] `json:"hidden"`
}

// Identity is the composite create-time identity of an item.
type Identity struct {
	Section      Section
	Title        string
	Organization string
	StartDate    string
}

// IdentityOf extracts the composite identity from a create payload.
func IdentityOf(input Input) Identity {
	return Identity{
		Section:      Section(input.Section),
		Title:        input.Title,
		Organization: input.Organization,
		StartDate:    input.StartDate,
	}
}
