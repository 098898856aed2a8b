package schema

// ResumeItemTable represents the 'folio.resume_item' table.
//
// Resume items have no natural slug; their identity for create-time dedup is
// the composite (section, title, organization, startdate) tuple, backed by a
// unique expression index in the migration.
type ResumeItemTable struct {
	Table        string
	ID           string
	Section      string
	Title        string
	Organization string
	Location     string
	StartDate    string
	EndDate      string
	Current      string
	Bullets      string
	Links        string
	Skills       string
	SortOrder    string
	Hidden       string
	CreatedAt    string
	UpdatedAt    string
}

// ResumeItem is the schema definition for folio.resume_item
var ResumeItem = ResumeItemTable{
	Table:        "folio.resume_item",
	ID:           "id",
	Section:      "section",
	Title:        "title",
	Organization: "organization",
	Location:     "location",
	StartDate:    "startdate",
	EndDate:      "enddate",
	Current:      "current",
	Bullets:      "bullets",
	Links:        "links",
	Skills:       "skills",
	SortOrder:    "sortorder",
	Hidden:       "hidden",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t ResumeItemTable) Columns() []string {
	return []string{
		t.ID, t.Section, t.Title, t.Organization, t.Location, t.StartDate,
		t.EndDate, t.Current, t.Bullets, t.Links, t.Skills, t.SortOrder,
		t.Hidden, t.CreatedAt, t.UpdatedAt,
	}
}
