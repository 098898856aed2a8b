package schema

// ProjectTable represents the 'folio.project' table.
//
// Relation snapshots (skills, tasks, type, client, studio) are embedded as
// JSONB documents, not foreign keys: each is a point-in-time {slug, name}
// copy confirmed against the catalog at write time.
type ProjectTable struct {
	Table       string
	ID          string
	Title       string
	Slug        string
	Summary     string
	Description string
	URL         string
	RepoURL     string
	Thumb       string
	Media       string
	Skills      string
	Tasks       string
	Type        string
	Client      string
	Studio      string
	Published   string
	Featured    string
	SortOrder   string
	CreatedAt   string
	UpdatedAt   string
}

// Project is the schema definition for folio.project
var Project = ProjectTable{
	Table:       "folio.project",
	ID:          "id",
	Title:       "title",
	Slug:        "slug",
	Summary:     "summary",
	Description: "description",
	URL:         "url",
	RepoURL:     "repourl",
	Thumb:       "thumb",
	Media:       "media",
	Skills:      "skills",
	Tasks:       "tasks",
	Type:        "reltype",
	Client:      "relclient",
	Studio:      "relstudio",
	Published:   "published",
	Featured:    "featured",
	SortOrder:   "sortorder",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t ProjectTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Summary, t.Description, t.URL, t.RepoURL,
		t.Thumb, t.Media, t.Skills, t.Tasks, t.Type, t.Client, t.Studio,
		t.Published, t.Featured, t.SortOrder, t.CreatedAt, t.UpdatedAt,
	}
}
