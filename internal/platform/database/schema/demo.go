package schema

// DemoTable represents the 'folio.demo' table.
//
// Demos share the project shape minus the tasks relation list.
type DemoTable struct {
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
	Type        string
	Client      string
	Studio      string
	Published   string
	Featured    string
	SortOrder   string
	CreatedAt   string
	UpdatedAt   string
}

// Demo is the schema definition for folio.demo
var Demo = DemoTable{
	Table:       "folio.demo",
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
	Type:        "reltype",
	Client:      "relclient",
	Studio:      "relstudio",
	Published:   "published",
	Featured:    "featured",
	SortOrder:   "sortorder",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t DemoTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Summary, t.Description, t.URL, t.RepoURL,
		t.Thumb, t.Media, t.Skills, t.Type, t.Client, t.Studio,
		t.Published, t.Featured, t.SortOrder, t.CreatedAt, t.UpdatedAt,
	}
}
