package schema

// CatalogEntryTable represents the 'folio.catalog_entry' table.
//
// All five catalog kinds (skill, task, type, client, studio) share this table,
// discriminated by the Kind column. Slug uniqueness is sparse and per kind:
// UNIQUE (kind, slug) with NULL slugs exempt.
type CatalogEntryTable struct {
	Table     string
	ID        string
	Kind      string
	Slug      string
	Name      string
	CreatedAt string
	UpdatedAt string
}

// CatalogEntry is the schema definition for folio.catalog_entry
var CatalogEntry = CatalogEntryTable{
	Table:     "folio.catalog_entry",
	ID:        "id",
	Kind:      "kind",
	Slug:      "slug",
	Name:      "name",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t CatalogEntryTable) Columns() []string {
	return []string{t.ID, t.Kind, t.Slug, t.Name, t.CreatedAt, t.UpdatedAt}
}
