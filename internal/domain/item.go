package domain

import "strings"

// ItemKind distinguishes the catalog an item comes from.
type ItemKind string

const (
	ItemKindBook  ItemKind = "book"
	ItemKindMovie ItemKind = "movie"
)

// Valid reports whether the kind is known.
func (k ItemKind) Valid() bool {
	return k == ItemKindBook || k == ItemKindMovie
}

// ItemMetadata is a denormalized snapshot of catalog data taken when an item
// is placed or reviewed. It is never refreshed afterwards.
type ItemMetadata struct {
	ItemID   string   `json:"item_id" validate:"docid,max=200"`
	Kind     ItemKind `json:"kind" validate:"itemkind"`
	Title    string   `json:"title" validate:"required,max=500"`
	Creator  string   `json:"creator,omitempty" validate:"max=300"` // Author or director
	CoverURL string   `json:"cover_url,omitempty" validate:"omitempty,http_url,max=2048"`
}

// Normalize trims whitespace and defaults the kind to book.
func (m *ItemMetadata) Normalize() {
	m.ItemID = strings.TrimSpace(m.ItemID)
	m.Title = strings.TrimSpace(m.Title)
	m.Creator = strings.TrimSpace(m.Creator)
	m.CoverURL = strings.TrimSpace(m.CoverURL)
	if m.Kind == "" {
		m.Kind = ItemKindBook
	}
}
