package domain

import "time"

// Rating bounds for reviews.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating and text for an item. One per author per item.
type Review struct {
	ID                string       `json:"id"`
	AuthorID          string       `json:"author_id"`
	AuthorDisplayName string       `json:"author_display_name"`
	Item              ItemMetadata `json:"item"`
	Rating            int          `json:"rating"`
	Text              string       `json:"text"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}
