package domain

import (
	"cmp"
	"slices"
	"time"
)

// ShelfType names one of the mutually exclusive shelves an item can sit on.
type ShelfType string

const (
	ShelfCurrentlyReading ShelfType = "currently-reading"
	ShelfWantToRead       ShelfType = "want-to-read"
	ShelfFinished         ShelfType = "finished"
	ShelfStoppedReading   ShelfType = "stopped-reading"
)

// ShelfTypes lists every shelf in display order.
var ShelfTypes = []ShelfType{
	ShelfCurrentlyReading,
	ShelfWantToRead,
	ShelfFinished,
	ShelfStoppedReading,
}

// Valid reports whether t is one of the known shelves.
func (t ShelfType) Valid() bool {
	return slices.Contains(ShelfTypes, t)
}

// ShelfEntry is the single placement of an item for a user.
// A user has at most one entry per item.
type ShelfEntry struct {
	UserID       string       `json:"user_id"`
	Item         ItemMetadata `json:"item"`
	Shelf        ShelfType    `json:"shelf"`
	DateAdded    time.Time    `json:"date_added"`
	DateFinished *time.Time   `json:"date_finished,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewShelfEntry creates an entry placed on shelf at now.
func NewShelfEntry(userID string, item ItemMetadata, shelf ShelfType, now time.Time) *ShelfEntry {
	e := &ShelfEntry{
		UserID:    userID,
		Item:      item,
		DateAdded: now,
	}
	e.place(shelf, now)
	return e
}

// MoveTo places the entry on shelf. It reports false when the entry is
// already there, in which case nothing changes. The metadata snapshot is kept.
func (e *ShelfEntry) MoveTo(shelf ShelfType, now time.Time) bool {
	if e.Shelf == shelf {
		return false
	}
	e.DateAdded = now
	e.place(shelf, now)
	return true
}

func (e *ShelfEntry) place(shelf ShelfType, now time.Time) {
	e.Shelf = shelf
	e.UpdatedAt = now
	if shelf == ShelfFinished {
		finished := now
		e.DateFinished = &finished
	} else {
		e.DateFinished = nil
	}
}

// SortNewestFirst orders entries by DateAdded descending, ties broken by item id.
func SortNewestFirst(entries []*ShelfEntry) {
	slices.SortFunc(entries, func(a, b *ShelfEntry) int {
		if c := b.DateAdded.Compare(a.DateAdded); c != 0 {
			return c
		}
		return cmp.Compare(a.Item.ItemID, b.Item.ItemID)
	})
}

// FavoriteEntry marks an item as a favorite, independent of shelf placement.
type FavoriteEntry struct {
	UserID  string       `json:"user_id"`
	Item    ItemMetadata `json:"item"`
	AddedAt time.Time    `json:"added_at"`
}

// ShelfSnapshot is the full shelf state of one user.
type ShelfSnapshot struct {
	Shelves   map[ShelfType][]*ShelfEntry `json:"shelves"`
	Favorites []*FavoriteEntry            `json:"favorites"`
}
