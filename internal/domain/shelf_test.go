package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShelfEntry_Finished_SetsDateFinished(t *testing.T) {
	now := time.Now()
	e := NewShelfEntry("user-1", ItemMetadata{ItemID: "1984"}, ShelfFinished, now)

	require.NotNil(t, e.DateFinished)
	assert.Equal(t, now, *e.DateFinished)
	assert.Equal(t, now, e.DateAdded)
}

func TestShelfEntry_MoveTo(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	e := NewShelfEntry("user-1", ItemMetadata{ItemID: "1984", Title: "1984"}, ShelfWantToRead, start)
	assert.Nil(t, e.DateFinished)

	later := time.Now()
	moved := e.MoveTo(ShelfFinished, later)

	assert.True(t, moved)
	assert.Equal(t, ShelfFinished, e.Shelf)
	assert.Equal(t, later, e.DateAdded)
	require.NotNil(t, e.DateFinished)
	assert.Equal(t, "1984", e.Item.Title)
}

func TestShelfEntry_MoveTo_SameShelfIsNoop(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	e := NewShelfEntry("user-1", ItemMetadata{ItemID: "dune"}, ShelfCurrentlyReading, start)

	moved := e.MoveTo(ShelfCurrentlyReading, time.Now())

	assert.False(t, moved)
	assert.Equal(t, start, e.DateAdded)
}

func TestShelfEntry_MoveTo_LeavingFinishedClearsDate(t *testing.T) {
	e := NewShelfEntry("user-1", ItemMetadata{ItemID: "dune"}, ShelfFinished, time.Now())

	e.MoveTo(ShelfStoppedReading, time.Now())

	assert.Nil(t, e.DateFinished)
}

func TestShelfType_Valid(t *testing.T) {
	for _, s := range ShelfTypes {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ShelfType("favorites").Valid())
	assert.False(t, ShelfType("").Valid())
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Now()
	entries := []*ShelfEntry{
		{Item: ItemMetadata{ItemID: "a"}, DateAdded: base.Add(-2 * time.Hour)},
		{Item: ItemMetadata{ItemID: "b"}, DateAdded: base},
		{Item: ItemMetadata{ItemID: "c"}, DateAdded: base.Add(-time.Hour)},
	}

	SortNewestFirst(entries)

	assert.Equal(t, "b", entries[0].Item.ItemID)
	assert.Equal(t, "c", entries[1].Item.ItemID)
	assert.Equal(t, "a", entries[2].Item.ItemID)
}

func TestChange_Affects(t *testing.T) {
	c := Change{Topic: TopicFriends, UserIDs: []string{"a", "b"}}

	assert.True(t, c.Affects("b"))
	assert.False(t, c.Affects("c"))
}
