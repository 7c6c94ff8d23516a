package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
)

func book(id, title string) domain.ItemMetadata {
	return domain.ItemMetadata{ItemID: id, Kind: domain.ItemKindBook, Title: title, Creator: "Author"}
}

func TestPlaceOnShelf_CreatesEntry(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	res, err := s.PlaceOnShelf(ctx, "user-a", book("1984", "1984"), domain.ShelfWantToRead)
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.True(t, res.Changed)
	assert.Equal(t, domain.ShelfWantToRead, res.Entry.Shelf)
	assert.Nil(t, res.Entry.DateFinished)

	got, err := s.GetShelfEntry(ctx, "user-a", "1984")
	require.NoError(t, err)
	assert.Equal(t, "1984", got.Item.Title)
}

func TestPlaceOnShelf_MoveToFinished(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.PlaceOnShelf(ctx, "user-a", book("1984", "1984"), domain.ShelfWantToRead)
	require.NoError(t, err)

	res, err := s.MoveShelfEntry(ctx, "user-a", "1984", domain.ShelfFinished)
	require.NoError(t, err)
	assert.False(t, res.Created)
	require.NotNil(t, res.Entry.DateFinished)

	wantToRead, err := s.ListShelf(ctx, "user-a", domain.ShelfWantToRead)
	require.NoError(t, err)
	assert.Empty(t, wantToRead)

	finished, err := s.ListShelf(ctx, "user-a", domain.ShelfFinished)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, "1984", finished[0].Item.ItemID)
	assert.NotNil(t, finished[0].DateFinished)

	all, err := s.ListShelfEntries(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPlaceOnShelf_KeepsOriginalSnapshot(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.PlaceOnShelf(ctx, "user-a", book("dune", "Dune"), domain.ShelfWantToRead)
	require.NoError(t, err)

	res, err := s.PlaceOnShelf(ctx, "user-a", book("dune", "Dune (Deluxe Edition)"), domain.ShelfCurrentlyReading)
	require.NoError(t, err)

	assert.Equal(t, "Dune", res.Entry.Item.Title)
	assert.Equal(t, domain.ShelfCurrentlyReading, res.Entry.Shelf)
}

func TestPlaceOnShelf_SameShelfIsNoop(t *testing.T) {
	s, rec := setupRecordingStore(t)
	ctx := context.Background()

	first, err := s.PlaceOnShelf(ctx, "user-a", book("dune", "Dune"), domain.ShelfWantToRead)
	require.NoError(t, err)

	again, err := s.PlaceOnShelf(ctx, "user-a", book("dune", "Dune"), domain.ShelfWantToRead)
	require.NoError(t, err)

	assert.False(t, again.Changed)
	assert.Equal(t, first.Entry.DateAdded, again.Entry.DateAdded)
	assert.Len(t, rec.all(), 1, "no-op placement must not emit a change")
}

func TestMoveShelfEntry_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.MoveShelfEntry(context.Background(), "user-a", "missing", domain.ShelfFinished)

	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRemoveShelfEntry(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.PlaceOnShelf(ctx, "user-a", book("dune", "Dune"), domain.ShelfFinished)
	require.NoError(t, err)
	_, err = s.ToggleFavorite(ctx, "user-a", book("dune", "Dune"))
	require.NoError(t, err)

	require.NoError(t, s.RemoveShelfEntry(ctx, "user-a", "dune"))

	_, err = s.GetShelfEntry(ctx, "user-a", "dune")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	finished, err := s.ListShelf(ctx, "user-a", domain.ShelfFinished)
	require.NoError(t, err)
	assert.Empty(t, finished)

	fav, err := s.IsFavorite(ctx, "user-a", "dune")
	require.NoError(t, err)
	assert.True(t, fav, "removing from a shelf leaves favorites alone")

	err = s.RemoveShelfEntry(ctx, "user-a", "dune")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListShelf_NewestFirst(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	s.SetClock(steppingClock())
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := s.PlaceOnShelf(ctx, "user-a", book(id, id), domain.ShelfWantToRead)
		require.NoError(t, err)
	}

	entries, err := s.ListShelf(ctx, "user-a", domain.ShelfWantToRead)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].Item.ItemID)
	assert.Equal(t, "a", entries[2].Item.ItemID)
}

func TestPlaceOnShelf_AtMostOneShelfUnderRandomMoves(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	items := []string{"i1", "i2", "i3"}
	rng := rand.New(rand.NewPCG(1, 2))
	last := map[string]domain.ShelfType{}

	for i := 0; i < 60; i++ {
		item := items[rng.IntN(len(items))]
		target := domain.ShelfTypes[rng.IntN(len(domain.ShelfTypes))]
		_, err := s.PlaceOnShelf(ctx, "user-a", book(item, item), target)
		require.NoError(t, err)
		last[item] = target
	}

	snap, err := s.ShelfSnapshot(ctx, "user-a")
	require.NoError(t, err)

	seen := map[string]int{}
	for shelf, entries := range snap.Shelves {
		for _, e := range entries {
			seen[e.Item.ItemID]++
			assert.Equal(t, last[e.Item.ItemID], shelf)
		}
	}
	for _, item := range items {
		assert.Equal(t, 1, seen[item], fmt.Sprintf("item %s must be on exactly one shelf", item))
	}

	for _, shelf := range domain.ShelfTypes {
		indexed, err := s.ListShelf(ctx, "user-a", shelf)
		require.NoError(t, err)
		assert.Len(t, indexed, len(snap.Shelves[shelf]))
	}
}

func TestPlaceOnShelf_RejectsSeparatorInIDs(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.PlaceOnShelf(context.Background(), "user:a", book("x", "x"), domain.ShelfWantToRead)

	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestToggleFavorite_Idempotence(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	on, err := s.ToggleFavorite(ctx, "user-a", book("dune", "Dune"))
	require.NoError(t, err)
	assert.True(t, on)

	off, err := s.ToggleFavorite(ctx, "user-a", book("dune", "Dune"))
	require.NoError(t, err)
	assert.False(t, off)

	favs, err := s.ListFavorites(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestShelfSnapshot_IncludesFavorites(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.ToggleFavorite(ctx, "user-a", book("dune", "Dune"))
	require.NoError(t, err)

	snap, err := s.ShelfSnapshot(ctx, "user-a")
	require.NoError(t, err)

	require.Len(t, snap.Favorites, 1)
	assert.Equal(t, "dune", snap.Favorites[0].Item.ItemID)
	for _, shelf := range domain.ShelfTypes {
		assert.NotNil(t, snap.Shelves[shelf])
		assert.Empty(t, snap.Shelves[shelf])
	}
}

func TestPlaceOnShelf_EmitsChangeForOwner(t *testing.T) {
	s, rec := setupRecordingStore(t)

	_, err := s.PlaceOnShelf(context.Background(), "user-a", book("dune", "Dune"), domain.ShelfWantToRead)
	require.NoError(t, err)

	changes := rec.all()
	require.Len(t, changes, 1)
	assert.Equal(t, domain.TopicShelves, changes[0].Topic)
	assert.Equal(t, []string{"user-a"}, changes[0].UserIDs)
}
