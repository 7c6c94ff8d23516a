package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
)

// ToggleFavorite flips the favorite marker for item and returns the new state.
// The current state is read inside the writing transaction. When a
// concurrent toggle wins the race, this call changes nothing and reports the
// state the winner produced.
func (s *Store) ToggleFavorite(ctx context.Context, userID string, item domain.ItemMetadata) (bool, error) {
	if err := checkSegments(userID, item.ItemID); err != nil {
		return false, err
	}

	favKey := key(favoritePrefix, userID, item.ItemID)
	var favorite bool
	err := s.update(ctx, "toggle favorite", func(tx *Tx) error {
		exists, err := tx.exists(favKey)
		if err != nil {
			return fmt.Errorf("check favorite: %w", err)
		}

		if exists {
			if err := tx.delete(favKey); err != nil {
				return fmt.Errorf("delete favorite: %w", err)
			}
			favorite = false
		} else {
			fav := &domain.FavoriteEntry{UserID: userID, Item: item, AddedAt: s.now()}
			if err := tx.set(favKey, fav); err != nil {
				return fmt.Errorf("set favorite: %w", err)
			}
			favorite = true
		}
		tx.emit(domain.TopicShelves, userID)
		return nil
	})
	if errors.Is(err, domainerrors.ErrPreconditionFailed) {
		if s.logger != nil {
			s.logger.Debug("favorite toggle lost race", "user_id", userID, "item_id", item.ItemID)
		}
		return s.IsFavorite(ctx, userID, item.ItemID)
	}
	if err != nil {
		return false, err
	}
	return favorite, nil
}

// IsFavorite reports whether the user has favorited itemID.
func (s *Store) IsFavorite(ctx context.Context, userID, itemID string) (bool, error) {
	if err := checkSegments(userID, itemID); err != nil {
		return false, err
	}

	var favorite bool
	err := s.view(ctx, "is favorite", func(tx *Tx) error {
		var err error
		favorite, err = tx.exists(key(favoritePrefix, userID, itemID))
		return err
	})
	return favorite, err
}

// ListFavorites returns the user's favorites, most recently added first.
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]*domain.FavoriteEntry, error) {
	if err := checkSegments(userID); err != nil {
		return nil, err
	}

	var favorites []*domain.FavoriteEntry
	err := s.view(ctx, "list favorites", func(tx *Tx) error {
		var err error
		favorites, err = listDocs[domain.FavoriteEntry](tx, scope(favoritePrefix, userID))
		return err
	})
	if err != nil {
		return nil, err
	}

	sortFavorites(favorites)
	return favorites, nil
}

func sortFavorites(favorites []*domain.FavoriteEntry) {
	slices.SortFunc(favorites, func(a, b *domain.FavoriteEntry) int {
		return cmp.Or(b.AddedAt.Compare(a.AddedAt), cmp.Compare(a.Item.ItemID, b.Item.ItemID))
	})
}
