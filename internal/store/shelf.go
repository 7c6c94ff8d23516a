package store

import (
	"context"
	"fmt"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
)

// ShelfResult describes the outcome of a placement.
type ShelfResult struct {
	Entry   *domain.ShelfEntry
	Created bool
	Changed bool
}

// PlaceOnShelf puts item on target for userID, creating the entry if there is
// none. An existing entry keeps its metadata snapshot and is rewritten in place.
func (s *Store) PlaceOnShelf(ctx context.Context, userID string, item domain.ItemMetadata, target domain.ShelfType) (*ShelfResult, error) {
	if err := checkSegments(userID, item.ItemID); err != nil {
		return nil, err
	}

	var result *ShelfResult
	err := s.update(ctx, "place on shelf", func(tx *Tx) error {
		var err error
		result, err = s.placeEntry(tx, userID, item.ItemID, &item, target)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MoveShelfEntry moves an existing entry to target. Fails with NotFound when
// the user has no entry for itemID.
func (s *Store) MoveShelfEntry(ctx context.Context, userID, itemID string, target domain.ShelfType) (*ShelfResult, error) {
	if err := checkSegments(userID, itemID); err != nil {
		return nil, err
	}

	var result *ShelfResult
	err := s.update(ctx, "move shelf entry", func(tx *Tx) error {
		var err error
		result, err = s.placeEntry(tx, userID, itemID, nil, target)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// placeEntry writes the placement inside tx. A nil item means the entry must exist.
func (s *Store) placeEntry(tx *Tx, userID, itemID string, item *domain.ItemMetadata, target domain.ShelfType) (*ShelfResult, error) {
	entryKey := key(shelfPrefix, userID, itemID)
	now := s.now()

	entry, err := getDoc[domain.ShelfEntry](tx, entryKey)
	switch {
	case isNotFound(err):
		if item == nil {
			return nil, domainerrors.NotFoundf("item %s is not on any shelf", itemID)
		}
		entry = domain.NewShelfEntry(userID, *item, target, now)
		if err := tx.set(entryKey, entry); err != nil {
			return nil, fmt.Errorf("set shelf entry: %w", err)
		}
		if err := tx.setIndex(key(shelfByTypePrefix, userID, string(target), itemID)); err != nil {
			return nil, fmt.Errorf("set shelf index: %w", err)
		}
		tx.emit(domain.TopicShelves, userID)
		return &ShelfResult{Entry: entry, Created: true, Changed: true}, nil

	case err != nil:
		return nil, fmt.Errorf("get shelf entry: %w", err)
	}

	previous := entry.Shelf
	if !entry.MoveTo(target, now) {
		return &ShelfResult{Entry: entry}, nil
	}

	if err := tx.delete(key(shelfByTypePrefix, userID, string(previous), itemID)); err != nil {
		return nil, fmt.Errorf("delete shelf index: %w", err)
	}
	if err := tx.set(entryKey, entry); err != nil {
		return nil, fmt.Errorf("set shelf entry: %w", err)
	}
	if err := tx.setIndex(key(shelfByTypePrefix, userID, string(target), itemID)); err != nil {
		return nil, fmt.Errorf("set shelf index: %w", err)
	}
	tx.emit(domain.TopicShelves, userID)
	return &ShelfResult{Entry: entry, Changed: true}, nil
}

// RemoveShelfEntry deletes the user's entry for itemID. Favorites are untouched.
func (s *Store) RemoveShelfEntry(ctx context.Context, userID, itemID string) error {
	if err := checkSegments(userID, itemID); err != nil {
		return err
	}

	return s.update(ctx, "remove shelf entry", func(tx *Tx) error {
		entryKey := key(shelfPrefix, userID, itemID)
		entry, err := getDoc[domain.ShelfEntry](tx, entryKey)
		if isNotFound(err) {
			return domainerrors.NotFoundf("item %s is not on any shelf", itemID)
		}
		if err != nil {
			return fmt.Errorf("get shelf entry: %w", err)
		}

		if err := tx.delete(entryKey); err != nil {
			return fmt.Errorf("delete shelf entry: %w", err)
		}
		if err := tx.delete(key(shelfByTypePrefix, userID, string(entry.Shelf), itemID)); err != nil {
			return fmt.Errorf("delete shelf index: %w", err)
		}
		tx.emit(domain.TopicShelves, userID)
		return nil
	})
}

// GetShelfEntry returns the user's placement of itemID.
func (s *Store) GetShelfEntry(ctx context.Context, userID, itemID string) (*domain.ShelfEntry, error) {
	if err := checkSegments(userID, itemID); err != nil {
		return nil, err
	}

	var entry *domain.ShelfEntry
	err := s.view(ctx, "get shelf entry", func(tx *Tx) error {
		var err error
		entry, err = getDoc[domain.ShelfEntry](tx, key(shelfPrefix, userID, itemID))
		if isNotFound(err) {
			return domainerrors.NotFoundf("item %s is not on any shelf", itemID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListShelf returns the entries on one shelf, newest first.
func (s *Store) ListShelf(ctx context.Context, userID string, shelf domain.ShelfType) ([]*domain.ShelfEntry, error) {
	if err := checkSegments(userID); err != nil {
		return nil, err
	}

	var entries []*domain.ShelfEntry
	err := s.view(ctx, "list shelf", func(tx *Tx) error {
		for _, k := range tx.keys(scope(shelfByTypePrefix, userID, string(shelf))) {
			entry, err := getDoc[domain.ShelfEntry](tx, key(shelfPrefix, userID, lastSegment(k)))
			if isNotFound(err) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get shelf entry: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	domain.SortNewestFirst(entries)
	return entries, nil
}

// ListShelfEntries returns every placement of the user.
func (s *Store) ListShelfEntries(ctx context.Context, userID string) ([]*domain.ShelfEntry, error) {
	if err := checkSegments(userID); err != nil {
		return nil, err
	}

	var entries []*domain.ShelfEntry
	err := s.view(ctx, "list shelf entries", func(tx *Tx) error {
		var err error
		entries, err = listDocs[domain.ShelfEntry](tx, scope(shelfPrefix, userID))
		return err
	})
	if err != nil {
		return nil, err
	}

	domain.SortNewestFirst(entries)
	return entries, nil
}

// ShelfSnapshot reads all shelves and favorites of the user from one
// consistent view of the database.
func (s *Store) ShelfSnapshot(ctx context.Context, userID string) (*domain.ShelfSnapshot, error) {
	if err := checkSegments(userID); err != nil {
		return nil, err
	}

	snap := &domain.ShelfSnapshot{
		Shelves: make(map[domain.ShelfType][]*domain.ShelfEntry, len(domain.ShelfTypes)),
	}
	err := s.view(ctx, "shelf snapshot", func(tx *Tx) error {
		entries, err := listDocs[domain.ShelfEntry](tx, scope(shelfPrefix, userID))
		if err != nil {
			return err
		}
		favorites, err := listDocs[domain.FavoriteEntry](tx, scope(favoritePrefix, userID))
		if err != nil {
			return err
		}

		for _, shelf := range domain.ShelfTypes {
			snap.Shelves[shelf] = []*domain.ShelfEntry{}
		}
		for _, e := range entries {
			snap.Shelves[e.Shelf] = append(snap.Shelves[e.Shelf], e)
		}
		for _, shelf := range domain.ShelfTypes {
			domain.SortNewestFirst(snap.Shelves[shelf])
		}
		sortFavorites(favorites)
		snap.Favorites = favorites
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
