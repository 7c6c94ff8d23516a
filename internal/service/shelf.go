package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/metrics"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/sse"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/store"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/validation"
)

// ShelfStore is the persistence the shelf manager needs.
type ShelfStore interface {
	PlaceOnShelf(ctx context.Context, userID string, item domain.ItemMetadata, target domain.ShelfType) (*store.ShelfResult, error)
	MoveShelfEntry(ctx context.Context, userID, itemID string, target domain.ShelfType) (*store.ShelfResult, error)
	RemoveShelfEntry(ctx context.Context, userID, itemID string) error
	GetShelfEntry(ctx context.Context, userID, itemID string) (*domain.ShelfEntry, error)
	ListShelf(ctx context.Context, userID string, shelf domain.ShelfType) ([]*domain.ShelfEntry, error)
	ShelfSnapshot(ctx context.Context, userID string) (*domain.ShelfSnapshot, error)
	ToggleFavorite(ctx context.Context, userID string, item domain.ItemMetadata) (bool, error)
	IsFavorite(ctx context.Context, userID, itemID string) (bool, error)
	ListFavorites(ctx context.Context, userID string) ([]*domain.FavoriteEntry, error)
}

// ShelfService keeps each item on at most one of a user's shelves and
// manages the independent favorites set.
type ShelfService struct {
	store     ShelfStore
	hub       *sse.Manager
	validator *validation.Validator
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewShelfService creates a new shelf service.
func NewShelfService(store ShelfStore, hub *sse.Manager, recorder metrics.Recorder, logger *slog.Logger) *ShelfService {
	return &ShelfService{
		store:     store,
		hub:       hub,
		validator: validation.New(),
		metrics:   recorderOrNop(recorder),
		logger:    loggerOrDiscard(logger),
	}
}

// MoveOrAddToShelf places item on target, creating the entry if the user has
// none. An existing entry is moved in place and keeps its original metadata.
func (s *ShelfService) MoveOrAddToShelf(ctx context.Context, userID string, item domain.ItemMetadata, target domain.ShelfType) (*domain.ShelfEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := s.validator.Var("shelf", string(target), "shelf"); err != nil {
		return nil, err
	}
	item.Normalize()
	if err := s.validator.Validate(item); err != nil {
		return nil, err
	}

	result, err := s.store.PlaceOnShelf(ctx, userID, item, target)
	s.metrics.RecordShelfChange("add", outcome(err, result != nil && result.Changed))
	if err != nil {
		return nil, fmt.Errorf("place on shelf: %w", err)
	}

	if result.Changed {
		requestLogger(ctx, s.logger).Debug("shelf entry placed",
			"user_id", userID,
			"item_id", item.ItemID,
			"shelf", target,
			"created", result.Created,
		)
	}
	return result.Entry, nil
}

// MoveShelf moves an existing entry to target. Fails with NotFound when the
// user has not shelved the item.
func (s *ShelfService) MoveShelf(ctx context.Context, userID, itemID string, target domain.ShelfType) (*domain.ShelfEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := s.validator.Var("shelf", string(target), "shelf"); err != nil {
		return nil, err
	}

	result, err := s.store.MoveShelfEntry(ctx, userID, itemID, target)
	s.metrics.RecordShelfChange("move", outcome(err, result != nil && result.Changed))
	if err != nil {
		return nil, fmt.Errorf("move shelf entry: %w", err)
	}

	if result.Changed {
		requestLogger(ctx, s.logger).Debug("shelf entry moved", "user_id", userID, "item_id", itemID, "shelf", target)
	}
	return result.Entry, nil
}

// RemoveFromShelf deletes the user's entry for itemID. Favorites are untouched.
func (s *ShelfService) RemoveFromShelf(ctx context.Context, userID, itemID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	err := s.store.RemoveShelfEntry(ctx, userID, itemID)
	s.metrics.RecordShelfChange("remove", outcome(err, true))
	if err != nil {
		return fmt.Errorf("remove shelf entry: %w", err)
	}

	requestLogger(ctx, s.logger).Debug("shelf entry removed", "user_id", userID, "item_id", itemID)
	return nil
}

// ToggleFavorite flips the favorite flag for item and returns the new state.
func (s *ShelfService) ToggleFavorite(ctx context.Context, userID string, item domain.ItemMetadata) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	item.Normalize()
	if err := s.validator.Validate(item); err != nil {
		return false, err
	}

	favorite, err := s.store.ToggleFavorite(ctx, userID, item)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	s.metrics.RecordFavoriteToggle(favorite)
	return favorite, nil
}

// GetPlacement returns the user's entry for itemID.
func (s *ShelfService) GetPlacement(ctx context.Context, userID, itemID string) (*domain.ShelfEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.GetShelfEntry(ctx, userID, itemID)
}

// ListShelf returns one shelf, newest first.
func (s *ShelfService) ListShelf(ctx context.Context, userID string, shelf domain.ShelfType) ([]*domain.ShelfEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := s.validator.Var("shelf", string(shelf), "shelf"); err != nil {
		return nil, err
	}
	return s.store.ListShelf(ctx, userID, shelf)
}

// ListAllShelves returns every shelf keyed by type. All four keys are present.
func (s *ShelfService) ListAllShelves(ctx context.Context, userID string) (map[domain.ShelfType][]*domain.ShelfEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	snapshot, err := s.store.ShelfSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snapshot.Shelves, nil
}

// ListFavorites returns the user's favorites, most recent first.
func (s *ShelfService) ListFavorites(ctx context.Context, userID string) ([]*domain.FavoriteEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListFavorites(ctx, userID)
}

// IsFavorite reports whether the user has favorited itemID.
func (s *ShelfService) IsFavorite(ctx context.Context, userID, itemID string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	return s.store.IsFavorite(ctx, userID, itemID)
}

// SubscribeShelves pushes the user's full shelf state now and after every
// change to it. The caller must Close the subscription.
func (s *ShelfService) SubscribeShelves(ctx context.Context, userID string) (*sse.Subscription[*domain.ShelfSnapshot], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return sse.Subscribe(ctx, s.hub, userID, []domain.Topic{domain.TopicShelves},
		func(ctx context.Context) (*domain.ShelfSnapshot, error) {
			return s.store.ShelfSnapshot(ctx, userID)
		})
}
