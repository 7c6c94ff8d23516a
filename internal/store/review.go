package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
)

// SaveReview stores the author's review of an item, replacing an earlier one.
// A replaced review keeps its ID and CreatedAt.
func (s *Store) SaveReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if err := checkSegments(review.AuthorID, review.Item.ItemID); err != nil {
		return nil, err
	}

	saved := *review
	err := s.update(ctx, "save review", func(tx *Tx) error {
		k := key(reviewPrefix, saved.Item.ItemID, saved.AuthorID)
		now := s.now()

		existing, err := getDoc[domain.Review](tx, k)
		switch {
		case err == nil:
			saved.ID = existing.ID
			saved.CreatedAt = existing.CreatedAt
		case isNotFound(err):
			saved.CreatedAt = now
		default:
			return fmt.Errorf("get review: %w", err)
		}
		saved.UpdatedAt = now

		if err := tx.set(k, &saved); err != nil {
			return fmt.Errorf("set review: %w", err)
		}
		if err := tx.setIndex(key(reviewByAuthor, saved.AuthorID, saved.Item.ItemID)); err != nil {
			return fmt.Errorf("set review index: %w", err)
		}
		tx.emit(domain.TopicReviews, saved.AuthorID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetReview returns the author's review of itemID.
func (s *Store) GetReview(ctx context.Context, itemID, authorID string) (*domain.Review, error) {
	if err := checkSegments(itemID, authorID); err != nil {
		return nil, err
	}

	var review *domain.Review
	err := s.view(ctx, "get review", func(tx *Tx) error {
		var err error
		review, err = getDoc[domain.Review](tx, key(reviewPrefix, itemID, authorID))
		if isNotFound(err) {
			return domainerrors.NotFound("review not found")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviewsForItem returns every review of itemID, newest first.
func (s *Store) ListReviewsForItem(ctx context.Context, itemID string) ([]*domain.Review, error) {
	if err := checkSegments(itemID); err != nil {
		return nil, err
	}

	var reviews []*domain.Review
	err := s.view(ctx, "list reviews", func(tx *Tx) error {
		var err error
		reviews, err = listDocs[domain.Review](tx, scope(reviewPrefix, itemID))
		return err
	})
	if err != nil {
		return nil, err
	}

	sortReviews(reviews)
	return reviews, nil
}

// ListReviewsByAuthor returns every review written by authorID, newest first.
func (s *Store) ListReviewsByAuthor(ctx context.Context, authorID string) ([]*domain.Review, error) {
	if err := checkSegments(authorID); err != nil {
		return nil, err
	}

	var reviews []*domain.Review
	err := s.view(ctx, "list reviews by author", func(tx *Tx) error {
		for _, k := range tx.keys(scope(reviewByAuthor, authorID)) {
			review, err := getDoc[domain.Review](tx, key(reviewPrefix, lastSegment(k), authorID))
			if isNotFound(err) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get review: %w", err)
			}
			reviews = append(reviews, review)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortReviews(reviews)
	return reviews, nil
}

func sortReviews(reviews []*domain.Review) {
	slices.SortFunc(reviews, func(a, b *domain.Review) int {
		return cmp.Or(b.UpdatedAt.Compare(a.UpdatedAt), cmp.Compare(a.ID, b.ID))
	})
}
