package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/id"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/validation"
)

// ReviewStore is the persistence the review service needs.
type ReviewStore interface {
	SaveReview(ctx context.Context, review *domain.Review) (*domain.Review, error)
	GetReview(ctx context.Context, itemID, authorID string) (*domain.Review, error)
	ListReviewsForItem(ctx context.Context, itemID string) ([]*domain.Review, error)
	ListReviewsByAuthor(ctx context.Context, authorID string) ([]*domain.Review, error)
}

// FriendLister resolves a user's current friend ids.
type FriendLister interface {
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
}

// ReviewNotifier fans a posted review out to friends.
type ReviewNotifier interface {
	NotifyFriendsOfReview(ctx context.Context, author domain.Identity, review *domain.Review, friendIDs []string) (*FanoutResult, error)
	ReviewFanoutFailed(ctx context.Context, author domain.Identity, err error) error
}

// PostReviewRequest contains the fields of a review.
type PostReviewRequest struct {
	Item   domain.ItemMetadata `json:"item"`
	Rating int                 `json:"rating" validate:"gte=1,lte=5"`
	Text   string              `json:"text" validate:"max=20000"`
}

// PostReviewResult is the stored review and the fan-out it triggered.
type PostReviewResult struct {
	Review *domain.Review `json:"review"`
	Fanout *FanoutResult  `json:"fanout,omitempty"`
}

// ReviewService persists reviews and notifies the author's friends.
type ReviewService struct {
	store     ReviewStore
	friends   FriendLister
	notifier  ReviewNotifier
	validator *validation.Validator
	logger    *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(store ReviewStore, friends FriendLister, notifier ReviewNotifier, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:     store,
		friends:   friends,
		notifier:  notifier,
		validator: validation.New(),
		logger:    loggerOrDiscard(logger),
	}
}

// PostReview saves the author's review of an item, replacing any earlier
// one, then notifies every current friend. The review is durable before the
// fan-out starts: if notifying fails the result still carries the review and
// the error is PartialFanoutFailed.
func (s *ReviewService) PostReview(ctx context.Context, author domain.Identity, req PostReviewRequest) (*PostReviewResult, error) {
	if err := requireUser(author.UserID); err != nil {
		return nil, err
	}
	req.Item.Normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	reviewID, err := id.Generate(id.PrefixReview)
	if err != nil {
		return nil, fmt.Errorf("generate review id: %w", err)
	}

	saved, err := s.store.SaveReview(ctx, &domain.Review{
		ID:                reviewID,
		AuthorID:          author.UserID,
		AuthorDisplayName: author.DisplayName,
		Item:              req.Item,
		Rating:            req.Rating,
		Text:              req.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	requestLogger(ctx, s.logger).Info("review posted",
		"review_id", saved.ID,
		"author_id", author.UserID,
		"item_id", saved.Item.ItemID,
		"rating", saved.Rating,
	)

	result := &PostReviewResult{Review: saved}

	friendIDs, err := s.friends.ListFriendIDs(ctx, author.UserID)
	if err != nil {
		requestLogger(ctx, s.logger).Error("resolve friends for review fan-out failed",
			"review_id", saved.ID,
			"author_id", author.UserID,
			"error", err,
		)
		return result, s.notifier.ReviewFanoutFailed(ctx, author, fmt.Errorf("resolve friends: %w", err))
	}

	fanout, err := s.notifier.NotifyFriendsOfReview(ctx, author, saved, friendIDs)
	if err != nil {
		return result, err
	}
	result.Fanout = fanout
	return result, nil
}

// GetReview returns the author's review of itemID.
func (s *ReviewService) GetReview(ctx context.Context, itemID, authorID string) (*domain.Review, error) {
	return s.store.GetReview(ctx, itemID, authorID)
}

// ListReviews returns all reviews of an item, most recently updated first.
func (s *ReviewService) ListReviews(ctx context.Context, itemID string) ([]*domain.Review, error) {
	return s.store.ListReviewsForItem(ctx, itemID)
}

// ListReviewsByAuthor returns a user's reviews, most recently updated first.
func (s *ReviewService) ListReviewsByAuthor(ctx context.Context, authorID string) ([]*domain.Review, error) {
	return s.store.ListReviewsByAuthor(ctx, authorID)
}
