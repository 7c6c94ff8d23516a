package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "postReview",
		Method:      http.MethodPost,
		Path:        "/api/v1/reviews",
		Summary:     "Post review",
		Description: "Saves the caller's review of an item and notifies every friend. " +
			"If notifying fails the review is still saved and fanout_error is set",
		Tags:     []string{"Reviews"},
		Security: []map[string][]string{{"bearer": {}}},
	}, s.handlePostReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "listItemReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{itemId}/reviews",
		Summary:     "List reviews of an item",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListItemReviews)
}

// === DTOs ===

// PostReviewRequest is the request body for posting a review.
type PostReviewRequest struct {
	ItemID string   `json:"item_id" doc:"Catalog item ID"`
	Item   ItemBody `json:"item" doc:"Item metadata snapshot"`
	Rating int      `json:"rating" doc:"Rating from 1 to 5"`
	Text   string   `json:"text,omitempty" doc:"Review text; HTML is converted to Markdown in excerpts"`
}

// PostReviewInput wraps the review request for Huma.
type PostReviewInput struct {
	Body PostReviewRequest
}

// FanoutResponse summarizes a notification fan-out.
type FanoutResponse struct {
	BatchID    string `json:"batch_id,omitempty" doc:"Shared ID of the notifications written"`
	Recipients int    `json:"recipients" doc:"Number of notifications written"`
}

func fanoutResponse(r *service.FanoutResult) *FanoutResponse {
	if r == nil {
		return nil
	}
	return &FanoutResponse{BatchID: r.BatchID, Recipients: r.Count}
}

// PostReviewResponse reports the saved review and its fan-out.
type PostReviewResponse struct {
	Review      *domain.Review  `json:"review" doc:"The saved review"`
	Fanout      *FanoutResponse `json:"fanout,omitempty" doc:"Notifications written to friends"`
	FanoutError *FanoutError    `json:"fanout_error,omitempty" doc:"Set when notifying friends failed"`
}

// PostReviewOutput wraps the review response for Huma.
type PostReviewOutput struct {
	Body PostReviewResponse
}

// ListItemReviewsInput selects an item.
type ListItemReviewsInput struct {
	ItemID string `path:"itemId" doc:"Catalog item ID"`
}

// ReviewsResponse lists reviews.
type ReviewsResponse struct {
	Reviews []*domain.Review `json:"reviews" doc:"Reviews, most recently updated first"`
}

// ReviewsOutput wraps reviews for Huma.
type ReviewsOutput struct {
	Body ReviewsResponse
}

// === Handlers ===

func (s *Server) handlePostReview(ctx context.Context, input *PostReviewInput) (*PostReviewOutput, error) {
	identity, err := GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Reviews.PostReview(ctx, identity, service.PostReviewRequest{
		Item:   input.Body.Item.metadata(input.Body.ItemID),
		Rating: input.Body.Rating,
		Text:   input.Body.Text,
	})
	fanoutErr, err := splitPartialFanout(err)
	if err != nil {
		return nil, err
	}

	return &PostReviewOutput{Body: PostReviewResponse{
		Review:      result.Review,
		Fanout:      fanoutResponse(result.Fanout),
		FanoutError: fanoutErr,
	}}, nil
}

func (s *Server) handleListItemReviews(ctx context.Context, input *ListItemReviewsInput) (*ReviewsOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	reviews, err := s.services.Reviews.ListReviews(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	return &ReviewsOutput{Body: ReviewsResponse{Reviews: reviews}}, nil
}
