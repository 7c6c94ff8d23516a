package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/search"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/search",
		Summary:     "Search users",
		Description: "Finds users by display name for friend discovery. Accents and case are ignored",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchUsers)
}

// === DTOs ===

// UserOutput wraps a user for Huma.
type UserOutput struct {
	Body *domain.User
}

// SearchUsersInput contains parameters for user search.
type SearchUsersInput struct {
	Query string `query:"q" doc:"Display name or prefix"`
	Limit int    `query:"limit" minimum:"0" maximum:"50" doc:"Max results (default 20)"`
}

// SearchUsersResponse lists matching users.
type SearchUsersResponse struct {
	Users []search.SearchHit `json:"users" doc:"Matching users, best first"`
}

// SearchUsersOutput wraps search results for Huma.
type SearchUsersOutput struct {
	Body SearchUsersResponse
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleSearchUsers(ctx context.Context, input *SearchUsersInput) (*SearchUsersOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	hits, err := s.services.Users.SearchUsers(ctx, userID, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchUsersOutput{Body: SearchUsersResponse{Users: hits}}, nil
}
