package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
)

func (s *Server) registerFriendRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "sendFriendRequest",
		Method:      http.MethodPost,
		Path:        "/api/v1/friends/requests",
		Summary:     "Send friend request",
		Description: "Creates a pending request to another user",
		Tags:        []string{"Friends"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSendFriendRequest)

	huma.Register(s.api, huma.Operation{
		OperationID: "acceptFriendRequest",
		Method:      http.MethodPost,
		Path:        "/api/v1/friends/requests/{userId}/accept",
		Summary:     "Accept friend request",
		Description: "Accepts the pending request from userId; both sides become friends atomically",
		Tags:        []string{"Friends"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAcceptFriendRequest)

	huma.Register(s.api, huma.Operation{
		OperationID: "declineFriendRequest",
		Method:      http.MethodPost,
		Path:        "/api/v1/friends/requests/{userId}/decline",
		Summary:     "Decline friend request",
		Description: "Declines the pending request from userId",
		Tags:        []string{"Friends"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeclineFriendRequest)

	huma.Register(s.api, huma.Operation{
		OperationID: "unsendFriendRequest",
		Method:      http.MethodDelete,
		Path:        "/api/v1/friends/requests/{userId}",
		Summary:     "Withdraw friend request",
		Description: "Withdraws the caller's pending request to userId",
		Tags:        []string{"Friends"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnsendFriendRequest)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfriend",
		Method:      http.MethodDelete,
		Path:        "/api/v1/friends/{userId}",
		Summary:     "Remove friend",
		Description: "Removes the friendship on both sides",
		Tags:        []string{"Friends"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfriend)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFriends",
		Method:      http.MethodGet,
		Path:        "/api/v1/friends",
		Summary:     "List friends",
		Tags:        []string{"Friends"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFriends)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFriendRequests",
		Method:      http.MethodGet,
		Path:        "/api/v1/friends/requests",
		Summary:     "List pending requests",
		Description: "Returns incoming and outgoing pending requests",
		Tags:        []string{"Friends"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFriendRequests)
}

// === DTOs ===

// SendFriendRequestRequest is the request body for sending a request.
type SendFriendRequestRequest struct {
	UserID string `json:"user_id" doc:"Recipient user ID"`
}

// SendFriendRequestInput wraps the send request for Huma.
type SendFriendRequestInput struct {
	Body SendFriendRequestRequest
}

// FriendRequestOutput wraps a request document for Huma.
type FriendRequestOutput struct {
	Body *domain.FriendRequest
}

// CounterpartInput identifies the other user of a request or friendship.
type CounterpartInput struct {
	UserID string `path:"userId" doc:"The other user's ID"`
}

// FriendOutput wraps a friendship edge for Huma.
type FriendOutput struct {
	Body *domain.Friend
}

// FriendsResponse lists friends.
type FriendsResponse struct {
	Friends []*domain.Friend `json:"friends" doc:"Friends, by display name"`
}

// FriendsOutput wraps the friends list for Huma.
type FriendsOutput struct {
	Body FriendsResponse
}

// FriendRequestsResponse lists pending requests by direction.
type FriendRequestsResponse struct {
	Incoming []*domain.FriendRequest `json:"incoming" doc:"Requests others sent to the caller"`
	Outgoing []*domain.FriendRequest `json:"outgoing" doc:"Requests the caller sent"`
}

// FriendRequestsOutput wraps pending requests for Huma.
type FriendRequestsOutput struct {
	Body FriendRequestsResponse
}

// === Handlers ===

func (s *Server) handleSendFriendRequest(ctx context.Context, input *SendFriendRequestInput) (*FriendRequestOutput, error) {
	identity, err := GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	req, err := s.services.Friends.SendRequest(ctx, identity, input.Body.UserID)
	if err != nil {
		return nil, err
	}
	return &FriendRequestOutput{Body: req}, nil
}

func (s *Server) handleAcceptFriendRequest(ctx context.Context, input *CounterpartInput) (*FriendOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	friend, err := s.services.Friends.Accept(ctx, userID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &FriendOutput{Body: friend}, nil
}

func (s *Server) handleDeclineFriendRequest(ctx context.Context, input *CounterpartInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Friends.Decline(ctx, userID, input.UserID); err != nil {
		return nil, err
	}
	return message("Friend request declined"), nil
}

func (s *Server) handleUnsendFriendRequest(ctx context.Context, input *CounterpartInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Friends.Unsend(ctx, userID, input.UserID); err != nil {
		return nil, err
	}
	return message("Friend request withdrawn"), nil
}

func (s *Server) handleUnfriend(ctx context.Context, input *CounterpartInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Friends.Unfriend(ctx, userID, input.UserID); err != nil {
		return nil, err
	}
	return message("Friend removed"), nil
}

func (s *Server) handleListFriends(ctx context.Context, _ *struct{}) (*FriendsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	friends, err := s.services.Friends.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FriendsOutput{Body: FriendsResponse{Friends: friends}}, nil
}

func (s *Server) handleListFriendRequests(ctx context.Context, _ *struct{}) (*FriendRequestsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	incoming, outgoing, err := s.services.Friends.ListRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FriendRequestsOutput{Body: FriendRequestsResponse{Incoming: incoming, Outgoing: outgoing}}, nil
}
