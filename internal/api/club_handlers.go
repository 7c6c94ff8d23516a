package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/service"
)

func (s *Server) registerClubRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "inviteToClub",
		Method:      http.MethodPost,
		Path:        "/api/v1/clubs/{clubId}/invitations",
		Summary:     "Invite friends to a club",
		Description: "Notifies the listed users who are friends of the caller. Others are returned in skipped",
		Tags:        []string{"Clubs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleInviteToClub)
}

// === DTOs ===

// InviteToClubRequest is the request body for club invitations.
type InviteToClubRequest struct {
	ClubName   string   `json:"club_name" doc:"Display name of the club"`
	InviteeIDs []string `json:"invitee_ids" doc:"Users to invite"`
}

// InviteToClubInput wraps the invitation request for Huma.
type InviteToClubInput struct {
	ClubID string `path:"clubId" doc:"Club ID"`
	Body   InviteToClubRequest
}

// InviteToClubResponse reports who was invited.
type InviteToClubResponse struct {
	Fanout      *FanoutResponse `json:"fanout,omitempty" doc:"Notifications written"`
	Skipped     []string        `json:"skipped,omitempty" doc:"Invitees who are not friends of the caller"`
	FanoutError *FanoutError    `json:"fanout_error,omitempty" doc:"Set when writing notifications failed"`
}

// InviteToClubOutput wraps the invitation response for Huma.
type InviteToClubOutput struct {
	Body InviteToClubResponse
}

// === Handlers ===

func (s *Server) handleInviteToClub(ctx context.Context, input *InviteToClubInput) (*InviteToClubOutput, error) {
	identity, err := GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Clubs.Invite(ctx, identity, service.InviteRequest{
		ClubID:     input.ClubID,
		ClubName:   input.Body.ClubName,
		InviteeIDs: input.Body.InviteeIDs,
	})
	fanoutErr, err := splitPartialFanout(err)
	if err != nil {
		return nil, err
	}

	return &InviteToClubOutput{Body: InviteToClubResponse{
		Fanout:      fanoutResponse(result.Fanout),
		Skipped:     result.Skipped,
		FanoutError: fanoutErr,
	}}, nil
}
