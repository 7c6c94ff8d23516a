package service

import (
	"context"
	"log/slog"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/validation"
)

// ClubInviter fans a club invitation out to invitees.
type ClubInviter interface {
	NotifyClubInvitation(ctx context.Context, sender domain.Identity, clubID, clubName string, inviteeIDs []string) (*FanoutResult, error)
}

// FriendFilter narrows a list of user ids to a user's friends.
type FriendFilter interface {
	FilterFriends(ctx context.Context, userID string, ids []string) ([]string, error)
}

// InviteRequest names a club and the friends to invite to it.
type InviteRequest struct {
	ClubID     string   `json:"club_id" validate:"docid,max=200"`
	ClubName   string   `json:"club_name" validate:"required,max=200"`
	InviteeIDs []string `json:"invitee_ids" validate:"required,min=1,max=500,dive,docid"`
}

// InviteResult reports who was invited and who was skipped.
type InviteResult struct {
	Fanout  *FanoutResult `json:"fanout"`
	Skipped []string      `json:"skipped,omitempty"`
}

// ClubService sends club invitations. Only friends of the sender can be
// invited; other ids are skipped and reported back.
type ClubService struct {
	friends   FriendFilter
	inviter   ClubInviter
	validator *validation.Validator
	logger    *slog.Logger
}

// NewClubService creates a new club service.
func NewClubService(friends FriendFilter, inviter ClubInviter, logger *slog.Logger) *ClubService {
	return &ClubService{
		friends:   friends,
		inviter:   inviter,
		validator: validation.New(),
		logger:    loggerOrDiscard(logger),
	}
}

// Invite notifies the sender's friends among req.InviteeIDs.
func (s *ClubService) Invite(ctx context.Context, sender domain.Identity, req InviteRequest) (*InviteResult, error) {
	if err := requireUser(sender.UserID); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	invitees, err := s.friends.FilterFriends(ctx, sender.UserID, req.InviteeIDs)
	if err != nil {
		return nil, err
	}
	skipped := difference(req.InviteeIDs, invitees)
	if len(invitees) == 0 {
		return nil, domainerrors.Forbidden("club invitations can only be sent to friends").WithDetails(skipped)
	}

	fanout, err := s.inviter.NotifyClubInvitation(ctx, sender, req.ClubID, req.ClubName, invitees)
	result := &InviteResult{Fanout: fanout, Skipped: skipped}
	if err != nil {
		return result, err
	}

	if len(skipped) > 0 {
		requestLogger(ctx, s.logger).Debug("club invitation skipped non-friends",
			"sender_id", sender.UserID,
			"club_id", req.ClubID,
			"skipped", len(skipped),
		)
	}
	return result, nil
}

// difference returns the elements of all not present in keep.
func difference(all, keep []string) []string {
	kept := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		kept[id] = struct{}{}
	}
	var out []string
	for _, id := range all {
		if _, ok := kept[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
