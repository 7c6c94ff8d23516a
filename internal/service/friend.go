package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/metrics"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/sse"
)

// FriendStore is the persistence the friend graph manager needs.
type FriendStore interface {
	CreateFriendRequest(ctx context.Context, sender domain.Identity, recipientID string) (*domain.FriendRequest, bool, error)
	AcceptFriendRequest(ctx context.Context, recipientID, senderID string) (*domain.Friend, error)
	DeleteFriendRequest(ctx context.Context, senderID, recipientID string) error
	DeleteFriendship(ctx context.Context, a, b string) error
	IsFriend(ctx context.Context, a, b string) (bool, error)
	HasPendingRequest(ctx context.Context, senderID, recipientID string) (bool, error)
	HasIncomingRequest(ctx context.Context, recipientID, senderID string) (bool, error)
	ListFriends(ctx context.Context, userID string) ([]*domain.Friend, error)
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
	ListFriendRequests(ctx context.Context, userID string) (incoming, outgoing []*domain.FriendRequest, err error)
	FriendSnapshot(ctx context.Context, userID string) (*domain.FriendSnapshot, error)
}

// Friend graph transitions, used as metric and log labels.
const (
	transitionSend     = "send"
	transitionAccept   = "accept"
	transitionDecline  = "decline"
	transitionUnsend   = "unsend"
	transitionUnfriend = "unfriend"
)

// FriendService drives the friend request state machine. Every transition
// writes both users' documents in one transaction; a transition attempted
// from the wrong state, or one that loses a race, fails with
// PreconditionFailed and changes nothing.
type FriendService struct {
	store   FriendStore
	hub     *sse.Manager
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewFriendService creates a new friend service.
func NewFriendService(store FriendStore, hub *sse.Manager, recorder metrics.Recorder, logger *slog.Logger) *FriendService {
	return &FriendService{
		store:   store,
		hub:     hub,
		metrics: recorderOrNop(recorder),
		logger:  loggerOrDiscard(logger),
	}
}

// SendRequest creates pending(sender -> recipientID). Re-sending while the
// request is pending returns the existing request.
func (s *FriendService) SendRequest(ctx context.Context, sender domain.Identity, recipientID string) (*domain.FriendRequest, error) {
	if err := requireUser(sender.UserID); err != nil {
		return nil, err
	}

	req, created, err := s.store.CreateFriendRequest(ctx, sender, recipientID)
	s.record(ctx, transitionSend, err, created, sender.UserID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("send friend request: %w", err)
	}
	return req, nil
}

// Accept resolves pending(senderID -> recipientID) into a friendship.
// Only the recipient may accept.
func (s *FriendService) Accept(ctx context.Context, recipientID, senderID string) (*domain.Friend, error) {
	if err := requireUser(recipientID); err != nil {
		return nil, err
	}

	friend, err := s.store.AcceptFriendRequest(ctx, recipientID, senderID)
	s.record(ctx, transitionAccept, err, true, senderID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("accept friend request: %w", err)
	}
	return friend, nil
}

// Decline discards pending(senderID -> recipientID) on behalf of the recipient.
func (s *FriendService) Decline(ctx context.Context, recipientID, senderID string) error {
	if err := requireUser(recipientID); err != nil {
		return err
	}

	err := s.store.DeleteFriendRequest(ctx, senderID, recipientID)
	s.record(ctx, transitionDecline, err, true, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("decline friend request: %w", err)
	}
	return nil
}

// Unsend withdraws pending(senderID -> recipientID) on behalf of the sender.
func (s *FriendService) Unsend(ctx context.Context, senderID, recipientID string) error {
	if err := requireUser(senderID); err != nil {
		return err
	}

	err := s.store.DeleteFriendRequest(ctx, senderID, recipientID)
	s.record(ctx, transitionUnsend, err, true, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("unsend friend request: %w", err)
	}
	return nil
}

// Unfriend removes the friendship between userID and friendID for both.
func (s *FriendService) Unfriend(ctx context.Context, userID, friendID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	err := s.store.DeleteFriendship(ctx, userID, friendID)
	s.record(ctx, transitionUnfriend, err, true, userID, friendID)
	if err != nil {
		return fmt.Errorf("unfriend: %w", err)
	}
	return nil
}

func (s *FriendService) record(ctx context.Context, transition string, err error, changed bool, from, to string) {
	s.metrics.RecordFriendTransition(transition, outcome(err, changed))
	log := requestLogger(ctx, s.logger)
	if err != nil {
		log.Debug("friend transition rejected",
			"transition", transition,
			"from", from,
			"to", to,
			"error", err,
		)
		return
	}
	if changed {
		log.Info("friend transition", "transition", transition, "from", from, "to", to)
	}
}

// IsFriend reports whether a and b are friends.
func (s *FriendService) IsFriend(ctx context.Context, a, b string) (bool, error) {
	return s.store.IsFriend(ctx, a, b)
}

// HasPendingRequest reports whether senderID has a pending request to recipientID.
func (s *FriendService) HasPendingRequest(ctx context.Context, senderID, recipientID string) (bool, error) {
	return s.store.HasPendingRequest(ctx, senderID, recipientID)
}

// HasIncomingRequest reports whether recipientID holds a pending request from senderID.
func (s *FriendService) HasIncomingRequest(ctx context.Context, recipientID, senderID string) (bool, error) {
	return s.store.HasIncomingRequest(ctx, recipientID, senderID)
}

// ListFriends returns the user's friends ordered by display name.
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]*domain.Friend, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListFriends(ctx, userID)
}

// ListFriendIDs returns the ids of the user's friends.
func (s *FriendService) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListFriendIDs(ctx, userID)
}

// ListRequests returns the user's pending incoming and outgoing requests.
func (s *FriendService) ListRequests(ctx context.Context, userID string) (incoming, outgoing []*domain.FriendRequest, err error) {
	if err := requireUser(userID); err != nil {
		return nil, nil, err
	}
	return s.store.ListFriendRequests(ctx, userID)
}

// FilterFriends returns the subset of ids that are friends of userID, in order.
func (s *FriendService) FilterFriends(ctx context.Context, userID string, ids []string) ([]string, error) {
	friendIDs, err := s.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends := make(map[string]struct{}, len(friendIDs))
	for _, id := range friendIDs {
		friends[id] = struct{}{}
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := friends[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// SubscribeFriends pushes the user's friends and pending requests now and
// after every change to them. The caller must Close the subscription.
func (s *FriendService) SubscribeFriends(ctx context.Context, userID string) (*sse.Subscription[*domain.FriendSnapshot], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return sse.Subscribe(ctx, s.hub, userID, []domain.Topic{domain.TopicFriends},
		func(ctx context.Context) (*domain.FriendSnapshot, error) {
			return s.store.FriendSnapshot(ctx, userID)
		})
}
