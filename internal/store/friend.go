package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
)

// CreateFriendRequest writes the pending pair out(sender -> recipient) and
// in(recipient <- sender) in one transaction. Re-sending a pending request
// returns the existing outgoing document with created == false.
func (s *Store) CreateFriendRequest(ctx context.Context, sender domain.Identity, recipientID string) (req *domain.FriendRequest, created bool, err error) {
	if err := checkSegments(sender.UserID, recipientID); err != nil {
		return nil, false, err
	}
	if sender.UserID == recipientID {
		return nil, false, domainerrors.Validation("cannot send a friend request to yourself")
	}

	err = s.update(ctx, "send friend request", func(tx *Tx) error {
		recipient, err := getDoc[domain.User](tx, key(userPrefix, recipientID))
		if isNotFound(err) {
			return domainerrors.NotFoundf("user %s not found", recipientID)
		}
		if err != nil {
			return fmt.Errorf("get recipient: %w", err)
		}

		friends, err := tx.exists(key(friendPrefix, sender.UserID, recipientID))
		if err != nil {
			return fmt.Errorf("check friendship: %w", err)
		}
		if friends {
			return domainerrors.PreconditionFailed("already friends")
		}

		existing, err := getDoc[domain.FriendRequest](tx, key(requestOutPrefix, sender.UserID, recipientID))
		if err == nil {
			req = existing
			return nil
		}
		if !isNotFound(err) {
			return fmt.Errorf("get outgoing request: %w", err)
		}

		reverse, err := tx.exists(key(requestOutPrefix, recipientID, sender.UserID))
		if err != nil {
			return fmt.Errorf("check reverse request: %w", err)
		}
		if reverse {
			return domainerrors.PreconditionFailed("a friend request from this user is already pending")
		}

		now := s.now()
		out := &domain.FriendRequest{
			OwnerID:              sender.UserID,
			Direction:            domain.RequestOutgoing,
			SenderID:             sender.UserID,
			SenderDisplayName:    sender.DisplayName,
			RecipientID:          recipient.ID,
			RecipientDisplayName: recipient.DisplayName,
			Status:               domain.RequestPending,
			CreatedAt:            now,
		}
		in := *out
		in.OwnerID = recipient.ID
		in.Direction = domain.RequestIncoming

		if err := tx.set(key(requestOutPrefix, sender.UserID, recipientID), out); err != nil {
			return fmt.Errorf("set outgoing request: %w", err)
		}
		if err := tx.set(key(requestInPrefix, recipientID, sender.UserID), &in); err != nil {
			return fmt.Errorf("set incoming request: %w", err)
		}
		tx.emit(domain.TopicFriends, sender.UserID, recipientID)

		req = out
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return req, created, nil
}

// AcceptFriendRequest resolves pending(sender -> recipient) into a friendship.
// Both request documents are deleted and both friend edges created in one
// transaction. Returns the recipient's edge.
func (s *Store) AcceptFriendRequest(ctx context.Context, recipientID, senderID string) (*domain.Friend, error) {
	if err := checkSegments(recipientID, senderID); err != nil {
		return nil, err
	}

	var edge *domain.Friend
	err := s.update(ctx, "accept friend request", func(tx *Tx) error {
		req, err := takePendingPair(tx, senderID, recipientID)
		if err != nil {
			return err
		}

		now := s.now()
		edge = &domain.Friend{
			UserID:            recipientID,
			FriendID:          senderID,
			FriendDisplayName: req.SenderDisplayName,
			Since:             now,
		}
		mirror := &domain.Friend{
			UserID:            senderID,
			FriendID:          recipientID,
			FriendDisplayName: req.RecipientDisplayName,
			Since:             now,
		}
		if err := tx.set(key(friendPrefix, recipientID, senderID), edge); err != nil {
			return fmt.Errorf("set friend edge: %w", err)
		}
		if err := tx.set(key(friendPrefix, senderID, recipientID), mirror); err != nil {
			return fmt.Errorf("set friend edge: %w", err)
		}
		tx.emit(domain.TopicFriends, senderID, recipientID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edge, nil
}

// DeleteFriendRequest removes pending(sender -> recipient). Used for both
// decline (by the recipient) and unsend (by the sender).
func (s *Store) DeleteFriendRequest(ctx context.Context, senderID, recipientID string) error {
	if err := checkSegments(senderID, recipientID); err != nil {
		return err
	}

	return s.update(ctx, "delete friend request", func(tx *Tx) error {
		if _, err := takePendingPair(tx, senderID, recipientID); err != nil {
			return err
		}
		tx.emit(domain.TopicFriends, senderID, recipientID)
		return nil
	})
}

// takePendingPair verifies both halves of pending(sender -> recipient) exist
// and deletes them.
func takePendingPair(tx *Tx, senderID, recipientID string) (*domain.FriendRequest, error) {
	outKey := key(requestOutPrefix, senderID, recipientID)
	inKey := key(requestInPrefix, recipientID, senderID)

	out, err := getDoc[domain.FriendRequest](tx, outKey)
	if isNotFound(err) {
		return nil, domainerrors.PreconditionFailed("no pending friend request")
	}
	if err != nil {
		return nil, fmt.Errorf("get outgoing request: %w", err)
	}
	hasIn, err := tx.exists(inKey)
	if err != nil {
		return nil, fmt.Errorf("get incoming request: %w", err)
	}
	if !hasIn {
		return nil, domainerrors.PreconditionFailed("no pending friend request")
	}

	if err := tx.delete(outKey); err != nil {
		return nil, fmt.Errorf("delete outgoing request: %w", err)
	}
	if err := tx.delete(inKey); err != nil {
		return nil, fmt.Errorf("delete incoming request: %w", err)
	}
	return out, nil
}

// DeleteFriendship removes both edges between a and b.
func (s *Store) DeleteFriendship(ctx context.Context, a, b string) error {
	if err := checkSegments(a, b); err != nil {
		return err
	}

	return s.update(ctx, "unfriend", func(tx *Tx) error {
		forward := key(friendPrefix, a, b)
		backward := key(friendPrefix, b, a)

		hasForward, err := tx.exists(forward)
		if err != nil {
			return fmt.Errorf("check friend edge: %w", err)
		}
		hasBackward, err := tx.exists(backward)
		if err != nil {
			return fmt.Errorf("check friend edge: %w", err)
		}
		if !hasForward || !hasBackward {
			return domainerrors.PreconditionFailed("not friends")
		}

		if err := tx.delete(forward); err != nil {
			return fmt.Errorf("delete friend edge: %w", err)
		}
		if err := tx.delete(backward); err != nil {
			return fmt.Errorf("delete friend edge: %w", err)
		}
		tx.emit(domain.TopicFriends, a, b)
		return nil
	})
}

// IsFriend reports whether a lists b as a friend.
func (s *Store) IsFriend(ctx context.Context, a, b string) (bool, error) {
	return s.hasKey(ctx, "is friend", key(friendPrefix, a, b), a, b)
}

// HasPendingRequest reports whether sender has an outgoing request to recipient.
func (s *Store) HasPendingRequest(ctx context.Context, senderID, recipientID string) (bool, error) {
	return s.hasKey(ctx, "has pending request", key(requestOutPrefix, senderID, recipientID), senderID, recipientID)
}

// HasIncomingRequest reports whether recipient has an incoming request from sender.
func (s *Store) HasIncomingRequest(ctx context.Context, recipientID, senderID string) (bool, error) {
	return s.hasKey(ctx, "has incoming request", key(requestInPrefix, recipientID, senderID), recipientID, senderID)
}

func (s *Store) hasKey(ctx context.Context, op, k string, segments ...string) (bool, error) {
	if err := checkSegments(segments...); err != nil {
		return false, err
	}

	var found bool
	err := s.view(ctx, op, func(tx *Tx) error {
		var err error
		found, err = tx.exists(k)
		return err
	})
	return found, err
}

// ListFriends returns the user's friend edges ordered by display name.
func (s *Store) ListFriends(ctx context.Context, userID string) ([]*domain.Friend, error) {
	if err := checkSegments(userID); err != nil {
		return nil, err
	}

	var friends []*domain.Friend
	err := s.view(ctx, "list friends", func(tx *Tx) error {
		var err error
		friends, err = listDocs[domain.Friend](tx, scope(friendPrefix, userID))
		return err
	})
	if err != nil {
		return nil, err
	}

	sortFriends(friends)
	return friends, nil
}

// ListFriendIDs returns the ids of the user's friends.
func (s *Store) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	if err := checkSegments(userID); err != nil {
		return nil, err
	}

	var ids []string
	err := s.view(ctx, "list friend ids", func(tx *Tx) error {
		for _, k := range tx.keys(scope(friendPrefix, userID)) {
			ids = append(ids, lastSegment(k))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListFriendRequests returns the user's pending requests, newest first.
func (s *Store) ListFriendRequests(ctx context.Context, userID string) (incoming, outgoing []*domain.FriendRequest, err error) {
	if err := checkSegments(userID); err != nil {
		return nil, nil, err
	}

	err = s.view(ctx, "list friend requests", func(tx *Tx) error {
		incoming, outgoing, err = listRequests(tx, userID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return incoming, outgoing, nil
}

// FriendSnapshot reads friends and pending requests from one consistent view.
func (s *Store) FriendSnapshot(ctx context.Context, userID string) (*domain.FriendSnapshot, error) {
	if err := checkSegments(userID); err != nil {
		return nil, err
	}

	snap := &domain.FriendSnapshot{}
	err := s.view(ctx, "friend snapshot", func(tx *Tx) error {
		friends, err := listDocs[domain.Friend](tx, scope(friendPrefix, userID))
		if err != nil {
			return err
		}
		sortFriends(friends)

		incoming, outgoing, err := listRequests(tx, userID)
		if err != nil {
			return err
		}

		snap.Friends = orEmpty(friends)
		snap.Incoming = orEmpty(incoming)
		snap.Outgoing = orEmpty(outgoing)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func listRequests(tx *Tx, userID string) (incoming, outgoing []*domain.FriendRequest, err error) {
	incoming, err = listDocs[domain.FriendRequest](tx, scope(requestInPrefix, userID))
	if err != nil {
		return nil, nil, err
	}
	outgoing, err = listDocs[domain.FriendRequest](tx, scope(requestOutPrefix, userID))
	if err != nil {
		return nil, nil, err
	}
	sortRequests(incoming)
	sortRequests(outgoing)
	return incoming, outgoing, nil
}

func sortFriends(friends []*domain.Friend) {
	slices.SortFunc(friends, func(a, b *domain.Friend) int {
		return cmp.Or(cmp.Compare(a.FriendDisplayName, b.FriendDisplayName), cmp.Compare(a.FriendID, b.FriendID))
	})
}

func sortRequests(reqs []*domain.FriendRequest) {
	slices.SortFunc(reqs, func(a, b *domain.FriendRequest) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.OtherID(), b.OtherID()))
	})
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
