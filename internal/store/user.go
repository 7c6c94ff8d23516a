package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
)

// userTouchInterval bounds how often LastSeenAt is rewritten for an unchanged user.
const userTouchInterval = 5 * time.Minute

// UpsertUser records the identity asserted by the identity provider.
// It reports whether anything was written.
func (s *Store) UpsertUser(ctx context.Context, identity domain.Identity) (*domain.User, bool, error) {
	if err := checkSegments(identity.UserID); err != nil {
		return nil, false, err
	}

	var (
		user    *domain.User
		written bool
	)
	err := s.update(ctx, "upsert user", func(tx *Tx) error {
		k := key(userPrefix, identity.UserID)
		now := s.now()

		existing, err := getDoc[domain.User](tx, k)
		switch {
		case isNotFound(err):
			user = &domain.User{
				ID:          identity.UserID,
				DisplayName: identity.DisplayName,
				FirstSeenAt: now,
				LastSeenAt:  now,
			}
		case err != nil:
			return fmt.Errorf("get user: %w", err)
		default:
			user = existing
			nameChanged := identity.DisplayName != "" && identity.DisplayName != existing.DisplayName
			if !nameChanged && now.Sub(existing.LastSeenAt) < userTouchInterval {
				return nil
			}
			if nameChanged {
				user.DisplayName = identity.DisplayName
			}
			user.LastSeenAt = now
		}

		if err := tx.set(k, user); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		tx.emit(domain.TopicUsers, user.ID)
		written = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return user, written, nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if err := checkSegments(id); err != nil {
		return nil, err
	}

	var user *domain.User
	err := s.view(ctx, "get user", func(tx *Tx) error {
		var err error
		user, err = getDoc[domain.User](tx, key(userPrefix, id))
		if isNotFound(err) {
			return domainerrors.NotFoundf("user %s not found", id)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUsersByIDs returns the users that exist among ids, in the order given.
func (s *Store) GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if err := checkSegments(ids...); err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(ids))
	err := s.view(ctx, "get users", func(tx *Tx) error {
		for _, id := range ids {
			user, err := getDoc[domain.User](tx, key(userPrefix, id))
			if isNotFound(err) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get user: %w", err)
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListUsers returns every known user.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := s.view(ctx, "list users", func(tx *Tx) error {
		var err error
		users, err = listDocs[domain.User](tx, userPrefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
