package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
)

// CreateNotifications writes every notification in one transaction.
// Either all recipients get their notification or none do.
func (s *Store) CreateNotifications(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	for _, n := range notifications {
		if err := checkSegments(n.RecipientID, n.ID); err != nil {
			return err
		}
	}

	return s.update(ctx, "write notifications", func(tx *Tx) error {
		recipients := make([]string, 0, len(notifications))
		for _, n := range notifications {
			if err := tx.set(key(notificationPrefix, n.RecipientID, n.ID), n); err != nil {
				return fmt.Errorf("set notification: %w", err)
			}
			recipients = append(recipients, n.RecipientID)
		}
		tx.emit(domain.TopicNotifications, recipients...)
		return nil
	})
}

// MarkNotificationRead sets the read flag on one of the recipient's
// notifications. Notifications are looked up under the recipient only, so
// nobody else can reach them.
func (s *Store) MarkNotificationRead(ctx context.Context, recipientID, notificationID string) (*domain.Notification, error) {
	if err := checkSegments(recipientID, notificationID); err != nil {
		return nil, err
	}

	var n *domain.Notification
	err := s.update(ctx, "mark notification read", func(tx *Tx) error {
		k := key(notificationPrefix, recipientID, notificationID)
		var err error
		n, err = getDoc[domain.Notification](tx, k)
		if isNotFound(err) {
			return domainerrors.NotFoundf("notification %s not found", notificationID)
		}
		if err != nil {
			return fmt.Errorf("get notification: %w", err)
		}
		if n.Read {
			return nil
		}

		n.Read = true
		if err := tx.set(k, n); err != nil {
			return fmt.Errorf("set notification: %w", err)
		}
		tx.emit(domain.TopicNotifications, recipientID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// MarkAllNotificationsRead marks every unread notification of the recipient
// in one transaction and returns how many changed.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, recipientID string) (int, error) {
	if err := checkSegments(recipientID); err != nil {
		return 0, err
	}

	var changed int
	err := s.update(ctx, "mark all notifications read", func(tx *Tx) error {
		all, err := listDocs[domain.Notification](tx, scope(notificationPrefix, recipientID))
		if err != nil {
			return err
		}
		for _, n := range all {
			if n.Read {
				continue
			}
			n.Read = true
			if err := tx.set(key(notificationPrefix, recipientID, n.ID), n); err != nil {
				return fmt.Errorf("set notification: %w", err)
			}
			changed++
		}
		if changed > 0 {
			tx.emit(domain.TopicNotifications, recipientID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// ListNotifications returns the recipient's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, recipientID string, unreadOnly bool) ([]*domain.Notification, error) {
	if err := checkSegments(recipientID); err != nil {
		return nil, err
	}

	var out []*domain.Notification
	err := s.view(ctx, "list notifications", func(tx *Tx) error {
		all, err := listDocs[domain.Notification](tx, scope(notificationPrefix, recipientID))
		if err != nil {
			return err
		}
		out = make([]*domain.Notification, 0, len(all))
		for _, n := range all {
			if unreadOnly && n.Read {
				continue
			}
			out = append(out, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b *domain.Notification) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// CountUnreadNotifications returns the number of unread notifications.
func (s *Store) CountUnreadNotifications(ctx context.Context, recipientID string) (int, error) {
	unread, err := s.ListNotifications(ctx, recipientID, true)
	if err != nil {
		return 0, err
	}
	return len(unread), nil
}
