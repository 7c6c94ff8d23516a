package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/id"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/metrics"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/sse"
)

// NotificationStore is the persistence the notification fan-out needs.
type NotificationStore interface {
	Now() time.Time
	CreateNotifications(ctx context.Context, notifications []*domain.Notification) error
	MarkNotificationRead(ctx context.Context, recipientID, notificationID string) (*domain.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, recipientID string) (int, error)
	ListNotifications(ctx context.Context, recipientID string, unreadOnly bool) ([]*domain.Notification, error)
	CountUnreadNotifications(ctx context.Context, recipientID string) (int, error)
}

// FanoutResult describes one written notification batch.
type FanoutResult struct {
	BatchID string `json:"batch_id,omitempty"`
	Count   int    `json:"count"`
}

// NotificationService writes activity notifications to a user's friends and
// lets recipients read them.
type NotificationService struct {
	store         NotificationStore
	hub           *sse.Manager
	metrics       metrics.Recorder
	logger        *slog.Logger
	excerptLength int
}

// NewNotificationService creates a new notification service. excerptLength
// bounds review text in notifications (DefaultExcerptLength when <= 0).
func NewNotificationService(store NotificationStore, hub *sse.Manager, recorder metrics.Recorder, logger *slog.Logger, excerptLength int) *NotificationService {
	if excerptLength <= 0 {
		excerptLength = DefaultExcerptLength
	}
	return &NotificationService{
		store:         store,
		hub:           hub,
		metrics:       recorderOrNop(recorder),
		logger:        loggerOrDiscard(logger),
		excerptLength: excerptLength,
	}
}

// NotifyFriendsOfReview writes one review_posted notification per friend in
// a single transaction. friendIDs is the author's friend list resolved by the
// caller; later changes to it do not affect this batch. A failed write is
// returned as PartialFanoutFailed and is not retried.
func (s *NotificationService) NotifyFriendsOfReview(ctx context.Context, author domain.Identity, review *domain.Review, friendIDs []string) (*FanoutResult, error) {
	if err := requireUser(author.UserID); err != nil {
		return nil, err
	}

	item := review.Item
	excerpt := Excerpt(review.Text, s.excerptLength)
	return s.fanout(ctx, domain.NotificationReviewPosted, author, friendIDs, func(n *domain.Notification) {
		n.Item = &item
		n.Rating = review.Rating
		n.Excerpt = excerpt
	})
}

// NotifyClubInvitation writes one club_invitation notification per invitee.
func (s *NotificationService) NotifyClubInvitation(ctx context.Context, sender domain.Identity, clubID, clubName string, inviteeIDs []string) (*FanoutResult, error) {
	if err := requireUser(sender.UserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(clubID) == "" || strings.TrimSpace(clubName) == "" {
		return nil, domainerrors.Validation("club id and name are required")
	}

	return s.fanout(ctx, domain.NotificationClubInvitation, sender, inviteeIDs, func(n *domain.Notification) {
		n.ClubID = clubID
		n.ClubName = clubName
	})
}

func (s *NotificationService) fanout(ctx context.Context, kind domain.NotificationType, sender domain.Identity, recipientIDs []string, fill func(*domain.Notification)) (*FanoutResult, error) {
	recipients := uniqueRecipients(recipientIDs, sender.UserID)
	if len(recipients) == 0 {
		return &FanoutResult{}, nil
	}

	batchID := id.Batch()
	now := s.store.Now()
	notifications := make([]*domain.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		notificationID, err := id.Generate(id.PrefixNotification)
		if err != nil {
			return nil, s.fanoutFailed(ctx, kind, sender, batchID, len(recipients), fmt.Errorf("generate notification id: %w", err))
		}
		n := &domain.Notification{
			ID:                notificationID,
			RecipientID:       recipientID,
			Type:              kind,
			SenderID:          sender.UserID,
			SenderDisplayName: sender.DisplayName,
			BatchID:           batchID,
			CreatedAt:         now,
		}
		fill(n)
		notifications = append(notifications, n)
	}

	start := time.Now()
	err := s.store.CreateNotifications(ctx, notifications)
	s.metrics.RecordFanoutLatency(string(kind), time.Since(start))
	if err != nil {
		return nil, s.fanoutFailed(ctx, kind, sender, batchID, len(recipients), err)
	}

	s.metrics.RecordNotificationsWritten(string(kind), len(notifications))
	requestLogger(ctx, s.logger).Info("notifications fanned out",
		"type", kind,
		"sender_id", sender.UserID,
		"batch_id", batchID,
		"count", len(notifications),
	)
	return &FanoutResult{BatchID: batchID, Count: len(notifications)}, nil
}

// ReviewFanoutFailed records a review fan-out that could not start, for
// example because the author's friend list could not be read.
func (s *NotificationService) ReviewFanoutFailed(ctx context.Context, author domain.Identity, err error) error {
	return s.fanoutFailed(ctx, domain.NotificationReviewPosted, author, "", 0, err)
}

func (s *NotificationService) fanoutFailed(ctx context.Context, kind domain.NotificationType, sender domain.Identity, batchID string, recipients int, err error) error {
	s.metrics.RecordFanoutFailure(string(kind))
	requestLogger(ctx, s.logger).Error("notification fan-out failed",
		"type", kind,
		"sender_id", sender.UserID,
		"batch_id", batchID,
		"recipients", recipients,
		"error", err,
	)
	return domainerrors.PartialFanoutFailed(err, "notify "+string(kind))
}

// uniqueRecipients drops blanks, duplicates and the sender, keeping order.
func uniqueRecipients(ids []string, senderID string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		recipientID := strings.TrimSpace(raw)
		if recipientID == "" || recipientID == senderID {
			continue
		}
		if _, dup := seen[recipientID]; dup {
			continue
		}
		seen[recipientID] = struct{}{}
		out = append(out, recipientID)
	}
	return out
}

// MarkRead sets the read flag on one of the recipient's notifications.
// Notifications addressed to someone else are reported as NotFound.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID string) (*domain.Notification, error) {
	if err := requireUser(recipientID); err != nil {
		return nil, err
	}
	n, err := s.store.MarkNotificationRead(ctx, recipientID, notificationID)
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}

// MarkAllRead marks every unread notification of the recipient in one
// transaction and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	if err := requireUser(recipientID); err != nil {
		return 0, err
	}
	count, err := s.store.MarkAllNotificationsRead(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return count, nil
}

// ListNotifications returns the user's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListNotifications(ctx, userID, unreadOnly)
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	return s.store.CountUnreadNotifications(ctx, userID)
}

// SubscribeNotifications pushes the user's unread notifications now and after
// every change to them. The caller must Close the subscription.
func (s *NotificationService) SubscribeNotifications(ctx context.Context, userID string) (*sse.Subscription[[]*domain.Notification], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return sse.Subscribe(ctx, s.hub, userID, []domain.Topic{domain.TopicNotifications},
		func(ctx context.Context) ([]*domain.Notification, error) {
			return s.store.ListNotifications(ctx, userID, true)
		})
}
