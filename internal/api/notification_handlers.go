package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
)

func (s *Server) registerNotificationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications",
		Summary:     "List notifications",
		Description: "Returns the caller's notifications, newest first",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotifications)

	huma.Register(s.api, huma.Operation{
		OperationID: "markNotificationRead",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/{id}/read",
		Summary:     "Mark notification read",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkNotificationRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "markAllNotificationsRead",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/read",
		Summary:     "Mark all notifications read",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkAllNotificationsRead)
}

// === DTOs ===

// ListNotificationsInput contains notification filters.
type ListNotificationsInput struct {
	UnreadOnly bool `query:"unread" doc:"Only unread notifications"`
}

// NotificationsResponse lists notifications.
type NotificationsResponse struct {
	Notifications []*domain.Notification `json:"notifications" doc:"Notifications, newest first"`
	Unread        int                    `json:"unread" doc:"Number of unread notifications"`
}

// NotificationsOutput wraps notifications for Huma.
type NotificationsOutput struct {
	Body NotificationsResponse
}

// NotificationIDInput identifies a notification.
type NotificationIDInput struct {
	ID string `path:"id" doc:"Notification ID"`
}

// NotificationOutput wraps a notification for Huma.
type NotificationOutput struct {
	Body *domain.Notification
}

// MarkAllReadResponse reports how many notifications changed.
type MarkAllReadResponse struct {
	Updated int `json:"updated" doc:"Notifications marked read"`
}

// MarkAllReadOutput wraps the mark-all response for Huma.
type MarkAllReadOutput struct {
	Body MarkAllReadResponse
}

// === Handlers ===

func (s *Server) handleListNotifications(ctx context.Context, input *ListNotificationsInput) (*NotificationsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Notifications.ListNotifications(ctx, userID, input.UnreadOnly)
	if err != nil {
		return nil, err
	}
	unread, err := s.services.Notifications.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationsOutput{Body: NotificationsResponse{Notifications: list, Unread: unread}}, nil
}

func (s *Server) handleMarkNotificationRead(ctx context.Context, input *NotificationIDInput) (*NotificationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.services.Notifications.MarkRead(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &NotificationOutput{Body: n}, nil
}

func (s *Server) handleMarkAllNotificationsRead(ctx context.Context, _ *struct{}) (*MarkAllReadOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.services.Notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MarkAllReadOutput{Body: MarkAllReadResponse{Updated: updated}}, nil
}
