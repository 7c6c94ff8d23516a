package domain

import "time"

// NotificationType identifies what triggered a notification.
type NotificationType string

const (
	NotificationReviewPosted   NotificationType = "review_posted"
	NotificationClubInvitation NotificationType = "club_invitation"
)

// Notification is an activity notice delivered to a single recipient.
// Only the recipient may change it, and only its Read flag.
type Notification struct {
	ID                string           `json:"id"`
	RecipientID       string           `json:"recipient_id"`
	Type              NotificationType `json:"type"`
	SenderID          string           `json:"sender_id"`
	SenderDisplayName string           `json:"sender_display_name"`
	BatchID           string           `json:"batch_id"`
	CreatedAt         time.Time        `json:"created_at"`
	Read              bool             `json:"read"`

	// review_posted
	Item    *ItemMetadata `json:"item,omitempty"`
	Rating  int           `json:"rating,omitempty"`
	Excerpt string        `json:"excerpt,omitempty"`

	// club_invitation
	ClubID   string `json:"club_id,omitempty"`
	ClubName string `json:"club_name,omitempty"`
}
