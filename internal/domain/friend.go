package domain

import "time"

// RequestDirection tells which side of a pending request a document is on.
type RequestDirection string

const (
	RequestOutgoing RequestDirection = "outgoing"
	RequestIncoming RequestDirection = "incoming"
)

// RequestStatus is the status stored on request documents.
// Only pending requests are ever stored; resolved requests are deleted.
type RequestStatus string

const RequestPending RequestStatus = "pending"

// FriendRequest is one half of a pending request pair.
// OwnerID is the user the document is filed under; the pair is
// out(sender -> recipient) under the sender and in(recipient <- sender)
// under the recipient.
type FriendRequest struct {
	OwnerID              string           `json:"owner_id"`
	Direction            RequestDirection `json:"direction"`
	SenderID             string           `json:"sender_id"`
	SenderDisplayName    string           `json:"sender_display_name"`
	RecipientID          string           `json:"recipient_id"`
	RecipientDisplayName string           `json:"recipient_display_name"`
	Status               RequestStatus    `json:"status"`
	CreatedAt            time.Time        `json:"created_at"`
}

// OtherID returns the counterpart of the owner.
func (r *FriendRequest) OtherID() string {
	if r.OwnerID == r.SenderID {
		return r.RecipientID
	}
	return r.SenderID
}

// Friend is one half of a symmetric friendship edge, filed under UserID.
type Friend struct {
	UserID            string    `json:"user_id"`
	FriendID          string    `json:"friend_id"`
	FriendDisplayName string    `json:"friend_display_name"`
	Since             time.Time `json:"since"`
}

// FriendSnapshot is the social graph as seen by one user.
type FriendSnapshot struct {
	Friends  []*Friend        `json:"friends"`
	Incoming []*FriendRequest `json:"incoming"`
	Outgoing []*FriendRequest `json:"outgoing"`
}
