package domain

// Topic groups store changes by the subscriptions they affect.
type Topic string

const (
	TopicShelves       Topic = "shelves"
	TopicFriends       Topic = "friends"
	TopicNotifications Topic = "notifications"
	TopicReviews       Topic = "reviews"
	TopicUsers         Topic = "users"
)

// Change is emitted by the store after a transaction commits.
// UserIDs lists every user whose view of Topic may have changed.
type Change struct {
	Topic   Topic    `json:"topic"`
	UserIDs []string `json:"user_ids"`
}

// Affects reports whether the change touches userID.
func (c Change) Affects(userID string) bool {
	for _, id := range c.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
