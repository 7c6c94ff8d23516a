// Package sse delivers store changes to live subscribers and streams query
// snapshots to HTTP clients as Server-Sent Events.
package sse

import "time"

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventConnected is the first event on every stream.
	EventConnected EventType = "connected"
	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"

	// EventShelvesSnapshot carries the full shelf state of the caller.
	EventShelvesSnapshot EventType = "shelves.snapshot"
	// EventFriendsSnapshot carries friends and pending requests of the caller.
	EventFriendsSnapshot EventType = "friends.snapshot"
	// EventNotificationsSnapshot carries the caller's unread notifications.
	EventNotificationsSnapshot EventType = "notifications.snapshot"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// NewEvent wraps data in an event stamped with the current time.
func NewEvent(eventType EventType, data any) Event {
	return Event{
		Timestamp: time.Now(),
		Data:      data,
		Type:      eventType,
	}
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return NewEvent(EventHeartbeat, HeartbeatEventData{ServerTime: time.Now()})
}
