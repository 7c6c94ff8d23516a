package sse

import (
	"context"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/id"
)

// Client is a registered listener for the changes of one user.
type Client struct {
	ConnectedAt time.Time
	// Signal receives a value when a matching change was committed.
	// It holds at most one pending signal, so bursts of changes coalesce.
	Signal chan struct{}
	// Done is closed when the client is disconnected.
	Done   chan struct{}
	ID     string
	UserID string
	Topics []domain.Topic
}

func (c *Client) wants(change domain.Change) bool {
	return slices.Contains(c.Topics, change.Topic) && change.Affects(c.UserID)
}

// Manager fans committed store changes out to connected clients.
type Manager struct {
	clients map[string]*Client
	events  chan domain.Change
	logger  *slog.Logger
	wg      sync.WaitGroup
	mu      sync.RWMutex

	// Shutdown state - protected by shutdownMu
	shutdownMu sync.RWMutex
	shutdown   bool
}

// NewManager creates a new change Manager.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		clients: make(map[string]*Client),
		events:  make(chan domain.Change, 1000),
		logger:  logger,
	}
}

// Start begins the broadcasting loop.
// This should be called once at server startup in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	defer m.wg.Done()

	m.logger.Info("change manager starting")

	for {
		select {
		case change, ok := <-m.events:
			if !ok {
				return
			}
			m.broadcast(change)

		case <-ctx.Done():
			m.logger.Info("change manager stopping")
			m.closeAllClients()
			return
		}
	}
}

// Shutdown stops accepting changes, drains the queue and closes all clients.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("change manager shutdown initiated")

	// Mark as shutdown and close the channel while holding the lock, so
	// Emit never sends on a closed channel.
	m.shutdownMu.Lock()
	if m.shutdown {
		m.shutdownMu.Unlock()
		return nil
	}
	m.shutdown = true
	close(m.events)
	m.shutdownMu.Unlock()

	done := make(chan struct{})
	go func() {
		for change := range m.events {
			m.broadcast(change)
		}
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("queued changes drained")
	case <-ctx.Done():
		m.logger.Warn("change drain timeout, some subscribers may miss an update")
	}

	m.wg.Wait()
	m.closeAllClients()

	m.logger.Info("change manager shutdown complete")
	return nil
}

// broadcast signals every client interested in the change.
func (m *Manager) broadcast(change domain.Change) {
	var signaled, coalesced, filtered int

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, client := range m.clients {
		if !client.wants(change) {
			filtered++
			continue
		}

		// Non-blocking send. A pending signal already covers this change.
		select {
		case client.Signal <- struct{}{}:
			signaled++
		default:
			coalesced++
		}
	}

	m.logger.Debug("change broadcast",
		slog.String("topic", string(change.Topic)),
		slog.Group("stats",
			slog.Int("signaled", signaled),
			slog.Int("coalesced", coalesced),
			slog.Int("filtered", filtered)))
}

// Connect registers a client for changes of userID on the given topics.
func (m *Manager) Connect(userID string, topics ...domain.Topic) (*Client, error) {
	clientID, err := id.Generate("sub")
	if err != nil {
		return nil, err
	}

	client := &Client{
		ID:          clientID,
		UserID:      userID,
		Topics:      topics,
		Signal:      make(chan struct{}, 1),
		Done:        make(chan struct{}),
		ConnectedAt: time.Now(),
	}

	m.mu.Lock()
	m.clients[client.ID] = client
	totalClients := len(m.clients)
	m.mu.Unlock()

	m.logger.Debug("subscriber connected",
		slog.String("client_id", clientID),
		slog.String("user_id", userID),
		slog.Int("total_clients", totalClients))
	return client, nil
}

// Disconnect removes a client and closes its Done channel.
// Disconnecting an unknown or already removed client is a no-op.
func (m *Manager) Disconnect(clientID string) {
	m.mu.Lock()
	client, ok := m.clients[clientID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.clients, clientID)
	totalClients := len(m.clients)
	m.mu.Unlock()

	close(client.Done)

	m.logger.Debug("subscriber disconnected",
		slog.String("client_id", clientID),
		slog.Duration("duration", time.Since(client.ConnectedAt)),
		slog.Int("total_clients", totalClients))
}

// Emit queues a change for broadcasting.
// This implements the store.EventEmitter interface.
func (m *Manager) Emit(event any) {
	change, ok := event.(domain.Change)
	if !ok {
		m.logger.Error("invalid event type emitted")
		return
	}

	// Hold read lock through the send so Shutdown cannot close the channel
	// underneath us.
	m.shutdownMu.RLock()
	defer m.shutdownMu.RUnlock()

	if m.shutdown {
		return
	}

	select {
	case m.events <- change:
	default:
		m.logger.Error("change queue full, dropping change",
			slog.String("topic", string(change.Topic)),
			slog.Any("user_ids", change.UserIDs))
	}
}

// Clients returns an iterator over all connected clients.
func (m *Manager) Clients() iter.Seq[*Client] {
	return func(yield func(*Client) bool) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		for _, client := range m.clients {
			if !yield(client) {
				return
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// closeAllClients closes all client connections (used during shutdown).
func (m *Manager) closeAllClients() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, client := range m.clients {
		close(client.Done)
	}
	m.clients = make(map[string]*Client)

	m.logger.Info("all subscribers disconnected")
}
