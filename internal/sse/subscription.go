package sse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
)

const (
	initialLoadAttempts = 2
	initialRetryDelay   = 250 * time.Millisecond
)

// Loader produces a full snapshot of the subscribed query.
type Loader[T any] func(ctx context.Context) (T, error)

// Subscription pushes a fresh snapshot of a query every time a matching
// change commits. The owner must call Close on every path; cancelling the
// context passed to Subscribe also releases it.
type Subscription[T any] struct {
	manager *Manager
	client  *Client
	load    Loader[T]
	logger  *slog.Logger

	updates chan T
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

// Subscribe registers for changes of userID on topics and starts pushing
// snapshots produced by load. The first snapshot is loaded immediately.
func Subscribe[T any](ctx context.Context, m *Manager, userID string, topics []domain.Topic, load Loader[T]) (*Subscription[T], error) {
	// Register before the first load so no commit can slip between the two.
	client, err := m.Connect(userID, topics...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		manager: m,
		client:  client,
		load:    load,
		logger:  m.logger.With(slog.String("client_id", client.ID), slog.String("user_id", userID)),
		updates: make(chan T),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go sub.run(ctx)
	return sub, nil
}

// Updates returns the channel snapshots are delivered on.
// It is closed when the subscription ends.
func (s *Subscription[T]) Updates() <-chan T {
	return s.updates
}

// Done is closed once the subscription has stopped.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Close stops the subscription and waits for its goroutine to exit.
// Safe to call more than once.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		s.cancel()
		s.manager.Disconnect(s.client.ID)
	})
	<-s.done
}

func (s *Subscription[T]) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.updates)
	defer s.manager.Disconnect(s.client.ID)

	if !s.pushInitial(ctx) {
		return
	}

	for {
		select {
		case <-s.client.Signal:
			if !s.push(ctx) {
				return
			}
		case <-s.client.Done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// pushInitial delivers the first snapshot, retrying the query once. A
// subscriber that never received a snapshot has nothing to keep showing, so
// a second failure ends the subscription and the client reconnects.
func (s *Subscription[T]) pushInitial(ctx context.Context) bool {
	for attempt := 1; ; attempt++ {
		snapshot, err := s.load(ctx)
		if err == nil {
			return s.deliver(ctx, snapshot)
		}
		if ctx.Err() != nil {
			return false
		}
		s.logger.Warn("initial subscription query failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		if attempt == initialLoadAttempts {
			return false
		}

		select {
		case <-time.After(initialRetryDelay):
		case <-s.client.Done:
			return false
		case <-ctx.Done():
			return false
		}
	}
}

// push loads a snapshot and hands it to the owner. It reports false once
// the subscription should stop.
func (s *Subscription[T]) push(ctx context.Context) bool {
	snapshot, err := s.load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		// Keep the previous snapshot; the next change retries the query.
		s.logger.Warn("subscription query failed", slog.String("error", err.Error()))
		return true
	}
	return s.deliver(ctx, snapshot)
}

func (s *Subscription[T]) deliver(ctx context.Context, snapshot T) bool {
	select {
	case s.updates <- snapshot:
		return true
	case <-s.client.Done:
		return false
	case <-ctx.Done():
		return false
	}
}
