package sse

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startManager(t *testing.T) *Manager {
	t.Helper()

	m := NewManager(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	t.Cleanup(func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
		defer done()
		_ = m.Shutdown(shutdownCtx)
		cancel()
	})
	return m
}

func TestManager_SignalsMatchingClientsOnly(t *testing.T) {
	m := startManager(t)

	alice, err := m.Connect("alice", domain.TopicFriends)
	require.NoError(t, err)
	bob, err := m.Connect("bob", domain.TopicFriends)
	require.NoError(t, err)
	aliceShelves, err := m.Connect("alice", domain.TopicShelves)
	require.NoError(t, err)

	m.Emit(domain.Change{Topic: domain.TopicFriends, UserIDs: []string{"alice"}})

	select {
	case <-alice.Signal:
	case <-time.After(time.Second):
		t.Fatal("expected signal for alice")
	}

	// The change was broadcast by now; other clients must stay quiet.
	assert.Empty(t, bob.Signal)
	assert.Empty(t, aliceShelves.Signal)
}

func TestManager_CoalescesSignals(t *testing.T) {
	m := NewManager(testLogger())

	client, err := m.Connect("alice", domain.TopicShelves)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		m.broadcast(domain.Change{Topic: domain.TopicShelves, UserIDs: []string{"alice"}})
	}

	assert.Len(t, client.Signal, 1)
}

func TestManager_Disconnect(t *testing.T) {
	m := NewManager(testLogger())

	client, err := m.Connect("alice", domain.TopicShelves)
	require.NoError(t, err)
	assert.Equal(t, 1, m.ClientCount())

	m.Disconnect(client.ID)
	m.Disconnect(client.ID)

	assert.Equal(t, 0, m.ClientCount())
	select {
	case <-client.Done:
	default:
		t.Fatal("Done should be closed")
	}
}

func TestManager_EmitAfterShutdownIsDropped(t *testing.T) {
	m := NewManager(testLogger())
	client, err := m.Connect("alice", domain.TopicShelves)
	require.NoError(t, err)

	require.NoError(t, m.Shutdown(context.Background()))

	assert.NotPanics(t, func() {
		m.Emit(domain.Change{Topic: domain.TopicShelves, UserIDs: []string{"alice"}})
	})
	assert.Equal(t, 0, m.ClientCount())
	<-client.Done
}

func TestManager_ShutdownDrainsQueuedChanges(t *testing.T) {
	m := NewManager(testLogger())
	client, err := m.Connect("alice", domain.TopicNotifications)
	require.NoError(t, err)

	m.Emit(domain.Change{Topic: domain.TopicNotifications, UserIDs: []string{"alice"}})
	require.NoError(t, m.Shutdown(context.Background()))

	assert.Len(t, client.Signal, 1)
}
