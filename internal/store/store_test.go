package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
)

// setupTestStore creates a store in a temp directory.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "shelfshare-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath, nil, NewNoopEmitter())
	require.NoError(t, err)
	require.NotNil(t, s)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

// setupRecordingStore creates an in-memory store whose changes are recorded.
func setupRecordingStore(t *testing.T) (*Store, *recordingEmitter) {
	t.Helper()

	rec := &recordingEmitter{}
	s, err := NewInMemory(nil, rec)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, rec
}

type recordingEmitter struct {
	mu      sync.Mutex
	changes []domain.Change
}

func (r *recordingEmitter) Emit(event any) {
	if c, ok := event.(domain.Change); ok {
		r.mu.Lock()
		r.changes = append(r.changes, c)
		r.mu.Unlock()
	}
}

func (r *recordingEmitter) all() []domain.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Change(nil), r.changes...)
}

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func createUsers(t *testing.T, s *Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, _, err := s.UpsertUser(context.Background(), domain.Identity{UserID: id, DisplayName: "User " + id})
		require.NoError(t, err)
	}
}

func TestStore_Ping(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, s.Ping())
}
