package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/metrics"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/search"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/sse"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/store"
)

type testEnv struct {
	store         *store.Store
	hub           *sse.Manager
	index         *search.SearchIndex
	shelves       *ShelfService
	friends       *FriendService
	notifications *NotificationService
	reviews       *ReviewService
	clubs         *ClubService
	users         *UserService
}

// setupTestServices wires every service over a temp-dir store whose changes
// feed a running hub.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hub := sse.NewManager(logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Start(ctx)

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	testStore, err := store.New(filepath.Join(tmpDir, "test.db"), logger, hub)
	require.NoError(t, err)

	index, err := search.NewSearchIndex(search.Options{Logger: logger})
	require.NoError(t, err)

	t.Cleanup(func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
		defer done()
		_ = hub.Shutdown(shutdownCtx)
		cancel()
		_ = index.Close()
		_ = testStore.Close()
		_ = os.RemoveAll(tmpDir)
	})

	recorder := metrics.Nop{}
	env := &testEnv{
		store:         testStore,
		hub:           hub,
		index:         index,
		shelves:       NewShelfService(testStore, hub, recorder, logger),
		friends:       NewFriendService(testStore, hub, recorder, logger),
		notifications: NewNotificationService(testStore, hub, recorder, logger, DefaultExcerptLength),
		users:         NewUserService(testStore, index, logger),
	}
	env.reviews = NewReviewService(testStore, env.friends, env.notifications, logger)
	env.clubs = NewClubService(env.friends, env.notifications, logger)
	return env
}

func identity(id string) domain.Identity {
	return domain.Identity{UserID: id, DisplayName: "User " + id}
}

// touchUsers records users the way the auth middleware does.
func (e *testEnv) touchUsers(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := e.users.Touch(context.Background(), identity(id))
		require.NoError(t, err)
	}
}

// befriend makes a and b friends through the request flow.
func (e *testEnv) befriend(t *testing.T, a, b string) {
	t.Helper()
	ctx := context.Background()
	_, err := e.friends.SendRequest(ctx, identity(a), b)
	require.NoError(t, err)
	_, err = e.friends.Accept(ctx, b, a)
	require.NoError(t, err)
}

func book(id, title string) domain.ItemMetadata {
	return domain.ItemMetadata{ItemID: id, Kind: domain.ItemKindBook, Title: title, Creator: "George Orwell"}
}

func receive[T any](t *testing.T, sub *sse.Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-sub.Updates():
		require.True(t, ok, "subscription closed unexpectedly")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	var zero T
	return zero
}
