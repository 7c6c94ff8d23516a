package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/metrics"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/store"
)

// failingNotificationStore rejects every notification batch.
type failingNotificationStore struct {
	*store.Store
	err error
}

func (f failingNotificationStore) CreateNotifications(context.Context, []*domain.Notification) error {
	return f.err
}

func TestNotificationService_ReviewFanoutScenario(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()
	env.touchUsers(t, "alice", "bob", "carol", "dave")
	env.befriend(t, "alice", "bob")
	env.befriend(t, "carol", "alice")

	result, err := env.reviews.PostReview(ctx, identity("alice"), PostReviewRequest{
		Item:   book("book-x", "X"),
		Rating: 4,
		Text:   "<p>Loved it.</p>",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Fanout)
	assert.Equal(t, 2, result.Fanout.Count)

	for _, recipient := range []string{"bob", "carol"} {
		list, err := env.notifications.ListNotifications(ctx, recipient, false)
		require.NoError(t, err)
		require.Len(t, list, 1, recipient)

		n := list[0]
		assert.Equal(t, domain.NotificationReviewPosted, n.Type)
		assert.Equal(t, "alice", n.SenderID)
		assert.Equal(t, "User alice", n.SenderDisplayName)
		assert.Equal(t, 4, n.Rating)
		require.NotNil(t, n.Item)
		assert.Equal(t, "book-x", n.Item.ItemID)
		assert.Equal(t, "Loved it.", n.Excerpt)
		assert.False(t, n.Read)
		assert.Equal(t, result.Fanout.BatchID, n.BatchID)
	}

	for _, bystander := range []string{"alice", "dave"} {
		count, err := env.notifications.UnreadCount(ctx, bystander)
		require.NoError(t, err)
		assert.Zero(t, count, bystander)
	}
}

func TestNotificationService_FanoutUsesFriendListAtCallTime(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()
	env.touchUsers(t, "alice", "bob", "carol")
	env.befriend(t, "alice", "bob")
	env.befriend(t, "alice", "carol")

	friendIDs, err := env.friends.ListFriendIDs(ctx, "alice")
	require.NoError(t, err)

	review := &domain.Review{Item: book("book-x", "X"), Rating: 5, Text: strings.Repeat("long ", 60)}
	require.NoError(t, env.friends.Unfriend(ctx, "alice", "carol"))

	result, err := env.notifications.NotifyFriendsOfReview(ctx, identity("alice"), review, friendIDs)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)

	list, err := env.notifications.ListNotifications(ctx, "carol", false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, strings.HasSuffix(list[0].Excerpt, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(list[0].Excerpt), DefaultExcerptLength+3)
}

func TestNotificationService_RecipientsDeduplicated(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	result, err := env.notifications.NotifyFriendsOfReview(ctx, identity("alice"),
		&domain.Review{Item: book("b", "B"), Rating: 3},
		[]string{"bob", "bob", " ", "alice", "carol"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)

	count, err := env.notifications.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNotificationService_EmptyFriendListIsNoop(t *testing.T) {
	env := setupTestServices(t)

	result, err := env.notifications.NotifyFriendsOfReview(context.Background(), identity("alice"),
		&domain.Review{Item: book("b", "B"), Rating: 3}, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Count)
	assert.Empty(t, result.BatchID)
}

func TestNotificationService_FailureIsPartialFanout(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()
	env.touchUsers(t, "alice", "bob")
	env.befriend(t, "alice", "bob")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	failing := NewNotificationService(failingNotificationStore{Store: env.store, err: errors.New("disk full")},
		env.hub, metrics.Nop{}, logger, DefaultExcerptLength)
	reviews := NewReviewService(env.store, env.friends, failing, logger)

	result, err := reviews.PostReview(ctx, identity("alice"), PostReviewRequest{
		Item:   book("book-x", "X"),
		Rating: 2,
		Text:   "Not for me.",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPartialFanoutFailed)

	// The review itself was committed before the fan-out.
	require.NotNil(t, result)
	require.NotNil(t, result.Review)
	stored, err := reviews.GetReview(ctx, "book-x", "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Rating)

	count, err := env.notifications.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_MarkRead(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	_, err := env.notifications.NotifyFriendsOfReview(ctx, identity("alice"),
		&domain.Review{Item: book("b", "B"), Rating: 3}, []string{"bob"})
	require.NoError(t, err)

	list, err := env.notifications.ListNotifications(ctx, "bob", true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	notificationID := list[0].ID

	_, err = env.notifications.MarkRead(ctx, "carol", notificationID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	n, err := env.notifications.MarkRead(ctx, "bob", notificationID)
	require.NoError(t, err)
	assert.True(t, n.Read)

	_, err = env.notifications.MarkRead(ctx, "bob", notificationID)
	require.NoError(t, err)

	unread, err := env.notifications.ListNotifications(ctx, "bob", true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	for range 3 {
		_, err := env.notifications.NotifyFriendsOfReview(ctx, identity("alice"),
			&domain.Review{Item: book("b", "B"), Rating: 3}, []string{"bob"})
		require.NoError(t, err)
	}

	changed, err := env.notifications.MarkAllRead(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 3, changed)

	count, err := env.notifications.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_SubscribeUnread(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	sub, err := env.notifications.SubscribeNotifications(ctx, "bob")
	require.NoError(t, err)
	defer sub.Close()

	assert.Empty(t, receive(t, sub))

	_, err = env.notifications.NotifyClubInvitation(ctx, identity("alice"), "club-1", "Sci-fi Club", []string{"bob"})
	require.NoError(t, err)

	unread := receive(t, sub)
	require.Len(t, unread, 1)
	assert.Equal(t, domain.NotificationClubInvitation, unread[0].Type)
	assert.Equal(t, "Sci-fi Club", unread[0].ClubName)

	_, err = env.notifications.MarkAllRead(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, receive(t, sub))
}
