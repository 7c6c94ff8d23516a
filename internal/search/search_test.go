package search

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

func newTestIndex(t *testing.T, dataPath string) *SearchIndex {
	t.Helper()
	idx, err := NewSearchIndex(Options{
		DataPath: dataPath,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func user(id, name string) *UserDocument {
	return NewUserDocument(&domain.User{ID: id, DisplayName: name, LastSeenAt: time.Now()})
}

func hitIDs(hits []SearchHit) []string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.UserID
	}
	return ids
}

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Zoë", "zoe"},
		{"  Björk Guðmundsdóttir ", "bjork guðmundsdottir"},
		{"ＡＢＣ", "abc"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.input))
		})
	}
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"mary", "jane", "o", "neil", "2nd"}, Terms("Mary-Jane O'Neil, 2nd"))
	assert.Empty(t, Terms(" -- "))
}

func TestSearch_MatchesFoldedPrefixAndFuzzy(t *testing.T) {
	idx := newTestIndex(t, "")
	ctx := context.Background()

	require.NoError(t, idx.IndexUsers([]*UserDocument{
		user("u1", "Zoë Saldaña"),
		user("u2", "Zack Snyder"),
		user("u3", "Margaret Atwood"),
	}))

	hits, err := idx.Search(ctx, SearchParams{Query: "zoe"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, hitIDs(hits))
	assert.Equal(t, "Zoë Saldaña", hits[0].DisplayName)

	hits, err = idx.Search(ctx, SearchParams{Query: "Marg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u3"}, hitIDs(hits))

	hits, err = idx.Search(ctx, SearchParams{Query: "atwod"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u3"}, hitIDs(hits))

	hits, err = idx.Search(ctx, SearchParams{Query: "zack atwood"})
	require.NoError(t, err)
	assert.Empty(t, hits, "every term must match")
}

func TestSearch_ExcludesAndLimits(t *testing.T) {
	idx := newTestIndex(t, "")
	ctx := context.Background()

	docs := make([]*UserDocument, 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		docs = append(docs, user(id, "Reader "+id))
	}
	require.NoError(t, idx.IndexUsers(docs))

	hits, err := idx.Search(ctx, SearchParams{Query: "reader", ExcludeIDs: []string{"a"}, Limit: 3})
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.NotContains(t, hitIDs(hits), "a")

	hits, err = idx.Search(ctx, SearchParams{Query: "   "})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_DeleteAndRebuild(t *testing.T) {
	idx := newTestIndex(t, "")
	ctx := context.Background()

	require.NoError(t, idx.IndexUser(user("u1", "Ursula Le Guin")))
	require.NoError(t, idx.DeleteUser("u1"))

	hits, err := idx.Search(ctx, SearchParams{Query: "ursula"})
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, idx.IndexUser(user("u2", "Octavia Butler")))
	require.NoError(t, idx.Rebuild())

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndex_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	assert.True(t, first.Created())
	require.NoError(t, first.IndexUser(user("u1", "Italo Calvino")))
	require.NoError(t, first.Close())

	second := newTestIndex(t, dir)
	assert.False(t, second.Created())

	count, err := second.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}
