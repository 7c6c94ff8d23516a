package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ShelfAndFriendCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordShelfChange("move", OutcomeOK)
	c.RecordShelfChange("move", OutcomeOK)
	c.RecordShelfChange("move", OutcomeNoop)
	c.RecordFriendTransition("accept", OutcomeFailed)

	assert.InDelta(t, 2, testutil.ToFloat64(c.shelfChanges.WithLabelValues("move", OutcomeOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.shelfChanges.WithLabelValues("move", OutcomeNoop)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.friendTransitions.WithLabelValues("accept", OutcomeFailed)), 0)
}

func TestCollector_FanoutMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordNotificationsWritten("review_posted", 3)
	c.RecordFanoutFailure("review_posted")
	c.RecordFanoutLatency("review_posted", 20*time.Millisecond)
	c.RecordFavoriteToggle(true)

	assert.InDelta(t, 3, testutil.ToFloat64(c.notifications.WithLabelValues("review_posted")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.fanoutFailures.WithLabelValues("review_posted")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.favoriteToggles.WithLabelValues("added")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(c.fanoutLatency))
}

func TestRegisterOpenSubscriptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	open := 4
	RegisterOpenSubscriptions(reg, func() int { return open })

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "shelfshare_open_subscriptions", families[0].GetName())
	assert.InDelta(t, 4, families[0].GetMetric()[0].GetGauge().GetValue(), 0)
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordHTTPRequest(http.MethodGet, "/api/v1/shelves", http.StatusOK, time.Millisecond)

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `shelfshare_http_requests_total{method="GET",route="/api/v1/shelves",status="200"} 1`)
}

func TestNop_SatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordShelfChange("add", OutcomeOK)
	r.RecordFanoutFailure("club_invitation")
}
