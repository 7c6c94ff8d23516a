// Package metrics collects and exposes Prometheus metrics for the engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shelfshare"

// Outcome labels.
const (
	OutcomeOK     = "ok"
	OutcomeNoop   = "noop"
	OutcomeFailed = "failed"
)

// Recorder is the metrics surface used by the services.
type Recorder interface {
	RecordShelfChange(operation, outcome string)
	RecordFavoriteToggle(favorite bool)
	RecordFriendTransition(transition, outcome string)
	RecordNotificationsWritten(kind string, count int)
	RecordFanoutFailure(kind string)
	RecordFanoutLatency(kind string, d time.Duration)
}

var _ Recorder = (*Collector)(nil)

// Collector implements Recorder with Prometheus collectors.
type Collector struct {
	shelfChanges      *prometheus.CounterVec
	favoriteToggles   *prometheus.CounterVec
	friendTransitions *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	fanoutFailures    *prometheus.CounterVec
	fanoutLatency     *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		shelfChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shelf_changes_total",
			Help:      "Shelf placements, moves and removals by outcome.",
		}, []string{"operation", "outcome"}),
		favoriteToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorite_toggles_total",
			Help:      "Favorite toggles by resulting state.",
		}, []string{"state"}),
		friendTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "friend_transitions_total",
			Help:      "Friend graph transitions by outcome.",
		}, []string{"transition", "outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_written_total",
			Help:      "Notifications written by fan-out.",
		}, []string{"type"}),
		fanoutFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fanout_failures_total",
			Help:      "Notification fan-outs that failed after the primary action committed.",
		}, []string{"type"}),
		fanoutLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fanout_duration_seconds",
			Help:      "Time to write one notification fan-out batch.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.shelfChanges,
		c.favoriteToggles,
		c.friendTransitions,
		c.notifications,
		c.fanoutFailures,
		c.fanoutLatency,
		c.httpRequests,
		c.httpDuration,
	)

	return c
}

// RecordShelfChange counts a shelf operation.
func (c *Collector) RecordShelfChange(operation, outcome string) {
	c.shelfChanges.WithLabelValues(operation, outcome).Inc()
}

// RecordFavoriteToggle counts a toggle by the state it produced.
func (c *Collector) RecordFavoriteToggle(favorite bool) {
	state := "removed"
	if favorite {
		state = "added"
	}
	c.favoriteToggles.WithLabelValues(state).Inc()
}

// RecordFriendTransition counts a friend graph transition.
func (c *Collector) RecordFriendTransition(transition, outcome string) {
	c.friendTransitions.WithLabelValues(transition, outcome).Inc()
}

// RecordNotificationsWritten adds count notifications of kind.
func (c *Collector) RecordNotificationsWritten(kind string, count int) {
	c.notifications.WithLabelValues(kind).Add(float64(count))
}

// RecordFanoutFailure counts a failed fan-out.
func (c *Collector) RecordFanoutFailure(kind string) {
	c.fanoutFailures.WithLabelValues(kind).Inc()
}

// RecordFanoutLatency observes the duration of one fan-out write.
func (c *Collector) RecordFanoutLatency(kind string, d time.Duration) {
	c.fanoutLatency.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordHTTPRequest observes one served request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RegisterOpenSubscriptions exposes the number of live push subscriptions,
// read from count at scrape time.
func RegisterOpenSubscriptions(reg prometheus.Registerer, count func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "open_subscriptions",
		Help:      "Live push subscriptions attached to the change hub.",
	}, func() float64 { return float64(count()) }))
}

// RegisterRuntime adds the standard Go runtime and process collectors.
func RegisterRuntime(reg prometheus.Registerer) {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordShelfChange(string, string)          {}
func (Nop) RecordFavoriteToggle(bool)                 {}
func (Nop) RecordFriendTransition(string, string)     {}
func (Nop) RecordNotificationsWritten(string, int)    {}
func (Nop) RecordFanoutFailure(string)                {}
func (Nop) RecordFanoutLatency(string, time.Duration) {}
