package providers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/metrics"
)

// MetricsHandle holds the Prometheus registry and the collector services
// record into.
type MetricsHandle struct {
	*metrics.Collector
	registry *prometheus.Registry
}

// Handler serves the registry in the Prometheus text format.
func (h *MetricsHandle) Handler() http.Handler {
	return metrics.Handler(h.registry)
}

func (h *MetricsHandle) registerOpenSubscriptions(count func() int) {
	metrics.RegisterOpenSubscriptions(h.registry, count)
}

// ProvideMetrics provides the metrics registry and collector.
func ProvideMetrics(i do.Injector) (*MetricsHandle, error) {
	registry := prometheus.NewRegistry()
	metrics.RegisterRuntime(registry)

	return &MetricsHandle{
		Collector: metrics.NewCollector(registry),
		registry:  registry,
	}, nil
}
