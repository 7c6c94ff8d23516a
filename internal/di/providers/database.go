package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/config"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/logger"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/sse"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/store"
)

// SSEManagerHandle wraps the push hub with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the push subscription hub.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	metricsHandle := do.MustInvoke[*MetricsHandle](i)

	manager := sse.NewManager(log.Logger)
	metricsHandle.registerOpenSubscriptions(manager.ClientCount)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the document store. Committed changes are
// emitted to the push hub.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	dbPath := filepath.Join(cfg.Store.DataPath, "db")
	db, err := store.New(dbPath, log.Logger, sseHandle.Manager)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}
