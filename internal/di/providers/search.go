package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/config"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/logger"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/search"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve user index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: filepath.Join(cfg.Store.DataPath, "search"),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount, "created", index.Created())

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// TriggerSearchReindexIfNeeded repopulates the user index from the store
// when it was just created, either for the first time or after a mapping
// change. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	if !indexHandle.Created() {
		return
	}

	users := do.MustInvoke[*service.UserService](i)
	log := do.MustInvoke[*logger.Logger](i)

	count, err := users.Reindex(context.Background())
	if err != nil {
		log.Error("Initial search reindex failed", "error", err)
		return
	}
	if count > 0 {
		log.Info("Initial search reindex completed", "documents", count)
	}
}
