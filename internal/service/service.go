// Package service implements the shelf, friend graph, notification, review
// and user directory managers on top of the document store.
//
// Every command takes the acting user's id explicitly; an empty id means
// there is no authenticated caller and fails with Unauthenticated.
package service

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/logger"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/metrics"
)

// requireUser fails with Unauthenticated when there is no caller.
func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domainerrors.Unauthenticated("no authenticated user")
	}
	return nil
}

// outcome maps an operation result to a metrics label.
func outcome(err error, changed bool) string {
	switch {
	case err != nil:
		return metrics.OutcomeFailed
	case !changed:
		return metrics.OutcomeNoop
	default:
		return metrics.OutcomeOK
	}
}

func recorderOrNop(r metrics.Recorder) metrics.Recorder {
	if r == nil {
		return metrics.Nop{}
	}
	return r
}

// requestLogger prefers the request-scoped logger carried by ctx, which
// already holds request_id and user_id.
func requestLogger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	return logger.FromContext(ctx, fallback)
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
