package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
)

// translateWriteError maps Badger failures of a read-write transaction to
// domain errors. Coded errors returned from inside the transaction pass through.
func translateWriteError(op string, err error) error {
	var domainErr *domainerrors.Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, badger.ErrConflict):
		return domainerrors.PreconditionFailed(op + ": state changed concurrently").WithCause(err)
	case errors.Is(err, badger.ErrKeyNotFound):
		return domainerrors.NotFound(op + ": not found").WithCause(err)
	default:
		return domainerrors.RemoteWriteFailed(err, op)
	}
}

// translateReadError maps Badger failures of a read-only transaction.
func translateReadError(op string, err error) error {
	var domainErr *domainerrors.Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, badger.ErrKeyNotFound):
		return domainerrors.NotFound(op + ": not found").WithCause(err)
	default:
		return domainerrors.Wrap(err, domainerrors.CodeInternal, op)
	}
}

// isNotFound reports whether err is Badger's missing-key error.
func isNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}
