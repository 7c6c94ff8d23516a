// Package store is the Badger-backed document store. Every mutation runs in
// a single Badger transaction, so multi-document state changes commit or
// fail as a unit, and a change notice is emitted once the commit succeeds.
package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// EventEmitter is the interface for broadcasting committed changes.
// Store uses this to notify subscribers without depending on the hub.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	eventEmitter EventEmitter

	now func() time.Time
}

// New opens (or creates) the database at path. The emitter receives a
// domain.Change after every committed transaction.
func New(path string, logger *slog.Logger, emitter EventEmitter) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	return open(opts, logger, emitter)
}

// NewInMemory creates a store that keeps everything in memory.
func NewInMemory(logger *slog.Logger, emitter EventEmitter) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, logger, emitter)
}

func open(opts badger.Options, logger *slog.Logger, emitter EventEmitter) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if emitter == nil {
		emitter = NoopEmitter{}
	}

	s := &Store{
		db:           db,
		logger:       logger,
		eventEmitter: emitter,
		now:          func() time.Time { return time.Now().UTC() },
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", opts.Dir, "in_memory", opts.InMemory)
	}

	return s, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// SetClock replaces the time source used for document timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the current time according to the store's clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// Ping reports whether the database is open and readable.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return fmt.Errorf("database is closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}
