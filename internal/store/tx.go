package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
)

// Tx is the unit of work for one Badger transaction. Reads see a consistent
// snapshot, writes become visible together on commit, and the changes
// recorded with emit are broadcast only after the commit succeeds.
type Tx struct {
	txn     *badger.Txn
	changes []domain.Change
}

// update runs fn in a read-write transaction and emits its changes after commit.
// A conflicting concurrent commit surfaces as PreconditionFailed.
func (s *Store) update(ctx context.Context, op string, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &Tx{}
	err := s.db.Update(func(txn *badger.Txn) error {
		tx.txn = txn
		return fn(tx)
	})
	if err != nil {
		return translateWriteError(op, err)
	}

	for _, c := range tx.changes {
		s.eventEmitter.Emit(c)
	}
	return nil
}

// view runs fn in a read-only transaction.
func (s *Store) view(ctx context.Context, op string, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		return fn(&Tx{txn: txn})
	})
	if err != nil {
		return translateReadError(op, err)
	}
	return nil
}

// emit records a change to broadcast once the transaction commits.
func (tx *Tx) emit(topic domain.Topic, userIDs ...string) {
	tx.changes = append(tx.changes, domain.Change{Topic: topic, UserIDs: userIDs})
}

// get decodes the document at key into dest.
// Returns badger.ErrKeyNotFound if the key is absent.
func (tx *Tx) get(key string, dest any) error {
	item, err := tx.txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

// exists checks if a key exists. The read still counts toward conflict detection.
func (tx *Tx) exists(key string) (bool, error) {
	_, err := tx.txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// set stores value as JSON at key.
func (tx *Tx) set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return tx.txn.Set([]byte(key), data)
}

// setIndex stores an empty marker key.
func (tx *Tx) setIndex(key string) error {
	return tx.txn.Set([]byte(key), []byte{})
}

// delete removes key. Deleting an absent key is not an error.
func (tx *Tx) delete(key string) error {
	return tx.txn.Delete([]byte(key))
}

// keys returns every key under prefix without loading values.
func (tx *Tx) keys(prefix string) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefix)

	it := tx.txn.NewIterator(opts)
	defer it.Close()

	var out []string
	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		out = append(out, string(it.Item().Key()))
	}
	return out
}

// getDoc loads the document of type T stored at key.
func getDoc[T any](tx *Tx, key string) (*T, error) {
	var v T
	if err := tx.get(key, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// listDocs decodes every document under prefix.
func listDocs[T any](tx *Tx, prefix string) ([]*T, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)

	it := tx.txn.NewIterator(opts)
	defer it.Close()

	var out []*T
	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		var v T
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		})
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		out = append(out, &v)
	}
	return out, nil
}
