// Package memory implements the ledger store as plain in-process slices.
// This is the default backend: one Store per session, nothing survives
// the process.
package memory

import (
	"context"
	"sync"

	"tally/internal/core"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	txs    []core.Transaction
	fixed  []core.FixedCost
}

func New() *Store {
	return &Store{nextID: 1}
}

// Append validates and stores a transaction, assigning a monotonic ID.
func (s *Store) Append(_ context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.nextID
	s.nextID++
	s.txs = append(s.txs, tx)
	return tx.ID, nil
}

// AppendFixedCost validates and stores a fixed cost, assigning a monotonic ID.
func (s *Store) AppendFixedCost(_ context.Context, fc core.FixedCost) (int64, error) {
	if err := fc.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fc.ID = s.nextID
	s.nextID++
	s.fixed = append(s.fixed, fc)
	return fc.ID, nil
}

// Deactivate flips Active off; the record itself is never removed.
func (s *Store) Deactivate(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.fixed {
		if s.fixed[i].ID == id {
			s.fixed[i].Active = false
			return nil
		}
	}
	return core.ErrNotFound
}

// Transactions returns a copy of all transactions in insertion order.
func (s *Store) Transactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

// FixedCosts returns a copy of all fixed costs in insertion order.
func (s *Store) FixedCosts(_ context.Context) ([]core.FixedCost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.FixedCost, len(s.fixed))
	copy(out, s.fixed)
	return out, nil
}
