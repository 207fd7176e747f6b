// Package memory keeps ledger entries in memory. Used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"rentalflow/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	entries []ledger.Entry
}

func New() *Store {
	return &Store{}
}

// AppendPayment stores the entry and returns a synthetic row reference.
func (s *Store) AppendPayment(_ context.Context, e ledger.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return fmt.Sprintf("mem:%d", len(s.entries)), nil
}

// RemovePayment drops every entry with the given payment ID.
func (s *Store) RemovePayment(_ context.Context, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.PaymentID == paymentID {
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return nil
}

// Entries returns a snapshot of the stored entries.
func (s *Store) Entries() []ledger.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.Entry(nil), s.entries...)
}
