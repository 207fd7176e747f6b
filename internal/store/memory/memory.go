// Package memory provides the in-memory repository backend, usable as a
// zero-dependency default and as the fixture store in tests. Data is lost on
// restart; optional JSON seed files give a populated demo dataset.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rentalflow/internal/core"
	"rentalflow/internal/store"
)

type Store struct {
	mu         sync.Mutex
	apartments []core.Apartment
	leases     []core.Lease
	payments   []core.Payment
	nextID     int
}

var _ store.Repository = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1}
}

// NewFromFiles seeds a store from apartments.json, leases.json and
// payments.json under base. Missing or unreadable files are skipped; the
// store starts empty in that case.
func NewFromFiles(base string) *Store {
	s := New()
	readSeed(filepath.Join(base, "apartments.json"), &s.apartments)
	readSeed(filepath.Join(base, "leases.json"), &s.leases)
	readSeed(filepath.Join(base, "payments.json"), &s.payments)
	for _, a := range s.apartments {
		s.bumpID(a.ID)
	}
	for _, l := range s.leases {
		s.bumpID(l.ID)
	}
	for _, p := range s.payments {
		s.bumpID(p.ID)
	}
	return s
}

func readSeed[T any](path string, out *[]T) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(raw, out)
}

func (s *Store) bumpID(id string) {
	var n int
	if _, err := fmt.Sscanf(id, "%d", &n); err == nil && n >= s.nextID {
		s.nextID = n + 1
	}
}

func (s *Store) allocID() string {
	id := fmt.Sprintf("%d", s.nextID)
	s.nextID++
	return id
}

func (s *Store) ListApartments(_ context.Context) ([]core.Apartment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Apartment, len(s.apartments))
	for i, a := range s.apartments {
		out[i] = a
		out[i].PriceHistory = append([]core.PriceEntry(nil), a.PriceHistory...)
	}
	return out, nil
}

func (s *Store) CreateApartment(_ context.Context, a core.Apartment) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.allocID()
	for i := range a.PriceHistory {
		if a.PriceHistory[i].ID == "" {
			a.PriceHistory[i].ID = s.allocID()
		}
	}
	s.apartments = append(s.apartments, a)
	return a.ID, nil
}

func (s *Store) UpdateApartment(_ context.Context, a core.Apartment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.apartments {
		if s.apartments[i].ID == a.ID {
			for j := range a.PriceHistory {
				if a.PriceHistory[j].ID == "" {
					a.PriceHistory[j].ID = s.allocID()
				}
			}
			s.apartments[i] = a
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteApartment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.apartments {
		if s.apartments[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return store.ErrNotFound
	}
	s.apartments = append(s.apartments[:idx], s.apartments[idx+1:]...)

	// Cascade: drop the apartment's leases and their payments.
	doomed := map[string]bool{}
	kept := s.leases[:0]
	for _, l := range s.leases {
		if l.ApartmentID == id {
			doomed[l.ID] = true
			continue
		}
		kept = append(kept, l)
	}
	s.leases = kept
	s.dropPayments(doomed)
	return nil
}

func (s *Store) ListLeases(_ context.Context) ([]core.Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Lease(nil), s.leases...), nil
}

func (s *Store) CreateLease(_ context.Context, l core.Lease) (string, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.allocID()
	s.leases = append(s.leases, l)
	return l.ID, nil
}

func (s *Store) UpdateLease(_ context.Context, l core.Lease) error {
	if err := l.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.leases {
		if s.leases[i].ID == l.ID {
			s.leases[i] = l
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteLease(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.leases {
		if s.leases[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return store.ErrNotFound
	}
	s.leases = append(s.leases[:idx], s.leases[idx+1:]...)
	s.dropPayments(map[string]bool{id: true})
	return nil
}

func (s *Store) ListPayments(_ context.Context) ([]core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Payment(nil), s.payments...), nil
}

func (s *Store) CreatePayment(_ context.Context, p core.Payment) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.allocID()
	s.payments = append(s.payments, p)
	return p.ID, nil
}

func (s *Store) UpdatePayment(_ context.Context, p core.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].ID == p.ID {
			s.payments[i] = p
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeletePayment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].ID == id {
			s.payments = append(s.payments[:i], s.payments[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) GetPayment(_ context.Context, id string) (core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return core.Payment{}, store.ErrNotFound
}

func (s *Store) Close() error {
	return nil
}

// dropPayments removes every payment whose lease id is in doomed.
// Caller holds the lock.
func (s *Store) dropPayments(doomed map[string]bool) {
	if len(doomed) == 0 {
		return
	}
	kept := s.payments[:0]
	for _, p := range s.payments {
		if doomed[p.LeaseID] {
			continue
		}
		kept = append(kept, p)
	}
	s.payments = kept
}
