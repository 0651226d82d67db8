// Package inmem provides in-memory store implementations with the same
// contracts as the Postgres and Redis backed ones. They serve single-node
// setups without external stores and let tests drive hold expiry through
// an injected clock.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/Shreevatsags/ecommerce-platform/internal/repository"
)

type holdRecord struct {
	quantity  int
	expiresAt time.Time
}

// HoldStore is an ephemeral hold store backed by a map. Expiry is lazy:
// a record past its deadline is dropped the next time it is read.
type HoldStore struct {
	mu    sync.Mutex
	now   func() time.Time
	holds map[string]map[string]holdRecord
}

func NewHoldStore() *HoldStore {
	return NewHoldStoreWithClock(time.Now)
}

// NewHoldStoreWithClock builds a store reading time from now, so tests
// can advance the clock instead of sleeping.
func NewHoldStoreWithClock(now func() time.Time) *HoldStore {
	return &HoldStore{
		now:   now,
		holds: make(map[string]map[string]holdRecord),
	}
}

func (s *HoldStore) Put(_ context.Context, productID, holderID string, quantity int, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.holds[productID]
	if !ok {
		product = make(map[string]holdRecord)
		s.holds[productID] = product
	}

	product[holderID] = holdRecord{
		quantity:  quantity,
		expiresAt: s.now().Add(ttl),
	}

	return nil
}

func (s *HoldStore) Get(_ context.Context, productID, holderID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.active(productID, holderID)
	if !ok {
		return 0, repository.ErrHoldNotFound
	}

	return record.quantity, nil
}

func (s *HoldStore) Remove(_ context.Context, productID, holderID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.active(productID, holderID)
	if !ok {
		return 0, repository.ErrHoldNotFound
	}

	delete(s.holds[productID], holderID)

	return record.quantity, nil
}

func (s *HoldStore) SumByProduct(_ context.Context, productID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := 0
	for holderID := range s.holds[productID] {
		if record, ok := s.active(productID, holderID); ok {
			sum += record.quantity
		}
	}

	return sum, nil
}

// active returns the live record for a key, dropping it if expired.
// Callers must hold s.mu.
func (s *HoldStore) active(productID, holderID string) (holdRecord, bool) {
	record, ok := s.holds[productID][holderID]
	if !ok {
		return holdRecord{}, false
	}

	if !s.now().Before(record.expiresAt) {
		delete(s.holds[productID], holderID)

		return holdRecord{}, false
	}

	return record, true
}
