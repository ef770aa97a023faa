package orders

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps records in a process-local map. It backs tests and the
// "memory" store backend for local runs; expiry happens lazily on reads.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Order)}
}

func (s *MemoryStore) Put(_ context.Context, o Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[o.OrderID] = o
	return nil
}

func (s *MemoryStore) Get(_ context.Context, orderID string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[orderID]
	if !ok {
		return Order{}, ErrNotFound
	}
	if o.Expired(time.Now()) {
		delete(s.byID, orderID)
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (s *MemoryStore) QueryByOwner(_ context.Context, userID string) ([]Order, error) {
	now := time.Now()

	s.mu.RLock()
	out := make([]Order, 0)
	for _, o := range s.byID {
		if o.UserID == userID && !o.Expired(now) {
			out = append(out, o)
		}
	}
	s.mu.RUnlock()

	// newest first; CreatedAt is zero-padded UTC so string order is time order
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].OrderID < out[j].OrderID
	})
	if len(out) > MaxList {
		out = out[:MaxList]
	}
	return out, nil
}

// Len reports live records, mostly for tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
