package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/incubmainer/somegram-backend-sub002/internal/payment/entity"
	"github.com/incubmainer/somegram-backend-sub002/internal/payment/usecase"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgerror"
)

type InMemoryStore struct {
	mu          sync.RWMutex
	payments    map[int64]entity.Payment
	byReference map[string]int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		payments:    make(map[int64]entity.Payment),
		byReference: make(map[string]int64),
	}
}

func (s *InMemoryStore) Create(ctx context.Context, p entity.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[p.ID]; exists {
		return pkgerror.NewBusiness("payment already exists", pkgerror.CodeConflict)
	}
	if _, exists := s.byReference[p.Reference]; exists {
		return pkgerror.NewBusiness("payment reference already used", pkgerror.CodeConflict)
	}

	s.payments[p.ID] = p
	s.byReference[p.Reference] = p.ID

	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, id int64) (entity.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return entity.Payment{}, pkgerror.ErrNotFound
	}

	return p, nil
}

// UpdateStatus moves a payment out of from. It fails with a conflict when the
// payment is no longer in that status.
func (s *InMemoryStore) UpdateStatus(ctx context.Context, id int64, from, to entity.Status, reason string, at time.Time) (entity.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return entity.Payment{}, pkgerror.ErrNotFound
	}
	if p.Status != from {
		return entity.Payment{}, pkgerror.NewBusiness("payment is "+string(p.Status), pkgerror.CodeConflict)
	}

	p.Status = to
	p.FailureReason = reason
	p.UpdatedAt = at
	s.payments[id] = p

	return p, nil
}

func (s *InMemoryStore) List(ctx context.Context, filter usecase.ListFilter, page, pageSize int) ([]entity.Payment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.payments))
	for id, p := range s.payments {
		if filter.Matches(p) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	total := len(ids)
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	items := make([]entity.Payment, 0, end-start)
	for _, id := range ids[start:end] {
		items = append(items, s.payments[id])
	}

	return items, total, nil
}
