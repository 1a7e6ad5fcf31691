package budget

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type periodKey struct {
	accountID uuid.UUID
	category  string
	month     int
	year      int
}

func keyOf(b *Budget) periodKey {
	return periodKey{accountID: b.AccountID, category: b.Category, month: b.Month, year: b.Year}
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*Budget
	byPeriod map[periodKey]uuid.UUID
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[uuid.UUID]*Budget),
		byPeriod: make(map[periodKey]uuid.UUID),
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, b *Budget) error {
	if err := ctx.Err(); err != nil {
		return classify(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(b)
	if _, exists := s.byPeriod[key]; exists {
		return ErrBudgetExists
	}

	now := s.now()
	b.CreatedAt, b.UpdatedAt = now, now
	s.byID[b.ID] = b.clone()
	s.byPeriod[key] = b.ID
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, accountID, id uuid.UUID) (*Budget, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok || b.AccountID != accountID {
		return nil, ErrBudgetNotFound
	}
	return b.clone(), nil
}

func (s *MemoryStore) List(ctx context.Context, accountID uuid.UUID, month, year int) ([]*Budget, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Budget
	for _, b := range s.byID {
		if b.AccountID == accountID && b.Month == month && b.Year == year {
			out = append(out, b.clone())
		}
	}
	slices.SortFunc(out, func(a, b *Budget) int {
		return cmp.Compare(a.Category, b.Category)
	})
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, b *Budget) error {
	if err := ctx.Err(); err != nil {
		return classify(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[b.ID]
	if !ok || stored.AccountID != b.AccountID {
		return ErrBudgetNotFound
	}
	stored.Amount = b.Amount
	stored.ThresholdPercent = b.ThresholdPercent
	stored.UpdatedAt = s.now()
	b.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return classify(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok || b.AccountID != accountID {
		return ErrBudgetNotFound
	}
	delete(s.byID, id)
	delete(s.byPeriod, keyOf(b))
	return nil
}

func (s *MemoryStore) AdvanceAlertStatus(ctx context.Context, id uuid.UUID, from, to AlertStatus, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, classify(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok {
		return false, ErrBudgetNotFound
	}
	if b.LastAlertStatus != from {
		return false, nil
	}
	b.LastAlertStatus = to
	b.LastAlertAt = &at
	b.UpdatedAt = at
	return true, nil
}

var _ Store = (*MemoryStore)(nil)
