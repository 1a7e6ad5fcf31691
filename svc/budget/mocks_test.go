package budget

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/expensekit/pkg/email"
)

// MockSender is a mock implementation of email.EmailSender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// spendTable is a SpendSource backed by a map keyed on category.
type spendTable struct {
	mu    sync.Mutex
	spent map[string]float64
}

func newSpendTable() *spendTable {
	return &spendTable{spent: make(map[string]float64)}
}

func (s *spendTable) set(category string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spent[category] = v
}

func (s *spendTable) MonthlySpend(_ context.Context, _ uuid.UUID, category string, _, _ int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category == CategoryAll {
		var total float64
		for _, v := range s.spent {
			total += v
		}
		return total, nil
	}
	return s.spent[category], nil
}

func staticRecipient(addr, name string) RecipientResolver {
	return RecipientFunc(func(context.Context, uuid.UUID) (Recipient, error) {
		return Recipient{Email: addr, DisplayName: name}, nil
	})
}
