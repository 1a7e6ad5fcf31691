package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists budgets. Every lookup is scoped to the owning account.
type Store interface {
	// Create inserts b. A budget for the same account, category, month and year yields
	// ErrBudgetExists.
	Create(ctx context.Context, b *Budget) error
	Get(ctx context.Context, accountID, id uuid.UUID) (*Budget, error)
	// List returns the account's budgets for the period ordered by category.
	List(ctx context.Context, accountID uuid.UUID, month, year int) ([]*Budget, error)
	// Update writes Amount and ThresholdPercent.
	Update(ctx context.Context, b *Budget) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error

	// AdvanceAlertStatus sets the alert status to `to` only while it is still `from`.
	// It reports whether this call made the change.
	AdvanceAlertStatus(ctx context.Context, id uuid.UUID, from, to AlertStatus, at time.Time) (bool, error)
}

// SpendSource sums an account's expenses for a calendar month in UTC.
// CategoryAll sums every category.
type SpendSource interface {
	MonthlySpend(ctx context.Context, accountID uuid.UUID, category string, month, year int) (float64, error)
}

// SpendFunc adapts a function to SpendSource.
type SpendFunc func(ctx context.Context, accountID uuid.UUID, category string, month, year int) (float64, error)

func (f SpendFunc) MonthlySpend(ctx context.Context, accountID uuid.UUID, category string, month, year int) (float64, error) {
	return f(ctx, accountID, category, month, year)
}

// RecipientResolver finds where alerts for an account go.
type RecipientResolver interface {
	Recipient(ctx context.Context, accountID uuid.UUID) (Recipient, error)
}

type RecipientFunc func(ctx context.Context, accountID uuid.UUID) (Recipient, error)

func (f RecipientFunc) Recipient(ctx context.Context, accountID uuid.UUID) (Recipient, error) {
	return f(ctx, accountID)
}

// MonthRange returns [first day of month, first day of next month) in UTC.
func MonthRange(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
