package budget

import (
	"time"

	"github.com/google/uuid"
)

const (
	// CategoryAll is the budget covering every expense category.
	CategoryAll = "ALL"

	DefaultThresholdPercent = 80
)

type Budget struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	Category         string
	Month            int
	Year             int
	Amount           float64
	ThresholdPercent float64
	LastAlertStatus  AlertStatus
	LastAlertAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (b *Budget) clone() *Budget {
	c := *b
	if b.LastAlertAt != nil {
		at := *b.LastAlertAt
		c.LastAlertAt = &at
	}
	return &c
}

// Progress is a budget together with its spend for the period.
type Progress struct {
	Budget          Budget
	Spent           float64
	ProgressPercent int
	Remaining       float64
}

// NewProgress computes the percentage used (capped at 100) and the amount left
// (never negative).
func NewProgress(b Budget, spent float64) Progress {
	p := Progress{Budget: b, Spent: spent}
	if b.Amount > 0 {
		p.ProgressPercent = min(100, percentOf(spent, b.Amount))
	}
	p.Remaining = max(0, b.Amount-spent)
	return p
}

type CreateInput struct {
	Category         string
	Month            int
	Year             int
	Amount           float64
	ThresholdPercent float64
}

// UpdateInput changes only the fields that are set.
type UpdateInput struct {
	Amount           *float64
	ThresholdPercent *float64
}

// Recipient is who receives alerts for an account.
type Recipient struct {
	Email       string
	DisplayName string
}
