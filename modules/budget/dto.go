package budget

import (
	"time"

	budgetsvc "github.com/dmitrymomot/expensekit/svc/budget"
)

// BudgetResponse is a budget with its progress for the period.
type BudgetResponse struct {
	ID               string     `json:"id"`
	Category         string     `json:"category"`
	Month            int        `json:"month"`
	Year             int        `json:"year"`
	Amount           float64    `json:"amount"`
	ThresholdPercent float64    `json:"threshold_percent"`
	LastAlertStatus  string     `json:"last_alert_status"`
	LastAlertAt      *time.Time `json:"last_alert_at,omitempty"`
	Spent            float64    `json:"spent"`
	ProgressPercent  int        `json:"progress_percent"`
	Remaining        float64    `json:"remaining"`
}

func newBudgetResponse(p budgetsvc.Progress) BudgetResponse {
	return BudgetResponse{
		ID:               p.Budget.ID.String(),
		Category:         p.Budget.Category,
		Month:            p.Budget.Month,
		Year:             p.Budget.Year,
		Amount:           p.Budget.Amount,
		ThresholdPercent: p.Budget.ThresholdPercent,
		LastAlertStatus:  string(p.Budget.LastAlertStatus),
		LastAlertAt:      p.Budget.LastAlertAt,
		Spent:            p.Spent,
		ProgressPercent:  p.ProgressPercent,
		Remaining:        p.Remaining,
	}
}

func newBudgetList(items []budgetsvc.Progress) []BudgetResponse {
	out := make([]BudgetResponse, 0, len(items))
	for _, p := range items {
		out = append(out, newBudgetResponse(p))
	}
	return out
}
