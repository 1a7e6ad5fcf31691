package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		spend     float64
		limit     float64
		threshold float64
		want      AlertStatus
	}{
		{name: "well under", spend: 10, limit: 100, threshold: 80, want: AlertNone},
		{name: "just under threshold", spend: 79.99, limit: 100, threshold: 80, want: AlertNone},
		{name: "at threshold", spend: 80, limit: 100, threshold: 80, want: AlertNear},
		{name: "near", spend: 95, limit: 100, threshold: 80, want: AlertNear},
		{name: "at limit", spend: 100, limit: 100, threshold: 80, want: AlertExceeded},
		{name: "over limit", spend: 250, limit: 100, threshold: 80, want: AlertExceeded},
		{name: "threshold of 100", spend: 99, limit: 100, threshold: 100, want: AlertNone},
		{name: "zero limit", spend: 50, limit: 0, threshold: 80, want: AlertNone},
		{name: "negative limit", spend: 50, limit: -10, threshold: 80, want: AlertNone},
		{name: "nothing spent", spend: 0, limit: 100, threshold: 1, want: AlertNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Evaluate(tt.spend, tt.limit, tt.threshold))
		})
	}
}

func TestShouldAlert(t *testing.T) {
	t.Parallel()

	upward := map[[2]AlertStatus]bool{
		{AlertNone, AlertNear}:     true,
		{AlertNear, AlertExceeded}: true,
		{AlertNone, AlertExceeded}: true,
	}
	all := []AlertStatus{AlertNone, AlertNear, AlertExceeded}
	for _, last := range all {
		for _, next := range all {
			want := upward[[2]AlertStatus{last, next}]
			assert.Equal(t, want, ShouldAlert(last, next), "%s -> %s", last, next)
		}
	}
}

func TestNewProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		amount    float64
		spent     float64
		percent   int
		remaining float64
	}{
		{name: "partial", amount: 200, spent: 50, percent: 25, remaining: 150},
		{name: "rounds", amount: 300, spent: 100, percent: 33, remaining: 200},
		{name: "capped", amount: 100, spent: 180, percent: 100, remaining: 0},
		{name: "zero amount", amount: 0, spent: 20, percent: 0, remaining: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewProgress(Budget{Amount: tt.amount}, tt.spent)
			assert.Equal(t, tt.percent, p.ProgressPercent)
			assert.InDelta(t, tt.remaining, p.Remaining, 1e-9)
			assert.Equal(t, tt.spent, p.Spent)
		})
	}
}

func TestMonthRange(t *testing.T) {
	t.Parallel()

	start, end := MonthRange(12, 2025)
	assert.Equal(t, "2025-12-01T00:00:00Z", start.Format("2006-01-02T15:04:05Z07:00"))
	assert.Equal(t, "2026-01-01T00:00:00Z", end.Format("2006-01-02T15:04:05Z07:00"))
}
