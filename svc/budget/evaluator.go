package budget

import "math"

// AlertStatus is the last alert level recorded for a budget.
type AlertStatus string

const (
	AlertNone     AlertStatus = "none"
	AlertNear     AlertStatus = "near"
	AlertExceeded AlertStatus = "exceeded"
)

func (s AlertStatus) rank() int {
	switch s {
	case AlertNear:
		return 1
	case AlertExceeded:
		return 2
	default:
		return 0
	}
}

func (s AlertStatus) Valid() bool {
	return s == AlertNone || s == AlertNear || s == AlertExceeded
}

// Evaluate classifies spend against limit. A non-positive limit never alerts.
func Evaluate(spend, limit, thresholdPercent float64) AlertStatus {
	if limit <= 0 {
		return AlertNone
	}
	ratio := spend / limit
	switch {
	case ratio >= 1:
		return AlertExceeded
	case ratio >= thresholdPercent/100:
		return AlertNear
	default:
		return AlertNone
	}
}

// ShouldAlert reports whether moving from last to next is a transition to a worse status.
func ShouldAlert(last, next AlertStatus) bool {
	return next.rank() > last.rank()
}

func percentOf(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}
