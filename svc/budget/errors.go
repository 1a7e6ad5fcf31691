package budget

import (
	"context"
	"errors"
)

var (
	ErrValidation       = errors.New("budget: invalid input")
	ErrBudgetExists     = errors.New("budget: budget already exists for this category and month")
	ErrBudgetNotFound   = errors.New("budget: budget not found")
	ErrTimeout          = errors.New("budget: operation timed out")
	ErrStoreUnavailable = errors.New("budget: store unavailable")
)

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrBudgetExists),
		errors.Is(err, ErrBudgetNotFound),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrStoreUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Join(ErrTimeout, err)
	default:
		return errors.Join(ErrStoreUnavailable, err)
	}
}
