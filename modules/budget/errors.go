package budget

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/expensekit/handler"
	budgetsvc "github.com/dmitrymomot/expensekit/svc/budget"
)

var errorTable = []struct {
	target error
	status handler.HTTPError
}{
	{budgetsvc.ErrValidation, handler.HTTPError{Code: http.StatusBadRequest, Key: "validation_error", Message: "Validation failed"}},
	{budgetsvc.ErrBudgetExists, handler.HTTPError{Code: http.StatusConflict, Key: "budget_exists", Message: "Budget already exists for this category and month"}},
	{budgetsvc.ErrBudgetNotFound, handler.HTTPError{Code: http.StatusNotFound, Key: "not_found", Message: "Budget not found"}},
	{budgetsvc.ErrTimeout, handler.HTTPError{Code: http.StatusGatewayTimeout, Key: "timeout", Message: "Request timed out"}},
	{budgetsvc.ErrStoreUnavailable, handler.HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable", Message: "Service temporarily unavailable"}},
}

// MapError translates budget errors into HTTP errors. It is a handler.ErrorMapper.
func MapError(err error) error {
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return e.status.WithCause(err)
		}
	}
	return err
}
