package budget

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/expensekit/handler"
	"github.com/dmitrymomot/expensekit/modules/account"
	"github.com/dmitrymomot/expensekit/pkg/binder"
	budgetsvc "github.com/dmitrymomot/expensekit/svc/budget"
)

// Budgets is the budget service used by the routes. *budget.Service satisfies it.
type Budgets interface {
	Create(ctx context.Context, accountID uuid.UUID, in budgetsvc.CreateInput) (budgetsvc.Progress, error)
	Update(ctx context.Context, accountID, id uuid.UUID, in budgetsvc.UpdateInput) (budgetsvc.Progress, error)
	List(ctx context.Context, accountID uuid.UUID, month, year int) ([]budgetsvc.Progress, error)
	Delete(ctx context.Context, accountID, id uuid.UUID) error
}

var _ Budgets = (*budgetsvc.Service)(nil)

// Router creates the budget router, meant to be mounted at /api/v1/budgets. Every
// route requires a session accepted by authenticate.
func Router(budgets Budgets, authenticate func(http.Handler) http.Handler, errorHandler handler.ErrorHandler[handler.Context]) chi.Router {
	if errorHandler == nil {
		errorHandler = handler.NewErrorHandler(nil, handler.ErrorHandlerConfig{
			Mappers: []handler.ErrorMapper{MapError},
		})
	}
	s := &service{budgets: budgets}

	r := chi.NewRouter()
	if authenticate != nil {
		r.Use(authenticate)
	}

	r.Post("/", handler.Wrap(s.create,
		handler.WithBinder[handler.Context, CreateRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, CreateRequest](errorHandler),
	))
	r.Get("/", handler.Wrap(s.list,
		handler.WithBinder[handler.Context, ListRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, ListRequest](errorHandler),
	))
	r.Put("/{id}", handler.Wrap(s.update,
		handler.WithBinders[handler.Context, UpdateRequest](binder.Path(chi.URLParam), binder.JSON()),
		handler.WithErrorHandler[handler.Context, UpdateRequest](errorHandler),
	))
	r.Delete("/{id}", handler.Wrap(s.delete,
		handler.WithBinder[handler.Context, DeleteRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, DeleteRequest](errorHandler),
	))

	return r
}

type service struct {
	budgets Budgets
}

type CreateRequest struct {
	Category         string  `json:"category"`
	Month            int     `json:"month"`
	Year             int     `json:"year"`
	Amount           float64 `json:"amount"`
	ThresholdPercent float64 `json:"threshold_percent"`
}

func (s *service) create(ctx handler.Context, req CreateRequest) handler.Response {
	accountID, err := account.CurrentAccount(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	p, err := s.budgets.Create(ctx, accountID, budgetsvc.CreateInput{
		Category:         req.Category,
		Month:            req.Month,
		Year:             req.Year,
		Amount:           req.Amount,
		ThresholdPercent: req.ThresholdPercent,
	})
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(newBudgetResponse(p), handler.WithJSONStatus(http.StatusCreated))
}

type ListRequest struct {
	Month int `query:"month"`
	Year  int `query:"year"`
}

func (s *service) list(ctx handler.Context, req ListRequest) handler.Response {
	accountID, err := account.CurrentAccount(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	items, err := s.budgets.List(ctx, accountID, req.Month, req.Year)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(newBudgetList(items), handler.WithJSONMeta(map[string]any{"total": len(items)}))
}

type UpdateRequest struct {
	ID               uuid.UUID `path:"id" json:"-"`
	Amount           *float64  `json:"amount"`
	ThresholdPercent *float64  `json:"threshold_percent"`
}

func (s *service) update(ctx handler.Context, req UpdateRequest) handler.Response {
	accountID, err := account.CurrentAccount(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	p, err := s.budgets.Update(ctx, accountID, req.ID, budgetsvc.UpdateInput{
		Amount:           req.Amount,
		ThresholdPercent: req.ThresholdPercent,
	})
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(newBudgetResponse(p))
}

type DeleteRequest struct {
	ID uuid.UUID `path:"id"`
}

func (s *service) delete(ctx handler.Context, req DeleteRequest) handler.Response {
	accountID, err := account.CurrentAccount(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	if err := s.budgets.Delete(ctx, accountID, req.ID); err != nil {
		return handler.Fail(err)
	}
	return handler.Empty()
}
