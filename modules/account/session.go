package account

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/expensekit/handler"
	"github.com/dmitrymomot/expensekit/pkg/jwt"
)

var errUnauthenticated = handler.ErrUnauthorized.WithMessage("Not authorized, token missing or invalid")

// Authenticate requires a valid bearer session token and answers 401 in the JSON
// envelope otherwise.
func Authenticate(sessions *jwt.Service) func(http.Handler) http.Handler {
	return jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
		Service: sessions,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			_ = handler.JSONError(errUnauthenticated.WithCause(err)).Render(w, r)
		},
	})
}

// CurrentAccount returns the account id of the authenticated session.
func CurrentAccount(ctx context.Context) (uuid.UUID, error) {
	subject, ok := jwt.SubjectFromContext(ctx)
	if !ok {
		return uuid.Nil, errUnauthenticated
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, errUnauthenticated.WithCause(err)
	}
	return id, nil
}
