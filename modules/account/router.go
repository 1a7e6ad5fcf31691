package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"github.com/dmitrymomot/expensekit/handler"
	"github.com/dmitrymomot/expensekit/svc/credential"
)

// Credentials is the account lifecycle used by the routes. *credential.Manager
// satisfies it.
type Credentials interface {
	Register(ctx context.Context, in credential.RegisterInput) (credential.Result, error)
	VerifyEmail(ctx context.Context, token, addr string) (credential.Result, error)
	ResendVerification(ctx context.Context, addr string) (credential.Result, error)
	Login(ctx context.Context, addr, password string) (credential.Session, error)
	ForgotPassword(ctx context.Context, addr string) (credential.Result, error)
	ResetPassword(ctx context.Context, token, addr, newPassword string) (credential.Result, error)
	FederatedLogin(ctx context.Context, assertion string) (credential.Session, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*credential.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in credential.ProfileInput) (*credential.Account, error)
}

var _ Credentials = (*credential.Manager)(nil)

// Routable registers its routes on a router.
type Routable interface {
	Routes(r chi.Router)
}

// RouterOptions configures which services to mount in the account module.
// Each service is optional and will only be mounted if provided.
type RouterOptions struct {
	Config Config

	Password Routable
	Google   Routable
	Profile  Routable
}

// Router creates the account router, meant to be mounted at /api/v1/auth.
//
// Example:
//
//	r.Mount("/api/v1/auth", account.Router(account.RouterOptions{
//		Config:   cfg,
//		Password: account.NewPasswordService(manager, links, errorHandler),
//		Google:   account.NewGoogleService(manager, errorHandler),
//		Profile:  account.NewProfileService(manager, authenticate, errorHandler),
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.Config.RateLimit > 0 && opts.Config.RateWindow > 0 {
		r.Use(httprate.Limit(
			opts.Config.RateLimit,
			opts.Config.RateWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(rateLimited),
		))
	}

	for _, svc := range []Routable{opts.Password, opts.Google, opts.Profile} {
		if svc != nil {
			svc.Routes(r)
		}
	}

	return r
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	_ = handler.JSONError(handler.ErrTooManyRequests.WithMessage("Too many requests, please try again later")).Render(w, r)
}

// withDefault falls back to a JSON error handler that knows the credential errors.
func withDefault(h handler.ErrorHandler[handler.Context]) handler.ErrorHandler[handler.Context] {
	if h != nil {
		return h
	}
	return handler.NewErrorHandler(nil, handler.ErrorHandlerConfig{
		Mappers: []handler.ErrorMapper{MapError},
	})
}
