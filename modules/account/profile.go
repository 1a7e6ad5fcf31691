package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/expensekit/handler"
	"github.com/dmitrymomot/expensekit/pkg/binder"
	"github.com/dmitrymomot/expensekit/svc/credential"
)

// ProfileService serves the signed-in account's profile at /me.
type ProfileService struct {
	credentials  Credentials
	authenticate func(http.Handler) http.Handler
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewProfileService(credentials Credentials, authenticate func(http.Handler) http.Handler, errorHandler handler.ErrorHandler[handler.Context]) *ProfileService {
	return &ProfileService{
		credentials:  credentials,
		authenticate: authenticate,
		errorHandler: withDefault(errorHandler),
	}
}

func (s *ProfileService) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if s.authenticate != nil {
			r.Use(s.authenticate)
		}
		r.Get("/me", handler.Wrap(s.get,
			handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
		))
		r.Put("/me", handler.Wrap(s.update,
			handler.WithBinder[handler.Context, UpdateProfileRequest](binder.JSON()),
			handler.WithErrorHandler[handler.Context, UpdateProfileRequest](s.errorHandler),
		))
	})
}

func (s *ProfileService) get(ctx handler.Context, _ struct{}) handler.Response {
	id, err := CurrentAccount(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	acc, err := s.credentials.GetAccount(ctx, id)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(newProfile(acc))
}

type UpdateProfileRequest struct {
	DisplayName     string `json:"display_name"`
	AvatarURL       string `json:"avatar_url"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *ProfileService) update(ctx handler.Context, req UpdateProfileRequest) handler.Response {
	id, err := CurrentAccount(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	acc, err := s.credentials.UpdateProfile(ctx, id, credential.ProfileInput{
		DisplayName:     req.DisplayName,
		AvatarURL:       req.AvatarURL,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(newProfile(acc))
}
