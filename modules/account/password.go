package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/expensekit/handler"
	"github.com/dmitrymomot/expensekit/pkg/binder"
	"github.com/dmitrymomot/expensekit/svc/credential"
)

// PasswordService serves registration, verification, login and password reset.
type PasswordService struct {
	credentials  Credentials
	links        credential.Links
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewPasswordService(credentials Credentials, links credential.Links, errorHandler handler.ErrorHandler[handler.Context]) *PasswordService {
	return &PasswordService{
		credentials:  credentials,
		links:        links,
		errorHandler: withDefault(errorHandler),
	}
}

func (s *PasswordService) Routes(r chi.Router) {
	r.Post("/register", handler.Wrap(s.register,
		handler.WithBinder[handler.Context, RegisterRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, RegisterRequest](s.errorHandler),
	))
	r.Post("/login", handler.Wrap(s.login,
		handler.WithBinder[handler.Context, LoginRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, LoginRequest](s.errorHandler),
	))

	// Email links land on GET routes that redirect the browser to the client app.
	r.Get("/verify-email", handler.Wrap(s.verifyEmail,
		handler.WithBinder[handler.Context, TokenLinkRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, TokenLinkRequest](s.errorHandler),
	))
	r.Get("/reset", handler.Wrap(s.resetLink,
		handler.WithBinder[handler.Context, TokenLinkRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, TokenLinkRequest](s.errorHandler),
	))

	r.Post("/resend-verification", handler.Wrap(s.resendVerification,
		handler.WithBinder[handler.Context, EmailRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, EmailRequest](s.errorHandler),
	))
	r.Post("/forgot-password", handler.Wrap(s.forgotPassword,
		handler.WithBinder[handler.Context, EmailRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, EmailRequest](s.errorHandler),
	))
	r.Post("/reset-password", handler.Wrap(s.resetPassword,
		handler.WithBinder[handler.Context, ResetPasswordRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, ResetPasswordRequest](s.errorHandler),
	))
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func (s *PasswordService) register(ctx handler.Context, req RegisterRequest) handler.Response {
	res, err := s.credentials.Register(ctx, credential.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(newMessage(res), handler.WithJSONStatus(http.StatusCreated))
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *PasswordService) login(ctx handler.Context, req LoginRequest) handler.Response {
	session, err := s.credentials.Login(ctx, req.Email, req.Password)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(newSession(session))
}

// TokenLinkRequest is the query of a link sent by email.
type TokenLinkRequest struct {
	Token string `query:"token"`
	Email string `query:"email"`
}

// verifyEmail always redirects; the client app only learns success or failure.
func (s *PasswordService) verifyEmail(ctx handler.Context, req TokenLinkRequest) handler.Response {
	_, err := s.credentials.VerifyEmail(ctx, req.Token, req.Email)
	return handler.RedirectWithCode(s.links.Verified(err == nil), http.StatusFound)
}

func (s *PasswordService) resetLink(ctx handler.Context, req TokenLinkRequest) handler.Response {
	return handler.RedirectWithCode(s.links.ResetPassword(req.Token, req.Email), http.StatusFound)
}

type EmailRequest struct {
	Email string `json:"email"`
}

func (s *PasswordService) resendVerification(ctx handler.Context, req EmailRequest) handler.Response {
	res, err := s.credentials.ResendVerification(ctx, req.Email)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(newMessage(res))
}

func (s *PasswordService) forgotPassword(ctx handler.Context, req EmailRequest) handler.Response {
	res, err := s.credentials.ForgotPassword(ctx, req.Email)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(newMessage(res))
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	NewPassword string `json:"password"`
}

func (s *PasswordService) resetPassword(ctx handler.Context, req ResetPasswordRequest) handler.Response {
	res, err := s.credentials.ResetPassword(ctx, req.Token, req.Email, req.NewPassword)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(newMessage(res))
}
