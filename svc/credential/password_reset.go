package credential

import (
	"context"
	"errors"

	"github.com/dmitrymomot/expensekit/pkg/logger"
	"github.com/dmitrymomot/expensekit/pkg/sanitizer"
	"github.com/dmitrymomot/expensekit/pkg/validator"
)

// ForgotPassword mails a reset link when the account exists. The result is the same
// neutral message whether or not the account exists or the mail went out; only store
// failures are returned.
func (m *Manager) ForgotPassword(ctx context.Context, addr string) (Result, error) {
	addr = sanitizer.NormalizeEmail(addr)
	if err := validator.Apply(validator.RequiredString("email", addr)); err != nil {
		return Result{}, validationError(err)
	}

	neutral := Result{Message: MessageResetRequested}

	acc, err := m.findByEmail(ctx, addr)
	if errors.Is(err, ErrNotFound) {
		return neutral, nil
	}
	if err != nil {
		return Result{}, err
	}

	if err := m.issueAndDeliver(ctx, acc, PurposePasswordReset); err != nil {
		if !errors.Is(err, ErrDeliveryFailure) {
			return Result{}, err
		}
		m.logger.ErrorContext(ctx, "password reset email not delivered",
			logger.AccountID(acc.ID),
			logger.Error(err),
		)
	}
	return neutral, nil
}

// ResetPassword consumes the reset token and replaces the credential hash.
// Verification state is left as it is.
func (m *Manager) ResetPassword(ctx context.Context, token, addr, newPassword string) (Result, error) {
	addr = sanitizer.NormalizeEmail(addr)
	if err := validator.Apply(
		validator.RequiredString("token", token),
		validator.RequiredString("email", addr),
		validator.RequiredString("password", newPassword),
		validator.When(newPassword != "", validator.StrongPassword("password", newPassword, m.passwordStrength)),
		validator.When(newPassword != "", validator.NotCommonPassword("password", newPassword)),
	); err != nil {
		return Result{}, validationError(err)
	}

	hash, err := m.hashPassword(newPassword)
	if err != nil {
		return Result{}, err
	}

	acc, err := m.consume(ctx, addr, PurposePasswordReset, token, Change{CredentialHash: hash})
	if err != nil {
		return Result{}, err
	}

	m.logger.InfoContext(ctx, "password reset", logger.AccountID(acc.ID))
	return Result{Message: MessagePasswordReset}, nil
}
