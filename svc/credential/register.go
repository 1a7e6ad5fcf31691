package credential

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dmitrymomot/expensekit/pkg/logger"
	"github.com/dmitrymomot/expensekit/pkg/sanitizer"
	"github.com/dmitrymomot/expensekit/pkg/validator"
)

// Register creates an unverified account and mails a verification link. When the email
// cannot be delivered the token is cleared again and ErrDeliveryFailure is returned; the
// account itself stays and can request a new link through ResendVerification.
func (m *Manager) Register(ctx context.Context, in RegisterInput) (Result, error) {
	addr := sanitizer.NormalizeEmail(in.Email)
	name := sanitizer.DisplayName(in.DisplayName)
	avatar := sanitizer.URL(in.AvatarURL)

	if err := validator.Apply(
		validator.RequiredString("email", addr),
		validator.When(addr != "", validator.ValidEmail("email", addr)),
		validator.RequiredString("password", in.Password),
		validator.When(in.Password != "", validator.StrongPassword("password", in.Password, m.passwordStrength)),
		validator.When(in.Password != "", validator.NotCommonPassword("password", in.Password)),
		validator.RequiredString("display_name", name),
		validator.MaxLenString("display_name", name, maxDisplayNameLength),
		validator.When(in.AvatarURL != "", validator.ValidHTTPURL("avatar_url", avatar)),
	); err != nil {
		return Result{}, validationError(err)
	}

	_, err := m.findByEmail(ctx, addr)
	if err == nil {
		return Result{}, ErrDuplicateAccount
	}
	if !errors.Is(err, ErrNotFound) {
		return Result{}, err
	}

	hash, err := m.hashPassword(in.Password)
	if err != nil {
		return Result{}, err
	}

	acc := &Account{
		ID:             uuid.New(),
		Email:          addr,
		DisplayName:    name,
		AvatarURL:      avatar,
		CredentialHash: hash,
		AuthMethod:     MethodPassword,
	}
	if err := m.storeExec(ctx, func(ctx context.Context) error {
		return m.store.CreateAccount(ctx, acc)
	}); err != nil {
		return Result{}, err
	}

	m.logger.InfoContext(ctx, "account registered",
		logger.AccountID(acc.ID),
		logger.Email(acc.Email),
	)

	if err := m.issueAndDeliver(ctx, acc, PurposeEmailVerification); err != nil {
		return Result{}, err
	}
	return Result{Message: MessageRegistered}, nil
}

// VerifyEmail consumes the verification token and marks the account verified. Replays,
// expired tokens and mismatched addresses all yield ErrInvalidOrExpiredToken.
func (m *Manager) VerifyEmail(ctx context.Context, token, addr string) (Result, error) {
	addr = sanitizer.NormalizeEmail(addr)
	if err := validator.Apply(
		validator.RequiredString("token", token),
		validator.RequiredString("email", addr),
	); err != nil {
		return Result{}, validationError(err)
	}

	acc, err := m.consume(ctx, addr, PurposeEmailVerification, token, Change{Verified: true})
	if err != nil {
		return Result{}, err
	}

	m.logger.InfoContext(ctx, "email verified", logger.AccountID(acc.ID))
	return Result{Message: MessageEmailVerified}, nil
}

// ResendVerification replaces any outstanding verification token with a new one.
func (m *Manager) ResendVerification(ctx context.Context, addr string) (Result, error) {
	addr = sanitizer.NormalizeEmail(addr)
	if err := validator.Apply(validator.RequiredString("email", addr)); err != nil {
		return Result{}, validationError(err)
	}

	acc, err := m.findByEmail(ctx, addr)
	if err != nil {
		return Result{}, err
	}
	if acc.Verified {
		return Result{}, ErrAlreadyVerified
	}

	if err := m.issueAndDeliver(ctx, acc, PurposeEmailVerification); err != nil {
		return Result{}, err
	}
	return Result{Message: MessageVerificationSent}, nil
}

func (m *Manager) consume(ctx context.Context, addr string, purpose TokenPurpose, token string, change Change) (*Account, error) {
	digest := m.codec.DigestOf(token)
	now := m.now()
	return storeCall(ctx, m, func(ctx context.Context) (*Account, error) {
		return m.store.ConsumePendingToken(ctx, addr, purpose, digest, now, change)
	})
}
