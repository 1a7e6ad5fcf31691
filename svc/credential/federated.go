package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/expensekit/pkg/logger"
	"github.com/dmitrymomot/expensekit/pkg/sanitizer"
	"github.com/dmitrymomot/expensekit/pkg/validator"
	"github.com/dmitrymomot/expensekit/svc/federated"
)

// FederatedLogin verifies a provider assertion and signs the user in, creating a verified
// account on first use. Existing accounts get verified and have empty profile fields filled
// from the provider; populated fields are never overwritten.
func (m *Manager) FederatedLogin(ctx context.Context, assertion string) (Session, error) {
	assertion = strings.TrimSpace(assertion)
	if err := validator.Apply(validator.RequiredString("id_token", assertion)); err != nil {
		return Session{}, validationError(err)
	}

	claims, err := m.verifyAssertion(ctx, assertion)
	if err != nil {
		return Session{}, err
	}
	if !claims.EmailVerified {
		return Session{}, ErrUnverifiedFederatedEmail
	}

	addr := sanitizer.NormalizeEmail(claims.Email)
	name := sanitizer.DisplayName(claims.Name)
	avatar := sanitizer.URL(claims.Picture)

	acc, err := m.findByEmail(ctx, addr)
	switch {
	case errors.Is(err, ErrNotFound):
		acc, err = m.createFederated(ctx, addr, name, avatar)
		if errors.Is(err, ErrDuplicateAccount) {
			// Lost a creation race; continue with the winner's account.
			acc, err = m.findByEmail(ctx, addr)
			if err != nil {
				return Session{}, err
			}
			if acc, err = m.mergeFederated(ctx, acc, name, avatar); err != nil {
				return Session{}, err
			}
		} else if err != nil {
			return Session{}, err
		}
	case err != nil:
		return Session{}, err
	default:
		if acc, err = m.mergeFederated(ctx, acc, name, avatar); err != nil {
			return Session{}, err
		}
	}

	return m.issueSession(acc)
}

func (m *Manager) verifyAssertion(ctx context.Context, assertion string) (federated.Claims, error) {
	if m.verifier == nil {
		return federated.Claims{}, errors.Join(ErrInvalidFederatedAssertion, federated.ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, m.verifierTimeout)
	defer cancel()

	claims, err := m.verifier.Verify(ctx, assertion, m.audience)
	if err != nil {
		m.logger.WarnContext(ctx, "federated assertion rejected", logger.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return federated.Claims{}, errors.Join(ErrTimeout, err)
		}
		return federated.Claims{}, errors.Join(ErrInvalidFederatedAssertion, err)
	}
	return claims, nil
}

func (m *Manager) createFederated(ctx context.Context, addr, name, avatar string) (*Account, error) {
	// The password is random and never revealed, so password login stays impossible
	// until the user resets it.
	secret, err := m.codec.Issue()
	if err != nil {
		return nil, fmt.Errorf("generate placeholder credential: %w", err)
	}
	hash, err := m.hashPassword(secret.Plaintext)
	if err != nil {
		return nil, err
	}

	acc := &Account{
		ID:             uuid.New(),
		Email:          addr,
		DisplayName:    name,
		AvatarURL:      avatar,
		CredentialHash: hash,
		Verified:       true,
		AuthMethod:     MethodOAuthGoogle,
	}
	if err := m.storeExec(ctx, func(ctx context.Context) error {
		return m.store.CreateAccount(ctx, acc)
	}); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "account created from federated login",
		logger.AccountID(acc.ID),
		logger.Email(acc.Email),
	)
	return acc, nil
}

// mergeFederated skips the write when acc already has nothing to gain. Otherwise the store
// applies the merge against the current document, so fields set since acc was read win.
func (m *Manager) mergeFederated(ctx context.Context, acc *Account, name, avatar string) (*Account, error) {
	if acc.Verified &&
		(acc.DisplayName != "" || name == "") &&
		(acc.AvatarURL != "" || avatar == "") {
		return acc, nil
	}

	return storeCall(ctx, m, func(ctx context.Context) (*Account, error) {
		return m.store.MergeFederated(ctx, acc.ID, name, avatar)
	})
}
