package credential

import (
	"context"
	"errors"

	"github.com/dmitrymomot/expensekit/pkg/logger"
	"github.com/dmitrymomot/expensekit/pkg/sanitizer"
	"github.com/dmitrymomot/expensekit/pkg/validator"
)

// Login checks the password and issues a session for verified accounts.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, addr, password string) (Session, error) {
	addr = sanitizer.NormalizeEmail(addr)
	if err := validator.Apply(
		validator.RequiredString("email", addr),
		validator.RequiredString("password", password),
	); err != nil {
		return Session{}, validationError(err)
	}

	acc, err := m.findByEmail(ctx, addr)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Session{}, err
	}

	var hash []byte
	if acc != nil {
		hash = acc.CredentialHash
	}
	if !m.passwordMatches(hash, password) {
		m.logger.DebugContext(ctx, "login rejected", logger.Email(addr))
		return Session{}, ErrInvalidCredentials
	}
	if !acc.Verified {
		return Session{}, ErrEmailNotVerified
	}

	return m.issueSession(acc)
}
