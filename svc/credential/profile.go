package credential

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/expensekit/pkg/logger"
	"github.com/dmitrymomot/expensekit/pkg/sanitizer"
	"github.com/dmitrymomot/expensekit/pkg/validator"
)

func (m *Manager) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	return m.findByID(ctx, id)
}

// UpdateProfile applies the non-empty fields of in. Changing the password requires the
// current one, and fails with ErrConflict when the password changed after it was checked.
// The email address cannot be changed here.
func (m *Manager) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*Account, error) {
	name := sanitizer.DisplayName(in.DisplayName)
	avatar := sanitizer.URL(in.AvatarURL)

	if err := validator.Apply(
		validator.When(in.DisplayName != "", validator.RequiredString("display_name", name)),
		validator.MaxLenString("display_name", name, maxDisplayNameLength),
		validator.When(in.AvatarURL != "", validator.ValidHTTPURL("avatar_url", avatar)),
		validator.When(in.NewPassword != "", validator.RequiredString("current_password", in.CurrentPassword)),
		validator.When(in.NewPassword != "", validator.StrongPassword("new_password", in.NewPassword, m.passwordStrength)),
		validator.When(in.NewPassword != "", validator.NotCommonPassword("new_password", in.NewPassword)),
	); err != nil {
		return nil, validationError(err)
	}

	acc, err := m.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	change := ProfileChange{DisplayName: name, AvatarURL: avatar}
	if in.NewPassword != "" {
		if !m.passwordMatches(acc.CredentialHash, in.CurrentPassword) {
			return nil, ErrInvalidCredentials
		}
		hash, err := m.hashPassword(in.NewPassword)
		if err != nil {
			return nil, err
		}
		change.CredentialHash = hash
		change.ExpectedHash = acc.CredentialHash
	}
	if change.empty() {
		return acc, nil
	}

	acc, err = storeCall(ctx, m, func(ctx context.Context) (*Account, error) {
		return m.store.UpdateProfile(ctx, id, change)
	})
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "profile updated",
		logger.AccountID(acc.ID),
		slog.Bool("password_changed", in.NewPassword != ""),
	)
	return acc, nil
}
