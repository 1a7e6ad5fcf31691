package credential

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("verified account gets a session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		acc := f.registerVerified(t, "a@x.com", "pw123456", "Ann")

		session, err := f.m.Login(context.Background(), " A@x.com ", "pw123456")
		require.NoError(t, err)
		assert.Equal(t, acc.ID, session.AccountID)
		assert.NotEmpty(t, session.Token)

		claims, err := f.sessions.Parse(session.Token)
		require.NoError(t, err)
		assert.Equal(t, acc.ID.String(), claims.Subject)
		assert.Equal(t, claims.ExpiresAt.Time, session.ExpiresAt)
	})

	t.Run("unverified account is rejected as not verified", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.register(t, "a@x.com", "pw123456", "Ann")

		_, err := f.m.Login(context.Background(), "a@x.com", "pw123456")
		assert.ErrorIs(t, err, ErrEmailNotVerified)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.registerVerified(t, "a@x.com", "pw123456", "Ann")

		_, errUnknown := f.m.Login(context.Background(), "nobody@x.com", "pw123456")
		_, errWrong := f.m.Login(context.Background(), "a@x.com", "pw654321")

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
		assert.Equal(t, errUnknown, errWrong)
	})

	t.Run("wrong password on unverified account", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.register(t, "a@x.com", "pw123456", "Ann")

		_, err := f.m.Login(context.Background(), "a@x.com", "wrong-pass1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.m.Login(context.Background(), "", "pw123456")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.m.Login(context.Background(), "a@x.com", "")
		assert.ErrorIs(t, err, ErrValidation)
	})
}
