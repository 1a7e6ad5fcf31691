package credential

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestForgotPassword(t *testing.T) {
	t.Parallel()

	t.Run("same result for known and unknown email", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.registerVerified(t, "a@x.com", "pw123456", "Ann")
		sentBefore := f.mail.count()

		unknown, err := f.m.ForgotPassword(context.Background(), "nobody@x.com")
		require.NoError(t, err)
		assert.Equal(t, sentBefore, f.mail.count())

		known, err := f.m.ForgotPassword(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, sentBefore+1, f.mail.count())

		assert.Equal(t, unknown, known)
		assert.Equal(t, MessageResetRequested, known.Message)

		msg := f.mail.last(t)
		assert.Equal(t, "Reset your password", msg.Subject)
		assert.Equal(t, "password-reset", msg.Tag)
		assert.Contains(t, msg.BodyHTML, "https://app.example.com/auth/reset?")

		acc, err := f.store.FindByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		require.NotNil(t, acc.PasswordReset)
		assert.Equal(t, f.m.codec.DigestOf(f.mail.lastToken(t)), acc.PasswordReset.Digest)
	})

	t.Run("delivery failure stays neutral and clears the token", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		sender := &MockSender{}
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(errors.New("rejected")).Once()

		m := New(store, sender, nil, WithBcryptCost(bcrypt.MinCost))
		require.NoError(t, store.CreateAccount(context.Background(), &Account{ID: uuid.New(), Email: "a@x.com", Verified: true}))

		res, err := m.ForgotPassword(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, MessageResetRequested, res.Message)

		acc, err := store.FindByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.Nil(t, acc.PasswordReset)
		sender.AssertExpectations(t)
	})

	t.Run("store errors surface", func(t *testing.T) {
		t.Parallel()
		store := &MockAccountStore{}
		store.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, context.DeadlineExceeded)

		m := New(store, &outbox{}, nil)
		_, err := m.ForgotPassword(context.Background(), "a@x.com")
		assert.ErrorIs(t, err, ErrTimeout)
		store.AssertExpectations(t)
	})

	t.Run("missing email", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.m.ForgotPassword(context.Background(), "   ")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestResetPassword(t *testing.T) {
	t.Parallel()

	t.Run("replaces the password", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		acc := f.registerVerified(t, "a@x.com", "pw123456", "Ann")

		_, err := f.m.ForgotPassword(context.Background(), acc.Email)
		require.NoError(t, err)
		token := f.mail.lastToken(t)

		res, err := f.m.ResetPassword(context.Background(), token, acc.Email, "new-pass-42")
		require.NoError(t, err)
		assert.Equal(t, MessagePasswordReset, res.Message)

		_, err = f.m.Login(context.Background(), acc.Email, "pw123456")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = f.m.Login(context.Background(), acc.Email, "new-pass-42")
		assert.NoError(t, err)

		_, err = f.m.ResetPassword(context.Background(), token, acc.Email, "other-pass-42")
		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("no pending reset", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		acc := f.registerVerified(t, "a@x.com", "pw123456", "Ann")

		_, err := f.m.ResetPassword(context.Background(), "deadbeef", acc.Email, "new-pass-42")
		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("verification token cannot reset", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		acc, token := f.register(t, "a@x.com", "pw123456", "Ann")

		_, err := f.m.ResetPassword(context.Background(), token, acc.Email, "new-pass-42")
		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		acc := f.registerVerified(t, "a@x.com", "pw123456", "Ann")
		_, err := f.m.ForgotPassword(context.Background(), acc.Email)
		require.NoError(t, err)
		token := f.mail.lastToken(t)

		f.clock.Advance(time.Hour + time.Second)
		_, err = f.m.ResetPassword(context.Background(), token, acc.Email, "new-pass-42")
		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("leaves verification state alone", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		acc, _ := f.register(t, "a@x.com", "pw123456", "Ann")
		_, err := f.m.ForgotPassword(context.Background(), acc.Email)
		require.NoError(t, err)

		_, err = f.m.ResetPassword(context.Background(), f.mail.lastToken(t), acc.Email, "new-pass-42")
		require.NoError(t, err)

		stored, err := f.store.FindByEmail(context.Background(), acc.Email)
		require.NoError(t, err)
		assert.False(t, stored.Verified)
		assert.NotNil(t, stored.EmailVerification)
		assert.Nil(t, stored.PasswordReset)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.m.ResetPassword(context.Background(), "", "a@x.com", "new-pass-42")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.m.ResetPassword(context.Background(), "abc", "", "new-pass-42")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.m.ResetPassword(context.Background(), "abc", "a@x.com", "weak")
		assert.ErrorIs(t, err, ErrValidation)
	})
}
