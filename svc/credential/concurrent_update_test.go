package credential

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// hookedStore runs afterRead once, right after the next lookup returns, so another
// operation commits between a read and the write that follows it.
type hookedStore struct {
	*MemoryStore
	afterRead func()
}

func (s *hookedStore) fire() {
	if h := s.afterRead; h != nil {
		s.afterRead = nil
		h()
	}
}

func (s *hookedStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	acc, err := s.MemoryStore.FindByEmail(ctx, email)
	s.fire()
	return acc, err
}

func (s *hookedStore) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	acc, err := s.MemoryStore.FindByID(ctx, id)
	s.fire()
	return acc, err
}

// hooked returns a manager over f.store whose next lookup runs afterRead.
func (f *fixture) hooked(t *testing.T, opts ...Option) (*Manager, *hookedStore) {
	t.Helper()
	store := &hookedStore{MemoryStore: f.store}
	base := []Option{
		WithBcryptCost(bcrypt.MinCost),
		WithClock(f.clock.Now),
		WithLinks(testLinks),
	}
	return New(store, f.mail, f.sessions, append(base, opts...)...), store
}

func (f *fixture) resetToken(t *testing.T, addr string) string {
	t.Helper()
	_, err := f.m.ForgotPassword(context.Background(), addr)
	require.NoError(t, err)
	return f.mail.lastToken(t)
}

func TestConcurrentUpdates(t *testing.T) {
	t.Parallel()

	t.Run("federated merge keeps a reset that lands after its read", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		verifier := &MockVerifier{}
		verifier.On("Verify", mock.Anything, testAssertion, testAudience).Return(googleClaims("a@x.com"), nil)
		f := newFixture(t)
		f.registerVerified(t, "a@x.com", "pw123456", "Ann")
		token := f.resetToken(t, "a@x.com")

		m, store := f.hooked(t, WithFederatedVerifier(verifier, testAudience))
		store.afterRead = func() {
			_, err := f.m.ResetPassword(ctx, token, "a@x.com", "newpass99")
			require.NoError(t, err)
		}

		_, err := m.FederatedLogin(ctx, testAssertion)
		require.NoError(t, err)

		_, err = f.m.Login(ctx, "a@x.com", "newpass99")
		assert.NoError(t, err)
		_, err = f.m.Login(ctx, "a@x.com", "pw123456")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		stored, err := f.store.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "https://lh3.googleusercontent.com/ann", stored.AvatarURL)
	})

	t.Run("federated merge keeps a display name set after its read", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		nameless := googleClaims("ann@gmail.com")
		nameless.Name = ""
		verifier := &MockVerifier{}
		verifier.On("Verify", mock.Anything, testAssertion, testAudience).Return(nameless, nil).Once()
		verifier.On("Verify", mock.Anything, testAssertion, testAudience).Return(googleClaims("ann@gmail.com"), nil).Once()
		f := newFixture(t, WithFederatedVerifier(verifier, testAudience))

		session, err := f.m.FederatedLogin(ctx, testAssertion)
		require.NoError(t, err)

		stored, err := f.store.FindByEmail(ctx, "ann@gmail.com")
		require.NoError(t, err)
		require.Empty(t, stored.DisplayName)

		m, store := f.hooked(t, WithFederatedVerifier(verifier, testAudience))
		store.afterRead = func() {
			_, err := f.m.UpdateProfile(ctx, session.AccountID, ProfileInput{DisplayName: "Ann Lee"})
			require.NoError(t, err)
		}

		_, err = m.FederatedLogin(ctx, testAssertion)
		require.NoError(t, err)

		stored, err = f.store.FindByEmail(ctx, "ann@gmail.com")
		require.NoError(t, err)
		assert.Equal(t, "Ann Lee", stored.DisplayName)
		verifier.AssertExpectations(t)
	})

	t.Run("password change loses to a reset that lands after its read", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newFixture(t)
		acc := f.registerVerified(t, "a@x.com", "pw123456", "Ann")
		token := f.resetToken(t, "a@x.com")

		m, store := f.hooked(t)
		store.afterRead = func() {
			_, err := f.m.ResetPassword(ctx, token, "a@x.com", "newpass99")
			require.NoError(t, err)
		}

		_, err := m.UpdateProfile(ctx, acc.ID, ProfileInput{
			DisplayName:     "Ann Lee",
			CurrentPassword: "pw123456",
			NewPassword:     "pw654321",
		})
		assert.ErrorIs(t, err, ErrConflict)

		_, err = f.m.Login(ctx, "a@x.com", "newpass99")
		assert.NoError(t, err)
		_, err = f.m.Login(ctx, "a@x.com", "pw654321")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		stored, err := f.store.FindByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ann", stored.DisplayName)
	})

	t.Run("profile edit keeps a verification that lands after its read", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newFixture(t)
		acc, token := f.register(t, "a@x.com", "pw123456", "Ann")

		m, store := f.hooked(t)
		store.afterRead = func() {
			_, err := f.m.VerifyEmail(ctx, token, "a@x.com")
			require.NoError(t, err)
		}

		got, err := m.UpdateProfile(ctx, acc.ID, ProfileInput{AvatarURL: "https://cdn.example.com/ann.png"})
		require.NoError(t, err)
		assert.True(t, got.Verified)

		_, err = f.m.Login(ctx, "a@x.com", "pw123456")
		assert.NoError(t, err)
	})
}
