package credential

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAccount(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	acc, _ := f.register(t, "a@x.com", "pw123456", "Ann")

	got, err := f.m.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	_, err = f.m.GetAccount(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("updates profile fields", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		acc := f.registerVerified(t, "a@x.com", "pw123456", "Ann")

		got, err := f.m.UpdateProfile(context.Background(), acc.ID, ProfileInput{
			DisplayName: "Ann <em>Lee</em>",
			AvatarURL:   "https://cdn.example.com/ann.png",
		})
		require.NoError(t, err)
		assert.Equal(t, "Ann Lee", got.DisplayName)
		assert.Equal(t, "https://cdn.example.com/ann.png", got.AvatarURL)
		assert.Equal(t, "a@x.com", got.Email)

		stored, err := f.store.FindByID(context.Background(), acc.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ann Lee", stored.DisplayName)
		assert.True(t, stored.Verified)
	})

	t.Run("empty input keeps everything", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		acc := f.registerVerified(t, "a@x.com", "pw123456", "Ann")

		got, err := f.m.UpdateProfile(context.Background(), acc.ID, ProfileInput{})
		require.NoError(t, err)
		assert.Equal(t, "Ann", got.DisplayName)
	})

	t.Run("password change needs the current password", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		acc := f.registerVerified(t, "a@x.com", "pw123456", "Ann")

		_, err := f.m.UpdateProfile(context.Background(), acc.ID, ProfileInput{NewPassword: "new-pass-42"})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = f.m.UpdateProfile(context.Background(), acc.ID, ProfileInput{CurrentPassword: "wrong-pass1", NewPassword: "new-pass-42"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = f.m.UpdateProfile(context.Background(), acc.ID, ProfileInput{CurrentPassword: "pw123456", NewPassword: "new-pass-42"})
		require.NoError(t, err)

		_, err = f.m.Login(context.Background(), "a@x.com", "new-pass-42")
		assert.NoError(t, err)
	})

	t.Run("weak new password", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		acc := f.registerVerified(t, "a@x.com", "pw123456", "Ann")

		_, err := f.m.UpdateProfile(context.Background(), acc.ID, ProfileInput{CurrentPassword: "pw123456", NewPassword: "short"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown account", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.m.UpdateProfile(context.Background(), uuid.New(), ProfileInput{DisplayName: "Ann"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
