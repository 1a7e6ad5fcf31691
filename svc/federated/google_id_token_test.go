package federated_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/expensekit/svc/federated"
)

func TestGoogleIDTokenVerifier_Verify(t *testing.T) {
	t.Parallel()

	key := newTestKey(t)
	verifier := federated.NewGoogleIDTokenVerifier(givenKeyfunc(key),
		federated.WithClock(func() time.Time { return testNow }),
	)

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()

		claims, err := verifier.Verify(context.Background(), signIDToken(t, key, validClaims()), testClientID)
		require.NoError(t, err)
		assert.Equal(t, federated.Claims{
			Subject:       "10769150350006150715113082367",
			Email:         "ann@example.com",
			EmailVerified: true,
			Name:          "Ann",
			Picture:       "https://lh3.googleusercontent.com/a/ann.png",
		}, claims)
	})

	t.Run("string email_verified", func(t *testing.T) {
		t.Parallel()

		c := validClaims()
		c["email_verified"] = "false"
		claims, err := verifier.Verify(context.Background(), signIDToken(t, key, c), testClientID)
		require.NoError(t, err)
		assert.False(t, claims.EmailVerified)
	})

	tests := []struct {
		name    string
		mutate  func(c gojwt.MapClaims)
		wantErr error
	}{
		{name: "expired", mutate: func(c gojwt.MapClaims) { c["exp"] = testNow.Add(-time.Hour).Unix() }, wantErr: federated.ErrInvalidAssertion},
		{name: "missing exp", mutate: func(c gojwt.MapClaims) { delete(c, "exp") }, wantErr: federated.ErrInvalidAssertion},
		{name: "other audience", mutate: func(c gojwt.MapClaims) { c["aud"] = "someone-else" }, wantErr: federated.ErrAudienceMismatch},
		{name: "foreign issuer", mutate: func(c gojwt.MapClaims) { c["iss"] = "https://evil.example.com" }, wantErr: federated.ErrIssuerMismatch},
		{name: "no email", mutate: func(c gojwt.MapClaims) { delete(c, "email") }, wantErr: federated.ErrMissingEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := validClaims()
			tt.mutate(c)
			_, err := verifier.Verify(context.Background(), signIDToken(t, key, c), testClientID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("signed by another key", func(t *testing.T) {
		t.Parallel()

		_, err := verifier.Verify(context.Background(), signIDToken(t, newTestKey(t), validClaims()), testClientID)
		assert.ErrorIs(t, err, federated.ErrInvalidAssertion)
	})

	t.Run("hmac token rejected", func(t *testing.T) {
		t.Parallel()

		tok := gojwt.NewWithClaims(gojwt.SigningMethodHS256, validClaims())
		tok.Header["kid"] = testKID
		signed, err := tok.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = verifier.Verify(context.Background(), signed, testClientID)
		assert.ErrorIs(t, err, federated.ErrInvalidAssertion)
	})

	t.Run("empty inputs", func(t *testing.T) {
		t.Parallel()

		_, err := verifier.Verify(context.Background(), "", testClientID)
		assert.ErrorIs(t, err, federated.ErrInvalidAssertion)

		_, err = verifier.Verify(context.Background(), "a.b.c", "")
		assert.ErrorIs(t, err, federated.ErrNotConfigured)
	})
}

func TestNewGoogleJWKSVerifier(t *testing.T) {
	t.Parallel()

	key := newTestKey(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(jwksJSON(key)))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	verifier, stop, err := federated.NewGoogleJWKSVerifier(ctx, federated.GoogleConfig{
		ClientID: testClientID,
		JWKSURL:  srv.URL,
	}, nil, federated.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	t.Cleanup(stop)

	claims, err := verifier.Verify(context.Background(), signIDToken(t, key, validClaims()), testClientID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", claims.Email)

	t.Run("disabled without client id", func(t *testing.T) {
		t.Parallel()

		_, _, err := federated.NewGoogleJWKSVerifier(ctx, federated.GoogleConfig{}, nil)
		assert.ErrorIs(t, err, federated.ErrNotConfigured)
	})
}
