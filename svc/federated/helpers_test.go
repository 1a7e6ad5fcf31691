package federated_test

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testClientID = "client-123.apps.googleusercontent.com"
	testKID      = "test-kid"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func givenKeyfunc(key *rsa.PrivateKey) gojwt.Keyfunc {
	return keyfunc.NewGiven(map[string]keyfunc.GivenKey{
		testKID: keyfunc.NewGivenCustom(&key.PublicKey, keyfunc.GivenKeyOptions{Algorithm: "RS256"}),
	}).Keyfunc
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, claims gojwt.MapClaims) string {
	t.Helper()
	tok := gojwt.NewWithClaims(gojwt.SigningMethodRS256, claims)
	tok.Header["kid"] = testKID
	signed, err := tok.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims() gojwt.MapClaims {
	return gojwt.MapClaims{
		"iss":            "https://accounts.google.com",
		"aud":            testClientID,
		"sub":            "10769150350006150715113082367",
		"email":          "ann@example.com",
		"email_verified": true,
		"name":           "Ann",
		"picture":        "https://lh3.googleusercontent.com/a/ann.png",
		"iat":            testNow.Add(-time.Minute).Unix(),
		"exp":            testNow.Add(time.Hour).Unix(),
	}
}

func jwksJSON(key *rsa.PrivateKey) string {
	n := base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes())
	return `{"keys":[{"kty":"RSA","use":"sig","alg":"RS256","kid":"` + testKID + `","n":"` + n + `","e":"` + e + `"}]}`
}
