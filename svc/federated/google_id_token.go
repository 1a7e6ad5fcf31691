package federated

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/expensekit/pkg/logger"
)

// GoogleIssuers are the iss values Google puts into ID tokens.
var GoogleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// GoogleIDTokenVerifier validates Google ID tokens.
type GoogleIDTokenVerifier struct {
	keyfunc gojwt.Keyfunc
	issuers []string
	leeway  time.Duration
	now     func() time.Time
}

type IDTokenOption func(*GoogleIDTokenVerifier)

// WithIssuers replaces the accepted issuers.
func WithIssuers(issuers ...string) IDTokenOption {
	return func(v *GoogleIDTokenVerifier) {
		if len(issuers) > 0 {
			v.issuers = issuers
		}
	}
}

// WithLeeway tolerates clock skew on exp, nbf and iat.
func WithLeeway(d time.Duration) IDTokenOption {
	return func(v *GoogleIDTokenVerifier) { v.leeway = d }
}

func WithClock(now func() time.Time) IDTokenOption {
	return func(v *GoogleIDTokenVerifier) {
		if now != nil {
			v.now = now
		}
	}
}

// NewGoogleIDTokenVerifier builds a verifier around an existing key function.
func NewGoogleIDTokenVerifier(kf gojwt.Keyfunc, opts ...IDTokenOption) *GoogleIDTokenVerifier {
	v := &GoogleIDTokenVerifier{
		keyfunc: kf,
		issuers: GoogleIssuers,
		leeway:  30 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewGoogleJWKSVerifier fetches the key set at cfg.JWKSURL and keeps it fresh in the
// background until ctx is done or the returned stop func is called.
func NewGoogleJWKSVerifier(ctx context.Context, cfg GoogleConfig, log *slog.Logger, opts ...IDTokenOption) (*GoogleIDTokenVerifier, func(), error) {
	if !cfg.Enabled() {
		return nil, func() {}, ErrNotConfigured
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
		Ctx: ctx,
		RefreshErrorHandler: func(err error) {
			log.Error("failed to refresh google key set",
				logger.Component("federated"),
				logger.Error(err),
			)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, func() {}, errors.Join(ErrKeySetUnavailable, err)
	}

	return NewGoogleIDTokenVerifier(jwks.Keyfunc, opts...), jwks.EndBackground, nil
}

type googleClaims struct {
	Email         string       `json:"email"`
	EmailVerified flexibleBool `json:"email_verified"`
	Name          string       `json:"name"`
	Picture       string       `json:"picture"`
	gojwt.RegisteredClaims
}

// Verify checks signature, algorithm, audience, expiry and issuer.
func (v *GoogleIDTokenVerifier) Verify(_ context.Context, assertion, audience string) (Claims, error) {
	if assertion == "" {
		return Claims{}, ErrInvalidAssertion
	}
	if audience == "" {
		return Claims{}, ErrNotConfigured
	}

	var claims googleClaims
	_, err := gojwt.ParseWithClaims(assertion, &claims, v.keyfunc,
		gojwt.WithValidMethods([]string{"RS256"}),
		gojwt.WithAudience(audience),
		gojwt.WithExpirationRequired(),
		gojwt.WithLeeway(v.leeway),
		gojwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenInvalidAudience) {
			return Claims{}, errors.Join(ErrAudienceMismatch, err)
		}
		return Claims{}, errors.Join(ErrInvalidAssertion, err)
	}

	if !slices.Contains(v.issuers, claims.Issuer) {
		return Claims{}, ErrIssuerMismatch
	}
	if claims.Email == "" {
		return Claims{}, ErrMissingEmail
	}

	return Claims{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: bool(claims.EmailVerified),
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}

// flexibleBool accepts true as well as "true"; Google has emitted both.
type flexibleBool bool

func (b *flexibleBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexibleBool(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b = flexibleBool(parsed)
	return nil
}

var _ Verifier = (*GoogleIDTokenVerifier)(nil)
