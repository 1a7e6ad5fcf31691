package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTTL = 30 * 24 * time.Hour

	minKeyLength = 32
)

// Claims are the session claims. Subject holds the account id.
type Claims struct {
	gojwt.RegisteredClaims
}

// Service signs and verifies session tokens.
type Service struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithIssuer(issuer string) Option {
	return func(s *Service) { s.issuer = issuer }
}

// WithTTL sets the token lifetime. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service. The key must be at least 32 bytes.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	if len(signingKey) < minKeyLength {
		return nil, ErrInvalidSigningKey
	}

	s := &Service{
		key: signingKey,
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), opts...)
}

// Issue signs a token for subject and reports when it expires.
func (s *Service) Issue(subject string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, ErrMissingSubject
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, errors.Join(ErrInvalidToken, err)
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, algorithm, issuer and expiry.
func (s *Service) Parse(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return s.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, errors.Join(ErrExpiredToken, err)
		}
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}
