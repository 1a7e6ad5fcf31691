package tokencodec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"time"
)

const (
	// TokenBytes is the amount of entropy in every issued token (256 bits).
	TokenBytes = 32

	DefaultTTL = time.Hour
)

// Issued is a freshly generated token. Plaintext must leave the process only through the
// outbound message; Digest and ExpiresAt are what gets stored.
type Issued struct {
	Plaintext string
	Digest    string
	ExpiresAt time.Time
}

// Codec generates tokens and derives their digests.
type Codec struct {
	ttl    time.Duration
	now    func() time.Time
	random io.Reader
}

// Option configures a Codec.
type Option func(*Codec)

// WithTTL sets how long issued tokens stay valid. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source used for expiry calculation.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRandom overrides the entropy source. Intended for tests.
func WithRandom(r io.Reader) Option {
	return func(c *Codec) {
		if r != nil {
			c.random = r
		}
	}
}

// New returns a Codec with a one hour TTL unless configured otherwise.
func New(opts ...Option) *Codec {
	c := &Codec{
		ttl:    DefaultTTL,
		now:    time.Now,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue produces a new token together with its digest and expiry.
func (c *Codec) Issue() (Issued, error) {
	b := make([]byte, TokenBytes)
	if _, err := io.ReadFull(c.random, b); err != nil {
		return Issued{}, errors.Join(ErrEntropyUnavailable, err)
	}

	plaintext := hex.EncodeToString(b)
	return Issued{
		Plaintext: plaintext,
		Digest:    DigestOf(plaintext),
		ExpiresAt: c.now().Add(c.ttl),
	}, nil
}

// DigestOf returns the digest of a presented token.
func (c *Codec) DigestOf(plaintext string) string {
	return DigestOf(plaintext)
}

// TTL reports the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// DigestOf is the package-level hash: hex(SHA-256(plaintext)).
func DigestOf(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
