package credential

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/expensekit/pkg/email"
	"github.com/dmitrymomot/expensekit/pkg/logger"
	"github.com/dmitrymomot/expensekit/pkg/tokencodec"
	"github.com/dmitrymomot/expensekit/pkg/validator"
	"github.com/dmitrymomot/expensekit/svc/federated"
)

const (
	defaultAppName         = "Expense Tracker"
	defaultStoreTimeout    = 5 * time.Second
	defaultMailTimeout     = 10 * time.Second
	defaultVerifierTimeout = 5 * time.Second

	maxDisplayNameLength = 100
)

// SessionIssuer signs session credentials for an account id. *jwt.Service satisfies it.
type SessionIssuer interface {
	Issue(subject string) (token string, expiresAt time.Time, err error)
}

// Manager drives every account state transition: registration, verification, login,
// password reset, federated login and profile edits.
type Manager struct {
	store    AccountStore
	sender   email.EmailSender
	sessions SessionIssuer
	codec    *tokencodec.Codec
	verifier federated.Verifier
	audience string
	links    Links
	appName  string

	tokenTTL         time.Duration
	bcryptCost       int
	passwordStrength validator.PasswordStrengthConfig

	storeTimeout    time.Duration
	mailTimeout     time.Duration
	verifierTimeout time.Duration

	now       func() time.Time
	logger    *slog.Logger
	dummyHash func() []byte
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithBcryptCost ignores costs outside bcrypt's accepted range.
func WithBcryptCost(cost int) Option {
	return func(m *Manager) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			m.bcryptCost = cost
		}
	}
}

func WithPasswordStrength(cfg validator.PasswordStrengthConfig) Option {
	return func(m *Manager) {
		m.passwordStrength = cfg
	}
}

// WithTokenTTL sets the lifetime of verification and reset tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.tokenTTL = ttl
		}
	}
}

// WithTokenCodec replaces the token codec. WithTokenTTL has no effect on a supplied codec.
func WithTokenCodec(c *tokencodec.Codec) Option {
	return func(m *Manager) {
		m.codec = c
	}
}

// WithFederatedVerifier enables FederatedLogin for assertions issued to audience.
func WithFederatedVerifier(v federated.Verifier, audience string) Option {
	return func(m *Manager) {
		m.verifier = v
		m.audience = audience
	}
}

// WithTimeouts bounds store, mail and verifier calls. Zero values keep the defaults.
func WithTimeouts(store, mail, verifier time.Duration) Option {
	return func(m *Manager) {
		if store > 0 {
			m.storeTimeout = store
		}
		if mail > 0 {
			m.mailTimeout = mail
		}
		if verifier > 0 {
			m.verifierTimeout = verifier
		}
	}
}

func WithLinks(l Links) Option {
	return func(m *Manager) {
		m.links = l
	}
}

func WithAppName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.appName = name
		}
	}
}

// WithConfig applies every setting from cfg.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		WithAppName(cfg.AppName)(m)
		WithLinks(Links{APIBaseURL: cfg.APIBaseURL, ClientURL: cfg.ClientURL})(m)
		WithTokenTTL(cfg.TokenTTL)(m)
		WithBcryptCost(cfg.BcryptCost)(m)
		WithTimeouts(cfg.StoreTimeout, cfg.MailTimeout, cfg.VerifierTimeout)(m)
	}
}

func New(store AccountStore, sender email.EmailSender, sessions SessionIssuer, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		sender:   sender,
		sessions: sessions,
		appName:  defaultAppName,

		tokenTTL:   tokencodec.DefaultTTL,
		bcryptCost: bcrypt.DefaultCost,
		passwordStrength: validator.PasswordStrengthConfig{
			MinLength:      8,
			MaxLength:      72, // bcrypt input limit
			MinCharClasses: 2,
		},

		storeTimeout:    defaultStoreTimeout,
		mailTimeout:     defaultMailTimeout,
		verifierTimeout: defaultVerifierTimeout,

		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.codec == nil {
		m.codec = tokencodec.New(tokencodec.WithTTL(m.tokenTTL), tokencodec.WithClock(m.now))
	}
	m.logger = m.logger.With(logger.Component("credential"))

	cost := m.bcryptCost
	m.dummyHash = sync.OnceValue(func() []byte {
		hash, _ := bcrypt.GenerateFromPassword([]byte("expensekit-timing-equalizer"), cost)
		return hash
	})

	return m
}

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// classify keeps domain outcomes as they are and maps everything else on ErrTimeout or
// ErrStoreUnavailable.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTimeout),
		errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrDuplicateAccount),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidOrExpiredToken):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Join(ErrTimeout, err)
	default:
		return errors.Join(ErrStoreUnavailable, err)
	}
}

// storeCall runs fn under the store timeout.
func storeCall[T any](ctx context.Context, m *Manager, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, m.storeTimeout)
	defer cancel()

	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, classify(err)
	}
	return v, nil
}

func (m *Manager) storeExec(ctx context.Context, fn func(context.Context) error) error {
	_, err := storeCall(ctx, m, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func (m *Manager) findByEmail(ctx context.Context, addr string) (*Account, error) {
	return storeCall(ctx, m, func(ctx context.Context) (*Account, error) {
		return m.store.FindByEmail(ctx, addr)
	})
}

func (m *Manager) findByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return storeCall(ctx, m, func(ctx context.Context) (*Account, error) {
		return m.store.FindByID(ctx, id)
	})
}

func (m *Manager) hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, validationError(validator.ValidationErrors{{
			Field:   "password",
			Code:    "password_too_long",
			Message: "password must be at most 72 bytes long",
		}})
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// passwordMatches always performs one bcrypt comparison, even without a hash, so
// response timing does not reveal whether an account exists.
func (m *Manager) passwordMatches(hash []byte, password string) bool {
	if len(hash) == 0 {
		_ = bcrypt.CompareHashAndPassword(m.dummyHash(), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// issueAndDeliver stores a fresh token for purpose and mails its plaintext. A failed
// delivery clears the token it just stored before ErrDeliveryFailure is returned.
func (m *Manager) issueAndDeliver(ctx context.Context, acc *Account, purpose TokenPurpose) error {
	issued, err := m.codec.Issue()
	if err != nil {
		return fmt.Errorf("issue %s token: %w", purpose, err)
	}

	pending := PendingToken{Digest: issued.Digest, ExpiresAt: issued.ExpiresAt}
	if err := m.storeExec(ctx, func(ctx context.Context) error {
		return m.store.SetPendingToken(ctx, acc.ID, purpose, pending)
	}); err != nil {
		return err
	}

	if err := m.deliver(ctx, acc, purpose, issued.Plaintext); err != nil {
		m.rollback(ctx, acc, purpose, issued.Digest)
		return errors.Join(ErrDeliveryFailure, err)
	}

	m.logger.InfoContext(ctx, "token issued",
		logger.AccountID(acc.ID),
		logger.Purpose(string(purpose)),
	)
	return nil
}

func (m *Manager) deliver(ctx context.Context, acc *Account, purpose TokenPurpose, plaintext string) error {
	params, err := m.composeMail(ctx, acc, purpose, plaintext)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.mailTimeout)
	defer cancel()

	return m.sender.SendEmail(ctx, params)
}

// rollback runs even when ctx is already cancelled.
func (m *Manager) rollback(ctx context.Context, acc *Account, purpose TokenPurpose, digest string) {
	ctx = context.WithoutCancel(ctx)
	if err := m.storeExec(ctx, func(ctx context.Context) error {
		return m.store.ClearPendingToken(ctx, acc.ID, purpose, digest)
	}); err != nil {
		m.logger.ErrorContext(ctx, "failed to clear undelivered token",
			logger.AccountID(acc.ID),
			logger.Purpose(string(purpose)),
			logger.Error(err),
		)
	}
}

func (m *Manager) issueSession(acc *Account) (Session, error) {
	token, expiresAt, err := m.sessions.Issue(acc.ID.String())
	if err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}
	return Session{AccountID: acc.ID, Token: token, ExpiresAt: expiresAt}, nil
}
