package credential

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/expensekit/pkg/email"
	"github.com/dmitrymomot/expensekit/svc/federated"
)

// MockSender is a mock implementation of email.EmailSender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// MockVerifier is a mock implementation of federated.Verifier.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, assertion, audience string) (federated.Claims, error) {
	args := m.Called(ctx, assertion, audience)
	return args.Get(0).(federated.Claims), args.Error(1)
}

// MockAccountStore is a mock implementation of AccountStore.
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockAccountStore) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockAccountStore) CreateAccount(ctx context.Context, acc *Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountStore) SetPendingToken(ctx context.Context, id uuid.UUID, purpose TokenPurpose, token PendingToken) error {
	args := m.Called(ctx, id, purpose, token)
	return args.Error(0)
}

func (m *MockAccountStore) ClearPendingToken(ctx context.Context, id uuid.UUID, purpose TokenPurpose, digest string) error {
	args := m.Called(ctx, id, purpose, digest)
	return args.Error(0)
}

func (m *MockAccountStore) ConsumePendingToken(ctx context.Context, email string, purpose TokenPurpose, digest string, now time.Time, change Change) (*Account, error) {
	args := m.Called(ctx, email, purpose, digest, now, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockAccountStore) MergeFederated(ctx context.Context, id uuid.UUID, displayName, avatarURL string) (*Account, error) {
	args := m.Called(ctx, id, displayName, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockAccountStore) UpdateProfile(ctx context.Context, id uuid.UUID, change ProfileChange) (*Account, error) {
	args := m.Called(ctx, id, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

// outbox is an email.EmailSender that records every message.
type outbox struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
}

func (o *outbox) SendEmail(_ context.Context, params email.SendEmailParams) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, params)
	return nil
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}

func (o *outbox) last(t *testing.T) email.SendEmailParams {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.sent, "no email sent")
	return o.sent[len(o.sent)-1]
}

var tokenPattern = regexp.MustCompile(`token=([0-9a-f]{64})`)

// lastToken extracts the plaintext token from the most recent email link.
func (o *outbox) lastToken(t *testing.T) string {
	t.Helper()
	m := tokenPattern.FindStringSubmatch(o.last(t).BodyHTML)
	require.Len(t, m, 2, "no token link in email body")
	return m[1]
}

// testClock is a settable clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
