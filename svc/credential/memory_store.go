package credential

import (
	"bytes"
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an AccountStore kept in process memory. It provides the same atomicity
// as MongoStore under a single mutex and backs tests and local runs without a database.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*Account
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[uuid.UUID]*Account),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return s.byID[id].clone(), nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return acc.clone(), nil
}

func (s *MemoryStore) CreateAccount(ctx context.Context, acc *Account) error {
	if err := ctx.Err(); err != nil {
		return contextError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[acc.Email]; exists {
		return ErrDuplicateAccount
	}
	if _, exists := s.byID[acc.ID]; exists {
		return ErrDuplicateAccount
	}

	now := s.now()
	acc.CreatedAt, acc.UpdatedAt = now, now
	s.byID[acc.ID] = acc.clone()
	s.byEmail[acc.Email] = acc.ID
	return nil
}

func (s *MemoryStore) SetPendingToken(ctx context.Context, id uuid.UUID, purpose TokenPurpose, token PendingToken) error {
	if err := ctx.Err(); err != nil {
		return contextError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	acc.setPending(purpose, &token)
	acc.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) ClearPendingToken(ctx context.Context, id uuid.UUID, purpose TokenPurpose, digest string) error {
	if err := ctx.Err(); err != nil {
		return contextError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return nil
	}
	if t := acc.Pending(purpose); t != nil && t.Digest == digest {
		acc.setPending(purpose, nil)
		acc.UpdatedAt = s.now()
	}
	return nil
}

func (s *MemoryStore) ConsumePendingToken(ctx context.Context, email string, purpose TokenPurpose, digest string, now time.Time, change Change) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrInvalidOrExpiredToken
	}
	acc := s.byID[id]

	t := acc.Pending(purpose)
	if !t.Active(now) || subtle.ConstantTimeCompare([]byte(t.Digest), []byte(digest)) != 1 {
		return nil, ErrInvalidOrExpiredToken
	}

	change.apply(acc)
	acc.setPending(purpose, nil)
	acc.UpdatedAt = now
	return acc.clone(), nil
}

func (s *MemoryStore) MergeFederated(ctx context.Context, id uuid.UUID, displayName, avatarURL string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	acc.Verified = true
	if acc.DisplayName == "" {
		acc.DisplayName = displayName
	}
	if acc.AvatarURL == "" {
		acc.AvatarURL = avatarURL
	}
	acc.UpdatedAt = s.now()
	return acc.clone(), nil
}

func (s *MemoryStore) UpdateProfile(ctx context.Context, id uuid.UUID, change ProfileChange) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if len(change.CredentialHash) > 0 {
		if !bytes.Equal(acc.CredentialHash, change.ExpectedHash) {
			return nil, ErrConflict
		}
		acc.CredentialHash = bytes.Clone(change.CredentialHash)
	}
	if change.DisplayName != "" {
		acc.DisplayName = change.DisplayName
	}
	if change.AvatarURL != "" {
		acc.AvatarURL = change.AvatarURL
	}
	acc.UpdatedAt = s.now()
	return acc.clone(), nil
}

var _ AccountStore = (*MemoryStore)(nil)
