package credential

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountStore persists accounts. Implementations return ErrNotFound,
// ErrDuplicateAccount and ErrInvalidOrExpiredToken for the domain outcomes below and
// wrap everything else so errors.Is(err, ErrTimeout) or ErrStoreUnavailable holds.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// CreateAccount inserts acc. An existing email yields ErrDuplicateAccount.
	CreateAccount(ctx context.Context, acc *Account) error

	// SetPendingToken overwrites the token for purpose.
	SetPendingToken(ctx context.Context, id uuid.UUID, purpose TokenPurpose, token PendingToken) error

	// ClearPendingToken removes the token for purpose only while it still has digest,
	// so a rollback never erases a newer token. Clearing nothing is not an error.
	ClearPendingToken(ctx context.Context, id uuid.UUID, purpose TokenPurpose, digest string) error

	// ConsumePendingToken atomically finds the account with email whose token for
	// purpose has digest and expires after now, applies change and clears the token.
	// Zero matches yield ErrInvalidOrExpiredToken.
	ConsumePendingToken(ctx context.Context, email string, purpose TokenPurpose, digest string, now time.Time, change Change) (*Account, error)

	// MergeFederated marks the account verified and fills display name and avatar only
	// where they are still empty, in one atomic update. Empty arguments change nothing.
	MergeFederated(ctx context.Context, id uuid.UUID, displayName, avatarURL string) (*Account, error)

	// UpdateProfile writes the non-empty fields of change and returns the stored account.
	// A credential change whose ExpectedHash no longer matches yields ErrConflict.
	UpdateProfile(ctx context.Context, id uuid.UUID, change ProfileChange) (*Account, error)
}
