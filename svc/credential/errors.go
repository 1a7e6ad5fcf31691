package credential

import (
	"context"
	"errors"
)

var (
	ErrValidation                = errors.New("credential: invalid input")
	ErrDuplicateAccount          = errors.New("credential: account already exists")
	ErrInvalidCredentials        = errors.New("credential: invalid email or password")
	ErrEmailNotVerified          = errors.New("credential: email address not verified")
	ErrInvalidOrExpiredToken     = errors.New("credential: token is invalid or expired")
	ErrAlreadyVerified           = errors.New("credential: email already verified")
	ErrNotFound                  = errors.New("credential: account not found")
	ErrConflict                  = errors.New("credential: account changed concurrently")
	ErrDeliveryFailure           = errors.New("credential: failed to deliver email")
	ErrInvalidFederatedAssertion = errors.New("credential: invalid federated identity assertion")
	ErrUnverifiedFederatedEmail  = errors.New("credential: federated email is not verified")
	ErrTimeout                   = errors.New("credential: operation timed out")
	ErrStoreUnavailable          = errors.New("credential: account store unavailable")
)

// contextError classifies a cancelled or expired context.
func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}
	return errors.Join(ErrStoreUnavailable, err)
}
