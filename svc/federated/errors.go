package federated

import "errors"

var (
	ErrInvalidAssertion  = errors.New("federated: invalid assertion")
	ErrAudienceMismatch  = errors.New("federated: assertion issued for another audience")
	ErrIssuerMismatch    = errors.New("federated: unexpected issuer")
	ErrMissingEmail      = errors.New("federated: assertion carries no email")
	ErrKeySetUnavailable = errors.New("federated: signing key set unavailable")
	ErrCodeExchange      = errors.New("federated: authorization code exchange failed")
	ErrProfileFetch      = errors.New("federated: failed to fetch provider profile")
	ErrNotConfigured     = errors.New("federated: provider not configured")
)
