package account

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/expensekit/handler"
	"github.com/dmitrymomot/expensekit/svc/credential"
)

var errorTable = []struct {
	target error
	status handler.HTTPError
}{
	{credential.ErrValidation, handler.HTTPError{Code: http.StatusBadRequest, Key: "validation_error", Message: "Validation failed"}},
	{credential.ErrDuplicateAccount, handler.HTTPError{Code: http.StatusConflict, Key: "account_exists", Message: "User already exists"}},
	{credential.ErrInvalidCredentials, handler.HTTPError{Code: http.StatusUnauthorized, Key: "invalid_credentials", Message: "Invalid credentials"}},
	{credential.ErrEmailNotVerified, handler.HTTPError{Code: http.StatusForbidden, Key: "email_not_verified", Message: "Please verify your email before logging in"}},
	{credential.ErrInvalidOrExpiredToken, handler.HTTPError{Code: http.StatusBadRequest, Key: "invalid_token", Message: "Link is invalid or has expired"}},
	{credential.ErrAlreadyVerified, handler.HTTPError{Code: http.StatusConflict, Key: "already_verified", Message: "Email is already verified"}},
	{credential.ErrConflict, handler.HTTPError{Code: http.StatusConflict, Key: "conflict", Message: "Account was changed by another request, please retry"}},
	{credential.ErrNotFound, handler.HTTPError{Code: http.StatusNotFound, Key: "not_found", Message: "User not found"}},
	{credential.ErrDeliveryFailure, handler.HTTPError{Code: http.StatusBadGateway, Key: "delivery_failed", Message: "Could not send email, please try again later"}},
	{credential.ErrUnverifiedFederatedEmail, handler.HTTPError{Code: http.StatusForbidden, Key: "federated_email_unverified", Message: "Google account email is not verified"}},
	{credential.ErrInvalidFederatedAssertion, handler.HTTPError{Code: http.StatusUnauthorized, Key: "invalid_federated_assertion", Message: "Google sign-in failed"}},
	{credential.ErrTimeout, handler.HTTPError{Code: http.StatusGatewayTimeout, Key: "timeout", Message: "Request timed out"}},
	{credential.ErrStoreUnavailable, handler.HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable", Message: "Service temporarily unavailable"}},
}

// MapError translates credential errors into HTTP errors. It is a handler.ErrorMapper.
func MapError(err error) error {
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return e.status.WithCause(err)
		}
	}
	return err
}
