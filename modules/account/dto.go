package account

import (
	"time"

	"github.com/dmitrymomot/expensekit/svc/credential"
)

type messageResponse struct {
	Message string `json:"message"`
}

func newMessage(res credential.Result) messageResponse {
	return messageResponse{Message: res.Message}
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newSession(s credential.Session) sessionResponse {
	return sessionResponse{
		ID:        s.AccountID.String(),
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}

// Profile is the public view of an account. Credential material never leaves the
// service.
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Verified    bool      `json:"verified"`
	AuthMethod  string    `json:"auth_method"`
	CreatedAt   time.Time `json:"created_at"`
}

func newProfile(acc *credential.Account) Profile {
	return Profile{
		ID:          acc.ID.String(),
		Email:       acc.Email,
		DisplayName: acc.DisplayName,
		AvatarURL:   acc.AvatarURL,
		Verified:    acc.Verified,
		AuthMethod:  string(acc.AuthMethod),
		CreatedAt:   acc.CreatedAt,
	}
}
