package credential

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// TokenPurpose selects which pending token an operation works on.
type TokenPurpose string

const (
	PurposeEmailVerification TokenPurpose = "email_verification"
	PurposePasswordReset     TokenPurpose = "password_reset"
)

func (p TokenPurpose) Valid() bool {
	return p == PurposeEmailVerification || p == PurposePasswordReset
}

// AuthMethod records how an account was created.
type AuthMethod string

const (
	MethodPassword    AuthMethod = "password"
	MethodOAuthGoogle AuthMethod = "oauth_google"
)

// PendingToken is the stored half of an issued token.
type PendingToken struct {
	Digest    string    `bson:"digest"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Active reports whether the token can still be consumed at now.
func (t *PendingToken) Active(now time.Time) bool {
	return t != nil && t.Digest != "" && now.Before(t.ExpiresAt)
}

type Account struct {
	ID             uuid.UUID
	Email          string
	DisplayName    string
	AvatarURL      string
	CredentialHash []byte
	Verified       bool
	AuthMethod     AuthMethod

	EmailVerification *PendingToken
	PasswordReset     *PendingToken

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pending returns the outstanding token for purpose, or nil.
func (a *Account) Pending(purpose TokenPurpose) *PendingToken {
	switch purpose {
	case PurposeEmailVerification:
		return a.EmailVerification
	case PurposePasswordReset:
		return a.PasswordReset
	}
	return nil
}

func (a *Account) setPending(purpose TokenPurpose, t *PendingToken) {
	switch purpose {
	case PurposeEmailVerification:
		a.EmailVerification = t
	case PurposePasswordReset:
		a.PasswordReset = t
	}
}

// clone returns a deep copy so stores never share memory with callers.
func (a *Account) clone() *Account {
	c := *a
	c.CredentialHash = bytes.Clone(a.CredentialHash)
	if a.EmailVerification != nil {
		t := *a.EmailVerification
		c.EmailVerification = &t
	}
	if a.PasswordReset != nil {
		t := *a.PasswordReset
		c.PasswordReset = &t
	}
	return &c
}

// Change is applied together with a successful token consumption.
type Change struct {
	Verified       bool
	CredentialHash []byte
}

func (c Change) apply(a *Account) {
	if c.Verified {
		a.Verified = true
	}
	if len(c.CredentialHash) > 0 {
		a.CredentialHash = bytes.Clone(c.CredentialHash)
	}
}

// ProfileChange lists the profile fields to write. Empty fields are left as stored.
type ProfileChange struct {
	DisplayName    string
	AvatarURL      string
	CredentialHash []byte
	// ExpectedHash guards CredentialHash: the write applies only while the stored hash
	// still equals it.
	ExpectedHash []byte
}

func (c ProfileChange) empty() bool {
	return c.DisplayName == "" && c.AvatarURL == "" && len(c.CredentialHash) == 0
}

// Result is the neutral outcome of operations that have nothing else to return.
type Result struct {
	Message string
}

const (
	MessageRegistered       = "Registration successful. Check your email to verify your account."
	MessageEmailVerified    = "Email verified successfully. You can now log in."
	MessageVerificationSent = "Verification email sent. Check your inbox."
	MessageResetRequested   = "If an account with that email exists, a password reset link has been sent."
	MessagePasswordReset    = "Password has been reset. You can now log in with your new password."
)

// Session is a signed, stateless session credential.
type Session struct {
	AccountID uuid.UUID
	Token     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	AvatarURL   string
}

// ProfileInput carries optional profile edits. Empty fields are left untouched.
type ProfileInput struct {
	DisplayName     string
	AvatarURL       string
	CurrentPassword string
	NewPassword     string
}
