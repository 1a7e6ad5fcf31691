package credential

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/expensekit/pkg/email"
	"github.com/dmitrymomot/expensekit/pkg/email/templates"
)

// Links builds the URLs embedded in emails and used by redirects.
type Links struct {
	APIBaseURL string
	ClientURL  string
}

// VerifyEmail points at the API verification endpoint.
func (l Links) VerifyEmail(token, addr string) string {
	return join(l.APIBaseURL, "/api/v1/auth/verify-email", url.Values{"token": {token}, "email": {addr}})
}

// ResetPassword points at the client reset form.
func (l Links) ResetPassword(token, addr string) string {
	return join(l.ClientURL, "/auth/reset", url.Values{"token": {token}, "email": {addr}})
}

// Verified is where the browser lands after following a verification link.
func (l Links) Verified(ok bool) string {
	status := "failed"
	if ok {
		status = "success"
	}
	return join(l.ClientURL, "/auth/verified", url.Values{"status": {status}})
}

func join(base, path string, q url.Values) string {
	return strings.TrimRight(base, "/") + path + "?" + q.Encode()
}

func (m *Manager) composeMail(ctx context.Context, acc *Account, purpose TokenPurpose, plaintext string) (email.SendEmailParams, error) {
	name := acc.DisplayName
	if name == "" {
		name = "there"
	}

	msg := templates.Message{
		Greeting:  fmt.Sprintf("Hi %s,", name),
		Signature: m.appName + " Team",
	}
	var tag string

	switch purpose {
	case PurposeEmailVerification:
		tag = "email-verification"
		msg.Title = "Verify your email"
		msg.Paragraphs = []string{
			fmt.Sprintf("Thanks for signing up for %s. Confirm your email address to activate your account.", m.appName),
		}
		msg.ActionURL = m.links.VerifyEmail(plaintext, acc.Email)
		msg.ActionLabel = "Verify email"
		msg.Footnotes = []string{
			fmt.Sprintf("This link expires in %s.", humanizeTTL(m.codec.TTL())),
			"If you did not create an account, you can ignore this email.",
		}
	case PurposePasswordReset:
		tag = "password-reset"
		msg.Title = "Reset your password"
		msg.Paragraphs = []string{
			fmt.Sprintf("We received a request to reset the password for your %s account.", m.appName),
		}
		msg.ActionURL = m.links.ResetPassword(plaintext, acc.Email)
		msg.ActionLabel = "Reset password"
		msg.Footnotes = []string{
			fmt.Sprintf("This link expires in %s.", humanizeTTL(m.codec.TTL())),
			"If you did not request a password reset, you can ignore this email.",
		}
	default:
		return email.SendEmailParams{}, fmt.Errorf("unknown token purpose %q", purpose)
	}

	body, err := templates.Render(ctx, templates.Layout(msg))
	if err != nil {
		return email.SendEmailParams{}, fmt.Errorf("render %s email: %w", tag, err)
	}

	return email.SendEmailParams{
		SendTo:   acc.Email,
		Subject:  msg.Title,
		BodyHTML: body,
		Tag:      tag,
	}, nil
}

func humanizeTTL(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
