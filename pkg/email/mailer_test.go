package email_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/expensekit/pkg/email"
)

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Verify your email",
		BodyHTML: "<p>hi</p>",
		Tag:      "email-verification",
	}

	tests := []struct {
		name    string
		mutate  func(p *email.SendEmailParams)
		wantErr string
	}{
		{name: "valid params", mutate: func(*email.SendEmailParams) {}},
		{name: "missing recipient", mutate: func(p *email.SendEmailParams) { p.SendTo = " " }, wantErr: "recipient is required"},
		{name: "malformed recipient", mutate: func(p *email.SendEmailParams) { p.SendTo = "not-an-email" }, wantErr: "valid email"},
		{name: "display name form rejected", mutate: func(p *email.SendEmailParams) { p.SendTo = "User <user@example.com>" }, wantErr: "valid email"},
		{name: "missing subject", mutate: func(p *email.SendEmailParams) { p.Subject = "" }, wantErr: "subject is required"},
		{name: "missing body", mutate: func(p *email.SendEmailParams) { p.BodyHTML = "" }, wantErr: "body is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, email.ErrInvalidParams)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	t.Run("postmark when tokens present", func(t *testing.T) {
		t.Parallel()

		sender, err := email.NewSender(email.Config{
			PostmarkServerToken:  "server",
			PostmarkAccountToken: "account",
			SenderEmail:          "no-reply@example.com",
			SupportEmail:         "support@example.com",
		})
		require.NoError(t, err)
		_, isDev := sender.(*email.DevSender)
		assert.False(t, isDev)
	})

	t.Run("dev sender without tokens", func(t *testing.T) {
		t.Parallel()

		sender, err := email.NewSender(email.Config{
			SenderEmail:  "no-reply@example.com",
			SupportEmail: "support@example.com",
			DevDir:       t.TempDir(),
		})
		require.NoError(t, err)
		_, isDev := sender.(*email.DevSender)
		assert.True(t, isDev)
	})

	t.Run("dev sender needs a directory", func(t *testing.T) {
		t.Parallel()

		_, err := email.NewSender(email.Config{SenderEmail: "a@b.co", SupportEmail: "a@b.co"})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()

	t.Run("stores message with its links", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "user@example.com",
			Subject:  "Reset your password",
			BodyHTML: `<p><a href="https://app.example.com/auth/reset?token=abc&amp;email=user%40example.com">reset</a></p>`,
			Tag:      "password-reset",
		})
		require.NoError(t, err)

		var stored struct {
			SendTo   string   `json:"send_to"`
			Subject  string   `json:"subject"`
			BodyHTML string   `json:"body_html"`
			Links    []string `json:"links"`
		}
		require.NoError(t, json.Unmarshal([]byte(readFile(t, globOne(t, dir, "*_password-reset.json"))), &stored))
		assert.Equal(t, "user@example.com", stored.SendTo)
		assert.Equal(t, "Reset your password", stored.Subject)
		assert.Equal(t, []string{"https://app.example.com/auth/reset?token=abc&email=user%40example.com"}, stored.Links)
	})

	t.Run("subject names the file without a tag", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)
		params := email.SendEmailParams{SendTo: "user@example.com", Subject: "Budget: Food at 85%", BodyHTML: "<p>hi</p>"}
		require.NoError(t, sender.SendEmail(context.Background(), params))
		require.NoError(t, sender.SendEmail(context.Background(), params))

		matches, err := filepath.Glob(filepath.Join(dir, "*_budget-food-at-85.json"))
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("rejects invalid params", func(t *testing.T) {
		t.Parallel()

		err := email.NewDevSender(t.TempDir()).SendEmail(context.Background(), email.SendEmailParams{})
		assert.ErrorIs(t, err, email.ErrInvalidParams)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := email.NewDevSender(t.TempDir()).SendEmail(ctx, email.SendEmailParams{
			SendTo: "user@example.com", Subject: "s", BodyHTML: "b",
		})
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	})
}
