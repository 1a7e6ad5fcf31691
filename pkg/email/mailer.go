package email

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

// EmailSender delivers a single message.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams describes one outbound message.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks that the message is deliverable.
func (p SendEmailParams) Validate() error {
	if strings.TrimSpace(p.SendTo) == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidParams)
	}
	if !isAddress(p.SendTo) {
		return fmt.Errorf("%w: recipient must be a valid email address", ErrInvalidParams)
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.BodyHTML) == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidParams)
	}
	return nil
}

// NewSender returns the Postmark client when tokens are configured and a DevSender
// otherwise.
func NewSender(cfg Config) (EmailSender, error) {
	if cfg.UsePostmark() {
		return NewPostmarkClient(cfg)
	}
	if cfg.DevDir == "" {
		return nil, fmt.Errorf("%w: DevDir is required without postmark tokens", ErrInvalidConfig)
	}
	return NewDevSender(cfg.DevDir), nil
}

func isAddress(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
