package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mrz1836/postmark"
)

type postmarkClient struct {
	client *postmark.Client
	config Config
}

// PostmarkOption tweaks the underlying Postmark client.
type PostmarkOption func(*postmark.Client)

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) PostmarkOption {
	return func(pc *postmark.Client) {
		if c != nil {
			pc.HTTPClient = c
		}
	}
}

// WithBaseURL points the client at another API host.
func WithBaseURL(url string) PostmarkOption {
	return func(pc *postmark.Client) {
		if url != "" {
			pc.BaseURL = url
		}
	}
}

// NewPostmarkClient creates a Postmark-backed sender. Both tokens and both addresses are
// required.
func NewPostmarkClient(cfg Config, opts ...PostmarkOption) (EmailSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if !isAddress(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if !isAddress(cfg.SupportEmail) {
		return nil, fmt.Errorf("%w: SupportEmail must be a valid email address", ErrInvalidConfig)
	}

	client := postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken)
	for _, opt := range opts {
		opt(client)
	}

	return &postmarkClient{client: client, config: cfg}, nil
}

// MustNewPostmarkClient is NewPostmarkClient that panics on invalid config.
func MustNewPostmarkClient(cfg Config, opts ...PostmarkOption) EmailSender {
	client, err := NewPostmarkClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// SendEmail sends through Postmark's transactional API. Replies go to the support address.
// Link tracking stays off: messages carry single-use tokens that must reach the user
// unrewritten.
func (c *postmarkClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	resp, err := c.client.SendEmail(ctx, postmark.Email{
		From:       c.config.SenderEmail,
		ReplyTo:    c.config.SupportEmail,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: false,
		TrackLinks: "None",
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}
