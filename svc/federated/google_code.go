package federated

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleCodeVerifier redeems an authorization code and reads the Google userinfo profile.
type GoogleCodeVerifier struct {
	conf        *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

type CodeOption func(*GoogleCodeVerifier)

// WithEndpoint overrides Google's OAuth2 endpoints.
func WithEndpoint(e oauth2.Endpoint) CodeOption {
	return func(v *GoogleCodeVerifier) { v.conf.Endpoint = e }
}

func WithUserInfoURL(url string) CodeOption {
	return func(v *GoogleCodeVerifier) {
		if url != "" {
			v.userInfoURL = url
		}
	}
}

func WithHTTPClient(c *http.Client) CodeOption {
	return func(v *GoogleCodeVerifier) {
		if c != nil {
			v.httpClient = c
		}
	}
}

func NewGoogleCodeVerifier(cfg GoogleConfig, opts ...CodeOption) (*GoogleCodeVerifier, error) {
	if !cfg.CodeExchangeEnabled() {
		return nil, ErrNotConfigured
	}

	v := &GoogleCodeVerifier{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       cfg.OAuthScopes,
			Endpoint:     google.Endpoint,
		},
		userInfoURL: cfg.UserInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	if v.userInfoURL == "" {
		v.userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify exchanges code. The code must have been issued to the configured client, so
// audience has to match its id.
func (v *GoogleCodeVerifier) Verify(ctx context.Context, code, audience string) (Claims, error) {
	if code == "" {
		return Claims{}, ErrInvalidAssertion
	}
	if audience != v.conf.ClientID {
		return Claims{}, ErrAudienceMismatch
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	tok, err := v.conf.Exchange(ctx, code)
	if err != nil {
		return Claims{}, errors.Join(ErrCodeExchange, err)
	}

	u, err := v.fetchUser(ctx, tok.AccessToken)
	if err != nil {
		return Claims{}, errors.Join(ErrProfileFetch, err)
	}
	if u.Email == "" {
		return Claims{}, ErrMissingEmail
	}

	return Claims{
		Subject:       u.ID,
		Email:         u.Email,
		EmailVerified: u.VerifiedEmail,
		Name:          u.Name,
		Picture:       u.Picture,
	}, nil
}

func (v *GoogleCodeVerifier) fetchUser(ctx context.Context, accessToken string) (*googleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned status %d", resp.StatusCode)
	}

	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

var _ Verifier = (*GoogleCodeVerifier)(nil)
