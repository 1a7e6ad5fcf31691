package federated

// GoogleConfig configures Google sign-in. An empty ClientID disables federated login.
type GoogleConfig struct {
	ClientID          string   `env:"GOOGLE_CLIENT_ID"`
	JWKSURL           string   `env:"GOOGLE_JWKS_URL" envDefault:"https://www.googleapis.com/oauth2/v3/certs"`
	OAuthClientSecret string   `env:"GOOGLE_OAUTH_CLIENT_SECRET"`
	OAuthRedirectURL  string   `env:"GOOGLE_OAUTH_REDIRECT_URL" envDefault:"postmessage"`
	OAuthScopes       []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"openid,email,profile"`
	UserInfoURL       string   `env:"GOOGLE_USERINFO_URL" envDefault:"https://www.googleapis.com/oauth2/v2/userinfo"`
}

func (c GoogleConfig) Enabled() bool {
	return c.ClientID != ""
}

// CodeExchangeEnabled reports whether authorization codes can be redeemed.
func (c GoogleConfig) CodeExchangeEnabled() bool {
	return c.ClientID != "" && c.OAuthClientSecret != ""
}
