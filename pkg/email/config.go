package email

// Config holds email settings. Postmark tokens may be empty in development, in which case
// NewSender falls back to DevSender writing into DevDir.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

// UsePostmark reports whether both Postmark tokens are configured.
func (c Config) UsePostmark() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}
