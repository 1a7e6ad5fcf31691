package credential

import "time"

// Config holds the credential lifecycle settings.
type Config struct {
	AppName         string        `env:"APP_NAME" envDefault:"Expense Tracker"`
	APIBaseURL      string        `env:"APP_BASE_URL,required"`
	ClientURL       string        `env:"CLIENT_URL,required"`
	TokenTTL        time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"1h"`
	SessionTTL      time.Duration `env:"AUTH_SESSION_TTL" envDefault:"720h"`
	BcryptCost      int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`
	StoreTimeout    time.Duration `env:"AUTH_STORE_TIMEOUT" envDefault:"5s"`
	MailTimeout     time.Duration `env:"AUTH_MAIL_TIMEOUT" envDefault:"10s"`
	VerifierTimeout time.Duration `env:"AUTH_VERIFIER_TIMEOUT" envDefault:"5s"`
}
