package account

import "time"

// Config holds HTTP settings for the account routes. Every client IP may send
// RateLimit requests per RateWindow.
type Config struct {
	RateLimit  int           `env:"AUTH_RATE_LIMIT" envDefault:"20"`
	RateWindow time.Duration `env:"AUTH_RATE_WINDOW" envDefault:"1m"`
}
