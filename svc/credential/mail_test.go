package credential

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLinks(t *testing.T) {
	t.Parallel()
	l := Links{APIBaseURL: "https://api.example.com/", ClientURL: "https://app.example.com"}

	assert.Equal(t,
		"https://api.example.com/api/v1/auth/verify-email?email=a%2Bb%40x.com&token=abc",
		l.VerifyEmail("abc", "a+b@x.com"))
	assert.Equal(t,
		"https://app.example.com/auth/reset?email=a%40x.com&token=abc",
		l.ResetPassword("abc", "a@x.com"))
	assert.Equal(t, "https://app.example.com/auth/verified?status=success", l.Verified(true))
	assert.Equal(t, "https://app.example.com/auth/verified?status=failed", l.Verified(false))
}

func TestHumanizeTTL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: time.Hour, want: "1 hour"},
		{in: 24 * time.Hour, want: "24 hours"},
		{in: 30 * time.Minute, want: "30 minutes"},
		{in: time.Minute, want: "1 minute"},
		{in: 90 * time.Second, want: "1m30s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeTTL(tt.in))
	}
}
