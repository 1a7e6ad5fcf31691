package federated

import (
	"context"
	"strings"
)

// Claims is what a verified assertion says about the person.
type Claims struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// Verifier authenticates an assertion issued for audience.
type Verifier interface {
	Verify(ctx context.Context, assertion, audience string) (Claims, error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, assertion, audience string) (Claims, error)

func (f VerifierFunc) Verify(ctx context.Context, assertion, audience string) (Claims, error) {
	return f(ctx, assertion, audience)
}

// ByShape sends compact JWTs to idToken and everything else to code. A nil branch makes
// that shape fail with ErrNotConfigured.
func ByShape(idToken, code Verifier) Verifier {
	return VerifierFunc(func(ctx context.Context, assertion, audience string) (Claims, error) {
		v := code
		if strings.Count(assertion, ".") == 2 {
			v = idToken
		}
		if v == nil {
			return Claims{}, ErrNotConfigured
		}
		return v.Verify(ctx, assertion, audience)
	})
}
