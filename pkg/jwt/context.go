package jwt

import "context"

type contextKey struct{ name string }

func (c contextKey) String() string { return c.name }

var (
	tokenContextKey  = &contextKey{name: "jwt"}
	claimsContextKey = &contextKey{name: "jwt_claims"}
)

func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}

func SetClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// SubjectFromContext returns the verified subject set by Middleware.
func SubjectFromContext(ctx context.Context) (string, bool) {
	claims, ok := GetClaims(ctx)
	if !ok || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
