// Package jwt issues and verifies session tokens.
//
// Tokens are HS256 signed with golang-jwt. The subject carries the account id; the expiry
// defaults to 30 days. Middleware reads an "Authorization: Bearer" header, verifies the
// token and stores the claims in the request context.
//
//	svc, err := jwt.NewFromString(cfg.JWTSecret, jwt.WithIssuer("expensekit"))
//	if err != nil {
//		return err
//	}
//
//	token, expiresAt, err := svc.Issue(account.ID.String())
//
//	r.With(jwt.Middleware(svc)).Get("/me", func(w http.ResponseWriter, r *http.Request) {
//		subject, ok := jwt.SubjectFromContext(r.Context())
//		...
//	})
package jwt
