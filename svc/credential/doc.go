// Package credential owns the account credential lifecycle: registration with mandatory
// email verification, login gated on verification, password reset and Google sign-in.
//
// Every out-of-band step is backed by a single-use token from pkg/tokencodec. The account
// document keeps one pending token per purpose (email verification, password reset) as a
// digest and an expiry; the plaintext only travels inside the email link. Consuming a
// token is one conditional update in the store, so the same token can never succeed
// twice, even under concurrent requests.
//
// Manager is the entry point. It is constructed with an AccountStore, an email sender and
// a session issuer:
//
//	m := credential.New(store, sender, sessions,
//		credential.WithConfig(cfg),
//		credential.WithFederatedVerifier(verifier, cfg.GoogleClientID),
//		credential.WithLogger(log),
//	)
//
//	res, err := m.Register(ctx, credential.RegisterInput{...})
//
// All failures are sentinel errors from errors.go; match them with errors.Is. Input
// problems are reported as ErrValidation wrapping validator.ValidationErrors.
package credential
