// Package federated verifies third-party identity assertions and reduces them to the
// profile claims the account service trusts.
//
// Two Google verifiers are provided. GoogleIDTokenVerifier checks a Google Sign-In ID token
// (RS256 JWT) against Google's published key set; GoogleCodeVerifier exchanges an OAuth2
// authorization code and reads the userinfo endpoint. ByShape routes between them, since
// browser clients send either form.
//
// A Verifier only proves the assertion is authentic and addressed to us. Whether the
// asserted email may be trusted is a separate decision made by the caller from
// Claims.EmailVerified.
package federated
