// Package tokencodec issues single-use opaque tokens for out-of-band flows such as
// email verification and password reset.
//
// A token is 32 bytes read from crypto/rand and hex-encoded. Only its SHA-256 digest is
// meant to be persisted; the plaintext travels to the user (usually inside a link) and is
// compared later by digest, never by value.
//
// # Usage
//
//	codec := tokencodec.New(tokencodec.WithTTL(time.Hour))
//
//	issued, err := codec.Issue()
//	if err != nil {
//		return err
//	}
//	// store issued.Digest and issued.ExpiresAt, send issued.Plaintext
//
//	// later, when the user presents the token
//	digest := codec.DigestOf(presented)
//
// The digest is unkeyed: it protects a leaked database from yielding usable tokens, which
// is all a high-entropy random token needs.
package tokencodec
