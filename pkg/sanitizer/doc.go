// Package sanitizer normalizes user supplied strings before they are validated or stored.
//
//	email := sanitizer.NormalizeEmail(in.Email)     // "  Alice@Example.COM " -> "alice@example.com"
//	name := sanitizer.DisplayName(in.DisplayName)   // "<b>Zoë</b>  Smith" -> "Zoë Smith"
//
// Sanitizers never fail; validation runs on their output.
package sanitizer
