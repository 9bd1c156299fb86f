// Package middleware exposes HTTP middleware that turns an incoming token string
// into a verified goToken.Decoded value in the request context.
//
// # Guards
//
//   - [Require] reads the token from the Authorization bearer header, or from a
//     cookie when configured, verifies it, and stores the decoded token with
//     goToken.WithDecoded.
//   - [SubjectFromRequest] reads the subject back inside a handler.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Verifier calls. It does NOT parse or
// sign tokens itself; every accept/reject decision comes from the Verifier.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to the Verifier).
//   - Leak the verification cause to the client; rejections are a bare 401.
package middleware
