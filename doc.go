// Package goToken provides typestate tokens: signed, self-describing JWT-style
// tokens whose payload type is fixed at compile time.
//
// A payload type opts in by implementing [Subject], which binds a lifetime and an
// HMAC secret to the type itself. Tokens then move between two distinct types:
//
//   - [Decoded] holds an [Envelope] (subject, iat, exp) that was created locally
//     with [New] or verified by [Encoded.Decode].
//   - [Encoded] holds only an opaque signed string, produced by [Decoded.Encode]
//     or wrapped from outside with [FromString].
//
// The only way from a string to a subject is Decode, and Decode is directed by the
// subject type the caller names, which also selects the secret that checks the
// signature:
//
//	enc, err := goToken.Issue(UserSubject{ID: "u1"})
//	...
//	dec, err := goToken.Parse[UserSubject](enc.String())
//	if err != nil {
//	    // errors.Is(err, goToken.ErrVerification)
//	}
//	user := dec.Subject()
//
// [Manager] wraps the same transitions with a validated [Config] and lock-free
// [Metrics]; [WithDecoded] and [DecodedFromContext] carry verified tokens through
// request contexts.
//
// # Architecture boundaries
//
// Signing and verification are delegated to the jwt sub-package, which adapts
// github.com/golang-jwt/jwt/v5. Persistence lives in store, HTTP integration in
// middleware, and metric exposition under metrics/export.
//
// # What this package must NOT do
//
//   - Log, retry, or perform I/O; failures are plain return values.
//   - Keep secrets or TTLs in mutable package-level state.
//   - Import store, middleware, or any exporter package (no import cycles).
package goToken
