// Package jwt adapts github.com/golang-jwt/jwt/v5 to the narrow signing and
// verification contract used by goToken.
//
// [Sign] turns a claims value and an HMAC secret into a compact token string.
// [Verify] checks algorithm, signature, expiry and issued-at of a token string and
// decodes its body into a caller-supplied claims value.
//
// # What this package must NOT do
//
//   - Import goToken (no upward imports).
//   - Hold keys or any other state between calls.
//   - Log or retry; failures are returned as golang-jwt errors unchanged.
package jwt
