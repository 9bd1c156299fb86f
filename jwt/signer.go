package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Algorithm names the HMAC variant used to sign a token.
type Algorithm string

const (
	// HS256 is HMAC-SHA256, the default header algorithm.
	HS256 Algorithm = "HS256"
	// HS384 is HMAC-SHA384.
	HS384 Algorithm = "HS384"
	// HS512 is HMAC-SHA512.
	HS512 Algorithm = "HS512"
)

// DefaultLeeway is the clock-skew tolerance goToken applies unless configured
// otherwise.
const DefaultLeeway = 60 * time.Second

// Errors surfaced by the underlying primitive. They are re-exported so callers
// can match verification causes without importing golang-jwt directly.
var (
	ErrTokenMalformed        = jwt.ErrTokenMalformed
	ErrTokenSignatureInvalid = jwt.ErrTokenSignatureInvalid
	ErrTokenExpired          = jwt.ErrTokenExpired
	ErrTokenUsedBeforeIssued = jwt.ErrTokenUsedBeforeIssued
	ErrTokenInvalidClaims    = jwt.ErrTokenInvalidClaims
	ErrTokenUnverifiable     = jwt.ErrTokenUnverifiable

	// ErrUnsupportedAlgorithm is returned for algorithms outside the HS family.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// Policy controls how Verify validates a token.
//
// The zero value verifies HS256 tokens against time.Now without any leeway.
type Policy struct {
	Algorithm Algorithm
	// Leeway tolerates clock skew between issuer and verifier. Values <= 0 disable
	// the tolerance.
	Leeway time.Duration
	Now    func() time.Time
}

// Valid reports whether alg is one of the supported HMAC algorithms.
func (alg Algorithm) Valid() bool {
	switch alg {
	case HS256, HS384, HS512:
		return true
	default:
		return false
	}
}

func (alg Algorithm) method() (jwt.SigningMethod, error) {
	switch alg {
	case "", HS256:
		return jwt.SigningMethodHS256, nil
	case HS384:
		return jwt.SigningMethodHS384, nil
	case HS512:
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
}

// Sign serializes claims as the token body and signs header and body with key.
func Sign(alg Algorithm, claims jwt.Claims, key []byte) (string, error) {
	method, err := alg.method()
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(method, claims)
	return token.SignedString(key)
}

// Verify parses tokenStr, checks its signature with key and validates exp and iat
// according to policy. On success the body has been decoded into dst.
//
// exp is required. Base64 segments are decoded strictly so that altering any
// character of the signature cannot be absorbed by padding bits.
func Verify(tokenStr string, key []byte, policy Policy, dst jwt.Claims) error {
	method, err := policy.Algorithm.method()
	if err != nil {
		return err
	}

	parser := jwt.NewParser(policy.options(method)...)
	token, err := parser.ParseWithClaims(tokenStr, dst, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != method.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return key, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrTokenInvalidClaims
	}

	return nil
}

func (p Policy) options(method jwt.SigningMethod) []jwt.ParserOption {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
	}
	if p.Leeway > 0 {
		options = append(options, jwt.WithLeeway(p.Leeway))
	}
	if p.Now != nil {
		options = append(options, jwt.WithTimeFunc(p.Now))
	}
	return options
}
