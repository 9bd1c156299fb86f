package goToken

import (
	"errors"

	"github.com/MrEthical07/goToken/jwt"
)

var (
	// ErrSigning is returned by Encode when the signing primitive fails. It wraps
	// the underlying cause.
	ErrSigning = errors.New("token signing failed")
	// ErrVerification is returned by Decode when a token string is rejected: bad
	// signature, malformed or undeserializable body, wrong algorithm, expired or
	// not yet valid. It wraps the underlying cause.
	ErrVerification = errors.New("token verification failed")
)

// IsExpired reports whether err is a verification failure caused by expiry.
func IsExpired(err error) bool {
	return errors.Is(err, ErrVerification) && errors.Is(err, jwt.ErrTokenExpired)
}

// IsSignatureInvalid reports whether err is a verification failure caused by a
// signature mismatch.
func IsSignatureInvalid(err error) bool {
	return errors.Is(err, ErrVerification) && errors.Is(err, jwt.ErrTokenSignatureInvalid)
}

// IsMalformed reports whether err is a verification failure caused by a token
// that could not be split, base64-decoded or deserialized.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrVerification) && errors.Is(err, jwt.ErrTokenMalformed)
}
