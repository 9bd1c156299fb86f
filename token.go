package goToken

import (
	"fmt"

	"github.com/MrEthical07/goToken/jwt"
)

// Decoded is a token in its structured state. It holds an envelope that was
// either created locally by [New] or verified by [Encoded.Decode]; there is no
// other way to obtain one.
type Decoded[S Subject] struct {
	env Envelope[S]
}

// Encoded is a token in its opaque state: a signed string whose contents cannot
// be inspected without going through [Encoded.Decode]. Encoded values for
// different subject types are different types, so a token for one subject can
// never be verified as another.
type Encoded[S Subject] struct {
	raw string
}

// New creates a decoded token for subject, stamping iat from the clock and exp
// from S.TTL().
func New[S Subject](subject S, opts ...Option) Decoded[S] {
	o := buildOptions(opts)
	return Decoded[S]{env: NewEnvelope(subject, o.now())}
}

// FromString wraps a token string received from outside. It never fails and does
// not look at s; all checks happen in Decode.
func FromString[S Subject](s string) Encoded[S] {
	return Encoded[S]{raw: s}
}

// Issue is New followed by Encode.
func Issue[S Subject](subject S, opts ...Option) (Encoded[S], error) {
	return New(subject, opts...).Encode(opts...)
}

// Parse is FromString followed by Decode.
func Parse[S Subject](s string, opts ...Option) (Decoded[S], error) {
	return FromString[S](s).Decode(opts...)
}

// Encode serializes the envelope and signs it with S.Secret().
//
// Only the algorithm option is consulted. Errors wrap ErrSigning.
func (d Decoded[S]) Encode(opts ...Option) (Encoded[S], error) {
	o := buildOptions(opts)

	secret, err := secretOf[S]()
	if err != nil {
		return Encoded[S]{}, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	body := &wireClaims[S]{env: d.env}
	raw, err := jwt.Sign(o.algorithm, body, secret)
	if err != nil {
		return Encoded[S]{}, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	return Encoded[S]{raw: raw}, nil
}

// Subject returns the payload.
func (d Decoded[S]) Subject() S {
	return d.env.subject
}

// Envelope returns the payload together with its timestamps.
func (d Decoded[S]) Envelope() Envelope[S] {
	return d.env
}

// Decode verifies the signature with S.Secret() and checks exp and iat against
// the clock, tolerating the configured leeway. Errors wrap ErrVerification.
func (e Encoded[S]) Decode(opts ...Option) (Decoded[S], error) {
	o := buildOptions(opts)

	secret, err := secretOf[S]()
	if err != nil {
		return Decoded[S]{}, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	var body wireClaims[S]
	if err := jwt.Verify(e.raw, secret, o.policy(), &body); err != nil {
		return Decoded[S]{}, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	return Decoded[S]{env: body.env}, nil
}

// String returns the transportable token string.
func (e Encoded[S]) String() string {
	return e.raw
}
