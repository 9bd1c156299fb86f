package goToken

import (
	"time"

	"github.com/MrEthical07/goToken/jwt"
)

// Option adjusts how a single token operation reads the clock, signs or verifies.
type Option func(*options)

type options struct {
	now       func() time.Time
	leeway    time.Duration
	algorithm jwt.Algorithm
}

func defaultOptions() options {
	return options{
		now:       time.Now,
		leeway:    jwt.DefaultLeeway,
		algorithm: jwt.HS256,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithClock replaces time.Now as the time source for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLeeway sets the clock-skew tolerance applied when verifying exp and iat.
// The default is [jwt.DefaultLeeway]; zero or negative disables the tolerance.
func WithLeeway(leeway time.Duration) Option {
	return func(o *options) {
		o.leeway = leeway
	}
}

// WithAlgorithm selects the HMAC algorithm used to sign, and the only algorithm
// accepted when verifying. The default is HS256.
func WithAlgorithm(alg jwt.Algorithm) Option {
	return func(o *options) {
		o.algorithm = alg
	}
}

func (o options) policy() jwt.Policy {
	return jwt.Policy{
		Algorithm: o.algorithm,
		Leeway:    o.leeway,
		Now:       o.now,
	}
}
