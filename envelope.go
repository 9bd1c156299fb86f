package goToken

import "time"

// Envelope wraps a subject with the issued-at and expiry timestamps that are
// signed alongside it. Timestamps are unix seconds and immutable once built.
type Envelope[S Subject] struct {
	subject   S
	issuedAt  int64
	expiresAt int64
}

// NewEnvelope stamps subject with now as issued-at and now + S.TTL() as expiry.
// The TTL is truncated to whole seconds, so ExpiresAt()-IssuedAt() equals the
// TTL in seconds exactly.
func NewEnvelope[S Subject](subject S, now time.Time) Envelope[S] {
	iat := now.Unix()
	return Envelope[S]{
		subject:   subject,
		issuedAt:  iat,
		expiresAt: iat + int64(ttlOf[S]()/time.Second),
	}
}

// Subject returns the wrapped payload.
func (e Envelope[S]) Subject() S {
	return e.subject
}

// IssuedAt returns the iat timestamp in unix seconds.
func (e Envelope[S]) IssuedAt() int64 {
	return e.issuedAt
}

// ExpiresAt returns the exp timestamp in unix seconds.
func (e Envelope[S]) ExpiresAt() int64 {
	return e.expiresAt
}

// IssuedTime returns IssuedAt as a time.Time.
func (e Envelope[S]) IssuedTime() time.Time {
	return time.Unix(e.issuedAt, 0)
}

// ExpiresTime returns ExpiresAt as a time.Time.
func (e Envelope[S]) ExpiresTime() time.Time {
	return time.Unix(e.expiresAt, 0)
}
