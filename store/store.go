package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	goToken "github.com/MrEthical07/goToken"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound is returned when a handle is unknown or its entry has expired.
	ErrNotFound = errors.New("token handle not found")
	// ErrRedisUnavailable wraps Redis transport failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
	// ErrAlreadyExpired is returned by Put for tokens whose expiry has passed.
	ErrAlreadyExpired = errors.New("token already expired")
	// ErrInvalidHandle is returned for handles that are not UUIDs.
	ErrInvalidHandle = errors.New("invalid token handle")
)

// Store maps handles to encoded tokens of subject type S.
//
// Store methods are safe for concurrent use when the Redis client is.
type Store[S goToken.Subject] struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

// New returns a Store writing keys of the form "<prefix>:<handle>".
func New[S goToken.Subject](client redis.UniversalClient, prefix string) *Store[S] {
	return &Store[S]{
		redis:  client,
		prefix: prefix,
		now:    time.Now,
	}
}

// WithClock returns a copy of s that computes remaining lifetimes from now.
func (s *Store[S]) WithClock(now func() time.Time) *Store[S] {
	next := *s
	if now != nil {
		next.now = now
	}
	return &next
}

func (s *Store[S]) key(handle string) string {
	return s.prefix + ":" + handle
}

// Put saves token under a fresh handle until expiresAt. Sub-second remainders
// are kept with millisecond precision; only a token at or past expiresAt is
// refused.
func (s *Store[S]) Put(ctx context.Context, token goToken.Encoded[S], expiresAt time.Time) (string, error) {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return "", ErrAlreadyExpired
	}

	handle := uuid.NewString()
	if err := s.redis.Set(ctx, s.key(handle), token.String(), ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return handle, nil
}

// PutDecoded encodes token and saves it until the envelope's expiry.
func (s *Store[S]) PutDecoded(ctx context.Context, token goToken.Decoded[S], opts ...goToken.Option) (string, goToken.Encoded[S], error) {
	enc, err := token.Encode(opts...)
	if err != nil {
		return "", goToken.Encoded[S]{}, err
	}

	handle, err := s.Put(ctx, enc, token.Envelope().ExpiresTime())
	if err != nil {
		return "", goToken.Encoded[S]{}, err
	}
	return handle, enc, nil
}

// Get returns the still-encoded token stored under handle.
func (s *Store[S]) Get(ctx context.Context, handle string) (goToken.Encoded[S], error) {
	if _, err := uuid.Parse(handle); err != nil {
		return goToken.Encoded[S]{}, ErrInvalidHandle
	}

	raw, err := s.redis.Get(ctx, s.key(handle)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return goToken.Encoded[S]{}, ErrNotFound
		}
		return goToken.Encoded[S]{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return goToken.FromString[S](raw), nil
}

// Delete removes handle. Deleting an unknown handle is not an error.
func (s *Store[S]) Delete(ctx context.Context, handle string) error {
	if _, err := uuid.Parse(handle); err != nil {
		return ErrInvalidHandle
	}

	if err := s.redis.Del(ctx, s.key(handle)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping measures a Redis round trip.
func (s *Store[S]) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
