package store

import (
	"context"
	"errors"
	"testing"
	"time"

	goToken "github.com/MrEthical07/goToken"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type storeSubject struct {
	UserID string `json:"uid"`
}

func (storeSubject) TTL() time.Duration { return time.Hour }
func (storeSubject) Secret() []byte     { return []byte("store-test-secret") }

func newStoreTest(t *testing.T) (*Store[storeSubject], *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New[storeSubject](rdb, "tok"), mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func issue(t *testing.T) goToken.Decoded[storeSubject] {
	t.Helper()
	return goToken.New(storeSubject{UserID: "u-1"})
}

func TestPutGetRoundTrip(t *testing.T) {
	store, mr, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	dec := issue(t)
	handle, enc, err := store.PutDecoded(ctx, dec)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := uuid.Parse(handle); err != nil {
		t.Fatalf("expected uuid handle, got %q", handle)
	}
	if !mr.Exists("tok:" + handle) {
		t.Fatalf("expected key tok:%s in redis", handle)
	}
	if ttl := mr.TTL("tok:" + handle); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected ttl within token lifetime, got %s", ttl)
	}

	got, err := store.Get(ctx, handle)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.String() != enc.String() {
		t.Fatalf("expected stored token %q, got %q", enc.String(), got.String())
	}

	verified, err := got.Decode()
	if err != nil {
		t.Fatalf("decode stored token: %v", err)
	}
	if verified.Subject().UserID != "u-1" {
		t.Fatalf("expected subject u-1, got %+v", verified.Subject())
	}
}

func TestGetUnknownHandle(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()

	if _, err := store.Get(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInvalidHandleRejected(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	if _, err := store.Get(ctx, "../../etc"); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("expected ErrInvalidHandle on get, got %v", err)
	}
	if err := store.Delete(ctx, "*"); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("expected ErrInvalidHandle on delete, got %v", err)
	}
}

func TestEntryExpiresWithToken(t *testing.T) {
	store, mr, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	handle, _, err := store.PutDecoded(ctx, issue(t))
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(time.Hour + time.Second)

	if _, err := store.Get(ctx, handle); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestPutRejectsExpiredToken(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()

	enc, err := issue(t).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := store.Put(context.Background(), enc, time.Now().Add(-time.Minute)); !errors.Is(err, ErrAlreadyExpired) {
		t.Fatalf("expected ErrAlreadyExpired, got %v", err)
	}
}

func TestPutKeepsSubSecondRemainder(t *testing.T) {
	store, mr, done := newStoreTest(t)
	defer done()

	enc, err := issue(t).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	expiresAt := time.Now().Add(time.Hour)

	almost := store.WithClock(func() time.Time { return expiresAt.Add(-500 * time.Millisecond) })
	handle, err := almost.Put(context.Background(), enc, expiresAt)
	if err != nil {
		t.Fatalf("expected sub-second remainder to be stored, got %v", err)
	}
	if ttl := mr.TTL("tok:" + handle); ttl <= 0 || ttl > 500*time.Millisecond {
		t.Fatalf("expected ttl of at most 500ms, got %s", ttl)
	}

	atExpiry := store.WithClock(func() time.Time { return expiresAt })
	if _, err := atExpiry.Put(context.Background(), enc, expiresAt); !errors.Is(err, ErrAlreadyExpired) {
		t.Fatalf("expected ErrAlreadyExpired at expiry, got %v", err)
	}
}

func TestPutUsesStoreClock(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()

	enc, err := issue(t).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	expiresAt := time.Now().Add(time.Hour)
	late := store.WithClock(func() time.Time { return expiresAt.Add(time.Second) })

	if _, err := late.Put(context.Background(), enc, expiresAt); !errors.Is(err, ErrAlreadyExpired) {
		t.Fatalf("expected ErrAlreadyExpired from shifted clock, got %v", err)
	}
	if _, err := store.Put(context.Background(), enc, expiresAt); err != nil {
		t.Fatalf("expected original store clock to be unchanged: %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	handle, _, err := store.PutDecoded(ctx, issue(t))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, handle); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, handle); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := store.Get(ctx, handle); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRedisUnavailable(t *testing.T) {
	store, mr, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	if _, err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	mr.Close()

	if _, err := store.Ping(ctx); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on ping, got %v", err)
	}
	if _, _, err := store.PutDecoded(ctx, issue(t)); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on put, got %v", err)
	}
	if _, err := store.Get(ctx, uuid.NewString()); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on get, got %v", err)
	}
}
