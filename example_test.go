package goToken_test

import (
	"errors"
	"fmt"
	"time"

	goToken "github.com/MrEthical07/goToken"
)

type sessionSubject struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

func (sessionSubject) TTL() time.Duration { return 30 * time.Minute }
func (sessionSubject) Secret() []byte     { return []byte("example-secret") }

func fixedClock() time.Time {
	return time.Unix(1_700_000_000, 0)
}

func Example() {
	clock := goToken.WithClock(fixedClock)

	enc, err := goToken.New(sessionSubject{UserID: "u-1", Role: "admin"}, clock).Encode()
	if err != nil {
		fmt.Println("encode:", err)
		return
	}

	dec, err := goToken.FromString[sessionSubject](enc.String()).Decode(clock)
	if err != nil {
		fmt.Println("decode:", err)
		return
	}

	env := dec.Envelope()
	fmt.Println(dec.Subject().UserID, dec.Subject().Role)
	fmt.Println(env.IssuedAt(), env.ExpiresAt()-env.IssuedAt())
	// Output:
	// u-1 admin
	// 1700000000 1800
}

func ExampleEncoded_Decode_expired() {
	issuedAt := goToken.WithClock(fixedClock)
	later := goToken.WithClock(func() time.Time { return fixedClock().Add(time.Hour) })

	enc, err := goToken.Issue(sessionSubject{UserID: "u-1"}, issuedAt)
	if err != nil {
		fmt.Println("issue:", err)
		return
	}

	_, err = enc.Decode(later)
	fmt.Println(errors.Is(err, goToken.ErrVerification), goToken.IsExpired(err))
	// Output:
	// true true
}

func ExampleManager() {
	cfg := goToken.DefaultConfig()
	cfg.Metrics.Enabled = true

	manager, err := goToken.NewManager[sessionSubject](cfg, goToken.WithClock(fixedClock))
	if err != nil {
		fmt.Println("manager:", err)
		return
	}

	enc, _ := manager.Issue(sessionSubject{UserID: "u-2"})
	dec, _ := manager.Verify(enc.String())
	_, err = manager.Verify(enc.String() + "x")

	snapshot := manager.MetricsSnapshot()
	fmt.Println(dec.Subject().UserID, err != nil)
	fmt.Println(snapshot.Counters[goToken.MetricVerifySuccess], snapshot.Counters[goToken.MetricVerifyFailure])
	// Output:
	// u-2 true
	// 1 1
}
