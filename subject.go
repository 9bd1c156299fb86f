package goToken

import (
	"reflect"
	"time"
)

// Subject is the capability contract every token payload type implements.
//
// TTL and Secret are always evaluated on the zero value of the implementing type,
// so they describe the type rather than any instance: every token of a given
// subject type shares one lifetime and one signing secret. Implement both on a
// value receiver and return constants (or values captured at package
// initialization that are never reassigned).
//
// The subject must also marshal to a JSON object with encoding/json; its fields
// become the top-level fields of the token body next to "iat" and "exp".
type Subject interface {
	// TTL is the lifetime of a token from issuance. Negative values are treated
	// as zero.
	TTL() time.Duration
	// Secret is the HMAC key used to sign and verify tokens of this type.
	Secret() []byte
}

// capability returns the value TTL and Secret are called on: the zero value of
// S, or a pointer to a fresh zero element when S is a pointer type, so that
// value-receiver methods promoted to *T never see a nil pointer.
func capability[S Subject]() (S, bool) {
	var zero S
	switch t := reflect.TypeFor[S](); t.Kind() {
	case reflect.Pointer:
		return reflect.New(t.Elem()).Interface().(S), true
	case reflect.Interface:
		return zero, false
	default:
		return zero, true
	}
}

func ttlOf[S Subject]() time.Duration {
	c, ok := capability[S]()
	if !ok {
		return 0
	}
	if ttl := c.TTL(); ttl > 0 {
		return ttl
	}
	return 0
}

func secretOf[S Subject]() ([]byte, error) {
	c, ok := capability[S]()
	if !ok {
		return nil, errInterfaceSubject
	}
	return c.Secret(), nil
}
