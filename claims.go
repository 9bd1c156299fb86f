package goToken

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	claimIssuedAt  = "iat"
	claimExpiresAt = "exp"
)

var (
	errSubjectNotObject = errors.New("subject must serialize to a JSON object")
	errBodyNotObject    = errors.New("token body is not a JSON object")
	errMissingTimestamp = errors.New("token body is missing integer iat or exp")
	errReservedField    = errors.New("subject cannot decode its own token body; fields named iat or exp must hold a unix timestamp")
	errInterfaceSubject = errors.New("subject type must be concrete, not an interface")
)

// wireClaims is the body handed to the signing primitive: the subject's fields
// flattened together with iat and exp.
type wireClaims[S Subject] struct {
	env Envelope[S]
}

var _ gjwt.Claims = (*wireClaims[Subject])(nil)

func (c *wireClaims[S]) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(c.env.subject)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, errSubjectNotObject
	}

	body, err = sjson.SetBytes(body, claimIssuedAt, c.env.issuedAt)
	if err != nil {
		return nil, err
	}
	body, err = sjson.SetBytes(body, claimExpiresAt, c.env.expiresAt)
	if err != nil {
		return nil, err
	}

	// A subject field named iat or exp receives the envelope timestamp on
	// decode, even when omitempty kept it out of the subject's own JSON.
	// Never sign a body the subject type cannot read back.
	var subject S
	if err := json.Unmarshal(body, &subject); err != nil {
		return nil, fmt.Errorf("%w: %w", errReservedField, err)
	}
	return body, nil
}

func (c *wireClaims[S]) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errBodyNotObject
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return errBodyNotObject
	}

	iat := root.Get(claimIssuedAt)
	exp := root.Get(claimExpiresAt)
	if iat.Type != gjson.Number || exp.Type != gjson.Number {
		return errMissingTimestamp
	}

	var subject S
	if err := json.Unmarshal(data, &subject); err != nil {
		return err
	}

	c.env = Envelope[S]{
		subject:   subject,
		issuedAt:  iat.Int(),
		expiresAt: exp.Int(),
	}
	return nil
}

// GetExpirationTime reports exp one nanosecond late: the validator rejects at
// now >= exp+leeway, while a token stays valid up to and including exp+leeway.
// NewNumericDate would truncate the nanosecond away.
func (c *wireClaims[S]) GetExpirationTime() (*gjwt.NumericDate, error) {
	return &gjwt.NumericDate{Time: time.Unix(c.env.expiresAt, 1)}, nil
}

func (c *wireClaims[S]) GetIssuedAt() (*gjwt.NumericDate, error) {
	return gjwt.NewNumericDate(time.Unix(c.env.issuedAt, 0)), nil
}

func (c *wireClaims[S]) GetNotBefore() (*gjwt.NumericDate, error) {
	return nil, nil
}

func (c *wireClaims[S]) GetIssuer() (string, error) {
	return "", nil
}

func (c *wireClaims[S]) GetSubject() (string, error) {
	return "", nil
}

func (c *wireClaims[S]) GetAudience() (gjwt.ClaimStrings, error) {
	return nil, nil
}
