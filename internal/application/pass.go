package application

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PassPayload is the JSON document carried inside a visitor pass QR code.
type PassPayload struct {
	Name             string `json:"name"`
	Address          string `json:"address"`
	ContactNum       string `json:"contactNum"`
	HomeOwnerToVisit string `json:"homeOwnerToVisit"`
	PurposeOfVisit   string `json:"purposeOfVisit"`
	ExpirationTime   int64  `json:"expirationTime"`
	QRID             string `json:"qrId"`
	Signature        string `json:"sig,omitempty"`
}

// UnmarshalJSON also accepts contactNumber, the key used by visitor log records.
func (p *PassPayload) UnmarshalJSON(data []byte) error {
	type plain PassPayload
	var decoded struct {
		plain
		ContactNumber string `json:"contactNumber"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = PassPayload(decoded.plain)
	if p.ContactNum == "" {
		p.ContactNum = decoded.ContactNumber
	}
	return nil
}

// ExpiresAt converts the epoch-ms expiration time.
func (p PassPayload) ExpiresAt() time.Time {
	return time.UnixMilli(p.ExpirationTime).UTC()
}

// Expired reports whether now is strictly past the expiration time.
func (p PassPayload) Expired(now time.Time) bool {
	return now.UnixMilli() > p.ExpirationTime
}

// VisitorLog builds the time in record for this pass.
func (p PassPayload) VisitorLog(timeIn time.Time) VisitorLog {
	return VisitorLog{
		ID:               p.QRID,
		Name:             p.Name,
		Address:          p.Address,
		ContactNumber:    p.ContactNum,
		HomeOwnerToVisit: p.HomeOwnerToVisit,
		PurposeOfVisit:   p.PurposeOfVisit,
		TimeIn:           timeIn,
	}
}

// ParsePass decodes scanned QR text. Anything that is not a usable pass wraps ErrInvalidPass.
func ParsePass(raw string) (PassPayload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PassPayload{}, fmt.Errorf("%w: empty content", ErrInvalidPass)
	}
	var payload PassPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return PassPayload{}, fmt.Errorf("%w: %v", ErrInvalidPass, err)
	}
	switch {
	case strings.TrimSpace(payload.QRID) == "":
		return PassPayload{}, fmt.Errorf("%w: missing qrId", ErrInvalidPass)
	case payload.ExpirationTime <= 0:
		return PassPayload{}, fmt.Errorf("%w: missing expirationTime", ErrInvalidPass)
	case strings.TrimSpace(payload.Name) == "":
		return PassPayload{}, fmt.Errorf("%w: missing name", ErrInvalidPass)
	}
	return payload, nil
}

// PassSigner adds and checks an HMAC-SHA256 signature over the payload without its sig field.
type PassSigner struct {
	secret   []byte
	required bool
}

// NewPassSigner returns a signer. With required set, unsigned passes are rejected.
func NewPassSigner(secret string, required bool) *PassSigner {
	return &PassSigner{secret: []byte(secret), required: required}
}

// Sign returns a copy of the payload carrying its signature. Without a secret the payload is returned unsigned.
func (s *PassSigner) Sign(payload PassPayload) (PassPayload, error) {
	payload.Signature = ""
	if s == nil || len(s.secret) == 0 {
		return payload, nil
	}
	sig, err := s.signature(payload)
	if err != nil {
		return PassPayload{}, err
	}
	payload.Signature = sig
	return payload, nil
}

// Verify checks a present signature and enforces one when required.
func (s *PassSigner) Verify(payload PassPayload) error {
	if s == nil {
		return nil
	}
	if payload.Signature == "" {
		if s.required {
			return fmt.Errorf("%w: unsigned pass", ErrInvalidPass)
		}
		return nil
	}
	if len(s.secret) == 0 {
		return fmt.Errorf("%w: signature cannot be checked", ErrInvalidPass)
	}

	given, err := base64.RawURLEncoding.DecodeString(payload.Signature)
	if err != nil {
		return fmt.Errorf("%w: malformed signature", ErrInvalidPass)
	}
	payload.Signature = ""
	expected, err := s.mac(payload)
	if err != nil {
		return err
	}
	if !hmac.Equal(given, expected) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalidPass)
	}
	return nil
}

func (s *PassSigner) signature(payload PassPayload) (string, error) {
	sum, err := s.mac(payload)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sum), nil
}

func (s *PassSigner) mac(payload PassPayload) ([]byte, error) {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode pass: %w", err)
	}
	h := hmac.New(sha256.New, s.secret)
	h.Write(canonical)
	return h.Sum(nil), nil
}

// HomeownerPass is the resident code card content.
type HomeownerPass struct {
	Name string `json:"name"`
	Code string `json:"code"`
}
