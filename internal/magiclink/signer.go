// Package magiclink issues stateless share tokens that embed the audit itself,
// so a report can be shared without a row in the report store.
package magiclink

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalid covers malformed tokens, bad signatures and unexpected algorithms.
	ErrInvalid = errors.New("invalid magic link")
	// ErrExpired means the token was valid but its lifetime has passed.
	ErrExpired = errors.New("magic link expired")
)

// Payload is the report carried inside a magic link.
type Payload struct {
	AuditResult    json.RawMessage `json:"auditResult"`
	LighthouseData json.RawMessage `json:"lighthouseData,omitempty"`
	Website        string          `json:"website"`
}

type claims struct {
	Payload
	jwt.RegisteredClaims
}

// Token is a verified magic link.
type Token struct {
	Payload
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Signer signs and verifies HS256 magic links.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner creates a Signer whose tokens live for ttl.
func NewSigner(secret []byte, ttl time.Duration) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("magic link secret is empty")
	}

	if ttl <= 0 {
		return nil, fmt.Errorf("magic link ttl must be positive, got %s", ttl)
	}

	return &Signer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the signer using now as its time source.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	c := *s
	c.now = now

	return &c
}

// Sign returns a compact JWT carrying p.
func (s *Signer) Sign(p Payload) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Payload: p,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign magic link: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and lifetime of raw.
func (s *Signer) Verify(raw string) (*Token, error) {
	var c claims

	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}

		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	t := &Token{Payload: c.Payload}

	if c.IssuedAt != nil {
		t.IssuedAt = c.IssuedAt.Time
	}

	if c.ExpiresAt != nil {
		t.ExpiresAt = c.ExpiresAt.Time
	}

	return t, nil
}
