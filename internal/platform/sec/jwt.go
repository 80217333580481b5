// Copyright (c) 2026 Kryspinoff. All rights reserved.

package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by [TokenCodec.Decode] for any token that fails
// parsing, signature verification, or expiry checks. Callers must not leak
// the underlying reason to clients.
var ErrInvalidToken = errors.New("sec: invalid token")

// AccessClaims is the payload of a bookstore access token.
//
// The subject is the account's username. The role claim is informational;
// authorization decisions re-read the role from storage.
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec encodes and decodes HMAC-signed access tokens.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenCodec builds a codec for the given HMAC algorithm (HS256, HS384 or
// HS512) and token lifetime.
func NewTokenCodec(secret, algorithm string, ttl time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("sec: secret key must not be empty")
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("sec: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("sec: algorithm %q is not HMAC-based", algorithm)
	}

	return &TokenCodec{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
	}, nil
}

// Encode issues a signed access token for the given username and role.
// It returns the compact token string and its expiry time.
func (c *TokenCodec) Encode(username string, role Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(c.ttl)

	claims := AccessClaims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Decode parses and verifies a compact token string.
//
// Any failure (malformed input, wrong signature, expired token, unexpected
// signing method) satisfies errors.Is with [ErrInvalidToken]; the underlying
// cause stays wrapped so callers can log what actually went wrong without
// leaking it to clients.
func (c *TokenCodec) Decode(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject claim", ErrInvalidToken)
	}

	return claims, nil
}
