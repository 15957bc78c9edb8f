// Package auth issues and verifies host credentials: bcrypt password
// hashes and HS256 bearer tokens whose subject is the host id.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned for missing, malformed or expired tokens.
var ErrUnauthorized = errors.New("unauthorized")

// Tokens signs and parses host tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token issuer with the given secret and lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for hostID and its expiry.
func (t *Tokens) Issue(hostID int64) (string, time.Time, error) {
	issued := t.now()
	expires := issued.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(hostID, 10),
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies a token and returns the host id it was issued for.
func (t *Tokens) Parse(raw string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	hostID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || hostID <= 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrUnauthorized)
	}
	return hostID, nil
}
