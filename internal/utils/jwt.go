// Package utils provides helpers for password hashing and token issuing.
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/listora/realty-api/internal/model"
)

// AccessToken is a signed JWT access token together with its expiry.
// Access tokens are short-lived and stateless; nothing about them is
// persisted server-side.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // UTC expiration time
}

// RefreshToken is the raw opaque credential handed to the client. Only a
// SHA-256 hash of Raw is stored in the database.
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// NewAccessToken builds and signs an HS256 JWT for a user. Claims follow
// the API contract: sub (user id), email, role, plus exp and iat.
func NewAccessToken(secret string, u model.User, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns a random opaque token and its expiration. The
// value combines a UUID with 32 bytes of extra entropy so that a leaked
// database dump of hashes cannot be brute-forced.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	tail := make([]byte, 32)
	if _, err := rand.Read(tail); err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: uuid.NewString() + "." + hex.EncodeToString(tail),
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the hex SHA-256 digest of a raw refresh token.
// Only this digest is ever written to the refresh_tokens table.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
