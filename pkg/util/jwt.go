package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The shop API owns the signing key; the result is only a hint for the UI.
// Opaque or malformed tokens have no known expiry.
func TokenExpiry(token string) *time.Time {
	if token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time.UTC()
	return &t
}

// TokenExpired reports whether token's exp claim lies before now. Tokens
// without a readable expiry never count as expired.
func TokenExpired(token string, now time.Time) bool {
	exp := TokenExpiry(token)
	return exp != nil && exp.Before(now)
}
