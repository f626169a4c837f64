package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether the record's access token is known to be
// expired at now.
//
// Tokens are opaque to this client: verification is the backend's job.
// Only when the token happens to be a well-formed JWT with an "exp"
// claim can expiry be decided locally; everything else reports false and
// is left for the backend to reject.
func (r *Record) TokenExpired(now time.Time) bool {
	if r.Token == "" {
		return false
	}

	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(r.Token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
