package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed session token")
	ErrExpiredToken   = errors.New("session token has expired")
)

// SessionClaims are the claims the CMS puts in its session JWTs. The subject
// carries the CMS user id.
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Inspector reads claims out of CMS session tokens. The CMS owns the signing
// key, so the gateway never verifies signatures; it only extracts expiry and
// subject to short-circuit sessions that are already known to be dead. The
// CMS remains the authority on token validity.
type Inspector struct {
	parser *jwt.Parser
}

func NewInspector() *Inspector {
	return &Inspector{parser: jwt.NewParser()}
}

// Claims decodes the token without signature verification.
func (i *Inspector) Claims(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if _, _, err := i.parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// CheckExpiry returns ErrExpiredToken when the token carries an exp claim in
// the past, ErrMalformedToken when it cannot be decoded at all.
func (i *Inspector) CheckExpiry(tokenString string, now time.Time) error {
	claims, err := i.Claims(tokenString)
	if err != nil {
		return err
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
		return ErrExpiredToken
	}
	return nil
}
