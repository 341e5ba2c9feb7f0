package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var (
	// ErrNoCredential is returned by stores when nothing has been persisted yet.
	ErrNoCredential = errors.New("auth: no credential stored")
	// ErrLoginRejected marks a login exchange the identity endpoint refused.
	ErrLoginRejected = errors.New("auth: login rejected")
	// ErrUnavailable means no usable credential could be obtained at all.
	ErrUnavailable = errors.New("auth: credential unavailable")
)

// Credential is a bearer token plus the expiry embedded in its claims.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Usable reports whether the credential may still authenticate calls.
// A credential with no decodable expiry is never usable.
func (c Credential) Usable(now time.Time) bool {
	return c.Token != "" && !c.ExpiresAt.IsZero() && now.Before(c.ExpiresAt)
}

// ParseCredential decodes the expiry claim of a raw JWT. The signature
// is not verified: the token is the carrier's own and we only need to
// know when to stop using it.
func ParseCredential(raw string) (Credential, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Credential{}, errors.Wrap(err, "decode token")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Credential{}, errors.Wrap(err, "read exp claim")
	}
	if exp == nil {
		return Credential{}, errors.New("token has no exp claim")
	}

	return Credential{Token: raw, ExpiresAt: exp.Time}, nil
}
