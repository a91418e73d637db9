// Package token issues and validates the stateless bearer tokens used by
// the user service. Tokens are HS256-signed JWTs binding a username to an
// expiry; there is no server-side revocation, so a token stays valid until
// its encoded expiry regardless of account state changes.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Adarsh-2019/user-service/internal/domain"
)

// Claims carries the registered JWT claims. The subject is the username.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager issues and validates tokens. The signing key is process-wide
// configuration, loaded once at startup and never rotated mid-process.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a token Manager.
func NewManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue produces a signed token encoding the subject and an expiry.
func (m *Manager) Issue(subject string) (string, error) {
	now := m.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	})

	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature and expiry and returns the subject.
// Returns domain.ErrTokenExpired past the encoded expiry and
// domain.ErrTokenInvalid for signature or format failures, so callers can
// distinguish "prompt re-login" from "reject outright".
func (m *Manager) Validate(tokenString string) (string, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}

	if !tok.Valid {
		return "", domain.ErrTokenInvalid
	}

	return claims.Subject, nil
}
