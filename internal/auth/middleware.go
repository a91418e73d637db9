// Package auth provides bearer-token authentication for the user service
// HTTP API.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Adarsh-2019/user-service/internal/domain"
)

// TokenValidator verifies a bearer token and recovers the bound subject.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// principalCtxKey is the context key for the authenticated principal.
type principalCtxKey struct{}

// Principal is the identity recovered from a validated token. The token is
// self-contained: no store lookup happens here, and no further trust
// decisions are made by this package.
type Principal struct {
	// Username is the subject the token was issued for.
	Username string
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(Principal)
	return p, ok
}

// Middleware creates a middleware that requires a valid bearer token.
// Expired and invalid tokens are both rejected with 401, but with distinct
// error codes so clients can decide whether to prompt re-login.
func Middleware(validator TokenValidator, logger zerolog.Logger) func(http.Handler) http.Handler {
	log := logger.With().Str("component", "auth").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, "missing bearer token", "token_invalid")
				return
			}

			subject, err := validator.Validate(tokenString)
			if err != nil {
				log.Debug().Err(err).Msg("token rejected")
				if errors.Is(err, domain.ErrTokenExpired) {
					writeUnauthorized(w, "token expired", "token_expired")
				} else {
					writeUnauthorized(w, "invalid token", "token_invalid")
				}
				return
			}

			ctx := context.WithValue(r.Context(), principalCtxKey{}, Principal{Username: subject})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func writeUnauthorized(w http.ResponseWriter, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}
