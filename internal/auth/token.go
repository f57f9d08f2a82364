// Package auth provides password hashing, session tokens, and the
// authentication middleware.
//
// SESSION TOKEN DESIGN:
// The session cookie value is a signed JWT (HS256). Unlike a pure-JWT setup,
// the token is NOT self-sufficient: its ID claim (jti) is a server-side
// session id that must still resolve in the session store. The signature
// stops tampering; the store lookup gives us revocation (logout, restart).
//
// Claims layout:
//
//	sub → user id
//	jti → session id (session.Store key)
//	exp → issuance + session TTL
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "snippetvault"

// SessionTTL is the fixed session lifetime: one hour from issuance.
const SessionTTL = time.Hour

// TokenService signs and verifies session tokens.
// It holds the HMAC secret; the same secret must verify what it signed.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. SESSION_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Generate signs a token binding sessionID to userID, expiring after
// SessionTTL. The expiry here matches the store-side expiry, so either
// check alone would reject a stale cookie.
func (s *TokenService) Generate(sessionID, userID string) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token string, returning the session id and
// user id it encodes.
//
// The jwt library checks the signature, the expiry, and the issuer. Passing
// WithValidMethods pins the algorithm to HS256 — without it, an attacker
// could try an algorithm-confusion token ("alg":"none" and friends).
func (s *TokenService) Validate(tokenStr string) (sessionID, userID string, err error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", fmt.Errorf("auth: token expired")
		}
		return "", "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("auth: invalid token claims")
	}
	if c.ID == "" || c.Subject == "" {
		return "", "", fmt.Errorf("auth: token missing session or subject claim")
	}

	return c.ID, c.Subject, nil
}
