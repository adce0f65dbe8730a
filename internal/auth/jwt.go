// Package auth provides JWT session tokens and password hashing for the
// playground API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers with a username and password (hash stored in SQLite)
// 2. POST /api/auth/login verifies the password and issues a JWT,
//    delivered as an HttpOnly cookie
// 3. On subsequent API calls, middleware reads the cookie, validates the
//    JWT, and sets the userID in the request context
// 4. Logout clears the cookie; expiry otherwise ends the session
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server stores no session table.
// Everything needed (userID, expiry) travels inside the signed token, and
// the HMAC signature ensures nobody can alter it without the secret key.
// Verification is a signature check, not a database lookup.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "c-playground"

// TokenLifetime is how long a login session lasts. There is no refresh
// endpoint; after expiry the user signs in again. The session cookie's
// MaxAge is derived from this so both expire together.
const TokenLifetime = 24 * time.Hour

// CookieName is the HttpOnly cookie carrying the session token. Shared
// between the login handler that sets it and the middleware that reads it.
const CookieName = "token"

// TokenService handles JWT creation and validation. It holds the HMAC
// secret used to sign and verify; the same secret must serve both, so keep
// it out of source control.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the internal user ID rides in the
// standard "sub" (Subject) field.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given userID.
//
// Signing algorithm: HS256 (HMAC-SHA256). Symmetric signing is the right
// fit for a single-server deployment where issuer and verifier share one
// secret.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, TokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry. Tests use it to
// mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
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

// Validate parses and verifies a JWT string, returning the userID from the
// "sub" claim.
//
// Checks performed: signature, expiry, issuer, and the signing algorithm.
//
// ALGORITHM CONFUSION ATTACK:
// Without pinning the algorithm, an attacker could present a token signed
// with "none" and some parsers would accept it. jwt.WithValidMethods plus
// the method check in the key function close that hole.
func (s *TokenService) Validate(tokenStr string) (string, error) {
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
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
