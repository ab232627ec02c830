// Package auth issues and verifies the bearer tokens that identify API
// callers, and provides the gin middleware that turns a valid token into an
// authenticated user id on the request context.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued access token stays valid.
const TokenTTL = 30 * time.Minute

// ErrInvalidToken is returned for malformed, expired or mis-signed tokens,
// and for tokens that carry no subject.
var ErrInvalidToken = errors.New("invalid token")

// Tokens signs and verifies HS256 access tokens.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

// NewTokens creates a token signer/verifier with the given shared secret.
func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret), now: time.Now}
}

// Issue creates a signed access token for the given user.
func (t *Tokens) Issue(userID, email string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the user id it identifies.
func (t *Tokens) Verify(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		// some issuers put the id in a user_id claim instead of sub
		sub, _ = claims["user_id"].(string)
	}
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
