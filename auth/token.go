// Package auth signs session tokens and checks the admin key.
//
// A session token is an HS256 JWT whose "sid" claim names the game session
// it unlocks. Tokens are only enforced when the server has a secret.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingToken = errors.New("missing token")
	ErrWrongSession = errors.New("token does not match session")
)

// DefaultTTL is how long a session token stays valid
const DefaultTTL = 24 * time.Hour

const issuerName = "solitaire"

// SessionClaims are the claims carried by a session token
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with a shared secret
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an issuer for secret. A zero ttl means DefaultTTL.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth: empty secret")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for sessionID
func (i *Issuer) Issue(sessionID string) (string, error) {
	now := i.now()
	claims := SessionClaims{
		SessionID: strings.ToLower(sessionID),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses token and returns its claims
func (i *Issuer) Verify(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("%w: no session claim", ErrInvalidToken)
	}
	return claims, nil
}

// Authorize checks that token is valid and was issued for sessionID
func (i *Issuer) Authorize(token, sessionID string) error {
	if token == "" {
		return ErrMissingToken
	}
	claims, err := i.Verify(token)
	if err != nil {
		return err
	}
	if !strings.EqualFold(claims.SessionID, sessionID) {
		return ErrWrongSession
	}
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header,
// falling back to the "token" query parameter used by websocket clients.
func BearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return r.URL.Query().Get("token")
}
