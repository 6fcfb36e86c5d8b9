// Package auth verifies the bearer tokens certificate routes are called with.
//
// Two token families are accepted. Citizen portal tokens arrive in the
// authToken query parameter and identify the holder by the Phone claim.
// Keycloak tokens arrive in the Authorization header and identify the
// operator by preferred_username. Both are RS256 signed.
package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "certificate-api/pkg/domain-errors"
)

const bearerPrefix = "Bearer "

var ErrKeyNotConfigured = errors.New("verification key not configured")

// CitizenClaims are the claims of a citizen portal token.
type CitizenClaims struct {
	Phone string `json:"Phone"`
	jwt.RegisteredClaims
}

// KeycloakClaims are the claims of a Keycloak access token.
type KeycloakClaims struct {
	PreferredUsername string `json:"preferred_username"`
	jwt.RegisteredClaims
}

// Verifier checks token signatures and extracts the caller identity.
type Verifier struct {
	citizenKey  *rsa.PublicKey
	keycloakKey *rsa.PublicKey
	now         func() time.Time
}

type Option func(*Verifier)

// WithClock overrides the time used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

// NewVerifier builds a verifier. A nil key rejects every token of that family.
func NewVerifier(citizenKey, keycloakKey *rsa.PublicKey, opts ...Option) *Verifier {
	v := &Verifier{citizenKey: citizenKey, keycloakKey: keycloakKey, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ParsePublicKey reads an RSA public key. Keycloak publishes realm keys as
// bare base64 without PEM armour; those are accepted too. An empty input
// yields a nil key.
func ParsePublicKey(key string) (*rsa.PublicKey, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	if !strings.HasPrefix(key, "-----BEGIN") {
		key = "-----BEGIN PUBLIC KEY-----\n" + key + "\n-----END PUBLIC KEY-----"
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("parse rsa public key: %w", err)
	}
	return pub, nil
}

// VerifyCitizen validates a citizen portal token and returns its Phone claim.
func (v *Verifier) VerifyCitizen(token string) (string, error) {
	claims := &CitizenClaims{}
	if err := v.parse(token, v.citizenKey, claims); err != nil {
		return "", err
	}
	if claims.Phone == "" {
		return "", dErrors.New(dErrors.CodeForbidden, "token has no Phone claim")
	}
	return claims.Phone, nil
}

// VerifyKeycloak validates an Authorization header value and returns the
// preferred_username claim.
func (v *Verifier) VerifyKeycloak(authorization string) (string, error) {
	if !strings.HasPrefix(authorization, bearerPrefix) || len(authorization) == len(bearerPrefix) {
		return "", dErrors.New(dErrors.CodeForbidden, "invalid authorization header")
	}
	claims := &KeycloakClaims{}
	if err := v.parse(strings.TrimPrefix(authorization, bearerPrefix), v.keycloakKey, claims); err != nil {
		return "", err
	}
	if claims.PreferredUsername == "" {
		return "", dErrors.New(dErrors.CodeForbidden, "token has no preferred_username claim")
	}
	return claims.PreferredUsername, nil
}

func (v *Verifier) parse(token string, key *rsa.PublicKey, claims jwt.Claims) error {
	if key == nil {
		return dErrors.Wrap(ErrKeyNotConfigured, dErrors.CodeForbidden, "invalid token")
	}
	if token == "" {
		return dErrors.New(dErrors.CodeForbidden, "missing token")
	}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return key, nil
	}, jwt.WithTimeFunc(v.now), jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dErrors.Wrap(err, dErrors.CodeForbidden, "token expired")
		}
		return dErrors.Wrap(err, dErrors.CodeForbidden, "invalid token")
	}
	if !parsed.Valid {
		return dErrors.New(dErrors.CodeForbidden, "invalid token")
	}
	return nil
}
