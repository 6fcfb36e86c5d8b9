package payload

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"sync"

	"github.com/go-jose/go-jose/v3"
)

// SigningAlgorithm is the JWS algorithm SMART Health Cards are signed with.
const SigningAlgorithm = jose.ES256

var ErrUnsupportedKey = errors.New("SMART Health Card keys must be P-256 ECDSA private keys")

// DeriveFunc turns PEM key material into a signing JWK.
type DeriveFunc func(pemData string) (jose.JSONWebKey, error)

// KeyCache derives the SMART Health Card signing key on first use and hands
// the same key to every later caller. Concurrent first callers wait for the
// single in-flight derivation. The result, including a failure, is kept for
// the life of the process.
type KeyCache struct {
	load func() (jose.JSONWebKey, error)
}

// NewKeyCache prepares a cache for pemData. Nothing is derived until Key is called.
func NewKeyCache(pemData string, derive DeriveFunc) *KeyCache {
	if derive == nil {
		derive = DeriveJWK
	}
	return &KeyCache{
		load: sync.OnceValues(func() (jose.JSONWebKey, error) {
			return derive(pemData)
		}),
	}
}

// Key returns the derived private signing key.
func (c *KeyCache) Key() (jose.JSONWebKey, error) {
	return c.load()
}

// DeriveJWK parses a PKCS#8 or SEC 1 PEM private key into an ES256 JWK whose
// kid is its RFC 7638 thumbprint.
func DeriveJWK(pemData string) (jose.JSONWebKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return jose.JSONWebKey{}, errors.New("no PEM block found")
	}

	var key any
	var err error
	switch block.Type {
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(block.Bytes)
	default:
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	}
	if err != nil {
		return jose.JSONWebKey{}, fmt.Errorf("parse private key: %w", err)
	}

	ec, ok := key.(*ecdsa.PrivateKey)
	if !ok || ec.Curve != elliptic.P256() {
		return jose.JSONWebKey{}, ErrUnsupportedKey
	}

	jwk := jose.JSONWebKey{Key: ec, Algorithm: string(SigningAlgorithm), Use: "sig"}
	thumbprint, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return jose.JSONWebKey{}, fmt.Errorf("thumbprint: %w", err)
	}
	jwk.KeyID = base64.RawURLEncoding.EncodeToString(thumbprint)
	return jwk, nil
}
