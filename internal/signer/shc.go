package signer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-jose/go-jose/v3"
	"github.com/klauspost/compress/flate"

	"certificate-api/internal/presentation/models"
)

const (
	// SHCPrefix is the URI scheme of a numerically packed SMART Health Card.
	SHCPrefix = "shc:/"

	// zipDeflate marks a JWS payload as raw DEFLATE compressed.
	zipDeflate = "DEF"
)

// JWSSigner signs SMART Health Card claims in process.
type JWSSigner struct{}

func NewJWSSigner() *JWSSigner {
	return &JWSSigner{}
}

// SignAndPack compresses claims, signs them as a compact ES256 JWS carrying
// the key's kid and a zip header, and packs the result as a shc:/ URI.
func (s *JWSSigner) SignAndPack(_ context.Context, claims models.SHCClaims, key jose.JSONWebKey) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}
	compressed, err := Deflate(payload)
	if err != nil {
		return "", err
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.ES256, Key: key},
		(&jose.SignerOptions{}).WithHeader("zip", zipDeflate),
	)
	if err != nil {
		return "", fmt.Errorf("create signer: %w", err)
	}
	object, err := signer.Sign(compressed)
	if err != nil {
		return "", fmt.Errorf("sign claims: %w", err)
	}
	compact, err := object.CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("serialize jws: %w", err)
	}
	return PackNumeric(compact), nil
}

// Deflate compresses b as raw DEFLATE with no zlib or gzip framing.
func Deflate(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	return buf.Bytes(), nil
}

// Inflate reverses Deflate.
func Inflate(b []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(b))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return out, nil
}

// PackNumeric encodes a compact JWS in the SMART Health Card numeric mode:
// each character becomes two digits holding its code point minus 45.
func PackNumeric(jws string) string {
	var b strings.Builder
	b.Grow(len(SHCPrefix) + 2*len(jws))
	b.WriteString(SHCPrefix)
	for i := 0; i < len(jws); i++ {
		fmt.Fprintf(&b, "%02d", int(jws[i])-45)
	}
	return b.String()
}

// UnpackNumeric reverses PackNumeric.
func UnpackNumeric(uri string) (string, error) {
	digits, ok := strings.CutPrefix(uri, SHCPrefix)
	if !ok || len(digits)%2 != 0 {
		return "", fmt.Errorf("not a numeric shc uri")
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		hi, lo := digits[i]-'0', digits[i+1]-'0'
		if hi > 9 || lo > 9 {
			return "", fmt.Errorf("not a numeric shc uri")
		}
		out = append(out, hi*10+lo+45)
	}
	return string(out), nil
}
