// Package main generates development keys and tokens for the certificate API.
// The keys are throwaway; production tokens come from the citizen portal and
// Keycloak.
package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"certificate-api/internal/auth"
)

const defaultTokenTTL = time.Hour

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	keysCmd := flag.NewFlagSet("keys", flag.ExitOnError)
	keysOut := keysCmd.String("out", "dev-token-key.pem", "Where to write the RSA private key")

	shcCmd := flag.NewFlagSet("shc-key", flag.ExitOnError)

	citizenCmd := flag.NewFlagSet("citizen", flag.ExitOnError)
	citizenKey := citizenCmd.String("key", "dev-token-key.pem", "RSA private key PEM")
	citizenPhone := citizenCmd.String("phone", "9800000001", "Phone claim of the holder")
	citizenTTL := citizenCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	citizenJSON := citizenCmd.Bool("json", false, "Output as JSON")

	keycloakCmd := flag.NewFlagSet("keycloak", flag.ExitOnError)
	keycloakKey := keycloakCmd.String("key", "dev-token-key.pem", "RSA private key PEM")
	keycloakUser := keycloakCmd.String("user", "facility-admin", "preferred_username claim")
	keycloakTTL := keycloakCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	keycloakJSON := keycloakCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "keys":
		_ = keysCmd.Parse(os.Args[2:])
		err = generateKeys(*keysOut)
	case "shc-key":
		_ = shcCmd.Parse(os.Args[2:])
		err = generateSHCKey()
	case "citizen":
		_ = citizenCmd.Parse(os.Args[2:])
		err = citizenToken(*citizenKey, *citizenPhone, *citizenTTL, *citizenJSON)
	case "keycloak":
		_ = keycloakCmd.Parse(os.Args[2:])
		err = keycloakToken(*keycloakKey, *keycloakUser, *keycloakTTL, *keycloakJSON)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - development keys and tokens for certificate-api

Commands:
  keys      Write an RSA key pair and print the public key for CITIZEN_PUBLIC_KEY / KEYCLOAK_PUBLIC_KEY
  shc-key   Print a P-256 key for SHC_CERTIFICATE_PRIVATE_KEY
  citizen   Sign a citizen portal token (authToken query parameter)
  keycloak  Sign a Keycloak access token (Authorization header)

Examples:
  tokengen keys -out dev-token-key.pem
  tokengen citizen -phone 9800000001
  tokengen keycloak -user facility-admin -json`)
}

func generateKeys(out string) error {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return fmt.Errorf("generate rsa key: %w", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("marshal private key: %w", err)
	}
	if err := os.WriteFile(out, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return fmt.Errorf("marshal public key: %w", err)
	}
	fmt.Printf("Private key written to %s\n\n", out)
	fmt.Println("Public key:")
	fmt.Println(base64.StdEncoding.EncodeToString(pub))
	return nil
}

func generateSHCKey() error {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate ec key: %w", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("marshal private key: %w", err)
	}
	fmt.Print(string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})))
	return nil
}

func citizenToken(keyPath, phone string, ttl time.Duration, jsonOutput bool) error {
	claims := auth.CitizenClaims{Phone: phone, RegisteredClaims: registered(ttl)}
	token, err := sign(keyPath, claims)
	if err != nil {
		return err
	}
	return printToken(tokenOutput{
		Token:     token,
		Type:      "citizen",
		ExpiresIn: ttl.String(),
		Usage: map[string]string{
			"pdf": "curl 'http://localhost:8080/certificate/api/certificate/<certificateId>?authToken=<token>'",
		},
	}, jsonOutput)
}

func keycloakToken(keyPath, user string, ttl time.Duration, jsonOutput bool) error {
	claims := auth.KeycloakClaims{PreferredUsername: user, RegisteredClaims: registered(ttl)}
	token, err := sign(keyPath, claims)
	if err != nil {
		return err
	}
	return printToken(tokenOutput{
		Token:     token,
		Type:      "keycloak",
		ExpiresIn: ttl.String(),
		Usage: map[string]string{
			"pdf": "curl -H 'Authorization: Bearer <token>' http://localhost:8080/certificate/api/certificatePDF/<preEnrollmentCode>",
		},
	}, jsonOutput)
}

func registered(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(keyPath string, claims jwt.Claims) (string, error) {
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return "", fmt.Errorf("read key (run 'tokengen keys' first): %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return "", fmt.Errorf("parse key: %w", err)
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

func printToken(out tokenOutput, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	fmt.Printf("%s token (expires in %s)\n\n", out.Type, out.ExpiresIn)
	fmt.Println(out.Token)
	fmt.Println()
	for _, usage := range out.Usage {
		fmt.Println("  " + usage)
	}
	return nil
}
