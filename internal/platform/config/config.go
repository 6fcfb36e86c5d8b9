// Package config loads process configuration from the environment and
// projects it into the settings each component takes.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"certificate-api/internal/platform/database"
	"certificate-api/internal/platform/redis"
	"certificate-api/internal/presentation/payload"
)

// Registry backends.
const (
	RegistryModeHTTP     = "http"
	RegistryModePostgres = "postgres"
)

// Env is the flat environment of the service. Signing keys and issuing
// metadata are optional here; the payload builder reports them missing per
// request instead.
type Env struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
	DisplayTimezone string        `envconfig:"DISPLAY_TIMEZONE" default:"Asia/Kolkata"`

	RegistryMode    string        `envconfig:"REGISTRY_MODE" default:"http" validate:"oneof=http postgres"`
	RegistryURL     string        `envconfig:"REGISTRY_URL" validate:"required_if=RegistryMode http"`
	RegistryTimeout time.Duration `envconfig:"REGISTRY_TIMEOUT" default:"5s"`
	RegistryRetries uint64        `envconfig:"REGISTRY_RETRIES" default:"2"`
	DatabaseURL     string        `envconfig:"DATABASE_URL" validate:"required_if=RegistryMode postgres"`
	DBMaxOpenConns  int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns  int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`

	RendererURL     string        `envconfig:"RENDERER_URL" default:"http://localhost:3000" validate:"url"`
	RendererTimeout time.Duration `envconfig:"RENDERER_TIMEOUT" default:"20s"`

	DCCSignerURL     string `envconfig:"DCC_SIGNER_URL" default:"http://localhost:8081"`
	FHIRConverterURL string `envconfig:"FHIR_CONVERTER_URL" default:"http://localhost:8082"`

	KafkaBootstrapServers string `envconfig:"KAFKA_BOOTSTRAP_SERVERS"`
	EventsTopic           string `envconfig:"EVENTS_TOPIC" default:"events"`

	RedisURL        string        `envconfig:"REDIS_URL"`
	RateLimit       int           `envconfig:"RATE_LIMIT" default:"60" validate:"gte=0"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	CitizenPublicKey  string `envconfig:"CITIZEN_PUBLIC_KEY"`
	KeycloakPublicKey string `envconfig:"KEYCLOAK_PUBLIC_KEY"`

	DiseaseCode           string `envconfig:"DISEASE_CODE"`
	PublicHealthAuthority string `envconfig:"PUBLIC_HEALTH_AUTHORITY"`
	CertificateIssuer     string `envconfig:"CERTIFICATE_ISSUER"`
	EUCertificateExpiry   int    `envconfig:"EU_CERTIFICATE_EXPIRY"`
	SHCCertificateExpiry  int    `envconfig:"SHC_CERTIFICATE_EXPIRY"`
	PrivateKeyPEM         string `envconfig:"CERTIFICATE_PRIVATE_KEY"`
	EUPrivateKeyPEM       string `envconfig:"EU_CERTIFICATE_PRIVATE_KEY"`
	EUPublicKeyP8         string `envconfig:"EU_CERTIFICATE_PUBLIC_KEY_P8"`
	SHCPrivateKeyPEM      string `envconfig:"SHC_CERTIFICATE_PRIVATE_KEY"`
}

// Load reads the environment and validates it.
func Load() (Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("load environment: %w", err)
	}
	if err := env.Validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

func (e Env) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(e); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	if _, err := time.LoadLocation(e.DisplayTimezone); err != nil {
		return fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}
	return nil
}

// Location is the display location for certificate dates.
func (e Env) Location() *time.Location {
	loc, err := time.LoadLocation(e.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (e Env) Payload() payload.Config {
	return payload.Config{
		DCC: payload.DCCConfig{
			ExpiryMonths:          e.EUCertificateExpiry,
			PublicHealthAuthority: e.PublicHealthAuthority,
			PublicKeyP8:           e.EUPublicKeyP8,
			PrivateKeyPEM:         e.EUPrivateKeyPEM,
		},
		SHC: payload.SHCConfig{
			ExpiryMonths:  e.SHCCertificateExpiry,
			Issuer:        e.CertificateIssuer,
			PrivateKeyPEM: e.SHCPrivateKeyPEM,
		},
		FHIR: payload.FHIRConfig{
			DiseaseCode:           e.DiseaseCode,
			PublicHealthAuthority: e.PublicHealthAuthority,
			PrivateKeyPEM:         e.PrivateKeyPEM,
		},
	}
}

func (e Env) Database() database.Config {
	cfg := database.DefaultConfig()
	cfg.URL = e.DatabaseURL
	if e.DBMaxOpenConns > 0 {
		cfg.MaxOpenConns = e.DBMaxOpenConns
	}
	if e.DBMaxIdleConns > 0 {
		cfg.MaxIdleConns = e.DBMaxIdleConns
	}
	return cfg
}

func (e Env) Redis() redis.Config {
	return redis.Config{
		URL:          e.RedisURL,
		PoolSize:     10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
}

// RateLimited reports whether certificate routes are rate limited.
func (e Env) RateLimited() bool {
	return e.RedisURL != "" && e.RateLimit > 0
}
