// Package payload maps certificate records onto the claim shapes of the EU
// Digital COVID Certificate, SMART Health Cards and FHIR, and hands them to
// the external signers and converters.
package payload

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-playground/validator/v10"

	"certificate-api/internal/presentation/format"
	"certificate-api/internal/presentation/models"
	dErrors "certificate-api/pkg/domain-errors"
)

// DCCSigner builds, signs and packs an EU DCC CWT into its HC1: URI.
type DCCSigner interface {
	SignAndPack(ctx context.Context, req models.DCCSignRequest) (string, error)
}

// SHCSigner signs SMART Health Card claims and packs them into a shc:/ URI.
type SHCSigner interface {
	SignAndPack(ctx context.Context, claims models.SHCClaims, key jose.JSONWebKey) (string, error)
}

// FHIRConverter converts credentials into FHIR documents.
type FHIRConverter interface {
	FHIRDocument(ctx context.Context, certificate json.RawMessage, privateKeyPEM string, meta models.FHIRMeta) (json.RawMessage, error)
	SmartHealthBundle(ctx context.Context, certificate json.RawMessage) (json.RawMessage, error)
}

// DCCConfig holds what a DCC signature needs. All fields are required.
type DCCConfig struct {
	ExpiryMonths          int    `validate:"gt=0"`
	PublicHealthAuthority string `validate:"required"`
	PublicKeyP8           string `validate:"required"`
	PrivateKeyPEM         string `validate:"required"`
}

// SHCConfig holds what a SMART Health Card signature needs.
type SHCConfig struct {
	ExpiryMonths  int    `validate:"gt=0"`
	Issuer        string `validate:"required"`
	PrivateKeyPEM string `validate:"required"`
}

// FHIRConfig holds the issuing metadata for FHIR documents.
type FHIRConfig struct {
	DiseaseCode           string `validate:"required"`
	PublicHealthAuthority string `validate:"required"`
	PrivateKeyPEM         string `validate:"required"`
}

type Config struct {
	DCC  DCCConfig
	SHC  SHCConfig
	FHIR FHIRConfig
}

// ConfigurationNotSet is the failure detail reported when a builder is not configured.
const ConfigurationNotSet = "configuration not set"

// Builder produces signed standard payloads from certificate records.
type Builder struct {
	cfg      Config
	dcc      DCCSigner
	shc      SHCSigner
	fhir     FHIRConverter
	keys     *KeyCache
	validate *validator.Validate
	dates    format.Dates
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*Builder)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithClock overrides the time source used for SHC validity claims.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithDates sets the formatter used for DCC dates.
func WithDates(dates format.Dates) Option {
	return func(b *Builder) {
		b.dates = dates
	}
}

// WithKeyCache replaces the SHC key cache.
func WithKeyCache(keys *KeyCache) Option {
	return func(b *Builder) {
		b.keys = keys
	}
}

func NewBuilder(cfg Config, dcc DCCSigner, shc SHCSigner, fhir FHIRConverter, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		dcc:      dcc,
		shc:      shc,
		fhir:     fhir,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		dates:    format.NewDates(time.UTC),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.keys == nil {
		b.keys = NewKeyCache(cfg.SHC.PrivateKeyPEM, DeriveJWK)
	}
	return b
}

func (b *Builder) check(kind string, cfg any) error {
	if err := b.validate.Struct(cfg); err != nil {
		b.logger.Error("payload configuration incomplete", "payload", kind, "error", err)
		return dErrors.Wrap(err, dErrors.CodeConfigurationMissing, ConfigurationNotSet)
	}
	return nil
}

// CheckDCC reports whether DCC signing is fully configured.
func (b *Builder) CheckDCC() error { return b.check("dcc", b.cfg.DCC) }

// CheckSHC reports whether SMART Health Card signing is fully configured.
func (b *Builder) CheckSHC() error { return b.check("shc", b.cfg.SHC) }

// CheckFHIR reports whether FHIR conversion is fully configured.
func (b *Builder) CheckFHIR() error { return b.check("fhir", b.cfg.FHIR) }

// DCC signs record as an EU Digital COVID Certificate and returns the HC1: URI.
func (b *Builder) DCC(ctx context.Context, record models.CertificateRecord) (string, error) {
	if err := b.CheckDCC(); err != nil {
		return "", err
	}
	credential, err := models.ParseCredential(record.Certificate)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "certificate could not be read")
	}

	claims := b.DCCPayload(credential)
	uri, err := b.dcc.SignAndPack(ctx, models.DCCSignRequest{
		Payload:       claims,
		ExpiryMonths:  b.cfg.DCC.ExpiryMonths,
		CountryCode:   claims.Vaccinations[0].Country,
		PublicKeyP8:   b.cfg.DCC.PublicKeyP8,
		PrivateKeyPEM: b.cfg.DCC.PrivateKeyPEM,
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUpstreamFailure, err.Error())
	}
	return uri, nil
}

// SHC signs record as a SMART Health Card and returns the shc:/ URI.
func (b *Builder) SHC(ctx context.Context, record models.CertificateRecord) (string, error) {
	if err := b.CheckSHC(); err != nil {
		return "", err
	}
	if !json.Valid([]byte(record.Certificate)) {
		return "", dErrors.New(dErrors.CodeInternal, "certificate could not be read")
	}

	bundle, err := b.fhir.SmartHealthBundle(ctx, json.RawMessage(record.Certificate))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUpstreamFailure, err.Error())
	}

	key, err := b.keys.Key()
	if err != nil {
		b.logger.Error("SMART Health Card key unusable", "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeConfigurationMissing, ConfigurationNotSet)
	}

	uri, err := b.shc.SignAndPack(ctx, b.SHCClaims(bundle), key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUpstreamFailure, err.Error())
	}
	return uri, nil
}

// SHCClaims wraps a FHIR bundle in the SMART Health Card credential envelope.
func (b *Builder) SHCClaims(bundle json.RawMessage) models.SHCClaims {
	now := b.now()
	return models.SHCClaims{
		Issuer:    b.cfg.SHC.Issuer,
		NotBefore: now.Unix(),
		Expires:   now.AddDate(0, b.cfg.SHC.ExpiryMonths, 0).Unix(),
		VC: models.SHCCredential{
			Type: append([]string(nil), models.SHCTypes...),
			CredentialSubject: models.SHCSubject{
				FHIRVersion: models.SHCFHIRVersion,
				FHIRBundle:  bundle,
			},
		},
	}
}

// FHIR converts record into a FHIR document.
func (b *Builder) FHIR(ctx context.Context, record models.CertificateRecord) (json.RawMessage, error) {
	if err := b.CheckFHIR(); err != nil {
		return nil, err
	}
	if !json.Valid([]byte(record.Certificate)) {
		return nil, dErrors.New(dErrors.CodeInternal, "certificate could not be read")
	}

	doc, err := b.fhir.FHIRDocument(ctx, json.RawMessage(record.Certificate), b.cfg.FHIR.PrivateKeyPEM, models.FHIRMeta{
		DiseaseCode:           b.cfg.FHIR.DiseaseCode,
		PublicHealthAuthority: b.cfg.FHIR.PublicHealthAuthority,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstreamFailure, err.Error())
	}
	return doc, nil
}

// PublicJWKS returns the public half of the SMART Health Card signing key.
func (b *Builder) PublicJWKS() (jose.JSONWebKeySet, error) {
	if err := b.CheckSHC(); err != nil {
		return jose.JSONWebKeySet{}, err
	}
	key, err := b.keys.Key()
	if err != nil {
		return jose.JSONWebKeySet{}, dErrors.Wrap(err, dErrors.CodeConfigurationMissing, ConfigurationNotSet)
	}
	return jose.JSONWebKeySet{Keys: []jose.JSONWebKey{key.Public()}}, nil
}
