package payload

//go:generate mockgen -source=payload.go -destination=mocks/payload_mock.go -package=mocks

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"certificate-api/internal/presentation/format"
	"certificate-api/internal/presentation/models"
	"certificate-api/internal/presentation/payload/mocks"
	dErrors "certificate-api/pkg/domain-errors"
	"certificate-api/pkg/testutil"
)

type PayloadSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	dcc     *mocks.MockDCCSigner
	shc     *mocks.MockSHCSigner
	fhir    *mocks.MockFHIRConverter
	keyPEM  string
	now     time.Time
	builder *Builder
}

func TestPayloadSuite(t *testing.T) {
	suite.Run(t, new(PayloadSuite))
}

func ecPKCS8PEM(t interface{ Fatalf(string, ...any) }) string {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func (s *PayloadSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.dcc = mocks.NewMockDCCSigner(s.ctrl)
	s.shc = mocks.NewMockSHCSigner(s.ctrl)
	s.fhir = mocks.NewMockFHIRConverter(s.ctrl)
	s.keyPEM = ecPKCS8PEM(s.T())
	s.now = time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	s.builder = s.newBuilder(s.fullConfig())
}

func (s *PayloadSuite) newBuilder(cfg Config, opts ...Option) *Builder {
	opts = append([]Option{
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithClock(func() time.Time { return s.now }),
		WithDates(format.NewDates(time.UTC)),
	}, opts...)
	return NewBuilder(cfg, s.dcc, s.shc, s.fhir, opts...)
}

func (s *PayloadSuite) fullConfig() Config {
	return Config{
		DCC: DCCConfig{
			ExpiryMonths:          12,
			PublicHealthAuthority: "Ministry of Health",
			PublicKeyP8:           "-----BEGIN PUBLIC KEY-----p8-----END PUBLIC KEY-----",
			PrivateKeyPEM:         "eu-private",
		},
		SHC: SHCConfig{
			ExpiryMonths:  6,
			Issuer:        "https://divoc.dev/",
			PrivateKeyPEM: s.keyPEM,
		},
		FHIR: FHIRConfig{
			DiseaseCode:           "COVID-19",
			PublicHealthAuthority: "Ministry of Health",
			PrivateKeyPEM:         "fhir-private",
		},
	}
}

func (s *PayloadSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PayloadSuite) TestConfigurationChecks() {
	ctx := context.Background()
	record := testutil.NewCertificateBuilder().Build()

	s.Run("DCC without expiry", func() {
		cfg := s.fullConfig()
		cfg.DCC.ExpiryMonths = 0
		_, err := s.newBuilder(cfg).DCC(ctx, record)
		s.True(dErrors.HasCode(err, dErrors.CodeConfigurationMissing))
		s.Equal(ConfigurationNotSet, err.Error())
	})

	s.Run("DCC without public key", func() {
		cfg := s.fullConfig()
		cfg.DCC.PublicKeyP8 = ""
		_, err := s.newBuilder(cfg).DCC(ctx, record)
		s.True(dErrors.HasCode(err, dErrors.CodeConfigurationMissing))
	})

	s.Run("SHC without issuer", func() {
		cfg := s.fullConfig()
		cfg.SHC.Issuer = ""
		_, err := s.newBuilder(cfg).SHC(ctx, record)
		s.True(dErrors.HasCode(err, dErrors.CodeConfigurationMissing))
	})

	s.Run("FHIR without disease code", func() {
		cfg := s.fullConfig()
		cfg.FHIR.DiseaseCode = ""
		_, err := s.newBuilder(cfg).FHIR(ctx, record)
		s.True(dErrors.HasCode(err, dErrors.CodeConfigurationMissing))
	})

	s.Run("complete configuration passes", func() {
		s.NoError(s.builder.CheckDCC())
		s.NoError(s.builder.CheckSHC())
		s.NoError(s.builder.CheckFHIR())
	})
}

func (s *PayloadSuite) TestDCC() {
	record := testutil.NewCertificateBuilder().
		WithSubjectName("Asha Devi Rao").
		WithDose(2, 2).
		WithVaccine("COVISHIELD", "4121Z005", "2021-03-09T05:18:40.000Z").
		WithCountry("IN").
		Build()

	var got models.DCCSignRequest
	s.dcc.EXPECT().SignAndPack(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.DCCSignRequest) (string, error) {
			got = req
			return "HC1:NCFOXN%TS3DH", nil
		})

	uri, err := s.builder.DCC(context.Background(), record)
	s.Require().NoError(err)
	s.Equal("HC1:NCFOXN%TS3DH", uri)

	s.Equal(12, got.ExpiryMonths)
	s.Equal("IN", got.CountryCode)
	s.Equal("eu-private", got.PrivateKeyPEM)
	s.Equal(models.DCCPayload{
		Version: "1.3.0",
		Name: models.DCCName{
			FamilyName:         "Rao",
			FamilyNameStandard: "RAO",
			GivenName:          "Asha Devi",
			GivenNameStandard:  "ASHA<DEVI",
		},
		DOB: "1987-02-11",
		Vaccinations: []models.DCCVaccination{{
			Target:        "840539006",
			Prophylaxis:   "1119305005",
			Product:       "Covishield",
			Manufacturer:  "ORG-100001981",
			DoseNumber:    2,
			TotalDoses:    2,
			Date:          "2021-3-09",
			Country:       "IN",
			Issuer:        "Ministry of Health",
			CertificateID: "URN:UVCI:01:IN:" + testutil.TestCodes.CertificateID,
		}},
	}, got.Payload)
}

func (s *PayloadSuite) TestDCCUnknownVaccineKeepsNames() {
	record := testutil.NewCertificateBuilder().WithVaccine("NovaVax", "B1", "2021-03-09").Build()
	c, err := models.ParseCredential(record.Certificate)
	s.Require().NoError(err)

	v := s.builder.DCCPayload(c).Vaccinations[0]
	s.Equal("J07BX03", v.Prophylaxis)
	s.Equal("NovaVax", v.Product)
	s.Equal("Serum Institute of India", v.Manufacturer)
}

func (s *PayloadSuite) TestDCCSignerFailure() {
	s.dcc.EXPECT().SignAndPack(gomock.Any(), gomock.Any()).Return("", errors.New("cose: bad key"))

	_, err := s.builder.DCC(context.Background(), testutil.NewCertificateBuilder().Build())
	s.True(dErrors.HasCode(err, dErrors.CodeUpstreamFailure))
	s.Contains(err.Error(), "cose: bad key")
}

func (s *PayloadSuite) TestSHC() {
	record := testutil.NewCertificateBuilder().Build()
	bundle := json.RawMessage(`{"resourceType":"Bundle","type":"collection"}`)

	s.fhir.EXPECT().SmartHealthBundle(gomock.Any(), json.RawMessage(record.Certificate)).Return(bundle, nil)

	var claims models.SHCClaims
	var key jose.JSONWebKey
	s.shc.EXPECT().SignAndPack(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c models.SHCClaims, k jose.JSONWebKey) (string, error) {
			claims, key = c, k
			return "shc:/5676", nil
		})

	uri, err := s.builder.SHC(context.Background(), record)
	s.Require().NoError(err)
	s.Equal("shc:/5676", uri)

	s.Equal("https://divoc.dev/", claims.Issuer)
	s.Equal(s.now.Unix(), claims.NotBefore)
	s.Equal(time.Date(2021, 12, 1, 12, 0, 0, 0, time.UTC).Unix(), claims.Expires)
	s.Equal(models.SHCTypes, claims.VC.Type)
	s.Equal("4.0.1", claims.VC.CredentialSubject.FHIRVersion)
	s.JSONEq(string(bundle), string(claims.VC.CredentialSubject.FHIRBundle))
	s.Equal("ES256", key.Algorithm)
	s.NotEmpty(key.KeyID)
	s.False(key.IsPublic())
}

func (s *PayloadSuite) TestSHCConverterFailure() {
	s.fhir.EXPECT().SmartHealthBundle(gomock.Any(), gomock.Any()).Return(nil, errors.New("unknown vaccine"))

	_, err := s.builder.SHC(context.Background(), testutil.NewCertificateBuilder().Build())
	s.True(dErrors.HasCode(err, dErrors.CodeUpstreamFailure))
}

func (s *PayloadSuite) TestSHCUnusableKey() {
	cfg := s.fullConfig()
	cfg.SHC.PrivateKeyPEM = "not a pem"
	s.fhir.EXPECT().SmartHealthBundle(gomock.Any(), gomock.Any()).Return(json.RawMessage(`{}`), nil)

	_, err := s.newBuilder(cfg).SHC(context.Background(), testutil.NewCertificateBuilder().Build())
	s.True(dErrors.HasCode(err, dErrors.CodeConfigurationMissing))
}

func (s *PayloadSuite) TestFHIR() {
	record := testutil.NewCertificateBuilder().Build()
	doc := json.RawMessage(`{"resourceType":"Bundle"}`)
	s.fhir.EXPECT().
		FHIRDocument(gomock.Any(), json.RawMessage(record.Certificate), "fhir-private", models.FHIRMeta{
			DiseaseCode:           "COVID-19",
			PublicHealthAuthority: "Ministry of Health",
		}).
		Return(doc, nil)

	got, err := s.builder.FHIR(context.Background(), record)
	s.Require().NoError(err)
	s.JSONEq(string(doc), string(got))
}

func (s *PayloadSuite) TestFHIRFailure() {
	s.fhir.EXPECT().FHIRDocument(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("missing facility"))

	_, err := s.builder.FHIR(context.Background(), testutil.NewCertificateBuilder().Build())
	s.True(dErrors.HasCode(err, dErrors.CodeUpstreamFailure))
	s.Equal("missing facility", err.Error())
}

func (s *PayloadSuite) TestUnreadableCertificate() {
	_, err := s.builder.FHIR(context.Background(), models.CertificateRecord{Certificate: "{"})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	_, err = s.builder.DCC(context.Background(), models.CertificateRecord{Certificate: "{"})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *PayloadSuite) TestPublicJWKS() {
	set, err := s.builder.PublicJWKS()
	s.Require().NoError(err)
	s.Require().Len(set.Keys, 1)
	s.True(set.Keys[0].IsPublic())
	s.Equal("sig", set.Keys[0].Use)

	private, err := s.builder.keys.Key()
	s.Require().NoError(err)
	s.Equal(private.KeyID, set.Keys[0].KeyID)
}

func (s *PayloadSuite) TestKeyDerivedOnceUnderConcurrency() {
	var calls atomic.Int32
	cache := NewKeyCache(s.keyPEM, func(pemData string) (jose.JSONWebKey, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return DeriveJWK(pemData)
	})

	kids := make([]string, 64)
	result := testutil.RunConcurrent(64, func(i int) error {
		key, err := cache.Key()
		kids[i] = key.KeyID
		return err
	})

	s.Equal(int32(64), result.Successes)
	s.Equal(int32(1), calls.Load())
	for _, kid := range kids {
		s.Equal(kids[0], kid)
	}
}

func (s *PayloadSuite) TestKeyFailureIsCached() {
	var calls atomic.Int32
	cache := NewKeyCache("garbage", func(pemData string) (jose.JSONWebKey, error) {
		calls.Add(1)
		return DeriveJWK(pemData)
	})
	_, err1 := cache.Key()
	_, err2 := cache.Key()
	s.Error(err1)
	s.Error(err2)
	s.Equal(int32(1), calls.Load())
}

func (s *PayloadSuite) TestDeriveJWK() {
	s.Run("PKCS#8", func() {
		jwk, err := DeriveJWK(s.keyPEM)
		s.Require().NoError(err)
		s.Equal("ES256", jwk.Algorithm)
		s.Len(jwk.KeyID, 43)
	})

	s.Run("SEC 1", func() {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		s.Require().NoError(err)
		der, err := x509.MarshalECPrivateKey(key)
		s.Require().NoError(err)
		_, err = DeriveJWK(string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})))
		s.NoError(err)
	})

	s.Run("rejects other curves", func() {
		key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
		s.Require().NoError(err)
		der, err := x509.MarshalPKCS8PrivateKey(key)
		s.Require().NoError(err)
		_, err = DeriveJWK(string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})))
		s.ErrorIs(err, ErrUnsupportedKey)
	})

	s.Run("rejects RSA", func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		s.Require().NoError(err)
		der, err := x509.MarshalPKCS8PrivateKey(key)
		s.Require().NoError(err)
		_, err = DeriveJWK(string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})))
		s.ErrorIs(err, ErrUnsupportedKey)
	})

	s.Run("rejects non PEM input", func() {
		_, err := DeriveJWK("garbage")
		s.Error(err)
	})
}

func (s *PayloadSuite) TestICAOTransliteration() {
	s.Equal("ASHA<DEVI", icaoTransliterate("Asha Devi"))
	s.Equal("O<BRIEN", icaoTransliterate("O'Brien"))
	s.Equal("JEANPAUL", icaoTransliterate("Jean·Paul"))
	s.Equal("", icaoTransliterate("रवि"))
	s.Len(icaoTransliterate(string(bytes.Repeat([]byte("a"), 200))), 80)
	s.Equal(models.DCCName{FamilyName: "Ravi", FamilyNameStandard: "RAVI"}, dccName("Ravi"))
}
