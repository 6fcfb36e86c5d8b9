package signer

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-jose/go-jose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"certificate-api/internal/presentation/models"
)

func Test_HTTPDCCSigner(t *testing.T) {
	var received models.DCCSignRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sign", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = io.WriteString(w, `{"uri":"HC1:NCFOXN%TS3DH"}`)
	}))
	defer srv.Close()

	req := models.DCCSignRequest{
		Payload:      models.DCCPayload{Version: models.DCCVersion, DOB: "1987-02-11"},
		ExpiryMonths: 12,
		CountryCode:  "IN",
	}
	uri, err := NewHTTPDCCSigner(srv.URL+"/").SignAndPack(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "HC1:NCFOXN%TS3DH", uri)
	assert.Equal(t, req, received)
}

func Test_HTTPDCCSignerFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"service error", http.StatusBadGateway, "key rejected\n", "dcc signer returned status 502: key rejected"},
		{"no uri", http.StatusOK, `{"status":"ok"}`, "dcc signer returned no HC1 uri"},
		{"wrong scheme", http.StatusOK, `{"uri":"shc:/5676"}`, "dcc signer returned no HC1 uri"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewHTTPDCCSigner(srv.URL).SignAndPack(context.Background(), models.DCCSignRequest{})
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func Test_HTTPDCCSignerUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPDCCSigner(url).SignAndPack(context.Background(), models.DCCSignRequest{})
	require.ErrorContains(t, err, "dcc signer unavailable")
}

func Test_HTTPFHIRConverter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		switch r.URL.Path {
		case "/fhir":
			assert.Equal(t, "COVID-19", gjson.GetBytes(body, "meta.diseaseCode").String())
			assert.Equal(t, "pem", gjson.GetBytes(body, "privateKeyPem").String())
			assert.Equal(t, "did:india", gjson.GetBytes(body, "certificate.issuer").String())
			_, _ = io.WriteString(w, `{"resourceType":"Bundle","type":"document"}`)
		case "/shc-bundle":
			assert.Equal(t, "did:india", gjson.GetBytes(body, "certificate.issuer").String())
			_, _ = io.WriteString(w, `{"resourceType":"Bundle","type":"collection"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	converter := NewHTTPFHIRConverter(srv.URL)
	certificate := json.RawMessage(`{"issuer":"did:india"}`)

	doc, err := converter.FHIRDocument(context.Background(), certificate, "pem", models.FHIRMeta{DiseaseCode: "COVID-19", PublicHealthAuthority: "MoHFW"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"resourceType":"Bundle","type":"document"}`, string(doc))

	bundle, err := converter.SmartHealthBundle(context.Background(), certificate)
	require.NoError(t, err)
	assert.JSONEq(t, `{"resourceType":"Bundle","type":"collection"}`, string(bundle))
}

func Test_HTTPFHIRConverterRejectsNonObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `["not","a","bundle"]`)
	}))
	defer srv.Close()

	_, err := NewHTTPFHIRConverter(srv.URL).SmartHealthBundle(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
}

func Test_JWSSigner(t *testing.T) {
	ec, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	key := jose.JSONWebKey{Key: ec, KeyID: "kid-1", Algorithm: string(jose.ES256), Use: "sig"}

	claims := models.SHCClaims{
		Issuer:    "https://divoc.example/issuer",
		NotBefore: 1622548800,
		VC: models.SHCCredential{
			Type: models.SHCTypes,
			CredentialSubject: models.SHCSubject{
				FHIRVersion: models.SHCFHIRVersion,
				FHIRBundle:  json.RawMessage(`{"resourceType":"Bundle"}`),
			},
		},
	}

	uri, err := NewJWSSigner().SignAndPack(context.Background(), claims, key)
	require.NoError(t, err)
	require.Regexp(t, `^shc:/[0-9]+$`, uri)

	compact, err := UnpackNumeric(uri)
	require.NoError(t, err)
	object, err := jose.ParseSigned(compact)
	require.NoError(t, err)
	require.Len(t, object.Signatures, 1)

	header := object.Signatures[0].Header
	assert.Equal(t, "kid-1", header.KeyID)
	assert.Equal(t, string(jose.ES256), header.Algorithm)
	assert.Equal(t, "DEF", header.ExtraHeaders[jose.HeaderKey("zip")])

	compressed, err := object.Verify(&ec.PublicKey)
	require.NoError(t, err)
	payload, err := Inflate(compressed)
	require.NoError(t, err)

	var got models.SHCClaims
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, claims.Issuer, got.Issuer)
	assert.Equal(t, claims.NotBefore, got.NotBefore)
	assert.JSONEq(t, `{"resourceType":"Bundle"}`, string(got.VC.CredentialSubject.FHIRBundle))
}

func Test_PackNumeric(t *testing.T) {
	// '-' is 45 and maps to 00, 'z' is 122 and maps to 77.
	assert.Equal(t, "shc:/0077", PackNumeric("-z"))
	assert.Equal(t, "shc:/5676", PackNumeric("ey"))

	jws, err := UnpackNumeric("shc:/5676")
	require.NoError(t, err)
	assert.Equal(t, "ey", jws)

	for _, bad := range []string{"HC1:5676", "shc:/567", "shc:/56a6"} {
		_, err := UnpackNumeric(bad)
		assert.Error(t, err, bad)
	}
}
