package signer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"certificate-api/internal/presentation/models"
)

// HTTPFHIRConverter calls the FHIR conversion service.
type HTTPFHIRConverter struct {
	client client
}

type FHIROption func(*HTTPFHIRConverter)

// WithFHIRHTTPClient sets a custom HTTP client (for testing).
func WithFHIRHTTPClient(doer HTTPDoer) FHIROption {
	return func(c *HTTPFHIRConverter) {
		c.client.http = doer
	}
}

func NewHTTPFHIRConverter(baseURL string, opts ...FHIROption) *HTTPFHIRConverter {
	c := &HTTPFHIRConverter{client: newClient("fhir converter", strings.TrimRight(baseURL, "/"), nil)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type documentRequest struct {
	Certificate   json.RawMessage `json:"certificate"`
	PrivateKeyPEM string          `json:"privateKeyPem"`
	Meta          models.FHIRMeta `json:"meta"`
}

type bundleRequest struct {
	Certificate json.RawMessage `json:"certificate"`
}

// FHIRDocument converts certificate into a signed FHIR document bundle.
func (c *HTTPFHIRConverter) FHIRDocument(ctx context.Context, certificate json.RawMessage, privateKeyPEM string, meta models.FHIRMeta) (json.RawMessage, error) {
	body, err := c.client.post(ctx, "/fhir", documentRequest{
		Certificate:   certificate,
		PrivateKeyPEM: privateKeyPEM,
		Meta:          meta,
	})
	if err != nil {
		return nil, err
	}
	return object(body)
}

// SmartHealthBundle converts certificate into the FHIR bundle carried by a
// SMART Health Card.
func (c *HTTPFHIRConverter) SmartHealthBundle(ctx context.Context, certificate json.RawMessage) (json.RawMessage, error) {
	body, err := c.client.post(ctx, "/shc-bundle", bundleRequest{Certificate: certificate})
	if err != nil {
		return nil, err
	}
	return object(body)
}

func object(body []byte) (json.RawMessage, error) {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, fmt.Errorf("fhir converter returned a non-object document")
	}
	return json.RawMessage(body), nil
}
