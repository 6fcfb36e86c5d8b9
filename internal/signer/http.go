// Package signer holds the adapters for the external signing and conversion
// services: the EU DCC signing sidecar, the FHIR converter and the in-process
// SMART Health Card JWS signer.
package signer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ServiceError reports a non-2xx answer from a signing or conversion service.
type ServiceError struct {
	Service string
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Message)
}

type client struct {
	service string
	baseURL string
	http    HTTPDoer
}

func newClient(service, baseURL string, doer HTTPDoer) client {
	if doer == nil {
		doer = &http.Client{Timeout: defaultTimeout}
	}
	return client{service: service, baseURL: baseURL, http: doer}
}

// post sends body as JSON to path and returns the raw response body.
func (c client) post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", c.service, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.service, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s unavailable: %w", c.service, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", c.service, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{Service: c.service, Status: resp.StatusCode, Message: string(bytes.TrimSpace(respBody))}
	}
	return respBody, nil
}
