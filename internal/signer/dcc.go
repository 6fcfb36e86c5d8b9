package signer

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"certificate-api/internal/presentation/models"
)

// HC1Prefix is the URI scheme of a packed EU DCC.
const HC1Prefix = "HC1:"

// HTTPDCCSigner delegates CWT construction, COSE signing and HC1 packing to
// the DCC signing sidecar.
type HTTPDCCSigner struct {
	client client
}

type DCCOption func(*HTTPDCCSigner)

// WithDCCHTTPClient sets a custom HTTP client (for testing).
func WithDCCHTTPClient(doer HTTPDoer) DCCOption {
	return func(s *HTTPDCCSigner) {
		s.client.http = doer
	}
}

func NewHTTPDCCSigner(baseURL string, opts ...DCCOption) *HTTPDCCSigner {
	s := &HTTPDCCSigner{client: newClient("dcc signer", strings.TrimRight(baseURL, "/"), nil)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignAndPack posts req to {baseURL}/sign and returns the HC1: URI from the
// "uri" field of the answer.
func (s *HTTPDCCSigner) SignAndPack(ctx context.Context, req models.DCCSignRequest) (string, error) {
	body, err := s.client.post(ctx, "/sign", req)
	if err != nil {
		return "", err
	}
	uri := gjson.GetBytes(body, "uri").String()
	if !strings.HasPrefix(uri, HC1Prefix) {
		return "", fmt.Errorf("dcc signer returned no HC1 uri")
	}
	return uri, nil
}
