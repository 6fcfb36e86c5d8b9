package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"

	"certificate-api/internal/presentation/models"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient queries the registry search API:
// POST {baseURL}/api/v1/{schema}/search with an equality filter body.
type HTTPClient struct {
	baseURL    string
	httpClient HTTPDoer
	maxRetries uint64
	interval   time.Duration
	logger     *slog.Logger
}

type HTTPClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client HTTPDoer) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// WithRetries sets how many times a transient failure is retried and the
// initial backoff interval.
func WithRetries(maxRetries uint64, interval time.Duration) HTTPClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = maxRetries
		c.interval = interval
	}
}

func WithLogger(logger *slog.Logger) HTTPClientOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

func NewHTTPClient(baseURL string, timeout time.Duration, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: 2,
		interval:   100 * time.Millisecond,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type condition struct {
	Eq string `json:"eq"`
}

type searchRequest struct {
	Filters map[string]condition `json:"filters"`
}

// GetCertificate returns the vaccination records of certificateID owned by
// the holder with the given mobile number.
func (c *HTTPClient) GetCertificate(ctx context.Context, mobile, certificateID string) ([]models.CertificateRecord, error) {
	return c.search(ctx, SchemaVaccination, map[string]condition{
		"mobile":        {Eq: mobile},
		"certificateId": {Eq: certificateID},
	})
}

func (c *HTTPClient) GetCertificateByPreEnrollmentCode(ctx context.Context, code string) ([]models.CertificateRecord, error) {
	return c.search(ctx, SchemaVaccination, map[string]condition{"preEnrollmentCode": {Eq: code}})
}

func (c *HTTPClient) GetTestCertificateByPreEnrollmentCode(ctx context.Context, code string) ([]models.CertificateRecord, error) {
	return c.search(ctx, SchemaTest, map[string]condition{"preEnrollmentCode": {Eq: code}})
}

func (c *HTTPClient) search(ctx context.Context, schema string, filters map[string]condition) ([]models.CertificateRecord, error) {
	body, err := json.Marshal(searchRequest{Filters: filters})
	if err != nil {
		return nil, &Error{Op: "search " + schema, Err: err}
	}
	url := fmt.Sprintf("%s/api/v1/%s/search", c.baseURL, schema)

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(backoff.WithInitialInterval(c.interval)), c.maxRetries),
		ctx,
	)
	var records []models.CertificateRecord
	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		result, err := c.do(ctx, schema, url, body)
		if err != nil {
			var regErr *Error
			if errors.As(err, &regErr) && !regErr.Retryable {
				return backoff.Permanent(err)
			}
			c.logger.WarnContext(ctx, "registry search failed", "schema", schema, "attempt", attempt, "error", err)
			return err
		}
		records = result
		return nil
	}, policy)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) do(ctx context.Context, schema, url string, body []byte) ([]models.CertificateRecord, error) {
	op := "search " + schema
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Retryable: ctx.Err() == nil, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Retryable: true, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: op, Status: resp.StatusCode, Retryable: retryableStatus(resp.StatusCode)}
	}
	return parseSearch(schema, payload)
}

// parseSearch accepts either a bare entity array or the search envelope
// {"result": {"<schema>": [...]}}.
func parseSearch(schema string, payload []byte) ([]models.CertificateRecord, error) {
	if !gjson.ValidBytes(payload) {
		return nil, &Error{Op: "search " + schema, Err: errors.New("malformed response")}
	}
	doc := gjson.ParseBytes(payload)
	entities := doc
	if !doc.IsArray() {
		entities = doc.Get("result." + gjson.Escape(schema))
	}
	if !entities.Exists() {
		return nil, nil
	}

	var records []models.CertificateRecord
	for _, entity := range entities.Array() {
		record, err := toRecord(entity)
		if err != nil {
			return nil, &Error{Op: "search " + schema, Err: err}
		}
		records = append(records, record)
	}
	return records, nil
}

func toRecord(entity gjson.Result) (models.CertificateRecord, error) {
	record := models.CertificateRecord{
		CertificateID:     entity.Get("certificateId").String(),
		PreEnrollmentCode: entity.Get("preEnrollmentCode").String(),
	}

	// The certificate is stored as a JSON string, older entities hold the object itself.
	certificate := entity.Get("certificate")
	if certificate.Type == gjson.String {
		record.Certificate = certificate.String()
	} else {
		record.Certificate = certificate.Raw
	}

	if updated := entity.Get("osUpdatedAt").String(); updated != "" {
		t, err := time.Parse(time.RFC3339Nano, updated)
		if err != nil {
			return models.CertificateRecord{}, fmt.Errorf("parse osUpdatedAt %q: %w", updated, err)
		}
		record.UpdatedAt = t
	}
	return record, nil
}
