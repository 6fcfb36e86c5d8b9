// Package render turns presentation data into PDF documents. Templates are
// executed in process and the resulting HTML is rasterized by a
// Gotenberg-compatible headless browser service.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"certificate-api/internal/presentation/metrics"
	"certificate-api/internal/presentation/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const convertPath = "/forms/chromium/convert/html"

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

var funcs = template.FuncMap{
	// QR codes are produced in process as PNG data URLs.
	"dataURL": func(s string) template.URL {
		if !strings.HasPrefix(s, "data:image/png;base64,") {
			return ""
		}
		return template.URL(s)
	},
}

// Templates parses the embedded document templates.
func Templates() (map[models.TemplateID]*template.Template, error) {
	set := make(map[models.TemplateID]*template.Template, 2)
	for _, id := range []models.TemplateID{models.TemplateVaccine, models.TemplateTest} {
		tmpl, err := template.New(string(id) + ".html").Funcs(funcs).ParseFS(templateFS, "templates/"+string(id)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", id, err)
		}
		set[id] = tmpl
	}
	return set, nil
}

// PDFRenderer implements the presentation Renderer port.
type PDFRenderer struct {
	baseURL   string
	client    HTTPDoer
	templates map[models.TemplateID]*template.Template
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

type Option func(*PDFRenderer)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client HTTPDoer) Option {
	return func(r *PDFRenderer) {
		r.client = client
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *PDFRenderer) {
		r.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *PDFRenderer) {
		r.logger = logger
	}
}

// New builds a renderer posting to the conversion service at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*PDFRenderer, error) {
	templates, err := Templates()
	if err != nil {
		return nil, err
	}
	r := &PDFRenderer{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
		templates: templates,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// HTML executes the template for id against data.
func (r *PDFRenderer) HTML(id models.TemplateID, data any) ([]byte, error) {
	tmpl, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", id)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", id, err)
	}
	return buf.Bytes(), nil
}

// Render produces the PDF for template id filled with data.
func (r *PDFRenderer) Render(ctx context.Context, id models.TemplateID, data any) ([]byte, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveRender(string(id), time.Since(start).Seconds())
	}()

	html, err := r.HTML(id, data)
	if err != nil {
		return nil, err
	}

	body, contentType, err := form(html)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+convertPath, body)
	if err != nil {
		return nil, fmt.Errorf("create render request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("renderer unavailable: %w", err)
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read rendered pdf: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "renderer rejected document", "template", id, "status", resp.StatusCode)
		return nil, fmt.Errorf("renderer returned status %d", resp.StatusCode)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return nil, fmt.Errorf("renderer returned a non-pdf body")
	}
	return pdf, nil
}

// form wraps html as the index.html part of a multipart conversion request
// for an A4 page.
func form(html []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(html); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}
	for field, value := range map[string]string{
		"paperWidth":      "8.27",
		"paperHeight":     "11.7",
		"printBackground": "true",
	} {
		if err := w.WriteField(field, value); err != nil {
			return nil, "", fmt.Errorf("write form field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
