package service

import (
	"context"
	"encoding/json"
	"time"

	"certificate-api/internal/presentation/models"
	dErrors "certificate-api/pkg/domain-errors"
)

// Registry resolves certificate records. An empty result means not found.
type Registry interface {
	GetCertificate(ctx context.Context, subject, certificateID string) ([]models.CertificateRecord, error)
	GetCertificateByPreEnrollmentCode(ctx context.Context, code string) ([]models.CertificateRecord, error)
	GetTestCertificateByPreEnrollmentCode(ctx context.Context, code string) ([]models.CertificateRecord, error)
}

// Renderer rasterizes template data into a PDF document.
type Renderer interface {
	Render(ctx context.Context, template models.TemplateID, data any) ([]byte, error)
}

// EventSink accepts presentation events. Emit must not block on delivery.
type EventSink interface {
	Emit(ctx context.Context, event models.Event) error
}

// PayloadBuilder produces the signed standard payloads.
type PayloadBuilder interface {
	CheckDCC() error
	CheckSHC() error
	CheckFHIR() error
	DCC(ctx context.Context, record models.CertificateRecord) (string, error)
	SHC(ctx context.Context, record models.CertificateRecord) (string, error)
	FHIR(ctx context.Context, record models.CertificateRecord) (json.RawMessage, error)
}

// Artifact is a produced certificate presentation.
type Artifact struct {
	Body        []byte
	ContentType string
}

// Failure is the structured result of a presentation request that produced
// no artifact.
type Failure struct {
	Date   time.Time
	Kind   dErrors.Code
	Source string
	Extra  string
	Err    error
}

func (f *Failure) Error() string {
	if f.Extra != "" {
		return f.Extra
	}
	return string(f.Kind)
}

// Unwrap exposes the failure as a domain error so dErrors.HasCode works on it.
func (f *Failure) Unwrap() error {
	return &dErrors.Error{Code: f.Kind, Message: f.Extra, Err: f.Err}
}

// Event is the internal-failed event describing f.
func (f *Failure) Event() models.Event {
	return models.Event{Date: f.Date, Source: f.Source, Type: models.EventInternalFailed, Extra: f.Extra}
}

// Lookup selects vaccination records either by the holder's subject key and
// certificate ID or by pre-enrollment code.
type Lookup struct {
	Subject           string
	CertificateID     string
	PreEnrollmentCode string
}

func ByCertificateID(subject, certificateID string) Lookup {
	return Lookup{Subject: subject, CertificateID: certificateID}
}

func ByPreEnrollmentCode(code string) Lookup {
	return Lookup{PreEnrollmentCode: code}
}

// Source is the value reported as the source of events for this lookup.
func (l Lookup) Source() string {
	if l.CertificateID != "" {
		return l.CertificateID
	}
	return l.PreEnrollmentCode
}
