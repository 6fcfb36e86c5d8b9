// Package tracer is the tracing abstraction used by the presentation pipeline.
//
// The service only depends on the Tracer and Span interfaces here. Two
// implementations are provided:
//   - NoopTracer for tests
//   - OTelTracer backed by OpenTelemetry
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span. A non-nil err marks it as failed.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
//
//	ctx, span := t.Start(ctx, tracer.SpanVaccinationPDF,
//	    tracer.String(tracer.AttrLookupKey, tracer.HashReference(code)),
//	)
//	defer span.End(err)
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashReference returns a short SHA-256 digest of a lookup key so traces can
// be correlated without carrying beneficiary references or phone numbers.
func HashReference(ref string) string {
	if ref == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(hash[:8])
}

// Span names.
const (
	SpanVaccinationPDF = "presentation.vaccination_pdf"
	SpanVaccinationQR  = "presentation.vaccination_qr"
	SpanTestPDF        = "presentation.test_pdf"
	SpanDCC            = "presentation.dcc"
	SpanSHC            = "presentation.shc"
	SpanFHIR           = "presentation.fhir"
	SpanExists         = "presentation.exists"
)

// Attribute keys.
const (
	AttrLookupKey   = "lookup.key"
	AttrRecordCount = "records.count"
	AttrFormat      = "artifact.format"
	AttrContentType = "artifact.content_type"
	AttrFailureKind = "failure.kind"
)

// Event names.
const (
	EventRecordsResolved = "records.resolved"
	EventRendered        = "artifact.rendered"
)
