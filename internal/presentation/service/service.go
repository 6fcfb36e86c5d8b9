// Package service orchestrates certificate presentation: it resolves records
// from the registry, builds presentation data and payloads, and returns either
// a finished artifact or a structured failure.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"certificate-api/internal/presentation/assemble"
	"certificate-api/internal/presentation/format"
	"certificate-api/internal/presentation/history"
	"certificate-api/internal/presentation/metrics"
	"certificate-api/internal/presentation/models"
	"certificate-api/internal/presentation/qr"
	"certificate-api/internal/presentation/tracer"
	dErrors "certificate-api/pkg/domain-errors"
	"certificate-api/pkg/requestcontext"
)

// FormatQRCode requests a bare QR image instead of a PDF for signed payloads.
const FormatQRCode = "qrcode"

// Failure details and sources reported to clients and the event sink.
const (
	MsgCertificateFound         = "Certificate found"
	MsgCertificateNotFound      = "Certificate not found"
	MsgCertificateNotFoundByRef = "Certificate not found for refId"
	MsgRegistryUnavailable      = "Certificate lookup failed"
	MsgRenderFailed             = "Certificate could not be rendered"
	SourceFHIRConverter         = "FhirConvertor"
)

// Artifact kinds used as metric labels.
const (
	kindVaccinationPDF = "vaccination_pdf"
	kindVaccinationQR  = "vaccination_qr"
	kindTestPDF        = "test_pdf"
	kindDCC            = "dcc"
	kindSHC            = "shc"
	kindFHIR           = "fhir"
	kindExists         = "exists"
)

type Service struct {
	registry  Registry
	renderer  Renderer
	payloads  PayloadBuilder
	events    EventSink
	qr        *qr.Encoder
	assembler *assemble.Assembler
	tracer    tracer.Tracer
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time stamped on events.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithDates sets the date formatter used in rendered documents.
func WithDates(dates format.Dates) Option {
	return func(s *Service) {
		s.assembler = assemble.New(dates)
	}
}

func WithQREncoder(e *qr.Encoder) Option {
	return func(s *Service) {
		s.qr = e
	}
}

func New(registry Registry, renderer Renderer, payloads PayloadBuilder, events EventSink, opts ...Option) *Service {
	s := &Service{
		registry:  registry,
		renderer:  renderer,
		payloads:  payloads,
		events:    events,
		qr:        qr.New(),
		assembler: assemble.New(format.NewDates(time.UTC)),
		tracer:    tracer.NewNoop(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VaccinationPDF renders the vaccination certificate of the latest record,
// with the full dose history and the certificate QR code embedded.
func (s *Service) VaccinationPDF(ctx context.Context, lookup Lookup) (*Artifact, error) {
	return s.run(ctx, kindVaccinationPDF, tracer.SpanVaccinationPDF, lookup.Source(), func(ctx context.Context) (*Artifact, error) {
		records, err := s.resolveVaccination(ctx, lookup)
		if err != nil {
			return nil, err
		}
		latest, _ := assemble.LatestRecord(records)
		dataURL, err := s.qr.DataURL([]byte(latest.Certificate))
		if err != nil {
			return nil, s.fail(ctx, lookup.Source(), dErrors.CodeInternal, MsgRenderFailed, err)
		}
		body, err := s.renderVaccine(ctx, lookup.Source(), records, dataURL)
		if err != nil {
			return nil, err
		}
		s.succeed(ctx, lookup.Source(), models.EventInternalSuccess)
		return &Artifact{Body: body, ContentType: models.ContentTypePDF}, nil
	})
}

// VaccinationQR returns the QR image of the latest record.
func (s *Service) VaccinationQR(ctx context.Context, lookup Lookup) (*Artifact, error) {
	return s.run(ctx, kindVaccinationQR, tracer.SpanVaccinationQR, lookup.Source(), func(ctx context.Context) (*Artifact, error) {
		records, err := s.resolveVaccination(ctx, lookup)
		if err != nil {
			return nil, err
		}
		latest, _ := assemble.LatestRecord(records)
		png, err := s.qr.PNG([]byte(latest.Certificate))
		if err != nil {
			return nil, s.fail(ctx, lookup.Source(), dErrors.CodeInternal, MsgRenderFailed, err)
		}
		s.succeed(ctx, lookup.Source(), models.EventInternalSuccess)
		return &Artifact{Body: png, ContentType: models.ContentTypePNG}, nil
	})
}

// TestPDF renders a test certificate. No dose history is attached.
func (s *Service) TestPDF(ctx context.Context, preEnrollmentCode string) (*Artifact, error) {
	return s.run(ctx, kindTestPDF, tracer.SpanTestPDF, preEnrollmentCode, func(ctx context.Context) (*Artifact, error) {
		records, lookupErr := s.registry.GetTestCertificateByPreEnrollmentCode(ctx, preEnrollmentCode)
		if err := s.checkRecords(ctx, preEnrollmentCode, records, lookupErr, MsgCertificateNotFound); err != nil {
			return nil, err
		}
		record, _ := assemble.SelectTestRecord(records)
		dataURL, err := s.qr.DataURL([]byte(record.Certificate))
		if err != nil {
			return nil, s.fail(ctx, preEnrollmentCode, dErrors.CodeInternal, MsgRenderFailed, err)
		}
		data, err := s.assembler.Test(record, dataURL)
		if err != nil {
			return nil, s.fail(ctx, preEnrollmentCode, dErrors.CodeInternal, MsgRenderFailed, err)
		}
		body, err := s.render(ctx, preEnrollmentCode, models.TemplateTest, data)
		if err != nil {
			return nil, err
		}
		s.succeed(ctx, preEnrollmentCode, models.EventInternalSuccess)
		return &Artifact{Body: body, ContentType: models.ContentTypePDF}, nil
	})
}

// DCC signs the latest record as an EU Digital COVID Certificate. The signed
// URI is returned as a QR image when outputType is "qrcode", otherwise embedded in
// the vaccination PDF.
func (s *Service) DCC(ctx context.Context, refID, outputType string) (*Artifact, error) {
	return s.run(ctx, kindDCC, tracer.SpanDCC, refID, func(ctx context.Context) (*Artifact, error) {
		return s.signed(ctx, signedRequest{
			refID:      refID,
			outputType: outputType,
			standard:   kindDCC,
			check:      s.payloads.CheckDCC,
			sign:       s.payloads.DCC,
			eventType:  models.EventEUCertSuccess,
		})
	})
}

// SHC signs the latest record as a SMART Health Card, presented like DCC.
func (s *Service) SHC(ctx context.Context, refID, outputType string) (*Artifact, error) {
	return s.run(ctx, kindSHC, tracer.SpanSHC, refID, func(ctx context.Context) (*Artifact, error) {
		return s.signed(ctx, signedRequest{
			refID:      refID,
			outputType: outputType,
			standard:   kindSHC,
			check:      s.payloads.CheckSHC,
			sign:       s.payloads.SHC,
			eventType:  models.EventSHCCertSuccess,
		})
	})
}

// FHIR converts the latest record into a FHIR document.
func (s *Service) FHIR(ctx context.Context, refID string) (*Artifact, error) {
	return s.run(ctx, kindFHIR, tracer.SpanFHIR, refID, func(ctx context.Context) (*Artifact, error) {
		if err := s.payloads.CheckFHIR(); err != nil {
			s.metrics.IncrementConfigurationMissing(kindFHIR)
			return nil, s.fail(ctx, refID, dErrors.CodeConfigurationMissing, err.Error(), err)
		}
		records, lookupErr := s.registry.GetCertificateByPreEnrollmentCode(ctx, refID)
		if err := s.checkRecords(ctx, refID, records, lookupErr, MsgCertificateNotFoundByRef); err != nil {
			return nil, err
		}
		latest, _ := assemble.LatestRecord(records)
		doc, err := s.payloads.FHIR(ctx, latest)
		if err != nil {
			s.metrics.IncrementSigningFailure(kindFHIR)
			return nil, s.fail(ctx, SourceFHIRConverter, dErrors.CodeOf(err), err.Error(), err)
		}
		s.succeed(ctx, refID, models.EventInternalSuccess)
		return &Artifact{Body: doc, ContentType: models.ContentTypeJSON}, nil
	})
}

// CertificateExists reports whether any vaccination record exists for the code.
func (s *Service) CertificateExists(ctx context.Context, preEnrollmentCode string) (bool, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanExists, tracer.String(tracer.AttrLookupKey, tracer.HashReference(preEnrollmentCode)))
	records, err := s.registry.GetCertificateByPreEnrollmentCode(ctx, preEnrollmentCode)
	if err != nil {
		f := s.registryFailure(ctx, preEnrollmentCode, err)
		span.End(f)
		s.metrics.RecordArtifact(kindExists, metrics.OutcomeFailure, time.Since(start).Seconds())
		return false, f
	}
	span.SetAttributes(tracer.Int64(tracer.AttrRecordCount, int64(len(records))))
	span.End(nil)
	outcome := metrics.OutcomeSuccess
	if len(records) == 0 {
		outcome = metrics.OutcomeNotFound
	}
	s.metrics.RecordArtifact(kindExists, outcome, time.Since(start).Seconds())
	return len(records) > 0, nil
}

type signedRequest struct {
	refID      string
	outputType string
	standard   string
	check      func() error
	sign       func(context.Context, models.CertificateRecord) (string, error)
	eventType  models.EventType
}

// signed runs the shared DCC and SHC flow. Configuration is checked before
// the registry is consulted.
func (s *Service) signed(ctx context.Context, req signedRequest) (*Artifact, error) {
	if err := req.check(); err != nil {
		s.metrics.IncrementConfigurationMissing(req.standard)
		return nil, s.fail(ctx, req.refID, dErrors.CodeConfigurationMissing, err.Error(), err)
	}
	records, lookupErr := s.registry.GetCertificateByPreEnrollmentCode(ctx, req.refID)
	if err := s.checkRecords(ctx, req.refID, records, lookupErr, MsgCertificateNotFound); err != nil {
		return nil, err
	}
	latest, _ := assemble.LatestRecord(records)

	uri, err := req.sign(ctx, latest)
	if err != nil {
		s.metrics.IncrementSigningFailure(req.standard)
		return nil, s.fail(ctx, req.refID, dErrors.CodeOf(err), err.Error(), err)
	}

	var artifact *Artifact
	if strings.EqualFold(req.outputType, FormatQRCode) {
		png, err := s.qr.TextPNG(uri)
		if err != nil {
			return nil, s.fail(ctx, req.refID, dErrors.CodeInternal, MsgRenderFailed, err)
		}
		artifact = &Artifact{Body: png, ContentType: models.ContentTypePNG}
	} else {
		dataURL, err := s.qr.TextDataURL(uri)
		if err != nil {
			return nil, s.fail(ctx, req.refID, dErrors.CodeInternal, MsgRenderFailed, err)
		}
		body, err := s.renderVaccine(ctx, req.refID, records, dataURL)
		if err != nil {
			return nil, err
		}
		artifact = &Artifact{Body: body, ContentType: models.ContentTypePDF}
	}

	s.succeed(ctx, req.refID, req.eventType)
	return artifact, nil
}

func (s *Service) resolveVaccination(ctx context.Context, lookup Lookup) ([]models.CertificateRecord, error) {
	var records []models.CertificateRecord
	var lookupErr error
	if lookup.CertificateID != "" {
		records, lookupErr = s.registry.GetCertificate(ctx, lookup.Subject, lookup.CertificateID)
	} else {
		records, lookupErr = s.registry.GetCertificateByPreEnrollmentCode(ctx, lookup.PreEnrollmentCode)
	}
	if err := s.checkRecords(ctx, lookup.Source(), records, lookupErr, MsgCertificateNotFound); err != nil {
		return nil, err
	}
	return records, nil
}

// checkRecords turns a registry error or an empty result into a failure.
func (s *Service) checkRecords(ctx context.Context, source string, records []models.CertificateRecord, err error, notFound string) error {
	if err != nil {
		return s.registryFailure(ctx, source, err)
	}
	s.metrics.ObserveRecords(len(records))
	if len(records) == 0 {
		code := dErrors.CodeNotFound
		if notFound == MsgCertificateNotFoundByRef {
			code = dErrors.CodeNotFoundForReference
		}
		return s.fail(ctx, source, code, notFound, nil)
	}
	return nil
}

func (s *Service) registryFailure(ctx context.Context, source string, err error) *Failure {
	code := dErrors.CodeUpstreamFailure
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		code = domainErr.Code
	}
	return s.fail(ctx, source, code, MsgRegistryUnavailable, err)
}

func (s *Service) renderVaccine(ctx context.Context, source string, records []models.CertificateRecord, qrCode string) ([]byte, error) {
	h, err := history.Aggregate(records)
	if err != nil {
		return nil, s.fail(ctx, source, dErrors.CodeInternal, MsgRenderFailed, err)
	}
	data, err := s.assembler.Vaccine(records, qrCode, h)
	if err != nil {
		return nil, s.fail(ctx, source, dErrors.CodeInternal, MsgRenderFailed, err)
	}
	return s.render(ctx, source, models.TemplateVaccine, data)
}

func (s *Service) render(ctx context.Context, source string, template models.TemplateID, data any) ([]byte, error) {
	body, err := s.renderer.Render(ctx, template, data)
	if err != nil {
		return nil, s.fail(ctx, source, dErrors.CodeUpstreamFailure, MsgRenderFailed, err)
	}
	return body, nil
}

func (s *Service) run(ctx context.Context, kind, span, source string, fn func(context.Context) (*Artifact, error)) (*Artifact, error) {
	start := time.Now()
	ctx, sp := s.tracer.Start(ctx, span, tracer.String(tracer.AttrLookupKey, tracer.HashReference(source)))
	artifact, err := fn(ctx)
	sp.End(err)

	outcome := metrics.OutcomeSuccess
	var f *Failure
	switch {
	case errors.As(err, &f) && (f.Kind == dErrors.CodeNotFound || f.Kind == dErrors.CodeNotFoundForReference):
		outcome = metrics.OutcomeNotFound
	case err != nil:
		outcome = metrics.OutcomeFailure
	}
	s.metrics.RecordArtifact(kind, outcome, time.Since(start).Seconds())
	return artifact, err
}

func (s *Service) fail(ctx context.Context, source string, kind dErrors.Code, extra string, err error) *Failure {
	f := &Failure{Date: s.now(), Kind: kind, Source: source, Extra: extra, Err: err}
	attrs := []any{"kind", kind, "request_id", requestcontext.RequestID(ctx)}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	switch kind {
	case dErrors.CodeNotFound, dErrors.CodeNotFoundForReference:
		s.logger.InfoContext(ctx, "certificate not found", attrs...)
	default:
		s.logger.ErrorContext(ctx, "certificate presentation failed", attrs...)
	}
	s.emit(ctx, f.Event())
	return f
}

func (s *Service) succeed(ctx context.Context, source string, eventType models.EventType) {
	s.emit(ctx, models.Event{Date: s.now(), Source: source, Type: eventType, Extra: MsgCertificateFound})
}

// emit hands the event to the sink without waiting for delivery. Sink errors
// are logged and counted, never returned.
func (s *Service) emit(ctx context.Context, event models.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(context.WithoutCancel(ctx), event); err != nil {
		s.metrics.IncrementEventsDropped()
		s.logger.WarnContext(ctx, "presentation event dropped", "type", event.Type, "error", err)
	}
}
