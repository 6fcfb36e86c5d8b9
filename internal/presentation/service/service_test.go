package service

//go:generate mockgen -source=contracts.go -destination=mocks/service_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"certificate-api/internal/presentation/format"
	"certificate-api/internal/presentation/models"
	"certificate-api/internal/presentation/qr"
	"certificate-api/internal/presentation/service/mocks"
	dErrors "certificate-api/pkg/domain-errors"
	"certificate-api/pkg/testutil"
)

var fakePDF = []byte("%PDF-1.7 fake")

type ServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	registry *mocks.MockRegistry
	renderer *mocks.MockRenderer
	payloads *mocks.MockPayloadBuilder
	events   *mocks.MockEventSink
	now      time.Time
	emitted  []models.Event
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.registry = mocks.NewMockRegistry(s.ctrl)
	s.renderer = mocks.NewMockRenderer(s.ctrl)
	s.payloads = mocks.NewMockPayloadBuilder(s.ctrl)
	s.events = mocks.NewMockEventSink(s.ctrl)
	s.now = time.Date(2021, 6, 1, 9, 30, 0, 0, time.UTC)
	s.emitted = nil

	s.events.EXPECT().Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e models.Event) error {
			s.emitted = append(s.emitted, e)
			return nil
		}).AnyTimes()

	s.service = New(s.registry, s.renderer, s.payloads, s.events,
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithClock(func() time.Time { return s.now }),
		WithDates(format.NewDates(time.UTC)),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) requireFailure(err error, kind dErrors.Code, source, extra string) *Failure {
	var f *Failure
	s.Require().ErrorAs(err, &f)
	s.Equal(kind, f.Kind)
	s.Equal(source, f.Source)
	s.Equal(extra, f.Extra)
	s.True(dErrors.HasCode(err, kind))
	return f
}

func (s *ServiceSuite) requireSingleEvent(eventType models.EventType, source, extra string) {
	s.Require().Len(s.emitted, 1)
	s.Equal(models.Event{Date: s.now, Source: source, Type: eventType, Extra: extra}, s.emitted[0])
}

func records(builders ...*testutil.CertificateBuilder) []models.CertificateRecord {
	out := make([]models.CertificateRecord, 0, len(builders))
	for _, b := range builders {
		out = append(out, b.Build())
	}
	return out
}

func twoDoses() []models.CertificateRecord {
	return records(
		testutil.NewCertificateBuilder().WithCertificateID("111").WithDose(1, 2),
		testutil.NewCertificateBuilder().WithCertificateID("222").WithDose(2, 2).
			WithVaccine("COVISHIELD", "4121Z099", "2021-06-12T06:00:00.000Z").
			WithUpdatedAt(time.Date(2021, 6, 12, 8, 0, 0, 0, time.UTC)),
	)
}

func (s *ServiceSuite) TestNotFoundNeverRendersOrSigns() {
	ctx := context.Background()
	code := testutil.TestCodes.PreEnrollment
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), code).Return(nil, nil).AnyTimes()
	s.registry.EXPECT().GetTestCertificateByPreEnrollmentCode(gomock.Any(), code).Return(nil, nil).AnyTimes()
	s.registry.EXPECT().GetCertificate(gomock.Any(), testutil.TestCodes.Phone, "425581620").Return([]models.CertificateRecord{}, nil).AnyTimes()
	s.payloads.EXPECT().CheckDCC().Return(nil).AnyTimes()
	s.payloads.EXPECT().CheckSHC().Return(nil).AnyTimes()
	s.payloads.EXPECT().CheckFHIR().Return(nil).AnyTimes()

	operations := map[string]func() (*Artifact, error){
		"vaccination pdf by code": func() (*Artifact, error) { return s.service.VaccinationPDF(ctx, ByPreEnrollmentCode(code)) },
		"vaccination pdf by id": func() (*Artifact, error) {
			return s.service.VaccinationPDF(ctx, ByCertificateID(testutil.TestCodes.Phone, "425581620"))
		},
		"vaccination qr": func() (*Artifact, error) { return s.service.VaccinationQR(ctx, ByPreEnrollmentCode(code)) },
		"test pdf":       func() (*Artifact, error) { return s.service.TestPDF(ctx, code) },
		"dcc":            func() (*Artifact, error) { return s.service.DCC(ctx, code, "qrcode") },
		"shc":            func() (*Artifact, error) { return s.service.SHC(ctx, code, "") },
	}
	for name, op := range operations {
		s.Run(name, func() {
			s.emitted = nil
			artifact, err := op()
			s.Nil(artifact)
			f := s.requireFailure(err, dErrors.CodeNotFound, notFoundSource(name, code), MsgCertificateNotFound)
			s.requireSingleEvent(models.EventInternalFailed, f.Source, MsgCertificateNotFound)
		})
	}

	s.Run("fhir", func() {
		s.emitted = nil
		artifact, err := s.service.FHIR(ctx, code)
		s.Nil(artifact)
		s.requireFailure(err, dErrors.CodeNotFoundForReference, code, MsgCertificateNotFoundByRef)
		s.requireSingleEvent(models.EventInternalFailed, code, MsgCertificateNotFoundByRef)
	})
}

// notFoundSource is the event source reported by the lookups above.
func notFoundSource(name, code string) string {
	if name == "vaccination pdf by id" {
		return "425581620"
	}
	return code
}

func (s *ServiceSuite) TestVaccinationPDF() {
	recs := twoDoses()
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "9876543210").Return(recs, nil)

	var data models.VaccinePresentation
	s.renderer.EXPECT().Render(gomock.Any(), models.TemplateVaccine, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.TemplateID, d any) ([]byte, error) {
			data = d.(models.VaccinePresentation)
			return fakePDF, nil
		})

	artifact, err := s.service.VaccinationPDF(context.Background(), ByPreEnrollmentCode("9876543210"))
	s.Require().NoError(err)
	s.Equal(&Artifact{Body: fakePDF, ContentType: models.ContentTypePDF}, artifact)

	s.True(data.IsFinalDose)
	s.False(data.IsBoosterDose)
	s.Equal("(2nd Dose)", data.CurrentDoseText)
	s.Equal("12-Jun-2021 (Batch no. 4121Z099 )", data.VaccinationDate)
	s.Require().Len(data.VaxEvents, 2)
	s.Equal("Primary Dose 2", data.VaxEvents[0].DoseType)
	s.Equal("Primary Dose 1", data.VaxEvents[1].DoseType)

	s.Require().True(strings.HasPrefix(data.QRCode, "data:image/png;base64,"))
	s.requireSingleEvent(models.EventInternalSuccess, "9876543210", MsgCertificateFound)
}

func (s *ServiceSuite) TestVaccinationPDFByCertificateID() {
	s.registry.EXPECT().GetCertificate(gomock.Any(), testutil.TestCodes.Phone, "222").Return(twoDoses(), nil)
	s.renderer.EXPECT().Render(gomock.Any(), models.TemplateVaccine, gomock.Any()).Return(fakePDF, nil)

	_, err := s.service.VaccinationPDF(context.Background(), ByCertificateID(testutil.TestCodes.Phone, "222"))
	s.Require().NoError(err)
	s.requireSingleEvent(models.EventInternalSuccess, "222", MsgCertificateFound)
}

func (s *ServiceSuite) TestVaccinationQRCarriesLatestCertificate() {
	recs := twoDoses()
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "9876543210").Return(recs, nil)

	artifact, err := s.service.VaccinationQR(context.Background(), ByPreEnrollmentCode("9876543210"))
	s.Require().NoError(err)
	s.Equal(models.ContentTypePNG, artifact.ContentType)

	doc, err := qr.DecodeDocument(artifact.Body)
	s.Require().NoError(err)
	s.Equal(recs[1].Certificate, string(doc))
}

func (s *ServiceSuite) TestTestPDF() {
	evidence := testutil.NewTestEvidence()
	older := testutil.NewCertificateBuilder().WithEvidence(evidence).WithUpdatedAt(time.Date(2021, 5, 21, 10, 0, 0, 0, time.UTC))
	evidence.Result = "Positive"
	newer := testutil.NewCertificateBuilder().WithEvidence(evidence).WithUpdatedAt(time.Date(2021, 5, 22, 10, 0, 0, 0, time.UTC))
	s.registry.EXPECT().GetTestCertificateByPreEnrollmentCode(gomock.Any(), "9876543210").Return(records(older, newer), nil)

	var data models.TestPresentation
	s.renderer.EXPECT().Render(gomock.Any(), models.TemplateTest, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.TemplateID, d any) ([]byte, error) {
			data = d.(models.TestPresentation)
			return fakePDF, nil
		})

	artifact, err := s.service.TestPDF(context.Background(), "9876543210")
	s.Require().NoError(err)
	s.Equal(models.ContentTypePDF, artifact.ContentType)
	s.Equal("Positive", data.Result)
	s.Equal("RT-PCR", data.TestType)
	s.Equal("21-May-2021 9:45", data.ResultDate)
	s.requireSingleEvent(models.EventInternalSuccess, "9876543210", MsgCertificateFound)
}

func (s *ServiceSuite) TestDCCAsQRCode() {
	recs := twoDoses()
	s.payloads.EXPECT().CheckDCC().Return(nil)
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "12346").Return(recs, nil)
	s.payloads.EXPECT().DCC(gomock.Any(), recs[1]).Return("HC1:6BFOXN%TS3DH0YOJ58S", nil)

	artifact, err := s.service.DCC(context.Background(), "12346", "QRCode")
	s.Require().NoError(err)
	s.Equal(models.ContentTypePNG, artifact.ContentType)

	text, err := qr.DecodePNG(artifact.Body)
	s.Require().NoError(err)
	s.Equal("HC1:6BFOXN%TS3DH0YOJ58S", text)
	s.requireSingleEvent(models.EventEUCertSuccess, "12346", MsgCertificateFound)
}

func (s *ServiceSuite) TestSHCAsPDF() {
	recs := twoDoses()
	s.payloads.EXPECT().CheckSHC().Return(nil)
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "12346").Return(recs, nil)
	s.payloads.EXPECT().SHC(gomock.Any(), recs[1]).Return("shc:/567629095243206034602924374044", nil)

	var data models.VaccinePresentation
	s.renderer.EXPECT().Render(gomock.Any(), models.TemplateVaccine, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.TemplateID, d any) ([]byte, error) {
			data = d.(models.VaccinePresentation)
			return fakePDF, nil
		})

	artifact, err := s.service.SHC(context.Background(), "12346", "")
	s.Require().NoError(err)
	s.Equal(models.ContentTypePDF, artifact.ContentType)
	s.Len(data.VaxEvents, 2)

	expected, err := qr.New().TextDataURL("shc:/567629095243206034602924374044")
	s.Require().NoError(err)
	s.Equal(expected, data.QRCode)
	s.requireSingleEvent(models.EventSHCCertSuccess, "12346", MsgCertificateFound)
}

func (s *ServiceSuite) TestSignedPayloadConfigurationMissing() {
	missing := dErrors.New(dErrors.CodeConfigurationMissing, "configuration not set")
	s.payloads.EXPECT().CheckDCC().Return(missing)
	s.payloads.EXPECT().CheckSHC().Return(missing)
	s.payloads.EXPECT().CheckFHIR().Return(missing)

	_, err := s.service.DCC(context.Background(), "12346", "qrcode")
	s.requireFailure(err, dErrors.CodeConfigurationMissing, "12346", "configuration not set")
	_, err = s.service.SHC(context.Background(), "12346", "qrcode")
	s.requireFailure(err, dErrors.CodeConfigurationMissing, "12346", "configuration not set")
	_, err = s.service.FHIR(context.Background(), "12346")
	s.requireFailure(err, dErrors.CodeConfigurationMissing, "12346", "configuration not set")
}

func (s *ServiceSuite) TestSignerFailure() {
	s.payloads.EXPECT().CheckSHC().Return(nil)
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "12346").Return(twoDoses(), nil)
	s.payloads.EXPECT().SHC(gomock.Any(), gomock.Any()).
		Return("", dErrors.Wrap(errors.New("sign"), dErrors.CodeUpstreamFailure, "jws: signing failed"))

	artifact, err := s.service.SHC(context.Background(), "12346", "qrcode")
	s.Nil(artifact)
	s.requireFailure(err, dErrors.CodeUpstreamFailure, "12346", "jws: signing failed")
	s.requireSingleEvent(models.EventInternalFailed, "12346", "jws: signing failed")
}

func (s *ServiceSuite) TestFHIR() {
	recs := twoDoses()
	doc := json.RawMessage(`{"resourceType":"Bundle","type":"document"}`)
	s.payloads.EXPECT().CheckFHIR().Return(nil)
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "12346").Return(recs, nil)
	s.payloads.EXPECT().FHIR(gomock.Any(), recs[1]).Return(doc, nil)

	artifact, err := s.service.FHIR(context.Background(), "12346")
	s.Require().NoError(err)
	s.Equal(models.ContentTypeJSON, artifact.ContentType)
	s.JSONEq(string(doc), string(artifact.Body))
}

func (s *ServiceSuite) TestFHIRConverterFailure() {
	s.payloads.EXPECT().CheckFHIR().Return(nil)
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "12346").Return(twoDoses(), nil)
	s.payloads.EXPECT().FHIR(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.Wrap(errors.New("x"), dErrors.CodeUpstreamFailure, "unknown vaccine"))

	_, err := s.service.FHIR(context.Background(), "12346")
	s.requireFailure(err, dErrors.CodeUpstreamFailure, SourceFHIRConverter, "unknown vaccine")
}

func (s *ServiceSuite) TestRegistryFailure() {
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "9876543210").Return(nil, errors.New("connection refused"))

	_, err := s.service.VaccinationQR(context.Background(), ByPreEnrollmentCode("9876543210"))
	f := s.requireFailure(err, dErrors.CodeUpstreamFailure, "9876543210", MsgRegistryUnavailable)
	s.EqualError(f.Err, "connection refused")
}

func (s *ServiceSuite) TestRendererFailure() {
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "9876543210").Return(twoDoses(), nil)
	s.renderer.EXPECT().Render(gomock.Any(), models.TemplateVaccine, gomock.Any()).Return(nil, errors.New("chromium exited"))

	_, err := s.service.VaccinationPDF(context.Background(), ByPreEnrollmentCode("9876543210"))
	s.requireFailure(err, dErrors.CodeUpstreamFailure, "9876543210", MsgRenderFailed)
}

func (s *ServiceSuite) TestUnreadableRecord() {
	bad := []models.CertificateRecord{{Certificate: `{"evidence":[]}`, UpdatedAt: s.now}}
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "9876543210").Return(bad, nil)

	_, err := s.service.VaccinationPDF(context.Background(), ByPreEnrollmentCode("9876543210"))
	s.requireFailure(err, dErrors.CodeInternal, "9876543210", MsgRenderFailed)
}

func (s *ServiceSuite) TestEventSinkErrorDoesNotFailRequest() {
	ctrl := gomock.NewController(s.T())
	events := mocks.NewMockEventSink(ctrl)
	events.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("buffer full"))
	svc := New(s.registry, s.renderer, s.payloads, events,
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "9876543210").Return(twoDoses(), nil)
	artifact, err := svc.VaccinationQR(context.Background(), ByPreEnrollmentCode("9876543210"))
	s.Require().NoError(err)
	s.NotEmpty(artifact.Body)
}

func (s *ServiceSuite) TestCertificateExists() {
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "9876543210").Return(twoDoses(), nil)
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "0000000000").Return(nil, nil)
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), "1111111111").Return(nil, errors.New("timeout"))

	exists, err := s.service.CertificateExists(context.Background(), "9876543210")
	s.NoError(err)
	s.True(exists)

	exists, err = s.service.CertificateExists(context.Background(), "0000000000")
	s.NoError(err)
	s.False(exists)

	_, err = s.service.CertificateExists(context.Background(), "1111111111")
	s.True(dErrors.HasCode(err, dErrors.CodeUpstreamFailure))
}

func (s *ServiceSuite) TestRequestsRunConcurrently() {
	s.registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, code string) ([]models.CertificateRecord, error) {
			if code == "missing" {
				return nil, nil
			}
			return twoDoses(), nil
		}).AnyTimes()

	svc := New(s.registry, s.renderer, s.payloads, nil,
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	result := testutil.RunConcurrent(20, func(i int) error {
		code := "9876543210"
		if i%2 == 0 {
			code = "missing"
		}
		_, err := svc.VaccinationQR(context.Background(), ByPreEnrollmentCode(code))
		return err
	})
	s.Equal(int32(10), result.Successes)
	s.Equal(int32(10), result.NotFounds)
	s.Zero(result.Errors)
}
