package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"certificate-api/internal/presentation/metrics"
	"certificate-api/internal/presentation/service/mocks"
	"certificate-api/internal/render"
	"certificate-api/pkg/testutil"
)

func renderSampleCount(t *testing.T, reg *prometheus.Registry) uint64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var count uint64
	for _, family := range families {
		if family.GetName() != "certificate_api_render_duration_seconds" {
			continue
		}
		for _, m := range family.GetMetric() {
			count += m.GetHistogram().GetSampleCount()
		}
	}
	return count
}

func Test_VaccinationPDFObservesOneRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "%PDF-1.7 rendered")
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	renderer, err := render.New(srv.URL, time.Second, render.WithMetrics(m), render.WithLogger(logger))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	registry := mocks.NewMockRegistry(ctrl)
	events := mocks.NewMockEventSink(ctrl)
	code := testutil.TestCodes.PreEnrollment
	registry.EXPECT().GetCertificateByPreEnrollmentCode(gomock.Any(), code).Return(twoDoses(), nil)
	events.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := New(registry, renderer, mocks.NewMockPayloadBuilder(ctrl), events,
		WithLogger(logger),
		WithMetrics(m),
	)

	artifact, err := svc.VaccinationPDF(context.Background(), ByPreEnrollmentCode(code))

	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 rendered", string(artifact.Body))
	assert.Equal(t, uint64(1), renderSampleCount(t, reg))
}
