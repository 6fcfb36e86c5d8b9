package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	newCtx, span := NewNoop().Start(ctx, SpanDCC, String(AttrFormat, "qrcode"))

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)
	span.SetAttributes(Bool("flag", true))
	span.AddEvent(EventRendered, Int64(AttrRecordCount, 2))
	span.End(errors.New("boom"))
}

func TestOTelTracerWithNoopProvider(t *testing.T) {
	tr := NewOTel(WithOTelTracer(noop.NewTracerProvider().Tracer(InstrumentationName)))
	_, span := tr.Start(context.Background(), SpanFHIR, String(AttrLookupKey, HashReference("12346")))
	require.NotNil(t, span)
	span.AddEvent(EventRecordsResolved)
	span.End(nil)
}

func TestHashReference(t *testing.T) {
	assert.Empty(t, HashReference(""))
	assert.Len(t, HashReference("9876543210"), 16)
	assert.Equal(t, HashReference("9876543210"), HashReference("9876543210"))
	assert.NotEqual(t, HashReference("9876543210"), HashReference("9876543211"))
}

func TestToOTelAttributes(t *testing.T) {
	got := toOTelAttributes([]Attribute{
		String("s", "v"),
		Bool("b", true),
		Int64("i64", 7),
		{Key: "i", Value: 3},
		Duration("d", 1500*1e6),
		{Key: "dropped", Value: struct{}{}},
	})

	assert.Equal(t, []attribute.KeyValue{
		attribute.String("s", "v"),
		attribute.Bool("b", true),
		attribute.Int64("i64", 7),
		attribute.Int("i", 3),
		attribute.Int64("d", 1500),
	}, got)
	assert.Nil(t, toOTelAttributes(nil))
}
