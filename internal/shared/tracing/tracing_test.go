package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), "atscan", "  ")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := tp.Tracer("test").Start(context.Background(), "op")

	RecordError(span, errors.New("bad pdf"), ErrorTypeExtraction)
	RecordError(span, nil, ErrorTypeInternal)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "bad pdf", ended[0].Status().Description)
	var found bool
	for _, kv := range ended[0].Attributes() {
		if kv.Key == "error.type" {
			found = true
			assert.Equal(t, "extraction", kv.Value.AsString())
		}
	}
	assert.True(t, found, "expected error.type attribute")
	assert.Len(t, ended[0].Events(), 1)
}
