package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"manufacturer-quality/internal/common/logger"
)

func TestRecordJob_ExportsToRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := New("quality-test", WithRegisterer(reg), WithLogger(logger.NewTestLogger(t)))
	defer obs.Shutdown()

	obs.RecordJob(context.Background(), "get-manufacturing-overview", "success", 120*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "quality_jobs_processed")
	assert.Contains(t, joined, "quality_jobs_duration")
}

func TestStartSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	obs := New("quality-test", WithRegisterer(prometheus.NewRegistry()), WithTracerProvider(tp))

	_, span := obs.StartSpan(context.Background(), "send-manufacturing-chat-message")
	span.End()
	obs.Shutdown()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "send-manufacturing-chat-message", ended[0].Name())
}

func TestNewTracerProvider_WithoutEndpoint(t *testing.T) {
	tp, err := NewTracerProvider("quality-test", "")
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}
