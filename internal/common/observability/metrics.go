package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"

	"manufacturer-quality/internal/common/logger"
)

// Observability bundles the otel meter and tracer that job handlers report into.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider shutdowner
	tracer         trace.Tracer
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	log            logger.Logger
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

type Option func(*options)

type options struct {
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
	log            logger.Logger
}

// WithRegisterer exports otel metrics into reg instead of the default registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithTracerProvider sets the provider spans are started from. Providers that
// implement Shutdown are flushed by Observability.Shutdown.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.log = log }
}

func New(serviceName string, opts ...Option) *Observability {
	o := &options{log: logger.NewNoOpLogger()}
	for _, opt := range opts {
		opt(o)
	}

	obs := &Observability{log: o.log}

	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	obs.tracer = tp.Tracer(serviceName)
	if s, ok := tp.(shutdowner); ok {
		obs.tracerProvider = s
	}

	var exporterOpts []otelprom.Option
	if o.registerer != nil {
		exporterOpts = append(exporterOpts, otelprom.WithRegisterer(o.registerer))
	}
	exporter, err := otelprom.New(exporterOpts...)
	if err != nil {
		o.log.Error("failed to create prometheus exporter", map[string]interface{}{"error": err})
		return obs
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobCounter, _ := meter.Int64Counter(
		"quality_jobs_processed",
		otelmetric.WithDescription("Number of quality jobs processed"),
	)

	jobDuration, _ := meter.Float64Histogram(
		"quality_jobs_duration",
		otelmetric.WithDescription("Quality job processing duration"),
		otelmetric.WithUnit("ms"),
	)

	obs.meterProvider = provider
	obs.jobCounter = jobCounter
	obs.jobDuration = jobDuration
	return obs
}

// StartSpan starts a span named after the task type being processed. A nil
// Observability returns the span already in ctx.
func (o *Observability) StartSpan(ctx context.Context, taskType string) (context.Context, trace.Span) {
	if o == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return o.tracer.Start(ctx, taskType, trace.WithAttributes(attribute.String("task.type", taskType)))
}

// RecordJob counts a finished job and records how long it took.
func (o *Observability) RecordJob(ctx context.Context, taskType, status string, duration time.Duration) {
	if o == nil {
		return
	}
	o.RecordJobProcessed(ctx, taskType, status)
	o.RecordJobDuration(ctx, taskType, duration, status)
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil {
			o.log.Warn("meter provider shutdown failed", map[string]interface{}{"error": err})
		}
	}
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			o.log.Warn("tracer provider shutdown failed", map[string]interface{}{"error": err})
		}
	}
}
