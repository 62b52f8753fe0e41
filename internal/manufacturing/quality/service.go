// internal/manufacturing/quality/service.go
package quality

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "manufacturer-quality/internal/common/errors"
	"manufacturer-quality/internal/common/logger"
	"manufacturer-quality/internal/common/metrics"
	"manufacturer-quality/internal/manufacturing/sampling"
)

const (
	OpOverview        = "get_overview"
	OpListModels      = "list_models"
	OpModelDefects    = "get_model_defects"
	OpListLocations   = "list_locations"
	OpLocationDefects = "get_location_defects"
	OpChat            = "send_chat_message"
)

const tracerName = "manufacturer-quality/quality"

// Latency is the simulated round-trip time of each operation.
type Latency struct {
	Overview        time.Duration
	Models          time.Duration
	ModelDefects    time.Duration
	Locations       time.Duration
	LocationDefects time.Duration
	Chat            time.Duration
}

func DefaultLatency() Latency {
	return Latency{
		Overview:        350 * time.Millisecond,
		Models:          280 * time.Millisecond,
		ModelDefects:    400 * time.Millisecond,
		Locations:       300 * time.Millisecond,
		LocationDefects: 350 * time.Millisecond,
		Chat:            800 * time.Millisecond,
	}
}

// Scaled multiplies every delay by factor. A factor <= 0 disables the delays.
func (l Latency) Scaled(factor float64) Latency {
	if factor <= 0 {
		return Latency{}
	}
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) * factor)
	}
	return Latency{
		Overview:        scale(l.Overview),
		Models:          scale(l.Models),
		ModelDefects:    scale(l.ModelDefects),
		Locations:       scale(l.Locations),
		LocationDefects: scale(l.LocationDefects),
		Chat:            scale(l.Chat),
	}
}

type Config struct {
	Latency Latency
	// Seed fixes the random sequence of every call when non-zero.
	Seed uint64
}

func DefaultConfig() *Config {
	return &Config{Latency: DefaultLatency()}
}

type Option func(*Service)

func WithSamplerFactory(factory sampling.Factory) Option {
	return func(s *Service) {
		s.samplers = factory
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service produces mock quality data and canned assistant replies.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	config   *Config
	logger   logger.Logger
	samplers sampling.Factory
	now      func() time.Time
	tracer   trace.Tracer
}

func NewService(config *Config, log logger.Logger, opts ...Option) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	s := &Service{
		config:   config,
		logger:   log,
		samplers: sampling.RandomFactory(),
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
	}
	if config.Seed != 0 {
		s.samplers = sampling.SeededFactory(config.Seed)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Config() *Config {
	return s.config
}

// execute waits out the simulated latency, then runs gen with a sampler owned by
// this call. Nothing is generated once ctx is done.
func execute[T any](ctx context.Context, s *Service, op string, delay time.Duration, gen func(*sampling.Sampler) T) (T, error) {
	ctx, span := s.tracer.Start(ctx, "quality."+op, trace.WithAttributes(attribute.String("quality.operation", op)))
	defer span.End()

	start := time.Now()
	var result T

	err := s.wait(ctx, op, delay)
	if err == nil {
		result, err = generate(s, op, gen)
	}

	status := "success"
	if err != nil {
		status = string(apperrors.AsStandardError(err).Code)
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
	}
	elapsed := time.Since(start)
	metrics.QualityRequests.WithLabelValues(op, status).Inc()
	metrics.QualityRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	s.logger.Debug("quality operation finished", map[string]interface{}{
		"operation":  op,
		"status":     status,
		"durationMs": elapsed.Milliseconds(),
	})
	return result, err
}

func (s *Service) wait(ctx context.Context, op string, delay time.Duration) error {
	if err := ctx.Err(); err != nil {
		return lifecycleError(op, err)
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return lifecycleError(op, ctx.Err())
	case <-timer.C:
		return nil
	}
}

func generate[T any](s *Service, op string, gen func(*sampling.Sampler) T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewGenerationFailedError(op, fmt.Errorf("%v", r))
		}
	}()
	return gen(s.samplers()), nil
}

func lifecycleError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewRequestTimeoutError(op, err)
	}
	return apperrors.NewRequestCancelledError(op, err)
}
