// internal/api/server.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"manufacturer-quality/internal/common/logger"
	"manufacturer-quality/internal/manufacturing/quality"
)

// QualityService is the data service behind the dashboard endpoints.
type QualityService interface {
	GetOverview(ctx context.Context, filter *quality.OverviewFilter) (*quality.OverviewSnapshot, error)
	ListModels(ctx context.Context, filter *quality.ModelsFilter) ([]quality.ModelSummary, error)
	GetModelDefects(ctx context.Context, modelID string) (*quality.ModelDefectDetail, error)
	ListLocations(ctx context.Context, filter *quality.LocationsFilter) ([]quality.LocationSummary, error)
	GetLocationDefects(ctx context.Context, locID string) (*quality.LocationDefectDetail, error)
	SendChatMessage(ctx context.Context, req quality.ChatRequest) (*quality.ChatResponse, error)
}

// ReadinessCheck reports whether downstream dependencies are reachable.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	service        QualityService
	logger         logger.Logger
	ready          ReadinessCheck
	requestTimeout time.Duration
	mux            *http.ServeMux
}

type Option func(*Server)

func WithReadinessCheck(check ReadinessCheck) Option {
	return func(s *Server) { s.ready = check }
}

// WithRequestTimeout bounds every data request. Zero leaves only the client's
// own cancellation in effect.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.requestTimeout = d }
}

func NewServer(service QualityService, log logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Server{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"component": "api"}),
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.handle("GET /api/manufacturer/overview", "overview", s.handleOverview)
	s.handle("GET /api/manufacturer/models", "models", s.handleModels)
	s.handle("GET /api/manufacturer/models/{modelId}/defects", "model_defects", s.handleModelDefects)
	s.handle("GET /api/manufacturer/locations", "locations", s.handleLocations)
	s.handle("GET /api/manufacturer/locations/{locId}/defects", "location_defects", s.handleLocationDefects)
	s.handle("POST /api/manufacturer/chat", "chat", s.handleChat)

	s.handle("GET /health", "health", s.handleHealth)
	s.handle("GET /ready", "ready", s.handleReady)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

func (s *Server) handle(pattern, route string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.instrument(route, h))
}

// Handler returns the routed API with request ids and panic recovery applied.
func (s *Server) Handler() http.Handler {
	return requestID(s.recoverPanics(s.mux))
}

// NewHTTPServer wraps Handler in an http.Server with the given timeouts.
func (s *Server) NewHTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.requestTimeout > 0 {
		return context.WithTimeout(r.Context(), s.requestTimeout)
	}
	return context.WithCancel(r.Context())
}
