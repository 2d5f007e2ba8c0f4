// Package server exposes the solve runner over HTTP.
//
//	GET  /health   liveness check
//	GET  /info     build information
//	POST /solve    solve an almanac, JSON in and out
//	POST /trace    render the split trace as SVG or DOT
//	GET  /metrics  Prometheus exposition, when configured
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/almanac/pkg/buildinfo"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
	"github.com/matzehuels/almanac/pkg/observability"
	"github.com/matzehuels/almanac/pkg/pipeline"
)

// maxBodyBytes bounds request bodies. The JSON envelope adds a little to
// the almanac size limit enforced by the runner.
const maxBodyBytes = 5 << 20

// Server handles API requests.
type Server struct {
	Runner  *pipeline.Runner
	Logger  *log.Logger
	Metrics http.Handler
	Timeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.Metrics = h }
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.Timeout = d }
}

// NewHandler builds the router.
func NewHandler(runner *pipeline.Runner, logger *log.Logger, opts ...Option) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{Runner: runner, Logger: logger, Timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	if s.Timeout > 0 {
		r.Use(middleware.Timeout(s.Timeout))
	}

	r.Get("/health", s.health)
	r.Get("/info", s.info)
	r.Post("/solve", s.solve)
	r.Post("/trace", s.trace)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	return r
}

// instrument logs every request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.Logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// errorResponse is the body of every non-2xx JSON reply.
type errorResponse struct {
	Error string         `json:"error"`
	Code  apperrors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code: invalid input is 400, an empty
// result 422 and anything else 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsInvalid(err):
		status = http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrCodeEmptyResult):
		status = http.StatusUnprocessableEntity
	}

	code := apperrors.GetCode(err)
	msg := apperrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
		if code == "" {
			code = apperrors.ErrCodeInternal
		}
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}
