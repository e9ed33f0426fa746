// Package http serves the playback control API, health checks and metrics.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"spotifyproxy/internal/core"
	"spotifyproxy/internal/flood"
	"spotifyproxy/internal/i18n"
)

const shutdownTimeout = 10 * time.Second

// Controller is the playback session the API drives.
type Controller interface {
	Enqueue(ctx context.Context, intent core.Intent, query, owner string) (int, error)
	QueueLength() int
	SetPlayMode(mode core.PlayMode)
	SetExplicitFilter(filter core.ExplicitFilter) int
	Next() (core.QueueItem, bool)
	Prev() (core.QueueItem, bool)
	Seek(position int) (core.QueueItem, bool)
	RemoveCurrent() (core.QueueItem, bool)
	ClearQueue()
	Current() core.TrackInfo
	Listing() []string
	Localizer() *i18n.Localizer
}

type Server struct {
	config     *core.ServerConfig
	logger     *zap.Logger
	server     *http.Server
	metrics    *Metrics
	registry   *prometheus.Registry
	controller Controller
	floodgate  *flood.Floodgate

	// mutex serializes access to the single playback session
	mutex sync.Mutex
}

type Metrics struct {
	RequestsTotal  *prometheus.CounterVec
	EnqueuedTotal  *prometheus.CounterVec
	NotFoundTotal  *prometheus.CounterVec
	ErrorsTotal    *prometheus.CounterVec
	RateLimited    prometheus.Counter
	ProcessingTime *prometheus.HistogramVec
	QueueLength    prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotifyproxy_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"route", "status"},
		),
		EnqueuedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotifyproxy_enqueued_tracks_total",
				Help: "Total number of tracks added to the playback queue",
			},
			[]string{"intent"},
		),
		NotFoundTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotifyproxy_not_found_total",
				Help: "Total number of requests that added nothing",
			},
			[]string{"intent"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotifyproxy_errors_total",
				Help: "Total number of errors",
			},
			[]string{"component", "type"},
		),
		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "spotifyproxy_rate_limited_total",
				Help: "Total number of requests rejected by the flood gate",
			},
		),
		ProcessingTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spotifyproxy_request_duration_seconds",
				Help:    "Time spent serving API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		QueueLength: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "spotifyproxy_queue_length",
				Help: "Current number of tracks in the playback queue",
			},
		),
	}
}

// NewServer wires the API to controller. Every server owns a private
// metrics registry; extra collectors are registered alongside the API metrics.
func NewServer(config *core.ServerConfig, controller Controller, floodgate *flood.Floodgate,
	logger *zap.Logger, extra ...prometheus.Collector,
) *Server {
	metrics := newMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.RequestsTotal,
		metrics.EnqueuedTotal,
		metrics.NotFoundTotal,
		metrics.ErrorsTotal,
		metrics.RateLimited,
		metrics.ProcessingTime,
		metrics.QueueLength,
	)
	registry.MustRegister(extra...)

	s := &Server{
		config:     config,
		logger:     logger.Named("http"),
		metrics:    metrics,
		registry:   registry,
		controller: controller,
		floodgate:  floodgate,
	}
	s.server = createHTTPServer(config, s.setupRoutes())

	return s
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func (s *Server) setupRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/", homeHandler)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "spotifyproxy"})
	})
	router.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "service": "spotifyproxy"})
	})
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	router.Route("/v1", func(r chi.Router) {
		r.Post("/enqueue/{intent}", s.handle("enqueue", s.handleEnqueue))
		r.Post("/mode", s.handle("mode", s.handleMode))
		r.Post("/filter", s.handle("filter", s.handleFilter))
		r.Post("/navigate/{action}", s.handle("navigate", s.handleNavigate))
		r.Get("/current", s.handle("current", s.handleCurrent))
		r.Get("/queue", s.handle("queue", s.handleQueue))
		r.Delete("/queue", s.handle("clear", s.handleClear))
	})

	return router
}

func homeHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Spotify Proxy</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .endpoint { margin: 10px 0; font-family: monospace; }
    </style>
</head>
<body>
    <h1>Spotify Proxy</h1>
    <p>Spotify catalog playback queue for media players.</p>

    <h2>Endpoints</h2>
    <div class="endpoint">POST /v1/enqueue/{intent}</div>
    <div class="endpoint">POST /v1/mode, POST /v1/filter</div>
    <div class="endpoint">POST /v1/navigate/{next|prev|seek|remove|current}</div>
    <div class="endpoint">GET /v1/current, GET /v1/queue, DELETE /v1/queue</div>
    <div class="endpoint"><a href="/metrics">/metrics</a>, <a href="/healthz">/healthz</a>, <a href="/readyz">/readyz</a></div>
</body>
</html>`))
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// apiHandler serves one API request while holding the session lock. It
// returns the response status and body.
type apiHandler func(r *http.Request) (int, any)

// handle throttles, serializes and instruments an API route.
func (s *Server) handle(route string, h apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if s.floodgate != nil && !s.floodgate.Allow(clientAddress(r)) {
			s.metrics.RateLimited.Inc()
			s.metrics.RequestsTotal.WithLabelValues(route, "429").Inc()
			writeJSON(w, http.StatusTooManyRequests, s.errorBody("error.rate_limited"))
			return
		}

		s.mutex.Lock()
		status, body := h(r)
		s.metrics.QueueLength.Set(float64(s.controller.QueueLength()))
		s.mutex.Unlock()

		writeJSON(w, status, body)

		s.metrics.RequestsTotal.WithLabelValues(route, fmt.Sprint(status)).Inc()
		s.metrics.ProcessingTime.WithLabelValues(route).Observe(time.Since(start).Seconds())
		s.logger.Debug("Served API request",
			zap.String("route", route),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)))
	}
}

type enqueueRequest struct {
	Query string `json:"query"`
	Owner string `json:"owner"`
}

type enqueueResponse struct {
	Added       int `json:"added"`
	QueueLength int `json:"queue_length"`
}

func (s *Server) handleEnqueue(r *http.Request) (int, any) {
	intent, err := core.ParseIntent(chi.URLParam(r, "intent"))
	if err != nil {
		return http.StatusBadRequest, s.errorBody("error.unknown_intent", chi.URLParam(r, "intent"))
	}

	var req enqueueRequest
	if err := decodeBody(r, &req); err != nil {
		return http.StatusBadRequest, s.errorBody("error.bad_request", err.Error())
	}

	added, err := s.controller.Enqueue(r.Context(), intent, req.Query, req.Owner)
	if err != nil {
		return s.enqueueFailed(intent, req.Query, err)
	}

	s.metrics.EnqueuedTotal.WithLabelValues(intent.String()).Add(float64(added))
	return http.StatusOK, enqueueResponse{Added: added, QueueLength: s.controller.QueueLength()}
}

func (s *Server) enqueueFailed(intent core.Intent, query string, err error) (int, any) {
	localizer := s.controller.Localizer()

	var notFound *core.NotFoundError
	switch {
	case errors.As(err, &notFound):
		s.metrics.NotFoundTotal.WithLabelValues(intent.String()).Inc()
		return http.StatusNotFound, errorResponse{Error: notFound.Message}
	case errors.Is(err, core.ErrInvalidID):
		label := localizer.T("label." + intent.String())
		return http.StatusBadRequest, errorResponse{Error: localizer.T("error.invalid_id", label, query)}
	default:
		s.metrics.ErrorsTotal.WithLabelValues("enqueue", intent.String()).Inc()
		s.logger.Error("Enqueue failed", zap.Stringer("intent", intent), zap.Error(err))
		return http.StatusInternalServerError, s.errorBody("error.generic")
	}
}

type modeRequest struct {
	PlayMode string `json:"play_mode"`
}

func (s *Server) handleMode(r *http.Request) (int, any) {
	var req modeRequest
	if err := decodeBody(r, &req); err != nil {
		return http.StatusBadRequest, s.errorBody("error.bad_request", err.Error())
	}
	mode, err := core.ParsePlayMode(req.PlayMode)
	if err != nil {
		return http.StatusBadRequest, s.errorBody("error.bad_request", err.Error())
	}

	s.controller.SetPlayMode(mode)
	return http.StatusOK, map[string]any{"play_mode": mode.String(), "queue_length": s.controller.QueueLength()}
}

type filterRequest struct {
	Explicit string `json:"explicit"`
}

func (s *Server) handleFilter(r *http.Request) (int, any) {
	var req filterRequest
	if err := decodeBody(r, &req); err != nil {
		return http.StatusBadRequest, s.errorBody("error.bad_request", err.Error())
	}
	filter, err := core.ParseExplicitFilter(req.Explicit)
	if err != nil {
		return http.StatusBadRequest, s.errorBody("error.bad_request", err.Error())
	}

	removed := s.controller.SetExplicitFilter(filter)
	return http.StatusOK, map[string]any{
		"explicit":     filter.String(),
		"removed":      removed,
		"queue_length": s.controller.QueueLength(),
	}
}

type seekRequest struct {
	Position int `json:"position"`
}

func (s *Server) handleNavigate(r *http.Request) (int, any) {
	var ok bool
	switch action := chi.URLParam(r, "action"); action {
	case "next":
		_, ok = s.controller.Next()
	case "prev":
		_, ok = s.controller.Prev()
	case "seek":
		var req seekRequest
		if err := decodeBody(r, &req); err != nil {
			return http.StatusBadRequest, s.errorBody("error.bad_request", err.Error())
		}
		_, ok = s.controller.Seek(req.Position)
	case "remove":
		removed, removedOK := s.controller.RemoveCurrent()
		if !removedOK {
			return http.StatusNotFound, s.errorBody("error.queue_empty")
		}
		return http.StatusOK, map[string]any{
			"removed":      removed.URI,
			"title":        removed.Title,
			"queue_length": s.controller.QueueLength(),
		}
	case "current":
		ok = s.controller.QueueLength() > 0
	default:
		return http.StatusNotFound, s.errorBody("error.bad_request", action)
	}

	if !ok {
		return http.StatusNotFound, s.errorBody("error.queue_empty")
	}
	return http.StatusOK, s.controller.Current()
}

func (s *Server) handleCurrent(_ *http.Request) (int, any) {
	return http.StatusOK, s.controller.Current()
}

func (s *Server) handleQueue(_ *http.Request) (int, any) {
	return http.StatusOK, map[string]any{
		"lines":        s.controller.Listing(),
		"queue_length": s.controller.QueueLength(),
	}
}

func (s *Server) handleClear(_ *http.Request) (int, any) {
	s.controller.ClearQueue()
	return http.StatusOK, map[string]any{"queue_length": s.controller.QueueLength()}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) errorBody(key string, args ...any) errorResponse {
	return errorResponse{Error: s.controller.Localizer().T(key, args...)}
}

// decodeBody decodes an optional JSON body into v.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already written, so an encoding error cannot be reported
	_ = json.NewEncoder(w).Encode(body)
}

// clientAddress keys the flood gate by remote host.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
