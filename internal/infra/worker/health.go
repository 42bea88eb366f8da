package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newshub/internal/observability/tracing"
)

// StatusFunc reports a JSON-encodable snapshot, e.g. notification channel health.
type StatusFunc func() any

// HealthServer serves liveness, readiness, channel status and Prometheus
// metrics for the worker.
//
//	GET /health          always 200
//	GET /health/ready    200 once SetReady(true), 503 before
//	GET /health/channels channel status from the StatusFunc
//	GET /metrics         Prometheus exposition
type HealthServer struct {
	addr     string
	logger   *slog.Logger
	isReady  atomic.Bool
	channels StatusFunc
	server   *http.Server
}

type healthResponse struct {
	Status string `json:"status"`
}

// NewHealthServer creates a server that starts not ready. channels may be nil.
func NewHealthServer(addr string, logger *slog.Logger, channels StatusFunc) *HealthServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthServer{addr: addr, logger: logger, channels: channels}
}

// Handler returns the server's routes wrapped in tracing middleware.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleLiveness)
	mux.HandleFunc("/health/ready", h.handleReadiness)
	mux.HandleFunc("/health/channels", h.handleChannels)
	mux.Handle("/metrics", promhttp.Handler())
	return tracing.Middleware(mux)
}

// Start serves until ctx is canceled, then shuts down within 5 seconds.
// It returns http.ErrServerClosed after a graceful shutdown.
func (h *HealthServer) Start(ctx context.Context) error {
	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      h.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		errChan <- h.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		h.logger.Info("health server stopped")
		return http.ErrServerClosed
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("health server failed", slog.Any("error", err))
		}
		return err
	}
}

// SetReady flips the readiness probe.
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if h.isReady.Load() {
		h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	h.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
}

func (h *HealthServer) handleChannels(w http.ResponseWriter, _ *http.Request) {
	if h.channels == nil {
		h.writeJSON(w, http.StatusOK, []any{})
		return
	}
	h.writeJSON(w, http.StatusOK, h.channels())
}

func (h *HealthServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
