// Package server exposes the device-local HTTP API: health, prometheus
// metrics, the status document and the configuration surface. Config writes
// go through the same validation and replace path as BLE characteristic
// writes.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/fjordlys/tidelight/internal/ble"
	"github.com/fjordlys/tidelight/internal/config"
	"github.com/fjordlys/tidelight/internal/middleware"
)

// maxConfigBody bounds PUT /api/v1/config payloads. The full document is a
// few hundred bytes.
const maxConfigBody = 64 * 1024

// Resetter restores the device configuration to factory defaults.
type Resetter interface {
	ResetToDefaults() error
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	logger     logrus.FieldLogger
}

// New creates a new HTTP server with all routes and middleware.
func New(
	logger logrus.FieldLogger,
	cfg *config.Config,
	configHandler *ble.ConfigHandler,
	status *ble.StatusProvider,
	resetter Resetter,
) (*Server, error) {
	if configHandler == nil || status == nil || resetter == nil {
		return nil, fmt.Errorf("config handler, status provider and resetter are required")
	}

	log := logger.WithField("component", "server")

	mux := http.NewServeMux()

	// Health endpoint (no middleware needed for simple health check)
	mux.HandleFunc("GET /health", handleHealth)
	log.WithField("route", "GET /health").Info("Registered route")

	// Metrics endpoint (Prometheus format)
	mux.Handle("GET /metrics", promhttp.Handler())
	log.WithField("route", "GET /metrics").Info("Registered route")

	// Status document, same shape as the BLE status characteristic
	mux.HandleFunc("GET /api/v1/status", handleStatus(log, status))
	log.WithField("route", "GET /api/v1/status").Info("Registered route")

	// Config API, validated through the same boundary as BLE writes
	mux.HandleFunc("GET /api/v1/config", handleGetConfig(log, configHandler))
	log.WithField("route", "GET /api/v1/config").Info("Registered route")

	mux.HandleFunc("PUT /api/v1/config", handlePutConfig(log, configHandler))
	log.WithField("route", "PUT /api/v1/config").Info("Registered route")

	mux.HandleFunc("POST /api/v1/config/reset", handleReset(log, configHandler, resetter))
	log.WithField("route", "POST /api/v1/config/reset").Info("Registered route")

	// Apply middleware chain: Logging → Metrics → Recovery
	handler := middleware.Logging(log)(mux)
	handler = middleware.Metrics()(handler)
	handler = middleware.Recovery(log)(handler)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		logger:     log,
	}, nil
}

// Handler returns the server's root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server (blocking call).
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting HTTP server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	return s.httpServer.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleStatus(log logrus.FieldLogger, status *ble.StatusProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := status.StatusJSON()
		if err != nil {
			log.WithError(err).Error("Failed to build status document")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(data); err != nil {
			log.WithError(err).Debug("Failed to write status response")
		}
	}
}

func handleGetConfig(log logrus.FieldLogger, handler *ble.ConfigHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := handler.FullConfig()
		if err != nil {
			log.WithError(err).Error("Failed to serialize config")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(data); err != nil {
			log.WithError(err).Debug("Failed to write config response")
		}
	}
}

func handlePutConfig(log logrus.FieldLogger, handler *ble.ConfigHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxConfigBody))
		if err != nil {
			writeError(w, ble.ErrInvalidFormat)

			return
		}

		if code := handler.UpdateFullConfig(body); code != ble.ErrNone {
			writeError(w, code)

			return
		}

		data, err := handler.FullConfig()
		if err != nil {
			log.WithError(err).Error("Failed to serialize config")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(data); err != nil {
			log.WithError(err).Debug("Failed to write config response")
		}
	}
}

func handleReset(log logrus.FieldLogger, handler *ble.ConfigHandler, resetter Resetter) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if err := resetter.ResetToDefaults(); err != nil {
			log.WithError(err).Error("Failed to reset config")
			writeError(w, ble.ErrInternal)

			return
		}

		data, err := handler.FullConfig()
		if err != nil {
			log.WithError(err).Error("Failed to serialize config")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(data); err != nil {
			log.WithError(err).Debug("Failed to write config response")
		}
	}
}

// errorResponse mirrors the BLE error characteristic on the HTTP surface.
type errorResponse struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
}

func writeError(w http.ResponseWriter, code ble.ErrorCode) {
	status := http.StatusBadRequest
	if code == ble.ErrInternal {
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, errorResponse{
		ErrorCode: int(code),
		Message:   code.String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}
