// Package web serves monitor snapshots and control endpoints over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doridoridoriand/pingclock/internal/config"
	"github.com/doridoridoriand/pingclock/internal/log"
	"github.com/doridoridoriand/pingclock/internal/monitor"
)

// Server exposes read-only snapshots, Prometheus metrics and the control
// endpoints that mutate target/thresholds and persist them.
type Server struct {
	monitor    *monitor.Monitor
	logger     *log.Logger
	baseConfig config.Config
	configPath string
}

// New creates a server for the monitor. configPath may be empty, in which
// case control changes are applied but not persisted.
func New(mon *monitor.Monitor, logger *log.Logger, baseConfig config.Config, configPath string) *Server {
	return &Server{
		monitor:    mon,
		logger:     logger,
		baseConfig: baseConfig,
		configPath: configPath,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/timeline", s.handleTimeline)
	mux.HandleFunc("/api/target", s.handleTarget)
	mux.HandleFunc("/api/thresholds", s.handleThresholds)
	mux.HandleFunc("/api/monitoring", s.handleMonitoring)
	mux.HandleFunc("/api/ws", s.handleWS)
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.monitor.Snapshot())
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snapshot := s.monitor.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"generated_at":     snapshot.GeneratedAt,
		"slots":            snapshot.Slots,
		"millis_in_minute": snapshot.MillisInMinute,
	})
}

type targetRequest struct {
	Target string `json:"target"`
}

func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Target == "" {
		writeError(w, http.StatusBadRequest, "target required")
		return
	}
	s.monitor.SetTarget(req.Target)
	s.persistConfig()
	writeJSON(w, http.StatusOK, s.monitor.Snapshot())
}

type thresholdsRequest struct {
	GreenMs  int `json:"green_ms"`
	YellowMs int `json:"yellow_ms"`
}

func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req thresholdsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.GreenMs <= 0 || req.YellowMs <= 0 || req.GreenMs >= req.YellowMs {
		writeError(w, http.StatusBadRequest, "thresholds must satisfy 0 < green < yellow")
		return
	}
	s.monitor.SetThresholds(
		time.Duration(req.GreenMs)*time.Millisecond,
		time.Duration(req.YellowMs)*time.Millisecond,
	)
	s.persistConfig()
	writeJSON(w, http.StatusOK, s.monitor.Snapshot())
}

type monitoringRequest struct {
	Monitoring bool `json:"monitoring"`
}

func (s *Server) handleMonitoring(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req monitoringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Monitoring {
		s.monitor.StartMonitoring()
	} else {
		s.monitor.StopMonitoring()
	}
	writeJSON(w, http.StatusOK, s.monitor.Snapshot())
}

// persistConfig writes the mutated target/thresholds back to the config
// file, keeping the non-monitor fields from the loaded config.
func (s *Server) persistConfig() {
	if s.configPath == "" {
		return
	}
	cfg := s.baseConfig
	cfg.Target = s.monitor.Target()
	green, yellow := s.monitor.Thresholds()
	cfg.GreenThresholdMs = int(green.Milliseconds())
	cfg.YellowThresholdMs = int(yellow.Milliseconds())

	err := cfg.Save(s.configPath)
	if s.logger != nil {
		s.logger.LogConfigSave(err == nil, s.configPath, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Serve starts an HTTP server and blocks until context cancellation.
func Serve(ctx context.Context, addr string, server *Server) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return context.Canceled
		}
		return fmt.Errorf("http server: %w", err)
	}
}
