package health

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
)

// RunState is the outcome of the most recent feed run.
type RunState struct {
	RunID    string    `json:"run_id"`
	Finished time.Time `json:"finished"`
	Signals  int       `json:"signals"`
	Error    string    `json:"error,omitempty"`
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	LastRun   *RunState `json:"last_run,omitempty"`
}

type HealthChecker struct {
	logger  *logrus.Logger
	metrics http.Handler

	mu      sync.RWMutex
	lastRun *RunState
}

// NewHealthChecker serves metrics on /metrics when metricsHandler is non-nil.
func NewHealthChecker(metricsHandler http.Handler, logger *logrus.Logger) *HealthChecker {
	return &HealthChecker{
		logger:  logger,
		metrics: metricsHandler,
	}
}

// RecordRun stores the latest run outcome; err == nil marks a successful run.
func (h *HealthChecker) RecordRun(runID string, finished time.Time, signals int, err error) {
	state := &RunState{RunID: runID, Finished: finished, Signals: signals}
	if err != nil {
		state.Error = err.Error()
	}

	h.mu.Lock()
	h.lastRun = state
	h.mu.Unlock()
}

func (h *HealthChecker) LastRun() *RunState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.lastRun == nil {
		return nil
	}
	state := *h.lastRun
	return &state
}

// HealthHandler reports liveness unconditionally.
func (h *HealthChecker) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.write(w, http.StatusOK, HealthStatus{Status: "healthy", Timestamp: time.Now(), LastRun: h.LastRun()})
	}
}

// ReadyHandler is ready once a run has written a feed and the latest run succeeded.
func (h *HealthChecker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		last := h.LastRun()
		switch {
		case last == nil:
			h.write(w, http.StatusServiceUnavailable, HealthStatus{Status: "waiting", Timestamp: time.Now()})
		case last.Error != "":
			h.write(w, http.StatusServiceUnavailable, HealthStatus{Status: "degraded", Timestamp: time.Now(), LastRun: last})
		default:
			h.write(w, http.StatusOK, HealthStatus{Status: "ready", Timestamp: time.Now(), LastRun: last})
		}
	}
}

func (h *HealthChecker) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.HealthHandler())
	mux.HandleFunc("/healthz", h.HealthHandler())
	mux.HandleFunc("/ready", h.ReadyHandler())
	if h.metrics != nil {
		mux.Handle("/metrics", h.metrics)
	}
	return mux
}

// StartServer starts the HTTP server for health checks and metrics.
func (h *HealthChecker) StartServer(port string) *http.Server {
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      h.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		h.logger.WithField("port", port).Info("Starting health check server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.WithError(err).Error("Health check server failed")
		}
	}()

	return server
}

func (h *HealthChecker) write(w http.ResponseWriter, code int, status HealthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := sonic.ConfigStd.NewEncoder(w).Encode(status); err != nil {
		h.logger.WithError(err).Debug("Failed to encode health status")
	}
}
