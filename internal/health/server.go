package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/speedwagon-io/machinedash/internal/lib/logger/sl"
)

const checkTimeout = 5 * time.Second

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

type ComponentHealth struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status     Status            `json:"status"`
	Components []ComponentHealth `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

type HealthChecker interface {
	Name() string
	Check(ctx context.Context) (Status, string)
}

type Server struct {
	log      *slog.Logger
	address  string
	server   *http.Server
	checkers []HealthChecker
	mu       sync.RWMutex
}

func NewServer(log *slog.Logger, address string) *Server {
	return &Server{
		log:      log,
		address:  address,
		checkers: make([]HealthChecker, 0),
	}
}

func (s *Server) AddChecker(checker HealthChecker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers = append(s.checkers, checker)
}

// Router exposes the health and metrics endpoints without starting a
// listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/live", s.handleLive)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.address,
		Handler:      s.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.log.Info("starting health server", slog.String("address", s.address))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("health server error", sl.Err(err))
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// evaluate runs every checker once. The overall status is the worst
// component status.
func (s *Server) evaluate(ctx context.Context) HealthResponse {
	s.mu.RLock()
	checkers := slices.Clone(s.checkers)
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:     StatusHealthy,
		Components: make([]ComponentHealth, 0, len(checkers)),
		Timestamp:  time.Now().UTC(),
	}
	for _, checker := range checkers {
		status, message := checker.Check(ctx)
		resp.Components = append(resp.Components, ComponentHealth{
			Name:    checker.Name(),
			Status:  status,
			Message: message,
		})
		if severity[status] > severity[resp.Status] {
			resp.Status = status
		}
	}
	return resp
}

var severity = map[Status]int{
	StatusHealthy:   0,
	StatusDegraded:  1,
	StatusUnhealthy: 2,
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := s.evaluate(r.Context())

	code := http.StatusOK
	if resp.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

// handleReady reports ready once no component is unhealthy; a degraded
// dataset still serves the dashboard.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	for _, c := range s.evaluate(r.Context()).Components {
		if c.Status == StatusUnhealthy {
			http.Error(w, c.Name+": "+c.Message, http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// DatasetState is what the dataset checker needs to know about the
// dashboard.
type DatasetState struct {
	Loaded  bool
	Rows    int
	LastErr error
}

// DatasetHealthChecker is unhealthy until the first fetch resolves, and
// degraded when the last fetch failed or returned no rows.
type DatasetHealthChecker struct {
	stateFunc func() DatasetState
}

func NewDatasetHealthChecker(stateFunc func() DatasetState) *DatasetHealthChecker {
	return &DatasetHealthChecker{stateFunc: stateFunc}
}

func (c *DatasetHealthChecker) Name() string {
	return "dataset"
}

func (c *DatasetHealthChecker) Check(ctx context.Context) (Status, string) {
	st := c.stateFunc()

	switch {
	case st.LastErr != nil && !st.Loaded:
		return StatusUnhealthy, st.LastErr.Error()
	case st.LastErr != nil:
		return StatusDegraded, st.LastErr.Error()
	case !st.Loaded:
		return StatusUnhealthy, "feed not loaded yet"
	case st.Rows == 0:
		return StatusDegraded, "feed has no rows"
	}

	return StatusHealthy, ""
}
