// Package web serves the dashboard page and its JSON and SVG endpoints.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/speedwagon-io/machinedash/internal/dashboard"
	"github.com/speedwagon-io/machinedash/internal/lib/logger/sl"
	"github.com/speedwagon-io/machinedash/internal/model"
	"github.com/speedwagon-io/machinedash/internal/render"
	"github.com/speedwagon-io/machinedash/internal/view"
)

// Dashboard is the state the handlers read and mutate.
type Dashboard interface {
	Snapshot() dashboard.Snapshot
	ChooseMachine(m model.Machine) view.Derived
	ChooseView(v model.View) view.Derived
	Reset() view.Derived
}

type Server struct {
	log      *slog.Logger
	address  string
	server   *http.Server
	dash     Dashboard
	renderer render.Renderer
}

func NewServer(log *slog.Logger, address string, dash Dashboard, renderer render.Renderer) *Server {
	return &Server{
		log:      log,
		address:  address,
		dash:     dash,
		renderer: renderer,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Route("/select", func(r chi.Router) {
		r.Post("/machine", s.handleMachine)
		r.Post("/view", s.handleView)
		r.Post("/reset", s.handleReset)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/view", s.handleAPIView)
		r.Get("/dataset", s.handleAPIDataset)
	})
	r.Get("/charts/{chart}.svg", s.handleChart)

	return r
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.address,
		Handler:      s.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.log.Info("starting web server", slog.String("address", s.address))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("web server error", sl.Err(err))
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

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, s.dash.Snapshot()); err != nil {
		s.log.Error("failed to render page", sl.Err(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// handleMachine selects a machine. An empty value resets; anything not in
// the machine list is rejected.
func (s *Server) handleMachine(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("machine")

	m, ok := model.ParseMachine(raw)
	if raw != "" && !ok {
		http.Error(w, "unknown machine: "+raw, http.StatusBadRequest)
		return
	}

	s.dash.ChooseMachine(m)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleView passes the value through unchecked; unknown views derive to a
// placeholder.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.dash.ChooseView(model.View(r.FormValue("view")))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.dash.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dash.Snapshot().View)
}

type DatasetSummary struct {
	ID        string         `json:"id,omitempty"`
	Loaded    bool           `json:"loaded"`
	FetchedAt *time.Time     `json:"fetched_at,omitempty"`
	Header    []string       `json:"header"`
	Rows      int            `json:"rows"`
	States    map[string]int `json:"states"`
	LastError string         `json:"last_error,omitempty"`
}

func (s *Server) handleAPIDataset(w http.ResponseWriter, r *http.Request) {
	snap := s.dash.Snapshot()
	ds := snap.Dataset

	summary := DatasetSummary{
		ID:     ds.ID,
		Loaded: snap.Loaded,
		Header: ds.Header,
		Rows:   ds.Len(),
		States: make(map[string]int),
	}
	if summary.Header == nil {
		summary.Header = []string{}
	}
	if !ds.FetchedAt.IsZero() {
		summary.FetchedAt = &ds.FetchedAt
	}
	if snap.LastError != nil {
		summary.LastError = snap.LastError.Error()
	}
	for _, row := range ds.Rows {
		summary.States[row.Label]++
	}

	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "chart")

	spec, ok := render.FindSpec(s.dash.Snapshot().View, id)
	if !ok {
		http.Error(w, "no chart "+id+" in the current view", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := spec.SVG(&buf); err != nil {
		if errors.Is(err, render.ErrNoData) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.log.Error("failed to render chart", slog.String("chart", id), sl.Err(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	buf.WriteTo(w)
}

// writeJSON encodes before writing the header so an encoding failure still
// reaches the client as a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.Error("failed to encode response", sl.Err(err))
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
