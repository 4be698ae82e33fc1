package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedwagon-io/machinedash/internal/lib/logger/sl"
)

func serve(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDatasetHealthChecker(t *testing.T) {
	tests := []struct {
		name  string
		state DatasetState
		want  Status
	}{
		{"not loaded", DatasetState{}, StatusUnhealthy},
		{"first fetch failed", DatasetState{LastErr: errors.New("boom")}, StatusUnhealthy},
		{"later fetch failed", DatasetState{Loaded: true, Rows: 3, LastErr: errors.New("boom")}, StatusDegraded},
		{"empty feed", DatasetState{Loaded: true}, StatusDegraded},
		{"ok", DatasetState{Loaded: true, Rows: 3}, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewDatasetHealthChecker(func() DatasetState { return tt.state })
			got, _ := c.Check(context.Background())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServer_Health(t *testing.T) {
	s := NewServer(sl.Discard(), ":0")
	s.AddChecker(NewDatasetHealthChecker(func() DatasetState {
		return DatasetState{Loaded: true}
	}))

	rec := serve(t, s, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusDegraded, resp.Status)
	require.Len(t, resp.Components, 1)
	assert.Equal(t, "dataset", resp.Components[0].Name)
}

func TestServer_HealthUnhealthy(t *testing.T) {
	s := NewServer(sl.Discard(), ":0")
	s.AddChecker(NewDatasetHealthChecker(func() DatasetState { return DatasetState{} }))

	assert.Equal(t, http.StatusServiceUnavailable, serve(t, s, "/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(t, s, "/ready").Code)
	assert.Equal(t, http.StatusOK, serve(t, s, "/live").Code)
}

func TestServer_Metrics(t *testing.T) {
	rec := serve(t, NewServer(sl.Discard(), ":0"), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

type staticChecker struct {
	name   string
	status Status
}

func (c staticChecker) Name() string { return c.name }

func (c staticChecker) Check(context.Context) (Status, string) { return c.status, c.name + " says so" }

func TestServer_WorstStatusWins(t *testing.T) {
	s := NewServer(sl.Discard(), ":0")
	s.AddChecker(staticChecker{"a", StatusUnhealthy})
	s.AddChecker(staticChecker{"b", StatusDegraded})

	resp := s.evaluate(context.Background())

	assert.Equal(t, StatusUnhealthy, resp.Status)
	require.Len(t, resp.Components, 2)

	rec := serve(t, s, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "a says so")
}

func TestServer_ReadyWhenDegraded(t *testing.T) {
	s := NewServer(sl.Discard(), ":0")
	s.AddChecker(staticChecker{"b", StatusDegraded})

	assert.Equal(t, http.StatusOK, serve(t, s, "/ready").Code)
	assert.Equal(t, http.StatusOK, serve(t, s, "/health").Code)
}
