// Package dashboard owns the dashboard state: the installed Dataset, the
// current Selection and the view derived from them.
//
// Controller is the only place that state changes. Every entry point takes
// the same lock, recomputes the derived view and publishes it together with
// the new inputs, so readers never see a selection paired with a view
// derived from something else.
package dashboard

import (
	"log/slog"
	"sync"
	"time"

	"github.com/speedwagon-io/machinedash/internal/lib/logger/sl"
	"github.com/speedwagon-io/machinedash/internal/metrics"
	"github.com/speedwagon-io/machinedash/internal/model"
	"github.com/speedwagon-io/machinedash/internal/selection"
	"github.com/speedwagon-io/machinedash/internal/view"
)

type Snapshot struct {
	Dataset   model.Dataset
	Selection selection.Selection
	View      view.Derived
	LastError error
	LastFetch time.Time
	Loaded    bool
}

type Controller struct {
	log  *slog.Logger
	opts view.Options

	mu        sync.RWMutex
	dataset   model.Dataset
	selection selection.Selection
	derived   view.Derived
	lastErr   error
	lastFetch time.Time
	loaded    bool
	closed    bool
}

func NewController(log *slog.Logger, opts view.Options) *Controller {
	c := &Controller{
		log:  log,
		opts: opts,
	}
	c.derived = view.Derive(c.dataset, c.selection, c.opts)
	return c
}

// Install replaces the dataset. It reports false and changes nothing once
// the controller is closed.
func (c *Controller) Install(ds model.Dataset) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	c.dataset = ds
	c.loaded = true
	c.lastErr = nil
	c.lastFetch = time.Now().UTC()
	c.derived = view.Derive(c.dataset, c.selection, c.opts)

	metrics.DatasetRows.Set(float64(ds.Len()))

	c.log.Info("dataset installed",
		slog.String("dataset_id", ds.ID),
		slog.Int("rows", ds.Len()),
	)
	return true
}

// Fail records a failed fetch. The dataset stays as it was.
func (c *Controller) Fail(err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	c.lastErr = err
	c.lastFetch = time.Now().UTC()
	c.log.Warn("keeping previous dataset", slog.Int("rows", c.dataset.Len()), sl.Err(err))
	return true
}

func (c *Controller) ChooseMachine(m model.Machine) view.Derived {
	kind := "machine"
	if m == "" {
		kind = "reset"
	}
	return c.update(kind, func(s selection.Selection) selection.Selection {
		return s.ChooseMachine(m)
	})
}

func (c *Controller) ChooseView(v model.View) view.Derived {
	return c.update("view", func(s selection.Selection) selection.Selection {
		return s.ChooseView(v)
	})
}

func (c *Controller) Reset() view.Derived {
	return c.update("reset", func(s selection.Selection) selection.Selection {
		return s.Reset()
	})
}

func (c *Controller) update(kind string, next func(selection.Selection) selection.Selection) view.Derived {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.derived
	}

	c.selection = next(c.selection)
	c.derived = view.Derive(c.dataset, c.selection, c.opts)

	metrics.SelectionEvents.WithLabelValues(kind).Inc()

	c.log.Debug("selection changed",
		slog.String("event", kind),
		slog.String("machine", string(c.selection.Machine)),
		slog.String("view", string(c.selection.View)),
		slog.String("phase", c.derived.Phase),
	)
	return c.derived
}

func (c *Controller) View() view.Derived {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.derived
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Dataset:   c.dataset,
		Selection: c.selection,
		View:      c.derived,
		LastError: c.lastErr,
		LastFetch: c.lastFetch,
		Loaded:    c.loaded,
	}
}

// Close tears the controller down. Results arriving afterwards are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
