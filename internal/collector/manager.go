package collector

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/speedwagon-io/machinedash/internal/classify"
	"github.com/speedwagon-io/machinedash/internal/lib/logger/sl"
	"github.com/speedwagon-io/machinedash/internal/metrics"
	"github.com/speedwagon-io/machinedash/internal/model"
	"github.com/speedwagon-io/machinedash/internal/parser"
)

// Manager runs the fetch → parse → classify → install cycle. There is no
// retry and no polling: one cycle per Start.
type Manager struct {
	log        *slog.Logger
	source     Source
	parser     *parser.Parser
	classifier *classify.Classifier
	installer  Installer

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewManager(
	log *slog.Logger,
	source Source,
	parser *parser.Parser,
	classifier *classify.Classifier,
	installer Installer,
) *Manager {
	return &Manager{
		log:        log,
		source:     source,
		parser:     parser,
		classifier: classifier,
		installer:  installer,
	}
}

// Start issues the single background fetch. Later calls do nothing.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}
	m.started = true

	ctx, m.cancel = context.WithCancel(ctx)

	m.log.Info("starting feed fetch", slog.String("source", m.source.Name()))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		_ = m.Load(ctx)
	}()
}

// Stop cancels an in-flight fetch, waits for it and releases the source.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Unlock()

	m.wg.Wait()

	if err := m.source.Close(); err != nil {
		m.log.Error("failed to close source", sl.Err(err))
	}
}

// Load runs one cycle synchronously. Failures are reported to the
// installer and returned; they never panic.
func (m *Manager) Load(ctx context.Context) error {
	start := time.Now()

	body, err := m.source.Fetch(ctx)
	if err != nil {
		return m.fail(fmt.Errorf("failed to fetch feed: %w", err))
	}

	res, err := m.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return m.fail(fmt.Errorf("failed to parse feed: %w", err))
	}

	if res.Malformed > 0 {
		metrics.MalformedLines.Add(float64(res.Malformed))
		m.log.Warn("feed lines with broken quoting", slog.Int("malformed", res.Malformed))
	}

	if res.Short > 0 {
		m.log.Debug("feed rows shorter than header", slog.Int("short", res.Short))
	}

	ds := model.NewDataset(res.Header, m.classifier.ClassifyAll(res.Rows))
	if ds.Empty() {
		m.log.Warn("feed has no data rows", slog.Int("columns", len(ds.Header)))
	}
	metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if !m.installer.Install(ds) {
		metrics.FetchTotal.WithLabelValues("discarded").Inc()
		m.log.Info("dashboard closed, discarding dataset", slog.String("dataset_id", ds.ID))
		return ErrDiscarded
	}

	metrics.FetchTotal.WithLabelValues("ok").Inc()
	m.log.Info("feed loaded",
		slog.String("dataset_id", ds.ID),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", len(ds.Header)),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}

func (m *Manager) fail(err error) error {
	if !m.installer.Fail(err) {
		metrics.FetchTotal.WithLabelValues("discarded").Inc()
		m.log.Info("dashboard closed, discarding fetch error", sl.Err(err))
		return ErrDiscarded
	}

	metrics.FetchTotal.WithLabelValues("error").Inc()
	m.log.Error("feed fetch failed", sl.Err(err))
	return err
}
