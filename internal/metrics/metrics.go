package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "machinedash"

var (
	// FetchTotal counts feed fetch cycles by result (ok, error, discarded).
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_total",
		Help:      "Feed fetch cycles by result",
	}, []string{"result"})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Feed fetch and parse duration in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	DatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_rows",
		Help:      "Rows in the installed dataset",
	})

	MalformedLines = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "parser_malformed_lines_total",
		Help:      "Feed lines split without quote handling",
	})

	// SelectionEvents counts sidebar interactions by kind (machine, view, reset).
	SelectionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "selection_events_total",
		Help:      "Sidebar selection events by kind",
	}, []string{"kind"})

	ChartErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chart_render_errors_total",
		Help:      "Charts that degraded to the no-data block, by chart type",
	}, []string{"chart"})
)
