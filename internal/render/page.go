package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"time"

	"github.com/speedwagon-io/machinedash/internal/aggregate"
	"github.com/speedwagon-io/machinedash/internal/config"
	"github.com/speedwagon-io/machinedash/internal/dashboard"
	"github.com/speedwagon-io/machinedash/internal/lib/logger/sl"
	"github.com/speedwagon-io/machinedash/internal/metrics"
	"github.com/speedwagon-io/machinedash/internal/view"
)

var funcMap = template.FuncMap{
	"fmtTime": func(t time.Time) string {
		if t.IsZero() {
			return "—"
		}
		return t.Local().Format("Jan 2 15:04:05")
	},
	"pct": func(f float64) string {
		return fmt.Sprintf("%.1f%%", f*100)
	},
	"seconds": aggregate.FormatSeconds,
}

type HTMLRenderer struct {
	log  *slog.Logger
	menu *config.MenuConfig
	tmpl *template.Template
}

func NewHTMLRenderer(log *slog.Logger, menu *config.MenuConfig) *HTMLRenderer {
	return &HTMLRenderer{
		log:  log,
		menu: menu,
		tmpl: template.Must(template.New("page").Funcs(funcMap).Parse(tmplPage)),
	}
}

type chartBlock struct {
	Spec   ChartSpec
	SVG    template.HTML
	NoData bool
}

type pageData struct {
	Menu       *config.MenuConfig
	Derived    view.Derived
	Machine    string
	View       string
	Charts     []chartBlock
	FetchError string
	Loaded     bool
	DatasetID  string
	Rows       int
	FetchedAt  time.Time
}

func (r *HTMLRenderer) Render(w io.Writer, snap dashboard.Snapshot) error {
	data := pageData{
		Menu:      r.menu,
		Derived:   snap.View,
		Machine:   string(snap.Selection.Machine),
		View:      string(snap.Selection.View),
		Charts:    r.charts(snap.View),
		Loaded:    snap.Loaded,
		DatasetID: snap.Dataset.ID,
		Rows:      snap.Dataset.Len(),
		FetchedAt: snap.Dataset.FetchedAt,
	}
	if snap.LastError != nil {
		data.FetchError = snap.LastError.Error()
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		return fmt.Errorf("failed to execute page template: %w", err)
	}

	_, err := buf.WriteTo(w)
	return err
}

func (r *HTMLRenderer) charts(d view.Derived) []chartBlock {
	specs := Specs(d)
	blocks := make([]chartBlock, 0, len(specs))

	for _, spec := range specs {
		var buf bytes.Buffer
		if err := spec.SVG(&buf); err != nil {
			if !errors.Is(err, ErrNoData) {
				metrics.ChartErrors.WithLabelValues(string(spec.Kind)).Inc()
				r.log.Warn("chart render failed", slog.String("chart", spec.ID), sl.Err(err))
			}
			blocks = append(blocks, chartBlock{Spec: spec, NoData: true})
			continue
		}
		// go-chart output, not user input.
		blocks = append(blocks, chartBlock{Spec: spec, SVG: template.HTML(buf.String())})
	}

	return blocks
}
