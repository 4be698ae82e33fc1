package render

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/speedwagon-io/machinedash/internal/aggregate"
	"github.com/speedwagon-io/machinedash/internal/dashboard"
	"github.com/speedwagon-io/machinedash/internal/model"
	"github.com/speedwagon-io/machinedash/internal/view"
)

const (
	textBarWidth   = 36
	sparkWidth     = 60
	textLabelWidth = 24
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// TextRenderer writes a plain-text report of the current view. Colors are
// emitted only when the output supports them.
type TextRenderer struct {
	log *slog.Logger
}

func NewTextRenderer(log *slog.Logger) *TextRenderer {
	return &TextRenderer{log: log}
}

func (r *TextRenderer) Render(w io.Writer, snap dashboard.Snapshot) error {
	d := snap.View

	r.log.Info("RENDER",
		slog.String("kind", string(d.Kind)),
		slog.String("phase", d.Phase),
		slog.String("machine", string(d.Selection.Machine)),
		slog.String("view", string(d.Selection.View)),
		slog.Int("count", d.Count),
		slog.String("dataset_id", d.DatasetID),
	)

	_, err := io.WriteString(w, Text(d))
	return err
}

// Text renders d as text.
func Text(d view.Derived) string {
	var b strings.Builder

	if d.Placeholder() {
		b.WriteString(dimStyle.Render(d.Message))
		b.WriteString("\n")
		return b.String()
	}

	title := d.Title
	if d.Selection.Machine != "" {
		title += " · " + string(d.Selection.Machine)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "samples: %d\n", d.Count)
	if d.OnOff != nil {
		fmt.Fprintf(&b, "ON / OFF: %d / %d of %d\n", d.OnOff.On, d.OnOff.Off, d.OnOff.Total())
	}
	if d.OnOff != nil || d.Kind == view.KindDowntime {
		fmt.Fprintf(&b, "off duration: %s\n", d.OffDurationText())
	}
	if d.Kind == view.KindEfficiency {
		fmt.Fprintf(&b, "under load: %.1f%%\n", d.Efficiency*100)
	}

	for _, spec := range Specs(d) {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(spec.Title))
		b.WriteString("\n")
		b.WriteString(textChart(spec))
	}

	return b.String()
}

func textChart(spec ChartSpec) string {
	switch spec.Kind {
	case ChartLine:
		return sparkline(spec.Points)
	case ChartBar:
		return bars(spec.Values)
	case ChartPie:
		return proportion(spec.Values)
	default:
		return ""
	}
}

func paint(c model.Color, s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(string(c))).Render(s)
}

func sparkline(points []aggregate.Point) string {
	if len(points) == 0 {
		return dimStyle.Render("no data") + "\n"
	}
	if len(points) > sparkWidth {
		sampled := make([]aggregate.Point, sparkWidth)
		for i := range sampled {
			sampled[i] = points[i*len(points)/sparkWidth]
		}
		points = sampled
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minY = math.Min(minY, p.Current)
		maxY = math.Max(maxY, p.Current)
	}

	var b strings.Builder
	for _, p := range points {
		level := 0
		if maxY > minY {
			level = int((p.Current - minY) / (maxY - minY) * float64(len(sparkLevels)-1))
		}
		b.WriteString(paint(p.Color, string(sparkLevels[level])))
	}
	fmt.Fprintf(&b, "  %.2f…%.2f\n", minY, maxY)
	return b.String()
}

func bars(values []Value) string {
	if !anyPositive(values) {
		return dimStyle.Render("no data") + "\n"
	}

	maxV := 0.0
	for _, v := range values {
		maxV = math.Max(maxV, v.Value)
	}

	var b strings.Builder
	for _, v := range values {
		n := 0
		if v.Value > 0 {
			n = int(math.Round(v.Value / maxV * textBarWidth))
		}
		fmt.Fprintf(&b, "%-*s %s %g\n", textLabelWidth, truncate(v.Label, textLabelWidth), paint(v.Color, strings.Repeat("█", n)), v.Value)
	}
	return b.String()
}

func proportion(values []Value) string {
	total := 0.0
	for _, v := range values {
		if v.Value > 0 {
			total += v.Value
		}
	}
	if total == 0 {
		return dimStyle.Render("no data") + "\n"
	}

	var bar, legend strings.Builder
	for _, v := range values {
		if v.Value <= 0 {
			continue
		}
		share := v.Value / total
		bar.WriteString(paint(v.Color, strings.Repeat("█", int(math.Round(share*textBarWidth)))))
		fmt.Fprintf(&legend, "%s %s %.1f%%\n", paint(v.Color, "■"), v.Label, share*100)
	}
	return bar.String() + "\n" + legend.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
