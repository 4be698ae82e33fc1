package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/speedwagon-io/machinedash/internal/aggregate"
	"github.com/speedwagon-io/machinedash/internal/model"
	"github.com/speedwagon-io/machinedash/internal/view"
)

// ErrNoData is returned for a chart whose data cannot be drawn (too few
// points, all-zero values).
var ErrNoData = errors.New("not enough data to chart")

const (
	chartWidth  = 500
	chartHeight = 300
	maxBars     = 30
	maxTicks    = 6
)

type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
	ChartPie  ChartKind = "pie"
)

type Value struct {
	Label string      `json:"label"`
	Value float64     `json:"value"`
	Color model.Color `json:"color"`
}

// ChartSpec describes one chart of a view independently of how it is drawn.
type ChartSpec struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Kind   ChartKind         `json:"kind"`
	Points []aggregate.Point `json:"points,omitempty"`
	Values []Value           `json:"values,omitempty"`
}

// Specs lists the charts shown for d. Placeholders have none.
func Specs(d view.Derived) []ChartSpec {
	switch d.Kind {
	case view.KindStateSeries:
		specs := []ChartSpec{
			{ID: "current-line", Title: "Current vs Time", Kind: ChartLine, Points: d.Series},
			{ID: "current-bar", Title: "Current per sample", Kind: ChartBar, Values: currentBars(d.Series)},
		}
		if d.OnOff != nil {
			specs = append(specs, onOffPie(d.Selection.Machine, *d.OnOff))
		}
		return specs
	case view.KindDowntime:
		values := make([]Value, 0, len(d.Downtime))
		for _, dt := range d.Downtime {
			values = append(values, Value{Label: string(dt.Machine), Value: dt.Duration.Seconds(), Color: model.ColorRed})
		}
		return []ChartSpec{{ID: "downtime-bar", Title: "Off duration (seconds)", Kind: ChartBar, Values: values}}
	case view.KindEfficiency:
		if d.States == nil {
			return nil
		}
		values := make([]Value, 0, len(d.States.States)+1)
		for _, sc := range d.States.States {
			values = append(values, Value{Label: string(sc.State), Value: float64(sc.Count), Color: sc.Color})
		}
		if d.States.Other > 0 {
			values = append(values, Value{Label: "Other", Value: float64(d.States.Other), Color: model.ColorDefault})
		}
		return []ChartSpec{
			{ID: "states-pie", Title: "Samples by state", Kind: ChartPie, Values: values},
			{ID: "states-bar", Title: "Samples by state", Kind: ChartBar, Values: values},
		}
	case view.KindMachineStatus:
		values := make([]Value, 0, len(d.Machines))
		for _, m := range d.Machines {
			values = append(values, Value{Label: string(m.Machine), Value: float64(m.On), Color: model.ColorGreen})
		}
		specs := []ChartSpec{{ID: "machines-bar", Title: "ON samples by machine", Kind: ChartBar, Values: values}}
		if d.OnOff != nil {
			specs = append(specs, onOffPie(d.Selection.Machine, *d.OnOff))
		}
		return specs
	default:
		return nil
	}
}

func FindSpec(d view.Derived, id string) (ChartSpec, bool) {
	for _, s := range Specs(d) {
		if s.ID == id {
			return s, true
		}
	}
	return ChartSpec{}, false
}

func onOffPie(m model.Machine, counts aggregate.OnOff) ChartSpec {
	return ChartSpec{
		ID:    "onoff-pie",
		Title: fmt.Sprintf("%s ON/OFF", m),
		Kind:  ChartPie,
		Values: []Value{
			{Label: model.SwitchOn, Value: float64(counts.On), Color: model.ColorGreen},
			{Label: model.SwitchOff, Value: float64(counts.Off), Color: model.ColorRed},
		},
	}
}

func currentBars(points []aggregate.Point) []Value {
	if len(points) > maxBars {
		points = points[len(points)-maxBars:]
	}
	values := make([]Value, 0, len(points))
	for _, p := range points {
		values = append(values, Value{Label: p.Time, Value: p.Current, Color: p.Color})
	}
	return values
}

// SVG draws the chart with go-chart.
func (s ChartSpec) SVG(w io.Writer) error {
	switch s.Kind {
	case ChartLine:
		return lineSVG(w, s)
	case ChartBar:
		return barSVG(w, s)
	case ChartPie:
		return pieSVG(w, s)
	default:
		return fmt.Errorf("unknown chart kind %q", s.Kind)
	}
}

func lineSVG(w io.Writer, s ChartSpec) error {
	if len(s.Points) < 2 {
		return ErrNoData
	}

	xs := make([]float64, len(s.Points))
	ys := make([]float64, len(s.Points))
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range s.Points {
		xs[i] = float64(p.Index)
		ys[i] = p.Current
		minY = math.Min(minY, p.Current)
		maxY = math.Max(maxY, p.Current)
	}

	yAxis := chart.YAxis{Name: "Current"}
	if minY == maxY {
		yAxis.Range = &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1}
	}

	graph := chart.Chart{
		Title:  s.Title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Time", Ticks: timeTicks(s.Points)},
		YAxis:  yAxis,
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Current",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: hexColor(model.ColorDefault),
					StrokeWidth: 2,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.SVG, w)
}

func timeTicks(points []aggregate.Point) []chart.Tick {
	step := (len(points) + maxTicks - 1) / maxTicks
	if step < 1 {
		step = 1
	}
	ticks := make([]chart.Tick, 0, maxTicks+1)
	for i := 0; i < len(points); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(points[i].Index), Label: points[i].Time})
	}
	return ticks
}

func barSVG(w io.Writer, s ChartSpec) error {
	if !anyPositive(s.Values) {
		return ErrNoData
	}

	bars := make([]chart.Value, 0, len(s.Values))
	for _, v := range s.Values {
		bars = append(bars, chart.Value{
			Label: v.Label,
			Value: v.Value,
			Style: chart.Style{
				FillColor:   hexColor(v.Color),
				StrokeColor: hexColor(v.Color),
			},
		})
	}

	slot := (chartWidth - 80) / len(bars)
	graph := chart.BarChart{
		Title:      s.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   max(1, slot*2/3),
		BarSpacing: max(1, slot/3),
		Bars:       bars,
	}

	return graph.Render(chart.SVG, w)
}

func pieSVG(w io.Writer, s ChartSpec) error {
	values := make([]chart.Value, 0, len(s.Values))
	for _, v := range s.Values {
		if v.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: v.Label,
			Value: v.Value,
			Style: chart.Style{FillColor: hexColor(v.Color)},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	graph := chart.PieChart{
		Title:  s.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}

	return graph.Render(chart.SVG, w)
}

func anyPositive(values []Value) bool {
	for _, v := range values {
		if v.Value > 0 {
			return true
		}
	}
	return false
}

func hexColor(c model.Color) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(string(c), "#"))
}
