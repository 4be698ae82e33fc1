package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedwagon-io/machinedash/internal/aggregate"
	"github.com/speedwagon-io/machinedash/internal/classify"
	"github.com/speedwagon-io/machinedash/internal/config"
	"github.com/speedwagon-io/machinedash/internal/dashboard"
	"github.com/speedwagon-io/machinedash/internal/lib/logger/sl"
	"github.com/speedwagon-io/machinedash/internal/model"
	"github.com/speedwagon-io/machinedash/internal/parser"
	"github.com/speedwagon-io/machinedash/internal/selection"
	"github.com/speedwagon-io/machinedash/internal/view"
)

const feed = "Time,Current,State,Machine 1\n" +
	"t1,0.1,Machine OFF,OFF\n" +
	"t2,0.2,Machine OFF,ON\n" +
	"t3,0.0,Machine OFF,OFF\n" +
	"t4,4.3,Machine ON (Under Load),ON\n" +
	"t5,0.6,Idle State (Machine ON),ON\n"

func dataset() model.Dataset {
	res := parser.New(",").ParseString(feed)
	return model.NewDataset(res.Header, classify.New().ClassifyAll(res.Rows))
}

func derive(sel selection.Selection) view.Derived {
	return view.Derive(dataset(), sel, view.Options{SampleInterval: 5 * time.Second})
}

func TestSpecs(t *testing.T) {
	tests := []struct {
		name string
		sel  selection.Selection
		ids  []string
	}{
		{"placeholder", selection.Selection{Machine: model.Machine1}, nil},
		{"state without machine", selection.Selection{View: model.ViewMachineOff}, []string{"current-line", "current-bar"}},
		{"state with machine", selection.Selection{Machine: model.Machine1, View: model.ViewMachineOff}, []string{"current-line", "current-bar", "onoff-pie"}},
		{"downtime", selection.Selection{Machine: model.Machine1, View: model.ViewDowntimeAnalysis}, []string{"downtime-bar"}},
		{"efficiency", selection.Selection{View: model.ViewEfficiency}, []string{"states-pie", "states-bar"}},
		{"machine status", selection.Selection{Machine: model.Machine1, View: model.ViewMachineStatus}, []string{"machines-bar", "onoff-pie"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, s := range Specs(derive(tt.sel)) {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestFindSpec(t *testing.T) {
	d := derive(selection.Selection{Machine: model.Machine1, View: model.ViewMachineOff})

	spec, ok := FindSpec(d, "onoff-pie")
	require.True(t, ok)
	assert.Equal(t, []Value{
		{Label: "ON", Value: 1, Color: model.ColorGreen},
		{Label: "OFF", Value: 2, Color: model.ColorRed},
	}, spec.Values)

	_, ok = FindSpec(d, "nope")
	assert.False(t, ok)
}

func TestChartSpec_SVG(t *testing.T) {
	d := derive(selection.Selection{Machine: model.Machine1, View: model.ViewMachineOff})

	for _, spec := range Specs(d) {
		t.Run(spec.ID, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, spec.SVG(&buf))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestChartSpec_SVGFlatLine(t *testing.T) {
	spec := ChartSpec{Kind: ChartLine, Points: []aggregate.Point{
		{Index: 0, Time: "a", Current: 1},
		{Index: 1, Time: "b", Current: 1},
	}}

	var buf bytes.Buffer
	assert.NoError(t, spec.SVG(&buf))
}

func TestChartSpec_NoData(t *testing.T) {
	tests := map[string]ChartSpec{
		"line single point": {Kind: ChartLine, Points: []aggregate.Point{{Current: 1}}},
		"bar all zero":      {Kind: ChartBar, Values: []Value{{Label: "a"}, {Label: "b"}}},
		"bar empty":         {Kind: ChartBar},
		"pie all zero":      {Kind: ChartPie, Values: []Value{{Label: "ON"}, {Label: "OFF"}}},
	}

	for name, spec := range tests {
		t.Run(name, func(t *testing.T) {
			err := spec.SVG(&bytes.Buffer{})
			assert.True(t, errors.Is(err, ErrNoData), "got %v", err)
		})
	}
}

func TestChartSpec_UnknownKind(t *testing.T) {
	assert.Error(t, ChartSpec{Kind: "radar"}.SVG(&bytes.Buffer{}))
}

func snapshot(sel selection.Selection) dashboard.Snapshot {
	c := dashboard.NewController(sl.Discard(), view.Options{})
	c.Install(dataset())
	if sel.Machine != "" {
		c.ChooseMachine(sel.Machine)
	}
	if sel.View != "" {
		c.ChooseView(sel.View)
	}
	return c.Snapshot()
}

func TestHTMLRenderer_Page(t *testing.T) {
	r := NewHTMLRenderer(sl.Discard(), config.DefaultMenu())

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, snapshot(selection.Selection{Machine: model.Machine1, View: model.ViewMachineOff})))

	page := buf.String()
	assert.Contains(t, page, "Machine 5")
	assert.Contains(t, page, "Downtime Analysis")
	assert.Contains(t, page, "Machine OFF · Machine 1")
	assert.Contains(t, page, "10 seconds")
	assert.Contains(t, page, "<svg")
	assert.Contains(t, page, `class="active"`)
}

func TestHTMLRenderer_Placeholder(t *testing.T) {
	r := NewHTMLRenderer(sl.Discard(), config.DefaultMenu())

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, snapshot(selection.Selection{Machine: model.Machine2})))

	page := buf.String()
	assert.Contains(t, page, "Select a view for Machine 2.")
	assert.NotContains(t, page, "<svg")
}

func TestHTMLRenderer_EmptyDatasetShowsNoData(t *testing.T) {
	r := NewHTMLRenderer(sl.Discard(), config.DefaultMenu())
	c := dashboard.NewController(sl.Discard(), view.Options{})
	c.ChooseView(model.ViewEfficiency)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, c.Snapshot()))

	assert.Contains(t, buf.String(), "no data")
	assert.Contains(t, buf.String(), "waiting for feed")
}

func TestText(t *testing.T) {
	out := Text(derive(selection.Selection{Machine: model.Machine1, View: model.ViewMachineOff}))

	assert.Contains(t, out, "Machine OFF")
	assert.Contains(t, out, "samples: 3")
	assert.Contains(t, out, "ON / OFF: 1 / 2 of 3")
	assert.Contains(t, out, "off duration: 10 seconds")
	assert.Contains(t, out, "Current vs Time")
}

func TestText_Placeholder(t *testing.T) {
	out := Text(derive(selection.Selection{}))
	assert.Contains(t, out, "Select a machine or a view")
}

func TestText_Efficiency(t *testing.T) {
	out := Text(derive(selection.Selection{View: model.ViewEfficiency}))

	assert.Contains(t, out, "under load: 20.0%")
	assert.Contains(t, out, "Machine OFF")
	assert.Contains(t, out, "60.0%")
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(sl.Discard())

	require.NoError(t, r.Render(&buf, snapshot(selection.Selection{Machine: model.Machine1, View: model.ViewDowntimeAnalysis})))

	assert.Contains(t, buf.String(), "off duration: 10 seconds")
	assert.True(t, strings.Contains(buf.String(), "Machine 5"))
}

func TestNonFiniteCurrentRendersEverywhere(t *testing.T) {
	in := "Time,Current,State,Machine 1\n" +
		"t1,1,Machine OFF,OFF\n" +
		"t2,NaN,Machine OFF,OFF\n" +
		"t3,Inf,Machine OFF,ON\n" +
		"t4,-Inf,Machine OFF,OFF\n" +
		"t5,2,Machine OFF,ON\n"
	res := parser.New(",").ParseString(in)
	ds := model.NewDataset(res.Header, classify.New().ClassifyAll(res.Rows))

	d := view.Derive(ds, selection.Selection{Machine: model.Machine1, View: model.ViewMachineOff}, view.Options{})
	require.Len(t, d.Series, 2)

	var out string
	require.NotPanics(t, func() { out = Text(d) })
	assert.Contains(t, out, "samples: 5")

	for _, spec := range Specs(d) {
		var buf bytes.Buffer
		assert.NoError(t, spec.SVG(&buf), spec.ID)
	}

	_, err := json.Marshal(d)
	assert.NoError(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
