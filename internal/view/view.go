// Package view derives what the dashboard shows for a dataset and a
// selection. Derive is a pure function; callers recompute it whenever
// either input changes instead of caching results.
package view

import (
	"fmt"
	"time"

	"github.com/speedwagon-io/machinedash/internal/aggregate"
	"github.com/speedwagon-io/machinedash/internal/model"
	"github.com/speedwagon-io/machinedash/internal/selection"
)

type Kind string

const (
	KindPlaceholder   Kind = "placeholder"
	KindStateSeries   Kind = "state_series"
	KindDowntime      Kind = "downtime"
	KindEfficiency    Kind = "efficiency"
	KindMachineStatus Kind = "machine_status"
)

var titles = map[model.View]string{
	model.ViewIdleState:        "Idle State",
	model.ViewUnderLoad:        "Load State",
	model.ViewMachineOff:       "Machine OFF",
	model.ViewDowntimeAnalysis: "Downtime Analysis",
	model.ViewEfficiency:       "Efficiency",
	model.ViewMachineStatus:    "Machine Status",
}

func Title(v model.View) string {
	if t, ok := titles[v]; ok {
		return t
	}
	return string(v)
}

type Options struct {
	SampleInterval time.Duration
}

func (o Options) interval() time.Duration {
	if o.SampleInterval <= 0 {
		return aggregate.DefaultSampleInterval
	}
	return o.SampleInterval
}

type Derived struct {
	Kind      Kind                `json:"kind"`
	Title     string              `json:"title"`
	Message   string              `json:"message,omitempty"`
	Selection selection.Selection `json:"selection"`
	Phase     string              `json:"phase"`
	DatasetID string              `json:"dataset_id,omitempty"`

	State  model.State           `json:"state,omitempty"`
	Rows   []model.ClassifiedRow `json:"rows,omitempty"`
	Count  int                   `json:"count"`
	Series []aggregate.Point     `json:"series,omitempty"`

	OnOff       *aggregate.OnOff            `json:"on_off,omitempty"`
	OffDuration time.Duration               `json:"off_duration"`
	Downtime    []aggregate.MachineDowntime `json:"downtime,omitempty"`
	States      *aggregate.StateSummary     `json:"states,omitempty"`
	Efficiency  float64                     `json:"efficiency"`
	Machines    []aggregate.MachineOnOff    `json:"machines,omitempty"`
}

func (d Derived) OffDurationText() string {
	return aggregate.FormatSeconds(d.OffDuration)
}

func (d Derived) Placeholder() bool {
	return d.Kind == KindPlaceholder
}

// Derive computes the view for sel over ds.
func Derive(ds model.Dataset, sel selection.Selection, opts Options) Derived {
	d := Derived{
		Selection: sel,
		Phase:     sel.Phase().String(),
		DatasetID: ds.ID,
	}

	switch sel.Phase() {
	case selection.PhaseIdle:
		return placeholder(d, "Select a machine or a view from the menu.")
	case selection.PhaseMachineChosen:
		return placeholder(d, fmt.Sprintf("Select a view for %s.", sel.Machine))
	}

	if !sel.View.Known() {
		return placeholder(d, fmt.Sprintf("No view for %q.", sel.View))
	}
	d.Title = Title(sel.View)

	if sel.View.NeedsMachine() && sel.Machine == "" {
		return placeholder(d, fmt.Sprintf("Select a machine to see %s.", d.Title))
	}

	rows := ds.Rows
	interval := opts.interval()

	if state, ok := sel.View.State(); ok {
		d.Kind = KindStateSeries
		d.State = state
		d.Rows = aggregate.FilterByState(rows, state)
		d.Count = len(d.Rows)
		d.Series = aggregate.CurrentSeries(d.Rows)
		if sel.Machine != "" {
			counts := aggregate.OnOffCounts(d.Rows, sel.Machine)
			d.OnOff = &counts
			d.OffDuration = aggregate.OffDuration(rows, sel.Machine, interval)
		}
		return d
	}

	switch sel.View {
	case model.ViewDowntimeAnalysis:
		d.Kind = KindDowntime
		d.OffDuration = aggregate.OffDuration(rows, sel.Machine, interval)
		d.Downtime = aggregate.Downtime(rows, interval)
		d.Count = len(rows)
	case model.ViewEfficiency:
		d.Kind = KindEfficiency
		summary := aggregate.StateCounts(rows)
		d.States = &summary
		d.Efficiency = aggregate.Efficiency(rows)
		d.Count = len(rows)
	case model.ViewMachineStatus:
		d.Kind = KindMachineStatus
		counts := aggregate.OnOffCounts(rows, sel.Machine)
		d.OnOff = &counts
		d.Machines = aggregate.MachineStatus(rows)
		d.Count = len(rows)
	}

	return d
}

func placeholder(d Derived, msg string) Derived {
	d.Kind = KindPlaceholder
	d.Message = msg
	return d
}
