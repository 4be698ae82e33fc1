// Package aggregate derives counts, subsets and summary series from a
// classified row collection. Every function is pure and accepts an empty
// collection, returning zero values.
package aggregate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/speedwagon-io/machinedash/internal/classify"
	"github.com/speedwagon-io/machinedash/internal/model"
)

// DefaultSampleInterval is the assumed spacing between feed samples. Off
// durations are sample counts multiplied by it, not measured time.
const DefaultSampleInterval = 5 * time.Second

// FilterByState keeps rows whose label equals state exactly, in order.
func FilterByState(rows []model.ClassifiedRow, state model.State) []model.ClassifiedRow {
	return lo.Filter(rows, func(row model.ClassifiedRow, _ int) bool {
		return row.Label == string(state)
	})
}

func CountByState(rows []model.ClassifiedRow, state model.State) int {
	return lo.CountBy(rows, func(row model.ClassifiedRow) bool {
		return row.Label == string(state)
	})
}

// OffDuration estimates how long machine was off: rows whose machine column
// reads OFF times interval.
func OffDuration(rows []model.ClassifiedRow, machine model.Machine, interval time.Duration) time.Duration {
	off := lo.CountBy(rows, func(row model.ClassifiedRow) bool {
		return row.Value(string(machine)) == model.SwitchOff
	})
	return time.Duration(off) * interval
}

type OnOff struct {
	On  int `json:"on"`
	Off int `json:"off"`
}

func (o OnOff) Total() int {
	return o.On + o.Off
}

// OnOffCounts counts ON and OFF values of the machine column. Anything else,
// including an absent column, is in neither count.
func OnOffCounts(rows []model.ClassifiedRow, machine model.Machine) OnOff {
	var out OnOff
	for _, row := range rows {
		switch row.Value(string(machine)) {
		case model.SwitchOn:
			out.On++
		case model.SwitchOff:
			out.Off++
		}
	}
	return out
}

type StateCount struct {
	State model.State `json:"state"`
	Color model.Color `json:"color"`
	Count int         `json:"count"`
}

type StateSummary struct {
	States []StateCount `json:"states"`
	Other  int          `json:"other"`
}

// StateCounts returns one entry per known state, in enum order. Rows with a
// missing or unknown label are tallied in Other.
func StateCounts(rows []model.ClassifiedRow) StateSummary {
	summary := StateSummary{
		States: lo.Map(model.States, func(state model.State, _ int) StateCount {
			return StateCount{State: state, Color: classify.ColorOf(string(state)), Count: CountByState(rows, state)}
		}),
	}
	summary.Other = len(rows) - lo.SumBy(summary.States, func(sc StateCount) int { return sc.Count })
	return summary
}

type MachineOnOff struct {
	Machine model.Machine `json:"machine"`
	OnOff
}

// MachineStatus returns on/off counts for every machine, in enum order.
func MachineStatus(rows []model.ClassifiedRow) []MachineOnOff {
	return lo.Map(model.Machines, func(m model.Machine, _ int) MachineOnOff {
		return MachineOnOff{Machine: m, OnOff: OnOffCounts(rows, m)}
	})
}

type MachineDowntime struct {
	Machine  model.Machine `json:"machine"`
	Duration time.Duration `json:"duration"`
}

func Downtime(rows []model.ClassifiedRow, interval time.Duration) []MachineDowntime {
	return lo.Map(model.Machines, func(m model.Machine, _ int) MachineDowntime {
		return MachineDowntime{Machine: m, Duration: OffDuration(rows, m, interval)}
	})
}

// Efficiency is the share of under-load rows among rows with a known state,
// in [0, 1].
func Efficiency(rows []model.ClassifiedRow) float64 {
	known := lo.CountBy(rows, func(row model.ClassifiedRow) bool {
		return model.State(row.Label).Known()
	})
	if known == 0 {
		return 0
	}
	return float64(CountByState(rows, model.StateUnderLoad)) / float64(known)
}

type Point struct {
	Index   int         `json:"index"`
	Time    string      `json:"time"`
	Current float64     `json:"current"`
	Color   model.Color `json:"color"`
}

// CurrentSeries returns the Current readings that parse as finite numbers. Index
// is the row position in the input, so gaps show skipped rows.
func CurrentSeries(rows []model.ClassifiedRow) []Point {
	return lo.FilterMap(rows, func(row model.ClassifiedRow, i int) (Point, bool) {
		raw, ok := row.Get(model.ColumnCurrent)
		if !ok {
			return Point{}, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Point{}, false
		}
		return Point{Index: i, Time: row.Value(model.ColumnTime), Current: v, Color: row.Color}, true
	})
}

// FormatSeconds renders a duration the way the dashboard displays it.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%d seconds", int64(d/time.Second))
}
