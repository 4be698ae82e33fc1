package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedwagon-io/machinedash/internal/classify"
	"github.com/speedwagon-io/machinedash/internal/model"
	"github.com/speedwagon-io/machinedash/internal/parser"
)

func load(t *testing.T, text string) []model.ClassifiedRow {
	t.Helper()
	res := parser.New(",").ParseString(text)
	return classify.New().ClassifyAll(res.Rows)
}

const sample = "Time,Current,State,Machine 1,Machine 2\n" +
	"t1,4.0,Machine ON (Under Load),ON,OFF\n" +
	"t2,0.0,Machine OFF,OFF,OFF\n" +
	"t3,0.5,Idle State (Machine ON),ON,ON\n" +
	"t4,0.0,Machine OFF,OFF,\n" +
	"t5,3.9,Machine ON (Under Load),ON,on\n" +
	"t6,n/a,Broken,,OFF\n"

func TestFilterByState_PreservesOrder(t *testing.T) {
	rows := load(t, sample)

	off := FilterByState(rows, model.StateOff)

	require.Len(t, off, 2)
	assert.Equal(t, "t2", off[0].Value("Time"))
	assert.Equal(t, "t4", off[1].Value("Time"))
	for _, r := range off {
		assert.Equal(t, string(model.StateOff), r.Label)
	}
}

func TestFilterByState_NoMatch(t *testing.T) {
	rows := load(t, "Time,State\nt1,Machine OFF\n")

	got := FilterByState(rows, model.StateIdle)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCountByState(t *testing.T) {
	rows := load(t, sample)

	assert.Equal(t, 2, CountByState(rows, model.StateUnderLoad))
	assert.Equal(t, 1, CountByState(rows, model.StateIdle))
	assert.Equal(t, 2, CountByState(rows, model.StateOff))
}

func TestOffDuration(t *testing.T) {
	rows := load(t, sample)

	assert.Equal(t, 10*time.Second, OffDuration(rows, model.Machine1, DefaultSampleInterval))
	assert.Equal(t, 3*time.Second, OffDuration(rows, model.Machine2, time.Second))
	assert.Zero(t, OffDuration(rows, model.Machine3, DefaultSampleInterval))
}

func TestOffDuration_KTimesInterval(t *testing.T) {
	for k := 0; k < 4; k++ {
		text := "Machine 4\n"
		for i := 0; i < k; i++ {
			text += "OFF\nON\n"
		}
		rows := load(t, text)
		assert.Equal(t, time.Duration(k)*5*time.Second, OffDuration(rows, model.Machine4, DefaultSampleInterval))
	}
}

func TestOnOffCounts_MachineOffExample(t *testing.T) {
	text := "Time,State,Machine 1\n" +
		"t1,Machine OFF,OFF\n" +
		"t2,Machine OFF,ON\n" +
		"t3,Machine OFF,OFF\n" +
		"t4,Machine OFF,ON\n" +
		"t5,Machine OFF,OFF\n"
	rows := load(t, text)
	subset := FilterByState(rows, model.StateOff)

	counts := OnOffCounts(subset, model.Machine1)

	assert.Equal(t, OnOff{On: 2, Off: 3}, counts)
	assert.Equal(t, "15 seconds", FormatSeconds(OffDuration(rows, model.Machine1, DefaultSampleInterval)))
}

func TestOnOffCounts_ExcludesOtherValues(t *testing.T) {
	rows := load(t, sample)

	got := OnOffCounts(rows, model.Machine2)

	// "on", "" and absent are neither ON nor OFF.
	assert.Equal(t, OnOff{On: 1, Off: 3}, got)
	assert.Equal(t, 4, got.Total())
}

func TestStateCounts(t *testing.T) {
	rows := load(t, sample)

	got := StateCounts(rows)

	require.Len(t, got.States, 3)
	assert.Equal(t, StateCount{State: model.StateUnderLoad, Color: model.ColorGreen, Count: 2}, got.States[0])
	assert.Equal(t, StateCount{State: model.StateIdle, Color: model.ColorYellow, Count: 1}, got.States[1])
	assert.Equal(t, StateCount{State: model.StateOff, Color: model.ColorRed, Count: 2}, got.States[2])
	assert.Equal(t, 1, got.Other)
}

func TestMachineStatus(t *testing.T) {
	rows := load(t, sample)

	got := MachineStatus(rows)

	require.Len(t, got, len(model.Machines))
	assert.Equal(t, model.Machine1, got[0].Machine)
	assert.Equal(t, OnOff{On: 3, Off: 2}, got[0].OnOff)
	assert.Equal(t, OnOff{}, got[4].OnOff)
}

func TestDowntime(t *testing.T) {
	rows := load(t, sample)

	got := Downtime(rows, DefaultSampleInterval)

	require.Len(t, got, 5)
	assert.Equal(t, 10*time.Second, got[0].Duration)
	assert.Equal(t, 15*time.Second, got[1].Duration)
}

func TestEfficiency(t *testing.T) {
	rows := load(t, sample)

	assert.InDelta(t, 0.4, Efficiency(rows), 1e-9)
	assert.Zero(t, Efficiency(load(t, "State\nBroken\n")))
}

func TestCurrentSeries_SkipsNonNumeric(t *testing.T) {
	rows := load(t, sample)

	got := CurrentSeries(rows)

	require.Len(t, got, 5)
	assert.Equal(t, Point{Index: 0, Time: "t1", Current: 4.0, Color: model.ColorGreen}, got[0])
	assert.Equal(t, 4, got[4].Index)
}

func TestCurrentSeries_SkipsNonFinite(t *testing.T) {
	rows := load(t, "Time,Current,State\n"+
		"t1,1,Machine OFF\n"+
		"t2,NaN,Machine OFF\n"+
		"t3,Inf,Machine OFF\n"+
		"t4,-Inf,Machine OFF\n"+
		"t5,+Inf,Machine OFF\n"+
		"t6,2,Machine OFF\n")

	got := CurrentSeries(rows)

	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].Time)
	assert.Equal(t, "t6", got[1].Time)
	assert.Equal(t, 5, got[1].Index)
}

func TestEmptyInput(t *testing.T) {
	var rows []model.ClassifiedRow

	assert.Empty(t, FilterByState(rows, model.StateOff))
	assert.Zero(t, CountByState(rows, model.StateOff))
	assert.Zero(t, OffDuration(rows, model.Machine1, DefaultSampleInterval))
	assert.Equal(t, OnOff{}, OnOffCounts(rows, model.Machine1))
	assert.Zero(t, Efficiency(rows))
	assert.Empty(t, CurrentSeries(rows))
	assert.Zero(t, StateCounts(rows).Other)
	assert.Len(t, MachineStatus(rows), 5)
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "0 seconds", FormatSeconds(0))
	assert.Equal(t, "15 seconds", FormatSeconds(15*time.Second))
	assert.Equal(t, "90 seconds", FormatSeconds(90*time.Second))
}
