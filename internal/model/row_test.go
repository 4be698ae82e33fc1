package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRawRow_ShortRowLeavesColumnsAbsent(t *testing.T) {
	row := NewRawRow([]string{"Time", "Current", "State"}, []string{"10:00", "4.2"})

	v, ok := row.Get("Current")
	assert.True(t, ok)
	assert.Equal(t, "4.2", v)

	_, ok = row.Get("State")
	assert.False(t, ok, "short row must leave the column absent")
	assert.Equal(t, 2, row.Present())
}

func TestNewRawRow_DropsExcessFields(t *testing.T) {
	row := NewRawRow([]string{"Time"}, []string{"10:00", "extra", "more"})

	assert.Equal(t, 1, row.Present())
	assert.Equal(t, map[string]string{"Time": "10:00"}, row.Fields())
}

func TestRawRow_EmptyValueIsPresent(t *testing.T) {
	row := NewRawRow([]string{"Time", "State"}, []string{"10:00", ""})

	v, ok := row.Get("State")
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestRawRow_DuplicateHeaderLastWins(t *testing.T) {
	row := NewRawRow([]string{"A", "B", "A"}, []string{"first", "b", "last"})

	assert.Equal(t, "last", row.Value("A"))
	assert.Equal(t, map[string]string{"A": "last", "B": "b"}, row.Fields())
}

func TestRawRow_DuplicateHeaderLastAbsent(t *testing.T) {
	row := NewRawRow([]string{"A", "B", "A"}, []string{"first", "b"})

	_, ok := row.Get("A")
	assert.False(t, ok)
}

func TestNewRawRow_CopiesFields(t *testing.T) {
	fields := []string{"10:00"}
	row := NewRawRow([]string{"Time"}, fields)
	fields[0] = "mutated"

	assert.Equal(t, "10:00", row.Value("Time"))
}

func TestClassifiedRow_MarshalJSON(t *testing.T) {
	row := ClassifiedRow{
		RawRow: NewRawRow([]string{"Time", "State"}, []string{"10:00", "Machine OFF"}),
		Label:  "Machine OFF",
		Color:  ColorRed,
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]string{
		"Time":  "10:00",
		"State": "Machine OFF",
		"color": "#FF0000",
	}, got)
}

func TestNewDataset(t *testing.T) {
	ds := NewDataset([]string{"Time"}, nil)

	assert.NotEmpty(t, ds.ID)
	assert.False(t, ds.FetchedAt.IsZero())
	assert.True(t, ds.Empty())
	assert.Zero(t, ds.Len())
}

func TestEnums(t *testing.T) {
	m, ok := ParseMachine("Machine 3")
	assert.True(t, ok)
	assert.Equal(t, Machine3, m)

	_, ok = ParseMachine("Machine 9")
	assert.False(t, ok)

	s, ok := ViewMachineOff.State()
	assert.True(t, ok)
	assert.Equal(t, StateOff, s)

	_, ok = ViewEfficiency.State()
	assert.False(t, ok)

	assert.True(t, ViewDowntimeAnalysis.NeedsMachine())
	assert.False(t, ViewUnderLoad.NeedsMachine())
	assert.False(t, View("bogus").Known())
	assert.True(t, StateIdle.Known())
}
