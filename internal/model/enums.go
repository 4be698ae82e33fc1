package model

// Machine identifies one monitored machine. The identifier doubles as the
// name of the machine's ON/OFF column in the feed.
type Machine string

const (
	Machine1 Machine = "Machine 1"
	Machine2 Machine = "Machine 2"
	Machine3 Machine = "Machine 3"
	Machine4 Machine = "Machine 4"
	Machine5 Machine = "Machine 5"
)

var Machines = []Machine{Machine1, Machine2, Machine3, Machine4, Machine5}

func (m Machine) Known() bool {
	for _, known := range Machines {
		if m == known {
			return true
		}
	}
	return false
}

func ParseMachine(s string) (Machine, bool) {
	m := Machine(s)
	return m, m.Known()
}

// State is a machine operating-state label as published in the feed.
type State string

const (
	StateUnderLoad State = "Machine ON (Under Load)"
	StateIdle      State = "Idle State (Machine ON)"
	StateOff       State = "Machine OFF"
)

var States = []State{StateUnderLoad, StateIdle, StateOff}

func (s State) Known() bool {
	for _, known := range States {
		if s == known {
			return true
		}
	}
	return false
}

// View is a sidebar entry. Values outside the constants below can still
// reach a Selection; they derive to the placeholder view.
type View string

const (
	ViewIdleState        View = "idle-state"
	ViewUnderLoad        View = "under-load"
	ViewMachineOff       View = "machine-off"
	ViewDowntimeAnalysis View = "downtime-analysis"
	ViewEfficiency       View = "efficiency"
	ViewMachineStatus    View = "machine-status"
)

var Views = []View{
	ViewIdleState,
	ViewUnderLoad,
	ViewMachineOff,
	ViewDowntimeAnalysis,
	ViewEfficiency,
	ViewMachineStatus,
}

func (v View) Known() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// State returns the state label a filter view selects rows by.
func (v View) State() (State, bool) {
	switch v {
	case ViewIdleState:
		return StateIdle, true
	case ViewUnderLoad:
		return StateUnderLoad, true
	case ViewMachineOff:
		return StateOff, true
	default:
		return "", false
	}
}

// NeedsMachine reports whether the view is meaningless without a machine.
func (v View) NeedsMachine() bool {
	return v == ViewDowntimeAnalysis || v == ViewMachineStatus
}

// Color is a display color token (CSS hex).
type Color string

const (
	ColorGreen   Color = "#00FF00"
	ColorRed     Color = "#FF0000"
	ColorYellow  Color = "#FFFF00"
	ColorDefault Color = "#8884d8"
)

// Per-machine switch column values.
const (
	SwitchOn  = "ON"
	SwitchOff = "OFF"
)

// Well-known feed columns.
const (
	ColumnTime    = "Time"
	ColumnCurrent = "Current"
	ColumnState   = "State"
	ColumnStatus  = "STATUS"
)
