package selection

import "github.com/speedwagon-io/machinedash/internal/model"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMachineChosen
	PhaseViewChosen
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMachineChosen:
		return "machine_chosen"
	case PhaseViewChosen:
		return "view_chosen"
	default:
		return "unknown"
	}
}

// Selection is the user's navigation choice. The zero value is Idle.
// Transitions return a new value; a Selection is never mutated in place.
type Selection struct {
	Machine model.Machine `json:"machine,omitempty"`
	View    model.View    `json:"view,omitempty"`
}

func (s Selection) Phase() Phase {
	switch {
	case s.View != "":
		return PhaseViewChosen
	case s.Machine != "":
		return PhaseMachineChosen
	default:
		return PhaseIdle
	}
}

// ChooseMachine selects a machine and drops any chosen view, so that
// view-specific counters start from zero. An empty machine resets.
func (s Selection) ChooseMachine(m model.Machine) Selection {
	if m == "" {
		return s.Reset()
	}
	return Selection{Machine: m}
}

// ChooseView keeps the machine and records the view, known or not.
func (s Selection) ChooseView(v model.View) Selection {
	if v == "" {
		return Selection{Machine: s.Machine}
	}
	return Selection{Machine: s.Machine, View: v}
}

func (s Selection) Reset() Selection {
	return Selection{}
}
