package classify

import "github.com/speedwagon-io/machinedash/internal/model"

// colors is the canonical state → color table. Matching is exact: no
// trimming and no case folding.
var colors = map[model.State]model.Color{
	model.StateUnderLoad: model.ColorGreen,
	model.StateOff:       model.ColorRed,
	model.StateIdle:      model.ColorYellow,
}

// DefaultStateColumns is the lookup order for the state label column.
var DefaultStateColumns = []string{model.ColumnState, model.ColumnStatus}

type Classifier struct {
	stateColumns []string
}

func New(stateColumns ...string) *Classifier {
	if len(stateColumns) == 0 {
		stateColumns = DefaultStateColumns
	}
	return &Classifier{stateColumns: stateColumns}
}

// Label returns the row's state label from the first state column present.
func (c *Classifier) Label(row model.RawRow) (string, bool) {
	for _, col := range c.stateColumns {
		if v, ok := row.Get(col); ok {
			return v, true
		}
	}
	return "", false
}

// ColorOf maps a label to its color. Every label gets one.
func ColorOf(label string) model.Color {
	if color, ok := colors[model.State(label)]; ok {
		return color
	}
	return model.ColorDefault
}

func (c *Classifier) Classify(row model.RawRow) model.ClassifiedRow {
	label, _ := c.Label(row)
	return model.ClassifiedRow{
		RawRow: row,
		Label:  label,
		Color:  ColorOf(label),
	}
}

func (c *Classifier) ClassifyAll(rows []model.RawRow) []model.ClassifiedRow {
	out := make([]model.ClassifiedRow, len(rows))
	for i, row := range rows {
		out[i] = c.Classify(row)
	}
	return out
}
