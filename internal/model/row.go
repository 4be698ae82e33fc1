package model

import "encoding/json"

// RawRow is one data line of the feed keyed by header column. Columns the
// line was too short for are absent, which is distinct from an empty value.
type RawRow struct {
	header []string
	values []string
}

// NewRawRow zips fields with header positionally. Excess fields are dropped.
func NewRawRow(header, fields []string) RawRow {
	n := len(fields)
	if n > len(header) {
		n = len(header)
	}
	values := make([]string, n)
	copy(values, fields[:n])
	return RawRow{header: header, values: values}
}

// Get returns the value of col. When the header repeats a name the last
// column carrying it wins.
func (r RawRow) Get(col string) (string, bool) {
	for i := len(r.header) - 1; i >= 0; i-- {
		if r.header[i] != col {
			continue
		}
		if i < len(r.values) {
			return r.values[i], true
		}
		return "", false
	}
	return "", false
}

// Value is Get without the presence flag.
func (r RawRow) Value(col string) string {
	v, _ := r.Get(col)
	return v
}

// Present is the number of header columns this row has a value for.
func (r RawRow) Present() int {
	return len(r.values)
}

// Fields flattens the row into a name→value map, absent columns omitted.
func (r RawRow) Fields() map[string]string {
	out := make(map[string]string, len(r.values))
	for i, col := range r.header {
		if i < len(r.values) {
			out[col] = r.values[i]
		} else {
			delete(out, col)
		}
	}
	return out
}

func (r RawRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields())
}

// ClassifiedRow is a RawRow annotated with its resolved state label and
// display color.
type ClassifiedRow struct {
	RawRow
	Label string
	Color Color
}

func (r ClassifiedRow) MarshalJSON() ([]byte, error) {
	fields := r.Fields()
	fields["color"] = string(r.Color)
	return json.Marshal(fields)
}
