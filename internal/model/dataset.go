package model

import (
	"time"

	"github.com/google/uuid"
)

// Dataset is the classified result of one fetch cycle. It is replaced as a
// whole on every successful fetch.
type Dataset struct {
	ID        string          `json:"id"`
	FetchedAt time.Time       `json:"fetched_at"`
	Header    []string        `json:"header"`
	Rows      []ClassifiedRow `json:"rows"`
}

func NewDataset(header []string, rows []ClassifiedRow) Dataset {
	return Dataset{
		ID:        uuid.New().String(),
		FetchedAt: time.Now().UTC(),
		Header:    header,
		Rows:      rows,
	}
}

func (d Dataset) Len() int {
	return len(d.Rows)
}

func (d Dataset) Empty() bool {
	return len(d.Rows) == 0
}
