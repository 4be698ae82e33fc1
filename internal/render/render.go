// Package render turns a dashboard snapshot into something a person can
// look at: an HTML page with SVG charts, or a plain-text report.
package render

import (
	"io"

	"github.com/speedwagon-io/machinedash/internal/dashboard"
)

type Renderer interface {
	Render(w io.Writer, snap dashboard.Snapshot) error
}
