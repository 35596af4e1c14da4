package probe

import (
	"fmt"
	"io"
)

const (
	boldOn  = "\033[1m"
	boldOff = "\033[m"
)

// Markers writes the lines that bracket the output of a probe, in the format
// of the test suite the probe belongs to.
type Markers struct {
	// Bold makes the markers bold, for terminals.
	Bold bool
}

// Start writes the start marker.
func (m Markers) Start(w io.Writer, name string) { m.write(w, "START", name) }

// End writes the end marker.
func (m Markers) End(w io.Writer, name string) { m.write(w, "END", name) }

func (m Markers) write(w io.Writer, what, name string) {
	line := fmt.Sprintf("========== %s %s ==========", what, name)
	if m.Bold {
		line = boldOn + line + boldOff
	}
	fmt.Fprintln(w, line)
}
