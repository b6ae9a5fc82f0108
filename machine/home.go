package machine

import (
	"fmt"

	"github.com/mastercactapus/grblctl/coord"
	"github.com/mastercactapus/grblctl/gcode"
)

// HomeOptions controls the homing sequence.
type HomeOptions struct {
	// Unlock sends $X before homing to clear an alarm lock.
	Unlock bool

	// SetWorkZero zeroes the work origin at the homed position
	// (G10 L20 P1 X0 Y0 Z0).
	SetWorkZero bool

	// Park, when set, is a Z-safe move run after homing.
	Park *coord.Point

	// Rapid selects G0 over G1 for the park move.
	Rapid bool
}

// DefaultHome unlocks, homes, zeroes the work origin, and parks at (0,0,0).
var DefaultHome = HomeOptions{Unlock: true, SetWorkZero: true, Park: &coord.Point{}, Rapid: true}

// Home dispatches the homing cycle plus mode resets as one batch and waits
// for acknowledgment of the whole batch, not for motion to finish.
func (m *Machine) Home(opts HomeOptions) error {
	var lines []string
	if opts.Unlock {
		lines = append(lines, "$X")
	}
	lines = append(lines, "$H")
	lines = append(lines, safeModeLines...)
	if opts.SetWorkZero {
		lines = append(lines, "G10 L20 P1 X0 Y0 Z0")
	}
	if opts.Park != nil {
		p := *opts.Park
		if !m.WithinBounds(p.Axes()) {
			m.log.Warn("park rejected, out of bounds", "target", formatAxes(p.Axes()))
			return fmt.Errorf("%w: park %s", ErrOutOfBounds, formatAxes(p.Axes()))
		}
		lines = append(lines,
			m.retractLine(),
			gcode.Block{moveWord(opts.Rapid), {W: 'X', Arg: p.X}, {W: 'Y', Arg: p.Y}}.String(),
			gcode.Block{moveWord(opts.Rapid), {W: 'Z', Arg: p.Z}}.String(),
		)
	}
	m.log.Info("starting homing sequence", "lines", len(lines))
	_, err := m.client.SendLines(lines)
	return err
}
