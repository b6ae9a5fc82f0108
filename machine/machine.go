// Package machine plans and dispatches bounded motion on a GRBL controller.
package machine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mastercactapus/grblctl/coord"
	"github.com/mastercactapus/grblctl/gcode"
	"github.com/mastercactapus/grblctl/grbl"
	"github.com/mastercactapus/grblctl/locations"
)

// DefaultFeed is the feed rate used when a caller passes none.
const DefaultFeed = 3000

// ErrOutOfBounds rejects a move whose target lies outside the workspace.
// The move is never dispatched; callers may adjust and retry.
var ErrOutOfBounds = errors.New("target outside workspace bounds")

// Bounds is the workspace envelope, low <= high per axis.
type Bounds struct {
	XLow, XHigh float64
	YLow, YHigh float64
	ZLow, ZHigh float64
}

// DefaultBounds is the stock work envelope.
var DefaultBounds = Bounds{XHigh: 270, YHigh: 150, ZLow: -35}

func (b Bounds) validate() error {
	if b.XLow > b.XHigh || b.YLow > b.YHigh || b.ZLow > b.ZHigh {
		return fmt.Errorf("invalid bounds: low exceeds high (%+v)", b)
	}
	return nil
}

// Contains reports whether every set axis lies within the envelope. Unset
// axes always pass.
func (b Bounds) Contains(t coord.Axes) bool {
	ok := func(v *float64, lo, hi float64) bool {
		return v == nil || (lo <= *v && *v <= hi)
	}
	return ok(t.X, b.XLow, b.XHigh) && ok(t.Y, b.YLow, b.YHigh) && ok(t.Z, b.ZLow, b.ZHigh)
}

type Config struct {
	Client *grbl.Client

	// Bounds defaults to DefaultBounds when zero.
	Bounds Bounds

	// Locations is the named-location table, may be empty.
	Locations locations.Table

	Logger *slog.Logger
}

// Machine owns the workspace bounds and turns target coordinates into
// acknowledged G-code batches.
type Machine struct {
	client *grbl.Client
	bounds Bounds
	locs   locations.Table
	log    *slog.Logger
}

func New(cfg Config) (*Machine, error) {
	if cfg.Client == nil {
		return nil, errors.New("machine: client is required")
	}
	if cfg.Bounds == (Bounds{}) {
		cfg.Bounds = DefaultBounds
	}
	if err := cfg.Bounds.validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Machine{
		client: cfg.Client,
		bounds: cfg.Bounds,
		locs:   cfg.Locations,
		log:    cfg.Logger,
	}, nil
}

// Bounds returns the configured workspace envelope.
func (m *Machine) Bounds() Bounds { return m.bounds }

// WithinBounds is the gate in front of every motion dispatch.
func (m *Machine) WithinBounds(t coord.Axes) bool {
	if m.bounds.Contains(t) {
		return true
	}
	m.log.Debug("bounds check failed", "target", formatAxes(t), "bounds", fmt.Sprintf("%+v", m.bounds))
	return false
}

func moveWord(rapid bool) gcode.Word {
	if rapid {
		return gcode.Word{W: 'G', Arg: 0}
	}
	return gcode.Word{W: 'G', Arg: 1}
}

// BuildMove renders a single motion line, omitting unset axes. Exactly one
// feed word is always emitted.
func BuildMove(t coord.Axes, feed int, rapid bool) gcode.Block {
	b := gcode.Block{moveWord(rapid)}
	if t.X != nil {
		b = append(b, gcode.Word{W: 'X', Arg: *t.X})
	}
	if t.Y != nil {
		b = append(b, gcode.Word{W: 'Y', Arg: *t.Y})
	}
	if t.Z != nil {
		b = append(b, gcode.Word{W: 'Z', Arg: *t.Z})
	}
	return append(b, gcode.Word{W: 'F', Arg: float64(feed)})
}

func formatAxes(t coord.Axes) string {
	var parts []string
	add := func(w byte, v *float64) {
		if v != nil {
			parts = append(parts, gcode.Word{W: w, Arg: *v}.String())
		}
	}
	add('X', t.X)
	add('Y', t.Y)
	add('Z', t.Z)
	return strings.Join(parts, " ")
}

// MoveTo dispatches a single bounded move and waits for its acknowledgment,
// not for motion to finish.
func (m *Machine) MoveTo(t coord.Axes, feed int, rapid bool) error {
	if feed <= 0 {
		feed = DefaultFeed
	}
	if !m.WithinBounds(t) {
		m.log.Warn("move rejected, out of bounds", "target", formatAxes(t))
		return fmt.Errorf("%w: %s", ErrOutOfBounds, formatAxes(t))
	}
	line := BuildMove(t, feed, rapid).String()
	m.log.Info("move to point", "line", line)
	_, err := m.client.SendLines([]string{line})
	return err
}

// MoveToSafe retracts to the Z ceiling in machine coordinates before any
// horizontal travel, so a diagonal move can never drag the tool through
// material. The whole sequence is bounds-checked before a single line is
// built.
func (m *Machine) MoveToSafe(p coord.Point, feed int, rapid bool) error {
	if feed <= 0 {
		feed = DefaultFeed
	}
	if !m.WithinBounds(p.Axes()) {
		m.log.Warn("safe move rejected, out of bounds", "target", formatAxes(p.Axes()))
		return fmt.Errorf("%w: %s", ErrOutOfBounds, formatAxes(p.Axes()))
	}
	lines := []string{
		m.retractLine(),
		"G90",
		BuildMove(coord.Axes{X: &p.X, Y: &p.Y}, feed, rapid).String(),
		gcode.Block{moveWord(rapid), {W: 'Z', Arg: p.Z}}.String(),
	}
	m.log.Info("safe move", "target", formatAxes(p.Axes()), "feed", feed)
	_, err := m.client.SendLines(lines)
	return err
}

// retractLine lifts to the Z high bound in machine coordinates, bypassing
// any work offset.
func (m *Machine) retractLine() string {
	return gcode.Block{{W: 'G', Arg: 53}, {W: 'G', Arg: 0}, {W: 'Z', Arg: m.bounds.ZHigh}}.String()
}

// MoveThrough dispatches one absolute-positioning batch through the given
// points, skipping (and logging) any point outside the workspace.
func (m *Machine) MoveThrough(points []coord.Point, feed int) error {
	if feed <= 0 {
		feed = DefaultFeed
	}
	lines := []string{"G90"}
	for _, p := range points {
		if !m.WithinBounds(p.Axes()) {
			m.log.Warn("skipping out-of-bounds point", "point", formatAxes(p.Axes()))
			continue
		}
		lines = append(lines, BuildMove(p.Axes(), feed, false).String())
	}
	m.log.Info("moving through points", "count", len(lines)-1, "feed", feed)
	_, err := m.client.SendLines(lines)
	return err
}

// MoveToLocation resolves a named location (with optional grid index) and
// moves there; safe moves retract before horizontal travel.
func (m *Machine) MoveToLocation(name string, index int, safe bool, feed int) error {
	p, err := m.locs.Resolve(name, index)
	if err != nil {
		return err
	}
	m.log.Info("moving to location", "name", name, "index", index, "safe", safe)
	if safe {
		return m.MoveToSafe(p, feed, false)
	}
	return m.MoveTo(p.Axes(), feed, false)
}

// Origin is a Z-safe rapid move to the work origin.
func (m *Machine) Origin() error {
	m.log.Info("returning to work origin")
	return m.MoveToSafe(coord.Point{}, DefaultFeed, true)
}

var safeModeLines = []string{"G21", "G90", "G94", "G54"}

// SetSafeModes resets units, positioning, feed mode, and work coordinate
// system to their defaults (G21 G90 G94 G54).
func (m *Machine) SetSafeModes() error {
	m.log.Info("setting safe modes")
	_, err := m.client.SendLines(safeModeLines)
	return err
}

// Run streams a G-code script line by line, returning the acknowledgments.
// With wait set it blocks until the machine reports Idle afterward.
func (m *Machine) Run(script string, wait bool) ([]string, error) {
	lines := strings.Split(script, "\n")
	m.log.Debug("dispatching script", "lines", len(lines))
	acks, err := m.client.SendLines(lines)
	if err != nil {
		return acks, err
	}
	if len(acks) == 0 {
		m.log.Warn("empty G-code script")
		return acks, nil
	}
	if wait {
		return acks, m.WaitIdle()
	}
	return acks, nil
}

// WaitIdle blocks until the machine reports Idle, with default polling.
func (m *Machine) WaitIdle() error {
	return m.client.WaitUntilIdle(grbl.DefaultPollHz, grbl.DefaultIdleTimeout)
}
