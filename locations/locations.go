// Package locations maps named fixtures to workspace coordinates. A single
// entry can describe many physical slots via a rectangular grid.
package locations

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mastercactapus/grblctl/coord"
)

var ErrUnknownLocation = errors.New("unknown location")

// Entry is one named fixture: an origin plus an optional grid shape.
type Entry struct {
	XOrigin float64 `yaml:"x_origin"`
	YOrigin float64 `yaml:"y_origin"`
	ZOrigin float64 `yaml:"z_origin"`
	NumX    int     `yaml:"num_x"`
	XOffset float64 `yaml:"x_offset"`
	NumY    int     `yaml:"num_y"`
	YOffset float64 `yaml:"y_offset"`
}

// Origin returns the entry's raw origin point.
func (e Entry) Origin() coord.Point {
	return coord.Point{X: e.XOrigin, Y: e.YOrigin, Z: e.ZOrigin}
}

// Slot returns the grid cell for index: column index mod num_x, row
// index div num_x.
func (e Entry) Slot(index int) coord.Point {
	col := index % e.NumX
	row := index / e.NumX
	return e.Origin().Add(coord.Point{
		X: float64(col) * e.XOffset,
		Y: float64(row) * e.YOffset,
	})
}

type Table map[string]Entry

// Resolve maps a name and optional grid index to an absolute point. A
// negative index addresses the raw origin.
func (t Table) Resolve(name string, index int) (coord.Point, error) {
	e, ok := t[name]
	if !ok {
		return coord.Point{}, fmt.Errorf("%w: %q", ErrUnknownLocation, name)
	}
	if index < 0 {
		return e.Origin(), nil
	}
	if e.NumX < 1 {
		return coord.Point{}, fmt.Errorf("location %q has no grid (num_x=%d)", name, e.NumX)
	}
	return e.Slot(index), nil
}

// Load reads a YAML location table. A missing, unreadable, or unparseable
// file degrades to an empty table so the driver still constructs; entries
// that are present but malformed fail the load outright.
func Load(path string, log *slog.Logger) (Table, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if path == "" {
		log.Warn("no locations file configured, table is empty")
		return Table{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("locations file unreadable, table is empty", "path", path, "error", err)
		return Table{}, nil
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		log.Error("locations file unparseable, table is empty", "path", path, "error", err)
		return Table{}, nil
	}
	if t == nil {
		t = Table{}
	}
	if err := t.validate(); err != nil {
		return Table{}, fmt.Errorf("locations %s: %w", path, err)
	}
	log.Info("loaded locations", "path", path, "count", len(t))
	return t, nil
}

func (t Table) validate() error {
	for name, e := range t {
		if e.NumX < 0 || e.NumY < 0 {
			return fmt.Errorf("location %q: grid dimensions must not be negative", name)
		}
		if e.NumX == 0 && (e.XOffset != 0 || e.YOffset != 0) {
			return fmt.Errorf("location %q: grid offsets set without num_x", name)
		}
	}
	return nil
}
