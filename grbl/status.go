package grbl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mastercactapus/grblctl/coord"
)

// Machine states reported in the status frame.
const (
	StateIdle = "Idle"
	StateRun  = "Run"
)

// Status is one parsed `<State|MPos:x,y,z|FS:f,s>` report frame.
type Status struct {
	State string
	MPos  coord.Point
	Feed  float64
	Speed float64

	// Raw is the frame as received, kept for diagnostics.
	Raw string
}

func (s Status) Idle() bool  { return s.State == StateIdle }
func (s Status) Alarm() bool { return strings.HasPrefix(s.State, "Alarm") }

func (s Status) String() string {
	return fmt.Sprintf("<%s|MPos:%.3f,%.3f,%.3f|FS:%.0f,%.0f>",
		s.State, s.MPos.X, s.MPos.Y, s.MPos.Z, s.Feed, s.Speed)
}

func parseCoords(data string) (p coord.Point, err error) {
	parts := strings.Split(data, ",")
	if len(parts) != 3 {
		return p, errors.New("invalid number of elements")
	}
	p.X, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return p, err
	}
	p.Y, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return p, err
	}
	p.Z, err = strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return p, err
	}
	return p, nil
}

// ParseStatus parses a status report frame. Fields other than the state,
// machine position, and feed/speed pair are ignored.
func ParseStatus(data string) (Status, error) {
	st := Status{Raw: data}
	data = strings.TrimSpace(data)
	if !strings.HasPrefix(data, "<") {
		return st, errors.New("not a status frame")
	}
	data = strings.TrimPrefix(data, "<")
	data = strings.TrimSuffix(data, ">")
	parts := strings.Split(data, "|")
	st.State = parts[0]
	var err error
	for _, s := range parts[1:] {
		sParts := strings.SplitN(s, ":", 2)
		if len(sParts) != 2 {
			continue
		}
		switch sParts[0] {
		case "MPos":
			st.MPos, err = parseCoords(sParts[1])
		case "FS":
			_, err = fmt.Sscanf(sParts[1], "%f,%f", &st.Feed, &st.Speed)
		}
		if err != nil {
			return st, err
		}
	}
	return st, nil
}

// QueryStatus issues the single-byte `?` request and parses the reply. A
// silent link yields a zero Status and no error; only callers with a
// deadline (WaitUntilIdle) decide that silence is fatal.
func (c *Client) QueryStatus() (Status, error) {
	if c.sim != nil {
		st := c.sim.Status()
		c.log.Debug("? (virtual)", "status", st.Raw)
		return st, nil
	}
	if err := c.ensureConnected(); err != nil {
		return Status{}, err
	}
	if _, err := c.conn.Write([]byte{'?'}); err != nil {
		return Status{}, fmt.Errorf("write %s: %w", c.cfg.Port, err)
	}
	c.log.Debug(">> ?")
	line, err := c.readLine(statusTimeout)
	if err != nil || line == "" {
		return Status{}, err
	}
	st, err := ParseStatus(line)
	if err != nil {
		return st, fmt.Errorf("parse status %q: %w", line, err)
	}
	return st, nil
}
