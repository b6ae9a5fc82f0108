package grbl

import (
	"strconv"
	"strings"

	"github.com/mastercactapus/grblctl/coord"
)

// Simulator stands in for the transport in virtual mode. Every Client owns
// its own instance, so independent virtual sessions never share state.
type Simulator struct {
	state string
	pos   coord.Point
	log   []string
}

func newSimulator() *Simulator {
	return &Simulator{state: StateIdle}
}

var motionCommands = map[string]bool{"G0": true, "G1": true, "G2": true, "G3": true}

// Run records every non-blank line, applies motion commands to the
// simulated position, and returns one synthetic ok per recorded line. The
// simulated state rests at Idle after the batch.
func (s *Simulator) Run(lines []string) []string {
	var replies []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		s.log = append(s.log, line)
		s.apply(line)
		replies = append(replies, "ok")
	}
	s.state = StateIdle
	return replies
}

func (s *Simulator) apply(line string) {
	fields := strings.Fields(strings.ToUpper(line))
	if len(fields) == 0 || !motionCommands[fields[0]] {
		return
	}
	s.state = StateRun
	for _, tok := range fields[1:] {
		if len(tok) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(tok[1:], 64)
		if err != nil {
			// Unparsable axis values leave the position alone.
			continue
		}
		switch tok[0] {
		case 'X':
			s.pos.X = v
		case 'Y':
			s.pos.Y = v
		case 'Z':
			s.pos.Z = v
		}
	}
}

// Status synthesizes a report frame from the simulated state.
func (s *Simulator) Status() Status {
	st := Status{State: s.state, MPos: s.pos}
	st.Raw = st.String()
	return st
}

// Log returns a copy of the commands recorded so far.
func (s *Simulator) Log() []string {
	return append([]string(nil), s.log...)
}
