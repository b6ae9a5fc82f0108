package grbl

import (
	"fmt"
	"time"
)

// ProtocolError is a terminal "error:" or "ALARM:" reply. Alarm states
// usually need operator intervention, so the failed batch is never retried
// automatically.
type ProtocolError struct {
	Line  string // the command that was rejected
	Reply string // the raw terminal reply
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("grbl: %s (for: %s)", e.Reply, e.Line)
}

// IdleTimeoutError means the machine never reported Idle within the wait
// window.
type IdleTimeoutError struct {
	Timeout    time.Duration
	LastStatus string
}

func (e *IdleTimeoutError) Error() string {
	return fmt.Sprintf("grbl: machine did not become Idle in %s, last status: %q", e.Timeout, e.LastStatus)
}
