package grbl

import "time"

const (
	DefaultPollHz      = 10.0
	DefaultIdleTimeout = 60 * time.Second
)

// WaitUntilIdle polls the status report at pollHz until the machine reports
// Idle, or fails once max elapses. The timeout error carries the last
// observed status frame. Virtual machines treat motion as instantaneous and
// return immediately.
func (c *Client) WaitUntilIdle(pollHz float64, max time.Duration) error {
	if c.sim != nil {
		c.log.Debug("wait until idle: virtual, immediate")
		return nil
	}
	if pollHz <= 0 {
		pollHz = DefaultPollHz
	}
	period := time.Duration(float64(time.Second) / pollHz)
	start := time.Now()
	var last string
	for {
		st, err := c.QueryStatus()
		if err != nil && st.Raw == "" {
			// Transport failure, not a garbled frame.
			return err
		}
		if st.Raw != "" {
			last = st.Raw
		}
		if st.Idle() {
			return nil
		}
		if time.Since(start) > max {
			c.log.Error("idle wait timed out", "timeout", max, "last", last)
			return &IdleTimeoutError{Timeout: max, LastStatus: last}
		}
		time.Sleep(period)
	}
}
