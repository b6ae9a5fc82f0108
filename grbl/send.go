package grbl

import (
	"fmt"
	"strings"
	"time"
)

// SendLines dispatches each non-blank line and blocks until its terminal
// reply. A reply starting with "ok" acknowledges the line; "error:" or
// "ALARM:" aborts the batch immediately with no further lines sent. The
// returned slice holds one ok reply per acknowledged line, in dispatch
// order.
func (c *Client) SendLines(lines []string) ([]string, error) {
	if c.sim != nil {
		replies := c.sim.Run(lines)
		c.log.Info("sent lines", "count", len(replies), "virtual", true)
		return replies, nil
	}

	if err := c.ensureConnected(); err != nil {
		return nil, err
	}
	var replies []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		c.log.Debug(">>", "line", line)
		if err := c.writeLine(line); err != nil {
			return replies, err
		}
		reply, err := c.awaitAck(line)
		if err != nil {
			return replies, err
		}
		replies = append(replies, reply)
	}
	c.log.Info("sent lines", "count", len(replies))
	return replies, nil
}

// awaitAck reads replies until a terminal one arrives, discarding
// informational frames. The controller places no bound on non-terminal
// chatter, so a silent or babbling link fails once the ack window elapses
// instead of hanging.
func (c *Client) awaitAck(line string) (string, error) {
	deadline := time.Now().Add(c.ackWindow)
	for {
		remain := time.Until(deadline)
		if remain <= 0 {
			return "", fmt.Errorf("no acknowledgment for %q within %s", line, c.ackWindow)
		}
		r, err := c.readLine(min(remain, replyTimeout))
		if err != nil {
			return "", err
		}
		if r == "" {
			continue
		}
		if strings.HasPrefix(r, "ok") {
			return r, nil
		}
		if strings.HasPrefix(r, "error:") || strings.HasPrefix(r, "ALARM:") {
			c.log.Error("command rejected", "line", line, "reply", r)
			return "", &ProtocolError{Line: line, Reply: r}
		}
		c.log.Debug("ignoring reply", "line", r)
	}
}
