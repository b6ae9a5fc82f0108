package grbl

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/tarm/serial"
)

const (
	// DefaultBaud is the stock GRBL serial rate.
	DefaultBaud = 115200

	// wakeSettle gives the controller time to emit its boot banner.
	wakeSettle = 2 * time.Second

	// portReadSlice bounds a single transport read so line deadlines
	// stay responsive.
	portReadSlice = 50 * time.Millisecond

	replyTimeout  = 2 * time.Second
	statusTimeout = 500 * time.Millisecond
	drainTimeout  = 50 * time.Millisecond

	defaultAckWindow = 30 * time.Second
)

// Config configures a Client. The zero value is not usable; Port (or Dial)
// must be set unless Virtual is true.
type Config struct {
	// Port is the serial device path, e.g. /dev/ttyUSB0.
	Port string

	// Baud defaults to DefaultBaud.
	Baud int

	// Virtual substitutes an in-memory simulator for the transport.
	Virtual bool

	// Dial opens the transport. Defaults to opening Port via tarm/serial.
	Dial func() (io.ReadWriteCloser, error)

	// Logger receives connection events and raw traffic. Defaults to a
	// discard handler.
	Logger *slog.Logger
}

// Client is a session with a single GRBL controller. It owns the connection
// exclusively; callers must serialize access externally.
type Client struct {
	cfg  Config
	log  *slog.Logger
	conn io.ReadWriteCloser
	sim  *Simulator

	settle    time.Duration
	ackWindow time.Duration
}

func New(cfg Config) *Client {
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Dial == nil {
		port, baud := cfg.Port, cfg.Baud
		cfg.Dial = func() (io.ReadWriteCloser, error) {
			return serial.OpenPort(&serial.Config{Name: port, Baud: baud, ReadTimeout: portReadSlice})
		}
	}

	c := &Client{
		cfg:       cfg,
		log:       cfg.Logger,
		settle:    wakeSettle,
		ackWindow: defaultAckWindow,
	}
	if cfg.Virtual {
		c.sim = newSimulator()
	}
	c.log.Info("grbl client initialized", "virtual", cfg.Virtual, "port", cfg.Port, "baud", cfg.Baud)
	return c
}

// Virtual reports whether the client simulates the controller.
func (c *Client) Virtual() bool { return c.sim != nil }

// CommandLog returns the commands recorded in virtual mode, nil otherwise.
func (c *Client) CommandLog() []string {
	if c.sim == nil {
		return nil
	}
	return c.sim.Log()
}

// Connect opens the serial port if it is not already open. In virtual mode
// it is a no-op.
func (c *Client) Connect() error {
	if c.sim != nil {
		c.log.Debug("connect: virtual no-op")
		return nil
	}
	if c.conn != nil {
		c.log.Debug("serial already open", "port", c.cfg.Port)
		return nil
	}
	c.log.Info("opening serial port", "port", c.cfg.Port, "baud", c.cfg.Baud)
	conn, err := c.cfg.Dial()
	if err != nil {
		return fmt.Errorf("open %s: %w", c.cfg.Port, err)
	}
	c.conn = conn
	c.wake()
	return nil
}

// Close closes the serial port. It is safe to call at any time, including
// before Connect or twice; the handle is cleared even if the close fails.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	c.log.Info("closing serial port", "port", c.cfg.Port)
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) ensureConnected() error {
	if c.sim != nil || c.conn != nil {
		return nil
	}
	return c.Connect()
}

// wake clears the controller's startup greeting so it is never misread as a
// command reply.
func (c *Client) wake() {
	c.log.Debug("waking controller and clearing greeting")
	c.drainInput()
	if _, err := c.conn.Write([]byte("\r\n\r\n")); err != nil {
		c.log.Error("wake write failed", "error", err)
	}
	time.Sleep(c.settle)
	c.drainInput()
}

func (c *Client) drainInput() {
	for {
		line, err := c.readLine(drainTimeout)
		if err != nil || line == "" {
			return
		}
		c.log.Debug("discarding buffered input", "line", line)
	}
}

// readLine blocks up to timeout for one newline-terminated frame and
// returns the trimmed text. A timeout yields an empty line, not an error.
// Invalid UTF-8 is dropped rather than surfaced.
func (c *Client) readLine(timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	var line []byte
	buf := make([]byte, 1)
	for {
		if !time.Now().Before(deadline) {
			return "", nil
		}
		n, err := c.conn.Read(buf)
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("read %s: %w", c.cfg.Port, err)
		}
		if n == 0 {
			time.Sleep(time.Millisecond)
			continue
		}
		if buf[0] == '\n' {
			break
		}
		line = append(line, buf[0])
	}
	s := strings.ToValidUTF8(strings.TrimSpace(string(line)), "")
	if s != "" {
		c.log.Debug("<<", "line", s)
	}
	return s, nil
}

func (c *Client) writeLine(line string) error {
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("write %s: %w", c.cfg.Port, err)
	}
	return nil
}
