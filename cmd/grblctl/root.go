package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mastercactapus/grblctl/grbl"
	"github.com/mastercactapus/grblctl/locations"
	"github.com/mastercactapus/grblctl/machine"
)

var rootCmd = &cobra.Command{
	Use:          "grblctl",
	Short:        "grblctl drives a GRBL motion controller over a serial link",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootFlags struct {
	port      string
	baud      int
	virtual   bool
	locations string
	logLevel  string
	logFormat string

	xLow, xHigh float64
	yLow, yHigh float64
	zLow, zHigh float64
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.port, "port", "/dev/ttyUSB0", "Serial port of the controller.")
	pf.IntVar(&rootFlags.baud, "baud", grbl.DefaultBaud, "Serial baud rate.")
	pf.BoolVar(&rootFlags.virtual, "virtual", false, "Simulate the controller instead of opening a port.")
	pf.StringVar(&rootFlags.locations, "locations", "", "YAML file of named locations.")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug|info|warn|error.")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text|json.")
	pf.Float64Var(&rootFlags.xLow, "x-low", machine.DefaultBounds.XLow, "Workspace X low bound (mm).")
	pf.Float64Var(&rootFlags.xHigh, "x-high", machine.DefaultBounds.XHigh, "Workspace X high bound (mm).")
	pf.Float64Var(&rootFlags.yLow, "y-low", machine.DefaultBounds.YLow, "Workspace Y low bound (mm).")
	pf.Float64Var(&rootFlags.yHigh, "y-high", machine.DefaultBounds.YHigh, "Workspace Y high bound (mm).")
	pf.Float64Var(&rootFlags.zLow, "z-low", machine.DefaultBounds.ZLow, "Workspace Z low bound (mm).")
	pf.Float64Var(&rootFlags.zHigh, "z-high", machine.DefaultBounds.ZHigh, "Workspace Z high bound (mm).")
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	switch rootFlags.logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", rootFlags.logLevel)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch rootFlags.logFormat {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", rootFlags.logFormat)
}

// newMachine builds the driver stack from the persistent flags. The caller
// owns closing the returned client.
func newMachine() (*machine.Machine, *grbl.Client, error) {
	log, err := newLogger()
	if err != nil {
		return nil, nil, err
	}

	client := grbl.New(grbl.Config{
		Port:    rootFlags.port,
		Baud:    rootFlags.baud,
		Virtual: rootFlags.virtual,
		Logger:  log,
	})

	table, err := locations.Load(rootFlags.locations, log)
	if err != nil {
		return nil, nil, err
	}

	m, err := machine.New(machine.Config{
		Client: client,
		Bounds: machine.Bounds{
			XLow: rootFlags.xLow, XHigh: rootFlags.xHigh,
			YLow: rootFlags.yLow, YHigh: rootFlags.yHigh,
			ZLow: rootFlags.zLow, ZHigh: rootFlags.zHigh,
		},
		Locations: table,
		Logger:    log,
	})
	if err != nil {
		return nil, nil, err
	}
	return m, client, nil
}
