package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mastercactapus/grblctl/coord"
	"github.com/mastercactapus/grblctl/machine"
)

var gotoFlags struct {
	x, y, z  float64
	location string
	index    int
	feed     int
	rapid    bool
	direct   bool
	wait     bool
}

var gotoCmd = &cobra.Command{
	Use:   "goto",
	Short: "Move to a coordinate or a named location.",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, client, err := newMachine()
		if err != nil {
			return err
		}
		defer client.Close()

		var moveErr error
		switch {
		case gotoFlags.location != "":
			moveErr = m.MoveToLocation(gotoFlags.location, gotoFlags.index, !gotoFlags.direct, gotoFlags.feed)
		default:
			var target coord.Axes
			if cmd.Flags().Changed("x") {
				target.X = coord.Value(gotoFlags.x)
			}
			if cmd.Flags().Changed("y") {
				target.Y = coord.Value(gotoFlags.y)
			}
			if cmd.Flags().Changed("z") {
				target.Z = coord.Value(gotoFlags.z)
			}
			if target == (coord.Axes{}) {
				return errors.New("nothing to move: set --x/--y/--z or --location")
			}
			if gotoFlags.direct {
				moveErr = m.MoveTo(target, gotoFlags.feed, gotoFlags.rapid)
			} else {
				moveErr = m.MoveToSafe(target.Point(), gotoFlags.feed, gotoFlags.rapid)
			}
		}
		if moveErr != nil {
			return moveErr
		}
		if gotoFlags.wait {
			return m.WaitIdle()
		}
		return nil
	},
}

func init() {
	f := gotoCmd.Flags()
	f.Float64Var(&gotoFlags.x, "x", 0, "Target X (mm).")
	f.Float64Var(&gotoFlags.y, "y", 0, "Target Y (mm).")
	f.Float64Var(&gotoFlags.z, "z", 0, "Target Z (mm).")
	f.StringVar(&gotoFlags.location, "location", "", "Named location from the locations file.")
	f.IntVar(&gotoFlags.index, "index", -1, "Grid slot index within the location.")
	f.IntVar(&gotoFlags.feed, "feed", machine.DefaultFeed, "Feed rate (mm/min).")
	f.BoolVar(&gotoFlags.rapid, "rapid", false, "Use G0 instead of G1.")
	f.BoolVar(&gotoFlags.direct, "direct", false, "Move directly without the Z-safe retract.")
	f.BoolVar(&gotoFlags.wait, "wait", true, "Block until the machine reports Idle.")
	rootCmd.AddCommand(gotoCmd)
}
