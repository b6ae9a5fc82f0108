package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var runFlags struct {
	wait bool
}

var runCmd = &cobra.Command{
	Use:   "run <file.gcode>",
	Short: "Stream a G-code file to the controller.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, client, err := newMachine()
		if err != nil {
			return err
		}
		defer client.Close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		acks, err := m.Run(string(data), runFlags.wait)
		if err != nil {
			return err
		}
		fmt.Printf("%d lines acknowledged\n", len(acks))
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runFlags.wait, "wait", true, "Block until the machine reports Idle.")
	rootCmd.AddCommand(runCmd)
}
