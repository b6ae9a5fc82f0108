package main

import (
	"github.com/spf13/cobra"

	"github.com/mastercactapus/grblctl/machine"
)

var homeFlags struct {
	noUnlock bool
	noZero   bool
	noPark   bool
	wait     bool
}

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Run the homing cycle and reset safe modes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, client, err := newMachine()
		if err != nil {
			return err
		}
		defer client.Close()

		opts := machine.DefaultHome
		opts.Unlock = !homeFlags.noUnlock
		opts.SetWorkZero = !homeFlags.noZero
		if homeFlags.noPark {
			opts.Park = nil
		}
		if err := m.Home(opts); err != nil {
			return err
		}
		if homeFlags.wait {
			return m.WaitIdle()
		}
		return nil
	},
}

func init() {
	homeCmd.Flags().BoolVar(&homeFlags.noUnlock, "no-unlock", false, "Skip the $X unlock before homing.")
	homeCmd.Flags().BoolVar(&homeFlags.noZero, "no-zero", false, "Do not zero the work origin after homing.")
	homeCmd.Flags().BoolVar(&homeFlags.noPark, "no-park", false, "Do not park after homing.")
	homeCmd.Flags().BoolVar(&homeFlags.wait, "wait", true, "Block until the machine reports Idle.")
	rootCmd.AddCommand(homeCmd)
}
