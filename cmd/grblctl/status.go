package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query and print the controller status.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := newMachine()
		if err != nil {
			return err
		}
		defer client.Close()

		st, err := client.QueryStatus()
		if err != nil {
			return err
		}
		if st.Raw == "" {
			return errors.New("no status reply from controller")
		}
		fmt.Printf("%s X%.3f Y%.3f Z%.3f\n", st.State, st.MPos.X, st.MPos.Y, st.MPos.Z)
		if st.Alarm() {
			fmt.Println("machine is alarmed; `grblctl home` will unlock and re-home")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
