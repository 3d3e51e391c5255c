package cli

import (
	"fmt"

	"github.com/mobile-next/gesturerec/commands"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List mirrorable devices",
	Long:  `List connected Android and iOS devices. With --all, offline Android emulators are included.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.DevicesCommand(showAllDevices)
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)

	devicesCmd.Flags().BoolVar(&showAllDevices, "all", false, "show all devices including offline ones")
}
