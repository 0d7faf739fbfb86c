package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bosley/serclient/capture"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available audio input devices",
	Args:  cobra.NoArgs,
	RunE:  runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd.ErrOrStderr()); err != nil {
		return err
	}

	devices, err := capture.ListDevices()
	if err != nil {
		return err
	}

	table := newTable(cmd.OutOrStdout(), "ID", "Name", "Max Input Channels", "Default Sample Rate")
	for i, device := range devices {
		if device.MaxInputChannels == 0 {
			continue
		}
		table.Append([]string{
			fmt.Sprintf("%d", i),
			device.Name,
			fmt.Sprintf("%d", device.MaxInputChannels),
			fmt.Sprintf("%.0f", device.DefaultSampleRate),
		})
	}
	table.Render()

	fmt.Fprintln(cmd.OutOrStdout(), "Use --device <ID> to record from a device; 0 uses the system default.")
	return nil
}
