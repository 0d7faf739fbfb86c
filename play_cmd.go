package main

import (
	"github.com/spf13/cobra"

	"github.com/bosley/serclient/capture"
)

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Play a WAV recording preview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd.ErrOrStderr()); err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		return capture.PlayPreview(ctx, args[0])
	},
}
