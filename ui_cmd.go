package main

import (
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bosley/serclient/config"
	"github.com/bosley/serclient/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive page",
	Long:  `Choose a file or record from the microphone and see the predicted emotions. Logs go to the log file.`,
	Args:  cobra.NoArgs,
	RunE:  runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	// The page owns the terminal.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		logFile, err := config.OpenLogFile(cfg.LogFile)
		if err != nil {
			return err
		}
		defer logFile.Close()
		out = logFile
	}
	if err := initLogging(cfg, out); err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	predictor := newPredictor(cfg)
	model := tui.New(ctx, tui.Options{
		Controller: newController(cfg),
		Predictor:  predictor,
	})

	slog.Info("Starting interactive page", "server", predictor.URL())

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("interactive page failed: %w", err)
	}

	slog.Debug("Program exiting")
	return nil
}
