package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bosley/serclient/audio"
	"github.com/bosley/serclient/predict"
)

var predictCmd = &cobra.Command{
	Use:   "predict [file]",
	Short: "Predict the emotion in an audio file",
	Long:  `Upload an audio file and print both models' predictions. Without a file argument you are asked for a path.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPredict,
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		path, err = askForFile()
		if err != nil {
			return err
		}
	}

	blob, err := audio.ReadFile(path)
	if err != nil {
		return err
	}
	if !audio.Supported(path) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s is not one of %s\n", blob.Filename(), strings.Join(audio.Extensions, " "))
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	fmt.Fprintln(cmd.ErrOrStderr(), predict.BusyText)
	outcome := predict.Run(ctx, newPredictor(cfg), predict.NewSubmission(blob))
	if outcome.Err != nil {
		return outcome.Err
	}

	writeOutcomes(cmd.OutOrStdout(), outcome)
	return nil
}

func askForFile() (string, error) {
	var path string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Audio file").
				Description("Path to a " + strings.Join(audio.Extensions, " ") + " file").
				Placeholder("speech.wav").
				Value(&path).
				Validate(func(s string) error {
					info, err := os.Stat(strings.TrimSpace(s))
					if err != nil {
						return errors.New("file not found")
					}
					if info.IsDir() {
						return errors.New("path is a directory")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("file prompt failed: %w", err)
	}
	return strings.TrimSpace(path), nil
}
