package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bosley/serclient/capture"
	"github.com/bosley/serclient/predict"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record from the microphone and predict the emotion",
	Args:  cobra.NoArgs,
	RunE:  runRecord,
}

func init() {
	recordCmd.Flags().Duration("duration", 5*time.Second, "How long to record")
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	duration, err := cmd.Flags().GetDuration("duration")
	if err != nil {
		return err
	}
	if duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	controller := newController(cfg)
	if err := controller.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Recording for %s...\n", duration)

	rec, err := collectRecording(controller, time.After(duration), ctx.Done())
	if err != nil {
		return err
	}

	if rec.Preview != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Preview: %s\n", capture.PreviewURL(rec.Preview))
	}

	fmt.Fprintln(cmd.ErrOrStderr(), predict.BusyText)
	outcome := predict.Run(ctx, newPredictor(cfg), predict.NewSubmission(rec.Blob))
	if outcome.Err != nil {
		return outcome.Err
	}

	writeOutcomes(cmd.OutOrStdout(), outcome)
	return nil
}

// collectRecording pumps the controller's events until the recording is
// finalized. It stops the recorder when stop fires; an interrupt stops it
// and gives up.
func collectRecording(c *capture.Controller, stop <-chan time.Time, interrupt <-chan struct{}) (*capture.Recording, error) {
	for {
		select {
		case <-stop:
			c.Stop()
			stop = nil

		case <-interrupt:
			c.Stop()
			return nil, fmt.Errorf("recording interrupted")

		case ev := <-c.Events():
			rec, err := c.Handle(ev)
			if err != nil {
				return nil, err
			}
			if rec != nil {
				return rec, nil
			}
		}
	}
}
