package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bosley/serclient/config"
	"github.com/bosley/serclient/predict"
	"github.com/bosley/serclient/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Predict every audio file dropped into a directory",
	Long:  `Watch a directory and submit each new supported audio file once it has finished being written. A summary is printed on exit.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Int("workers", 2, "Number of concurrent submissions")
	watchCmd.Flags().Duration("settle", watch.DefaultSettle, "Quiet period before a file is submitted")
	viper.BindPFlag(config.KeyWatchWorkers, watchCmd.Flags().Lookup("workers"))
	viper.BindPFlag(config.KeyWatchSettle, watchCmd.Flags().Lookup("settle"))
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	svc, err := watch.New(watch.Config{
		Dir:     args[0],
		Workers: cfg.WatchWorkers,
		Settle:  cfg.WatchSettle,
	}, newPredictor(cfg))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- svc.Start(ctx)
	}()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s, press Ctrl+C to stop\n", args[0])

	var outcomes []predict.Outcome
	for res := range svc.Results() {
		outcomes = append(outcomes, res.Outcome)
		if res.Outcome.Err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Outcome.Filename, predict.StatusOf(res.Outcome.Err))
			continue
		}
		p := res.Outcome.Predictions
		fmt.Fprintf(cmd.OutOrStdout(), "%s: LSTM %s %s, CNN %s %s\n",
			res.Outcome.Filename,
			p.LSTMPrediction, predict.FormatConfidence(p.LSTMConfidence),
			p.CNNPrediction, predict.FormatConfidence(p.CNNConfidence))
	}

	if err := <-errc; err != nil {
		slog.Error("Watch service failed", "error", err)
		return err
	}

	if len(outcomes) > 0 {
		writeOutcomes(cmd.OutOrStdout(), outcomes...)
	}
	return nil
}
