package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bosley/serclient/capture"
	"github.com/bosley/serclient/config"
	"github.com/bosley/serclient/predict"
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(playCmd)

	rootCmd.PersistentFlags().String("server-url", "http://127.0.0.1:5000", "Base URL of the prediction service")
	rootCmd.PersistentFlags().String("endpoint", predict.DefaultEndpoint, "Prediction endpoint path")
	rootCmd.PersistentFlags().Int("device", 0, "Audio input device ID to use (0 for default)")
	rootCmd.PersistentFlags().Int("sample-rate", capture.DefaultSampleRate, "Recording sample rate")
	rootCmd.PersistentFlags().String("preview-dir", "previews", "Directory for recording previews (empty to disable)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "serclient.log", "Log file for the interactive UI")

	// Bind flags to viper
	viper.BindPFlag(config.KeyServerURL, rootCmd.PersistentFlags().Lookup("server-url"))
	viper.BindPFlag(config.KeyEndpoint, rootCmd.PersistentFlags().Lookup("endpoint"))
	viper.BindPFlag(config.KeyDevice, rootCmd.PersistentFlags().Lookup("device"))
	viper.BindPFlag(config.KeySampleRate, rootCmd.PersistentFlags().Lookup("sample-rate"))
	viper.BindPFlag(config.KeyPreviewDir, rootCmd.PersistentFlags().Lookup("preview-dir"))
	viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag(config.KeyLogFile, rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error reading .env file: %s\n", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "serclient",
	Short: "Speech emotion recognition client",
	Long: `serclient sends speech recordings to a speech emotion recognition service
and shows the emotion predicted by its LSTM and CNN models.

Run without a command to open the interactive page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runUI,
}

// loadConfig resolves the configuration and points slog at w.
func loadConfig(w io.Writer) (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, err
	}
	if err := initLogging(cfg, w); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func initLogging(cfg config.Config, w io.Writer) error {
	if _, err := config.InitLogger(cfg.LogLevel, w); err != nil {
		return err
	}
	slog.Debug("Configuration loaded",
		"serverURL", cfg.ServerURL,
		"endpoint", cfg.Endpoint,
		"device", cfg.Device,
		"configFile", viper.ConfigFileUsed())
	return nil
}

func newPredictor(cfg config.Config) *predict.Client {
	return predict.NewClient(cfg.ServerURL, cfg.Endpoint)
}

func newController(cfg config.Config) *capture.Controller {
	mic := &capture.Microphone{
		DeviceID:   cfg.Device,
		SampleRate: float64(cfg.SampleRate),
	}

	var previews *capture.Previews
	if cfg.PreviewDir != "" {
		previews = capture.NewPreviews(cfg.PreviewDir)
	}
	return capture.NewController(mic, previews)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, predict.StatusOf(err))
		os.Exit(1)
	}
}
