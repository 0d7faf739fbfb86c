package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const EnvPrefix = "SERCLIENT"

// Viper keys
const (
	KeyServerURL    = "server_url"
	KeyEndpoint     = "endpoint"
	KeyDevice       = "device"
	KeySampleRate   = "sample_rate"
	KeyPreviewDir   = "preview_dir"
	KeyLogLevel     = "log_level"
	KeyLogFile      = "log_file"
	KeyWatchWorkers = "watch_workers"
	KeyWatchSettle  = "watch_settle"
)

// Config is the resolved client configuration.
type Config struct {
	// Base URL of the prediction service
	ServerURL string `mapstructure:"server_url" validate:"required,url"`
	Endpoint  string `mapstructure:"endpoint" validate:"required,startswith=/"`

	// Input device index, 0 for the system default
	Device     int `mapstructure:"device" validate:"gte=0"`
	SampleRate int `mapstructure:"sample_rate" validate:"gte=8000,lte=192000"`

	// Directory for playable copies of recordings; empty disables them
	PreviewDir string `mapstructure:"preview_dir"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFile  string `mapstructure:"log_file"`

	WatchWorkers int           `mapstructure:"watch_workers" validate:"gte=1,lte=32"`
	WatchSettle  time.Duration `mapstructure:"watch_settle" validate:"gte=0"`
}

var validate = validator.New()

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerURL, "http://127.0.0.1:5000")
	v.SetDefault(KeyEndpoint, "/api/predict")
	v.SetDefault(KeyDevice, 0)
	v.SetDefault(KeySampleRate, 44100)
	v.SetDefault(KeyPreviewDir, "previews")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "serclient.log")
	v.SetDefault(KeyWatchWorkers, 2)
	v.SetDefault(KeyWatchSettle, "500ms")
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return Config{}, fmt.Errorf("invalid config: %s", strings.Join(FormatValidationErrors(verrs), "; "))
		}
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// FormatValidationErrors turns validator errors into one line per field.
func FormatValidationErrors(verrs validator.ValidationErrors) []string {
	var messages []string
	for _, err := range verrs {
		msg := fmt.Sprintf("field '%s' failed on the '%s' tag", err.Field(), err.Tag())
		if err.Param() != "" {
			msg = fmt.Sprintf("%s (%s)", msg, err.Param())
		}
		messages = append(messages, msg)
	}
	return messages
}
