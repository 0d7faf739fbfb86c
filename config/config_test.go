package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:5000", cfg.ServerURL)
	assert.Equal(t, "/api/predict", cfg.Endpoint)
	assert.Equal(t, 0, cfg.Device)
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, "previews", cfg.PreviewDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "serclient.log", cfg.LogFile)
	assert.Equal(t, 2, cfg.WatchWorkers)
	assert.Equal(t, 500*time.Millisecond, cfg.WatchSettle)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERCLIENT_SERVER_URL", "http://emotion.local:8080")
	t.Setenv("SERCLIENT_LOG_LEVEL", "DEBUG")

	v := newViper()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://emotion.local:8080", cfg.ServerURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromYAML(t *testing.T) {
	v := newViper()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
server_url: https://ser.example.com
preview_dir: ""
watch_workers: 4
watch_settle: 2s
`)))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "https://ser.example.com", cfg.ServerURL)
	assert.Empty(t, cfg.PreviewDir)
	assert.Equal(t, 4, cfg.WatchWorkers)
	assert.Equal(t, 2*time.Second, cfg.WatchSettle)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value any
		field string
	}{
		{KeyServerURL, "not a url", "ServerURL"},
		{KeyServerURL, "", "ServerURL"},
		{KeyEndpoint, "api/predict", "Endpoint"},
		{KeyDevice, -1, "Device"},
		{KeySampleRate, 100, "SampleRate"},
		{KeyLogLevel, "verbose", "LogLevel"},
		{KeyWatchWorkers, 0, "WatchWorkers"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	_, err := InitLogger("warn", &buf)
	require.NoError(t, err)

	slog.Info("hidden")
	slog.Warn("shown", "file", "a.wav")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "a.wav")
}

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := InitLogger("loud", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestOpenLogFile(t *testing.T) {
	path := t.TempDir() + "/serclient.log"
	f, err := OpenLogFile(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString("line\n")
	assert.NoError(t, err)
}
