package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/sonisync/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOptions(t *testing.T) {
	var got []string
	cc := struct{ ID string }{"controls"}

	opts, err := config.DecodeOptions(map[string]any{
		"cc":            cc,
		"errorCallback": func(msg string) { got = append(got, msg) },
		"lang":          "de",
		"axes": map[string]any{
			"x": map[string]any{"label": "Month"},
			"y": map[string]any{"minimum": 0, "maximum": "250", "valueLabels": []string{"lo", "hi"}},
		},
		"unknown": true,
	})
	require.NoError(t, err)

	assert.Equal(t, cc, opts.CC)
	assert.Nil(t, opts.AudioEngine)
	assert.Equal(t, "de", opts.Lang)

	require.NotNil(t, opts.Axes.X)
	require.NotNil(t, opts.Axes.X.Label)
	assert.Equal(t, "Month", *opts.Axes.X.Label)
	assert.Nil(t, opts.Axes.X.Minimum)

	require.NotNil(t, opts.Axes.Y)
	assert.Equal(t, 0.0, *opts.Axes.Y.Minimum)
	assert.Equal(t, 250.0, *opts.Axes.Y.Maximum, "weakly typed input accepts numeric strings")
	assert.Equal(t, []string{"lo", "hi"}, opts.Axes.Y.ValueLabels)

	opts.ReportError("boom")
	assert.Equal(t, []string{"boom"}, got)
}

func TestDecodeOptions_Defaults(t *testing.T) {
	opts, err := config.DecodeOptions(nil)
	require.NoError(t, err)
	assert.Nil(t, opts.Axes.X)
	opts.ReportError("ignored without a callback")
}

func TestDecodeOptions_Invalid(t *testing.T) {
	_, err := config.DecodeOptions(map[string]any{"axes": "not a map"})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Run("Missing File", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.DefaultService(), cfg)
	})

	t.Run("Overrides Defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sonisync.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9090"
log_level: debug
append: true
redis:
  addr: "localhost:6379"
  ttl: 10m
  mask_labels: ["(?i)patient"]
`), 0o644))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, "/metrics", cfg.MetricsPath)
		assert.True(t, cfg.Append)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.Equal(t, "sonisync:", cfg.Redis.Prefix)
		assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
		assert.Equal(t, []string{"(?i)patient"}, cfg.Redis.MaskLabels)
		assert.Equal(t, slog.LevelDebug, cfg.Level())
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("addr: [unterminated"), 0o644))
		_, err := config.Load(path)
		assert.Error(t, err)
	})
}
