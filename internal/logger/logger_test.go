package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/jsminer/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultLogger(t *testing.T) {
	_, err := New(config.NewDefaultLogConfig())
	require.NoError(t, err)
}

func TestConfigConverter_ConvertConfig(t *testing.T) {
	cc := NewConfigConverter()

	got := cc.ConvertConfig(config.LogConfig{LogLevel: "DEBUG", LogFormat: "json"})
	assert.Equal(t, zerolog.DebugLevel, got.Level)
	assert.Equal(t, FormatJSON, got.Format)
	assert.False(t, got.EnableFile)
	assert.Equal(t, config.DefaultMaxLogSizeMB, got.MaxSizeMB)

	got = cc.ConvertConfig(config.LogConfig{LogLevel: "nonsense", LogFormat: "xml", LogFile: "x.log"})
	assert.Equal(t, zerolog.InfoLevel, got.Level)
	assert.Equal(t, FormatConsole, got.Format)
	assert.True(t, got.EnableFile)
}

func TestDefaultLoggerConfig_UsesShippedDefaults(t *testing.T) {
	got := DefaultLoggerConfig()
	assert.Equal(t, zerolog.InfoLevel, got.Level)
	assert.Equal(t, FormatConsole, got.Format)
	assert.Equal(t, config.DefaultMaxLogSizeMB, got.MaxSizeMB)
	assert.Equal(t, config.DefaultMaxLogBackups, got.MaxBackups)
	assert.True(t, got.EnableConsole)
	assert.False(t, got.EnableFile)
}

func TestConfigConverter_KeepsExplicitRotation(t *testing.T) {
	got := NewConfigConverter().ConvertConfig(config.LogConfig{MaxLogSizeMB: 7, MaxLogBackups: 1})
	assert.Equal(t, 7, got.MaxSizeMB)
	assert.Equal(t, 1, got.MaxBackups)

	got = NewConfigConverter().ConvertConfig(config.LogConfig{MaxLogSizeMB: -1})
	assert.Equal(t, config.DefaultMaxLogSizeMB, got.MaxSizeMB)
	assert.Equal(t, config.DefaultMaxLogBackups, got.MaxBackups)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{in: "", want: zerolog.InfoLevel},
		{in: "  Warn ", want: zerolog.WarnLevel},
		{in: "debug", want: zerolog.DebugLevel},
		{in: "loud", want: zerolog.InfoLevel, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat(" text"))
	assert.Equal(t, FormatConsole, ParseFormat("xml"))
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "console", LogFormat(42).String())
}

func TestLoggerBuilder_JSONConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLoggerBuilder().
		WithConfig(config.LogConfig{LogLevel: "warn", LogFormat: "json"}).
		WithConsoleOutput(&buf).
		Build()
	require.NoError(t, err)

	zl := l.GetZerolog()
	zl.Info().Msg("dropped")
	zl.Warn().Str("component", "Test").Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"component":"Test"`)
	assert.Contains(t, buf.String(), `"message":"kept"`)
}

func TestLoggerBuilder_FileOutput(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "jsminer.log")

	l, err := NewLoggerBuilder().
		WithConfig(config.LogConfig{LogFile: logFile, LogFormat: "json"}).
		WithConsoleOutput(&bytes.Buffer{}).
		Build()
	require.NoError(t, err)
	assert.Equal(t, logFile, l.Config().FilePath)

	l.GetZerolog().Info().Msg("hello")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
