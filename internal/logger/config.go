package logger

import (
	"github.com/aleister1102/jsminer/internal/config"
	"github.com/rs/zerolog"
)

// LoggerConfig is the resolved form of config.LogConfig that the builder consumes.
type LoggerConfig struct {
	Level         zerolog.Level
	Format        LogFormat
	EnableConsole bool
	EnableFile    bool
	FilePath      string
	MaxSizeMB     int
	MaxBackups    int
}

// LogFormat selects the console writer. The zero value is console output,
// which is also what jsminer falls back to for unknown names.
type LogFormat int

const (
	FormatConsole LogFormat = iota
	FormatJSON
	FormatText
)

var formatNames = map[string]LogFormat{
	"console": FormatConsole,
	"json":    FormatJSON,
	"text":    FormatText,
}

func (lf LogFormat) String() string {
	for name, f := range formatNames {
		if f == lf {
			return name
		}
	}
	return "console"
}

// DefaultLoggerConfig resolves the shipped log defaults, so a builder that
// never sees WithConfig rotates files the same way a default config file would.
func DefaultLoggerConfig() LoggerConfig {
	return NewConfigConverter().ConvertConfig(config.NewDefaultLogConfig())
}
