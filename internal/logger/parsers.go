package logger

import (
	"strings"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/config"
	"github.com/rs/zerolog"
)

// ParseLevel maps a log_level value to a zerolog level. Blank means the
// configured default. Anything zerolog rejects resolves to info alongside a
// validation error.
func ParseLevel(levelStr string) (zerolog.Level, error) {
	levelStr = strings.ToLower(strings.TrimSpace(levelStr))
	if levelStr == "" {
		levelStr = config.DefaultLogLevel
	}

	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, errorwrapper.NewValidationError("log_level", levelStr, "unknown log level")
	}
	return level, nil
}

// ParseFormat maps a log_format value to a LogFormat, falling back to console.
func ParseFormat(formatStr string) LogFormat {
	if f, ok := formatNames[strings.ToLower(strings.TrimSpace(formatStr))]; ok {
		return f
	}
	return FormatConsole
}
