package logger

import (
	"github.com/aleister1102/jsminer/internal/config"
)

// ConfigConverter resolves config.LogConfig into a LoggerConfig, filling
// unset rotation limits from jsminer's shipped defaults.
type ConfigConverter struct {
	defaults config.LogConfig
}

func NewConfigConverter() *ConfigConverter {
	return &ConfigConverter{defaults: config.LogConfig{
		MaxLogSizeMB:  config.DefaultMaxLogSizeMB,
		MaxLogBackups: config.DefaultMaxLogBackups,
	}}
}

// ConvertConfig never fails: an unknown level resolves to info, an unknown
// format to console.
func (cc *ConfigConverter) ConvertConfig(cfg config.LogConfig) LoggerConfig {
	level, _ := ParseLevel(cfg.LogLevel)

	return LoggerConfig{
		Level:         level,
		Format:        ParseFormat(cfg.LogFormat),
		EnableConsole: true,
		EnableFile:    cfg.LogFile != "",
		FilePath:      cfg.LogFile,
		MaxSizeMB:     positiveOr(cfg.MaxLogSizeMB, cc.defaults.MaxLogSizeMB),
		MaxBackups:    positiveOr(cfg.MaxLogBackups, cc.defaults.MaxLogBackups),
	}
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
