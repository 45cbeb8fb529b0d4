package config

import "time"

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Guard Defaults
	DefaultGuardGraceMillis = 1000
	DefaultGuardTierSeconds = 60
	DefaultGuardTierCount   = 3

	// Worker Pool Defaults
	DefaultWorkerPoolWorkers   = 10
	DefaultWorkerPoolQueueSize = 100

	// HTTP Client Defaults
	DefaultHTTPUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultHTTPTimeoutSecs      = 20
	DefaultHTTPMaxRetries       = 2
	DefaultHTTPRequestsPerSec   = 5.0
	DefaultHTTPBurst            = 5
	DefaultHTTPMaxContentSizeMB = 20

	// Scan Defaults
	DefaultSecretsEntropyThreshold = 4.5
	DefaultScanSourceMapOutDir     = ""

	// Storage Defaults
	DefaultStorageSQLitePath       = "database/jsminer.db"
	DefaultStorageParquetExport    = ""
	DefaultStorageCompressionCodec = "zstd"

	// Resource Limiter Defaults
	DefaultResourceMaxMemoryMB       = 1024
	DefaultResourceCheckIntervalSecs = 15

	// Metrics Defaults
	DefaultMetricsPath = "/metrics"

	// Environment variable consulted for the config file location
	ConfigPathEnvVar = "JSMINER_CONFIG_PATH"

	maxConfigFileSize = 10 * 1024 * 1024
)

// DefaultGuardTiers returns the default escalation ladder after the grace period.
func DefaultGuardTiers() []time.Duration {
	tiers := make([]time.Duration, DefaultGuardTierCount)
	for i := range tiers {
		tiers[i] = DefaultGuardTierSeconds * time.Second
	}
	return tiers
}
