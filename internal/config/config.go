package config

import (
	"encoding/json"
	"path/filepath"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/common/filemanager"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	ExtractorConfig       ExtractorConfig       `json:"extractor_config,omitempty" yaml:"extractor_config,omitempty"`
	GuardConfig           GuardConfig           `json:"guard_config,omitempty" yaml:"guard_config,omitempty"`
	HTTPClientConfig      HTTPClientConfig      `json:"http_client_config,omitempty" yaml:"http_client_config,omitempty"`
	LogConfig             LogConfig             `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	MetricsConfig         MetricsConfig         `json:"metrics_config,omitempty" yaml:"metrics_config,omitempty"`
	ResourceLimiterConfig ResourceLimiterConfig `json:"resource_limiter_config,omitempty" yaml:"resource_limiter_config,omitempty"`
	ScanConfig            ScanConfig            `json:"scan_config,omitempty" yaml:"scan_config,omitempty"`
	SecretsConfig         SecretsConfig         `json:"secrets_config,omitempty" yaml:"secrets_config,omitempty"`
	StorageConfig         StorageConfig         `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	WorkerPoolConfig      WorkerPoolConfig      `json:"worker_pool_config,omitempty" yaml:"worker_pool_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		ExtractorConfig:       NewDefaultExtractorConfig(),
		GuardConfig:           NewDefaultGuardConfig(),
		HTTPClientConfig:      NewDefaultHTTPClientConfig(),
		LogConfig:             NewDefaultLogConfig(),
		MetricsConfig:         NewDefaultMetricsConfig(),
		ResourceLimiterConfig: NewDefaultResourceLimiterConfig(),
		ScanConfig:            NewDefaultScanConfig(),
		SecretsConfig:         NewDefaultSecretsConfig(),
		StorageConfig:         NewDefaultStorageConfig(),
		WorkerPoolConfig:      NewDefaultWorkerPoolConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath, supports both JSON and YAML formats.
// YAML is preferred if the file extension is .yaml or .yml.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		if providedPath != "" {
			return nil, errorwrapper.NewValidationError("config_file", providedPath, "config file does not exist")
		}
		return cfg, nil
	}

	fileManager := filemanager.NewFileManager(logger)
	data, err := loadConfigFileContent(fileManager, filePath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse config content")
	}

	logger.Debug().Str("path", filePath).Msg("Configuration loaded")
	return cfg, nil
}

// loadConfigFileContent reads the config file using FileManager
func loadConfigFileContent(fileManager *filemanager.FileManager, filePath string) ([]byte, error) {
	opts := filemanager.DefaultFileReadOptions()
	opts.MaxSize = maxConfigFileSize

	return fileManager.ReadFile(filePath, opts)
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if isYAMLFile(ext) {
		return parseYAMLConfig(data, filePath, cfg)
	}
	return parseJSONConfig(data, filePath, cfg)
}

func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

func parseYAMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
	}
	return nil
}

func parseJSONConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
