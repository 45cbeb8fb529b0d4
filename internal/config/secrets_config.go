package config

// SecretsConfig holds the configuration for the secret scanner.
type SecretsConfig struct {
	Enabled          bool    `json:"enabled" yaml:"enabled"`
	EntropyThreshold float64 `json:"entropy_threshold,omitempty" yaml:"entropy_threshold,omitempty" validate:"omitempty,gt=0,lte=8"`
	CustomRulesFile  string  `json:"custom_rules_file,omitempty" yaml:"custom_rules_file,omitempty" validate:"omitempty,fileexists"`
	JsluiceSecrets   bool    `json:"jsluice_secrets" yaml:"jsluice_secrets"`
}

// NewDefaultSecretsConfig creates a new SecretsConfig with default values.
func NewDefaultSecretsConfig() SecretsConfig {
	return SecretsConfig{
		Enabled:          true,
		EntropyThreshold: DefaultSecretsEntropyThreshold,
		JsluiceSecrets:   true,
	}
}
