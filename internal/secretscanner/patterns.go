package secretscanner

import (
	"fmt"
	"os"

	"github.com/aleister1102/jsminer/internal/models"
	"github.com/rs/zerolog"
	regexp "github.com/wasilibs/go-re2"
	"gopkg.in/yaml.v3"
)

// RegexRule defines a rule for detecting secrets.
type RegexRule struct {
	ID          string          `yaml:"rule_id"`
	Description string          `yaml:"description"`
	Pattern     string          `yaml:"pattern"`
	Severity    models.Severity `yaml:"severity"`
	Regex       *regexp.Regexp  `yaml:"-"`
}

func mustRule(id string, severity models.Severity, pattern string) RegexRule {
	return RegexRule{
		ID:          id,
		Description: id,
		Pattern:     pattern,
		Severity:    severity,
		Regex:       regexp.MustCompile(pattern),
	}
}

// DefaultRules is a list of default regex patterns for secret detection.
// When a pattern has a capture group the first group is the secret.
var DefaultRules = []RegexRule{
	mustRule("AWS Access Key ID", models.SeverityHigh, `\b((?:A3T[A-Z0-9]|AKIA|AGPA|AROA|ASCA|ASIA)[A-Z0-9]{16})\b`),
	// Only inside an assignment, a bare 40 char base64 run is too common.
	mustRule("AWS Secret Access Key", models.SeverityHigh, `(?i)(?:aws_secret_access_key|aws_secret_key)\s*[:=]\s*['"]([A-Za-z0-9/+=]{40})['"]`),
	mustRule("GitHub Personal Access Token", models.SeverityHigh, `\b(ghp_[A-Za-z0-9]{36})\b`),
	mustRule("Generic API Key", models.SeverityMedium, `\b(sk-[a-zA-Z0-9]{32,50})\b`),
	mustRule("Google API Key", models.SeverityMedium, `\b(AIza[0-9A-Za-z\-_]{35})\b`),
	mustRule("JWT Token", models.SeverityMedium, `\b(eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_/+=]*)`),
	mustRule("Slack Bot Token", models.SeverityHigh, `(xoxb-[0-9a-zA-Z]{10,48})`),
	mustRule("Slack Webhook", models.SeverityHigh, `(https://hooks\.slack\.com/services/T[a-zA-Z0-9]{8}/B[a-zA-Z0-9]{8}/[a-zA-Z0-9]{24})`),
	mustRule("Private Key", models.SeverityHigh, `(-----BEGIN(?: [A-Z]+)? PRIVATE KEY-----)`),
	mustRule("Basic Auth Credentials", models.SeverityMedium, `(?i)https?://([a-z0-9._%-]+:[^@\s'"/]+)@`),
}

// LoadCustomRules reads additional rules from a YAML file.
// Rules that are empty or fail to compile are logged and skipped.
func LoadCustomRules(filePath string, logger zerolog.Logger) ([]RegexRule, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read custom rules file %s: %w", filePath, err)
	}

	var rules []RegexRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal custom rules file %s as YAML: %w", filePath, err)
	}

	valid := make([]RegexRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Pattern == "" {
			logger.Warn().Str("rule_id", rule.ID).Msg("Custom rule has empty pattern, skipping")
			continue
		}
		compiled, err := regexp.Compile(rule.Pattern)
		if err != nil {
			logger.Error().Err(err).Str("rule_id", rule.ID).Str("pattern", rule.Pattern).Msg("Failed to compile custom rule, skipping")
			continue
		}
		rule.Regex = compiled
		if rule.Description == "" {
			rule.Description = rule.ID
		}
		if rule.Severity == "" {
			rule.Severity = models.SeverityMedium
		}
		valid = append(valid, rule)
	}

	logger.Debug().Int("loaded_count", len(valid)).Str("file", filePath).Msg("Loaded custom secret rules")
	return valid, nil
}
