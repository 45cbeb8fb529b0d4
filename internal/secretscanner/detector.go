package secretscanner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/BishopFox/jsluice"
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/config"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/go-json-experiment/json"
	"github.com/rs/zerolog"
)

const (
	// FindingName is the issue name for regex and jsluice secret matches.
	FindingName = "Secrets / Credentials"
	// HighEntropyFindingName is the issue name for entropy-only matches.
	HighEntropyFindingName = "High Entropy Strings"
	// HighEntropyRuleID tags matches produced by the entropy rule.
	HighEntropyRuleID = "High Entropy String"

	maxSecretDisplayLen = 120
)

// Detector reports secrets found in script bodies.
type Detector struct {
	config  config.SecretsConfig
	logger  zerolog.Logger
	scanner *RegexScanner
}

// NewDetector creates a new Detector. Custom rules are loaded from
// cfg.CustomRulesFile when set.
func NewDetector(cfg config.SecretsConfig, logger zerolog.Logger) (*Detector, error) {
	detectorLogger := logger.With().Str("component", "SecretDetector").Logger()

	var extra []RegexRule
	if cfg.CustomRulesFile != "" {
		rules, err := LoadCustomRules(cfg.CustomRulesFile, detectorLogger)
		if err != nil {
			return nil, err
		}
		extra = rules
	}

	return &Detector{
		config:  cfg,
		logger:  detectorLogger,
		scanner: NewRegexScanner(cfg.EntropyThreshold, extra...),
	}, nil
}

// Name identifies the detector in logs and metrics.
func (d *Detector) Name() string {
	return "secrets"
}

// Detect scans content and folds all matches of one source into at most two findings.
func (d *Detector) Detect(ctx context.Context, source urlhandler.Target, content []byte) ([]models.Finding, error) {
	if !d.config.Enabled || len(content) == 0 {
		return nil, nil
	}

	// Scan only fails once ctx is cancelled.
	matches, err := d.scanner.Scan(ctx, content)
	if err != nil {
		return nil, err
	}

	if d.config.JsluiceSecrets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matches = append(matches, d.jsluiceMatches(content)...)
	}

	if len(matches) == 0 {
		return nil, nil
	}
	d.logger.Debug().Int("count", len(matches)).Str("url", source.String()).Msg("Found secret candidates")

	var secretLines, entropyLines []string
	var secretMarkers, entropyMarkers []models.EvidenceMarker
	severity := models.SeverityMedium
	for _, m := range matches {
		marker, positioned := m.Marker()
		if m.RuleID == HighEntropyRuleID {
			entropyLines = append(entropyLines, fmt.Sprintf("%s (entropy %.2f)", truncate(m.SecretText), m.Entropy))
			if positioned {
				entropyMarkers = append(entropyMarkers, marker)
			}
			continue
		}
		if m.Severity == models.SeverityHigh {
			severity = models.SeverityHigh
		}
		secretLines = append(secretLines, fmt.Sprintf("[%s] %s", m.RuleID, truncate(m.SecretText)))
		if positioned {
			secretMarkers = append(secretMarkers, marker)
		}
	}

	var findings []models.Finding
	if len(secretLines) > 0 {
		findings = append(findings, models.Finding{
			Name:           FindingName,
			Detail:         buildDetail("The following secrets were found:", secretLines),
			EvidenceTarget: source,
			Evidence:       sortMarkers(secretMarkers),
			Severity:       severity,
			Confidence:     models.ConfidenceFirm,
		})
	}
	if len(entropyLines) > 0 {
		findings = append(findings, models.Finding{
			Name:           HighEntropyFindingName,
			Detail:         buildDetail("The following high entropy strings were found:", entropyLines),
			EvidenceTarget: source,
			Evidence:       sortMarkers(entropyMarkers),
			Severity:       models.SeverityLow,
			Confidence:     models.ConfidenceTentative,
		})
	}
	return findings, nil
}

func (d *Detector) jsluiceMatches(content []byte) []models.SecretMatch {
	var matches []models.SecretMatch
	for _, secret := range jsluice.NewAnalyzer(content).GetSecrets() {
		if secret == nil {
			continue
		}
		data, err := json.Marshal(secret.Data, json.Deterministic(true))
		if err != nil {
			d.logger.Debug().Err(err).Str("kind", secret.Kind).Msg("Failed to encode jsluice secret data")
			continue
		}
		matches = append(matches, models.SecretMatch{
			RuleID:     "jsluice " + secret.Kind,
			SecretText: string(data),
			Severity:   jsluiceSeverity(string(secret.Severity)),
		})
	}
	return matches
}

func jsluiceSeverity(s string) models.Severity {
	switch strings.ToLower(s) {
	case "high":
		return models.SeverityHigh
	case "medium":
		return models.SeverityMedium
	case "low":
		return models.SeverityLow
	default:
		return models.SeverityInformation
	}
}

// buildDetail renders sorted unique lines under a header so equal match sets
// always produce equal details.
func buildDetail(header string, lines []string) string {
	sort.Strings(lines)
	var b strings.Builder
	b.WriteString(header)
	prev := ""
	for i, line := range lines {
		if i > 0 && line == prev {
			continue
		}
		prev = line
		b.WriteString("\n- ")
		b.WriteString(line)
	}
	return b.String()
}

func sortMarkers(markers []models.EvidenceMarker) []models.EvidenceMarker {
	sort.Slice(markers, func(i, j int) bool { return markers[i].Start < markers[j].Start })
	return markers
}

// truncate shortens s to at most maxSecretDisplayLen bytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= maxSecretDisplayLen {
		return s
	}
	cut := maxSecretDisplayLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
