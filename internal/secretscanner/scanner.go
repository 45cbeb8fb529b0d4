package secretscanner

import (
	"bytes"
	"context"

	"github.com/aleister1102/jsminer/internal/models"
	regexp "github.com/wasilibs/go-re2"
)

var entropyCandidateRegex = regexp.MustCompile(`[A-Za-z0-9+/=_-]{20,}`)

// RegexScanner scans content for secrets using a set of regex rules and an
// optional entropy rule.
type RegexScanner struct {
	rules            []RegexRule
	entropyThreshold float64
}

// NewRegexScanner creates a new scanner with the default rules.
// A threshold <= 0 disables the entropy rule.
func NewRegexScanner(entropyThreshold float64, extraRules ...RegexRule) *RegexScanner {
	rules := make([]RegexRule, 0, len(DefaultRules)+len(extraRules))
	rules = append(rules, DefaultRules...)
	rules = append(rules, extraRules...)
	return &RegexScanner{
		rules:            rules,
		entropyThreshold: entropyThreshold,
	}
}

// Scan applies the rules to content line by line. Lines have no length limit,
// so minified single-line bundles are scanned whole. It stops with ctx.Err()
// as soon as the context is cancelled, returning the matches found so far.
func (s *RegexScanner) Scan(ctx context.Context, content []byte) ([]models.SecretMatch, error) {
	var matches []models.SecretMatch
	seen := make(map[string]bool)

	offset := 0
	for lineNumber := 1; offset < len(content); lineNumber++ {
		if err := ctx.Err(); err != nil {
			return matches, err
		}
		line, _, found := bytes.Cut(content[offset:], []byte{'\n'})
		matches = s.scanLine(string(bytes.TrimSuffix(line, []byte{'\r'})), lineNumber, offset, seen, matches)

		offset += len(line)
		if found {
			offset++
		}
	}
	return matches, nil
}

// scanLine appends the new matches of one line. lineStart is the line's byte
// offset in the scanned content.
func (s *RegexScanner) scanLine(line string, lineNumber, lineStart int, seen map[string]bool, matches []models.SecretMatch) []models.SecretMatch {
	for _, rule := range s.rules {
		for _, loc := range rule.Regex.FindAllStringSubmatchIndex(line, -1) {
			start, end := loc[0], loc[1]
			if len(loc) > 3 && loc[2] >= 0 && loc[3] > loc[2] {
				start, end = loc[2], loc[3]
			}
			secretText := line[start:end]
			if secretText == "" || seen[secretText] {
				continue
			}
			seen[secretText] = true
			matches = append(matches, models.SecretMatch{
				RuleID:     rule.ID,
				SecretText: secretText,
				LineNumber: lineNumber,
				Start:      lineStart + start,
				End:        lineStart + end,
				Severity:   rule.Severity,
			})
		}
	}

	if s.entropyThreshold <= 0 {
		return matches
	}
	for _, loc := range entropyCandidateRegex.FindAllStringIndex(line, -1) {
		candidate := line[loc[0]:loc[1]]
		if seen[candidate] {
			continue
		}
		score := ShannonEntropy(candidate)
		if score < s.entropyThreshold {
			continue
		}
		seen[candidate] = true
		matches = append(matches, models.SecretMatch{
			RuleID:     HighEntropyRuleID,
			SecretText: candidate,
			LineNumber: lineNumber,
			Start:      lineStart + loc[0],
			End:        lineStart + loc[1],
			Severity:   models.SeverityLow,
			Entropy:    score,
		})
	}
	return matches
}
