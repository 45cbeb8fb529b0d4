package models

// SecretMatch is a single secret located in a script body.
// Several matches from one source are folded into one Finding.
type SecretMatch struct {
	RuleID     string
	SecretText string
	// LineNumber is 1-based; 0 when the match has no position (jsluice secrets).
	LineNumber int
	// Start and End delimit SecretText as a byte range of the scanned content.
	Start    int
	End      int
	Severity Severity
	Entropy  float64
}

// Marker returns the evidence marker of a positioned match.
func (m SecretMatch) Marker() (EvidenceMarker, bool) {
	if m.LineNumber == 0 {
		return EvidenceMarker{}, false
	}
	return EvidenceMarker{Line: m.LineNumber, Start: m.Start, End: m.End}, true
}
