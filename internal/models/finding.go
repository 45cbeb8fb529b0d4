package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/aleister1102/jsminer/internal/common/urlhandler"
)

// Severity mirrors the severities a scan host displays.
type Severity string

const (
	SeverityHigh        Severity = "High"
	SeverityMedium      Severity = "Medium"
	SeverityLow         Severity = "Low"
	SeverityInformation Severity = "Information"
)

// Confidence expresses how certain a detector is about a finding.
type Confidence string

const (
	ConfidenceCertain   Confidence = "Certain"
	ConfidenceFirm      Confidence = "Firm"
	ConfidenceTentative Confidence = "Tentative"
)

// EvidenceMarker locates a match inside the scanned content: its 1-based line
// and the byte range [Start, End) within the whole content.
type EvidenceMarker struct {
	Line  int `json:"line"`
	Start int `json:"start"`
	End   int `json:"end"`
}

func (m EvidenceMarker) String() string {
	return "line " + strconv.Itoa(m.Line) + " [" + strconv.Itoa(m.Start) + ":" + strconv.Itoa(m.End) + "]"
}

// FormatMarkers renders markers as a comma separated list.
func FormatMarkers(markers []EvidenceMarker) string {
	parts := make([]string, len(markers))
	for i, m := range markers {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}

// Finding is a detector result. Two findings are duplicates when Name and Detail
// are exactly equal under the same scope prefix.
type Finding struct {
	Name           string
	Detail         string
	EvidenceTarget urlhandler.Target
	// Evidence locates the matches in the scanned content. It is not part of
	// the duplicate identity, so moved evidence does not raise a new finding.
	Evidence   []EvidenceMarker
	Severity   Severity
	Confidence Confidence
	ScanID     string
	FoundAt    time.Time
}

// SameIssue reports whether f and other carry identical name and detail.
func (f Finding) SameIssue(other Finding) bool {
	return f.Name == other.Name && f.Detail == other.Detail
}

// FindingRecord is the flattened form of a Finding used for Parquet export.
type FindingRecord struct {
	Name        string    `parquet:"name"`
	Detail      string    `parquet:"detail"`
	EvidenceURL string    `parquet:"evidence_url"`
	Severity    string    `parquet:"severity"`
	Confidence  string    `parquet:"confidence"`
	ScanID      string    `parquet:"scan_id,optional"`
	Evidence    string    `parquet:"evidence,optional"`
	FoundAt     time.Time `parquet:"found_at"`
}

// ToRecord flattens the finding for export.
func (f Finding) ToRecord() FindingRecord {
	return FindingRecord{
		Name:        f.Name,
		Detail:      f.Detail,
		EvidenceURL: urlhandler.Canonicalize(f.EvidenceTarget),
		Severity:    string(f.Severity),
		Confidence:  string(f.Confidence),
		ScanID:      f.ScanID,
		Evidence:    FormatMarkers(f.Evidence),
		FoundAt:     f.FoundAt,
	}
}
