package datastore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/go-json-experiment/json"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// IssueStore is the append-only SQLite table of reported findings.
type IssueStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewIssueStore opens (or creates) the database at dataSourceName and ensures the schema.
func NewIssueStore(dataSourceName string, logger zerolog.Logger) (*IssueStore, error) {
	storeLogger := logger.With().Str("component", "IssueStore").Logger()
	storeLogger.Info().Str("db_path", dataSourceName).Msg("Initializing issue store")

	if dataSourceName != MemoryDSN {
		dbDir := filepath.Dir(dataSourceName)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create issue store directory %s: %w", dbDir, err)
		}
	}

	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}
	// One connection: every :memory: connection would otherwise be its own database.
	db.SetMaxOpenConns(1)

	store := &IssueStore{db: db, logger: storeLogger}
	if err := store.InitSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// InitSchema creates the findings table and its indexes if they don't already exist.
func (s *IssueStore) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		detail TEXT NOT NULL,
		finding_key INTEGER NOT NULL,
		evidence_url TEXT NOT NULL,
		severity TEXT NOT NULL,
		confidence TEXT NOT NULL,
		scan_id TEXT,
		evidence TEXT,
		found_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_findings_key ON findings (finding_key);
	CREATE INDEX IF NOT EXISTS idx_findings_evidence_url ON findings (evidence_url);
	`
	if _, err := s.db.Exec(query); err != nil {
		s.logger.Error().Err(err).Msg("Failed to initialize schema")
		return err
	}
	return s.addEvidenceColumn()
}

// addEvidenceColumn upgrades stores created before findings carried evidence markers.
func (s *IssueStore) addEvidenceColumn() error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('findings') WHERE name = 'evidence'`).Scan(&n); err != nil {
		return fmt.Errorf("failed to inspect findings table: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := s.db.Exec(`ALTER TABLE findings ADD COLUMN evidence TEXT`); err != nil {
		return fmt.Errorf("failed to add evidence column: %w", err)
	}
	s.logger.Info().Msg("Added evidence column to findings table")
	return nil
}

// Close closes the database connection.
func (s *IssueStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ReportFinding appends a finding.
func (s *IssueStore) ReportFinding(f models.Finding) error {
	foundAt := f.FoundAt
	if foundAt.IsZero() {
		foundAt = time.Now()
	}

	evidence, err := encodeEvidence(f.Evidence)
	if err != nil {
		return fmt.Errorf("failed to encode evidence of %q: %w", f.Name, err)
	}

	query := `INSERT INTO findings (name, detail, finding_key, evidence_url, severity, confidence, scan_id, evidence, found_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.Exec(query,
		f.Name,
		f.Detail,
		FindingKey(f.Name, f.Detail),
		urlhandler.Canonicalize(f.EvidenceTarget),
		string(f.Severity),
		string(f.Confidence),
		sql.NullString{String: f.ScanID, Valid: f.ScanID != ""},
		evidence,
		foundAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert finding %q: %w", f.Name, err)
	}
	return nil
}

// ExistingFindings returns findings whose canonical evidence URL starts with scopePrefix, oldest first.
func (s *IssueStore) ExistingFindings(scopePrefix string) ([]models.Finding, error) {
	query := `SELECT name, detail, evidence_url, severity, confidence, scan_id, evidence, found_at FROM findings
		WHERE substr(evidence_url, 1, length(?)) = ? ORDER BY id`
	return s.queryFindings(query, scopePrefix, scopePrefix)
}

// HasFinding reports whether a finding with exactly this name and detail exists under scopePrefix.
func (s *IssueStore) HasFinding(scopePrefix, name, detail string) (bool, error) {
	query := `SELECT 1 FROM findings
		WHERE finding_key = ? AND name = ? AND detail = ? AND substr(evidence_url, 1, length(?)) = ?
		LIMIT 1`
	var one int
	err := s.db.QueryRow(query, FindingKey(name, detail), name, detail, scopePrefix, scopePrefix).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up finding %q: %w", name, err)
	}
	return true, nil
}

// AllFindings returns every stored finding, oldest first.
func (s *IssueStore) AllFindings() ([]models.Finding, error) {
	return s.queryFindings(`SELECT name, detail, evidence_url, severity, confidence, scan_id, evidence, found_at FROM findings ORDER BY id`)
}

// Count returns the number of stored findings.
func (s *IssueStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM findings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count findings: %w", err)
	}
	return n, nil
}

func (s *IssueStore) queryFindings(query string, args ...any) ([]models.Finding, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var findings []models.Finding
	for rows.Next() {
		var (
			f           models.Finding
			evidenceURL string
			severity    string
			confidence  string
			scanID      sql.NullString
			evidence    sql.NullString
			foundAt     int64
		)
		if err := rows.Scan(&f.Name, &f.Detail, &evidenceURL, &severity, &confidence, &scanID, &evidence, &foundAt); err != nil {
			return nil, fmt.Errorf("failed to scan finding row: %w", err)
		}

		target, err := urlhandler.Parse(evidenceURL)
		if err != nil {
			s.logger.Warn().Err(err).Str("evidence_url", evidenceURL).Msg("Skipping finding with unparsable evidence URL")
			continue
		}
		f.EvidenceTarget = target
		f.Severity = models.Severity(severity)
		f.Confidence = models.Confidence(confidence)
		f.ScanID = scanID.String
		f.FoundAt = time.UnixMilli(foundAt)
		if evidence.Valid {
			if err := json.Unmarshal([]byte(evidence.String), &f.Evidence); err != nil {
				s.logger.Warn().Err(err).Str("name", f.Name).Msg("Ignoring unreadable evidence markers")
			}
		}
		findings = append(findings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate findings: %w", err)
	}
	return findings, nil
}

func encodeEvidence(markers []models.EvidenceMarker) (sql.NullString, error) {
	if len(markers) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(markers)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
