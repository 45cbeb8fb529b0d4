package issues

import (
	"sync"
	"time"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/rs/zerolog"
)

// Outcome is the result of a single Report call.
type Outcome int

const (
	Reported Outcome = iota
	DuplicateSuppressed
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Reported:
		return "reported"
	case DuplicateSuppressed:
		return "duplicate_suppressed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Store is the part of the host platform the reporter needs.
// ExistingFindings returns findings whose canonical evidence URL starts with scopePrefix.
type Store interface {
	ExistingFindings(scopePrefix string) ([]models.Finding, error)
	ReportFinding(finding models.Finding) error
}

// ExactMatcher is implemented by stores that can answer the duplicate check
// without returning every finding under the prefix.
type ExactMatcher interface {
	HasFinding(scopePrefix, name, detail string) (bool, error)
}

// OutcomeObserver is notified after every Report call.
type OutcomeObserver interface {
	OnReportOutcome(finding models.Finding, outcome Outcome)
}

// Reporter appends findings to the store unless an identical one already
// exists under the same scope prefix.
type Reporter struct {
	// mu covers the whole check-then-append sequence of every Report call
	mu       sync.Mutex
	store    Store
	logger   zerolog.Logger
	observer OutcomeObserver
	now      func() time.Time
}

// NewReporter creates a new Reporter.
func NewReporter(store Store, logger zerolog.Logger) *Reporter {
	return &Reporter{
		store:  store,
		logger: logger.With().Str("component", "IssueReporter").Logger(),
		now:    time.Now,
	}
}

// SetObserver registers an observer for report outcomes.
func (r *Reporter) SetObserver(observer OutcomeObserver) {
	r.observer = observer
}

// Report stores finding unless a finding with the same name and detail exists
// under the scope prefix of scope. Duplicates are not errors.
func (r *Reporter) Report(finding models.Finding, scope urlhandler.Target) (Outcome, error) {
	prefix := urlhandler.Prefix(scope)
	if finding.FoundAt.IsZero() {
		finding.FoundAt = r.now()
	}

	outcome, err := r.checkAndAppend(finding, prefix)

	if r.observer != nil {
		r.observer.OnReportOutcome(finding, outcome)
	}

	switch outcome {
	case Reported:
		r.logger.Info().Str("name", finding.Name).Str("url", finding.EvidenceTarget.String()).Msg("Issue reported")
	case DuplicateSuppressed:
		r.logger.Debug().Str("name", finding.Name).Str("prefix", prefix).Msg("Duplicate issue suppressed")
	case Failed:
		r.logger.Error().Err(err).Str("name", finding.Name).Str("prefix", prefix).Msg("Failed to report issue")
	}
	return outcome, err
}

func (r *Reporter) checkAndAppend(finding models.Finding, prefix string) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	duplicate, err := r.isDuplicate(finding, prefix)
	if err != nil {
		return Failed, errorwrapper.WrapError(err, "failed to load existing findings for "+prefix)
	}
	if duplicate {
		return DuplicateSuppressed, nil
	}

	if err := r.store.ReportFinding(finding); err != nil {
		return Failed, errorwrapper.WrapError(err, "failed to store finding")
	}
	return Reported, nil
}

func (r *Reporter) isDuplicate(finding models.Finding, prefix string) (bool, error) {
	if matcher, ok := r.store.(ExactMatcher); ok {
		return matcher.HasFinding(prefix, finding.Name, finding.Detail)
	}

	existing, err := r.store.ExistingFindings(prefix)
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if e.SameIssue(finding) {
			return true, nil
		}
	}
	return false, nil
}

// Summary counts outcomes of a batch.
type Summary struct {
	Reported            int
	DuplicateSuppressed int
	Failed              int
}

// ReportAll reports each finding under scope and tallies the outcomes.
// The first store error is returned after the whole batch was attempted.
func (r *Reporter) ReportAll(findings []models.Finding, scope urlhandler.Target) (Summary, error) {
	var summary Summary
	var firstErr error

	for _, f := range findings {
		outcome, err := r.Report(f, scope)
		switch outcome {
		case Reported:
			summary.Reported++
		case DuplicateSuppressed:
			summary.DuplicateSuppressed++
		case Failed:
			summary.Failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return summary, firstErr
}
