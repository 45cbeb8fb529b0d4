package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/common/filemanager"
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/guard"
	"github.com/aleister1102/jsminer/internal/httpclient"
	"github.com/aleister1102/jsminer/internal/issues"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/aleister1102/jsminer/internal/platform"
	"github.com/rs/zerolog"
)

// minSourceMapCandidates is the smallest candidate count that gets source-map
// tasks. A lone candidate is not dispatched.
const minSourceMapCandidates = 2

// Detector inspects one piece of content and returns findings for it.
// Implementations should check ctx between units of work.
type Detector interface {
	Name() string
	Detect(ctx context.Context, source urlhandler.Target, content []byte) ([]models.Finding, error)
}

// Fetcher retrieves a candidate resource.
type Fetcher interface {
	Fetch(ctx context.Context, target urlhandler.Target) (*httpclient.FetchResult, error)
}

// IssueReporter stores findings without duplicates.
type IssueReporter interface {
	Report(finding models.Finding, scope urlhandler.Target) (issues.Outcome, error)
	ReportAll(findings []models.Finding, scope urlhandler.Target) (issues.Summary, error)
}

// Observer receives scan events, typically for metrics.
type Observer interface {
	TaskDispatched(kind string)
	ObserveGuardRun(detector string, outcome guard.Outcome, elapsed time.Duration)
	SourceMapFetched(result string)
}

type nopObserver struct{}

func (nopObserver) TaskDispatched(string) {}
func (nopObserver) ObserveGuardRun(string, guard.Outcome, time.Duration) {}
func (nopObserver) SourceMapFetched(string) {}

// Dependencies are the collaborators of an Orchestrator. Client, Reporter and
// Runner are required.
type Dependencies struct {
	Client    platform.Client
	Reporter  IssueReporter
	Runner    *guard.Runner
	Fetcher   Fetcher
	Detectors []Detector
	Observer  Observer
	// OutputDir receives reconstructed source files. Empty disables writing.
	OutputDir string
}

// Orchestrator derives candidates from observed traffic and dispatches
// analysis tasks onto the host's pool.
type Orchestrator struct {
	client      platform.Client
	reporter    IssueReporter
	runner      *guard.Runner
	fetcher     Fetcher
	detectors   []Detector
	observer    Observer
	fileManager *filemanager.FileManager
	outputDir   string
	logger      zerolog.Logger
	now         func() time.Time
}

// New creates an Orchestrator.
func New(deps Dependencies, logger zerolog.Logger) (*Orchestrator, error) {
	if deps.Client == nil {
		return nil, errorwrapper.NewValidationError("client", nil, "platform client is required")
	}
	if deps.Reporter == nil {
		return nil, errorwrapper.NewValidationError("reporter", nil, "issue reporter is required")
	}
	if deps.Runner == nil {
		return nil, errorwrapper.NewValidationError("runner", nil, "guard runner is required")
	}

	observer := deps.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	return &Orchestrator{
		client:      deps.Client,
		reporter:    deps.Reporter,
		runner:      deps.Runner,
		fetcher:     deps.Fetcher,
		detectors:   deps.Detectors,
		observer:    observer,
		fileManager: filemanager.NewFileManager(logger),
		outputDir:   deps.OutputDir,
		logger:      logger.With().Str("component", "ScanOrchestrator").Logger(),
		now:         time.Now,
	}, nil
}

// StartScan resolves the base record's target, derives candidates from the
// site's observed traffic and queues the enabled task families. It returns
// once everything is queued and never waits for task completion.
func (o *Orchestrator) StartScan(base models.TrafficRecord, sourceMapEnabled, interestingStuffEnabled bool) (*Scan, error) {
	target, err := o.client.ParseURL(urlhandler.Canonicalize(base.Target))
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to resolve scan target")
	}

	scan := &Scan{
		Request:    models.NewScanRequest(target, sourceMapEnabled, interestingStuffEnabled, o.now()),
		Candidates: NewCandidateSet(),
		state:      StateCreated,
	}
	scanLogger := o.logger.With().Str("scan_id", scan.Request.ID).Str("target", target.String()).Logger()

	o.transition(scan, StateDerivingCandidates, scanLogger)

	site := urlhandler.Canonicalize(target)
	snapshot, err := o.client.TrafficForSite(site)
	if err != nil {
		return scan, errorwrapper.WrapError(err, "failed to load traffic for "+site)
	}
	scan.SnapshotSize = len(snapshot)

	if sourceMapEnabled {
		o.deriveSourceMapCandidates(snapshot, scan.Candidates, scanLogger)
	}

	o.transition(scan, StateDispatching, scanLogger)

	if sourceMapEnabled {
		if scan.Candidates.Len() >= minSourceMapCandidates {
			for _, candidate := range scan.Candidates.Targets() {
				o.submit(scan, TaskKindSourceMap, o.sourceMapTask(scan.Request, candidate))
			}
		} else {
			scanLogger.Debug().Int("candidates", scan.Candidates.Len()).Msg("Not enough source map candidates, skipping source map tasks")
		}
	}

	if interestingStuffEnabled {
		o.submit(scan, TaskKindInterestingStuff, o.interestingStuffTask(scan.Request, snapshot))
	}

	o.transition(scan, StateDispatched, scanLogger)
	scanLogger.Info().
		Int("records", scan.SnapshotSize).
		Int("candidates", scan.Candidates.Len()).
		Int("tasks", scan.SubmittedTasks).
		Msg("Scan dispatched")

	return scan, nil
}

// deriveSourceMapCandidates appends ".map" to the path of every observed ".js" record.
func (o *Orchestrator) deriveSourceMapCandidates(snapshot []models.TrafficRecord, set *CandidateSet, logger zerolog.Logger) {
	for _, record := range snapshot {
		if !strings.HasSuffix(record.Target.Path, ".js") {
			continue
		}

		derived := urlhandler.AppendPath(record.Target, ".map")
		candidate, err := o.client.ParseURL(derived)
		if err != nil {
			logger.Warn().Err(err).Str("derived", derived).Msg("Skipping malformed source map candidate")
			continue
		}
		set.Add(candidate)
	}
}

func (o *Orchestrator) submit(scan *Scan, kind string, task platform.Task) {
	o.client.Submit(task)
	scan.SubmittedTasks++
	o.observer.TaskDispatched(kind)
}

func (o *Orchestrator) transition(scan *Scan, next State, logger zerolog.Logger) {
	logger.Debug().Str("from", scan.state.String()).Str("to", next.String()).Msg("Scan state change")
	scan.state = next
}
