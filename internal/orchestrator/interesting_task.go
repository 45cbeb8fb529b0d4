package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/extractor"
	"github.com/aleister1102/jsminer/internal/guard"
	"github.com/aleister1102/jsminer/internal/issues"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/aleister1102/jsminer/internal/platform"
	"github.com/rs/zerolog"
)

// interestingStuffTask scans every script and inline script of the snapshot.
func (o *Orchestrator) interestingStuffTask(req models.ScanRequest, snapshot []models.TrafficRecord) platform.Task {
	return func(ctx context.Context) {
		logger := o.logger.With().Str("scan_id", req.ID).Str("task", TaskKindInterestingStuff).Logger()
		scanned := 0

		for _, record := range snapshot {
			if ctx.Err() != nil {
				logger.Debug().Int("scanned", scanned).Msg("Interesting stuff task cancelled")
				return
			}
			if !record.HasBody() {
				continue
			}

			for _, content := range o.scannableContent(record, logger) {
				o.reportAll(req, o.runDetectors(ctx, record.Target, content), record.Target, logger)
			}
			scanned++
		}

		logger.Debug().Int("records", len(snapshot)).Int("scanned", scanned).Msg("Interesting stuff task finished")
	}
}

// scannableContent returns the script bodies held by a record.
func (o *Orchestrator) scannableContent(record models.TrafficRecord, logger zerolog.Logger) [][]byte {
	switch extractor.ClassifyRecord(record) {
	case extractor.ContentScript:
		return [][]byte{record.ResponseBody}
	case extractor.ContentHTML:
		scripts, err := extractor.ExtractInlineScripts(record.ResponseBody)
		if err != nil {
			logger.Debug().Err(err).Str("url", record.Target.String()).Msg("Failed to parse HTML")
			return nil
		}
		out := make([][]byte, 0, len(scripts))
		for _, s := range scripts {
			out = append(out, []byte(s))
		}
		return out
	default:
		return nil
	}
}

// runDetectors runs every detector over content, each under the guard runner.
// A detector that errors or is force-cancelled contributes nothing.
func (o *Orchestrator) runDetectors(ctx context.Context, source urlhandler.Target, content []byte) []models.Finding {
	var all []models.Finding

	for _, detector := range o.detectors {
		if ctx.Err() != nil {
			break
		}

		var found []models.Finding
		started := time.Now()
		outcome, err := o.runner.Run(ctx, func(ctx context.Context) error {
			findings, err := detector.Detect(ctx, source, content)
			found = findings
			return err
		})
		o.observer.ObserveGuardRun(detector.Name(), outcome, time.Since(started))

		if outcome == guard.ForcedCancellation {
			o.logger.Warn().Err(err).Str("detector", detector.Name()).Str("url", source.String()).Msg("Detector cancelled, no result")
			continue
		}
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				o.logger.Error().Err(err).Str("detector", detector.Name()).Str("url", source.String()).Msg("Detector failed")
			}
			continue
		}
		all = append(all, found...)
	}

	return all
}

func (o *Orchestrator) report(finding models.Finding, scope urlhandler.Target, logger zerolog.Logger) {
	outcome, err := o.reporter.Report(finding, scope)
	if outcome == issues.Failed {
		logger.Error().Err(err).Str("name", finding.Name).Msg("Finding could not be stored")
	}
}

// reportAll stamps detector findings with the scan ID and reports them under scope.
func (o *Orchestrator) reportAll(req models.ScanRequest, findings []models.Finding, scope urlhandler.Target, logger zerolog.Logger) {
	if len(findings) == 0 {
		return
	}
	for i := range findings {
		findings[i].ScanID = req.ID
	}

	summary, err := o.reporter.ReportAll(findings, scope)
	if summary.Failed > 0 {
		logger.Error().Err(err).Int("failed", summary.Failed).Str("scope", scope.String()).Msg("Findings could not be stored")
	}
	logger.Debug().
		Int("reported", summary.Reported).
		Int("duplicates", summary.DuplicateSuppressed).
		Str("scope", scope.String()).
		Msg("Detector findings reported")
}
