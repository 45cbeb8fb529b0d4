package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/common/filemanager"
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/extractor"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/aleister1102/jsminer/internal/platform"
)

// SourceMapperFindingName names the finding raised for a retrievable source map.
const SourceMapperFindingName = "JavaScript Source Mapper"

// Source map fetch results, used as metric labels.
const (
	fetchResultOK         = "ok"
	fetchResultHTTPError  = "http_error"
	fetchResultError      = "error"
	fetchResultUnparsable = "unparsable"
	fetchResultNoFetcher  = "no_fetcher"
	fetchResultCancelled  = "cancelled"
)

// sourceMapTask fetches one candidate, reports it when it is a real source map,
// writes the embedded sources to disk and scans them.
func (o *Orchestrator) sourceMapTask(req models.ScanRequest, candidate urlhandler.Target) platform.Task {
	return func(ctx context.Context) {
		logger := o.logger.With().Str("scan_id", req.ID).Str("candidate", candidate.String()).Logger()

		if o.fetcher == nil {
			o.observer.SourceMapFetched(fetchResultNoFetcher)
			logger.Debug().Msg("No fetcher configured, skipping source map candidate")
			return
		}

		result, err := o.fetcher.Fetch(ctx, candidate)
		if err != nil {
			var httpErr *errorwrapper.HTTPError
			switch {
			case errors.As(err, &httpErr):
				o.observer.SourceMapFetched(fetchResultHTTPError)
				logger.Debug().Int("status_code", httpErr.StatusCode).Msg("Source map candidate not available")
			case ctx.Err() != nil:
				o.observer.SourceMapFetched(fetchResultCancelled)
			default:
				o.observer.SourceMapFetched(fetchResultError)
				logger.Warn().Err(err).Msg("Failed to fetch source map candidate")
			}
			return
		}

		sourceMap, err := extractor.ParseSourceMap(result.Content)
		if err != nil {
			o.observer.SourceMapFetched(fetchResultUnparsable)
			logger.Debug().Err(err).Bool("truncated", result.Truncated).Msg("Candidate is not a source map")
			return
		}
		o.observer.SourceMapFetched(fetchResultOK)

		sources := sourceMap.SortedSources()
		finding := models.Finding{
			Name:           SourceMapperFindingName,
			Detail:         "The source map exposes " + strconv.Itoa(len(sources)) + " original source files:\n- " + strings.Join(sources, "\n- "),
			EvidenceTarget: candidate,
			Severity:       models.SeverityInformation,
			Confidence:     models.ConfidenceCertain,
			ScanID:         req.ID,
		}
		o.report(finding, candidate, logger)

		files := sourceMap.Files()
		if o.outputDir != "" {
			o.writeSources(req, candidate, files)
		}

		for _, file := range files {
			if ctx.Err() != nil {
				return
			}
			o.reportAll(req, o.runDetectors(ctx, candidate, []byte(file.Content)), candidate, logger)
		}
	}
}

// writeSources stores each embedded source under <out>/<host>/<timestamp>/.
func (o *Orchestrator) writeSources(req models.ScanRequest, candidate urlhandler.Target, files []extractor.SourceFile) {
	dir := filepath.Join(o.outputDir, urlhandler.SanitizeFilename(candidate.Host), strconv.FormatInt(req.Timestamp(), 10))

	written := 0
	for _, file := range files {
		path := filepath.Join(dir, urlhandler.SanitizeFilename(file.Path))
		if _, err := o.fileManager.WriteUnique(path, []byte(file.Content), filemanager.DefaultFileWriteOptions()); err != nil {
			o.logger.Error().Err(err).Str("path", path).Msg("Failed to write reconstructed source")
			continue
		}
		written++
	}

	o.logger.Info().Str("dir", dir).Int("files", written).Msg("Reconstructed sources written")
}
