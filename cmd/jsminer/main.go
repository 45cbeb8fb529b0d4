package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/config"
	"github.com/aleister1102/jsminer/internal/datastore"
	"github.com/aleister1102/jsminer/internal/extractor"
	"github.com/aleister1102/jsminer/internal/guard"
	"github.com/aleister1102/jsminer/internal/httpclient"
	"github.com/aleister1102/jsminer/internal/issues"
	"github.com/aleister1102/jsminer/internal/logger"
	"github.com/aleister1102/jsminer/internal/metrics"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/aleister1102/jsminer/internal/orchestrator"
	"github.com/aleister1102/jsminer/internal/platform"
	"github.com/aleister1102/jsminer/internal/progress"
	"github.com/aleister1102/jsminer/internal/rslimiter"
	"github.com/aleister1102/jsminer/internal/secretscanner"
	"github.com/aleister1102/jsminer/internal/workerpool"
	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	_, _ = maxprocs.Set()

	flags := ParseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, zerolog.Nop())
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}
	applyFlagOverrides(gCfg, flags)

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, gCfg, flags, zLogger); err != nil {
		zLogger.Error().Err(err).Msg("Scan failed")
		stop()
		os.Exit(1)
	}
}

func applyFlagOverrides(gCfg *config.GlobalConfig, flags AppFlags) {
	if flags.SourceMaps != nil {
		gCfg.ScanConfig.SourceMapEnabled = *flags.SourceMaps
	}
	if flags.Interesting != nil {
		gCfg.ScanConfig.InterestingStuffEnabled = *flags.Interesting
	}
	if flags.ExportPath != "" {
		gCfg.StorageConfig.ParquetExportPath = flags.ExportPath
	}
}

func run(ctx context.Context, gCfg *config.GlobalConfig, flags AppFlags, zLogger zerolog.Logger) error {
	limiter := rslimiter.NewResourceLimiter(gCfg.ResourceLimiterConfig, zLogger)
	limiter.SetExceededCallback(func(usage rslimiter.ResourceUsage) {
		event := zLogger.Warn().Int64("alloc_mb", usage.AllocMB).Int("goroutines", usage.Goroutines)
		if percent, err := limiter.SystemMemoryUsedPercent(); err == nil {
			event = event.Float64("system_mem_percent", percent)
		}
		event.Msg("Memory budget exceeded, scan tasks keep running")
	})
	limiter.Start()
	defer limiter.Stop()

	store, err := datastore.NewIssueStore(gCfg.StorageConfig.SQLitePath, zLogger)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to open issue store")
	}
	defer store.Close()

	corpus, err := loadTraffic(ctx, gCfg, flags, zLogger)
	if err != nil {
		return err
	}

	base, err := resolveBase(corpus, flags.Target)
	if err != nil {
		return err
	}

	recorder, err := metrics.NewRecorder(zLogger)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to create metrics recorder")
	}
	recorder.Serve(gCfg.MetricsConfig)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = recorder.Shutdown(shutdownCtx)
	}()

	pool := workerpool.New(ctx, gCfg.WorkerPoolConfig, limiter, zLogger)
	defer pool.Stop()
	if err := recorder.RegisterPool(pool); err != nil {
		return errorwrapper.WrapError(err, "failed to register pool metrics")
	}

	host := platform.NewLocal(corpus, store, pool, zLogger)

	reporter := issues.NewReporter(host, zLogger)
	reporter.SetObserver(recorder)

	detectors, err := buildDetectors(gCfg, zLogger)
	if err != nil {
		return err
	}

	fetcher, err := httpclient.NewHTTPClientBuilder(zLogger).
		WithConfig(httpclient.FromConfig(gCfg.HTTPClientConfig)).
		Build()
	if err != nil {
		return errorwrapper.WrapError(err, "failed to create HTTP client")
	}

	orch, err := orchestrator.New(orchestrator.Dependencies{
		Client:    host,
		Reporter:  reporter,
		Runner:    guard.NewRunner(guard.Ladder{Grace: gCfg.GuardConfig.Grace(), Tiers: gCfg.GuardConfig.Tiers()}, zLogger),
		Fetcher:   fetcher,
		Detectors: detectors,
		Observer:  recorder,
		OutputDir: gCfg.ScanConfig.SourceMapOutputDir,
	}, zLogger)
	if err != nil {
		return err
	}

	scan, err := orch.StartScan(base, gCfg.ScanConfig.SourceMapEnabled, gCfg.ScanConfig.InterestingStuffEnabled)
	if err != nil {
		return err
	}

	display := progress.NewDisplay(pool, 0, zLogger)
	display.Start(ctx)
	pool.Wait()
	display.Stop()

	stats := pool.Stats()
	zLogger.Info().
		Str("scan_id", scan.Request.ID).
		Int64("completed", stats.Completed).
		Int64("failed", stats.Failed).
		Msg("Scan tasks finished")

	findings, err := store.AllFindings()
	if err != nil {
		return errorwrapper.WrapError(err, "failed to read findings")
	}
	scanFindings := findingsForScan(findings, scan.Request.ID)
	if total, err := store.Count(); err == nil {
		zLogger.Info().Int("stored", total).Int("new", len(scanFindings)).Msg("Issue store totals")
	}

	if exportPath := gCfg.StorageConfig.ParquetExportPath; exportPath != "" {
		exporter := datastore.NewFindingsExporter(gCfg.StorageConfig.CompressionCodec, zLogger)
		if err := exporter.Export(ctx, exportPath, findings); err != nil {
			return errorwrapper.WrapError(err, "failed to export findings")
		}
	}

	writeSummary(os.Stdout, scanFindings)
	return nil
}

func loadTraffic(ctx context.Context, gCfg *config.GlobalConfig, flags AppFlags, zLogger zerolog.Logger) (*platform.TrafficCorpus, error) {
	corpus := platform.NewTrafficCorpus()

	maxBody := int64(gCfg.HTTPClientConfig.MaxContentSizeMB) * 1024 * 1024
	loader := platform.NewWARCLoader(maxBody, zLogger)
	for _, path := range flags.TrafficFiles {
		records, err := loader.LoadFile(ctx, path)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to load traffic from "+path)
		}
		corpus.Add(records...)
	}

	if flags.URLListFile != "" {
		records, err := platform.LoadURLList(flags.URLListFile, zLogger)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to load URL list")
		}
		corpus.Add(records...)
	}

	if corpus.Len() == 0 {
		return nil, errorwrapper.NewValidationError("traffic", nil, "no observed traffic, pass -traffic or -urls")
	}
	zLogger.Info().Int("records", corpus.Len()).Msg("Traffic loaded")
	return corpus, nil
}

// resolveBase picks the scan's base record: the -target URL when given, else
// the site root of the first observed record.
func resolveBase(corpus *platform.TrafficCorpus, rawTarget string) (models.TrafficRecord, error) {
	if rawTarget == "" {
		first := corpus.Records()[0]
		rawTarget = first.Target.SiteKey() + "/"
	}

	target, err := urlhandler.Parse(rawTarget)
	if err != nil {
		return models.TrafficRecord{}, fmt.Errorf("invalid -target: %w", err)
	}
	return models.TrafficRecord{Target: target, Method: "GET"}, nil
}

func buildDetectors(gCfg *config.GlobalConfig, zLogger zerolog.Logger) ([]orchestrator.Detector, error) {
	var detectors []orchestrator.Detector

	if gCfg.SecretsConfig.Enabled {
		secrets, err := secretscanner.NewDetector(gCfg.SecretsConfig, zLogger)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to create secret detector")
		}
		detectors = append(detectors, secrets)
	}
	if gCfg.ExtractorConfig.Enabled {
		detectors = append(detectors, extractor.NewEndpointDetector(gCfg.ExtractorConfig, zLogger))
	}
	if gCfg.ExtractorConfig.SourceMapReferences {
		detectors = append(detectors, extractor.NewSourceMapReferenceDetector(zLogger))
	}

	return detectors, nil
}
