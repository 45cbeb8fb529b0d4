package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aleister1102/jsminer/internal/config"
	"github.com/aleister1102/jsminer/internal/guard"
	"github.com/aleister1102/jsminer/internal/issues"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/aleister1102/jsminer/internal/workerpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Recorder collects scan counters on its own registry so tests and
// embedding hosts never collide with the global default registry.
type Recorder struct {
	registry *prometheus.Registry
	logger   zerolog.Logger

	reportOutcomes  *prometheus.CounterVec
	guardRuns       *prometheus.CounterVec
	guardDuration   *prometheus.HistogramVec
	tasksDispatched *prometheus.CounterVec
	sourceMapFetch  *prometheus.CounterVec

	server *http.Server
}

// NewRecorder creates a Recorder with every collector registered.
func NewRecorder(logger zerolog.Logger) (*Recorder, error) {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		logger:   logger.With().Str("component", "Metrics").Logger(),
	}

	r.reportOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jsminer_findings_total",
			Help: "Findings passed to the issue reporter, by outcome",
		},
		[]string{"name", "outcome"},
	)

	r.guardRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jsminer_guard_runs_total",
			Help: "Guarded detector runs, by detector and outcome",
		},
		[]string{"detector", "outcome"},
	)

	r.guardDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jsminer_guard_duration_seconds",
			Help:    "Wall-clock time of guarded detector runs",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 60, 180},
		},
		[]string{"detector"},
	)

	r.tasksDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jsminer_tasks_dispatched_total",
			Help: "Tasks submitted to the worker pool, by kind",
		},
		[]string{"kind"},
	)

	r.sourceMapFetch = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jsminer_sourcemap_fetch_total",
			Help: "Source map fetch attempts, by result",
		},
		[]string{"result"},
	)

	collectors := []prometheus.Collector{
		r.reportOutcomes,
		r.guardRuns,
		r.guardDuration,
		r.tasksDispatched,
		r.sourceMapFetch,
	}
	for _, c := range collectors {
		if err := r.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// OnReportOutcome implements issues.OutcomeObserver.
func (r *Recorder) OnReportOutcome(finding models.Finding, outcome issues.Outcome) {
	r.reportOutcomes.WithLabelValues(finding.Name, outcome.String()).Inc()
}

// ObserveGuardRun records one guarded detector run.
func (r *Recorder) ObserveGuardRun(detector string, outcome guard.Outcome, elapsed time.Duration) {
	r.guardRuns.WithLabelValues(detector, outcome.String()).Inc()
	r.guardDuration.WithLabelValues(detector).Observe(elapsed.Seconds())
}

// TaskDispatched records one task handed to the pool.
func (r *Recorder) TaskDispatched(kind string) {
	r.tasksDispatched.WithLabelValues(kind).Inc()
}

// SourceMapFetched records the result of one source map fetch.
func (r *Recorder) SourceMapFetched(result string) {
	r.sourceMapFetch.WithLabelValues(result).Inc()
}

// RegisterPool exports live pool counters as gauges.
func (r *Recorder) RegisterPool(pool *workerpool.Pool) error {
	gauges := map[string]func(workerpool.Stats) int64{
		"submitted": func(s workerpool.Stats) int64 { return s.Submitted },
		"completed": func(s workerpool.Stats) int64 { return s.Completed },
		"failed":    func(s workerpool.Stats) int64 { return s.Failed },
		"dropped":   func(s workerpool.Stats) int64 { return s.Dropped },
	}

	for state, read := range gauges {
		read := read
		g := prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "jsminer_pool_tasks",
				Help:        "Worker pool task counters",
				ConstLabels: prometheus.Labels{"state": state},
			},
			func() float64 { return float64(read(pool.Stats())) },
		)
		if err := r.registry.Register(g); err != nil {
			return err
		}
	}

	pending := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "jsminer_pool_pending",
			Help: "Tasks submitted but not yet finished",
		},
		func() float64 { return float64(pool.Pending()) },
	)
	return r.registry.Register(pending)
}

// Handler returns the scrape handler for this registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Serve starts the metrics endpoint in the background. An empty listen
// address disables it.
func (r *Recorder) Serve(cfg config.MetricsConfig) {
	if cfg.ListenAddress == "" {
		return
	}
	path := cfg.Path
	if path == "" {
		path = config.DefaultMetricsPath
	}

	mux := http.NewServeMux()
	mux.Handle(path, r.Handler())

	r.server = &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error().Err(err).Str("address", cfg.ListenAddress).Msg("Metrics server stopped")
		}
	}()
	r.logger.Info().Str("address", cfg.ListenAddress).Str("path", path).Msg("Metrics endpoint listening")
}

// Shutdown stops the metrics endpoint if it was started.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}
