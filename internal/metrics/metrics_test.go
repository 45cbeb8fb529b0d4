package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aleister1102/jsminer/internal/config"
	"github.com/aleister1102/jsminer/internal/guard"
	"github.com/aleister1102/jsminer/internal/issues"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/aleister1102/jsminer/internal/workerpool"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := NewRecorder(zerolog.Nop())
	require.NoError(t, err)
	return r
}

func TestRecorder_ReportOutcomes(t *testing.T) {
	r := newRecorder(t)
	f := models.Finding{Name: "API Endpoints"}

	r.OnReportOutcome(f, issues.Reported)
	r.OnReportOutcome(f, issues.DuplicateSuppressed)
	r.OnReportOutcome(f, issues.DuplicateSuppressed)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.reportOutcomes.WithLabelValues("API Endpoints", "reported")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.reportOutcomes.WithLabelValues("API Endpoints", "duplicate_suppressed")))
}

func TestRecorder_GuardRuns(t *testing.T) {
	r := newRecorder(t)

	r.ObserveGuardRun("secrets", guard.Completed, 20*time.Millisecond)
	r.ObserveGuardRun("secrets", guard.ForcedCancellation, 3*time.Minute)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.guardRuns.WithLabelValues("secrets", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.guardRuns.WithLabelValues("secrets", "forced_cancellation")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.guardDuration))
}

func TestRecorder_TasksAndFetches(t *testing.T) {
	r := newRecorder(t)

	r.TaskDispatched("source_map")
	r.TaskDispatched("source_map")
	r.TaskDispatched("interesting_stuff")
	r.SourceMapFetched("ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.tasksDispatched.WithLabelValues("source_map")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tasksDispatched.WithLabelValues("interesting_stuff")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sourceMapFetch.WithLabelValues("ok")))
}

func TestRecorder_RegisterPool(t *testing.T) {
	r := newRecorder(t)
	pool := workerpool.New(context.Background(), config.WorkerPoolConfig{Workers: 1, QueueSize: 4}, nil, zerolog.Nop())
	defer pool.Stop()

	require.NoError(t, r.RegisterPool(pool))

	pool.Submit(func(ctx context.Context) {})
	pool.Wait()

	count, err := testutil.GatherAndCount(r.Registry(), "jsminer_pool_tasks")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	count, err = testutil.GatherAndCount(r.Registry(), "jsminer_pool_pending")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorder_Handler(t *testing.T) {
	r := newRecorder(t)
	r.TaskDispatched("interesting_stuff")

	server := httptest.NewServer(r.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `jsminer_tasks_dispatched_total{kind="interesting_stuff"} 1`)
}

func TestRecorder_ServeDisabled(t *testing.T) {
	r := newRecorder(t)
	r.Serve(config.MetricsConfig{})
	assert.Nil(t, r.server)
	assert.NoError(t, r.Shutdown(context.Background()))
}
