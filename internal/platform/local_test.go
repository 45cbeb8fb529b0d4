package platform

import (
	"context"
	"testing"
	"time"

	"github.com/aleister1102/jsminer/internal/config"
	"github.com/aleister1102/jsminer/internal/datastore"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/aleister1102/jsminer/internal/workerpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func newTestLocal(t *testing.T, records ...models.TrafficRecord) (*Local, *workerpool.Pool) {
	t.Helper()
	store, err := datastore.NewIssueStore(datastore.MemoryDSN, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	pool := workerpool.New(context.Background(), config.WorkerPoolConfig{Workers: 2, QueueSize: 4}, nil, zerolog.Nop())
	t.Cleanup(pool.Stop)

	return NewLocal(NewTrafficCorpus(records...), store, pool, zerolog.Nop()), pool
}

func TestLocal_ReportAndLookup(t *testing.T) {
	local, _ := newTestLocal(t)

	target, err := local.ParseURL("https://example.com/app.js?v=1")
	require.NoError(t, err)

	finding := models.Finding{
		Name:           "API Endpoints",
		Detail:         "/api/users",
		EvidenceTarget: target,
		Severity:       models.SeverityInformation,
		Confidence:     models.ConfidenceTentative,
		FoundAt:        time.Now(),
	}
	require.NoError(t, local.ReportFinding(finding))

	existing, err := local.ExistingFindings("https://example.com/app.js")
	require.NoError(t, err)
	require.Len(t, existing, 1)
	assert.Equal(t, "/api/users", existing[0].Detail)

	found, err := local.HasFinding("https://example.com/app.js", "API Endpoints", "/api/users")
	require.NoError(t, err)
	assert.True(t, found)

	none, err := local.ExistingFindings("https://other.com/")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLocal_SubmitRunsOnPool(t *testing.T) {
	local, pool := newTestLocal(t)

	ran := atomic.NewInt64(0)
	for i := 0; i < 10; i++ {
		local.Submit(func(ctx context.Context) { ran.Inc() })
	}
	local.Submit(nil)
	pool.Wait()

	assert.Equal(t, int64(10), ran.Load())
}

func TestLocal_TrafficForSite(t *testing.T) {
	local, _ := newTestLocal(t, record(t, "https://example.com/a.js"), record(t, "https://other.com/b.js"))

	records, err := local.TrafficForSite("https://example.com/")
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, err = local.ParseURL("not a url")
	assert.Error(t, err)
}
