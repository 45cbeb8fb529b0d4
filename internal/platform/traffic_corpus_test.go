package platform

import (
	"testing"

	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, raw string) models.TrafficRecord {
	t.Helper()
	target, err := urlhandler.Parse(raw)
	require.NoError(t, err)
	return models.TrafficRecord{Target: target, Method: "GET", StatusCode: 200}
}

func TestTrafficCorpus_ForSite(t *testing.T) {
	corpus := NewTrafficCorpus(
		record(t, "https://example.com/app.js"),
		record(t, "https://example.com:443/static/vendor.js?v=1"),
		record(t, "https://example.com:8443/app.js"),
		record(t, "http://example.com/app.js"),
		record(t, "https://other.com/app.js"),
	)

	got := corpus.ForSite("https://example.com/")
	require.Len(t, got, 2)
	assert.Equal(t, "/app.js", got[0].Target.Path)
	assert.Equal(t, "/static/vendor.js", got[1].Target.Path)

	assert.Len(t, corpus.ForSite("https://example.com/static/"), 1)
	assert.Len(t, corpus.ForSite(""), 5)
	assert.Empty(t, corpus.ForSite("https://nowhere.test/"))
}

func TestTrafficCorpus_RecordsIsACopy(t *testing.T) {
	corpus := NewTrafficCorpus(record(t, "https://example.com/a.js"))
	records := corpus.Records()
	records[0].StatusCode = 500

	assert.Equal(t, 200, corpus.Records()[0].StatusCode)
	assert.Equal(t, 1, corpus.Len())
}
