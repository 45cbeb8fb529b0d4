package datastore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aleister1102/jsminer/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindingsExporter_RoundTrip(t *testing.T) {
	for _, codec := range []string{"zstd", "snappy", "gzip", "none"} {
		t.Run(codec, func(t *testing.T) {
			exporter := NewFindingsExporter(codec, zerolog.Nop())
			path := filepath.Join(t.TempDir(), "export", "findings.parquet")

			findings := []models.Finding{
				testFinding(t, "API Endpoints", "/api/users", "https://example.com/app.js"),
				testFinding(t, "JavaScript Source Mapper", "webpack:///src/index.ts", "https://example.com:8443/app.js.map"),
			}
			findings[1].ScanID = ""
			findings[0].Evidence = []models.EvidenceMarker{{Line: 1, Start: 9, End: 29}, {Line: 3, Start: 80, End: 96}}

			require.NoError(t, exporter.Export(context.Background(), path, findings))

			records, err := exporter.ReadExport(context.Background(), path)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, "API Endpoints", records[0].Name)
			assert.Equal(t, "https://example.com/app.js", records[0].EvidenceURL)
			assert.Equal(t, "scan-1", records[0].ScanID)
			assert.Equal(t, "line 1 [9:29], line 3 [80:96]", records[0].Evidence)
			assert.Empty(t, records[1].Evidence)
			assert.Equal(t, "https://example.com:8443/app.js.map", records[1].EvidenceURL)
			assert.Equal(t, string(models.SeverityInformation), records[1].Severity)
		})
	}
}

func TestFindingsExporter_RequiresPath(t *testing.T) {
	exporter := NewFindingsExporter("zstd", zerolog.Nop())
	assert.Error(t, exporter.Export(context.Background(), "", nil))
}
