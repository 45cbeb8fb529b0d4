package datastore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/rs/zerolog"
)

const readBatchSize = 100

// FindingsExporter writes findings to Parquet files.
type FindingsExporter struct {
	codec  string
	logger zerolog.Logger
}

// NewFindingsExporter creates an exporter using the named compression codec.
func NewFindingsExporter(codec string, logger zerolog.Logger) *FindingsExporter {
	return &FindingsExporter{
		codec:  codec,
		logger: logger.With().Str("component", "FindingsExporter").Logger(),
	}
}

// Export writes findings to filePath, replacing any previous export.
func (fe *FindingsExporter) Export(ctx context.Context, filePath string, findings []models.Finding) error {
	if filePath == "" {
		return errorwrapper.NewValidationError("parquet_export_path", filePath, "export path is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return errorwrapper.WrapError(err, "failed to create export directory for "+filePath)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to create findings parquet file: "+filePath)
	}
	defer func() { _ = file.Close() }()

	records := make([]models.FindingRecord, len(findings))
	for i, f := range findings {
		records[i] = f.ToRecord()
	}

	writer := parquet.NewGenericWriter[models.FindingRecord](file, parquet.Compression(fe.compressionCodec()))
	if _, err := writer.Write(records); err != nil {
		_ = writer.Close()
		return errorwrapper.WrapError(err, "failed to write findings to parquet file")
	}
	if err := writer.Close(); err != nil {
		return errorwrapper.WrapError(err, "failed to finalize findings parquet file")
	}

	fe.logger.Info().Str("file_path", filePath).Int("records_written", len(records)).Msg("Exported findings")
	return nil
}

// ReadExport loads the records of a previous export.
func (fe *FindingsExporter) ReadExport(ctx context.Context, filePath string) ([]models.FindingRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to open findings parquet file: "+filePath)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[models.FindingRecord](file)
	defer func() { _ = reader.Close() }()

	records := make([]models.FindingRecord, 0, reader.NumRows())
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch := make([]models.FindingRecord, readBatchSize)
		n, err := reader.Read(batch)
		records = append(records, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to read findings from parquet file")
		}
	}
	return records, nil
}

func (fe *FindingsExporter) compressionCodec() compress.Codec {
	switch strings.ToLower(fe.codec) {
	case "snappy":
		return &parquet.Snappy
	case "gzip":
		return &parquet.Gzip
	case "none":
		return &parquet.Uncompressed
	default:
		return &parquet.Zstd
	}
}
