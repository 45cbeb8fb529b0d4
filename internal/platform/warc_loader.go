package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/aleister1102/jsminer/internal/common/bodydecoder"
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/nlnwa/gowarc/v2"
	"github.com/rs/zerolog"
)

// WARCLoader turns WARC response records into traffic records.
type WARCLoader struct {
	logger      zerolog.Logger
	maxBodySize int64
}

// NewWARCLoader creates a loader. maxBodySize <= 0 uses the decoder default.
func NewWARCLoader(maxBodySize int64, logger zerolog.Logger) *WARCLoader {
	if maxBodySize <= 0 {
		maxBodySize = bodydecoder.DefaultMaxDecodedSize
	}
	return &WARCLoader{
		logger:      logger.With().Str("component", "WARCLoader").Logger(),
		maxBodySize: maxBodySize,
	}
}

// LoadFile reads a (optionally gzipped) WARC file.
func (l *WARCLoader) LoadFile(ctx context.Context, filePath string) ([]models.TrafficRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open WARC file %s: %w", filePath, err)
	}
	defer file.Close()

	records, err := l.Load(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to load WARC file %s: %w", filePath, err)
	}
	return records, nil
}

// Load reads WARC records from input. Non-response records are ignored and
// records that cannot be turned into traffic are logged and skipped.
func (l *WARCLoader) Load(ctx context.Context, input io.Reader) ([]models.TrafficRecord, error) {
	warcReader, err := gowarc.NewWarcFileReaderFromStream(input, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create WARC reader: %w", err)
	}
	defer warcReader.Close()

	var records []models.TrafficRecord
	skipped := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, _, _, err := warcReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read WARC record: %w", err)
		}

		if record.Type() != gowarc.Response {
			record.Close()
			continue
		}

		traffic, err := l.toTrafficRecord(record)
		record.Close()
		if err != nil {
			skipped++
			l.logger.Warn().Err(err).Msg("Skipping WARC response record")
			continue
		}
		records = append(records, traffic)
	}

	l.logger.Info().Int("records", len(records)).Int("skipped", skipped).Msg("Loaded WARC traffic")
	return records, nil
}

func (l *WARCLoader) toTrafficRecord(record gowarc.WarcRecord) (models.TrafficRecord, error) {
	rawURI := record.WarcHeader().Get(gowarc.WarcTargetURI)
	target, err := urlhandler.Parse(rawURI)
	if err != nil {
		return models.TrafficRecord{}, err
	}

	block, err := record.Block().RawBytes()
	if err != nil {
		return models.TrafficRecord{}, fmt.Errorf("failed to get record body for %s: %w", rawURI, err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(block), nil)
	if err != nil {
		return models.TrafficRecord{}, fmt.Errorf("failed to parse HTTP response for %s: %w", rawURI, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBodySize))
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return models.TrafficRecord{}, fmt.Errorf("failed to read HTTP body for %s: %w", rawURI, err)
	}

	decoded, err := bodydecoder.Decode(resp.Header.Get("Content-Encoding"), body, l.maxBodySize)
	if err != nil {
		l.logger.Debug().Err(err).Str("url", rawURI).Msg("Keeping encoded body")
		decoded = body
	}

	return models.TrafficRecord{
		Target:       target,
		Method:       http.MethodGet,
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		ResponseBody: decoded,
	}, nil
}
