package platform

import (
	"bufio"
	"os"
	"strings"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/common/filemanager"
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/rs/zerolog"
)

// LoadURLList reads one observed URL per line and returns body-less GET records.
// Blank lines and lines starting with '#' are ignored; malformed URLs are logged and skipped.
func LoadURLList(filePath string, logger zerolog.Logger) ([]models.TrafficRecord, error) {
	fileLogger := logger.With().Str("component", "URLListLoader").Str("file", filePath).Logger()

	fm := filemanager.NewFileManager(logger)
	if !fm.FileExists(filePath) {
		return nil, errorwrapper.WrapError(errorwrapper.ErrNotFound, "url list '"+filePath+"'")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to open url list")
	}
	defer file.Close()

	var records []models.TrafficRecord
	scanner := bufio.NewScanner(file)
	lineNumber := 0
	skipped := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		normalized, err := urlhandler.NormalizeURL(line)
		if err != nil {
			skipped++
			fileLogger.Warn().Int("line", lineNumber).Str("url", line).Err(err).Msg("Skipping malformed URL")
			continue
		}
		target, err := urlhandler.Parse(normalized)
		if err != nil {
			skipped++
			fileLogger.Warn().Int("line", lineNumber).Str("url", line).Err(err).Msg("Skipping malformed URL")
			continue
		}

		records = append(records, models.TrafficRecord{Target: target, Method: "GET"})
	}
	if err := scanner.Err(); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to read url list")
	}

	fileLogger.Info().Int("records", len(records)).Int("skipped", skipped).Msg("Loaded URL list")
	return records, nil
}
