package filemanager

import (
	"fmt"
	"os"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// FileWriter handles file writing operations
type FileWriter struct {
	logger zerolog.Logger
}

// NewFileWriter creates a new FileWriter instance
func NewFileWriter(logger zerolog.Logger) *FileWriter {
	return &FileWriter{
		logger: logger.With().Str("component", "FileWriter").Logger(),
	}
}

// WriteFile writes data to a file, truncating any previous content.
func (fw *FileWriter) WriteFile(path string, data []byte, opts FileWriteOptions) error {
	perm := opts.Permissions
	if perm == 0 {
		perm = 0644
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errorwrapper.WrapError(err, fmt.Sprintf("failed to open file: %s", path))
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fw.logger.Error().Err(closeErr).Str("path", path).Msg("Failed to close file after writing")
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errorwrapper.WrapError(err, fmt.Sprintf("failed to write file: %s", path))
	}

	fw.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written successfully")
	return nil
}
