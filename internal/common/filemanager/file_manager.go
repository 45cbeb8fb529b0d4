package filemanager

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// FileManager provides high-level file operations with standardized error handling and logging
type FileManager struct {
	logger zerolog.Logger
	writer *FileWriter
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	componentLogger := logger.With().Str("component", "FileManager").Logger()

	return &FileManager{
		logger: componentLogger,
		writer: NewFileWriter(componentLogger),
	}
}

// FileExists checks if a file or directory exists
func (fm *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetFileInfo returns information about a file
func (fm *FileManager) GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errorwrapper.WrapError(errorwrapper.ErrNotFound, fmt.Sprintf("file not found: %s", path))
		}
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to get file info for: %s", path))
	}

	return &FileInfo{
		Path:    path,
		Name:    stat.Name(),
		Size:    stat.Size(),
		IsDir:   stat.IsDir(),
		ModTime: stat.ModTime(),
	}, nil
}

// ReadFile reads a regular file, refusing directories and files above opts.MaxSize.
func (fm *FileManager) ReadFile(path string, opts FileReadOptions) ([]byte, error) {
	info, err := fm.GetFileInfo(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir {
		return nil, errorwrapper.NewValidationError("path", path, "is a directory, not a file")
	}
	if opts.MaxSize > 0 && info.Size > opts.MaxSize {
		return nil, errorwrapper.NewValidationError("file_size", info.Size, fmt.Sprintf("exceeds maximum size of %d bytes", opts.MaxSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to read file: %s", path))
	}
	return data, nil
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	if fm.FileExists(path) {
		info, err := fm.GetFileInfo(path)
		if err != nil {
			return errorwrapper.WrapError(err, "failed to check directory: "+path)
		}
		if !info.IsDir {
			return errorwrapper.NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return errorwrapper.WrapError(err, "failed to create directory: "+path)
	}

	fm.logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}

// WriteFile writes data to a file with the given options
func (fm *FileManager) WriteFile(path string, data []byte, opts FileWriteOptions) error {
	if opts.CreateDirs {
		if err := fm.EnsureDirectory(filepath.Dir(path), 0755); err != nil {
			return errorwrapper.WrapError(err, "failed to create parent directories for: "+path)
		}
	}

	return fm.writer.WriteFile(path, data, opts)
}

// WriteUnique writes data to path, or to the first free alternative name when
// path is taken. It returns the path actually written.
func (fm *FileManager) WriteUnique(path string, data []byte, opts FileWriteOptions) (string, error) {
	target := fm.UniquePath(path)
	if err := fm.WriteFile(target, data, opts); err != nil {
		return "", err
	}
	return target, nil
}
