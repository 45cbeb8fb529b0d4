package filemanager

import (
	"io/fs"
	"time"
)

// FileInfo contains metadata about a file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	IsDir   bool
	ModTime time.Time
}

// FileReadOptions configures file reading behavior
type FileReadOptions struct {
	MaxSize int64 // 0 = no limit
}

// FileWriteOptions configures file writing behavior
type FileWriteOptions struct {
	CreateDirs  bool
	Permissions fs.FileMode
}

// DefaultFileReadOptions returns default file reading options
func DefaultFileReadOptions() FileReadOptions {
	return FileReadOptions{
		MaxSize: 50 * 1024 * 1024,
	}
}

// DefaultFileWriteOptions returns default file writing options
func DefaultFileWriteOptions() FileWriteOptions {
	return FileWriteOptions{
		CreateDirs:  true,
		Permissions: 0644,
	}
}
