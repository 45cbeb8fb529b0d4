package filemanager

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxNameAttempts bounds the numbered alternatives tried before falling back to a _copy suffix.
const maxNameAttempts = 20

// UniquePath returns path when nothing exists there, otherwise name_1.ext,
// name_2.ext and so on. After the numbered attempts are exhausted it returns
// name_copy.ext without checking it.
func (fm *FileManager) UniquePath(path string) string {
	if !fm.FileExists(path) {
		return path
	}

	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)

	for i := 1; i < maxNameAttempts; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if !fm.FileExists(candidate) {
			return candidate
		}
	}

	fm.logger.Warn().Str("path", path).Int("attempts", maxNameAttempts-1).Msg("No free numbered name, using copy suffix")
	return filepath.Join(dir, stem+"_copy"+ext)
}
