package extractor

import (
	"bytes"
	"path"
	"sort"
	"strings"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/go-json-experiment/json"
)

// xssiPrefix is prepended by some servers to JSON responses, source maps included.
const xssiPrefix = ")]}'"

// SourceMap is the subset of a revision 3 source map needed to recover sources.
type SourceMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Mappings       string    `json:"mappings,omitempty"`
}

// SourceFile is one original file embedded in a source map.
type SourceFile struct {
	Path    string
	Content string
}

// ParseSourceMap decodes data and checks it carries a version and a sources list.
func ParseSourceMap(data []byte) (*SourceMap, error) {
	data = bytes.TrimSpace(data)
	data = bytes.TrimPrefix(data, []byte(xssiPrefix))

	var sm SourceMap
	if err := json.Unmarshal(data, &sm); err != nil {
		return nil, errorwrapper.WrapError(errorwrapper.ErrMalformedInput, "not a source map: "+err.Error())
	}
	if sm.Version <= 0 {
		return nil, errorwrapper.WrapError(errorwrapper.ErrMalformedInput, "source map has no version")
	}
	if sm.Sources == nil {
		return nil, errorwrapper.WrapError(errorwrapper.ErrMalformedInput, "source map has no sources")
	}
	return &sm, nil
}

// SortedSources returns the unique source paths, prefixed with sourceRoot, in lexical order.
func (sm *SourceMap) SortedSources() []string {
	seen := make(map[string]struct{}, len(sm.Sources))
	out := make([]string, 0, len(sm.Sources))
	for _, src := range sm.Sources {
		full := sm.sourcePath(src)
		if _, ok := seen[full]; ok {
			continue
		}
		seen[full] = struct{}{}
		out = append(out, full)
	}
	sort.Strings(out)
	return out
}

// Files pairs every source with its embedded content. Sources without content are omitted.
func (sm *SourceMap) Files() []SourceFile {
	var files []SourceFile
	for i, src := range sm.Sources {
		if i >= len(sm.SourcesContent) || sm.SourcesContent[i] == nil {
			continue
		}
		files = append(files, SourceFile{Path: sm.sourcePath(src), Content: *sm.SourcesContent[i]})
	}
	return files
}

func (sm *SourceMap) sourcePath(src string) string {
	if sm.SourceRoot == "" || strings.Contains(src, "://") {
		return src
	}
	return path.Join(sm.SourceRoot, src)
}
