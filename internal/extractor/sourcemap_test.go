package extractor

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSourceMap = `{
  "version": 3,
  "file": "app.js",
  "sourceRoot": "",
  "sources": ["webpack:///./src/index.ts", "webpack:///./src/api.ts", "webpack:///./src/index.ts"],
  "sourcesContent": ["export const key = 1;", null],
  "names": [],
  "mappings": "AAAA"
}`

func TestParseSourceMap(t *testing.T) {
	sm, err := ParseSourceMap([]byte(sampleSourceMap))
	require.NoError(t, err)

	assert.Equal(t, 3, sm.Version)
	assert.Equal(t, []string{"webpack:///./src/api.ts", "webpack:///./src/index.ts"}, sm.SortedSources())

	files := sm.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "webpack:///./src/index.ts", files[0].Path)
	assert.Equal(t, "export const key = 1;", files[0].Content)
}

func TestParseSourceMap_XSSIPrefixAndSourceRoot(t *testing.T) {
	sm, err := ParseSourceMap([]byte(`)]}'` + "\n" + `{"version":3,"sourceRoot":"src","sources":["a.js"],"sourcesContent":["x"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js"}, sm.SortedSources())
	assert.Equal(t, "src/a.js", sm.Files()[0].Path)
}

func TestParseSourceMap_Rejects(t *testing.T) {
	for _, input := range []string{
		``,
		`<html>not found</html>`,
		`{"sources":["a.js"]}`,
		`{"version":3}`,
	} {
		_, err := ParseSourceMap([]byte(input))
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, errorwrapper.ErrMalformedInput), input)
	}
}

func TestFindSourceMapReferences(t *testing.T) {
	content := []byte("var a=1;\n//# sourceMappingURL=app.js.map\n/*# sourceMappingURL=style.css.map */\n//@ sourceMappingURL=app.js.map")
	assert.Equal(t, []string{"app.js.map", "style.css.map"}, FindSourceMapReferences(content))
	assert.Empty(t, FindSourceMapReferences([]byte("var a = 1;")))
}

func TestSourceMapReferenceDetector(t *testing.T) {
	inline := base64.StdEncoding.EncodeToString([]byte(`{"version":3,"sources":["a.js","b.js"]}`))
	content := []byte("x()\n//# sourceMappingURL=app.js.map\n//# sourceMappingURL=data:application/json;charset=utf-8;base64," + inline)

	d := NewSourceMapReferenceDetector(zerolog.Nop())
	source := mustTarget(t, "https://example.com/static/app.js?v=2")

	findings, err := d.Detect(context.Background(), source, content)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, SourceMapReferenceFindingName, findings[0].Name)
	assert.Equal(t, models.ConfidenceCertain, findings[0].Confidence)
	assert.Contains(t, findings[0].Detail, "https://example.com/static/app.js.map")
	assert.Contains(t, findings[0].Detail, "inline source map with 2 sources")

	none, err := d.Detect(context.Background(), source, []byte("var a;"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDecodeInlineSourceMap(t *testing.T) {
	sm, err := DecodeInlineSourceMap(`data:application/json,{"version":3,"sources":["x.js"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"x.js"}, sm.Sources)

	_, err = DecodeInlineSourceMap("data:application/json;base64")
	assert.True(t, errors.Is(err, errorwrapper.ErrMalformedInput))
}
