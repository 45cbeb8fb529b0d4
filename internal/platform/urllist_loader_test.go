package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadURLList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "# observed\nhttps://example.com/app.js\n\nexample.com/vendor.js\nhttps://exa mple.com/bad.js\nhttps://example.com:8443/x.js?a=1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := LoadURLList(path, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "https://example.com/app.js", records[0].Target.String())
	assert.Equal(t, "https://example.com/vendor.js", records[1].Target.String())
	assert.Equal(t, "https://example.com:8443/x.js?a=1", records[2].Target.String())
	assert.False(t, records[0].HasBody())
}

func TestLoadURLList_MissingFile(t *testing.T) {
	_, err := LoadURLList(filepath.Join(t.TempDir(), "missing.txt"), zerolog.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorwrapper.ErrNotFound))
}
