package docsystem

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveValidator_IsValid(t *testing.T) {
	dir := t.TempDir()
	validator := NewArchiveValidator(0, discardLogger())

	t.Run("well formed archive", func(t *testing.T) {
		assert.True(t, validator.IsValid(docsArchive(t, dir)))
	})

	t.Run("empty archive", func(t *testing.T) {
		assert.True(t, validator.IsValid(writeZip(t, dir, "empty.zip")))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.False(t, validator.IsValid(filepath.Join(dir, "missing.zip")))
	})

	t.Run("not a zip", func(t *testing.T) {
		path := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("just some text"), 0o644))
		assert.False(t, validator.IsValid(path))
	})

	t.Run("truncated zip", func(t *testing.T) {
		data, err := os.ReadFile(docsArchive(t, dir))
		require.NoError(t, err)

		path := filepath.Join(dir, "truncated.zip")
		require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0o644))
		assert.False(t, validator.IsValid(path))
	})

	t.Run("corrupted entry content", func(t *testing.T) {
		content := strings.Repeat("payload ", 16)
		path := writeZip(t, dir, "corrupt.zip", zipEntry{name: "docs/index.html", content: content})

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		offset := bytes.Index(data, []byte(content))
		require.GreaterOrEqual(t, offset, 0)
		data[offset] ^= 0xff
		require.NoError(t, os.WriteFile(path, data, 0o644))

		assert.False(t, validator.IsValid(path))
	})
}

func TestArchiveValidator_UncompressedLimit(t *testing.T) {
	dir := t.TempDir()
	path := writeZip(t, dir, "big.zip",
		zipEntry{name: "docs/index.html", content: strings.Repeat("a", 600)},
		zipEntry{name: "docs/page.html", content: strings.Repeat("b", 600)},
	)

	assert.True(t, NewArchiveValidator(2000, discardLogger()).IsValid(path))
	assert.False(t, NewArchiveValidator(1000, discardLogger()).IsValid(path))
}
