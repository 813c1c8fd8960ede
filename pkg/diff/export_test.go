package diff

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestExport_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	e := NewExporter(dir, WithClock(fixedClock))

	path, err := e.Export(twoFileDiff)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chezmoi-diff-20260314-092653.patch"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm()&0644)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, twoFileDiff, loaded)
	assert.Equal(t, Stats(twoFileDiff), Stats(loaded))
}

func TestExport_EmptyDiff(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	e := NewExporter(dir)

	for _, text := range []string{"", "  \n"} {
		_, err := e.Export(text)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	}

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "nothing is created for an empty diff")
}

func TestExport_SameSecond(t *testing.T) {
	e := NewExporter(t.TempDir(), WithClock(fixedClock))

	first, err := e.Export(twoFileDiff)
	require.NoError(t, err)
	second, err := e.Export("+x\n")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, "chezmoi-diff-20260314-092653-2.patch", filepath.Base(second))

	content, err := Load(first)
	require.NoError(t, err)
	assert.Equal(t, twoFileDiff, content, "first artifact is not overwritten")

	list, err := e.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestExporter_ListMissingDir(t *testing.T) {
	e := NewExporter(filepath.Join(t.TempDir(), "nope"))
	list, err := e.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.patch"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileRead))
}

func TestUnified(t *testing.T) {
	oldText := "set number\nsyntax on\n"
	newText := "set number\nset relativenumber\nsyntax on\n"

	text, err := Unified(".vimrc", oldText, newText)
	require.NoError(t, err)

	a := Analyze(text)
	assert.Equal(t, []string{".vimrc"}, a.Files)
	assert.Equal(t, Statistics{FilesChanged: 1, Additions: 1, NetChange: 1}, a.Stats)

	same, err := Unified(".vimrc", oldText, oldText)
	require.NoError(t, err)
	assert.Empty(t, same)
}
