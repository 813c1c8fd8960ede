package ui_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  ui.Format
	}{
		{"", ui.FormatAuto},
		{"auto", ui.FormatAuto},
		{"term", ui.FormatTerminal},
		{"Terminal", ui.FormatTerminal},
		{"text", ui.FormatText},
		{"plain", ui.FormatText},
		{" JSON ", ui.FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat_Unknown(t *testing.T) {
	_, err := ui.ParseFormat("yaml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "unknown format: yaml")
	assert.Equal(t, "yaml", errors.GetErrorDetails(err)["format"])
}

func TestFormatNamesRoundTrip(t *testing.T) {
	for _, name := range ui.FormatNames() {
		f, err := ui.ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.String())
	}
	assert.Equal(t, "auto", ui.Format("").String())
}

func TestResolve(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ui.FormatJSON, ui.Resolve(ui.FormatJSON, &buf))
	assert.Equal(t, ui.FormatTerminal, ui.Resolve(ui.FormatTerminal, &buf))
	assert.Equal(t, ui.FormatText, ui.Resolve(ui.FormatAuto, &buf), "buffers are never terminals")
	assert.Equal(t, ui.FormatText, ui.Resolve("", &buf))
}

func TestDetectFormat(t *testing.T) {
	file := func(t *testing.T) *os.File {
		f, err := os.CreateTemp(t.TempDir(), "out")
		require.NoError(t, err)
		t.Cleanup(func() { _ = f.Close() })
		return f
	}

	t.Run("regular file is text", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("CLICOLOR_FORCE", "")
		assert.Equal(t, ui.FormatText, ui.DetectFormat(file(t)))
	})

	t.Run("NO_COLOR wins over CLICOLOR_FORCE", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		t.Setenv("CLICOLOR_FORCE", "1")
		assert.Equal(t, ui.FormatText, ui.DetectFormat(file(t)))
	})

	t.Run("CLICOLOR_FORCE on a file", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("TERM", "xterm-256color")
		t.Setenv("CLICOLOR_FORCE", "1")
		assert.Equal(t, ui.FormatTerminal, ui.DetectFormat(file(t)))
	})

	t.Run("dumb terminal", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("TERM", "dumb")
		t.Setenv("CLICOLOR_FORCE", "1")
		assert.Equal(t, ui.FormatText, ui.DetectFormat(file(t)))
	})
}
