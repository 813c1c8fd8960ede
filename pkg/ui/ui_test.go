package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/chezui/pkg/chezmoi"
	"github.com/arthur-debert/chezui/pkg/diff"
	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/parser"
	"github.com/arthur-debert/chezui/pkg/testutil"
	"github.com/arthur-debert/chezui/pkg/ui"
	"github.com/arthur-debert/chezui/pkg/ui/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleViews(t *testing.T) map[string]interface{} {
	t.Helper()
	entries, err := parser.ParseStatus(testutil.StatusOutput)
	require.NoError(t, err)
	checks, err := parser.ParseDoctor(testutil.DoctorOutput)
	require.NoError(t, err)
	version, err := parser.ParseVersion(testutil.VersionOutput)
	require.NoError(t, err)
	tree, err := parser.ParseTemplateData(testutil.DataJSON, parser.FormatJSON)
	require.NoError(t, err)

	result := &chezmoi.DiffResult{Text: testutil.DiffOutput, Analysis: diff.Analyze(testutil.DiffOutput)}
	return map[string]interface{}{
		"status":      &views.StatusView{Entries: entries},
		"managed":     &views.ManagedView{Files: []string{"/home/user/.bashrc"}},
		"diff":        views.NewDiffView(result, false),
		"diff-stat":   views.NewDiffView(result, true),
		"diff-empty":  views.NewDiffView(&chezmoi.DiffResult{}, false),
		"data":        views.NewDataView("json", tree),
		"diagnostics": &views.DiagnosticsView{Checks: checks, Summary: parser.Summary(checks)},
		"verify-ok":   &views.VerifyView{OK: true},
		"verify-bad":  &views.VerifyView{Message: "differs"},
		"version":     &views.VersionView{Client: views.ClientVersion{Version: "dev"}, Binary: version},
		"output":      &views.OutputView{Operation: "apply", DryRun: true, Output: "install .bashrc\n"},
		"config":      &views.ConfigView{Path: "/tmp/config.toml", Content: "[binary]\npath = \"chezmoi\"\n"},
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name        string
		format      ui.Format
		expectError bool
	}{
		{"terminal", ui.FormatTerminal, false},
		{"text", ui.FormatText, false},
		{"json", ui.FormatJSON, false},
		{"auto with buffer", ui.FormatAuto, false},
		{"invalid", ui.Format("yaml"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer, err := ui.NewRenderer(tt.format, &bytes.Buffer{})
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, renderer)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, renderer)
		})
	}
}

func TestRenderersHandleEveryView(t *testing.T) {
	for _, format := range []ui.Format{ui.FormatTerminal, ui.FormatText, ui.FormatJSON} {
		for name, view := range sampleViews(t) {
			t.Run(format.String()+"/"+name, func(t *testing.T) {
				buf := &bytes.Buffer{}
				renderer, err := ui.NewRenderer(format, buf)
				require.NoError(t, err)
				require.NoError(t, renderer.RenderResult(view))
				assert.NotEmpty(t, buf.String())
			})
		}
	}
}

func TestJSONRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatJSON, buf)
	require.NoError(t, err)

	t.Run("render message", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderMessage("hello world"))

		var result map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, "hello world", result["message"])
	})

	t.Run("render coded error", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderError(errors.NewCommandFailed("apply", 1, "boom")))

		var result struct {
			Error   string                 `json:"error"`
			Code    string                 `json:"code"`
			Details map[string]interface{} `json:"details"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, string(errors.ErrCommandFailed), result.Code)
		assert.Equal(t, "boom", result.Details[errors.DetailStderr])
		assert.NotContains(t, result.Error, "[")
	})

	t.Run("render status", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(sampleViews(t)["status"]))

		var result struct {
			Entries []struct {
				Last   string `json:"last"`
				Target string `json:"target"`
				Path   string `json:"path"`
			} `json:"entries"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		require.NotEmpty(t, result.Entries)
		assert.Equal(t, " ", result.Entries[0].Last)
		assert.Equal(t, "M", result.Entries[0].Target)
		assert.Equal(t, ".bashrc", result.Entries[0].Path)
	})

	t.Run("render diff keeps text and stats", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(sampleViews(t)["diff"]))

		var result struct {
			Diff     string        `json:"diff"`
			Analysis diff.Analysis `json:"analysis"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, testutil.DiffOutput, result.Diff)
		assert.Equal(t, 2, result.Analysis.Stats.FilesChanged)
	})
}

func TestTextRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatText, buf)
	require.NoError(t, err)

	t.Run("render message", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderMessage("hello world"))
		assert.Equal(t, "hello world\n", buf.String())
	})

	t.Run("render error with stderr", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderError(errors.NewCommandFailed("apply", 1, "chezmoi: boom")))
		assert.Contains(t, buf.String(), "Error: ")
		assert.Contains(t, buf.String(), "chezmoi: boom\n")
	})

	t.Run("render status", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(sampleViews(t)["status"]))
		assert.Contains(t, buf.String(), " M .bashrc\tmodified\n")
	})

	t.Run("render diff stat", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(sampleViews(t)["diff-stat"]))
		assert.Contains(t, buf.String(), "2 files changed, 5 insertions(+), 1 deletion(-)")
		assert.NotContains(t, buf.String(), "@@")
	})

	t.Run("render empty diff", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(sampleViews(t)["diff-empty"]))
		assert.Equal(t, "No differences\n", buf.String())
	})

	t.Run("render unknown result type", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(map[string]string{"foo": "bar"}))
		assert.Contains(t, buf.String(), "map[foo:bar]")
	})
}

func TestTerminalRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatTerminal, buf)
	require.NoError(t, err)

	t.Run("render diff stat", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(sampleViews(t)["diff-stat"]))
		assert.Contains(t, buf.String(), ".bashrc")
		assert.Contains(t, buf.String(), "2 files changed")
	})

	t.Run("render diagnostics", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(sampleViews(t)["diagnostics"]))
		assert.Contains(t, buf.String(), "Doctor")
	})

	t.Run("render error", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderError(assert.AnError))
		assert.Contains(t, buf.String(), assert.AnError.Error())
	})
}
