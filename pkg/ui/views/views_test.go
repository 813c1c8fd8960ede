package views

import (
	"testing"

	"github.com/arthur-debert/chezui/pkg/chezmoi"
	"github.com/arthur-debert/chezui/pkg/diff"
	"github.com/arthur-debert/chezui/pkg/parser"
	"github.com/arthur-debert/chezui/pkg/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStatusView_Pending(t *testing.T) {
	entries, err := parser.ParseStatus(testutil.StatusOutput)
	assert.NoError(t, err)

	v := &StatusView{Entries: entries}
	want := 0
	for _, e := range entries {
		if e.Target != parser.StatusUnchanged {
			want++
		}
	}
	assert.Equal(t, want, v.Pending())
	assert.Zero(t, (&StatusView{}).Pending())
}

func TestNewDiffView(t *testing.T) {
	r := &chezmoi.DiffResult{Text: testutil.DiffOutput, Analysis: diff.Analyze(testutil.DiffOutput)}

	full := NewDiffView(r, false)
	assert.Equal(t, testutil.DiffOutput, full.Text)
	assert.False(t, full.Empty())

	stat := NewDiffView(r, true)
	assert.Empty(t, stat.Text)
	assert.Equal(t, 2, stat.Analysis.Stats.FilesChanged)
	assert.False(t, stat.Empty())

	assert.True(t, NewDiffView(nil, false).Empty())
}

func TestNewDataView(t *testing.T) {
	v := NewDataView("json", map[string]interface{}{
		"chezmoi": map[string]interface{}{"os": "linux"},
	})
	assert.Equal(t, []parser.DataEntry{{Key: "chezmoi.os", Value: "linux"}}, v.Entries)
}

func TestDiagnosticsView_Healthy(t *testing.T) {
	ok := []parser.DoctorCheck{{Result: parser.DoctorOK, Check: "version"}}
	assert.True(t, (&DiagnosticsView{Checks: ok, Summary: parser.Summary(ok)}).Healthy())
	assert.False(t, (&DiagnosticsView{Checks: ok, Summary: parser.Summary(ok), Failed: true}).Healthy())

	bad := []parser.DoctorCheck{{Result: parser.DoctorError, Check: "config-file"}}
	assert.False(t, (&DiagnosticsView{Checks: bad, Summary: parser.Summary(bad)}).Healthy())
}
