// Package views holds the values command handlers hand to a ui.Renderer.
// Each view carries JSON tags so the json renderer can encode it as is.
package views

import (
	"github.com/arthur-debert/chezui/pkg/chezmoi"
	"github.com/arthur-debert/chezui/pkg/diff"
	"github.com/arthur-debert/chezui/pkg/parser"
)

// StatusView lists files whose state differs from the source
type StatusView struct {
	Entries []parser.StatusEntry `json:"entries"`
}

// Pending counts the entries apply would touch
func (v *StatusView) Pending() int {
	n := 0
	for _, e := range v.Entries {
		if e.PendingApply() {
			n++
		}
	}
	return n
}

// ManagedView lists managed target paths
type ManagedView struct {
	Files []string `json:"files"`
}

// DiffView is a diff, optionally reduced to its statistics
type DiffView struct {
	Target   string        `json:"target,omitempty"`
	Text     string        `json:"diff,omitempty"`
	Analysis diff.Analysis `json:"analysis"`
	StatOnly bool          `json:"-"`
	// ExportPath is set when the diff was also written to a patch file
	ExportPath string `json:"exportPath,omitempty"`
}

// NewDiffView builds a view from a client result
func NewDiffView(r *chezmoi.DiffResult, statOnly bool) *DiffView {
	v := &DiffView{StatOnly: statOnly}
	if r == nil {
		return v
	}
	v.Target = r.Target
	v.Analysis = r.Analysis
	if !statOnly {
		v.Text = r.Text
	}
	return v
}

// Empty reports whether there are no changes
func (v *DiffView) Empty() bool {
	return v.Analysis.Stats.FilesChanged == 0 && v.Text == ""
}

// DataView is the template data, as a tree and flattened
type DataView struct {
	Format  string                 `json:"format"`
	Tree    map[string]interface{} `json:"data"`
	Entries []parser.DataEntry     `json:"-"`
}

// NewDataView flattens tree for display
func NewDataView(format string, tree map[string]interface{}) *DataView {
	return &DataView{Format: format, Tree: tree, Entries: parser.FlattenData(tree)}
}

// DiagnosticsView is the doctor table
type DiagnosticsView struct {
	Checks  []parser.DoctorCheck `json:"checks"`
	Summary parser.DoctorSummary `json:"summary"`
	Failed  bool                 `json:"failed"`
}

// Healthy reports whether the run passed and no check is a problem
func (v *DiagnosticsView) Healthy() bool {
	return !v.Failed && v.Summary.Healthy()
}

// VerifyView is the outcome of verify
type VerifyView struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// VersionView pairs our own version with the binary's
type VersionView struct {
	Client ClientVersion  `json:"chezui"`
	Binary parser.Version `json:"chezmoi"`
	// BinaryErr is set when the binary version could not be read
	BinaryErr string `json:"chezmoiError,omitempty"`
}

// ClientVersion describes this build
type ClientVersion struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
}

// OutputView is the verbatim output of a mutating command
type OutputView struct {
	Operation string `json:"operation"`
	Target    string `json:"target,omitempty"`
	DryRun    bool   `json:"dryRun,omitempty"`
	Output    string `json:"output"`
}

// ConfigView is a rendered configuration document
type ConfigView struct {
	Path    string `json:"path,omitempty"`
	Content string `json:"content"`
	// Written is set by config init
	Written bool `json:"written,omitempty"`
}
