// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/ui/views"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *views.StatusView:
		return r.status(v)
	case *views.ManagedView:
		return r.lines(v.Files)
	case *views.DiffView:
		return r.diff(v)
	case *views.DataView:
		for _, e := range v.Entries {
			if err := r.printf("%s = %s\n", e.Key, e.Value); err != nil {
				return err
			}
		}
		return nil
	case *views.DiagnosticsView:
		return r.diagnostics(v)
	case *views.VerifyView:
		if v.OK {
			return r.printf("ok: target state matches source\n")
		}
		return r.printf("differs: %s\n", firstLine(v.Message, "target state differs from source"))
	case *views.VersionView:
		return r.version(v)
	case *views.OutputView:
		return r.command(v)
	case *views.ConfigView:
		if v.Written {
			return r.printf("wrote %s\n", v.Path)
		}
		return r.printf("%s", ensureNewline(v.Content))
	default:
		return r.printf("%+v\n", result)
	}
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	if err := r.printf("Error: %s\n", errors.UserMessage(err)); err != nil {
		return err
	}
	if stderr, ok := errors.GetErrorDetails(err)[errors.DetailStderr].(string); ok && strings.TrimSpace(stderr) != "" {
		return r.printf("%s", ensureNewline(stderr))
	}
	return nil
}

// RenderMessage renders a simple message as plain text
func (r *Renderer) RenderMessage(msg string) error {
	return r.printf("%s\n", msg)
}

func (r *Renderer) status(v *views.StatusView) error {
	if len(v.Entries) == 0 {
		return r.printf("Nothing to apply\n")
	}
	for _, e := range v.Entries {
		if err := r.printf("%c%c %s\t%s\n", rune(e.Last), rune(e.Target), e.Path, e.Description()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) diff(v *views.DiffView) error {
	if v.Empty() {
		return r.printf("No differences\n")
	}
	if !v.StatOnly {
		if err := r.printf("%s", ensureNewline(v.Text)); err != nil {
			return err
		}
	} else {
		for _, f := range v.Analysis.PerFile {
			if err := r.printf(" %s | +%d -%d\n", f.Path, f.Additions, f.Deletions); err != nil {
				return err
			}
		}
	}
	if err := r.printf("%s\n", Summary(v)); err != nil {
		return err
	}
	if v.ExportPath != "" {
		return r.printf("exported to %s\n", v.ExportPath)
	}
	return nil
}

func (r *Renderer) diagnostics(v *views.DiagnosticsView) error {
	for _, c := range v.Checks {
		if err := r.printf("%-8s %-24s %s\n", c.Result, c.Check, c.Message); err != nil {
			return err
		}
	}
	if v.Failed {
		return r.printf("doctor reported failures\n")
	}
	return nil
}

func (r *Renderer) version(v *views.VersionView) error {
	if err := r.printf("chezui %s\n", v.Client.Version); err != nil {
		return err
	}
	if v.BinaryErr != "" {
		return r.printf("chezmoi unavailable: %s\n", v.BinaryErr)
	}
	return r.printf("chezmoi %s\n", v.Binary.Version)
}

func (r *Renderer) command(v *views.OutputView) error {
	if v.DryRun {
		if err := r.printf("(dry run)\n"); err != nil {
			return err
		}
	}
	if strings.TrimSpace(v.Output) == "" {
		return r.printf("%s: done\n", v.Operation)
	}
	return r.printf("%s", ensureNewline(v.Output))
}

func (r *Renderer) lines(items []string) error {
	for _, item := range items {
		if err := r.printf("%s\n", item); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(r.output, format, args...)
	return err
}

// Summary is the git-style one-line summary of a diff
func Summary(v *views.DiffView) string {
	s := v.Analysis.Stats
	return fmt.Sprintf("%d %s changed, %d %s(+), %d %s(-)",
		s.FilesChanged, plural(s.FilesChanged, "file", "files"),
		s.Additions, plural(s.Additions, "insertion", "insertions"),
		s.Deletions, plural(s.Deletions, "deletion", "deletions"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func firstLine(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
