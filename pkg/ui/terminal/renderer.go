// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/parser"
	"github.com/arthur-debert/chezui/pkg/style"
	"github.com/arthur-debert/chezui/pkg/ui/text"
	"github.com/arthur-debert/chezui/pkg/ui/views"
	"github.com/pterm/pterm"
)

// Renderer provides rich terminal output
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderResult renders a view with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *views.StatusView:
		return r.status(v)
	case *views.ManagedView:
		return r.managed(v)
	case *views.DiffView:
		return r.diff(v)
	case *views.DataView:
		return r.data(v)
	case *views.DiagnosticsView:
		return r.diagnostics(v)
	case *views.VerifyView:
		if v.OK {
			return r.println(style.SuccessIndicator, "Target state matches source")
		}
		return r.verifyFailed(v)
	case *views.VersionView:
		return r.version(v)
	case *views.OutputView:
		return r.command(v)
	case *views.ConfigView:
		return r.config(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	if e := r.println(style.ErrorIndicator, style.ErrorStyle.Render("Error:"), errors.UserMessage(err)); e != nil {
		return e
	}
	stderr, _ := errors.GetErrorDetails(err)[errors.DetailStderr].(string)
	if strings.TrimSpace(stderr) == "" {
		return nil
	}
	return r.println(style.Indent(style.MutedStyle.Render(strings.TrimRight(stderr, "\n")), 1))
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.println(style.InfoIndicator, msg)
}

func (r *Renderer) status(v *views.StatusView) error {
	if len(v.Entries) == 0 {
		return r.println(style.SuccessIndicator, "Nothing to apply")
	}

	data := pterm.TableData{{"", "Path", "State"}}
	for _, e := range v.Entries {
		codes := style.ForCode(rune(e.Last)).Render(string(rune(e.Last))) +
			style.ForCode(rune(e.Target)).Render(string(rune(e.Target)))
		data = append(data, []string{codes, e.Path, e.Description()})
	}
	if err := r.table(data); err != nil {
		return err
	}
	return r.println(style.MutedStyle.Render(fmt.Sprintf("%d of %d pending apply", v.Pending(), len(v.Entries))))
}

func (r *Renderer) managed(v *views.ManagedView) error {
	if err := r.println(style.SubtitleStyle.Render(fmt.Sprintf("Managed files (%d)", len(v.Files)))); err != nil {
		return err
	}
	for _, f := range v.Files {
		if err := r.println(" ", style.InfoIndicator, style.PathStyle.Render(f)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) diff(v *views.DiffView) error {
	if v.Empty() {
		return r.println(style.SuccessIndicator, "No differences")
	}
	if !v.StatOnly {
		if err := highlight(r.output, v.Text, "diff"); err != nil {
			return err
		}
		if !strings.HasSuffix(v.Text, "\n") {
			if err := r.println(); err != nil {
				return err
			}
		}
		if err := r.println(); err != nil {
			return err
		}
	}

	data := pterm.TableData{{"File", "+", "-"}}
	for _, f := range v.Analysis.PerFile {
		added := style.AddedStyle.Render(fmt.Sprintf("+%d", f.Additions))
		deleted := style.DeletedStyle.Render(fmt.Sprintf("-%d", f.Deletions))
		if f.Binary {
			added, deleted = style.MutedStyle.Render("binary"), ""
		}
		data = append(data, []string{f.Path, added, deleted})
	}
	if err := r.table(data); err != nil {
		return err
	}
	if err := r.println(style.SubtitleStyle.Render(text.Summary(v))); err != nil {
		return err
	}
	if v.ExportPath != "" {
		return r.println(style.SuccessIndicator, "Exported to", style.PathStyle.Render(v.ExportPath))
	}
	return nil
}

func (r *Renderer) data(v *views.DataView) error {
	if len(v.Entries) == 0 {
		return r.println(style.MutedStyle.Render("No template data"))
	}
	data := pterm.TableData{{"Key", "Value"}}
	for _, e := range v.Entries {
		data = append(data, []string{style.KeyStyle.Render(e.Key), e.Value})
	}
	return r.table(data)
}

func (r *Renderer) diagnostics(v *views.DiagnosticsView) error {
	if _, err := io.WriteString(r.output, renderMarkdown(doctorMarkdown(v))); err != nil {
		return err
	}

	counts := make([]string, 0, len(parser.DoctorResults))
	for _, result := range parser.DoctorResults {
		if n := v.Summary[result]; n > 0 {
			counts = append(counts, fmt.Sprintf("%s %d %s", style.ForDoctorResult(string(result)), n, result))
		}
	}
	if err := r.println(strings.Join(counts, "  ")); err != nil {
		return err
	}
	if v.Failed {
		return r.println(style.ErrorIndicator, style.ErrorStyle.Render("doctor reported failures"))
	}
	return nil
}

func (r *Renderer) verifyFailed(v *views.VerifyView) error {
	if err := r.println(style.WarningIndicator, style.WarningStyle.Render("Target state differs from source")); err != nil {
		return err
	}
	if msg := strings.TrimSpace(v.Message); msg != "" {
		return r.println(style.Indent(style.MutedStyle.Render(msg), 1))
	}
	return nil
}

func (r *Renderer) version(v *views.VersionView) error {
	client := v.Client.Version
	if v.Client.Commit != "" {
		client = fmt.Sprintf("%s (%s)", client, v.Client.Commit)
	}
	if err := r.println(pterm.Bold.Sprint("chezui "), client); err != nil {
		return err
	}
	if v.BinaryErr != "" {
		return r.println(pterm.Bold.Sprint("chezmoi"), style.ErrorStyle.Render(v.BinaryErr))
	}
	binary := v.Binary.Version
	if v.Binary.Commit != "" {
		binary = fmt.Sprintf("%s (%s)", binary, v.Binary.Commit)
	}
	return r.println(pterm.Bold.Sprint("chezmoi"), binary)
}

func (r *Renderer) command(v *views.OutputView) error {
	if v.DryRun {
		if err := r.println(style.WarningIndicator, style.WarningStyle.Render("Dry run, nothing was changed")); err != nil {
			return err
		}
	}
	out := strings.TrimRight(v.Output, "\n")
	if strings.TrimSpace(out) != "" {
		if err := r.println(out); err != nil {
			return err
		}
	}
	subject := v.Operation
	if v.Target != "" {
		subject += " " + style.PathStyle.Render(v.Target)
	}
	return r.println(style.SuccessIndicator, subject, "done")
}

func (r *Renderer) config(v *views.ConfigView) error {
	if v.Written {
		return r.println(style.SuccessIndicator, "Wrote", style.PathStyle.Render(v.Path))
	}
	if v.Path != "" {
		if err := r.println(style.MutedStyle.Render("# " + v.Path)); err != nil {
			return err
		}
	}
	return highlight(r.output, v.Content, "toml")
}

func (r *Renderer) table(data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render table")
	}
	return r.println(out)
}

func (r *Renderer) println(parts ...interface{}) error {
	_, err := fmt.Fprintln(r.output, parts...)
	return err
}
