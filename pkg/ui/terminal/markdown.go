package terminal

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/chezui/pkg/ui/views"
	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders content with glamour, returning it untouched when
// glamour cannot be set up.
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// doctorMarkdown lays out the doctor checks as a markdown document, problems
// first.
func doctorMarkdown(v *views.DiagnosticsView) string {
	var b strings.Builder
	b.WriteString("# Doctor\n\n")

	var problems, rest []string
	for _, c := range v.Checks {
		item := fmt.Sprintf("- **%s** %s", escape(c.Check), escape(c.Message))
		if c.Problem() {
			problems = append(problems, fmt.Sprintf("%s (_%s_)", item, c.Result))
		} else {
			rest = append(rest, fmt.Sprintf("%s (_%s_)", item, c.Result))
		}
	}
	if len(problems) > 0 {
		b.WriteString("## Needs attention\n\n")
		b.WriteString(strings.Join(problems, "\n"))
		b.WriteString("\n\n")
	}
	if len(rest) > 0 {
		b.WriteString("## Checks\n\n")
		b.WriteString(strings.Join(rest, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "#", `\#`)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
