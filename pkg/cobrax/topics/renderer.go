package topics

import (
	"github.com/charmbracelet/glamour"
)

// Renderer formats topic content for display
type Renderer interface {
	// Render returns content formatted for the terminal. ext is the topic
	// file's extension, including the dot.
	Render(content, ext string) string
}

// PlainRenderer prints topics as they are
type PlainRenderer struct{}

// Render returns content unchanged
func (PlainRenderer) Render(content, _ string) string {
	return content
}

// GlamourRenderer renders markdown topics with glamour
type GlamourRenderer struct {
	Style string // glamour style name or path, "" for auto detection
	Width int    // word wrap, 0 for glamour's default
}

// Render formats .md content; other topics pass through
func (r GlamourRenderer) Render(content, ext string) string {
	if ext != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	if r.Style == "" || r.Style == "auto" {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	tr, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := tr.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
