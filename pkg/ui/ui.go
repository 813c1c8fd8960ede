// Package ui renders command results as rich terminal output, plain text or
// JSON. Results are the view types from the views package.
package ui

import (
	"io"

	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/ui/json"
	"github.com/arthur-debert/chezui/pkg/ui/terminal"
	"github.com/arthur-debert/chezui/pkg/ui/text"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders a view from the views package
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates the renderer for format. FormatAuto is resolved
// against output first.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	if !format.valid() && format != "" {
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", format)
	}
	switch Resolve(format, output) {
	case FormatTerminal:
		return terminal.New(output)
	case FormatJSON:
		return json.New(output)
	default:
		return text.New(output)
	}
}
