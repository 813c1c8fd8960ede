package ui

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects a renderer
type Format string

const (
	// FormatAuto picks term or text for the destination, see Resolve
	FormatAuto Format = "auto"
	// FormatTerminal uses tables, colour and highlighting
	FormatTerminal Format = "term"
	// FormatText is plain output for pipes and scripts
	FormatText Format = "text"
	// FormatJSON writes one JSON document per result
	FormatJSON Format = "json"
)

var formatAliases = map[string]Format{
	"":         FormatAuto,
	"auto":     FormatAuto,
	"term":     FormatTerminal,
	"terminal": FormatTerminal,
	"text":     FormatText,
	"plain":    FormatText,
	"json":     FormatJSON,
}

// FormatNames lists the canonical format names, for flag completion
func FormatNames() []string {
	return []string{string(FormatAuto), string(FormatTerminal), string(FormatText), string(FormatJSON)}
}

func (f Format) String() string {
	if f == "" {
		return string(FormatAuto)
	}
	return string(f)
}

func (f Format) valid() bool {
	switch f {
	case FormatAuto, FormatTerminal, FormatText, FormatJSON:
		return true
	}
	return false
}

// ParseFormat accepts a format name or alias, ignoring case
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s).
		WithDetail("format", s)
}

// Resolve replaces FormatAuto with the format suited to w. Writers that are
// not files, such as buffers in tests, get plain text.
func Resolve(f Format, w io.Writer) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	file, ok := w.(*os.File)
	if !ok {
		return FormatText
	}
	return DetectFormat(file)
}

// DetectFormat chooses between term and text for output.
//
// NO_COLOR and TERM=dumb force text; CLICOLOR_FORCE forces term even when
// output is redirected. Otherwise a colour capable terminal gets term.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return FormatText
	}
	if v := os.Getenv("CLICOLOR_FORCE"); v != "" && v != "0" {
		return FormatTerminal
	}
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}
	if termenv.NewOutput(output).ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
