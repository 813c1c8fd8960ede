package terminal

import (
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// highlight writes source colored for language. Unknown languages and lexer
// failures fall back to the plain source.
func highlight(w io.Writer, source, language string) error {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		_, err = io.WriteString(w, source)
		return err
	}
	return formatter().Format(w, chromaStyle(), iterator)
}

func chromaStyle() *chroma.Style {
	name := "github"
	if lipgloss.HasDarkBackground() {
		name = "github-dark"
	}
	if s := styles.Get(name); s != nil {
		return s
	}
	return styles.Fallback
}

func formatter() chroma.Formatter {
	if f := formatters.Get("terminal256"); f != nil {
		return f
	}
	return formatters.Fallback
}
