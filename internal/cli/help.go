package cli

import (
	"embed"
	"io/fs"

	"github.com/arthur-debert/chezui/pkg/cobrax/topics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// installTopics adds "help <topic>" for the markdown files in topics/
func installTopics(rootCmd *cobra.Command) {
	fsys, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
		return
	}
	tm, err := topics.New(fsys, topics.Options{
		Renderer: topics.GlamourRenderer{},
		GroupID:  "misc",
	})
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
		return
	}
	tm.Install(rootCmd)
}
