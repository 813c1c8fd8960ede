package tui

import (
	"context"
	"strings"
	"time"

	"github.com/arthur-debert/chezui/pkg/coordinator"
	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/arthur-debert/chezui/pkg/service"
	"github.com/arthur-debert/chezui/pkg/watch"
	tea "github.com/charmbracelet/bubbletea"
)

// sourceLookupTimeout bounds the source-path call made before watching
const sourceLookupTimeout = 10 * time.Second

// Options configures Run
type Options struct {
	// Watch refreshes the view when the source directory changes
	Watch bool
	// SourceDir overrides the directory reported by source-path
	SourceDir string
	Debounce  time.Duration
}

// Run shows the interactive view until the user quits or ctx ends.
// Log output must already be routed away from the terminal.
func Run(ctx context.Context, svc *service.Service, opts Options) error {
	logger := logging.GetLogger("tui")
	p := tea.NewProgram(New(svc), tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.Watch {
		w, err := startWatcher(ctx, svc, opts, func() { p.Send(SourceChangedMsg{}) })
		if err != nil {
			logger.Warn().Err(err).Msg("Not watching source directory")
		} else {
			defer func() {
				if err := w.Close(); err != nil {
					logger.Debug().Err(err).Msg("Closing watcher")
				}
			}()
		}
	}

	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "interactive view failed")
	}
	return nil
}

func startWatcher(ctx context.Context, svc *service.Service, opts Options, onChange func()) (*watch.Watcher, error) {
	dir := opts.SourceDir
	if dir == "" {
		lookupCtx, cancel := context.WithTimeout(ctx, sourceLookupTimeout)
		defer cancel()
		found, err := coordinator.Await[string](lookupCtx, svc.SourceDir())
		if err != nil {
			return nil, err
		}
		dir = strings.TrimSpace(found)
	}
	return watch.New(dir, opts.Debounce, svc.Client().Registry(), onChange)
}
