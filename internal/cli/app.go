package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/arthur-debert/chezui/pkg/chezmoi"
	"github.com/arthur-debert/chezui/pkg/config"
	"github.com/arthur-debert/chezui/pkg/coordinator"
	"github.com/arthur-debert/chezui/pkg/diff"
	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/arthur-debert/chezui/pkg/paths"
	"github.com/arthur-debert/chezui/pkg/registry"
	"github.com/arthur-debert/chezui/pkg/runner"
	"github.com/arthur-debert/chezui/pkg/service"
	"github.com/arthur-debert/chezui/pkg/ui"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long a command waits for in-flight jobs on exit
const shutdownTimeout = 5 * time.Second

// globalOptions holds the persistent flags
type globalOptions struct {
	verbosity int
	binary    string
	timeout   time.Duration
	format    string

	// executor replaces process execution, for tests
	executor runner.Executor
	// clipboard replaces the system clipboard, for tests
	clipboard func(string) error
}

// overrides turns the flags that were set into config keys
func (o *globalOptions) overrides(cmd *cobra.Command) map[string]interface{} {
	out := map[string]interface{}{}
	flags := cmd.Root().PersistentFlags()
	if flags.Changed("binary") {
		out["binary.path"] = o.binary
	}
	if flags.Changed("timeout") {
		out["binary.timeout"] = o.timeout.String()
	}
	if flags.Changed("format") {
		out["output.format"] = o.format
	}
	return out
}

// app is what a command needs to talk to chezmoi and print results
type app struct {
	cfg      *config.Config
	paths    paths.Paths
	svc      *service.Service
	renderer ui.Renderer
	format   ui.Format
	out      io.Writer
	spinner  bool
	logger   zerolog.Logger
}

func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(p, opts.overrides(cmd))
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	format = ui.Resolve(format, out)
	renderer, err := ui.NewRenderer(format, out)
	if err != nil {
		return nil, err
	}

	runnerOpts := []runner.Option{runner.WithDefaultTimeout(cfg.Binary.Timeout)}
	if opts.executor != nil {
		runnerOpts = append(runnerOpts, runner.WithExecutor(opts.executor))
	}
	home, _ := os.UserHomeDir()
	client := chezmoi.New(
		runner.New(cfg.Binary.Path, runnerOpts...),
		registry.New(home),
		chezmoi.WithTimeouts(cfg.TimeoutFor),
	)

	a := &app{
		cfg:      cfg,
		paths:    p,
		renderer: renderer,
		format:   format,
		out:      out,
		spinner:  format == ui.FormatTerminal && isatty.IsTerminal(os.Stderr.Fd()),
		logger:   logging.GetLogger("cli").With().Str("command", cmd.Name()).Logger(),
	}
	a.svc = service.New(client,
		service.WithExporter(diff.NewExporter(cfg.Export.Dir)),
		service.WithListener(a.onEvent),
	)
	return a, nil
}

func (a *app) onEvent(ev coordinator.Event) {
	a.logger.Debug().
		Uint64("id", ev.ID).
		Str("category", string(ev.Category)).
		Str("state", ev.State.String()).
		Dur("duration", ev.Duration).
		Msg("Operation finished")
}

// wait blocks on h with a spinner on interactive terminals. Interrupting
// the command cancels the handle.
func (a *app) wait(ctx context.Context, h *coordinator.Handle, label string) (interface{}, error) {
	if a.spinner {
		if sp, err := pterm.DefaultSpinner.WithWriter(os.Stderr).WithRemoveWhenDone(true).Start(label); err == nil {
			defer func() { _ = sp.Stop() }()
		}
	}

	value, err := h.Wait(ctx)
	if ctx.Err() != nil {
		h.Cancel()
		return nil, errors.NewCancelled(string(h.Category()))
	}
	return value, err
}

func (a *app) render(v interface{}) error {
	return a.renderer.RenderResult(v)
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.svc.Shutdown(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("Operations still running at exit")
	}
}

// withApp builds the app for one command invocation and tears it down after
func withApp(opts *globalOptions, fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, opts)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args, a)
	}
}
