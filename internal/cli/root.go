package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/arthur-debert/chezui/internal/version"
	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/arthur-debert/chezui/pkg/runner"
	"github.com/arthur-debert/chezui/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Option customises the root command, mainly for tests
type Option func(*globalOptions)

// WithExecutor runs chezmoi through e instead of spawning processes
func WithExecutor(e runner.Executor) Option {
	return func(o *globalOptions) {
		o.executor = e
	}
}

// WithClipboard replaces the system clipboard writer
func WithClipboard(fn func(string) error) Option {
	return func(o *globalOptions) {
		o.clipboard = fn
	}
}

// NewRootCmd creates and returns the root command
func NewRootCmd(options ...Option) *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}
	for _, o := range options {
		o(opts)
	}

	rootCmd := &cobra.Command{
		Use:     "chezui",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.binary, "binary", "", MsgFlagBinary)
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, MsgFlagTimeout)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "", MsgFlagFormat)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "inspect", Title: "INSPECT:"})
	rootCmd.AddGroup(&cobra.Group{ID: "change", Title: "CHANGE:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newManagedCmd(opts))
	rootCmd.AddCommand(newDiffCmd(opts))
	rootCmd.AddCommand(newDataCmd(opts))
	rootCmd.AddCommand(newDoctorCmd(opts))
	rootCmd.AddCommand(newVerifyCmd(opts))
	rootCmd.AddCommand(newApplyCmd(opts))
	rootCmd.AddCommand(newUpdateCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newAddCmd(opts))
	rootCmd.AddCommand(newRemoveCmd(opts))
	rootCmd.AddCommand(newTUICmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd(opts))
	rootCmd.AddCommand(newCompletionCmd())

	installTopics(rootCmd)

	return rootCmd
}

// exitError ends the process with code without printing anything more
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return "exit status " + strconv.Itoa(e.code)
}

// Execute runs the root command and returns the process exit code. Errors
// are rendered to stderr in the requested output format.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(ctx context.Context, rootCmd *cobra.Command, args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	var exit *exitError
	if stderrors.As(err, &exit) {
		return exit.code
	}

	if cmd == nil {
		cmd = rootCmd
	}
	format := ui.FormatAuto
	if f, _ := cmd.Root().PersistentFlags().GetString("format"); f != "" {
		if parsed, perr := ui.ParseFormat(f); perr == nil {
			format = parsed
		}
	}
	renderer, rerr := ui.NewRenderer(format, stderr)
	if rerr != nil {
		return 1
	}
	_ = renderer.RenderError(err)

	if errors.IsErrorCode(err, errors.ErrBinaryNotFound) {
		return 127
	}
	return 1
}
