package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/chezui/internal/version"
	"github.com/arthur-debert/chezui/pkg/chezmoi"
	"github.com/arthur-debert/chezui/pkg/config"
	"github.com/arthur-debert/chezui/pkg/coordinator"
	"github.com/arthur-debert/chezui/pkg/diff"
	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/arthur-debert/chezui/pkg/parser"
	"github.com/arthur-debert/chezui/pkg/paths"
	"github.com/arthur-debert/chezui/pkg/service"
	"github.com/arthur-debert/chezui/pkg/tui"
	"github.com/arthur-debert/chezui/pkg/ui"
	"github.com/arthur-debert/chezui/pkg/ui/views"
	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// await waits for h and asserts its value to T
func await[T any](ctx context.Context, a *app, h *coordinator.Handle, label string) (T, error) {
	var zero T
	v, err := a.wait(ctx, h, label)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.Newf(errors.ErrInternal, "%s produced %T, want %T", h.Category(), v, zero)
	}
	return typed, nil
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "status [targets...]",
		Short:   MsgStatusShort,
		GroupID: "inspect",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			entries, err := await[[]parser.StatusEntry](cmd.Context(), a, a.svc.GetStatus(args...), "Reading status")
			if err != nil {
				return err
			}
			return a.render(&views.StatusView{Entries: entries})
		}),
	}
}

func newManagedCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "managed",
		Short:   MsgManagedShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			files, err := await[[]string](cmd.Context(), a, a.svc.GetManagedFiles(), "Listing managed files")
			if err != nil {
				return err
			}
			return a.render(&views.ManagedView{Files: files})
		}),
	}
}

func newDiffCmd(opts *globalOptions) *cobra.Command {
	var (
		stat    bool
		export  bool
		copyOut bool
		against string
	)

	cmd := &cobra.Command{
		Use:     "diff [target]",
		Short:   MsgDiffShort,
		Long:    MsgDiffLong,
		Example: MsgDiffExample,
		GroupID: "inspect",
		Args:    cobra.MaximumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			var target string
			if len(args) == 1 {
				target = args[0]
			}

			var (
				result *chezmoi.DiffResult
				err    error
			)
			if against != "" {
				result, err = compareFiles(target, against)
			} else {
				result, err = await[*chezmoi.DiffResult](cmd.Context(), a, a.svc.GetDiff(target), "Computing diff")
			}
			if err != nil {
				return err
			}

			view := views.NewDiffView(result, stat)
			if export && !result.Empty() {
				path, err := a.svc.ExportDiff(result.Text)
				if err != nil {
					return err
				}
				view.ExportPath = path
			}
			if err := a.render(view); err != nil {
				return err
			}

			if copyOut {
				return copyDiff(a, opts, result.Text)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&stat, "stat", false, MsgFlagStat)
	cmd.Flags().BoolVar(&export, "export", false, MsgFlagExport)
	cmd.Flags().BoolVar(&copyOut, "copy", false, MsgFlagCopy)
	cmd.Flags().StringVar(&against, "against", "", MsgFlagAgainst)
	return cmd
}

// compareFiles diffs other against target without running chezmoi
func compareFiles(target, other string) (*chezmoi.DiffResult, error) {
	if target == "" {
		return nil, errors.New(errors.ErrInvalidInput, "--against needs a target")
	}
	target = paths.ExpandHome(target)
	other = paths.ExpandHome(other)

	oldContent, err := os.ReadFile(other)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", other).
			WithDetail(errors.DetailPath, other)
	}
	newContent, err := os.ReadFile(target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", target).
			WithDetail(errors.DetailPath, target)
	}

	text, err := diff.Unified(filepath.Base(target), string(oldContent), string(newContent))
	if err != nil {
		return nil, err
	}
	return &chezmoi.DiffResult{Target: target, Text: text, Analysis: diff.Analyze(text)}, nil
}

func copyDiff(a *app, opts *globalOptions, text string) error {
	if text == "" {
		return a.renderer.RenderMessage(MsgNothingToCopy)
	}
	write := opts.clipboard
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(text); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to copy diff to clipboard")
	}
	if a.format == ui.FormatJSON {
		return nil
	}
	return a.renderer.RenderMessage(MsgCopiedDiff)
}

func newApplyCmd(opts *globalOptions) *cobra.Command {
	var applyOpts chezmoi.ApplyOptions

	cmd := &cobra.Command{
		Use:     "apply [targets...]",
		Short:   MsgApplyShort,
		GroupID: "change",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			applyOpts.Targets = args
			applyOpts.Verbose = opts.verbosity > 0
			out, err := await[string](cmd.Context(), a, a.svc.ApplyWith(applyOpts), "Applying")
			if err != nil {
				return err
			}
			return a.render(&views.OutputView{Operation: "apply", DryRun: applyOpts.DryRun, Output: out})
		}),
	}

	cmd.Flags().BoolVarP(&applyOpts.DryRun, "dry-run", "n", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&applyOpts.Force, "force", false, MsgFlagForce)
	return cmd
}

func newUpdateCmd(opts *globalOptions) *cobra.Command {
	var noApply bool

	cmd := &cobra.Command{
		Use:     "update",
		Short:   MsgUpdateShort,
		GroupID: "change",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			out, err := await[string](cmd.Context(), a, a.svc.Update(!noApply), "Updating")
			if err != nil {
				return err
			}
			return a.render(&views.OutputView{Operation: "update", Output: out})
		}),
	}

	cmd.Flags().BoolVar(&noApply, "no-apply", false, MsgFlagNoApply)
	return cmd
}

func newInitCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "init [repo]",
		Short:   MsgInitShort,
		Example: MsgInitExample,
		GroupID: "change",
		Args:    cobra.MaximumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			var repo string
			if len(args) == 1 {
				repo = args[0]
			}
			out, err := await[string](cmd.Context(), a, a.svc.Init(repo), "Initialising")
			if err != nil {
				return err
			}
			return a.render(&views.OutputView{Operation: "init", Target: repo, Output: out})
		}),
	}
}

func newAddCmd(opts *globalOptions) *cobra.Command {
	var addOpts chezmoi.AddOptions

	cmd := &cobra.Command{
		Use:     "add PATH",
		Short:   MsgAddShort,
		Example: MsgAddExample,
		GroupID: "change",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			path := args[0]
			// The conflict check needs a current registry
			if _, err := await[[]string](cmd.Context(), a, a.svc.GetManagedFiles(), "Listing managed files"); err != nil {
				return err
			}

			h, err := a.svc.Add(path, addOpts)
			if err != nil {
				return err
			}
			out, err := await[string](cmd.Context(), a, h, "Adding "+path)
			if err != nil {
				return err
			}
			return a.render(&views.OutputView{Operation: "add", Target: path, Output: out})
		}),
	}

	flags := cmd.Flags()
	flags.BoolVarP(&addOpts.Template, "template", "T", false, "Add as a template")
	flags.BoolVar(&addOpts.AutoTemplate, "autotemplate", false, "Generate the template from the file contents")
	flags.BoolVar(&addOpts.Encrypt, "encrypt", false, "Encrypt the file in the source state")
	flags.BoolVar(&addOpts.NoRecursive, "no-recursive", false, "Do not recurse into directories")
	flags.BoolVar(&addOpts.Exact, "exact", false, "Add directories as exact")
	flags.BoolVar(&addOpts.Follow, "follow", false, "Add symlink targets instead of symlinks")
	flags.BoolVar(&addOpts.Create, "create", false, "Add as a create-only file")
	return cmd
}

func newRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove PATH",
		Aliases: []string{"rm", "forget"},
		Short:   MsgRemoveShort,
		GroupID: "change",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			out, err := await[string](cmd.Context(), a, a.svc.Remove(args[0]), "Removing "+args[0])
			if err != nil {
				return err
			}
			return a.render(&views.OutputView{Operation: "remove", Target: args[0], Output: out})
		}),
	}
}

func newDataCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "data",
		Short:   MsgDataShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			if format == "" {
				format = a.cfg.Data.Format
			}
			tree, err := await[map[string]interface{}](cmd.Context(), a, a.svc.GetTemplateData(format), "Reading template data")
			if err != nil {
				return err
			}
			return a.render(views.NewDataView(format, tree))
		}),
	}

	cmd.Flags().StringVar(&format, "data-format", "", MsgFlagDataFmt)
	return cmd
}

func newDoctorCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Short:   MsgDoctorShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			report, err := await[*service.DiagnosticsReport](cmd.Context(), a, a.svc.RunDiagnostics(), "Running doctor")
			if err != nil {
				return err
			}
			if err := a.render(&views.DiagnosticsView{Checks: report.Checks, Summary: report.Summary, Failed: report.Failed}); err != nil {
				return err
			}
			if report.Failed {
				return &exitError{code: 1}
			}
			return nil
		}),
	}
}

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "verify",
		Short:   MsgVerifyShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			result, err := await[service.VerifyResult](cmd.Context(), a, a.svc.Verify(), "Verifying")
			if err != nil {
				return err
			}
			if err := a.render(&views.VerifyView{OK: result.OK, Message: result.Message}); err != nil {
				return err
			}
			if !result.OK {
				log.Info().Msg(MsgVerifyMismatch)
				return &exitError{code: 1}
			}
			return nil
		}),
	}
}

func newTUICmd(opts *globalOptions) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:     "tui",
		Short:   MsgTUIShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		// Console logging would draw over the screen
		PreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupFileLogger(opts.verbosity)
		},
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			return tui.Run(cmd.Context(), a.svc, tui.Options{
				Watch:    a.cfg.Watch.Enabled && !noWatch,
				Debounce: a.cfg.Watch.Debounce,
			})
		}),
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false, MsgFlagNoWatch)
	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: MsgConfigShow,
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			content, err := config.Generate(a.cfg)
			if err != nil {
				return err
			}
			return a.render(&views.ConfigView{Path: a.paths.ConfigFile(), Content: string(content)})
		}),
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInit,
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			path := a.paths.ConfigFile()
			if err := config.WriteFile(a.cfg, path, force); err != nil {
				return err
			}
			return a.render(&views.ConfigView{Path: path, Written: true})
		}),
	}
	initCmd.Flags().BoolVar(&force, "force", false, MsgFlagOverride)
	cmd.AddCommand(initCmd)

	return cmd
}

func newVersionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			view := &views.VersionView{Client: views.ClientVersion{
				Version: version.Version,
				Commit:  version.Commit,
				Date:    version.Date,
			}}
			binary, err := await[parser.Version](cmd.Context(), a, a.svc.Version(), "Reading chezmoi version")
			if err != nil {
				view.BinaryErr = errors.UserMessage(err)
			} else {
				view.Binary = binary
			}
			return a.render(view)
		}),
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}
