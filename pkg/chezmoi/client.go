package chezmoi

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/chezui/pkg/coordinator"
	"github.com/arthur-debert/chezui/pkg/diff"
	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/arthur-debert/chezui/pkg/parser"
	"github.com/arthur-debert/chezui/pkg/paths"
	"github.com/arthur-debert/chezui/pkg/registry"
	"github.com/arthur-debert/chezui/pkg/runner"
	"github.com/rs/zerolog"
)

// TimeoutPolicy returns the timeout for a category; zero means the runner
// default.
type TimeoutPolicy func(category string) time.Duration

// Client runs chezmoi subcommands and returns typed results. Calls block;
// background execution is the coordinator's job.
type Client struct {
	runner   *runner.Runner
	registry *registry.Registry
	timeouts TimeoutPolicy
	logger   zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeouts sets the per-category timeout policy
func WithTimeouts(p TimeoutPolicy) Option {
	return func(c *Client) {
		c.timeouts = p
	}
}

// New creates a client running r and keeping reg in sync with the managed
// file listing.
func New(r *runner.Runner, reg *registry.Registry, opts ...Option) *Client {
	c := &Client{
		runner:   r,
		registry: reg,
		timeouts: func(string) time.Duration { return 0 },
		logger:   logging.GetLogger("chezmoi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the managed file registry
func (c *Client) Registry() *registry.Registry {
	return c.registry
}

// Runner returns the underlying runner
func (c *Client) Runner() *runner.Runner {
	return c.runner
}

func (c *Client) request(category coordinator.Category, operation string, opts ...runner.RequestOption) runner.Request {
	all := append([]runner.RequestOption{runner.WithTimeout(c.timeouts(string(category)))}, opts...)
	return runner.NewRequest(operation, all...)
}

// run executes the request and returns stdout or the taxonomy error
func (c *Client) run(ctx context.Context, category coordinator.Category, operation string, opts ...runner.RequestOption) (string, error) {
	defer logging.LogOperationStart(c.logger, operation)()
	out := c.runner.Execute(ctx, c.request(category, operation, opts...))
	if err := out.Err(); err != nil {
		return "", err
	}
	return out.Stdout(), nil
}

// Status lists entries that differ between source, destination and the
// last applied state. Targets restrict the listing.
func (c *Client) Status(ctx context.Context, targets ...string) ([]parser.StatusEntry, error) {
	stdout, err := c.run(ctx, coordinator.CategoryStatus, "status", runner.WithArgs(targets...))
	if err != nil {
		return nil, err
	}
	return parser.ParseStatus(stdout)
}

// Managed lists managed files as absolute paths and refreshes the registry
// with the result.
func (c *Client) Managed(ctx context.Context) ([]string, error) {
	stdout, err := c.run(ctx, coordinator.CategoryManaged, "managed",
		runner.WithArgs("--format", "json", "--path-style", "absolute"))
	if err != nil {
		return nil, err
	}

	files, err := parser.ParseManagedFiles(stdout)
	if err != nil {
		return nil, err
	}
	c.registry.Refresh(files)
	return files, nil
}

// DiffResult holds the raw diff and its analysis
type DiffResult struct {
	Target   string        `json:"target,omitempty"`
	Text     string        `json:"-"`
	Analysis diff.Analysis `json:"analysis"`
}

// Empty reports whether there is nothing to apply
func (r *DiffResult) Empty() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Diff shows what apply would change, for one target or everything
func (c *Client) Diff(ctx context.Context, target string) (*DiffResult, error) {
	stdout, err := c.run(ctx, coordinator.CategoryDiff, "diff",
		runner.WithArgs("--no-pager"), runner.WithTarget(target))
	if err != nil {
		return nil, err
	}
	return &DiffResult{
		Target:   target,
		Text:     stdout,
		Analysis: diff.Analyze(stdout),
	}, nil
}

// ApplyOptions controls apply
type ApplyOptions struct {
	Targets []string
	DryRun  bool
	Verbose bool
	// Force overwrites destination files changed since the last apply
	// instead of prompting.
	Force bool
}

// Apply updates destination files to match the source state and returns
// chezmoi's output.
func (c *Client) Apply(ctx context.Context, opts ApplyOptions) (string, error) {
	var args []string
	if opts.Verbose {
		args = append(args, "--verbose")
	}
	if opts.DryRun {
		args = append(args, "--dry-run")
	}
	if opts.Force {
		args = append(args, "--force")
	}
	args = append(args, opts.Targets...)

	c.logger.Info().Strs("targets", opts.Targets).Bool("dryRun", opts.DryRun).Msg("Applying")
	return c.run(ctx, coordinator.CategoryApply, "apply", runner.WithArgs(args...))
}

// AddOptions mirror the flags of chezmoi add
type AddOptions struct {
	Template     bool
	Encrypt      bool
	NoRecursive  bool
	Exact        bool
	AutoTemplate bool
	Follow       bool
	Create       bool
}

func (o AddOptions) args() []string {
	var args []string
	if o.Template {
		args = append(args, "--template")
	}
	if o.Encrypt {
		args = append(args, "--encrypt")
	}
	if o.NoRecursive {
		args = append(args, "--recursive=false")
	}
	if o.Exact {
		args = append(args, "--exact")
	}
	if o.AutoTemplate {
		args = append(args, "--autotemplate")
	}
	if o.Follow {
		args = append(args, "--follow")
	}
	if o.Create {
		args = append(args, "--create")
	}
	return args
}

// Validate rejects flag combinations chezmoi refuses
func (o AddOptions) Validate() error {
	if o.Template && o.AutoTemplate {
		return errors.New(errors.ErrInvalidInput, "--template and --autotemplate are mutually exclusive")
	}
	if o.Encrypt && (o.Template || o.AutoTemplate) {
		return errors.New(errors.ErrInvalidInput, "encrypted files cannot be added as templates")
	}
	return nil
}

// CheckAddable returns a CONFLICT error when path is already in the registry
// snapshot. It never spawns a process.
func (c *Client) CheckAddable(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "no path given")
	}
	if c.registry.Contains(path) {
		return errors.NewConflict(path)
	}
	return nil
}

// Add brings path under management. A path already in the registry fails
// with CONFLICT before any process starts. The registry is stale afterwards.
func (c *Client) Add(ctx context.Context, path string, opts AddOptions) (string, error) {
	if err := c.CheckAddable(path); err != nil {
		return "", err
	}
	if err := opts.Validate(); err != nil {
		return "", err
	}

	target, err := absolute(path)
	if err != nil {
		return "", err
	}

	c.logger.Info().Str("path", target).Msg("Adding")
	stdout, err := c.run(ctx, coordinator.CategoryAddRemove, "add",
		runner.WithArgs(opts.args()...), runner.WithTarget(target))
	if err == nil {
		c.registry.Invalidate()
	}
	return stdout, err
}

// Remove stops managing path without prompting. The registry is stale
// afterwards.
func (c *Client) Remove(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "no path given")
	}
	target, err := absolute(path)
	if err != nil {
		return "", err
	}

	c.logger.Info().Str("path", target).Msg("Removing")
	stdout, err := c.run(ctx, coordinator.CategoryAddRemove, "remove",
		runner.WithArgs("--force"), runner.WithTarget(target))
	if err == nil {
		c.registry.Invalidate()
	}
	return stdout, err
}

// Data returns the template data tree. format is json or yaml.
func (c *Client) Data(ctx context.Context, format string) (map[string]interface{}, error) {
	if format == "" {
		format = parser.FormatJSON
	}
	if format != parser.FormatJSON && format != parser.FormatYAML {
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported data format %q", format)
	}
	stdout, err := c.run(ctx, coordinator.CategoryData, "data", runner.WithArgs("--format", format))
	if err != nil {
		return nil, err
	}
	return parser.ParseTemplateData(stdout, format)
}

// Doctor runs chezmoi's self checks. doctor exits non-zero when a check
// fails; the parsed table is still returned alongside the error then.
func (c *Client) Doctor(ctx context.Context) ([]parser.DoctorCheck, error) {
	out := c.runner.Execute(ctx, c.request(coordinator.CategoryDiagnostics, "doctor", runner.WithArgs("--no-network")))
	if out.OK() {
		return parser.ParseDoctor(out.Stdout())
	}
	if out.Kind() == runner.KindFailure && !out.TimedOut() && !out.Cancelled() {
		if checks, err := parser.ParseDoctor(out.Stdout()); err == nil && len(checks) > 0 {
			return checks, out.Err()
		}
	}
	return nil, out.Err()
}

// Version returns chezmoi's build information
func (c *Client) Version(ctx context.Context) (parser.Version, error) {
	stdout, err := c.run(ctx, coordinator.CategoryDiagnostics, "--version")
	if err != nil {
		return parser.Version{}, err
	}
	return parser.ParseVersion(stdout)
}

// SourcePath returns the source directory, or the source file of target.
// It shares the data category with Data.
func (c *Client) SourcePath(ctx context.Context, target string) (string, error) {
	stdout, err := c.run(ctx, coordinator.CategoryData, "source-path", runner.WithTarget(target))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

// Verify reports whether the destination matches the source state. A
// mismatch is not an error; it returns false with chezmoi's explanation.
func (c *Client) Verify(ctx context.Context) (bool, string, error) {
	out := c.runner.Execute(ctx, c.request(coordinator.CategoryDiagnostics, "verify"))
	switch {
	case out.OK():
		return true, strings.TrimSpace(out.Stdout()), nil
	case out.Kind() == runner.KindFailure && out.ExitCode() == 1 && !out.TimedOut() && !out.Cancelled():
		return false, strings.TrimSpace(out.Stderr()), nil
	default:
		return false, "", out.Err()
	}
}

// Update pulls the source repository and, when apply is set, applies it
func (c *Client) Update(ctx context.Context, apply bool) (string, error) {
	args := []string{}
	if !apply {
		args = append(args, "--apply=false")
	}
	return c.run(ctx, coordinator.CategoryApply, "update", runner.WithArgs(args...))
}

// Init creates the source directory, cloning repo into it when one is
// given. The registry is stale afterwards.
func (c *Client) Init(ctx context.Context, repo string) (string, error) {
	var args []string
	if repo = strings.TrimSpace(repo); repo != "" {
		args = append(args, repo)
	}
	c.logger.Info().Str("repo", repo).Msg("Initialising source directory")
	stdout, err := c.run(ctx, coordinator.CategoryApply, "init", runner.WithArgs(args...))
	if err == nil {
		c.registry.Invalidate()
	}
	return stdout, err
}

func absolute(path string) (string, error) {
	abs, err := filepath.Abs(paths.ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid path %s", path)
	}
	return abs, nil
}
