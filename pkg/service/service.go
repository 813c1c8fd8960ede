package service

import (
	"context"

	"github.com/arthur-debert/chezui/pkg/chezmoi"
	"github.com/arthur-debert/chezui/pkg/coordinator"
	"github.com/arthur-debert/chezui/pkg/diff"
	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/arthur-debert/chezui/pkg/parser"
	"github.com/rs/zerolog"
)

// Service is what frontends talk to. Every operation is dispatched through
// one coordinator and returns a handle; only ExportDiff runs inline.
type Service struct {
	client   *chezmoi.Client
	coord    *coordinator.Coordinator
	exporter *diff.Exporter
	logger   zerolog.Logger
}

// Option configures a Service
type Option func(*options)

type options struct {
	listener coordinator.Listener
	exporter *diff.Exporter
}

// WithListener receives every terminal handle transition
func WithListener(l coordinator.Listener) Option {
	return func(o *options) {
		o.listener = l
	}
}

// WithExporter sets where ExportDiff writes
func WithExporter(e *diff.Exporter) Option {
	return func(o *options) {
		o.exporter = e
	}
}

// New creates a service around client
func New(client *chezmoi.Client, opts ...Option) *Service {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var coordOpts []coordinator.Option
	if o.listener != nil {
		coordOpts = append(coordOpts, coordinator.WithListener(o.listener))
	}

	return &Service{
		client:   client,
		coord:    coordinator.New(coordOpts...),
		exporter: o.exporter,
		logger:   logging.GetLogger("service"),
	}
}

// Client returns the underlying client
func (s *Service) Client() *chezmoi.Client {
	return s.client
}

// Coordinator returns the coordinator handles are dispatched on
func (s *Service) Coordinator() *coordinator.Coordinator {
	return s.coord
}

// Shutdown cancels running operations and waits for them
func (s *Service) Shutdown(ctx context.Context) error {
	return s.coord.Shutdown(ctx)
}

// GetStatus dispatches status. Value: []parser.StatusEntry
func (s *Service) GetStatus(targets ...string) *coordinator.Handle {
	return s.coord.Dispatch(coordinator.CategoryStatus, func(ctx context.Context) (interface{}, error) {
		return s.client.Status(ctx, targets...)
	})
}

// GetManagedFiles dispatches managed and refreshes the registry.
// Value: []string
func (s *Service) GetManagedFiles() *coordinator.Handle {
	return s.coord.Dispatch(coordinator.CategoryManaged, func(ctx context.Context) (interface{}, error) {
		return s.client.Managed(ctx)
	})
}

// GetDiff dispatches diff for target, or everything when empty.
// Value: *chezmoi.DiffResult
func (s *Service) GetDiff(target string) *coordinator.Handle {
	return s.coord.Dispatch(coordinator.CategoryDiff, func(ctx context.Context) (interface{}, error) {
		return s.client.Diff(ctx, target)
	})
}

// Apply dispatches apply. Value: string output
func (s *Service) Apply(targets []string, dryRun bool) *coordinator.Handle {
	return s.ApplyWith(chezmoi.ApplyOptions{Targets: targets, DryRun: dryRun})
}

// ApplyWith dispatches apply with full options. Value: string output
func (s *Service) ApplyWith(opts chezmoi.ApplyOptions) *coordinator.Handle {
	return s.coord.Dispatch(coordinator.CategoryApply, func(ctx context.Context) (interface{}, error) {
		return s.client.Apply(ctx, opts)
	})
}

// Update dispatches update, pulling the source repository and applying it
// when apply is set. It shares the apply category. Value: string output
func (s *Service) Update(apply bool) *coordinator.Handle {
	return s.coord.Dispatch(coordinator.CategoryApply, func(ctx context.Context) (interface{}, error) {
		return s.client.Update(ctx, apply)
	})
}

// Init dispatches init, cloning repo when it is not empty. It shares the
// apply category. Value: string output
func (s *Service) Init(repo string) *coordinator.Handle {
	return s.coord.Dispatch(coordinator.CategoryApply, func(ctx context.Context) (interface{}, error) {
		return s.client.Init(ctx, repo)
	})
}

// Add checks path against the registry and dispatches add. A conflict or
// invalid options are returned directly and nothing is dispatched.
// Value: string output
func (s *Service) Add(path string, opts chezmoi.AddOptions) (*coordinator.Handle, error) {
	if err := s.client.CheckAddable(path); err != nil {
		s.logger.Debug().Err(err).Str("path", path).Msg("Add rejected")
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return s.coord.Dispatch(coordinator.CategoryAddRemove, func(ctx context.Context) (interface{}, error) {
		return s.client.Add(ctx, path, opts)
	}), nil
}

// Remove dispatches remove. Value: string output
func (s *Service) Remove(path string) *coordinator.Handle {
	return s.coord.Dispatch(coordinator.CategoryAddRemove, func(ctx context.Context) (interface{}, error) {
		return s.client.Remove(ctx, path)
	})
}

// GetTemplateData dispatches data. Value: map[string]interface{}
func (s *Service) GetTemplateData(format string) *coordinator.Handle {
	return s.coord.Dispatch(coordinator.CategoryData, func(ctx context.Context) (interface{}, error) {
		return s.client.Data(ctx, format)
	})
}

// DiagnosticsReport is the value of RunDiagnostics
type DiagnosticsReport struct {
	Checks  []parser.DoctorCheck `json:"checks"`
	Summary parser.DoctorSummary `json:"summary"`
	// Failed is set when doctor itself exited non-zero
	Failed bool `json:"failed"`
}

// RunDiagnostics dispatches doctor. A non-zero exit that still produced a
// table is reported through DiagnosticsReport.Failed, not as an error.
// Value: *DiagnosticsReport
func (s *Service) RunDiagnostics() *coordinator.Handle {
	return s.coord.Dispatch(coordinator.CategoryDiagnostics, func(ctx context.Context) (interface{}, error) {
		checks, err := s.client.Doctor(ctx)
		if err != nil && len(checks) == 0 {
			return nil, err
		}
		return &DiagnosticsReport{
			Checks:  checks,
			Summary: parser.Summary(checks),
			Failed:  err != nil,
		}, nil
	})
}

// VerifyResult is the value of Verify
type VerifyResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Verify dispatches verify. Value: VerifyResult
func (s *Service) Verify() *coordinator.Handle {
	return s.coord.Dispatch(coordinator.CategoryDiagnostics, func(ctx context.Context) (interface{}, error) {
		ok, msg, err := s.client.Verify(ctx)
		if err != nil {
			return nil, err
		}
		return VerifyResult{OK: ok, Message: msg}, nil
	})
}

// Version dispatches --version. Value: parser.Version
func (s *Service) Version() *coordinator.Handle {
	return s.coord.Dispatch(coordinator.CategoryDiagnostics, func(ctx context.Context) (interface{}, error) {
		return s.client.Version(ctx)
	})
}

// SourceDir dispatches source-path. Value: string
//
// It runs in the data category, so it supersedes an in-flight
// GetTemplateData and is superseded by the next one. Callers look it up
// once, before any data load starts.
func (s *Service) SourceDir() *coordinator.Handle {
	return s.coord.Dispatch(coordinator.CategoryData, func(ctx context.Context) (interface{}, error) {
		return s.client.SourcePath(ctx, "")
	})
}

// ExportDiff writes text to a patch file and returns its path
func (s *Service) ExportDiff(text string) (string, error) {
	if s.exporter == nil {
		return "", errors.New(errors.ErrInvalidInput, "diff export is not configured")
	}
	return s.exporter.Export(text)
}
