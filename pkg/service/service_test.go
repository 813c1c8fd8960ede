package service

import (
	"context"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/chezui/pkg/chezmoi"
	"github.com/arthur-debert/chezui/pkg/coordinator"
	"github.com/arthur-debert/chezui/pkg/diff"
	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/parser"
	"github.com/arthur-debert/chezui/pkg/registry"
	"github.com/arthur-debert/chezui/pkg/runner"
	"github.com/arthur-debert/chezui/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type events struct {
	mu  sync.Mutex
	all []coordinator.Event
}

func (e *events) listen(ev coordinator.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.all = append(e.all, ev)
}

func (e *events) list() []coordinator.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]coordinator.Event(nil), e.all...)
}

func newTestService(t *testing.T, fake *testutil.FakeExecutor, opts ...Option) *Service {
	t.Helper()
	r := runner.New("chezmoi", runner.WithExecutor(fake))
	client := chezmoi.New(r, registry.New("/home/user"))
	s := New(client, opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestService_GetStatus(t *testing.T) {
	fake := testutil.NewFakeExecutor().On("status", testutil.Response{Stdout: testutil.StatusOutput})
	s := newTestService(t, fake)

	entries, err := coordinator.Await[[]parser.StatusEntry](ctx(t), s.GetStatus())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestService_DiffSupersedes(t *testing.T) {
	release := make(chan struct{})
	fake := testutil.NewFakeExecutor().
		On("diff", testutil.Response{Stdout: testutil.DiffOutput, Block: true, Release: release})
	rec := &events{}
	s := newTestService(t, fake, WithListener(rec.listen))

	first := s.GetDiff("")
	second := s.GetDiff("/home/user/.bashrc")
	assert.Equal(t, coordinator.StateCancelled, first.State())

	close(release)
	res, err := coordinator.Await[*chezmoi.DiffResult](ctx(t), second)
	require.NoError(t, err)
	assert.Equal(t, "/home/user/.bashrc", res.Target)
	assert.Equal(t, 2, res.Analysis.Stats.FilesChanged)

	_, err = first.Wait(ctx(t))
	assert.ErrorIs(t, err, errors.Cancelled)
	assert.False(t, errors.IsUserVisible(err))

	require.NoError(t, s.Shutdown(ctx(t)))
	delivered := 0
	for _, ev := range rec.list() {
		if ev.State != coordinator.StateCancelled {
			delivered++
		}
	}
	assert.Equal(t, 1, delivered)
}

func TestService_SourceDirSharesDataCategory(t *testing.T) {
	release := make(chan struct{})
	fake := testutil.NewFakeExecutor().
		On("data", testutil.Response{Stdout: testutil.DataJSON, Block: true, Release: release}).
		On("source-path", testutil.Response{Stdout: "/home/user/.local/share/chezmoi\n"}).
		On("doctor", testutil.Response{Stdout: testutil.DoctorOutput})
	s := newTestService(t, fake)

	data := s.GetTemplateData(parser.FormatJSON)
	dir, err := coordinator.Await[string](ctx(t), s.SourceDir())
	require.NoError(t, err)
	assert.Equal(t, "/home/user/.local/share/chezmoi", dir)

	close(release)
	_, err = data.Wait(ctx(t))
	assert.ErrorIs(t, err, errors.Cancelled)
	assert.Equal(t, coordinator.StateCancelled, data.State())

	// diagnostics is a separate category
	doctor := s.RunDiagnostics()
	_, err = s.SourceDir().Wait(ctx(t))
	require.NoError(t, err)
	_, err = doctor.Wait(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, coordinator.StateCompleted, doctor.State())
}

func TestService_AddConflictIsSynchronous(t *testing.T) {
	fake := testutil.NewFakeExecutor().On("managed", testutil.Response{Stdout: testutil.ManagedJSON})
	s := newTestService(t, fake)

	_, err := coordinator.Await[[]string](ctx(t), s.GetManagedFiles())
	require.NoError(t, err)
	callsAfterRefresh := fake.Calls()

	h, err := s.Add("/home/user/.gitconfig", chezmoi.AddOptions{})
	assert.Nil(t, h)
	assert.ErrorIs(t, err, errors.Conflict)
	assert.Equal(t, callsAfterRefresh, fake.Calls(), "no process for a conflicting add")
	assert.False(t, s.Coordinator().Running(coordinator.CategoryAddRemove))
}

func TestService_AddThenRemove(t *testing.T) {
	fake := testutil.NewFakeExecutor()
	s := newTestService(t, fake)

	h, err := s.Add("/home/user/.tmux.conf", chezmoi.AddOptions{Template: true})
	require.NoError(t, err)
	_, err = h.Wait(ctx(t))
	require.NoError(t, err)
	assert.True(t, s.Client().Registry().Stale())

	_, err = s.Remove("/home/user/.tmux.conf").Wait(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, "remove", fake.Last().Subcommand())
}

func TestService_BinaryNotFoundEveryCategory(t *testing.T) {
	fake := testutil.NewFakeExecutor().Default(testutil.Response{Err: exec.ErrNotFound})
	s := newTestService(t, fake)

	addHandle, err := s.Add("/home/user/.new", chezmoi.AddOptions{})
	require.NoError(t, err)

	handles := map[string]*coordinator.Handle{
		"status":      s.GetStatus(),
		"managed":     s.GetManagedFiles(),
		"diff":        s.GetDiff(""),
		"apply":       s.Apply(nil, false),
		"add-remove":  addHandle,
		"data":        s.GetTemplateData("json"),
		"diagnostics": s.RunDiagnostics(),
	}
	for name, h := range handles {
		t.Run(name, func(t *testing.T) {
			_, err := h.Wait(ctx(t))
			assert.ErrorIs(t, err, errors.BinaryNotFound)
			assert.Equal(t, coordinator.StateFailed, h.State())
		})
	}
}

func TestService_RunDiagnostics(t *testing.T) {
	out := testutil.DoctorOutput + "failed    git-command                 git not found\n"
	fake := testutil.NewFakeExecutor().On("doctor", testutil.Response{Stdout: out, ExitCode: 1})
	s := newTestService(t, fake)

	report, err := coordinator.Await[*DiagnosticsReport](ctx(t), s.RunDiagnostics())
	require.NoError(t, err)
	assert.True(t, report.Failed)
	assert.Len(t, report.Checks, 5)
	assert.Equal(t, 1, report.Summary[parser.DoctorFailed])
	assert.False(t, report.Summary.Healthy())
}

func TestService_VerifyAndVersion(t *testing.T) {
	fake := testutil.NewFakeExecutor().
		On("--version", testutil.Response{Stdout: testutil.VersionOutput}).
		On("verify", testutil.Response{Stderr: "differs", ExitCode: 1})
	s := newTestService(t, fake)

	v, err := coordinator.Await[VerifyResult](ctx(t), s.Verify())
	require.NoError(t, err)
	assert.False(t, v.OK)

	version, err := coordinator.Await[parser.Version](ctx(t), s.Version())
	require.NoError(t, err)
	assert.Equal(t, "v2.52.1", version.Version)
}

func TestService_TemplateData(t *testing.T) {
	fake := testutil.NewFakeExecutor().On("data", testutil.Response{Stdout: "chezmoi:\n  os: linux\n"})
	s := newTestService(t, fake)

	data, err := coordinator.Await[map[string]interface{}](ctx(t), s.GetTemplateData("yaml"))
	require.NoError(t, err)
	assert.Equal(t, "linux", data["chezmoi"].(map[string]interface{})["os"])
}

func TestService_ExportDiff(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	fake := testutil.NewFakeExecutor()

	s := newTestService(t, fake)
	_, err := s.ExportDiff(testutil.DiffOutput)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "no exporter configured")

	s = newTestService(t, fake, WithExporter(diff.NewExporter(dir)))
	path, err := s.ExportDiff(testutil.DiffOutput)
	require.NoError(t, err)

	loaded, err := diff.Load(path)
	require.NoError(t, err)
	assert.Equal(t, diff.Stats(testutil.DiffOutput), diff.Stats(loaded))
	assert.Zero(t, fake.Calls())
}

func TestService_Init(t *testing.T) {
	fake := testutil.NewFakeExecutor()
	s := newTestService(t, fake)

	_, err := coordinator.Await[string](ctx(t), s.Init(""))
	require.NoError(t, err)
	assert.Equal(t, []string{"init"}, fake.Last().Args)

	_, err = coordinator.Await[string](ctx(t), s.Init("github.com/user/dotfiles"))
	require.NoError(t, err)
	assert.Equal(t, []string{"init", "github.com/user/dotfiles"}, fake.Last().Args)
}

func TestService_Update(t *testing.T) {
	fake := testutil.NewFakeExecutor().On("update", testutil.Response{Stdout: "Already up to date.\n"})
	s := newTestService(t, fake)

	out, err := coordinator.Await[string](ctx(t), s.Update(false))
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
	assert.Equal(t, []string{"update", "--apply=false"}, fake.Last().Args)
}
