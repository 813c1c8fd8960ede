package testutil

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeExecutor_Scripted(t *testing.T) {
	f := NewFakeExecutor().
		On("status", Response{Stdout: StatusOutput}).
		On("apply", Response{Stderr: "nope", ExitCode: 2}).
		Default(Response{Stdout: "fallback"})

	res, err := f.Run(context.Background(), "chezmoi", []string{"status"})
	require.NoError(t, err)
	assert.Equal(t, StatusOutput, res.Stdout)

	res, err = f.Run(context.Background(), "chezmoi", []string{"apply", "--dry-run"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ExitCode)

	res, err = f.Run(context.Background(), "chezmoi", []string{"doctor"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", res.Stdout)

	assert.Equal(t, 3, f.Calls())
	assert.Equal(t, "apply --dry-run", f.Invocations()[1].CommandLine())
	assert.Equal(t, "doctor", f.Last().Subcommand())
}

func TestFakeExecutor_StartError(t *testing.T) {
	f := NewFakeExecutor().Default(Response{Err: exec.ErrNotFound})
	_, err := f.Run(context.Background(), "chezmoi", []string{"status"})
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestFakeExecutor_Block(t *testing.T) {
	release := make(chan struct{})
	f := NewFakeExecutor().On("diff", Response{Block: true, Release: release, Stdout: "late"})

	done := make(chan string, 1)
	go func() {
		res, _ := f.Run(context.Background(), "chezmoi", []string{"diff"})
		done <- res.Stdout
	}()

	select {
	case <-done:
		t.Fatal("returned before release")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	assert.Equal(t, "late", <-done)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFakeExecutor().Default(Response{Block: true}).Run(ctx, "chezmoi", []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}
