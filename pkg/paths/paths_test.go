package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("env overrides", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/custom/config")
		t.Setenv(EnvDataDir, "/custom/data")
		t.Setenv(EnvExportDir, "/custom/exports")
		t.Setenv("XDG_STATE_HOME", "/custom/state")

		p, err := New()
		require.NoError(t, err)

		assert.Equal(t, "/custom/config", p.ConfigDir())
		assert.Equal(t, "/custom/data", p.DataDir())
		assert.Equal(t, "/custom/exports", p.ExportDir())
		assert.Equal(t, filepath.Join("/custom/state", "chezui"), p.StateDir())
		assert.Equal(t, filepath.Join("/custom/state", "chezui", "chezui.log"), p.LogFilePath())
	})

	t.Run("export dir defaults under data dir", func(t *testing.T) {
		t.Setenv(EnvDataDir, "/custom/data")
		t.Setenv(EnvExportDir, "")

		p, err := New()
		require.NoError(t, err)

		assert.Equal(t, filepath.Join("/custom/data", ExportsDir), p.ExportDir())
	})

	t.Run("tilde in override is expanded", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)
		t.Setenv(EnvConfigDir, "~/cfg")

		p, err := New()
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(home, "cfg"), p.ConfigDir())
	})
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	p, err := New()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), p.ConfigFile(), "defaults to toml when nothing exists")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("binary: {}\n"), 0644))
	assert.Equal(t, filepath.Join(dir, "config.yaml"), p.ConfigFile())
}

func TestCanonical(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tilde", "~/.bashrc", filepath.Join(home, ".bashrc")},
		{"dot segments", "/tmp/../tmp/./x", "/tmp/x"},
		{"trailing slash", "/tmp/a/b/", "/tmp/a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonical(tt.input)
			require.NoError(t, err)
			// Existing path prefixes may themselves be symlinks (macOS /tmp)
			want, _ := filepath.EvalSymlinks(tt.want)
			if want == "" {
				want = tt.want
			}
			assert.Equal(t, want, got)
		})
	}

	t.Run("empty path is invalid", func(t *testing.T) {
		_, err := Canonical("")
		assert.Error(t, err)
	})

	t.Run("symlinks resolve to the same canonical path", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "real")
		link := filepath.Join(dir, "link")
		require.NoError(t, os.WriteFile(target, []byte("x"), 0644))
		require.NoError(t, os.Symlink(target, link))

		a, err := Canonical(target)
		require.NoError(t, err)
		b, err := Canonical(link)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "x"), ExpandHome("~/x"))
	assert.Equal(t, "~other/x", ExpandHome("~other/x"))
	assert.Equal(t, "/abs", ExpandHome("/abs"))
	assert.Equal(t, "", ExpandHome(""))
}
