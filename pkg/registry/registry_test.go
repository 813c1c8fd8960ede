package registry

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_NewIsStale(t *testing.T) {
	r := New("")
	assert.True(t, r.Stale())
	assert.Zero(t, r.Len())
	assert.True(t, r.RefreshedAt().IsZero())
}

func TestRegistry_RefreshAndContains(t *testing.T) {
	home := t.TempDir()
	r := New(home)

	r.Refresh([]string{".bashrc", filepath.Join(home, ".config", "git", "config"), ""})

	assert.False(t, r.Stale())
	assert.Equal(t, 2, r.Len())
	assert.False(t, r.RefreshedAt().IsZero())

	assert.True(t, r.Contains(filepath.Join(home, ".bashrc")))
	assert.True(t, r.Contains(filepath.Join(home, ".config", "git", "..", "git", "config")))
	assert.False(t, r.Contains(filepath.Join(home, ".zshrc")))
	assert.False(t, r.Contains(""))
}

func TestRegistry_RefreshReplaces(t *testing.T) {
	r := New("/home/u")
	r.Refresh([]string{"/home/u/.a", "/home/u/.b"})
	r.Refresh([]string{"/home/u/.c"})

	assert.Equal(t, []string{"/home/u/.c"}, r.Paths())
	assert.False(t, r.Contains("/home/u/.a"))
}

func TestRegistry_HomeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	r := New(home)
	r.Refresh([]string{"~/.vimrc"})

	assert.True(t, r.Contains(filepath.Join(home, ".vimrc")))
	assert.True(t, r.Contains("~/.vimrc"))
}

func TestRegistry_Symlink(t *testing.T) {
	home := t.TempDir()
	real := filepath.Join(home, ".zshrc")
	require.NoError(t, os.WriteFile(real, []byte("x"), 0644))
	link := filepath.Join(home, "zshrc-link")
	require.NoError(t, os.Symlink(real, link))

	r := New(home)
	r.Refresh([]string{real})

	assert.True(t, r.Contains(link))
}

func TestRegistry_Invalidate(t *testing.T) {
	r := New("/home/u")
	r.Refresh([]string{"/home/u/.a"})
	r.Invalidate()

	assert.True(t, r.Stale())
	assert.True(t, r.Contains("/home/u/.a"), "contents survive invalidation")

	r.Refresh([]string{"/home/u/.a"})
	assert.False(t, r.Stale())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := New("/home/u")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Refresh([]string{"/home/u/.a", "/home/u/.b"})
		}()
		go func() {
			defer wg.Done()
			_ = r.Contains("/home/u/.a")
			_ = r.Paths()
			r.Invalidate()
		}()
	}
	wg.Wait()
	assert.Equal(t, 2, r.Len())
}
