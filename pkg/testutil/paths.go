package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/chezui/pkg/paths"
)

// MockPaths is a paths.Paths rooted in a single directory
type MockPaths struct {
	Root string
}

var _ paths.Paths = (*MockPaths)(nil)

// NewMockPaths roots a MockPaths in a fresh temp dir
func NewMockPaths(t *testing.T) *MockPaths {
	t.Helper()
	return &MockPaths{Root: t.TempDir()}
}

func (m *MockPaths) ConfigDir() string { return filepath.Join(m.Root, "config", paths.AppDirName) }
func (m *MockPaths) DataDir() string   { return filepath.Join(m.Root, "data", paths.AppDirName) }
func (m *MockPaths) CacheDir() string  { return filepath.Join(m.Root, "cache", paths.AppDirName) }
func (m *MockPaths) StateDir() string  { return filepath.Join(m.Root, "state", paths.AppDirName) }
func (m *MockPaths) ExportDir() string { return filepath.Join(m.DataDir(), paths.ExportsDir) }

func (m *MockPaths) LogFilePath() string {
	return filepath.Join(m.StateDir(), paths.LogFileName)
}

// ConfigFile returns the first existing config file, or the toml default
func (m *MockPaths) ConfigFile() string {
	for _, name := range paths.ConfigFileNames {
		candidate := filepath.Join(m.ConfigDir(), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(m.ConfigDir(), paths.ConfigFileNames[0])
}
