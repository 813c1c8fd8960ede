package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/chezui/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for chezui
	EnvConfigDir = "CHEZUI_CONFIG_DIR"

	// EnvDataDir overrides the XDG data directory for chezui
	EnvDataDir = "CHEZUI_DATA_DIR"

	// EnvExportDir overrides the directory diff exports are written to
	EnvExportDir = "CHEZUI_EXPORT_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for chezui-specific files
	AppDirName = "chezui"

	// ExportsDir is the data subdirectory diff exports go to
	ExportsDir = "exports"

	// LogFileName is the name of the log file
	LogFileName = "chezui.log"
)

// ConfigFileNames lists the user config files looked up in ConfigDir, in order
var ConfigFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// Paths provides centralized path management for chezui
type Paths interface {
	ConfigDir() string
	DataDir() string
	CacheDir() string
	StateDir() string
	ExportDir() string
	LogFilePath() string
	ConfigFile() string
}

type paths struct {
	xdgConfig string
	xdgData   string
	xdgCache  string
	xdgState  string
	exportDir string
}

// New creates a Paths instance, respecting the CHEZUI_* environment
// overrides before falling back to XDG locations.
func New() (Paths, error) {
	p := &paths{}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.xdgConfig = expandHome(dir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		p.xdgData = expandHome(dir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, AppDirName)
	}

	p.xdgCache = filepath.Join(xdg.CacheHome, AppDirName)

	// XDG_STATE_HOME is read directly so tests can override it per run
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, AppDirName)
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to resolve home directory")
		}
		p.xdgState = filepath.Join(homeDir, ".local", "state", AppDirName)
	}

	if dir := os.Getenv(EnvExportDir); dir != "" {
		p.exportDir = expandHome(dir)
	} else {
		p.exportDir = filepath.Join(p.xdgData, ExportsDir)
	}

	return p, nil
}

// ConfigDir returns the XDG config directory for chezui
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// DataDir returns the XDG data directory for chezui
func (p *paths) DataDir() string {
	return p.xdgData
}

// CacheDir returns the XDG cache directory for chezui
func (p *paths) CacheDir() string {
	return p.xdgCache
}

// StateDir returns the XDG state directory for chezui
func (p *paths) StateDir() string {
	return p.xdgState
}

// ExportDir returns the default directory for diff exports
func (p *paths) ExportDir() string {
	return p.exportDir
}

// LogFilePath returns the path of the log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// ConfigFile returns the first existing user config file, or the default
// TOML location when none exists yet.
func (p *paths) ConfigFile() string {
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(p.xdgConfig, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(p.xdgConfig, ConfigFileNames[0])
}

// Canonical returns the form of path used for identity comparisons:
// home expanded, absolute, cleaned, and with symlinks resolved when the
// path exists.
func Canonical(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", path)
	}
	abs = filepath.Clean(abs)

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}
