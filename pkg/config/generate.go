package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/chezui/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config in the shape written to disk. Durations are
// strings so the file stays readable and round-trips through the loader.
type fileConfig struct {
	Binary struct {
		Path    string `toml:"path"`
		Timeout string `toml:"timeout"`
	} `toml:"binary"`
	Timeouts map[string]string `toml:"timeouts"`
	Export   struct {
		Dir string `toml:"dir"`
	} `toml:"export"`
	Watch struct {
		Enabled  bool   `toml:"enabled"`
		Debounce string `toml:"debounce"`
	} `toml:"watch"`
	Output struct {
		Format string `toml:"format"`
	} `toml:"output"`
	Data struct {
		Format string `toml:"format"`
	} `toml:"data"`
}

// Generate renders cfg as a TOML document loadable by Load
func Generate(cfg *Config) ([]byte, error) {
	var fc fileConfig
	fc.Binary.Path = cfg.Binary.Path
	fc.Binary.Timeout = cfg.Binary.Timeout.String()
	fc.Timeouts = make(map[string]string, len(cfg.Timeouts))
	categories := make([]string, 0, len(cfg.Timeouts))
	for category := range cfg.Timeouts {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fc.Timeouts[category] = cfg.Timeouts[category].String()
	}
	fc.Export.Dir = cfg.Export.Dir
	fc.Watch.Enabled = cfg.Watch.Enabled
	fc.Watch.Debounce = cfg.Watch.Debounce.String()
	fc.Output.Format = cfg.Output.Format
	fc.Data.Format = cfg.Data.Format

	out, err := toml.Marshal(fc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}

// WriteFile writes cfg to path, refusing to overwrite an existing file
// unless force is set.
func WriteFile(cfg *Config, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Newf(errors.ErrInvalidInput, "config file already exists: %s", path).
			WithDetail(errors.DetailPath, path)
	}

	content, err := Generate(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return nil
}
