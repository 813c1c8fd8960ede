package config

import (
	"time"

	"github.com/arthur-debert/chezui/pkg/errors"
)

// Config is the effective chezui configuration
type Config struct {
	Binary   Binary                   `koanf:"binary"`
	Timeouts map[string]time.Duration `koanf:"timeouts"`
	Export   Export                   `koanf:"export"`
	Watch    Watch                    `koanf:"watch"`
	Output   Output                   `koanf:"output"`
	Data     Data                     `koanf:"data"`
}

// Binary holds settings for invoking the external binary
type Binary struct {
	// Path is the executable name or path of the dotfile manager
	Path string `koanf:"path"`
	// Timeout applies to every request without a category timeout
	Timeout time.Duration `koanf:"timeout"`
}

// Export holds settings for diff export artifacts
type Export struct {
	Dir string `koanf:"dir"`
}

// Watch holds settings for the source directory watcher
type Watch struct {
	Enabled  bool          `koanf:"enabled"`
	Debounce time.Duration `koanf:"debounce"`
}

// Output holds CLI rendering settings
type Output struct {
	Format string `koanf:"format"`
}

// Data holds settings for the template data command
type Data struct {
	Format string `koanf:"format"`
}

var (
	validOutputFormats = map[string]bool{"auto": true, "term": true, "terminal": true, "text": true, "plain": true, "json": true}
	validDataFormats   = map[string]bool{"json": true, "yaml": true}
)

// TimeoutFor returns the timeout configured for an operation category,
// falling back to the binary-wide timeout.
func (c *Config) TimeoutFor(category string) time.Duration {
	if d, ok := c.Timeouts[category]; ok && d > 0 {
		return d
	}
	return c.Binary.Timeout
}

// Validate checks the values that cannot be checked by decoding alone
func (c *Config) Validate() error {
	if c.Binary.Path == "" {
		return errors.New(errors.ErrConfigParse, "binary.path must not be empty")
	}
	if c.Binary.Timeout <= 0 {
		return errors.Newf(errors.ErrConfigParse, "binary.timeout must be positive, got %s", c.Binary.Timeout)
	}
	for category, d := range c.Timeouts {
		if d < 0 {
			return errors.Newf(errors.ErrConfigParse, "timeouts.%s must not be negative", category)
		}
	}
	if c.Watch.Debounce < 0 {
		return errors.New(errors.ErrConfigParse, "watch.debounce must not be negative")
	}
	if !validOutputFormats[c.Output.Format] {
		return errors.Newf(errors.ErrConfigParse, "unknown output.format %q", c.Output.Format)
	}
	if !validDataFormats[c.Data.Format] {
		return errors.Newf(errors.ErrConfigParse, "unknown data.format %q", c.Data.Format)
	}
	return nil
}
