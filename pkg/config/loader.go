package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	chezerrors "github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/arthur-debert/chezui/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read into the config
const EnvPrefix = "CHEZUI_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// DefaultContent returns the embedded defaults file
func DefaultContent() string {
	return string(defaultConfig)
}

// Default returns the configuration built from the embedded defaults only
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic("embedded defaults are invalid: " + err.Error())
	}
	cfg, err := unmarshal(k)
	if err != nil {
		panic("embedded defaults are invalid: " + err.Error())
	}
	return cfg
}

// Load builds the effective configuration. p locates the user config file
// and the default export directory; overrides are flat dotted keys
// (for example "binary.path") applied last.
func Load(p paths.Paths, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, chezerrors.Wrap(err, chezerrors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file if it exists
	if p != nil {
		userPath := p.ConfigFile()
		if _, err := os.Stat(userPath); err == nil {
			if err := k.Load(file.Provider(userPath), parserFor(userPath)); err != nil {
				return nil, chezerrors.Wrapf(err, chezerrors.ErrConfigLoad, "failed to load user config from %s", userPath)
			}
			logger.Debug().Str("path", userPath).Msg("Loaded user config")
		}
	}

	// 3. Environment variables
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, chezerrors.Wrap(err, chezerrors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Explicit overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, chezerrors.Wrap(err, chezerrors.ErrConfigLoad, "failed to load overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}

	postProcessConfig(cfg, p)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("binary", cfg.Binary.Path).
		Dur("timeout", cfg.Binary.Timeout).
		Str("exportDir", cfg.Export.Dir).
		Msg("Configuration loaded")

	return cfg, nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, chezerrors.Wrap(err, chezerrors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

func postProcessConfig(cfg *Config, p paths.Paths) {
	if strings.HasPrefix(cfg.Binary.Path, "~") {
		cfg.Binary.Path = paths.ExpandHome(cfg.Binary.Path)
	}
	cfg.Export.Dir = paths.ExpandHome(cfg.Export.Dir)
	if cfg.Export.Dir == "" && p != nil {
		cfg.Export.Dir = p.ExportDir()
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	cfg.Data.Format = strings.ToLower(cfg.Data.Format)
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}
