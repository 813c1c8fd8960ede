// Package config handles configuration management for chezui.
//
// Configuration is layered with koanf. Later layers win:
//
//  1. Embedded defaults (embedded/defaults.toml)
//  2. The user config file in the chezui config dir (TOML or YAML)
//  3. CHEZUI_* environment variables (CHEZUI_BINARY_PATH sets binary.path)
//  4. Explicit overrides, typically from command-line flags
package config
