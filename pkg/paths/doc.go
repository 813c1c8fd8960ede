// Package paths provides centralized path handling for chezui.
//
// It resolves the XDG directories chezui reads and writes and defines the
// canonical path form used to compare managed files.
//
// # Environment Variables
//
//   - CHEZUI_CONFIG_DIR: Override XDG config directory (default: $XDG_CONFIG_HOME/chezui)
//   - CHEZUI_DATA_DIR: Override XDG data directory (default: $XDG_DATA_HOME/chezui)
//   - CHEZUI_EXPORT_DIR: Override the diff export directory (default: <data dir>/exports)
//   - XDG_STATE_HOME: Location of the log file (default: ~/.local/state)
//
// # Canonical paths
//
// The external binary lists managed files as absolute target paths while
// users type paths like ~/.bashrc. Canonical expands the home directory,
// makes the path absolute and resolves symlinks so both sides compare equal.
package paths
