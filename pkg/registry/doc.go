// Package registry keeps the snapshot of paths under management that add
// requests are checked against. Paths are stored in canonical form (see
// paths.Canonical) so "~/.bashrc", "$HOME/.bashrc" and a symlink to it all
// compare equal. The snapshot goes stale after any add or remove and is only
// replaced by an explicit Refresh.
package registry
