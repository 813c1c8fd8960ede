// Package watch notices edits in the chezmoi source directory made outside
// this program (an editor, git pull, chezmoi itself) so frontends can
// refresh. Events are debounced and .git is never watched.
package watch
