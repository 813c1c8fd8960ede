package parser

import (
	"strings"

	"github.com/arthur-debert/chezui/pkg/errors"
)

// Version is the build information printed by `--version`
type Version struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	BuiltAt string `json:"builtAt,omitempty"`
	BuiltBy string `json:"builtBy,omitempty"`
}

// ParseVersion reads a line such as
// "chezmoi version v2.52.1, commit 1a2b3c, built at 2024-08-01T10:00:00Z, built by homebrew"
func ParseVersion(stdout string) (Version, error) {
	line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(stdout), "\n", 2)[0])
	const marker = "version "
	idx := strings.Index(line, marker)
	if idx < 0 {
		return Version{}, errors.NewParseError(nil, "version", stdout)
	}

	parts := strings.Split(line[idx+len(marker):], ",")
	v := Version{Version: strings.TrimSpace(parts[0])}
	if v.Version == "" {
		return Version{}, errors.NewParseError(nil, "version", stdout)
	}
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "commit "):
			v.Commit = strings.TrimPrefix(part, "commit ")
		case strings.HasPrefix(part, "built at "):
			v.BuiltAt = strings.TrimPrefix(part, "built at ")
		case strings.HasPrefix(part, "built by "):
			v.BuiltBy = strings.TrimPrefix(part, "built by ")
		}
	}
	return v, nil
}
