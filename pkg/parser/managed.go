package parser

import (
	"encoding/json"
	"strings"

	"github.com/arthur-debert/chezui/pkg/errors"
)

// managedObject is the object form some chezmoi versions emit per entry
type managedObject struct {
	Path       string `json:"path"`
	TargetPath string `json:"targetPath"`
	Absolute   string `json:"absolute"`
}

// ParseManagedFiles decodes the JSON list printed by `managed --format json`.
// Entries may be plain strings or objects carrying a path key. Blank input
// is an empty list.
func ParseManagedFiles(stdout string) ([]string, error) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" {
		return []string{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, errors.NewParseError(err, "managed file list", stdout)
	}

	files := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				files = append(files, s)
			}
			continue
		}

		var obj managedObject
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, errors.NewParseError(err, "managed file entry", stdout)
		}
		path := firstNonEmpty(obj.Absolute, obj.TargetPath, obj.Path)
		if path == "" {
			return nil, errors.NewParseError(nil, "managed file entry without a path", stdout)
		}
		files = append(files, path)
	}
	return files, nil
}

// ParseManagedLines reads the plain one-path-per-line form. It never fails.
func ParseManagedLines(stdout string) []string {
	files := []string{}
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
