package parser

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/chezui/pkg/errors"
)

// StatusCode is one column of a status line
type StatusCode rune

const (
	StatusUnchanged StatusCode = ' '
	StatusAdded     StatusCode = 'A'
	StatusDeleted   StatusCode = 'D'
	StatusModified  StatusCode = 'M'
	StatusRun       StatusCode = 'R'
)

func (c StatusCode) valid() bool {
	switch c {
	case StatusUnchanged, StatusAdded, StatusDeleted, StatusModified, StatusRun:
		return true
	}
	return false
}

// String returns a lowercase word for the code
func (c StatusCode) String() string {
	switch c {
	case StatusUnchanged:
		return "unchanged"
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusModified:
		return "modified"
	case StatusRun:
		return "script"
	default:
		return string(c)
	}
}

// MarshalText encodes the code as its single status letter
func (c StatusCode) MarshalText() ([]byte, error) {
	return []byte(string(rune(c))), nil
}

// StatusEntry is one line of `status` output.
//
// Last compares the state chezmoi last wrote with the actual file; Target
// compares the actual file with what apply would write.
type StatusEntry struct {
	Last   StatusCode `json:"last"`
	Target StatusCode `json:"target"`
	Path   string     `json:"path"`
}

// Changed reports whether either column shows a difference
func (e StatusEntry) Changed() bool {
	return e.Last != StatusUnchanged || e.Target != StatusUnchanged
}

// PendingApply reports whether apply would change the file
func (e StatusEntry) PendingApply() bool {
	return e.Target != StatusUnchanged
}

// Description summarises the entry for display
func (e StatusEntry) Description() string {
	switch {
	case e.Target != StatusUnchanged && e.Last != StatusUnchanged:
		return fmt.Sprintf("%s (changed since last apply)", e.Target)
	case e.Target != StatusUnchanged:
		return e.Target.String()
	case e.Last != StatusUnchanged:
		return fmt.Sprintf("%s locally", e.Last)
	default:
		return "unchanged"
	}
}

// ParseStatus reads `status` output: two code columns, a space, the path.
func ParseStatus(stdout string) ([]StatusEntry, error) {
	entries := []StatusEntry{}
	for i, line := range strings.Split(stdout, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		runes := []rune(line)
		if len(runes) < 4 || runes[2] != ' ' {
			return nil, errors.NewParseError(nil, fmt.Sprintf("status line %d", i+1), stdout)
		}
		entry := StatusEntry{
			Last:   StatusCode(runes[0]),
			Target: StatusCode(runes[1]),
			Path:   string(runes[3:]),
		}
		if !entry.Last.valid() || !entry.Target.valid() {
			return nil, errors.NewParseError(nil, fmt.Sprintf("status code on line %d", i+1), stdout)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
