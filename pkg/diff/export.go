package diff

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/pmezard/go-difflib/difflib"
)

const (
	exportPrefix     = "chezmoi-diff-"
	exportSuffix     = ".patch"
	exportTimeLayout = "20060102-150405"
)

// Exporter writes diff text to timestamped patch files
type Exporter struct {
	dir string
	now func() time.Time
}

// ExporterOption configures an Exporter
type ExporterOption func(*Exporter)

// WithClock replaces the time source used to name artifacts
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) {
		e.now = now
	}
}

// NewExporter creates an exporter writing into dir
func NewExporter(dir string, opts ...ExporterOption) *Exporter {
	e := &Exporter{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir returns the export directory
func (e *Exporter) Dir() string {
	return e.dir
}

// Export writes text verbatim to <dir>/chezmoi-diff-YYYYMMDD-HHMMSS.patch and
// returns the path. An existing artifact with the same name is never
// overwritten; a numeric suffix is added instead.
func (e *Exporter) Export(text string) (string, error) {
	logger := logging.GetLogger("diff.export")

	if strings.TrimSpace(text) == "" {
		return "", errors.New(errors.ErrInvalidInput, "no differences to export")
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create export directory %s", e.dir).
			WithDetail(errors.DetailPath, e.dir)
	}

	stamp := e.now().Format(exportTimeLayout)
	for attempt := 1; ; attempt++ {
		name := exportPrefix + stamp + exportSuffix
		if attempt > 1 {
			name = fmt.Sprintf("%s%s-%d%s", exportPrefix, stamp, attempt, exportSuffix)
		}
		path := filepath.Join(e.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if stderrors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", path).
				WithDetail(errors.DetailPath, path)
		}

		if _, err := f.WriteString(text); err != nil {
			_ = f.Close()
			return "", errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path).
				WithDetail(errors.DetailPath, path)
		}
		if err := f.Close(); err != nil {
			return "", errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path).
				WithDetail(errors.DetailPath, path)
		}

		logger.Info().Str("path", path).Int("bytes", len(text)).Msg("Exported diff")
		return path, nil
	}
}

// List returns exported artifacts in the export directory, newest first.
// A missing directory yields an empty list.
func (e *Exporter) List() ([]string, error) {
	entries, err := os.ReadDir(e.dir)
	if stderrors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", e.dir)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, exportPrefix) && strings.HasSuffix(name, exportSuffix) {
			names = append(names, name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(e.dir, name)
	}
	return paths, nil
}

// Load reads an exported artifact back
func Load(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", path).
			WithDetail(errors.DetailPath, path)
	}
	return string(content), nil
}

// Unified builds a git-style unified diff of two versions of name. Identical
// inputs yield an empty string.
func Unified(name, oldText, newText string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldText),
		B:        difflib.SplitLines(newText),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "failed to diff %s", name)
	}
	if text == "" {
		return "", nil
	}
	return "diff --git a/" + name + " b/" + name + "\n" + text, nil
}
