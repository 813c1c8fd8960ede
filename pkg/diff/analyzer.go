package diff

import (
	"strconv"
	"strings"
)

const devNull = "/dev/null"

// Statistics summarises a diff. NetChange is Additions - Deletions and may
// be negative; every other field is non-negative.
type Statistics struct {
	FilesChanged int `json:"filesChanged"`
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
	NetChange    int `json:"netChange"`
}

// FileStat holds the counts for one file section
type FileStat struct {
	Path       string `json:"path"`
	Additions  int    `json:"additions"`
	Deletions  int    `json:"deletions"`
	Binary     bool   `json:"binary,omitempty"`
	ModeChange bool   `json:"modeChange,omitempty"`
}

// Analysis is the full result of scanning a diff. Files lists changed paths
// in first-appearance order without repeats; PerFile follows the same order.
type Analysis struct {
	Stats   Statistics `json:"stats"`
	Files   []string   `json:"files"`
	PerFile []FileStat `json:"perFile"`
}

// Analyze scans unified diff text line by line. It never fails: input it
// does not recognise still has its +/- lines counted.
func Analyze(text string) Analysis {
	a := newAnalyzer()
	if text != "" {
		for _, line := range strings.Split(text, "\n") {
			a.feed(strings.TrimSuffix(line, "\r"))
		}
	}
	return a.result()
}

// Stats returns only the statistics of text
func Stats(text string) Statistics {
	return Analyze(text).Stats
}

// Files returns only the changed paths of text
func Files(text string) []string {
	return Analyze(text).Files
}

type analyzer struct {
	files     []FileStat
	index     map[string]int
	current   int
	additions int
	deletions int

	// oldPath holds the path of a "--- " header until its "+++ " partner
	oldPath string

	// inHunk is set after a well-formed @@ header; the budgets count the
	// old and new side lines still expected in the hunk
	inHunk  bool
	oldLeft int
	newLeft int
}

func newAnalyzer() *analyzer {
	return &analyzer{index: map[string]int{}, current: -1}
}

func (a *analyzer) feed(line string) {
	if a.inHunk && (a.oldLeft > 0 || a.newLeft > 0) {
		if a.feedHunkLine(line) {
			return
		}
	}
	a.inHunk = false
	a.feedHeaderLine(line)
}

// feedHunkLine consumes a line inside a hunk with budget left. It returns
// false when the line cannot belong to the hunk.
func (a *analyzer) feedHunkLine(line string) bool {
	if line == "" {
		a.oldLeft--
		a.newLeft--
		return true
	}
	switch line[0] {
	case '+':
		a.addition()
		a.newLeft--
	case '-':
		a.deletion()
		a.oldLeft--
	case ' ':
		a.oldLeft--
		a.newLeft--
	case '\\':
		// "\ No newline at end of file"
	default:
		return false
	}
	return true
}

func (a *analyzer) feedHeaderLine(line string) {
	switch {
	case strings.HasPrefix(line, "diff --git "):
		a.oldPath = ""
		if path := gitHeaderPath(strings.TrimPrefix(line, "diff --git ")); path != "" {
			a.open(path)
		}
	case strings.HasPrefix(line, "--- "):
		a.oldPath = headerPath(strings.TrimPrefix(line, "--- "))
	case strings.HasPrefix(line, "+++ "):
		path := headerPath(strings.TrimPrefix(line, "+++ "))
		if path == devNull {
			path = a.oldPath
		}
		a.oldPath = ""
		if path != "" && path != devNull {
			a.open(path)
		}
	case strings.HasPrefix(line, "Binary files ") && strings.HasSuffix(line, " differ"):
		if path := binaryPath(line); path != "" {
			a.open(path)
			a.files[a.current].Binary = true
		}
	case strings.HasPrefix(line, "rename to "), strings.HasPrefix(line, "copy to "):
		_, rest, _ := strings.Cut(line, " to ")
		if path := unquote(rest); path != "" {
			a.open(path)
		}
	case strings.HasPrefix(line, "new file mode "),
		strings.HasPrefix(line, "deleted file mode "),
		strings.HasPrefix(line, "old mode "),
		strings.HasPrefix(line, "new mode "):
		if a.current >= 0 {
			a.files[a.current].ModeChange = true
		}
	case strings.HasPrefix(line, "@@"):
		a.oldLeft, a.newLeft, a.inHunk = parseHunkHeader(line)
	case strings.HasPrefix(line, "+"):
		a.addition()
	case strings.HasPrefix(line, "-"):
		a.deletion()
	}
}

// open makes path the current file, appending it on first appearance
func (a *analyzer) open(path string) {
	if i, ok := a.index[path]; ok {
		a.current = i
		return
	}
	a.index[path] = len(a.files)
	a.current = len(a.files)
	a.files = append(a.files, FileStat{Path: path})
}

func (a *analyzer) addition() {
	a.additions++
	if a.current >= 0 {
		a.files[a.current].Additions++
	}
}

func (a *analyzer) deletion() {
	a.deletions++
	if a.current >= 0 {
		a.files[a.current].Deletions++
	}
}

func (a *analyzer) result() Analysis {
	files := make([]string, len(a.files))
	for i, f := range a.files {
		files[i] = f.Path
	}
	perFile := append([]FileStat{}, a.files...)
	return Analysis{
		Stats: Statistics{
			FilesChanged: len(files),
			Additions:    a.additions,
			Deletions:    a.deletions,
			NetChange:    a.additions - a.deletions,
		},
		Files:   files,
		PerFile: perFile,
	}
}

// parseHunkHeader reads "@@ -a[,b] +c[,d] @@". A malformed header reports
// ok=false so the scan falls back to header heuristics.
func parseHunkHeader(line string) (oldLines, newLines int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 || fields[0] != "@@" || fields[3] != "@@" {
		return 0, 0, false
	}
	oldLines, ok = hunkRange(fields[1], '-')
	if !ok {
		return 0, 0, false
	}
	newLines, ok = hunkRange(fields[2], '+')
	if !ok {
		return 0, 0, false
	}
	return oldLines, newLines, true
}

// hunkRange parses "-start[,count]" and returns count, which defaults to 1
func hunkRange(field string, sign byte) (int, bool) {
	if len(field) < 2 || field[0] != sign {
		return 0, false
	}
	start, count, hasCount := strings.Cut(field[1:], ",")
	if _, err := strconv.Atoi(start); err != nil {
		return 0, false
	}
	if !hasCount {
		return 1, true
	}
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// gitHeaderPath extracts the new-side path from "a/X b/Y"
func gitHeaderPath(rest string) string {
	if strings.HasPrefix(rest, `"`) || strings.HasSuffix(rest, `"`) {
		tokens := lineTokens(rest)
		if len(tokens) == 0 {
			return ""
		}
		return stripSide(tokens[len(tokens)-1])
	}
	if idx := strings.LastIndex(rest, " b/"); idx >= 0 {
		return rest[idx+len(" b/"):]
	}
	tokens := lineTokens(rest)
	if len(tokens) == 0 {
		return ""
	}
	return stripSide(tokens[len(tokens)-1])
}

// headerPath extracts the path of a ---/+++ header, dropping any trailing
// tab-separated timestamp.
func headerPath(rest string) string {
	if strings.HasPrefix(rest, `"`) {
		tokens := lineTokens(rest)
		if len(tokens) == 0 {
			return ""
		}
		return stripSide(tokens[0])
	}
	if idx := strings.IndexByte(rest, '\t'); idx >= 0 {
		rest = rest[:idx]
	}
	rest = strings.TrimSpace(rest)
	if rest == devNull {
		return devNull
	}
	return stripSide(rest)
}

// binaryPath reads "Binary files a/X and b/Y differ", preferring the new side
func binaryPath(line string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(line, "Binary files "), " differ")
	idx := strings.LastIndex(body, " and ")
	if idx < 0 {
		return ""
	}
	oldSide := unquote(body[:idx])
	newSide := unquote(body[idx+len(" and "):])
	if newSide == devNull {
		return stripSide(oldSide)
	}
	return stripSide(newSide)
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		if tokens := lineTokens(s); len(tokens) > 0 {
			return tokens[0]
		}
	}
	return s
}

func stripSide(path string) string {
	if path == devNull {
		return path
	}
	if strings.HasPrefix(path, "a/") || strings.HasPrefix(path, "b/") {
		return path[2:]
	}
	return path
}

// lineTokens splits on blanks, treating double-quoted runs with backslash
// escapes as single tokens.
func lineTokens(s string) []string {
	var tokens []string
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return tokens
		}
		if s[0] == '"' {
			var buf strings.Builder
			escaped := false
			i := 1
			for ; i < len(s); i++ {
				ch := s[i]
				if escaped {
					buf.WriteByte(ch)
					escaped = false
					continue
				}
				if ch == '\\' {
					escaped = true
					continue
				}
				if ch == '"' {
					i++
					break
				}
				buf.WriteByte(ch)
			}
			tokens = append(tokens, buf.String())
			s = s[i:]
			continue
		}
		j := strings.IndexAny(s, " \t")
		if j < 0 {
			j = len(s)
		}
		tokens = append(tokens, s[:j])
		s = s[j:]
	}
}
