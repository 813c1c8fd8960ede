package parser

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/chezui/pkg/errors"
)

// DoctorResult is the first column of a doctor row
type DoctorResult string

const (
	DoctorOK      DoctorResult = "ok"
	DoctorInfo    DoctorResult = "info"
	DoctorWarning DoctorResult = "warning"
	DoctorError   DoctorResult = "error"
	DoctorFailed  DoctorResult = "failed"
	DoctorSkipped DoctorResult = "skipped"
)

// DoctorResults lists results from best to worst
var DoctorResults = []DoctorResult{
	DoctorOK, DoctorInfo, DoctorSkipped, DoctorWarning, DoctorError, DoctorFailed,
}

// DoctorCheck is one row of `doctor` output
type DoctorCheck struct {
	Result  DoctorResult `json:"result"`
	Check   string       `json:"check"`
	Message string       `json:"message"`
}

// Problem reports whether the check needs attention
func (c DoctorCheck) Problem() bool {
	return c.Result == DoctorWarning || c.Result == DoctorError || c.Result == DoctorFailed
}

// DoctorSummary counts checks per result
type DoctorSummary map[DoctorResult]int

// Summary counts checks per result
func Summary(checks []DoctorCheck) DoctorSummary {
	summary := DoctorSummary{}
	for _, c := range checks {
		summary[c.Result]++
	}
	return summary
}

// Healthy reports whether no check is a warning, error or failure
func (s DoctorSummary) Healthy() bool {
	return s[DoctorWarning] == 0 && s[DoctorError] == 0 && s[DoctorFailed] == 0
}

// ParseDoctor reads the RESULT CHECK MESSAGE table printed by `doctor`.
// The header row is skipped. The message keeps its inner spacing.
func ParseDoctor(stdout string) ([]DoctorCheck, error) {
	checks := []DoctorCheck{}
	for i, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" {
			continue
		}

		result, rest := splitField(line)
		if strings.EqualFold(result, "RESULT") {
			continue
		}
		check, message := splitField(rest)
		if check == "" {
			return nil, errors.NewParseError(nil, fmt.Sprintf("doctor row %d", i+1), stdout)
		}

		r := DoctorResult(strings.ToLower(result))
		if !knownDoctorResult(r) {
			return nil, errors.NewParseError(nil, fmt.Sprintf("doctor result %q on row %d", result, i+1), stdout)
		}
		checks = append(checks, DoctorCheck{Result: r, Check: check, Message: message})
	}
	return checks, nil
}

// splitField returns the first whitespace-delimited field and the trimmed rest
func splitField(s string) (string, string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexAny(s, " \t")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx:])
}

func knownDoctorResult(r DoctorResult) bool {
	for _, known := range DoctorResults {
		if r == known {
			return true
		}
	}
	return false
}
