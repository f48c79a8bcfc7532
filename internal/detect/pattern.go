// Package detect implements the heuristic detectors run over scanned files:
// regex-based issue patterns and manifest-based framework detection.
package detect

import (
	"fmt"
	"regexp"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/classify"
)

// check is one regex heuristic. Counted checks report the number of matches.
type check struct {
	re      *regexp.Regexp
	message string
	counted bool
}

// genericChecks run against every file, in this order.
var genericChecks = []check{
	{regexp.MustCompile(`console\.error\(`), "Console error found", true},
	{regexp.MustCompile(`console\.log\(`), "Console.log statement found", true},
	{regexp.MustCompile(`\b(?:TODO|FIXME)\b`), "TODO/FIXME comment found", true},
	{regexp.MustCompile(`\bdebugger\s*;`), "Debugger statement found", true},
	{regexp.MustCompile(`(?i)\b(?:password|passwd|secret|api[_-]?key|access[_-]?token)\s*[:=]\s*["'][^"'\s]{4,}["']`), "Possible hardcoded credential found", true},
	{regexp.MustCompile(`\beval\s*\(`), "eval() usage found", true},
}

var scriptChecks = []check{
	{regexp.MustCompile(`:\s*any\b|\bas\s+any\b|<any>`), "'any' type usage detected", false},
	{regexp.MustCompile(`\bvar\s+[A-Za-z_$]`), "'var' keyword usage detected (prefer let or const)", false},
	{regexp.MustCompile(`(?:^|[^=!<>])(?:==|!=)(?:[^=]|$)`), "Loose equality (== or !=) usage detected", false},
}

var pythonChecks = []check{
	{regexp.MustCompile(`(?m)^[ \t]*except[ \t]*:[ \t]*\r?$`), "Bare except clause detected", false},
	{regexp.MustCompile(`(?m)^[ \t]*from[ \t]+\S+[ \t]+import[ \t]+\*`), "Wildcard import detected", false},
}

// PatternDetector finds shallow text-pattern issues in source files.
// It is stateless and safe for concurrent use.
type PatternDetector struct {
	tables *classify.Tables
}

// NewPatternDetector creates a detector that uses tables to decide which
// language-specific checks apply.
func NewPatternDetector(tables *classify.Tables) *PatternDetector {
	return &PatternDetector{tables: tables}
}

// Detect returns issue strings of the form "<path>: <message>". Language
// specific findings come first, then the generic checks in table order.
func (d *PatternDetector) Detect(path, content string) []string {
	var issues []string

	ext := classify.Extension(path)
	switch {
	case d.tables.IsScript(ext):
		issues = appendMatches(issues, path, content, scriptChecks)
	case d.tables.IsPython(ext):
		issues = appendMatches(issues, path, content, pythonChecks)
	}

	return appendMatches(issues, path, content, genericChecks)
}

func appendMatches(issues []string, path, content string, checks []check) []string {
	for _, c := range checks {
		if !c.counted {
			if c.re.MatchString(content) {
				issues = append(issues, fmt.Sprintf("%s: %s", path, c.message))
			}
			continue
		}
		n := len(c.re.FindAllStringIndex(content, -1))
		if n == 0 {
			continue
		}
		issues = append(issues, fmt.Sprintf("%s: %s (%d occurrences)", path, c.message, n))
	}
	return issues
}
