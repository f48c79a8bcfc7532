package tui

import (
	"fmt"
	"strings"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/assistant"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/store"
)

// Tab is one section of a rendered report.
type Tab int

const (
	TabOverview Tab = iota
	TabAnalysis
	TabFixes
	TabDocs
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabOverview, TabAnalysis, TabFixes, TabDocs}

func (t Tab) String() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabAnalysis:
		return "Analysis"
	case TabFixes:
		return "Fixes"
	case TabDocs:
		return "Docs"
	}
	return "?"
}

// TabMarkdown renders one section of r as Markdown.
func TabMarkdown(r *store.Report, t Tab) string {
	switch t {
	case TabAnalysis:
		return analysisMarkdown(r)
	case TabFixes:
		return fixesMarkdown(r)
	case TabDocs:
		return docsMarkdown(r)
	}
	return overviewMarkdown(r)
}

// ReportMarkdown renders every section of r as one Markdown document.
func ReportMarkdown(r *store.Report) string {
	parts := make([]string, 0, len(Tabs))
	for _, t := range Tabs {
		parts = append(parts, TabMarkdown(r, t))
	}
	return strings.Join(parts, "\n---\n\n")
}

func overviewMarkdown(r *store.Report) string {
	var b strings.Builder
	sum := r.Summary
	st := sum.Stats()

	fmt.Fprintf(&b, "# %s\n\n", r.Source)
	if r.ID != "" {
		fmt.Fprintf(&b, "Report `%s` from %s\n\n", r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Files listed | %d |\n", st.Listed)
	fmt.Fprintf(&b, "| Files read | %d |\n", st.Processed)
	fmt.Fprintf(&b, "| Total size | %s |\n", humanBytes(st.TotalSize))
	fmt.Fprintf(&b, "| Languages | %s |\n", joinLabels(sum.Languages))
	fmt.Fprintf(&b, "| Frameworks | %s |\n", joinLabels(sum.Frameworks))
	if r.Analysis != nil {
		fmt.Fprintf(&b, "| Score | %d/100 |\n", r.Analysis.Score)
	}
	b.WriteString("\n")

	writeList(&b, "Detected issues", sum.Errors)
	writeList(&b, "Scan warnings", sum.Warnings)

	if len(r.Failures) > 0 {
		b.WriteString("## Failed actions\n\n")
		for _, a := range assistant.Actions {
			if msg, ok := r.Failures[a]; ok {
				fmt.Fprintf(&b, "- **%s**: %s\n", a, msg)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func analysisMarkdown(r *store.Report) string {
	a := r.Analysis
	if a == nil {
		return missing("Analysis", r, assistant.ActionAnalyze)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Analysis: %d/100\n\n", a.Score)
	if a.Summary != "" {
		b.WriteString(a.Summary + "\n\n")
	}
	writeList(&b, "Critical errors", a.CriticalErrors)
	writeList(&b, "Security issues", a.SecurityIssues)
	writeList(&b, "Warnings", a.Warnings)
	writeList(&b, "Suggestions", a.Suggestions)
	return b.String()
}

func fixesMarkdown(r *store.Report) string {
	ps := r.Patches
	if ps == nil {
		return missing("Fixes", r, assistant.ActionFix)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Fixes: %d patched, %d skipped\n\n", ps.FixedCount, ps.SkippedCount)
	for i, p := range ps.Patches {
		fmt.Fprintf(&b, "## %d. `%s` (%s risk)\n\n", i+1, p.File, p.RiskLevel)
		if p.Explanation != "" {
			b.WriteString(p.Explanation + "\n\n")
		}
		b.WriteString("```diff\n" + strings.TrimRight(p.Diff, "\n") + "\n```\n\n")
		if p.TestCommand != "" {
			fmt.Fprintf(&b, "Verify with `%s`\n\n", p.TestCommand)
		}
	}
	writeList(&b, "Skipped", ps.SkippedReasons)
	return b.String()
}

func docsMarkdown(r *store.Report) string {
	d := r.Docs
	if d == nil {
		return missing("Docs", r, assistant.ActionGenerateDocs)
	}
	var b strings.Builder
	if d.Summary != "" {
		b.WriteString("> " + strings.ReplaceAll(strings.TrimSpace(d.Summary), "\n", "\n> ") + "\n\n")
	}
	b.WriteString(strings.TrimSpace(d.Readme) + "\n\n")
	if d.ProblemsSolved != "" {
		b.WriteString("## Problems solved\n\n" + strings.TrimSpace(d.ProblemsSolved) + "\n")
	}
	return b.String()
}

func missing(title string, r *store.Report, a assistant.Action) string {
	if msg, ok := r.Failures[a]; ok {
		return fmt.Sprintf("# %s\n\n**%s failed:** %s\n", title, a, msg)
	}
	return fmt.Sprintf("# %s\n\n_Not run._\n", title)
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s (%d)\n\n", title, len(items))
	for _, it := range items {
		b.WriteString("- " + it + "\n")
	}
	b.WriteString("\n")
}

func joinLabels[T ~string](items []T) string {
	if len(items) == 0 {
		return "none"
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return strings.Join(parts, ", ")
}

func humanBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%d B", n)
}
