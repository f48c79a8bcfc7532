package assistant

import (
	"fmt"
	"strings"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/llm"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/scan"
)

const systemPrompt = `You are a senior software engineer reviewing a repository. You are given a bounded summary of the repository: detected languages and frameworks, the file structure, heuristic issues found by pattern matching, and the contents of a subset of files.

Rules:
- ONLY describe what you can directly observe in the provided summary
- Do NOT invent files, functions, or dependencies that aren't shown
- Reply with a single JSON object and nothing else`

const analyzePrompt = `Analyze the repository for problems. Group findings by severity and give an overall quality score from 0 (unusable) to 100 (excellent).

Reply with JSON of exactly this shape:
{"criticalErrors": [string], "warnings": [string], "securityIssues": [string], "suggestions": [string], "score": number, "summary": string}`

const fixPrompt = `Propose minimal, safe fixes for the issues you can see in the provided file contents. Only patch files whose contents are shown. "original" must be the exact snippet being replaced and "fixed" its replacement. Skip anything you cannot fix safely and say why in "skippedReasons".

Reply with JSON of exactly this shape:
{"patches": [{"file": string, "original": string, "fixed": string, "diff": string, "explanation": string, "riskLevel": "low"|"medium"|"high", "testCommand": string}], "fixedCount": number, "skippedCount": number, "skippedReasons": [string]}`

const docsPrompt = `Write documentation for this repository. "readme" is a complete README.md in Markdown covering what the project does, how to install and run it, and its layout. "summary" is one paragraph. "problemsSolved" describes in Markdown the problems this project solves for its users.

Reply with JSON of exactly this shape:
{"readme": string, "summary": string, "problemsSolved": string}`

func actionPrompt(a Action) string {
	switch a {
	case ActionAnalyze:
		return analyzePrompt
	case ActionFix:
		return fixPrompt
	default:
		return docsPrompt
	}
}

// budgetFiles is how many clipped files fit in one prompt.
const budgetFiles = 8

// BuildMessages constructs the message list for the model. Each file body is
// clipped to maxChars, and file bodies stop once the prompt budget is spent.
func BuildMessages(sum *scan.Summary, action Action, maxChars int) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: describe(sum, maxChars)},
		{Role: "assistant", Content: "I've reviewed the repository summary. What should I do?"},
		{Role: "user", Content: actionPrompt(action)},
	}
}

func describe(sum *scan.Summary, maxChars int) string {
	if maxChars <= 0 {
		maxChars = 4000
	}
	var b strings.Builder

	st := sum.Stats()
	b.WriteString("## Repository\n\n")
	fmt.Fprintf(&b, "Files listed: %d, with content: %d, total size: %d bytes\n", st.Listed, st.Processed, st.TotalSize)
	fmt.Fprintf(&b, "Languages: %s\n", joinOrNone(sum.Languages))
	fmt.Fprintf(&b, "Frameworks: %s\n", joinOrNone(sum.Frameworks))

	b.WriteString("\n## Structure\n\n")
	for _, p := range sum.Structure {
		b.WriteString(p)
		b.WriteByte('\n')
	}

	if len(sum.Errors) > 0 {
		b.WriteString("\n## Detected issues\n\n")
		for _, e := range sum.Errors {
			b.WriteString("- " + e + "\n")
		}
	}
	if len(sum.Warnings) > 0 {
		b.WriteString("\n## Scan warnings\n\n")
		for _, w := range sum.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}

	if len(sum.Files) > 0 {
		b.WriteString("\n## File contents\n\n")
		budget := budgetFiles * maxChars
		for i, f := range sum.Files {
			if budget <= 0 {
				fmt.Fprintf(&b, "(%d more files omitted)\n", len(sum.Files)-i)
				break
			}
			content := clip(f.Content, min(maxChars, budget))
			budget -= len(content)
			fmt.Fprintf(&b, "--- %s (%s, %d bytes) ---\n", f.Path, f.Type, f.Size)
			b.WriteString("```\n")
			b.WriteString(content)
			if !strings.HasSuffix(content, "\n") {
				b.WriteByte('\n')
			}
			b.WriteString("```\n\n")
		}
	}
	return b.String()
}

// clip truncates s to at most n bytes without splitting a UTF-8 sequence.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n] + "\n... (truncated)"
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

func joinOrNone[T ~string](items []T) string {
	if len(items) == 0 {
		return "none detected"
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return strings.Join(parts, ", ")
}
