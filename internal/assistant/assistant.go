// Package assistant turns a repository summary into an issue analysis, a set
// of patches, or generated documentation by prompting a chat model.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/llm"
)

// Assistant answers Requests using a chat model.
type Assistant struct {
	chat     llm.Chat
	maxChars int
	log      zerolog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithMaxContentChars bounds how much of each file is put in the prompt.
func WithMaxContentChars(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.maxChars = n
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Assistant) { a.log = l }
}

// New creates an Assistant backed by chat.
func New(chat llm.Chat, opts ...Option) *Assistant {
	a := &Assistant{chat: chat, maxChars: 4000, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run performs req.Action. It never returns an error; failures are reported
// through Response.Error.
func (a *Assistant) Run(ctx context.Context, req Request) Response {
	if req.RepoSummary == nil {
		return fail(errors.New("no repository summary"))
	}
	if _, err := ParseAction(string(req.Action)); err != nil {
		return fail(err)
	}

	msgs := BuildMessages(req.RepoSummary, req.Action, a.maxChars)
	a.log.Debug().Str("action", string(req.Action)).Int("messages", len(msgs)).Msg("prompting model")

	reply, err := a.chat.Generate(ctx, msgs)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", req.Action, err))
	}

	result, err := parseReply(req.Action, reply)
	if err != nil {
		a.log.Warn().Err(err).Str("action", string(req.Action)).Msg("unusable model reply")
		return fail(fmt.Errorf("%s: %w", req.Action, err))
	}
	return ok(result)
}

func parseReply(action Action, reply string) (any, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}
	switch action {
	case ActionAnalyze:
		return parseAnalysis(raw)
	case ActionFix:
		return parsePatchSet(raw)
	default:
		return parseDocumentation(raw)
	}
}

func parseAnalysis(raw []byte) (*IssueAnalysis, error) {
	var ia IssueAnalysis
	if err := json.Unmarshal(raw, &ia); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	ia.Score = max(0, min(100, ia.Score))
	ia.CriticalErrors = nonNil(ia.CriticalErrors)
	ia.Warnings = nonNil(ia.Warnings)
	ia.SecurityIssues = nonNil(ia.SecurityIssues)
	ia.Suggestions = nonNil(ia.Suggestions)
	ia.Summary = strings.TrimSpace(ia.Summary)
	return &ia, nil
}

// patchSetReply mirrors PatchSet with an optional skipped count so an omitted
// value can be told apart from zero.
type patchSetReply struct {
	Patches        []Patch  `json:"patches"`
	SkippedCount   *int     `json:"skippedCount"`
	SkippedReasons []string `json:"skippedReasons"`
}

func parsePatchSet(raw []byte) (*PatchSet, error) {
	var r patchSetReply
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode patches: %w", err)
	}

	ps := &PatchSet{Patches: []Patch{}, SkippedReasons: nonNil(r.SkippedReasons)}
	for _, p := range r.Patches {
		if strings.TrimSpace(p.File) == "" || p.Original == p.Fixed {
			ps.SkippedReasons = append(ps.SkippedReasons, fmt.Sprintf("%s: patch makes no change", orUnnamed(p.File)))
			continue
		}
		p.RiskLevel = normalizeRisk(p.RiskLevel)
		if strings.TrimSpace(p.Diff) == "" {
			p.Diff = UnifiedDiff(p.File, p.Original, p.Fixed)
		}
		ps.Patches = append(ps.Patches, p)
	}

	// Fixed always matches the patches kept; skipped may exceed the reasons given.
	ps.FixedCount = len(ps.Patches)
	ps.SkippedCount = len(ps.SkippedReasons)
	if r.SkippedCount != nil && *r.SkippedCount > ps.SkippedCount {
		ps.SkippedCount = *r.SkippedCount
	}
	return ps, nil
}

func parseDocumentation(raw []byte) (*Documentation, error) {
	var d Documentation
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode documentation: %w", err)
	}
	if strings.TrimSpace(d.Readme) == "" {
		return nil, errors.New("model returned an empty readme")
	}
	return &d, nil
}

// extractJSON finds the first balanced JSON object in s. Markdown code fences
// and surrounding prose are tolerated.
func extractJSON(s string) ([]byte, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil, errors.New("no JSON object in model reply")
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return []byte(s[start : i+1]), nil
			}
		}
	}
	return nil, errors.New("unterminated JSON object in model reply")
}

func normalizeRisk(r RiskLevel) RiskLevel {
	switch RiskLevel(strings.ToLower(string(r))) {
	case RiskLow:
		return RiskLow
	case RiskHigh:
		return RiskHigh
	default:
		return RiskMedium
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orUnnamed(file string) string {
	if strings.TrimSpace(file) == "" {
		return "(unnamed file)"
	}
	return file
}
