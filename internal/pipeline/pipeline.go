// Package pipeline runs a scan followed by the assistant actions and reports
// progress as it goes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/assistant"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/github"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/scan"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/store"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/walker"
)

// LastSourceKey is the store meta key holding the most recent input.
const LastSourceKey = "last_source"

// Stage names a pipeline step.
type Stage string

const (
	StageScan         Stage = "scan"
	StageAnalyze      Stage = "analyze"
	StageFix          Stage = "fix"
	StageGenerateDocs Stage = "generate-docs"
	StageSave         Stage = "save"
	StageDone         Stage = "done"
)

// Level grades an event line for display.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

// Event is one progress update. Progress runs from 0 to 100.
type Event struct {
	Stage    Stage
	Progress int
	Line     string
	Level    Level
}

// ProgressFunc receives pipeline events.
type ProgressFunc func(Event)

// Actor performs one assistant action. *assistant.Assistant implements it.
type Actor interface {
	Run(ctx context.Context, req assistant.Request) assistant.Response
}

// Config holds the runner's collaborators.
type Config struct {
	Scan   scan.Config
	GitHub *github.Client
	Walk   walker.Options
	// Assistant may be nil, in which case only the scan runs.
	Assistant Actor
	// Actions defaults to every action.
	Actions []assistant.Action
	// Store is optional.
	Store   store.Store
	Logger  zerolog.Logger
	OnEvent ProgressFunc
}

// Runner executes the pipeline.
type Runner struct {
	cfg Config
}

// New creates a Runner.
func New(cfg Config) *Runner {
	if cfg.Actions == nil {
		cfg.Actions = assistant.Actions
	}
	return &Runner{cfg: cfg}
}

const scanShare = 25

// Run scans input and runs each configured action in order. Only a failed
// scan is returned as an error; failed actions are recorded in the report.
func (r *Runner) Run(ctx context.Context, input string) (*store.Report, error) {
	log := r.cfg.Logger.With().Str("source", input).Logger()
	start := time.Now()

	r.emit(StageScan, 0, LevelInfo, "Scanning %s", input)

	cfg := r.cfg.Scan
	cfg.Logger = &log
	scanner, err := NewScanner(ctx, cfg, input, r.cfg.GitHub, r.cfg.Walk)
	if err != nil {
		r.emit(StageScan, 0, LevelError, "Scan failed: %v", err)
		return nil, err
	}
	sum, err := scanner.Scan(ctx)
	if err != nil {
		r.emit(StageScan, 0, LevelError, "Scan failed: %v", err)
		return nil, err
	}
	r.reportScan(sum)

	report := &store.Report{Source: input, Summary: sum}

	if r.cfg.Assistant != nil && len(r.cfg.Actions) > 0 {
		step := (100 - scanShare) / len(r.cfg.Actions)
		for i, action := range r.cfg.Actions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			progress := scanShare + i*step
			stage := Stage(action)
			r.emit(stage, progress, LevelInfo, "Running %s...", action)

			resp := r.cfg.Assistant.Run(ctx, assistant.Request{RepoSummary: sum, Action: action})
			if !resp.Success {
				log.Warn().Str("action", string(action)).Str("error", resp.Error).Msg("action failed")
				if report.Failures == nil {
					report.Failures = make(map[assistant.Action]string)
				}
				report.Failures[action] = resp.Error
				r.emit(stage, progress+step, LevelError, "%s failed: %s", action, resp.Error)
				continue
			}
			r.apply(report, resp.Result)
			r.emit(stage, progress+step, LevelSuccess, "%s", describeResult(action, resp.Result))
		}
	}

	if r.cfg.Store != nil {
		if err := r.cfg.Store.Save(report); err != nil {
			log.Error().Err(err).Msg("save report")
			r.emit(StageSave, 100, LevelWarn, "Could not save report: %v", err)
		} else {
			if err := r.cfg.Store.SetMeta(LastSourceKey, input); err != nil {
				log.Warn().Err(err).Msg("save last source")
			}
			r.emit(StageSave, 100, LevelInfo, "Report saved as %s", report.ID)
		}
	}

	log.Info().Dur("elapsed", time.Since(start)).Int("files", sum.FileCount).Int("failures", len(report.Failures)).Msg("pipeline finished")
	r.emit(StageDone, 100, LevelSuccess, "Done in %s", time.Since(start).Round(time.Millisecond))
	return report, nil
}

func (r *Runner) reportScan(sum *scan.Summary) {
	st := sum.Stats()
	for _, w := range sum.Warnings {
		r.emit(StageScan, scanShare, LevelWarn, "%s", w)
	}
	for _, e := range sum.Errors {
		r.emit(StageScan, scanShare, LevelWarn, "%s", e)
	}
	r.emit(StageScan, scanShare, LevelSuccess,
		"Scanned %d files (%d with content, %d bytes): %d languages, %d frameworks, %d issues",
		st.Listed, st.Processed, st.TotalSize, len(sum.Languages), len(sum.Frameworks), st.Issues)
}

func (r *Runner) apply(report *store.Report, result any) {
	switch v := result.(type) {
	case *assistant.IssueAnalysis:
		report.Analysis = v
	case *assistant.PatchSet:
		report.Patches = v
	case *assistant.Documentation:
		report.Docs = v
	}
}

func describeResult(action assistant.Action, result any) string {
	switch v := result.(type) {
	case *assistant.IssueAnalysis:
		return fmt.Sprintf("Analysis complete: score %d/100, %d critical, %d security issues",
			v.Score, len(v.CriticalErrors), len(v.SecurityIssues))
	case *assistant.PatchSet:
		return fmt.Sprintf("Fixes ready: %d patched, %d skipped", v.FixedCount, v.SkippedCount)
	case *assistant.Documentation:
		return "Documentation generated"
	}
	return fmt.Sprintf("%s complete", action)
}

func (r *Runner) emit(stage Stage, progress int, level Level, format string, args ...any) {
	if r.cfg.OnEvent == nil {
		return
	}
	r.cfg.OnEvent(Event{
		Stage:    stage,
		Progress: min(100, max(0, progress)),
		Line:     fmt.Sprintf(format, args...),
		Level:    level,
	})
}

// IsFatal reports whether err came from a condition that stops a scan before
// it starts: a malformed repository URL or an unlistable repository.
func IsFatal(err error) bool {
	var te *github.TreeError
	return errors.Is(err, github.ErrInvalidURL) || errors.As(err, &te)
}
