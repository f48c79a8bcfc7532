package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/assistant"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/llm"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/pipeline"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/store"
)

// maxLogLines bounds the terminal log kept in memory.
const maxLogLines = 500

type runningModel struct {
	spinner  spinner.Model
	progress progress.Model
	source   string
	stage    pipeline.Stage
	percent  float64
	lines    []pipeline.Event
	done     bool
	report   *store.Report
	err      error
	cancel   context.CancelFunc
}

func newRunningModel(source string, width int, cancel context.CancelFunc) runningModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = progressWidth(width)

	return runningModel{
		spinner:  sp,
		progress: bar,
		source:   source,
		stage:    pipeline.StageScan,
		cancel:   cancel,
	}
}

func progressWidth(width int) int {
	if width <= 0 {
		return 40
	}
	return min(80, max(20, width-8))
}

// eventMsg carries one pipeline event into the program.
type eventMsg pipeline.Event

// pipelineDoneMsg is sent when the pipeline returns.
type pipelineDoneMsg struct {
	report *store.Report
	err    error
}

func runPipeline(ctx context.Context, cfg Config, source string) tea.Cmd {
	return func() tea.Msg {
		chat := llm.NewOllamaChat(cfg.LLMURL, cfg.Model, llm.WithJSON(), llm.WithTimeout(cfg.LLMTimeout))

		pc := cfg.Pipeline
		pc.Assistant = assistant.New(chat,
			assistant.WithMaxContentChars(cfg.MaxContentChars),
			assistant.WithLogger(pc.Logger),
		)
		pc.OnEvent = func(e pipeline.Event) {
			if cfg.program != nil && cfg.program.p != nil {
				cfg.program.p.Send(eventMsg(e))
			}
		}

		report, err := pipeline.New(pc).Run(ctx, source)
		return pipelineDoneMsg{report: report, err: err}
	}
}

func (m runningModel) Update(msg tea.Msg) (runningModel, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.stage = msg.Stage
		m.percent = float64(msg.Progress) / 100
		m.lines = append(m.lines, pipeline.Event(msg))
		if len(m.lines) > maxLogLines {
			m.lines = m.lines[len(m.lines)-maxLogLines:]
		}
		return m, nil
	case pipelineDoneMsg:
		m.done = true
		m.report = msg.report
		m.err = msg.err
		if msg.err == nil {
			m.percent = 1
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.progress.Width = progressWidth(msg.Width)
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m runningModel) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Running") + " " + dimStyle.Render(m.source) + "\n\n")

	switch {
	case m.done && m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("  ✗ %v", m.err)) + "\n")
	case m.done:
		b.WriteString(successStyle.Render("  ✓ Finished") + "\n")
	default:
		b.WriteString(fmt.Sprintf("  %s %s\n", m.spinner.View(), stageLabel(m.stage)))
	}
	b.WriteString("  " + m.progress.ViewAs(m.percent) + "\n\n")

	// Header, progress and footer take about ten lines.
	visible := max(3, height-10)
	lines := m.lines
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	for _, e := range lines {
		b.WriteString("  " + logStyle(e.Level).Render(truncate(e.Line, width-4)) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.done && m.err != nil:
		b.WriteString(helpStyle.Render("  Enter back • ctrl+c quit") + "\n")
	case m.done:
		b.WriteString(helpStyle.Render("  Enter view results") + "\n")
	default:
		b.WriteString(helpStyle.Render("  Esc cancel") + "\n")
	}
	return b.String()
}

func stageLabel(s pipeline.Stage) string {
	switch s {
	case pipeline.StageScan:
		return "Scanning repository..."
	case pipeline.StageAnalyze:
		return "Analyzing issues..."
	case pipeline.StageFix:
		return "Generating fixes..."
	case pipeline.StageGenerateDocs:
		return "Writing documentation..."
	case pipeline.StageSave:
		return "Saving report..."
	}
	return "Finishing..."
}

func logStyle(l pipeline.Level) lipgloss.Style {
	switch l {
	case pipeline.LevelSuccess:
		return successStyle
	case pipeline.LevelWarn:
		return warnStyle
	case pipeline.LevelError:
		return errorStyle
	}
	return dimStyle
}

func truncate(s string, n int) string {
	if n <= 1 || len([]rune(s)) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
