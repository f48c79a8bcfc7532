// Package tui is the interactive front end: pick a folder or repository,
// watch the pipeline run, then browse the report.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/pipeline"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/store"
)

// ViewState represents which screen is active.
type ViewState int

const (
	ViewInput ViewState = iota
	ViewSetup
	ViewRunning
	ViewResults
)

// programRef is an indirect pointer to the tea.Program so background goroutines
// can send messages. It must be set after tea.NewProgram returns but before Run.
type programRef struct {
	p *tea.Program
}

// Config holds configuration passed from the CLI layer.
type Config struct {
	// Pipeline is copied for every run; its Assistant and OnEvent are set here.
	Pipeline        pipeline.Config
	LLMURL          string
	Model           string
	LLMTimeout      time.Duration
	MaxContentChars int
	// Source prefills the input.
	Source string
	// Report opens straight into the results view.
	Report *store.Report

	// program is set internally so background goroutines can send messages.
	program *programRef
}

// Model is the top-level Bubble Tea model.
type Model struct {
	state  ViewState
	config Config
	width  int
	height int

	input   inputModel
	setup   setupModel
	running runningModel
	results resultsModel
}

// New creates a new TUI model with the given config.
func New(cfg Config) Model {
	m := Model{
		state:  ViewInput,
		config: cfg,
		input:  newInputModel(cfg.Source),
	}
	if cfg.Report != nil {
		m.state = ViewResults
		m.results = newResultsModel(cfg.Report, 0, 0)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, checkLLM(m.config.LLMURL, m.config.Model))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var cmd tea.Cmd
		m.input, _ = m.input.Update(msg)
		m.running, _ = m.running.Update(msg)
		if m.state == ViewResults {
			m.results, cmd = m.results.Update(msg)
		}
		return m, cmd

	case tea.KeyMsg:
		// Global quit.
		switch msg.String() {
		case "ctrl+c":
			if m.running.cancel != nil {
				m.running.cancel()
			}
			return m, tea.Quit
		case "q":
			if m.state == ViewResults || m.state == ViewSetup {
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd

	switch m.state {
	case ViewInput:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				source := m.input.value()
				if source == "" {
					m.input.hint = "Enter a folder path or a GitHub repository URL"
					return m, nil
				}
				return m, m.startRun(source)
			case "ctrl+o":
				m.state = ViewSetup
				m.setup = setupModel{}
				return m, fetchModels(m.config.LLMURL)
			}
		}
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case ViewSetup:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = ViewInput
				return m, nil
			case "enter":
				if sel := m.setup.selected(); sel != "" {
					m.config.Model = sel
					m.input.status = llmChecking
					m.state = ViewInput
					return m, checkLLM(m.config.LLMURL, m.config.Model)
				}
				return m, nil
			}
		}
		m.setup, cmd = m.setup.Update(msg, m.config.Model)
		return m, cmd

	case ViewRunning:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				if !m.running.done && m.running.cancel != nil {
					m.running.cancel()
				}
				return m, nil
			case "enter":
				if !m.running.done {
					return m, nil
				}
				m.running.cancel()
				if m.running.err != nil {
					m.state = ViewInput
					return m, nil
				}
				m.state = ViewResults
				m.results = newResultsModel(m.running.report, m.width, m.height)
				return m, nil
			}
		}
		m.running, cmd = m.running.Update(msg)
		return m, cmd

	case ViewResults:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			m.state = ViewInput
			return m, nil
		}
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) startRun(source string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.state = ViewRunning
	m.running = newRunningModel(source, m.width, cancel)
	return tea.Batch(m.running.spinner.Tick, runPipeline(ctx, m.config, source))
}

func (m Model) View() string {
	switch m.state {
	case ViewInput:
		return m.input.View(m.config.Model)
	case ViewSetup:
		return m.setup.View()
	case ViewRunning:
		return m.running.View(m.width, m.height)
	case ViewResults:
		return m.results.View()
	}
	return ""
}

// Run starts the TUI program.
func Run(cfg Config) error {
	ref := &programRef{}
	cfg.program = ref
	model := New(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	ref.p = p
	_, err := p.Run()
	return err
}
