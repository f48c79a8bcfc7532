package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/llm"
)

type llmStatus int

const (
	llmChecking llmStatus = iota
	llmReady
	llmModelMissing
	llmUnreachable
)

type inputModel struct {
	input  textinput.Model
	status llmStatus
	reason string
	// hint is shown under the input after a rejected submit.
	hint string
}

// checkLLMMsg is sent after probing the model endpoint.
type checkLLMMsg struct {
	status llmStatus
	reason string
}

func newInputModel(source string) inputModel {
	ti := textinput.New()
	ti.Placeholder = "./path/to/project or https://github.com/owner/repo"
	ti.CharLimit = 1000
	ti.Width = 60
	ti.SetValue(source)
	ti.Focus()
	return inputModel{input: ti}
}

func checkLLM(baseURL, model string) tea.Cmd {
	return func() tea.Msg {
		models, err := llm.ListModels(context.Background(), baseURL)
		if err != nil {
			return checkLLMMsg{status: llmUnreachable, reason: err.Error()}
		}
		if !llm.HasModel(models, model) {
			return checkLLMMsg{status: llmModelMissing, reason: fmt.Sprintf("model %s is not pulled", model)}
		}
		return checkLLMMsg{status: llmReady}
	}
}

func (m inputModel) value() string {
	return strings.TrimSpace(m.input.Value())
}

func (m inputModel) Update(msg tea.Msg) (inputModel, tea.Cmd) {
	switch msg := msg.(type) {
	case checkLLMMsg:
		m.status = msg.status
		m.reason = msg.reason
		return m, nil
	case tea.WindowSizeMsg:
		m.input.Width = max(20, msg.Width-8)
	case tea.KeyMsg:
		m.hint = ""
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View(model string) string {
	s := "\n"
	s += titleStyle.Render("  ◆ autofix") + "\n"
	s += subtitleStyle.Render("  Scan a repository, find problems, propose fixes, write docs") + "\n\n"

	s += "  " + m.input.View() + "\n"
	if m.hint != "" {
		s += "  " + warnStyle.Render(m.hint) + "\n"
	}
	s += "\n"

	switch m.status {
	case llmChecking:
		s += dimStyle.Render("  Checking model endpoint...") + "\n"
	case llmReady:
		s += successStyle.Render("  ✓ Model "+model+" ready") + "\n"
	case llmModelMissing:
		s += warnStyle.Render("  ⚠ "+m.reason) + "\n"
		s += dimStyle.Render("    Pick another with ctrl+o; the scan still runs without it") + "\n"
	case llmUnreachable:
		s += warnStyle.Render("  ✗ Model endpoint unreachable") + "\n"
		s += dimStyle.Render("    "+m.reason) + "\n"
	}

	s += "\n"
	s += helpStyle.Render("  Enter run • ctrl+o choose model • ctrl+c quit") + "\n"
	return s
}
