package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/llm"
)

// setupModel picks the chat model used for analysis, fixes and docs.
type setupModel struct {
	models []llm.OllamaModel
	cursor int
	loaded bool
	err    error
}

// fetchModelsMsg is sent when models have been fetched from Ollama.
type fetchModelsMsg struct {
	models []llm.OllamaModel
	err    error
}

func fetchModels(baseURL string) tea.Cmd {
	return func() tea.Msg {
		models, err := llm.ListModels(context.Background(), baseURL)
		return fetchModelsMsg{models: models, err: err}
	}
}

func (m setupModel) Update(msg tea.Msg, current string) (setupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchModelsMsg:
		m.loaded = true
		m.err = msg.err
		m.models = msg.models
		for i, model := range m.models {
			if model.Name == current || model.Name == current+":latest" {
				m.cursor = i
				break
			}
		}

	case tea.KeyMsg:
		if !m.loaded || m.err != nil {
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.models)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m setupModel) selected() string {
	if m.cursor < len(m.models) {
		return m.models[m.cursor].Name
	}
	return ""
}

func (m setupModel) View() string {
	s := "\n"
	s += titleStyle.Render("  Select Model") + "\n"
	s += dimStyle.Render("  Used for analysis, fixes and documentation") + "\n\n"

	if !m.loaded {
		s += dimStyle.Render("  Fetching models from Ollama...") + "\n"
		return s
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
		s += dimStyle.Render("  Make sure Ollama is running and try again.") + "\n"
		s += helpStyle.Render("  Esc back") + "\n"
		return s
	}

	if len(m.models) == 0 {
		s += warnStyle.Render("  No models found in Ollama.") + "\n"
		s += dimStyle.Render("  Pull a model first: ollama pull qwen3:8b") + "\n"
		s += helpStyle.Render("  Esc back") + "\n"
		return s
	}

	for i, model := range m.models {
		cursor := "  "
		style := listItemStyle
		if i == m.cursor {
			cursor = "▸ "
			style = selectedStyle
		}
		s += fmt.Sprintf("  %s%s\n", cursor, style.Render(fmt.Sprintf("%s (%s)", model.Name, formatSize(model.Size))))
	}
	s += "\n"
	s += helpStyle.Render("  ↑/↓ navigate • Enter select • Esc back") + "\n"
	return s
}

// formatSize returns a human-readable size string.
func formatSize(bytes int64) string {
	const gb = 1024 * 1024 * 1024
	const mb = 1024 * 1024
	if bytes >= gb {
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	}
	return fmt.Sprintf("%.0f MB", float64(bytes)/float64(mb))
}
