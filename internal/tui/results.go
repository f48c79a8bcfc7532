package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/store"
)

type resultsModel struct {
	viewport viewport.Model
	renderer *glamour.TermRenderer
	report   *store.Report
	tab      Tab
	rendered map[Tab]string
	width    int
	height   int
}

func newResultsModel(report *store.Report, width, height int) resultsModel {
	m := resultsModel{report: report, rendered: make(map[Tab]string)}
	m.resize(width, height)
	return m
}

func (m *resultsModel) resize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m.width = width
	m.height = height

	// Layout: tab row (2 lines) + viewport + status bar (1 line).
	vpHeight := max(5, height-3)
	m.viewport = viewport.New(width, vpHeight)

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err == nil {
		m.renderer = r
	}
	clear(m.rendered)
	m.viewport.SetContent(m.content())
}

func (m *resultsModel) content() string {
	if s, ok := m.rendered[m.tab]; ok {
		return s
	}
	s := renderMarkdown(m.renderer, TabMarkdown(m.report, m.tab))
	m.rendered[m.tab] = s
	return s
}

// renderMarkdown renders md with r, falling back to plain text.
func renderMarkdown(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return textStyle.Render(md)
	}
	out, err := r.Render(md)
	if err != nil {
		return textStyle.Render(md)
	}
	return strings.TrimRight(out, "\n")
}

func (m resultsModel) Update(msg tea.Msg) (resultsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "right", "l":
			m.switchTab(1)
			return m, nil
		case "shift+tab", "left", "h":
			m.switchTab(-1)
			return m, nil
		case "1", "2", "3", "4":
			m.tab = Tab(msg.String()[0] - '1')
			m.viewport.SetContent(m.content())
			m.viewport.GotoTop()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *resultsModel) switchTab(delta int) {
	n := len(Tabs)
	m.tab = Tab((int(m.tab) + delta + n) % n)
	m.viewport.SetContent(m.content())
	m.viewport.GotoTop()
}

func (m resultsModel) View() string {
	var tabs []string
	for _, t := range Tabs {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}

	status := fmt.Sprintf(" %s • %d%%", m.report.Source, int(m.viewport.ScrollPercent()*100))
	if m.report.ID != "" {
		status = fmt.Sprintf(" %s • %s", shortID(m.report.ID), strings.TrimPrefix(status, " "))
	}
	statusBar := statusBarStyle.
		Width(m.width).
		Render(status + " • tab switch • esc new scan • q quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
		m.viewport.View(),
		statusBar,
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
