// Package tui is a scrollable terminal viewer for check reports.
package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Section is one tab of the viewer.
type Section struct {
	Title string
	Body  string
}

// Model shows one section at a time in a viewport.
type Model struct {
	title    string
	sections []Section
	active   int
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// New creates a viewer. It needs at least one section.
func New(title string, sections []Section) Model {
	if len(sections) == 0 {
		sections = []Section{{Title: title, Body: "(empty)"}}
	}
	return Model{title: title, sections: sections}
}

// Active returns the index of the shown section.
func (m Model) Active() int {
	return m.active
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - chromeHeight
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
		m.viewport.SetContent(m.sections[m.active].Body)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			return m.switchTo((m.active + 1) % len(m.sections)), nil
		case "shift+tab", "left", "h":
			return m.switchTo((m.active + len(m.sections) - 1) % len(m.sections)), nil
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) switchTo(i int) Model {
	m.active = i
	if m.ready {
		m.viewport.SetContent(m.sections[i].Body)
		m.viewport.GotoTop()
	}
	return m
}

// Run shows the viewer full screen until the user quits.
func Run(title string, sections []Section) error {
	_, err := tea.NewProgram(New(title, sections), tea.WithAltScreen()).Run()
	return err
}
