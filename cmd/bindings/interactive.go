package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const historySize = 8

var (
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

type tickMsg uint32

type repeatModel struct {
	spinner    spinner.Model
	identifier string
	limit      int
	ticks      int
	history    []uint32
	done       bool
}

func newRepeatModel(identifier string, limit int) *repeatModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = accentStyle
	return &repeatModel{
		spinner:    s,
		identifier: identifier,
		limit:      limit,
	}
}

func (m *repeatModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *repeatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.done = true
			return m, tea.Quit
		}

	case tickMsg:
		m.ticks++
		m.history = append(m.history, uint32(msg))
		if len(m.history) > historySize {
			m.history = m.history[len(m.history)-historySize:]
		}
		if m.limit > 0 && m.ticks >= m.limit {
			m.done = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *repeatModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("JsRepeater"))
	b.WriteString(" ")
	b.WriteString(m.identifier)
	b.WriteString("\n\n")

	if m.done {
		b.WriteString(successMsg("%d ticks", m.ticks))
	} else {
		b.WriteString(m.spinner.View())
		b.WriteString(fmt.Sprintf(" waiting for tick %d", m.ticks))
	}
	b.WriteString("\n\n")

	start := m.ticks - len(m.history)
	for i, v := range m.history {
		b.WriteString(fmt.Sprintf("  %s %s\n", muted(fmt.Sprintf("tick %d:", start+i)), valueStyle.Render(fmt.Sprint(v))))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q quit"))
	return b.String()
}
