package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/packlayout/engine"
	"github.com/wippyai/packlayout/layout"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err        error
	desc       *layout.Descriptor
	set        layout.FieldSet
	cfg        config
	strategies []engine.Strategy
	outcomes   []outcome
	input      textinput.Model
	selected   int
	runAll     bool
	state      modelState
}

type modelState int

const (
	stateSelectStrategy modelState = iota
	stateInputCount
	stateShowResult
)

type runResultMsg struct {
	err      error
	outcomes []outcome
}

func newInteractiveModel(cfg config) *interactiveModel {
	m := &interactiveModel{cfg: cfg, state: stateSelectStrategy}
	m.desc, m.err = parseDescriptor(cfg.layout, cfg.fields)
	if m.err != nil {
		return m
	}
	if m.set, m.err = parseUsed(cfg.used, m.desc.Arity()); m.err != nil {
		return m
	}
	m.strategies = engine.Strategies(m.desc.Kind())
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputCount {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectStrategy && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectStrategy && m.selected < len(m.strategies)-1 {
				m.selected++
			}

		case "a":
			if m.state == stateSelectStrategy {
				m.runAll = true
				m.prepareInput()
				m.state = stateInputCount
				return m, nil
			}

		case "enter":
			switch m.state {
			case stateSelectStrategy:
				if m.err != nil {
					return m, nil
				}
				m.runAll = false
				m.prepareInput()
				m.state = stateInputCount
				return m, nil

			case stateInputCount:
				n, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
				if err != nil || n < 0 {
					m.err = fmt.Errorf("node count must be a non-negative integer")
					return m, nil
				}
				m.err = nil
				m.cfg.n = n
				return m, m.runSelected

			case stateShowResult:
				m.state = stateSelectStrategy
				m.outcomes = nil
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateInputCount:
				m.state = stateSelectStrategy
				m.err = nil
			case stateShowResult:
				m.state = stateSelectStrategy
				m.outcomes = nil
				m.err = nil
			}
		}

	case runResultMsg:
		m.outcomes = msg.outcomes
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputCount {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = "node count"
	ti.Prompt = "nodes: "
	ti.Width = 20
	ti.SetValue(strconv.Itoa(m.cfg.n))
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) runSelected() tea.Msg {
	strategies := m.strategies
	if !m.runAll {
		strategies = []engine.Strategy{m.strategies[m.selected]}
	}
	outcomes, err := runStrategies(context.Background(), m.cfg, m.desc, m.set, strategies)
	return runResultMsg{outcomes: outcomes, err: err}
}

func (m *interactiveModel) View() string {
	if m.desc == nil || len(m.strategies) == 0 {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Packed Layout Runner"))
	b.WriteString(" ")
	b.WriteString(typeStyle.Render(m.desc.String()))
	b.WriteString(" used=")
	b.WriteString(typeStyle.Render(m.set.String()))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectStrategy:
		b.WriteString("Select a strategy to run:\n\n")
		for i, s := range m.strategies {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + s.String()))
			} else {
				b.WriteString("  " + funcStyle.Render(s.String()))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run • a run all • q quit"))

	case stateInputCount:
		if m.runAll {
			b.WriteString("Running all strategies\n\n")
		} else {
			b.WriteString(fmt.Sprintf("Running %s\n\n", funcStyle.Render(m.strategies[m.selected].String())))
		}
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(m.err.Error()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter run • esc back"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		for _, o := range m.outcomes {
			b.WriteString(o.render(true))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(cfg config) error {
	p := tea.NewProgram(newInteractiveModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
