package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nickkkcc/cartridge-go/mapper"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	shapeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	treeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var shapes = []string{shapeSingle, shapeValues, shapePage}

type modelState int

const (
	stateInput modelState = iota
	stateShowResult
)

type interactiveModel struct {
	err    error
	reg    *mapper.Registry
	cfg    config
	tree   string
	result string
	input  textinput.Model
	shape  int
	state  modelState
}

type inspectMsg struct {
	err    error
	tree   string
	result string
}

func newInteractiveModel(cfg config, reg *mapper.Registry) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "paste a " + cfg.Format + " envelope"
	ti.Prompt = "> "
	ti.Width = 72
	ti.CharLimit = 0
	ti.Focus()

	m := &interactiveModel{cfg: cfg, reg: reg, input: ti}
	for i, s := range shapes {
		if s == cfg.Shape {
			m.shape = i
		}
	}
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateShowResult {
				return m, tea.Quit
			}

		case "tab":
			m.shape = (m.shape + 1) % len(shapes)
			if m.state == stateShowResult {
				return m, m.inspect
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateInput:
				if strings.TrimSpace(m.input.Value()) == "" {
					return m, nil
				}
				return m, m.inspect
			case stateShowResult:
				m.reset()
				return m, nil
			}

		case "esc":
			if m.state == stateShowResult {
				m.reset()
				return m, nil
			}
			m.input.SetValue("")
		}

	case inspectMsg:
		m.tree = msg.tree
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateInput
	m.tree, m.result, m.err = "", "", nil
	m.input.SetValue("")
	m.input.Focus()
}

func (m *interactiveModel) inspect() tea.Msg {
	env, err := parseEnvelope([]byte(m.input.Value()), m.cfg.Format, m.cfg.Zstd)
	if err != nil {
		return inspectMsg{err: err}
	}
	tree := renderTree(m.reg, env)
	res, err := decodeResult(m.reg, env, shapes[m.shape])
	return inspectMsg{tree: tree, result: res, err: err}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tntmap"))
	b.WriteString(" shape ")
	b.WriteString(shapeStyle.Render(shapes[m.shape]))
	b.WriteString("\n\n")

	switch m.state {
	case stateInput:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter inspect • tab shape • esc clear • ctrl+c quit"))

	case stateShowResult:
		if m.tree != "" {
			b.WriteString(treeStyle.Render(m.tree))
			b.WriteString("\n\n")
		}
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("tab shape • enter new envelope • q quit"))
	}

	return b.String()
}

func runInteractive(cfg config) error {
	reg, err := mapper.NewDefaultBuilder().Build()
	if err != nil {
		return err
	}
	p := tea.NewProgram(newInteractiveModel(cfg, reg), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
