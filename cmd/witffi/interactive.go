package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/witffi/rustgen"
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

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserState int

const (
	stateFuncList browserState = iota
	stateFuncDetail
	stateTypeList
)

type browserModel struct {
	filename string
	gen      *rustgen.Generator
	funcs    []rustgen.FunctionInfo
	types    []rustgen.TypeInfo
	visible  []int // indices into funcs after filtering
	filter   textinput.Model
	selected int
	state    browserState
}

func newBrowserModel(filename string, gen *rustgen.Generator) *browserModel {
	filter := textinput.New()
	filter.Placeholder = "filter"
	filter.Prompt = "/ "
	filter.Width = 40

	m := &browserModel{
		filename: filename,
		gen:      gen,
		funcs:    gen.Functions(),
		types:    gen.Types(),
		filter:   filter,
		state:    stateFuncList,
	}
	m.refilter()
	return m
}

func (m *browserModel) refilter() {
	m.visible = m.visible[:0]
	for i, f := range m.funcs {
		if matchesFilter(f, m.filter.Value()) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = 0
	}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if m.filter.Focused() {
			switch key.String() {
			case "enter", "esc":
				m.filter.Blur()
			case "ctrl+c":
				return m, tea.Quit
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				m.refilter()
				return m, cmd
			}
			return m, nil
		}

		switch key.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "/":
			if m.state == stateFuncList {
				m.filter.Focus()
				return m, textinput.Blink
			}

		case "t":
			if m.state == stateFuncList {
				m.state = stateTypeList
				m.selected = 0
			}

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < m.listLen()-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateFuncList && len(m.visible) > 0 {
				m.state = stateFuncDetail
			}

		case "esc":
			switch m.state {
			case stateFuncDetail, stateTypeList:
				m.state = stateFuncList
				m.selected = 0
			case stateFuncList:
				m.filter.SetValue("")
				m.refilter()
			}
		}
	}
	return m, nil
}

func (m *browserModel) listLen() int {
	if m.state == stateTypeList {
		return len(m.types)
	}
	return len(m.visible)
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("witffi inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	fmt.Fprintf(&b, "  world %s -> trait %s\n\n", m.gen.WorldName(), typeStyle.Render(m.gen.TraitName()))

	switch m.state {
	case stateFuncList:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		if len(m.visible) == 0 {
			b.WriteString(helpStyle.Render("no matching functions"))
			b.WriteString("\n")
		}
		for pos, idx := range m.visible {
			f := m.funcs[idx]
			line := funcStyle.Render(formatOrigin(f)) + "  " + typeStyle.Render(f.Symbol)
			if pos == m.selected {
				b.WriteString(selectedStyle.Render("> " + formatOrigin(f) + "  " + f.Symbol))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter detail • / filter • t types • q quit"))

	case stateFuncDetail:
		f := m.funcs[m.visible[m.selected]]
		fmt.Fprintf(&b, "%s\n\n", funcStyle.Render(formatOrigin(f)))
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("C signature:"), f.CSignature)
		fmt.Fprintf(&b, "%s %s::%s\n", labelStyle.Render("Trait method:"), m.gen.TraitName(), f.Method)
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Return ownership:"), f.Ownership)
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Failure protocol:"), f.ErrorMode)
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back • q quit"))

	case stateTypeList:
		b.WriteString("Generated types:\n\n")
		for i, t := range m.types {
			line := fmt.Sprintf("%-10s %s  (%s, %s)", t.Kind, t.CName, t.Source, t.Ownership)
			if t.FreeFunc != "" {
				line = fmt.Sprintf("%-10s %s  (%s, %s, free: %s)", t.Kind, t.CName, t.Source, t.Ownership, t.FreeFunc)
			}
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + typeStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • esc back • q quit"))
	}

	return b.String()
}

func runBrowser(filename string, gen *rustgen.Generator) error {
	p := tea.NewProgram(newBrowserModel(filename, gen), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
