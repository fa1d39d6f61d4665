package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/transcoder"
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

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowEncoded
	stateInputPayload
	stateShowDecoded
)

// inspectorModel walks a schema's functions: pick one, enter its arguments
// as JSON values, see the encoded request, then paste a response to decode.
type inspectorModel struct {
	err      error
	tc       *transcoder.Transcoder
	filename string
	result   string
	funcs    []*schema.Function
	inputs   []textinput.Model
	payload  textinput.Model
	selected int
	focusIdx int
	state    modelState
}

func newInspectorModel(filename string, s *schema.Schema) *inspectorModel {
	funcs := append([]*schema.Function(nil), s.Functions()...)
	sort.Slice(funcs, func(i, j int) bool { return funcs[i].Qualified() < funcs[j].Qualified() })
	return &inspectorModel{
		tc:       transcoder.New(s),
		filename: filename,
		funcs:    funcs,
		state:    stateSelectFunc,
	}
}

func (m *inspectorModel) Init() tea.Cmd {
	return nil
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if !m.typing() {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.funcs)-1 {
				m.selected++
			}

		case "d":
			if m.state == stateShowEncoded && m.err == nil && m.current().Result != nil {
				m.preparePayload()
				m.state = stateInputPayload
				return m, nil
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				if len(m.funcs) == 0 {
					return m, nil
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					m.encode()
					return m, nil
				}
				m.state = stateInputArgs
				return m, nil

			case stateInputArgs:
				m.encode()
				return m, nil

			case stateInputPayload:
				m.decode()
				return m, nil

			case stateShowEncoded, stateShowDecoded:
				m.reset()
				return m, nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs, stateShowEncoded, stateShowDecoded:
				m.reset()
			case stateInputPayload:
				m.state = stateShowEncoded
			}
			return m, nil
		}
	}

	switch m.state {
	case stateInputArgs:
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	case stateInputPayload:
		var cmd tea.Cmd
		m.payload, cmd = m.payload.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *inspectorModel) typing() bool {
	return m.state == stateInputArgs || m.state == stateInputPayload
}

func (m *inspectorModel) current() *schema.Function {
	return m.funcs[m.selected]
}

func (m *inspectorModel) reset() {
	m.state = stateSelectFunc
	m.inputs = nil
	m.result = ""
	m.err = nil
}

func (m *inspectorModel) prepareInputs() {
	f := m.current()
	m.inputs = make([]textinput.Model, len(f.Params))
	for i, p := range f.Params {
		ti := textinput.New()
		ti.Placeholder = typeString(p.Type)
		ti.Prompt = p.Name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *inspectorModel) preparePayload() {
	ti := textinput.New()
	ti.Placeholder = "hex"
	ti.Prompt = "response: "
	ti.Width = 60
	ti.Focus()
	m.payload = ti
}

func (m *inspectorModel) encode() {
	f := m.current()
	args := make(map[string]any, len(f.Params))
	for i, p := range f.Params {
		v, err := parseValue(m.inputs[i].Value())
		if err != nil {
			m.err = err
			m.state = stateShowEncoded
			return
		}
		args[p.Name] = v
	}
	call, err := encodeCall(m.tc, f, args)
	m.err = err
	if err == nil {
		m.result = call.String()
	}
	m.state = stateShowEncoded
}

func (m *inspectorModel) decode() {
	m.state = stateShowDecoded
	payload, err := parseHex(m.payload.Value())
	if err != nil {
		m.err = err
		return
	}
	m.result, m.err = decodeResult(m.tc, m.current(), payload)
}

func (m *inspectorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Wire Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	if len(m.funcs) == 0 {
		b.WriteString("The schema declares no functions.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	f := m.current()
	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select a function:\n\n")
		for i, fn := range m.funcs {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.formatFunc(fn)))
			} else {
				b.WriteString("  " + m.formatFunc(fn))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter encode • q quit"))

	case stateInputArgs:
		b.WriteString(fmt.Sprintf("Arguments for %s (JSON values)\n\n", funcStyle.Render(f.Qualified())))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(typeString(f.Params[i].Type)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter encode • esc back"))

	case stateShowEncoded:
		b.WriteString(fmt.Sprintf("Request for %s:\n\n", funcStyle.Render(f.Qualified())))
		m.writeResult(&b)
		help := "enter continue • q quit"
		if m.err == nil && f.Result != nil {
			help = "d decode a response • " + help
		}
		b.WriteString(helpStyle.Render(help))

	case stateInputPayload:
		b.WriteString(fmt.Sprintf("Response of %s as %s\n\n", funcStyle.Render(f.Qualified()), typeStyle.Render(typeString(f.Result))))
		b.WriteString(m.payload.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter decode • esc back"))

	case stateShowDecoded:
		b.WriteString(fmt.Sprintf("Response of %s:\n\n", funcStyle.Render(f.Qualified())))
		m.writeResult(&b)
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *inspectorModel) writeResult(b *strings.Builder) {
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else {
		b.WriteString(resultStyle.Render(m.result))
	}
	b.WriteString("\n\n")
}

func (m *inspectorModel) formatFunc(f *schema.Function) string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name + ": " + typeStyle.Render(typeString(p.Type))
	}
	result := ""
	if f.Result != nil {
		result = " -> " + typeStyle.Render(typeString(f.Result))
	}
	return funcStyle.Render(f.Qualified()) + "(" + strings.Join(params, ", ") + ")" + result
}

func runInteractive(filename string, s *schema.Schema) error {
	p := tea.NewProgram(newInspectorModel(filename, s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
