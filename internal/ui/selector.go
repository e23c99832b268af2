package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harborctl/harbor/internal/model"
)

// selector mode
type selectorMode int

const (
	modeList selectorMode = iota
	modeEditCommand
)

// item is one discovered service row.
type item struct {
	svc      model.DevService
	included bool
}

// selectorModel implements tea.Model for the dock selector: toggle which
// discovered services to add, optionally edit the inferred command per row.
type selectorModel struct {
	items     []item
	cursor    int
	mode      selectorMode
	textInput textinput.Model
	confirmed bool
}

// SelectServices runs the interactive selector over the discovered services
// and returns the ones the user kept, with any command edits applied.
// A nil slice with nil error means the user cancelled.
func SelectServices(discovered []model.DevService) ([]model.DevService, error) {
	ti := textinput.New()
	ti.Placeholder = "command to start the service"
	ti.CharLimit = 256
	ti.Width = 60

	m := &selectorModel{textInput: ti}
	for _, svc := range discovered {
		m.items = append(m.items, item{svc: svc, included: true})
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("running selector: %w", err)
	}

	fm := final.(*selectorModel)
	if !fm.confirmed {
		return nil, nil
	}
	var kept []model.DevService
	for _, it := range fm.items {
		if it.included {
			kept = append(kept, it.svc)
		}
	}
	return kept, nil
}

func (m *selectorModel) Init() tea.Cmd {
	return nil
}

func (m *selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.mode == modeEditCommand {
		switch keyMsg.String() {
		case "enter":
			m.items[m.cursor].svc.Command = strings.TrimSpace(m.textInput.Value())
			m.mode = modeList
			m.textInput.Blur()
			return m, nil
		case "esc":
			m.mode = modeList
			m.textInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ":
		m.items[m.cursor].included = !m.items[m.cursor].included
	case "e":
		if len(m.items) > 0 {
			m.mode = modeEditCommand
			m.textInput.SetValue(m.items[m.cursor].svc.Command)
			m.textInput.Focus()
		}
	case "enter":
		m.confirmed = true
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *selectorModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Select services to add"))
	b.WriteString("\n\n")

	for i, it := range m.items {
		mark := DimStyle.Render("[ ]")
		if it.included {
			mark = SuccessStyle.Render("[x]")
		}
		command := it.svc.Command
		if command == "" {
			// A kept service without a command cannot launch; make the
			// gap stand out.
			command = ErrorStyle.Render("(no command inferred)")
		}
		line := fmt.Sprintf("%s %-20s %s", mark, it.svc.Name, command)
		if i == m.cursor {
			line = SelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mode == modeEditCommand {
		b.WriteString(fmt.Sprintf("Command for %s:\n", m.items[m.cursor].svc.Name))
		b.WriteString(m.textInput.View())
		b.WriteString("\n")
		b.WriteString(DimStyle.Render("enter: save  esc: cancel"))
	} else {
		b.WriteString(DimStyle.Render("space: toggle  e: edit command  enter: confirm  q: quit"))
	}
	b.WriteString("\n")
	return b.String()
}
