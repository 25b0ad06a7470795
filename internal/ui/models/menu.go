package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/file-organizer/internal/organizer"
	"github.com/fenilsonani/file-organizer/internal/ui/styles"
	uiutils "github.com/fenilsonani/file-organizer/internal/ui/utils"
)

// Selection is what the user picked: a root and a policy, or exit
type Selection struct {
	Root   string
	Policy organizer.Policy
	Exit   bool
}

// ValidateFunc checks a typed root and returns the path to organize
type ValidateFunc func(string) (string, error)

type menuStep int

const (
	stepRoot menuStep = iota
	stepPolicy
)

type menuItem struct {
	policy organizer.Policy
	label  string
}

// MenuModel asks for a directory, then for an organize method
type MenuModel struct {
	step     menuStep
	input    textinput.Model
	items    []menuItem
	cursor   int
	validate ValidateFunc
	root     string
	err      error
	result   Selection
	done     bool
	width    int
	height   int
}

// NewMenuModel creates the menu. The cursor starts on defaultPolicy.
func NewMenuModel(validate ValidateFunc, defaultPolicy organizer.Policy) *MenuModel {
	ti := textinput.New()
	ti.Placeholder = "~/Downloads"
	ti.Prompt = "Directory: "
	ti.CharLimit = 4096
	ti.Width = 50
	ti.Focus()

	var items []menuItem
	cursor := 0
	for i, p := range organizer.Policies() {
		if p == defaultPolicy {
			cursor = i
		}
		items = append(items, menuItem{policy: p, label: p.Label()})
	}
	items = append(items, menuItem{label: "Exit"})

	if validate == nil {
		validate = func(s string) (string, error) { return s, nil }
	}

	return &MenuModel{
		step:     stepRoot,
		input:    ti,
		items:    items,
		cursor:   cursor,
		validate: validate,
	}
}

// Init initializes the menu
func (m *MenuModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m.finish(Selection{Exit: true})
		}

		if m.step == stepRoot {
			return m.updateRoot(msg)
		}
		return m.updatePolicy(msg)
	}

	if m.step == stepRoot {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *MenuModel) updateRoot(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			m.err = fmt.Errorf("enter a directory path")
			return m, nil
		}
		root, err := m.validate(value)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.root = root
		m.err = nil
		m.step = stepPolicy
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = nil
	return m, cmd
}

func (m *MenuModel) updatePolicy(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "1", "2", "3", "4":
		m.cursor = int(msg.String()[0]-'1') % len(m.items)
		return m.choose()
	case "q":
		return m.finish(Selection{Exit: true})
	case "backspace", "shift+tab":
		m.step = stepRoot
		m.input.Focus()
		return m, textinput.Blink
	case "enter":
		return m.choose()
	}
	return m, nil
}

func (m *MenuModel) choose() (tea.Model, tea.Cmd) {
	item := m.items[m.cursor]
	if item.policy == "" {
		return m.finish(Selection{Exit: true})
	}
	return m.finish(Selection{Root: m.root, Policy: item.policy})
}

func (m *MenuModel) finish(sel Selection) (tea.Model, tea.Cmd) {
	m.result = sel
	m.done = true
	return m, tea.Quit
}

// Result returns the selection once the menu has quit
func (m *MenuModel) Result() Selection {
	if !m.done {
		return Selection{Exit: true}
	}
	return m.result
}

// View renders the menu
func (m *MenuModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	if warning := uiutils.GetSizeWarningBanner(m.width, m.height); warning != "" {
		b.WriteString(warning)
	}

	b.WriteString(styles.TitleStyle.Render("File Organizer"))
	b.WriteString("\n\n")

	if m.step == stepRoot {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(styles.ErrorStyle.Render(uiutils.WrapText(m.err.Error(), m.width)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("enter: continue • esc: quit"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("Directory: ")
	b.WriteString(styles.FilePathStyle.Render(uiutils.TruncatePath(m.root, 60)))
	b.WriteString("\n\n")
	b.WriteString(styles.SubtitleStyle.Render("Choose an organize method:"))
	b.WriteString("\n")

	for i, item := range m.items {
		label := fmt.Sprintf("%d. %s", i+1, item.label)
		if i == m.cursor {
			label = styles.SelectedStyle.Render(label)
		}
		b.WriteString(styles.Cursor(i == m.cursor))
		b.WriteString(label)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓: move • enter: select • backspace: change directory • q: quit"))
	b.WriteString("\n")
	return b.String()
}
