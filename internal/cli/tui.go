package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fleetingdev/fleeting/pkg/autocomplete"
)

const (
	forkIdx = iota
	branchIdx
)

var (
	pickLabelStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	pickSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	pickNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)

// pickKeyMap holds the form's key bindings. Printable keys go to the
// focused input, so navigation avoids letters.
type pickKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding
	Quit   key.Binding
}

var pickKeys = pickKeyMap{
	Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "previous field")),
	Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
	Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
	Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "accept")),
	Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

// suggestionsMsg carries the rendered result of one lookup.
type suggestionsMsg struct {
	field int
	gen   int
	items []string
}

// lookupCmd runs a lookup off the update loop. Stale results produce no
// message.
func lookupCmd(ctx context.Context, ta *autocomplete.Typeahead, field, gen int) tea.Cmd {
	return func() tea.Msg {
		var items []string
		if !ta.Lookup(ctx, func(s []string) { items = s }) {
			return nil
		}
		return suggestionsMsg{field: field, gen: gen, items: items}
	}
}

// pickModel is the bubbletea model of the fork and branch form. Each
// textinput is mirrored into an autocomplete.Text that the pair's fields
// read from.
type pickModel struct {
	ctx    context.Context
	pair   *autocomplete.Pair
	texts  [2]*autocomplete.Text
	inputs [2]textinput.Model

	focus  int
	cursor int
	items  [2][]string
	gen    [2]int // last issued lookup
	shown  [2]int // last applied lookup

	done bool
}

func newPickModel(ctx context.Context, pair *autocomplete.Pair, forkText, branchText *autocomplete.Text) pickModel {
	m := pickModel{
		ctx:   ctx,
		pair:  pair,
		texts: [2]*autocomplete.Text{forkText, branchText},
	}
	for i, placeholder := range []string{"fork owner", "branch"} {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholder
		ti.CharLimit = 100
		ti.Cursor.SetMode(cursor.CursorStatic)
		ti.SetValue(m.texts[i].Value())
		m.inputs[i] = ti
	}
	m.inputs[forkIdx].Focus()
	m.gen[forkIdx] = 1
	return m
}

func (m pickModel) field(i int) *autocomplete.Field {
	if i == forkIdx {
		return m.pair.Fork
	}
	return m.pair.Branch
}

func (m pickModel) Init() tea.Cmd {
	return lookupCmd(m.ctx, m.pair.Fork.Focus(), forkIdx, m.gen[forkIdx])
}

// lookup focuses field i's typeahead and issues a new lookup.
func (m *pickModel) lookup(i int) tea.Cmd {
	m.gen[i]++
	return lookupCmd(m.ctx, m.field(i).Focus(), i, m.gen[i])
}

// syncText copies input i into the field's Text.
func (m *pickModel) syncText(i int) {
	m.texts[i].Set(m.inputs[i].Value())
	if i == forkIdx {
		// Branch suggestions belong to the previous owner.
		m.items[branchIdx] = nil
		m.shown[branchIdx] = m.gen[branchIdx]
	}
}

func (m *pickModel) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.cursor = 0
	return tea.Batch(m.inputs[i].Focus(), m.lookup(i))
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case suggestionsMsg:
		if msg.gen > m.shown[msg.field] {
			m.shown[msg.field] = msg.gen
			m.items[msg.field] = msg.items
			if msg.field == m.focus && m.cursor >= len(msg.items) {
				m.cursor = 0
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pickKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, pickKeys.Next), key.Matches(msg, pickKeys.Prev):
			return m, m.focusField(1 - m.focus)
		case key.Matches(msg, pickKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, pickKeys.Down):
			if m.cursor < len(m.items[m.focus])-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, pickKeys.Accept):
			return m.accept()
		}
	}

	prev := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.inputs[m.focus].Value() != prev {
		m.syncText(m.focus)
		m.cursor = 0
		return m, tea.Batch(cmd, m.lookup(m.focus))
	}
	return m, cmd
}

// accept copies the highlighted suggestion into the focused field and
// advances once the field holds an offered value.
func (m pickModel) accept() (tea.Model, tea.Cmd) {
	items := m.items[m.focus]
	if m.cursor < len(items) {
		m.inputs[m.focus].SetValue(items[m.cursor])
		m.inputs[m.focus].CursorEnd()
		m.syncText(m.focus)
	}
	if m.field(m.focus).State() != autocomplete.StateSelected {
		return m, nil
	}
	if m.focus == forkIdx {
		return m, m.focusField(branchIdx)
	}
	if _, _, ok := m.pair.Selection(); ok {
		m.done = true
		return m, tea.Quit
	}
	return m, m.focusField(forkIdx)
}

func (m pickModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pick a fork of " + m.pair.Upstream()))
	b.WriteString("\n\n")

	for i := range m.inputs {
		b.WriteString(pickLabelStyle.Render(m.field(i).Name()))
		b.WriteString(m.inputs[i].View())
		b.WriteString("  ")
		b.WriteString(stateBadge(m.field(i).State()))
		b.WriteString("\n")
		if i == m.focus {
			m.writeSuggestions(&b)
		}
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(helpLine(pickKeys.Next, pickKeys.Up, pickKeys.Down, pickKeys.Accept, pickKeys.Quit)))
	b.WriteString("\n")
	return b.String()
}

func (m pickModel) writeSuggestions(b *strings.Builder) {
	items := m.items[m.focus]
	if len(items) == 0 {
		if m.shown[m.focus] > 0 {
			b.WriteString("        " + StyleDim.Render("no suggestions") + "\n")
		}
		return
	}
	for j, item := range items {
		if j == m.cursor {
			b.WriteString("      " + pickSelectedStyle.Render(iconCursor+" "+item))
		} else {
			b.WriteString("        " + pickNormalStyle.Render(item))
		}
		b.WriteString("\n")
	}
}

func stateBadge(s autocomplete.State) string {
	switch s {
	case autocomplete.StateSelected:
		return StyleSuccess.Render(iconSuccess)
	case autocomplete.StateValidatingUpstream:
		return StyleWarning.Render("checking fork")
	default:
		return ""
	}
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		h := kb.Help()
		parts[i] = fmt.Sprintf("%s %s", h.Key, h.Desc)
	}
	return strings.Join(parts, "  ")
}
