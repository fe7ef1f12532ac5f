// Package tui is the interactive search box: a bubbletea program whose text
// field feeds the search controller and whose result pane is the
// controller's renderer.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
)

// QueryInput receives the raw text of the search box after every change.
type QueryInput interface {
	Input(raw string)
}

// row is one line of the result pane. Heading rows belong to a group and
// cannot be selected.
type row struct {
	heading bool
	nested  bool
	name    string
	loc     index.Location
}

// Model is the bubbletea model of the search box.
type Model struct {
	input    textinput.Model
	queries  QueryInput
	bridge   *Bridge
	snapshot Snapshot
	rows     []row
	selected int
	maxRows  int
	width    int

	chosen *index.Location
}

// New builds the model. Changes to the text field go to queries; bridge
// must be the renderer of the same controller.
func New(queries QueryInput, bridge *Bridge) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search symbols..."
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 50
	ti.PromptStyle = promptStyle
	ti.PlaceholderStyle = placeholderStyle
	ti.Focus()

	return &Model{
		input:   ti,
		queries: queries,
		bridge:  bridge,
		maxRows: 15,
	}
}

// Chosen returns the location picked with Enter, if any.
func (m *Model) Chosen() (index.Location, bool) {
	if m.chosen == nil {
		return index.Location{}, false
	}
	return *m.chosen, true
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.bridge.Wait())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.apply(Snapshot(msg))
		return m, m.bridge.Wait()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Height > 8 {
			m.maxRows = msg.Height - 7
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if r, ok := m.current(); ok {
				loc := r.loc
				m.chosen = &loc
				return m, tea.Quit
			}
			return m, nil
		case "up", "ctrl+p":
			m.move(-1)
			return m, nil
		case "down", "ctrl+n", "tab":
			m.move(1)
			return m, nil
		}
	}

	previous := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != previous {
		m.queries.Input(m.input.Value())
	}
	return m, cmd
}

func (m *Model) apply(s Snapshot) {
	m.snapshot = s
	m.rows = m.rows[:0]
	for _, r := range s.Results {
		if !r.Grouped() {
			m.rows = append(m.rows, row{name: r.Name, loc: index.Location{URL: r.URL, Scope: r.Scope}})
			continue
		}
		m.rows = append(m.rows, row{heading: true, name: r.Name})
		for _, loc := range r.Locations {
			m.rows = append(m.rows, row{nested: true, name: r.Name, loc: loc})
		}
	}
	m.selected = -1
	m.move(1)
}

// move shifts the selection by delta selectable rows, wrapping around.
func (m *Model) move(delta int) {
	n := len(m.rows)
	if n == 0 {
		m.selected = -1
		return
	}
	i := m.selected
	for step := 0; step < n; step++ {
		i = ((i+delta)%n + n) % n
		if !m.rows[i].heading {
			m.selected = i
			return
		}
	}
}

func (m *Model) current() (row, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.selected], true
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Doc Search"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch m.snapshot.Kind {
	case KindCleared:
		b.WriteString(helpStyle.Render("Type to search documented symbols."))
	case KindEmpty:
		b.WriteString(emptyStyle.Render(fmt.Sprintf("No results for %q", strings.TrimSpace(m.snapshot.Query))))
	case KindResults:
		b.WriteString(m.resultsView())
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter open • esc quit"))

	box := boxStyle
	if m.width > 4 {
		box = box.Width(m.width - 4)
	}
	return box.Render(b.String())
}

func (m *Model) resultsView() string {
	start := 0
	if m.selected >= m.maxRows {
		start = m.selected - m.maxRows + 1
	}
	end := start + m.maxRows
	if end > len(m.rows) {
		end = len(m.rows)
	}

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		r := m.rows[i]
		var line string
		switch {
		case r.heading:
			line = nameStyle.Render(r.name)
		case r.nested:
			line = "  " + scopeLabel(r.loc)
		default:
			line = nameStyle.Render(r.name)
			if r.loc.Scope != "" {
				line += " " + scopeStyle.Render(r.loc.Scope)
			}
		}
		if i == m.selected {
			line = selectedStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if hidden := len(m.rows) - end; hidden > 0 {
		lines = append(lines, scopeStyle.Render(fmt.Sprintf("  … %d more", hidden)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func scopeLabel(loc index.Location) string {
	if loc.Scope != "" {
		return scopeStyle.Render(loc.Scope)
	}
	return scopeStyle.Render(loc.URL)
}
