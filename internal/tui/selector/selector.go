package selector

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"readings/internal/index"
	"readings/internal/tags"
	"readings/internal/tui/messages"
	"readings/internal/tui/theme"
)

// Model shows one checkbox column per tag category
type Model struct {
	columns    []ColumnModel
	selection  *index.Selection
	focus      int
	textInput  textinput.Model
	filterMode bool // true while typing a fuzzy filter for the focused column
	message    string
	width      int
	height     int
}

// New creates a selector over the catalog with an empty selection
func New(catalog *tags.Catalog) Model {
	ti := textinput.New()
	ti.Placeholder = "filter tags..."
	ti.CharLimit = 50
	ti.Width = 30
	ti.Blur()

	var columns []ColumnModel
	for _, cat := range catalog.Categories() {
		columns = append(columns, NewColumnModel(cat))
	}

	return Model{
		columns:   columns,
		selection: index.NewSelection(catalog),
		textInput: ti,
		width:     80,
		height:    20,
	}
}

// SetSize updates the available drawing area
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selection returns the live selection
func (m Model) Selection() *index.Selection {
	return m.selection
}

// SetMessage shows a one-line notice under the columns
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

// IsFiltering reports whether keys go to the filter input
func (m Model) IsFiltering() bool {
	return m.filterMode
}

// Focused returns the index of the focused column
func (m Model) Focused() int {
	return m.focus
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		// Cursor blink and other input ticks
		if m.filterMode {
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.filterMode {
		switch keyMsg.String() {
		case "esc":
			// Cancel filter
			m.textInput.SetValue("")
			m.textInput.Blur()
			m.filterMode = false
			if col := m.current(); col != nil {
				col.SetQuery("")
			}
			return m, nil
		case "enter":
			// Keep the filter and return to navigation
			m.textInput.Blur()
			m.filterMode = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(keyMsg)
			if col := m.current(); col != nil {
				col.SetQuery(m.textInput.Value())
			}
			return m, cmd
		}
	}

	m.message = ""
	col := m.current()

	switch keyMsg.String() {
	case "h", "left":
		if m.focus > 0 {
			m.focus--
		}
	case "l", "right", "tab":
		if m.focus < len(m.columns)-1 {
			m.focus++
		}
	case "j", "down":
		if col != nil {
			col.MoveDown()
		}
	case "k", "up":
		if col != nil {
			col.MoveUp()
		}
	case " ", "x":
		if col != nil {
			col.Toggle(m.selection)
		}
	case "/":
		if col == nil {
			return m, nil
		}
		m.textInput.SetValue(col.Query())
		m.filterMode = true
		return m, m.textInput.Focus()
	case "esc":
		if col != nil && col.Query() != "" {
			col.SetQuery("")
		}
	case "C":
		for _, tag := range m.selection.Selected() {
			_ = m.selection.Set(tag, false)
		}
	case "enter":
		if m.selection.Empty() {
			m.message = "No tags selected."
			return m, nil
		}
		return m, messages.RequestSearch(m.selection.Clone())
	}
	return m, nil
}

func (m *Model) current() *ColumnModel {
	if m.focus < 0 || m.focus >= len(m.columns) {
		return nil
	}
	return &m.columns[m.focus]
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(theme.Title.Render("Select tags"))
	s.WriteString("  ")
	if sel := m.selection.Selected(); len(sel) > 0 {
		s.WriteString(theme.Tag.Render(strings.Join(sel, ", ")))
	} else {
		s.WriteString(theme.Muted.Render("nothing selected"))
	}
	s.WriteString("\n\n")

	if len(m.columns) == 0 {
		s.WriteString(theme.Warn.Render("No tag categories found in the Tags folder."))
		return s.String()
	}

	colWidth := m.columnWidth()
	colHeight := m.height - 8
	if colHeight < 3 {
		colHeight = 3
	}
	views := make([]string, len(m.columns))
	for i, col := range m.columns {
		views[i] = col.View(m.selection, i == m.focus, colWidth, colHeight)
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, views...))
	s.WriteString("\n")

	if m.filterMode {
		s.WriteString(theme.ModalTitle.Render("Filtering: "))
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}
	if m.message != "" {
		s.WriteString(theme.Warn.Render(m.message))
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) columnWidth() int {
	if len(m.columns) == 0 {
		return m.width
	}
	// Four cells of border and padding per column
	w := m.width/len(m.columns) - 4
	if w < 12 {
		w = 12
	}
	return w
}
