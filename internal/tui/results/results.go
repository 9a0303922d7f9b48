package results

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"readings/internal/index"
	"readings/internal/notes"
	"readings/internal/session"
	"readings/internal/tui/messages"
	"readings/internal/tui/shared"
	"readings/internal/tui/theme"
)

// Item is one displayed search result
type Item struct {
	Row     *index.Row
	Matched []string // selected tags the note carries
	Preview string
}

// Model lists the rows of the last search and drives exports
type Model struct {
	items      []Item
	selected   []string
	cursorPos  int
	cutoff     *time.Time
	defaultCut time.Time
	cutoffEdit bool
	textInput  textinput.Model
	body       viewport.Model
	status     string
	statusErr  bool
	width      int
	height     int
}

// New creates an empty results view
func New() Model {
	ti := textinput.New()
	ti.Placeholder = notes.DateLayout
	ti.CharLimit = len(notes.DateLayout)
	ti.Width = 12
	ti.Blur()

	return Model{
		textInput: ti,
		body:      viewport.New(80, 8),
		width:     80,
		height:    20,
	}
}

// SetSize updates the available drawing area
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.body.Width = width
	m.body.Height = m.bodyHeight()
}

// SetResults replaces the listed rows
func (m *Model) SetResults(rows []*index.Row, selected []string, defaultCutoff time.Time) {
	m.selected = selected
	m.defaultCut = defaultCutoff
	m.items = make([]Item, len(rows))
	for i, row := range rows {
		m.items[i] = Item{
			Row:     row,
			Matched: session.MatchedTags(row, selected),
			Preview: notes.Preview(row.Body),
		}
	}
	m.cursorPos = 0
	m.status = ""
	m.refreshBody()
}

// Refresh re-reads the dates of the listed rows after an export
func (m *Model) Refresh(rows []*index.Row) {
	m.SetResults(rows, m.selected, m.defaultCut)
}

// SetStatus shows a one-line outcome message
func (m *Model) SetStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// Items returns the listed results
func (m Model) Items() []Item {
	return m.items
}

// Cutoff returns the cutoff the user typed, or nil for the default
func (m Model) Cutoff() *time.Time {
	return m.cutoff
}

// IsEditing reports whether keys go to the cutoff input
func (m Model) IsEditing() bool {
	return m.cutoffEdit
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.cutoffEdit {
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.cutoffEdit {
		switch keyMsg.String() {
		case "esc":
			m.textInput.Blur()
			m.cutoffEdit = false
			return m, nil
		case "enter":
			value := strings.TrimSpace(m.textInput.Value())
			if value == "" {
				m.cutoff = nil
			} else {
				parsed, err := time.Parse(notes.DateLayout, value)
				if err != nil {
					m.SetStatus(fmt.Sprintf("Invalid date %q, expected %s", value, notes.DateLayout), true)
					return m, nil
				}
				m.cutoff = &parsed
			}
			m.status = ""
			m.textInput.Blur()
			m.cutoffEdit = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(keyMsg)
			return m, cmd
		}
	}

	switch keyMsg.String() {
	case "j", "down":
		if m.cursorPos < len(m.items)-1 {
			m.cursorPos++
			m.refreshBody()
		}
	case "k", "up":
		if m.cursorPos > 0 {
			m.cursorPos--
			m.refreshBody()
		}
	case "J", "pgdown":
		m.body.HalfViewDown()
	case "K", "pgup":
		m.body.HalfViewUp()
	case "c":
		if m.cutoff != nil {
			m.textInput.SetValue(m.cutoff.Format(notes.DateLayout))
		} else {
			m.textInput.SetValue("")
		}
		m.cutoffEdit = true
		return m, m.textInput.Focus()
	case "e":
		m.SetStatus("Exporting...", false)
		return m, messages.RequestExport(m.cutoff)
	case "esc", "backspace":
		return m, messages.SwitchView(messages.ViewSelector)
	}
	return m, nil
}

func (m *Model) refreshBody() {
	if m.cursorPos >= len(m.items) {
		m.body.SetContent("")
		return
	}
	m.body.SetContent(m.items[m.cursorPos].Row.Body)
	m.body.GotoTop()
}

// listHeight is the number of result lines shown above the note body
func (m Model) listHeight() int {
	h := (m.height - 6) / 2
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) bodyHeight() int {
	h := m.height - 6 - m.listHeight()
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) cutoffLabel() string {
	if m.cutoff != nil {
		return m.cutoff.Format(notes.DateLayout)
	}
	return m.defaultCut.Format(notes.DateLayout) + " (default)"
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(theme.Title.Render(fmt.Sprintf("%d notes", len(m.items))))
	s.WriteString("  ")
	s.WriteString(theme.Tag.Render(strings.Join(m.selected, ", ")))
	s.WriteString("  ")
	if m.cutoffEdit {
		s.WriteString(theme.ModalTitle.Render("Cutoff: "))
		s.WriteString(m.textInput.View())
	} else {
		s.WriteString(theme.Muted.Render("cutoff " + m.cutoffLabel()))
	}
	s.WriteString("\n\n")

	if len(m.items) == 0 {
		s.WriteString(shared.CenterWithBottomHints(
			theme.Muted.Render("No matching notes."),
			theme.HelpHint.Render("esc: back to tags"),
			m.listHeight(),
		))
		return s.String()
	}

	start, end := shared.Window(len(m.items), m.cursorPos, m.listHeight())
	for i := start; i < end; i++ {
		s.WriteString(m.renderItem(i))
		s.WriteString("\n")
	}
	s.WriteString(theme.Muted.Render(strings.Repeat("─", max(m.width, 1))))
	s.WriteString("\n")
	s.WriteString(m.body.View())
	s.WriteString("\n")

	if m.status != "" {
		style := theme.Ok
		if m.statusErr {
			style = theme.Error
		}
		s.WriteString(style.Render(m.status))
	}
	return s.String()
}

func (m Model) renderItem(i int) string {
	item := m.items[i]
	width := m.width - 2
	line := shared.Truncate(session.FormatResult(item.Row, m.selected), width)
	preview := ""
	if rest := width - len([]rune(line)) - 2; item.Preview != "" && rest > 0 {
		preview = shared.Truncate(item.Preview, rest)
	}

	if i == m.cursorPos {
		if preview != "" {
			line += "  " + preview
		}
		return theme.Cursor.Render("> ") + theme.SelectedBg.Render(line)
	}
	if preview != "" {
		return "  " + theme.Date.Render(line) + "  " + theme.Preview.Render(preview)
	}
	return "  " + theme.Date.Render(line)
}
