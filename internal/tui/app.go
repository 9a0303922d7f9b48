package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"readings/internal/export"
	"readings/internal/logs"
	"readings/internal/session"
	"readings/internal/tui/results"
	"readings/internal/tui/selector"
	"readings/internal/tui/shared"
)

// AppModel is the root model that dispatches to child views
type AppModel struct {
	session      *session.Session
	currentView  ViewType
	selectorView selector.Model
	resultsView  results.Model
	showHelp     bool
	width        int
	height       int
	ready        bool
}

// NewAppModel creates the root application model
func NewAppModel(s *session.Session) AppModel {
	sel := selector.New(s.Catalog)
	if len(s.Warnings) > 0 {
		sel.SetMessage(fmt.Sprintf("%d tag file warnings, see debug.log", len(s.Warnings)))
	}
	return AppModel{
		session:      s,
		currentView:  ViewSelector,
		selectorView: sel,
		resultsView:  results.New(),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentHeight := msg.Height - 3 // Reserve space for status bar
		m.selectorView.SetSize(msg.Width, contentHeight)
		m.resultsView.SetSize(msg.Width, contentHeight)
		return m, nil

	case SwitchViewMsg:
		m.currentView = msg.View
		return m, nil

	case SearchRequestMsg:
		res, err := m.session.Search(msg.Selection)
		if errors.Is(err, session.ErrNoTagsSelected) {
			m.selectorView.SetMessage("No tags selected.")
			return m, nil
		}
		if err != nil {
			logs.Logger.Printf("Error searching: %v", err)
			m.selectorView.SetMessage(err.Error())
			return m, nil
		}
		m.resultsView.SetResults(res.Rows, res.Selection.Selected(), m.session.DefaultCutoff())
		m.currentView = ViewResults
		return m, nil

	case ExportRequestMsg:
		report, err := m.session.Export(msg.Cutoff)
		if err != nil {
			logs.Logger.Printf("Error exporting: %v", err)
			m.resultsView.SetStatus(exportErrorText(err), true)
			return m, nil
		}
		if last := m.session.LastSearch(); last != nil {
			m.resultsView.Refresh(last.Rows)
		}
		m.resultsView.SetStatus(exportSummary(report), len(report.MissingDateLine) > 0 || len(report.Unresolved) > 0)
		return m, nil

	case tea.KeyMsg:
		// Global keys: ctrl+c always quits
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Dismiss help overlay on any key
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		// Text inputs get every key while focused
		if !m.selectorView.IsFiltering() && !m.resultsView.IsEditing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			}
		}
	}

	// Dispatch to current child view
	var cmd tea.Cmd
	switch m.currentView {
	case ViewSelector:
		m.selectorView, cmd = m.selectorView.Update(msg)
	case ViewResults:
		m.resultsView, cmd = m.resultsView.Update(msg)
	}
	return m, cmd
}

func exportErrorText(err error) string {
	switch {
	case errors.Is(err, export.ErrNothingToExport):
		return "No notes practiced before the cutoff."
	case errors.Is(err, session.ErrNoSearch):
		return "Nothing to export, run a search first."
	default:
		return "Export failed: " + err.Error()
	}
}

func exportSummary(report *session.ExportReport) string {
	text := fmt.Sprintf("Exported %d notes to %s", len(report.Exported), report.Path)
	if n := len(report.MissingDateLine); n > 0 {
		text += fmt.Sprintf(" | %d without a date line", n)
	}
	if n := len(report.Unresolved); n > 0 {
		text += fmt.Sprintf(" | %d missing attachments", n)
	}
	return text
}

func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return shared.RenderHelpPopup("Readings - Keyboard Shortcuts", helpSections, m.width, m.height)
	}

	var content string
	var statusText string
	switch m.currentView {
	case ViewSelector:
		content = m.selectorView.View()
		statusText = "space: toggle | h/l: category | /: filter | enter: search | ?: help | q: quit"
	case ViewResults:
		content = m.resultsView.View()
		statusText = "j/k: move | c: cutoff | e: export | esc: back | ?: help | q: quit"
	}

	statusBar := StatusBarStyle.Width(m.width).Render(
		HelpStyle.Render(statusText),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, statusBar)
}

var helpSections = []shared.HelpSection{
	{
		Title: "Global",
		Binds: []shared.HelpBind{
			{Key: "?", Desc: "Show this help"},
			{Key: "q", Desc: "Quit"},
			{Key: "ctrl+c", Desc: "Force quit"},
		},
	},
	{
		Title: "Tag selection",
		Binds: []shared.HelpBind{
			{Key: "h / l", Desc: "Previous / next category"},
			{Key: "j / k", Desc: "Navigate tags"},
			{Key: "space", Desc: "Toggle tag"},
			{Key: "/", Desc: "Filter the category"},
			{Key: "C", Desc: "Clear selection"},
			{Key: "enter", Desc: "Search"},
		},
	},
	{
		Title: "Results",
		Binds: []shared.HelpBind{
			{Key: "j / k", Desc: "Navigate notes"},
			{Key: "J / K", Desc: "Scroll note body"},
			{Key: "c", Desc: "Edit cutoff date"},
			{Key: "e", Desc: "Export to PDF and stamp today's date"},
			{Key: "esc", Desc: "Back to tags"},
		},
	},
}
