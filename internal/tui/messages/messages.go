package messages

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"readings/internal/index"
)

// ViewType represents the different views in the application
type ViewType int

const (
	ViewSelector ViewType = iota
	ViewResults
)

// SwitchViewMsg is sent by child views to switch to a different view
type SwitchViewMsg struct {
	View ViewType
}

// SearchRequestMsg asks the app to run a search for the given selection
type SearchRequestMsg struct {
	Selection *index.Selection
}

// ExportRequestMsg asks the app to export the last search. A nil Cutoff
// means the default cutoff.
type ExportRequestMsg struct {
	Cutoff *time.Time
}

func SwitchView(v ViewType) tea.Cmd {
	return func() tea.Msg {
		return SwitchViewMsg{View: v}
	}
}

func RequestSearch(sel *index.Selection) tea.Cmd {
	return func() tea.Msg {
		return SearchRequestMsg{Selection: sel}
	}
}

func RequestExport(cutoff *time.Time) tea.Cmd {
	return func() tea.Msg {
		return ExportRequestMsg{Cutoff: cutoff}
	}
}
