package selector

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"readings/internal/tags"
	"readings/internal/tui/messages"
)

func newCatalog() *tags.Catalog {
	return tags.NewCatalog([]tags.Category{
		{Name: "Instrument", Tags: []string{"Piano", "Violin"}},
		{Name: "Type", Tags: []string{"Etude", "Scale"}},
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m, cmd
}

func TestSelector_ToggleAcrossColumns(t *testing.T) {
	m := New(newCatalog())

	// Piano, then move to Type and pick Scale
	m, _ = press(m, " ", "l", "j", " ")

	got := m.Selection().Selected()
	if len(got) != 2 || got[0] != "Piano" || got[1] != "Scale" {
		t.Errorf("expected [Piano Scale], got %v", got)
	}
	if m.Focused() != 1 {
		t.Errorf("expected focus on column 1, got %d", m.Focused())
	}

	m, _ = press(m, " ")
	if m.Selection().IsSelected("Scale") {
		t.Error("expected second toggle to clear Scale")
	}
}

func TestSelector_FocusStaysInBounds(t *testing.T) {
	m := New(newCatalog())
	m, _ = press(m, "h", "h")
	if m.Focused() != 0 {
		t.Errorf("expected focus 0, got %d", m.Focused())
	}
	m, _ = press(m, "l", "l", "l")
	if m.Focused() != 1 {
		t.Errorf("expected focus 1, got %d", m.Focused())
	}
}

func TestSelector_EnterWithoutSelection(t *testing.T) {
	m := New(newCatalog())
	m, cmd := press(m, "enter")
	if cmd != nil {
		t.Error("expected no search command for an empty selection")
	}
	if m.message != "No tags selected." {
		t.Errorf("unexpected message %q", m.message)
	}
}

func TestSelector_EnterRequestsSearch(t *testing.T) {
	m := New(newCatalog())
	m, cmd := press(m, " ", "enter")
	if cmd == nil {
		t.Fatal("expected a search command")
	}
	msg, ok := cmd().(messages.SearchRequestMsg)
	if !ok {
		t.Fatalf("expected SearchRequestMsg, got %T", cmd())
	}
	if !msg.Selection.IsSelected("Piano") {
		t.Error("expected Piano in the requested selection")
	}

	// The request carries a copy
	m, _ = press(m, " ")
	if !msg.Selection.IsSelected("Piano") {
		t.Error("later toggles must not change a sent request")
	}
}

func TestSelector_FuzzyFilter(t *testing.T) {
	m := New(newCatalog())
	m, _ = press(m, "/", "i", "o", "l", "enter")

	if m.IsFiltering() {
		t.Fatal("expected enter to leave filter mode")
	}
	tag, ok := m.columns[0].Current()
	if !ok || tag != "Violin" {
		t.Errorf("expected Violin under the cursor, got %q", tag)
	}

	m, _ = press(m, " ")
	if !m.Selection().IsSelected("Violin") {
		t.Error("expected Violin selected")
	}

	m, _ = press(m, "esc")
	if m.columns[0].Query() != "" {
		t.Errorf("expected esc to clear the filter, got %q", m.columns[0].Query())
	}
}

func TestSelector_QuitKeyIsTextWhileFiltering(t *testing.T) {
	m := New(newCatalog())
	m, _ = press(m, "/", "q")
	if !m.IsFiltering() {
		t.Fatal("expected to still be filtering")
	}
	if m.columns[0].Query() != "q" {
		t.Errorf("expected query q, got %q", m.columns[0].Query())
	}
}

func TestSelector_ClearSelection(t *testing.T) {
	m := New(newCatalog())
	m, _ = press(m, " ", "j", " ", "C")
	if !m.Selection().Empty() {
		t.Errorf("expected empty selection, got %v", m.Selection().Selected())
	}
}
