package shared

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"readings/internal/tui/theme"
)

// HelpBind represents a single keybind entry
type HelpBind struct {
	Key  string
	Desc string
}

// HelpSection represents a group of related keybinds
type HelpSection struct {
	Title string
	Binds []HelpBind
}

// RenderHelpPopup renders a centered help popup with the given sections
func RenderHelpPopup(title string, sections []HelpSection, width, height int) string {
	line := func(key, desc string) string {
		return "  " + theme.HelpKey.Width(14).Render(key) + theme.HelpDesc.Render(desc)
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(theme.HelpSection.Render(title) + "\n\n")
	}
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(theme.HelpSection.Render(section.Title) + "\n")
		for _, bind := range section.Binds {
			b.WriteString(line(bind.Key, bind.Desc) + "\n")
		}
	}

	b.WriteString("\n" + theme.HelpHint.Render("Press any key to close"))

	box := theme.ModalBox.Render(strings.TrimRight(b.String(), "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
