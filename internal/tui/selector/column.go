package selector

import (
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"readings/internal/index"
	"readings/internal/tags"
	"readings/internal/tui/shared"
	"readings/internal/tui/theme"
)

// ColumnModel is one category of the selector: a fuzzy-filterable list of
// checkbox items backed by the shared selection.
type ColumnModel struct {
	category      tags.Category
	query         string
	filteredItems []string
	cursorPos     int
}

// NewColumnModel creates a column for the given category
func NewColumnModel(category tags.Category) ColumnModel {
	return ColumnModel{
		category:      category,
		filteredItems: category.Tags,
	}
}

// Name returns the category name shown as the column header
func (c ColumnModel) Name() string {
	return c.category.Name
}

// Current returns the tag under the cursor, if any
func (c ColumnModel) Current() (string, bool) {
	if c.cursorPos < 0 || c.cursorPos >= len(c.filteredItems) {
		return "", false
	}
	return c.filteredItems[c.cursorPos], true
}

// MoveDown moves the cursor one item down
func (c *ColumnModel) MoveDown() {
	if c.cursorPos < len(c.filteredItems)-1 {
		c.cursorPos++
	}
}

// MoveUp moves the cursor one item up
func (c *ColumnModel) MoveUp() {
	if c.cursorPos > 0 {
		c.cursorPos--
	}
}

// Toggle flips the tag under the cursor in sel
func (c ColumnModel) Toggle(sel *index.Selection) {
	tag, ok := c.Current()
	if !ok {
		return
	}
	// Column items come from the catalog so Toggle cannot fail here
	_ = sel.Toggle(tag)
}

// SetQuery applies a fuzzy filter to the column's items
func (c *ColumnModel) SetQuery(query string) {
	c.query = query
	c.cursorPos = 0
	if query == "" {
		c.filteredItems = c.category.Tags
		return
	}

	matches := fuzzy.Find(query, c.category.Tags)
	filtered := make([]string, len(matches))
	for i, match := range matches {
		filtered[i] = match.Str
	}
	c.filteredItems = filtered
}

// Query returns the active filter
func (c ColumnModel) Query() string {
	return c.query
}

// View renders the column
func (c ColumnModel) View(sel *index.Selection, focused bool, width, height int) string {
	var s strings.Builder

	header := c.category.Name
	if n := c.selectedCount(sel); n > 0 {
		header += theme.Selected.Render(" (" + strconv.Itoa(n) + ")")
	}
	s.WriteString(theme.Subtitle.Render(header))
	s.WriteString("\n")
	if c.query != "" {
		s.WriteString(theme.Muted.Render("/" + c.query))
	}
	s.WriteString("\n")

	rows := height - 2
	if len(c.filteredItems) == 0 {
		if len(c.category.Tags) == 0 {
			s.WriteString(theme.Muted.Render("No tags"))
		} else {
			s.WriteString(theme.Muted.Render("No matching tags"))
		}
		s.WriteString("\n")
	} else {
		start, end := shared.Window(len(c.filteredItems), c.cursorPos, rows)
		for i := start; i < end; i++ {
			s.WriteString(c.renderItem(i, c.filteredItems[i], sel, focused, width))
		}
	}

	style := theme.Column
	if focused {
		style = theme.ColumnFocused
	}
	return style.Width(width).Render(strings.TrimRight(s.String(), "\n"))
}

// renderItem renders a single item
func (c ColumnModel) renderItem(i int, item string, sel *index.Selection, focused bool, width int) string {
	checkbox := "[ ]"
	if sel.IsSelected(item) {
		checkbox = "[x]"
	}
	text := shared.Truncate(checkbox+" "+item, width-2)

	style := theme.HelpDesc
	if focused && i == c.cursorPos {
		style = theme.SelectedBg
	} else if sel.IsSelected(item) {
		style = theme.Selected
	}
	return style.Render(text) + "\n"
}

func (c ColumnModel) selectedCount(sel *index.Selection) int {
	n := 0
	for _, tag := range c.category.Tags {
		if sel.IsSelected(tag) {
			n++
		}
	}
	return n
}
