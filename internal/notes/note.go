package notes

import (
	"strings"
	"time"
)

// DateLayout is the layout of every date written to or read from a note
const DateLayout = "2006-01-02"

// SentinelDate stands in for "never practiced" so undated notes sort first
var SentinelDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Note represents a practice-reading note file
type Note struct {
	Name          string    // Filename without extension
	Tags          []string  // From frontmatter `tags`, file order
	LastPracticed time.Time // From the "Last Practice Date:" line, zero if absent
	Body          string    // Content after the frontmatter block
	SourcePath    string    // Absolute path to file
}

// HasTag reports whether the note carries tag
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TagString renders the tag list for display
func (n Note) TagString() string {
	return "[" + strings.Join(n.Tags, ", ") + "]"
}

// Day truncates t to its calendar date in UTC so dates from different sources
// compare by day only.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
