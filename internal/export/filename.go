package export

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"readings/internal/notes"
)

// OutputBase builds the file name stem for an export of the given tags on day:
// "output_<tag1>_<tag2>_<YYYY-MM-DD>".
func OutputBase(selected []string, day time.Time) string {
	parts := []string{"output"}
	for _, tag := range selected {
		if s := sanitizeComponent(tag); s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, day.Format(notes.DateLayout))
	return strings.Join(parts, "_")
}

// UniqueOutputPath finds a path in dir that does not exist yet.
// If base.pdf exists, tries base_1.pdf, base_2.pdf, etc.
func UniqueOutputPath(dir, base, ext string) string {
	candidate := filepath.Join(dir, base+ext)
	if !fileExists(candidate) {
		return candidate
	}

	// Otherwise, try with counter suffix
	for i := 1; ; i++ {
		candidate = filepath.Join(dir, base+"_"+strconv.Itoa(i)+ext)
		if !fileExists(candidate) {
			return candidate
		}
	}
}

// sanitizeComponent drops characters that cannot appear in a file name
func sanitizeComponent(s string) string {
	var result strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			result.WriteRune('-')
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
