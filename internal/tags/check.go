package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var definitionFormat = regexp.MustCompile(`\A---\ntags:\n(  - .+\n)+---`)

// CheckFormat validates the tag definition folder and returns advisory
// warnings. It never fails: unreadable files are reported as warnings too.
func CheckFormat(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{fmt.Sprintf("'%s' folder does not exist", dir)}
		}
		return []string{fmt.Sprintf("cannot read '%s': %v", dir, err)}
	}

	var warnings []string
	files := 0
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files++
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("cannot read '%s': %v", entry.Name(), err))
			continue
		}
		if !definitionFormat.Match(content) {
			warnings = append(warnings, fmt.Sprintf("file '%s' in '%s' does not follow the tag format", entry.Name(), filepath.Base(dir)))
		}
	}

	if files == 0 {
		warnings = append(warnings, fmt.Sprintf("'%s' folder is empty", dir))
	}

	return warnings
}
