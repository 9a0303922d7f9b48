package notes

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"readings/internal/frontmatter"
	"readings/internal/logs"
)

var practiceDatePattern = regexp.MustCompile(`Last Practice Date: (\d{4}-\d{2}-\d{2})`)

// ParseNoteFile parses a markdown file as a Note. Only a read failure is an
// error; a missing date or frontmatter leaves the corresponding field empty.
func ParseNoteFile(absPath string) (Note, error) {
	content, err := os.ReadFile(absPath)
	if err != nil {
		return Note{}, err
	}
	return ParseNote(absPath, content), nil
}

// ParseNote builds a Note from already loaded file content
func ParseNote(absPath string, content []byte) Note {
	filename := filepath.Base(absPath)

	note := Note{
		Name:       strings.TrimSuffix(filename, filepath.Ext(filename)),
		Tags:       frontmatter.Tags(content),
		SourcePath: absPath,
	}

	if m := practiceDatePattern.FindSubmatch(content); m != nil {
		if parsed, err := time.Parse(DateLayout, string(m[1])); err == nil {
			note.LastPracticed = parsed
		} else {
			logs.Warn("invalid practice date %q in %s", m[1], absPath)
		}
	}

	if _, body, ok := frontmatter.Split(content); ok {
		note.Body = strings.TrimSpace(string(body))
	} else {
		logs.Warn("no body found in file: %s", absPath)
	}

	return note
}
