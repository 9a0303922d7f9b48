package notes

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// UpdateOutcome tells whether UpdateLastPracticed changed the file
type UpdateOutcome int

const (
	// Replaced means the date line was rewritten
	Replaced UpdateOutcome = iota + 1
	// NoDateLine means the file has no date line; it was left untouched
	NoDateLine
)

func (o UpdateOutcome) String() string {
	switch o {
	case Replaced:
		return "replaced"
	case NoDateLine:
		return "no date line"
	}
	return "unknown"
}

var practiceLinePattern = regexp.MustCompile(`Last Practice Date:[^\r\n]*`)

// UpdateLastPracticed rewrites the first "Last Practice Date:" line of the file
// at path to date. The file is never given a date line it did not have.
func UpdateLastPracticed(path string, date time.Time) (UpdateOutcome, error) {
	content, perm, err := readWithMode(path)
	if err != nil {
		return 0, err
	}

	loc := practiceLinePattern.FindIndex(content)
	if loc == nil {
		return NoDateLine, nil
	}

	line := "Last Practice Date: " + date.Format(DateLayout)
	updated := make([]byte, 0, len(content)+len(line))
	updated = append(updated, content[:loc[0]]...)
	updated = append(updated, line...)
	updated = append(updated, content[loc[1]:]...)

	if err := WriteFileAtomic(path, updated, perm); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return Replaced, nil
}

func readWithMode(path string) ([]byte, os.FileMode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, err
	}
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, err
	}
	return content, info.Mode().Perm(), nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it into
// place, so a failed write never leaves a truncated note behind.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp.%s.%d", base, os.Getpid()))

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	if dirf, err := os.Open(dir); err == nil {
		_ = dirf.Sync()
		_ = dirf.Close()
	}
	return nil
}
