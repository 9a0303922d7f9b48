package scanner

import (
	"os"
	"path/filepath"
	"strings"
)

// NoteExt is the extension of note files
const NoteExt = ".md"

// VaultScan holds everything discovered from scanning the notes folder of a vault
type VaultScan struct {
	RootDir   string
	NotePaths []string // absolute paths to note files, in walk order
}

// ScanNotes recursively scans dir for note files. A missing directory yields
// an empty scan.
func ScanNotes(dir string) (*VaultScan, error) {
	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	scan := &VaultScan{
		RootDir: absRoot,
	}

	if err := walkNotes(absRoot, scan); err != nil {
		return nil, err
	}

	return scan, nil
}

// walkNotes recursively walks a directory collecting note files
func walkNotes(dir string, scan *VaultScan) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		absPath := filepath.Join(dir, name)

		if entry.IsDir() {
			if shouldSkipDir(name) {
				continue
			}
			if err := walkNotes(absPath, scan); err != nil {
				return err
			}
		} else if isNoteFile(name) {
			scan.NotePaths = append(scan.NotePaths, absPath)
		}
	}

	return nil
}

// FindFiles searches the whole tree under root for files whose base name is
// one of names. The first match in walk order wins. Names that are not found
// are absent from the result.
func FindFiles(root string, names []string) (map[string]string, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	found := make(map[string]string)
	if len(wanted) == 0 {
		return found, nil
	}

	err := findFiles(root, wanted, found)
	return found, err
}

func findFiles(dir string, wanted map[string]bool, found map[string]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Files of a directory are matched before descending, like os.walk
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !wanted[name] {
			continue
		}
		if _, ok := found[name]; !ok {
			found[name] = filepath.Join(dir, name)
		}
	}
	if len(found) == len(wanted) {
		return nil
	}

	for _, entry := range entries {
		if !entry.IsDir() || shouldSkipDir(entry.Name()) {
			continue
		}
		if err := findFiles(filepath.Join(dir, entry.Name()), wanted, found); err != nil {
			return err
		}
		if len(found) == len(wanted) {
			return nil
		}
	}
	return nil
}

// isNoteFile returns true if the file is a markdown note
func isNoteFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), NoteExt)
}

// shouldSkipDir returns true for directories that should be skipped during scanning
func shouldSkipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "node_modules", "__pycache__":
		return true
	}
	return false
}
