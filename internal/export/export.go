// Package export renders notes into a paginated PDF with their embedded
// attachments resolved across the vault.
package export

import (
	"errors"
	"fmt"
	"time"

	"readings/internal/index"
	"readings/internal/logs"
	"readings/internal/notes"
	"readings/internal/scanner"
)

// ErrNothingToExport is returned when no row qualifies for export. No file is
// written in that case.
var ErrNothingToExport = errors.New("no notes to export")

// Exporter writes exports of a vault into OutputDir
type Exporter struct {
	VaultRoot string
	OutputDir string
	Layout    Layout
	Now       func() time.Time

	loader *attachmentLoader
}

// Result describes a finished export
type Result struct {
	Path       string
	Exported   []*index.Row
	Unresolved []string // attachment names that could not be found or loaded
}

// New returns an Exporter with the Letter layout and the system clock
func New(vaultRoot, outputDir string) *Exporter {
	return &Exporter{
		VaultRoot: vaultRoot,
		OutputDir: outputDir,
		Layout:    LetterLayout,
		Now:       time.Now,
		loader:    newAttachmentLoader(),
	}
}

// DefaultCutoff returns the instant `days` days before now. The time of day
// is kept, so a note practiced exactly `days` days ago is still due.
func DefaultCutoff(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

// SelectBefore keeps the rows practiced strictly before cutoff, in order
func SelectBefore(rows []*index.Row, cutoff time.Time) []*index.Row {
	var result []*index.Row
	for _, row := range rows {
		if row.LastPracticed.Before(cutoff) {
			result = append(result, row)
		}
	}
	return result
}

// Export renders the rows practiced before cutoff into a new PDF named after
// the selected tags and today's date.
func (e *Exporter) Export(rows []*index.Row, cutoff time.Time, selected []string) (*Result, error) {
	due := SelectBefore(rows, cutoff)
	if len(due) == 0 {
		logs.Warn("no notes practiced before %s, nothing exported", cutoff.Format(notes.DateLayout))
		return nil, ErrNothingToExport
	}

	blocks := make([]string, len(due))
	var refs []string
	for i, row := range due {
		blocks[i] = renderBlock(row)
		refs = append(refs, EmbeddedFiles(row.Body)...)
	}

	found, err := scanner.FindFiles(e.VaultRoot, refs)
	if err != nil {
		return nil, fmt.Errorf("search attachments: %w", err)
	}

	surface := newPDFSurface(e.Layout)
	r := &renderer{
		layout: e.Layout,
		out:    surface,
		resolve: func(name string) (string, bool) {
			path, ok := found[name]
			return path, ok
		},
		load: e.loader.load,
	}
	r.render(blocks)

	path := UniqueOutputPath(e.OutputDir, OutputBase(selected, notes.Day(e.Now())), ".pdf")
	if err := surface.Save(path); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	logs.Logger.Printf("Exported %d notes to %s", len(due), path)
	return &Result{
		Path:       path,
		Exported:   due,
		Unresolved: r.unresolved,
	}, nil
}

// renderBlock is the text drawn for one note
func renderBlock(row *index.Row) string {
	return fmt.Sprintf("Name: %s\nTags: %s\nLast Practice Date: %s\n\n%s",
		row.Name,
		row.TagString(),
		row.LastPracticed.Format(notes.DateLayout),
		row.Body,
	)
}
