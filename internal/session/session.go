// Package session ties a loaded vault to the search and export actions a user
// performs on it. The last search is kept here so an export works on exactly
// the rows the user was shown.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"readings/internal/config"
	"readings/internal/export"
	"readings/internal/index"
	"readings/internal/logs"
	"readings/internal/notes"
	"readings/internal/tags"
)

var (
	// ErrNoTagsSelected is returned by Search for an empty selection
	ErrNoTagsSelected = errors.New("no tags selected")
	// ErrNoSearch is returned by Export before any search produced results
	ErrNoSearch = errors.New("no search results to export")
)

// Session is the state shared by search and export for one loaded vault
type Session struct {
	Catalog    *tags.Catalog
	Index      *index.Index
	Exporter   *export.Exporter
	CutoffDays int
	Now        func() time.Time
	Warnings   []string // structural warnings gathered while loading

	last *SearchResult
}

// SearchResult is the sorted outcome of one search
type SearchResult struct {
	Selection *index.Selection
	Rows      []*index.Row
}

// ExportReport describes an export and the date updates that followed it
type ExportReport struct {
	Path            string
	Cutoff          time.Time
	Exported        []*index.Row
	Updated         []*index.Row // date line rewritten on disk and in memory
	MissingDateLine []*index.Row // exported but the file has no date line
	Unresolved      []string
}

// Open loads the tag catalog and the note index of the configured vault
func Open(cfg *config.Config) (*Session, error) {
	catalog, warnings, err := tags.LoadCatalog(cfg.TagsPath())
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, tags.CheckFormat(cfg.TagsPath())...)
	warnings = dedupe(warnings)
	for _, w := range warnings {
		logs.Warn("%s", w)
	}

	idx, err := index.Build(cfg.ReadingsPath(), catalog)
	if err != nil {
		return nil, err
	}

	s := New(catalog, idx, export.New(cfg.VaultPath, cfg.OutputDir))
	s.CutoffDays = cfg.CutoffDays
	s.Warnings = warnings
	return s, nil
}

// New assembles a session from already loaded parts
func New(catalog *tags.Catalog, idx *index.Index, exporter *export.Exporter) *Session {
	return &Session{
		Catalog:    catalog,
		Index:      idx,
		Exporter:   exporter,
		CutoffDays: config.DefaultCutoffDays,
		Now:        time.Now,
	}
}

// NewSelection returns an empty selection over the session's catalog
func (s *Session) NewSelection() *index.Selection {
	return index.NewSelection(s.Catalog)
}

// SelectTags builds a selection from tag names, failing on the first unknown one
func (s *Session) SelectTags(names []string) (*index.Selection, error) {
	sel := s.NewSelection()
	for _, name := range names {
		if err := sel.Set(name, true); err != nil {
			return nil, err
		}
	}
	return sel, nil
}

// Search filters the index by sel and remembers the sorted result for Export
func (s *Session) Search(sel *index.Selection) (*SearchResult, error) {
	if sel.Empty() {
		return nil, ErrNoTagsSelected
	}

	rows := index.SortForDisplay(s.Index.Filter(sel))
	s.last = &SearchResult{
		Selection: sel.Clone(),
		Rows:      rows,
	}
	logs.Logger.Printf("Search %v matched %d notes", sel.Selected(), len(rows))
	return s.last, nil
}

// LastSearch returns the most recent search result, or nil
func (s *Session) LastSearch() *SearchResult {
	return s.last
}

// DefaultCutoff is the cutoff used when the user gives none
func (s *Session) DefaultCutoff() time.Time {
	return export.DefaultCutoff(s.Now(), s.CutoffDays)
}

// Export writes the rows of the last search practiced before cutoff to a PDF,
// then stamps today's date on each exported note. A nil cutoff means
// DefaultCutoff.
func (s *Session) Export(cutoff *time.Time) (*ExportReport, error) {
	if s.last == nil || len(s.last.Rows) == 0 {
		logs.Warn("no search results to export")
		return nil, ErrNoSearch
	}

	effective := s.DefaultCutoff()
	if cutoff != nil {
		effective = notes.Day(*cutoff)
	}

	res, err := s.Exporter.Export(s.last.Rows, effective, s.last.Selection.Selected())
	if err != nil {
		return nil, err
	}

	report := &ExportReport{
		Path:       res.Path,
		Cutoff:     effective,
		Exported:   res.Exported,
		Unresolved: res.Unresolved,
	}

	today := notes.Day(s.Now())
	for _, row := range res.Exported {
		outcome, err := notes.UpdateLastPracticed(row.SourcePath, today)
		if err != nil {
			return report, fmt.Errorf("update practice date of %s: %w", row.Name, err)
		}
		switch outcome {
		case notes.Replaced:
			s.Index.SetLastPracticed(row.SourcePath, today)
			report.Updated = append(report.Updated, row)
		case notes.NoDateLine:
			logs.Warn("%s has no 'Last Practice Date' line; date not recorded", row.SourcePath)
			report.MissingDateLine = append(report.MissingDateLine, row)
		}
	}

	// Keep the cached view in display order after the date changes
	index.SortForDisplay(s.last.Rows)
	return report, nil
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var result []string
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	return result
}

// MatchedTags returns the selected tags the row carries, in selection order
func MatchedTags(row *index.Row, selected []string) []string {
	var matched []string
	for _, tag := range selected {
		if row.Flags[tag] {
			matched = append(matched, tag)
		}
	}
	return matched
}

// FormatResult is the one-line listing of a search result
func FormatResult(row *index.Row, selected []string) string {
	return fmt.Sprintf("Date: %s, Tags: [%s], Name: %s",
		row.LastPracticed.Format(notes.DateLayout),
		strings.Join(MatchedTags(row, selected), ", "),
		row.Name,
	)
}
