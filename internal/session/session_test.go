package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"readings/internal/config"
	"readings/internal/export"
	"readings/internal/notes"
	"readings/internal/tags"
)

var runDay = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// newVault lays out the Instrument/Type vault with three notes
func newVault(t *testing.T) *config.Config {
	t.Helper()
	vault := t.TempDir()
	write(t, filepath.Join(vault, "Tags", "Instrument.md"), "---\ntags:\n  - Piano\n  - Violin\n---\n")
	write(t, filepath.Join(vault, "Tags", "Type.md"), "---\ntags:\n  - Etude\n  - Scale\n---\n")
	write(t, filepath.Join(vault, "Readings", "note1.md"),
		"---\ntags:\n  - Piano\n  - Etude\n---\nLast Practice Date: 2000-01-01\nFirst note\n")
	write(t, filepath.Join(vault, "Readings", "strings", "note2.md"),
		"---\ntags:\n  - Violin\n  - Scale\n---\nLast Practice Date: 2000-01-01\nSecond note\n")
	write(t, filepath.Join(vault, "Readings", "note3.md"),
		"---\ntags:\n  - Piano\n  - Scale\n---\nThird note, never dated\n")

	return &config.Config{
		VaultPath:   vault,
		OutputDir:   t.TempDir(),
		CutoffDays:  10,
		TagsDir:     config.DefaultTagsDir,
		ReadingsDir: config.DefaultReadingDir,
	}
}

func openSession(t *testing.T, cfg *config.Config) *Session {
	t.Helper()
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Now = func() time.Time { return runDay }
	s.Exporter.Now = s.Now
	return s
}

func TestOpen_LoadsVault(t *testing.T) {
	s := openSession(t, newVault(t))

	if s.Index.Len() != 3 {
		t.Errorf("expected 3 notes, got %d", s.Index.Len())
	}
	if len(s.Catalog.Categories()) != 2 {
		t.Errorf("expected 2 categories, got %d", len(s.Catalog.Categories()))
	}
	if len(s.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", s.Warnings)
	}
}

func TestOpen_MissingTagsFolderWarnsOnce(t *testing.T) {
	cfg := newVault(t)
	os.RemoveAll(cfg.TagsPath())

	s := openSession(t, cfg)
	if len(s.Warnings) != 1 {
		t.Errorf("expected a single warning, got %v", s.Warnings)
	}
	if s.Index.Len() != 3 || len(s.Index.Columns) != 0 {
		t.Errorf("notes should still load without tag columns")
	}
}

func TestSearch_Scenario(t *testing.T) {
	s := openSession(t, newVault(t))

	sel, err := s.SelectTags([]string{"Piano", "Etude"})
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Search(sel)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].Name != "note1" {
		t.Errorf("expected exactly note1, got %d rows", len(res.Rows))
	}
}

func TestSearch_EmptySelection(t *testing.T) {
	s := openSession(t, newVault(t))

	if _, err := s.Search(s.NewSelection()); !errors.Is(err, ErrNoTagsSelected) {
		t.Errorf("expected ErrNoTagsSelected, got %v", err)
	}
	if s.LastSearch() != nil {
		t.Error("empty selection must not replace the last search")
	}
}

func TestSelectTags_Unknown(t *testing.T) {
	s := openSession(t, newVault(t))
	if _, err := s.SelectTags([]string{"Piano", "Cello"}); !errors.Is(err, tags.ErrUnknownTag) {
		t.Errorf("expected ErrUnknownTag, got %v", err)
	}
}

func TestExport_WithoutSearch(t *testing.T) {
	s := openSession(t, newVault(t))
	if _, err := s.Export(nil); !errors.Is(err, ErrNoSearch) {
		t.Errorf("expected ErrNoSearch, got %v", err)
	}
}

func TestExport_UpdatesFilesAndIndex(t *testing.T) {
	cfg := newVault(t)
	s := openSession(t, cfg)

	sel, _ := s.SelectTags([]string{"Piano", "Violin"})
	if _, err := s.Search(sel); err != nil {
		t.Fatal(err)
	}

	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	report, err := s.Export(&cutoff)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if len(report.Exported) != 3 {
		t.Fatalf("expected all 3 notes exported, got %d", len(report.Exported))
	}
	if filepath.Base(report.Path) != "output_Piano_Violin_2024-06-15.pdf" {
		t.Errorf("unexpected output %q", report.Path)
	}
	if len(report.Updated) != 2 || len(report.MissingDateLine) != 1 {
		t.Fatalf("expected 2 updated and 1 missing date line, got %d/%d", len(report.Updated), len(report.MissingDateLine))
	}
	if report.MissingDateLine[0].Name != "note3" {
		t.Errorf("expected note3 without date line, got %s", report.MissingDateLine[0].Name)
	}

	today := notes.Day(runDay)
	for _, row := range report.Updated {
		reparsed, err := notes.ParseNoteFile(row.SourcePath)
		if err != nil {
			t.Fatal(err)
		}
		if !reparsed.LastPracticed.Equal(today) {
			t.Errorf("%s on disk: expected %v, got %v", row.Name, today, reparsed.LastPracticed)
		}
		inMemory, _ := s.Index.Lookup(row.SourcePath)
		if !inMemory.LastPracticed.Equal(today) {
			t.Errorf("%s in memory: expected %v, got %v", row.Name, today, inMemory.LastPracticed)
		}
	}

	// note3 stays overdue and leads the cached view
	if s.LastSearch().Rows[0].Name != "note3" {
		t.Errorf("expected note3 first after export, got %s", s.LastSearch().Rows[0].Name)
	}

	// A second export with the same cutoff only finds the undated note
	again, err := s.Export(&cutoff)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Exported) != 1 || filepath.Base(again.Path) != "output_Piano_Violin_2024-06-15_1.pdf" {
		t.Errorf("unexpected second export: %d rows to %s", len(again.Exported), again.Path)
	}
}

func TestExport_DefaultCutoffKeepsTimeOfDay(t *testing.T) {
	cfg := newVault(t)
	write(t, filepath.Join(cfg.ReadingsPath(), "recent.md"),
		"---\ntags:\n  - Piano\n---\nLast Practice Date: 2024-06-10\n")
	write(t, filepath.Join(cfg.ReadingsPath(), "tendays.md"),
		"---\ntags:\n  - Piano\n---\nLast Practice Date: 2024-06-05\n")
	s := openSession(t, cfg)

	sel, _ := s.SelectTags([]string{"Piano"})
	if _, err := s.Search(sel); err != nil {
		t.Fatal(err)
	}

	report, err := s.Export(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Cutoff.Equal(time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected default cutoff %v", report.Cutoff)
	}

	exported := map[string]bool{}
	for _, row := range report.Exported {
		exported[row.Name] = true
	}
	if exported["recent"] {
		t.Error("note practiced after the cutoff was exported")
	}
	if !exported["tendays"] {
		t.Error("note practiced exactly ten days ago was not exported")
	}
}

func TestExport_TypedCutoffIsCalendarDay(t *testing.T) {
	cfg := newVault(t)
	write(t, filepath.Join(cfg.ReadingsPath(), "tendays.md"),
		"---\ntags:\n  - Piano\n---\nLast Practice Date: 2024-06-05\n")
	s := openSession(t, cfg)

	sel, _ := s.SelectTags([]string{"Piano"})
	if _, err := s.Search(sel); err != nil {
		t.Fatal(err)
	}

	cutoff := time.Date(2024, 6, 5, 15, 30, 0, 0, time.UTC)
	report, err := s.Export(&cutoff)
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range report.Exported {
		if row.Name == "tendays" {
			t.Error("typed cutoff must compare by calendar day")
		}
	}
}

func TestExport_NothingQualifies(t *testing.T) {
	cfg := newVault(t)
	s := openSession(t, cfg)

	sel, _ := s.SelectTags([]string{"Etude"})
	s.Search(sel)

	cutoff := notes.SentinelDate
	if _, err := s.Export(&cutoff); !errors.Is(err, export.ErrNothingToExport) {
		t.Errorf("expected ErrNothingToExport, got %v", err)
	}
	entries, _ := os.ReadDir(cfg.OutputDir)
	if len(entries) != 0 {
		t.Errorf("expected no output, got %v", entries)
	}
}

func TestFormatResult_ShowsOnlySelectedTags(t *testing.T) {
	s := openSession(t, newVault(t))
	sel, err := s.SelectTags([]string{"Piano", "Etude"})
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Search(sel)
	if err != nil {
		t.Fatal(err)
	}

	got := FormatResult(res.Rows[0], res.Selection.Selected())
	want := "Date: 2000-01-01, Tags: [Piano, Etude], Name: note1"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
