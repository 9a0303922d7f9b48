package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"readings/internal/config"
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

func newEnv(t *testing.T) (Env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	vault := t.TempDir()
	write(t, filepath.Join(vault, "Tags", "Instrument.md"), "---\ntags:\n  - Piano\n  - Violin\n---\n")
	write(t, filepath.Join(vault, "Tags", "Type.md"), "---\ntags:\n  - Etude\n  - Scale\n---\n")
	write(t, filepath.Join(vault, "Readings", "note1.md"),
		"---\ntags:\n  - Piano\n  - Etude\n---\nLast Practice Date: 2000-01-01\nFirst note\n")
	write(t, filepath.Join(vault, "Readings", "note2.md"),
		"---\ntags:\n  - Violin\n  - Scale\n---\nLast Practice Date: 2000-01-01\nSecond note\n")

	var stdout, stderr bytes.Buffer
	env := Env{
		Config: &config.Config{
			VaultPath:   vault,
			OutputDir:   t.TempDir(),
			CutoffDays:  10,
			TagsDir:     config.DefaultTagsDir,
			ReadingsDir: config.DefaultReadingDir,
		},
		Stdout: &stdout,
		Stderr: &stderr,
		Now:    func() time.Time { return runDay },
	}
	return env, &stdout, &stderr
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	env, stdout, _ := newEnv(t)
	if code := Run(nil, env); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), "Usage: readings") {
		t.Errorf("expected usage, got %q", stdout.String())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	env, _, stderr := newEnv(t)
	if code := Run([]string{"frobnicate"}, env); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Unknown command: frobnicate") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestRun_Tags(t *testing.T) {
	env, stdout, _ := newEnv(t)
	if code := Run([]string{"tags"}, env); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	want := "Instrument:\n  - Piano\n  - Violin\nType:\n  - Etude\n  - Scale\n"
	if stdout.String() != want {
		t.Errorf("got %q, want %q", stdout.String(), want)
	}
}

func TestRun_Check(t *testing.T) {
	env, stdout, _ := newEnv(t)
	write(t, filepath.Join(env.Config.TagsPath(), "Broken.md"), "tags: Piano\n")

	if code := Run([]string{"check"}, env); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "Broken.md") {
		t.Errorf("expected a warning about Broken.md, got %q", stdout.String())
	}
}

func TestRun_Search(t *testing.T) {
	env, stdout, _ := newEnv(t)
	if code := Run([]string{"search", "-t", "Piano,Etude"}, env); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	want := "Date: 2000-01-01, Tags: [Piano, Etude], Name: note1\n"
	if stdout.String() != want {
		t.Errorf("got %q, want %q", stdout.String(), want)
	}
}

func TestRun_SearchNoTags(t *testing.T) {
	env, stdout, _ := newEnv(t)
	if code := Run([]string{"search"}, env); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), "No tags selected.") {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
}

func TestRun_SearchUnknownTag(t *testing.T) {
	env, _, stderr := newEnv(t)
	if code := Run([]string{"search", "Cello"}, env); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Cello") {
		t.Errorf("expected the unknown tag in the error, got %q", stderr.String())
	}
}

func TestRun_ExportUpdatesDate(t *testing.T) {
	env, stdout, _ := newEnv(t)
	if code := Run([]string{"export", "-t", "Piano", "-cutoff", "2024-01-01"}, env); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	pdf := filepath.Join(env.Config.OutputDir, "output_Piano_2024-06-15.pdf")
	if _, err := os.Stat(pdf); err != nil {
		t.Fatalf("expected %s: %v", pdf, err)
	}
	if !strings.Contains(stdout.String(), "Exported 1 notes") {
		t.Errorf("unexpected stdout %q", stdout.String())
	}

	data, err := os.ReadFile(filepath.Join(env.Config.ReadingsPath(), "note1.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Last Practice Date: 2024-06-15") {
		t.Errorf("date line not updated:\n%s", data)
	}
}

func TestRun_ExportInvalidCutoff(t *testing.T) {
	env, _, stderr := newEnv(t)
	if code := Run([]string{"export", "-t", "Piano", "-cutoff", "yesterday"}, env); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "invalid cutoff") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestRun_ExportNothingQualifies(t *testing.T) {
	env, _, stderr := newEnv(t)
	if code := Run([]string{"export", "-t", "Piano", "-cutoff", "1999-01-01"}, env); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "no notes to export") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
	entries, _ := os.ReadDir(env.Config.OutputDir)
	if len(entries) != 0 {
		t.Errorf("expected no output files, got %d", len(entries))
	}
}

func TestRun_VaultNotSet(t *testing.T) {
	env, _, stderr := newEnv(t)
	env.Config.VaultPath = ""
	if code := Run([]string{"tags"}, env); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "readings config vault") {
		t.Errorf("expected setup hint, got %q", stderr.String())
	}
}

func TestRun_ConfigVault(t *testing.T) {
	env, stdout, _ := newEnv(t)
	t.Setenv("READINGS_CONFIG_DIR", t.TempDir())

	vault := env.Config.VaultPath
	if code := Run([]string{"config", "vault", vault}, env); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), vault) {
		t.Errorf("unexpected stdout %q", stdout.String())
	}

	t.Setenv("READINGS_VAULT", "")
	cfg, err := config.Load(config.CLIFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.VaultPath != vault {
		t.Errorf("expected saved vault %q, got %q", vault, cfg.VaultPath)
	}
}

func TestRun_ConfigVaultRejectsMissingDir(t *testing.T) {
	env, _, _ := newEnv(t)
	t.Setenv("READINGS_CONFIG_DIR", t.TempDir())
	if code := Run([]string{"config", "vault", filepath.Join(env.Config.VaultPath, "nope")}, env); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
}
