package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"readings/internal/config"
	"readings/internal/export"
	"readings/internal/notes"
	"readings/internal/session"
	"readings/internal/tags"
)

// Env carries what commands need from main
type Env struct {
	Config *config.Config
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
}

// Run executes the CLI with the given arguments.
// The first argument is the command name.
func Run(args []string, env Env) int {
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}
	if env.Now == nil {
		env.Now = time.Now
	}

	if len(args) == 0 {
		printUsage(env.Stdout)
		return 1
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "tags":
		return runTags(env)
	case "check":
		return runCheck(env)
	case "search", "s":
		return runSearch(cmdArgs, env)
	case "export", "e":
		return runExport(cmdArgs, env)
	case "config":
		return runConfig(cmdArgs, env)
	case "help", "-h", "--help":
		printUsage(env.Stdout)
		return 0
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", command)
		printUsage(env.Stderr)
		return 1
	}
}

// open validates the vault and loads a session, printing structural warnings
func open(env Env) (*session.Session, bool) {
	if err := env.Config.Validate(); err != nil {
		if errors.Is(err, config.ErrVaultNotSet) {
			fmt.Fprintln(env.Stderr, "Error: vault path is not set. Run: readings config vault <path>")
		} else {
			fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		}
		return nil, false
	}

	s, err := session.Open(env.Config)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return nil, false
	}
	s.Now = env.Now
	s.Exporter.Now = env.Now
	for _, w := range s.Warnings {
		fmt.Fprintf(env.Stderr, "Warning: %s\n", w)
	}
	return s, true
}

func runTags(env Env) int {
	s, ok := open(env)
	if !ok {
		return 1
	}

	for _, cat := range s.Catalog.Categories() {
		fmt.Fprintf(env.Stdout, "%s:\n", cat.Name)
		for _, tag := range cat.Tags {
			fmt.Fprintf(env.Stdout, "  - %s\n", tag)
		}
	}
	return 0
}

func runCheck(env Env) int {
	if err := env.Config.Validate(); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return 1
	}

	warnings := tags.CheckFormat(env.Config.TagsPath())
	for _, w := range warnings {
		fmt.Fprintf(env.Stdout, "Warning: %s\n", w)
	}
	if len(warnings) == 0 {
		fmt.Fprintln(env.Stdout, "Tag files OK")
	}
	return 0
}

// parseSelection reads -t/--tags and positional tag names
func parseSelection(fs *flag.FlagSet, tagFlag string) []string {
	selected := config.ParseCommaSeparated(tagFlag)
	for _, arg := range fs.Args() {
		selected = append(selected, config.ParseCommaSeparated(arg)...)
	}
	return selected
}

func search(s *session.Session, names []string, env Env) (*session.SearchResult, bool) {
	sel, err := s.SelectTags(names)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return nil, false
	}

	res, err := s.Search(sel)
	if errors.Is(err, session.ErrNoTagsSelected) {
		fmt.Fprintln(env.Stdout, "No tags selected.")
		return nil, false
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return nil, false
	}
	return res, true
}

func runSearch(args []string, env Env) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	tagFlag := fs.String("t", "", "Tags to select (comma-separated)")
	fs.StringVar(tagFlag, "tags", "", "Tags to select (comma-separated)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	s, ok := open(env)
	if !ok {
		return 1
	}

	res, ok := search(s, parseSelection(fs, *tagFlag), env)
	if !ok {
		return 1
	}

	if len(res.Rows) == 0 {
		fmt.Fprintln(env.Stdout, "No matching notes.")
		return 0
	}
	selected := res.Selection.Selected()
	for _, row := range res.Rows {
		fmt.Fprintln(env.Stdout, session.FormatResult(row, selected))
	}
	return 0
}

func runExport(args []string, env Env) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	tagFlag := fs.String("t", "", "Tags to select (comma-separated)")
	fs.StringVar(tagFlag, "tags", "", "Tags to select (comma-separated)")
	cutoffFlag := fs.String("cutoff", "", "Export notes last practiced before this date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	var cutoff *time.Time
	if *cutoffFlag != "" {
		parsed, err := time.Parse(notes.DateLayout, *cutoffFlag)
		if err != nil {
			fmt.Fprintf(env.Stderr, "Error: invalid cutoff %q, expected YYYY-MM-DD\n", *cutoffFlag)
			return 1
		}
		cutoff = &parsed
	}

	s, ok := open(env)
	if !ok {
		return 1
	}

	if _, ok := search(s, parseSelection(fs, *tagFlag), env); !ok {
		return 1
	}

	report, err := s.Export(cutoff)
	if errors.Is(err, export.ErrNothingToExport) || errors.Is(err, session.ErrNoSearch) {
		fmt.Fprintf(env.Stderr, "Warning: %v\n", err)
		return 1
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return 1
	}

	PrintReport(env.Stdout, env.Stderr, report)
	return 0
}

// PrintReport writes the outcome of an export
func PrintReport(stdout, stderr io.Writer, report *session.ExportReport) {
	fmt.Fprintf(stdout, "Exported %d notes practiced before %s to %s\n",
		len(report.Exported), report.Cutoff.Format(notes.DateLayout), report.Path)
	for _, name := range report.Unresolved {
		fmt.Fprintf(stderr, "Warning: could not find file: %s\n", name)
	}
	for _, row := range report.MissingDateLine {
		fmt.Fprintf(stderr, "Warning: %s has no 'Last Practice Date' line; date not recorded\n", row.Name)
	}
}

func runConfig(args []string, env Env) int {
	if len(args) == 0 {
		printConfigUsage(env.Stdout)
		return 1
	}

	switch args[0] {
	case "vault":
		if len(args) < 2 {
			fmt.Fprintln(env.Stderr, "Error: vault path required")
			return 1
		}
		info, err := os.Stat(args[1])
		if err != nil || !info.IsDir() {
			fmt.Fprintf(env.Stderr, "Error: %s is not a directory\n", args[1])
			return 1
		}
		if err := config.SetVaultPath(args[1]); err != nil {
			fmt.Fprintf(env.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(env.Stdout, "Vault path set to %s\n", args[1])
		return 0
	case "show":
		path, _ := config.GetConfigPath()
		fmt.Fprintf(env.Stdout, "config file: %s\n", path)
		fmt.Fprintf(env.Stdout, "vault:       %s\n", env.Config.VaultPath)
		fmt.Fprintf(env.Stdout, "output dir:  %s\n", env.Config.OutputDir)
		fmt.Fprintf(env.Stdout, "cutoff days: %d\n", env.Config.CutoffDays)
		return 0
	default:
		fmt.Fprintf(env.Stderr, "Unknown config command: %s\n", args[0])
		printConfigUsage(env.Stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `readings - practice reading organizer

Usage: readings [flags] [command] [arguments]

Commands:
  tags                      List tag categories and their tags
  check                     Check the format of the tag definition files
  search, s  -t TAGS        List notes matching the selected tags
  export, e  -t TAGS [-cutoff YYYY-MM-DD]
                            Export notes practiced before the cutoff to PDF
                            and stamp today's date on each of them
  config                    Show or change the saved configuration

Flags:
  -v, --vault <dir>         Vault directory (overrides saved config)
  -o, --output <dir>        Directory exports are written to

Within a category selected tags are OR'd; across categories they are AND'd.
Running readings without arguments launches the interactive TUI.`)
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, `readings config - Configuration commands

Usage: readings config <command>

Commands:
  vault <dir>   Save the vault directory
  show          Print the effective configuration`)
}
