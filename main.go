package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"readings/internal/cli"
	"readings/internal/config"
	"readings/internal/logs"
	"readings/internal/session"
	"readings/internal/tui"
)

func main() {
	// Parse CLI flags
	vaultFlag := flag.String("vault", "", "Vault directory")
	flag.StringVar(vaultFlag, "v", "", "Vault directory (shorthand)")
	outputFlag := flag.String("output", "", "Directory exports are written to")
	flag.StringVar(outputFlag, "o", "", "Directory exports are written to (shorthand)")
	flag.Parse()

	cliFlags := config.CLIFlags{
		VaultPath: *vaultFlag,
		OutputDir: *outputFlag,
	}

	// Load configuration
	cfg, err := config.Load(cliFlags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure config file exists
	if err := config.EnsureConfigFile(); err != nil {
		log.Printf("Warning: could not create config file: %v", err)
	}

	// Check for CLI subcommands
	args := flag.Args()
	if len(args) > 0 {
		if cfg.VaultPath != "" {
			if err := logs.Initialize(cfg.VaultPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Could not initialize logger: %v\n", err)
			}
		}
		exitCode := cli.Run(args, cli.Env{Config: cfg})
		logs.Close()
		os.Exit(exitCode)
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrVaultNotSet) {
			fmt.Fprintln(os.Stderr, "No vault configured. Run: readings config vault <path>")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	// Reinitialize logger
	if err := logs.Initialize(cfg.VaultPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize logger: %v\n", err)
	}
	defer logs.Close()

	s, err := session.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load vault: %v\n", err)
		os.Exit(1)
	}

	// TUI mode
	logs.Logger.Println("Starting app in TUI mode")
	appModel := tui.NewAppModel(s)
	p := tea.NewProgram(appModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}
