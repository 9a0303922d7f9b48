package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultCutoffDays = 10
	DefaultTagsDir    = "Tags"
	DefaultReadingDir = "Readings"
)

// ErrVaultNotSet is returned by Validate when no vault path was configured
// through any source.
var ErrVaultNotSet = errors.New("vault path is not set")

// Config holds the unified application configuration
type Config struct {
	VaultPath   string
	OutputDir   string
	CutoffDays  int
	TagsDir     string // relative to VaultPath
	ReadingsDir string // relative to VaultPath
}

// Settings represents the config file structure
type Settings struct {
	VaultPath  string `json:"vault_path"`
	OutputDir  string `json:"output_dir,omitempty"`
	CutoffDays int    `json:"cutoff_days,omitempty"`
}

// CLIFlags holds parsed CLI flags
type CLIFlags struct {
	VaultPath string
	OutputDir string
}

// Load loads configuration with priority: CLI flags > env vars > config file > default
func Load(flags CLIFlags) (*Config, error) {
	cfg := &Config{
		OutputDir:   ".",
		CutoffDays:  DefaultCutoffDays,
		TagsDir:     DefaultTagsDir,
		ReadingsDir: DefaultReadingDir,
	}

	// Try loading config file first for base values
	configPath, err := getConfigPath()
	if err == nil {
		if fileConfig, err := loadConfigFile(configPath); err == nil {
			if fileConfig.VaultPath != "" {
				cfg.VaultPath = expandPath(fileConfig.VaultPath)
			}
			if fileConfig.OutputDir != "" {
				cfg.OutputDir = expandPath(fileConfig.OutputDir)
			}
			if fileConfig.CutoffDays > 0 {
				cfg.CutoffDays = fileConfig.CutoffDays
			}
		}
	}

	// Priority 2: Environment variables override config file
	if env := os.Getenv("READINGS_VAULT"); env != "" {
		cfg.VaultPath = expandPath(env)
	}
	if env := os.Getenv("READINGS_OUTPUT_DIR"); env != "" {
		cfg.OutputDir = expandPath(env)
	}
	if env := os.Getenv("READINGS_CUTOFF_DAYS"); env != "" {
		if days, err := strconv.Atoi(env); err == nil && days > 0 {
			cfg.CutoffDays = days
		}
	}

	// Priority 1: CLI flags override everything
	if flags.VaultPath != "" {
		cfg.VaultPath = expandPath(flags.VaultPath)
	}
	if flags.OutputDir != "" {
		cfg.OutputDir = expandPath(flags.OutputDir)
	}

	return cfg, nil
}

// Validate checks that a vault is configured and exists on disk
func (c *Config) Validate() error {
	if c.VaultPath == "" {
		return ErrVaultNotSet
	}
	info, err := os.Stat(c.VaultPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "open", Path: c.VaultPath, Err: errors.New("not a directory")}
	}
	return nil
}

// TagsPath returns the absolute path of the tag definition folder
func (c *Config) TagsPath() string {
	return filepath.Join(c.VaultPath, c.TagsDir)
}

// ReadingsPath returns the absolute path of the notes folder
func (c *Config) ReadingsPath() string {
	return filepath.Join(c.VaultPath, c.ReadingsDir)
}

// GetConfigPath returns the path to the configuration file
func GetConfigPath() (string, error) {
	return getConfigPath()
}

func getConfigPath() (string, error) {
	if dir := os.Getenv("READINGS_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "config.json"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "readings", "config.json"), nil
}

// loadConfigFile loads configuration from the settings file
func loadConfigFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

func writeConfigFile(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureConfigFile creates the config file with defaults if it doesn't exist
func EnsureConfigFile() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	return writeConfigFile(configPath, Settings{
		OutputDir:  ".",
		CutoffDays: DefaultCutoffDays,
	})
}

// SetVaultPath persists the vault path in the config file, keeping the other
// settings as they are.
func SetVaultPath(vaultPath string) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	settings := Settings{}
	if existing, err := loadConfigFile(configPath); err == nil {
		settings = *existing
	} else if !os.IsNotExist(err) {
		return err
	}

	abs, err := filepath.Abs(expandPath(vaultPath))
	if err != nil {
		return err
	}
	settings.VaultPath = abs

	return writeConfigFile(configPath, settings)
}

// ParseCommaSeparated splits a comma-separated string into a slice
func ParseCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
