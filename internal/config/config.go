package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config represents the ackr configuration.
type Config struct {
	// StorageDir is the root of the revision ledger.
	StorageDir string `json:"storage_dir"`
	// GitHubUser is the account whose fork hosts pushed review tags; used
	// when generating tag links in ACK messages.
	GitHubUser string `json:"ghuser"`
	// Remote is the git remote name for the upstream repository.
	Remote string `json:"upstream_remote_name"`
	// Owner and Repo name the upstream repository on the hosting service.
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		StorageDir: filepath.Join(home, ".ackr"),
		Remote:     "upstream",
		Owner:      "bitcoin",
		Repo:       "bitcoin",
	}
}

// ConfigDir returns the platform-appropriate config directory for ackr.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ackr"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "ackr"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "ackr"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "ackr"), nil
	default:
		return filepath.Join(home, ".config", "ackr"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil
// error if the file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env.
func Load() (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.StorageDir != "" {
		dst.StorageDir = src.StorageDir
	}
	if src.GitHubUser != "" {
		dst.GitHubUser = src.GitHubUser
	}
	if src.Remote != "" {
		dst.Remote = src.Remote
	}
	if src.Owner != "" {
		dst.Owner = src.Owner
	}
	if src.Repo != "" {
		dst.Repo = src.Repo
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("ACKR_DIR"); v != "" {
		cfg.StorageDir = v
	}
	if v := os.Getenv("ACKR_GH_USER"); v != "" {
		cfg.GitHubUser = v
	}
	if v := os.Getenv("ACKR_UPSTREAM"); v != "" {
		cfg.Remote = v
	}
}

// SetField sets a single config field by its JSON key. Returns an error for
// unknown keys.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "storage_dir":
		cfg.StorageDir = value
	case "ghuser":
		cfg.GitHubUser = value
	case "upstream_remote_name":
		cfg.Remote = value
	case "owner":
		cfg.Owner = value
	case "repo":
		cfg.Repo = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
