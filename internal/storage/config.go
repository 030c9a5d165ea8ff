package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Duration is a time.Duration stored as a string such as "1.5s".
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	parsed, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds application configuration.
type Config struct {
	DataDir            string   `json:"dataDir"`
	ServerAddr         string   `json:"serverAddr"`
	APIToken           string   `json:"apiToken,omitempty"`
	LogLevel           string   `json:"logLevel"`
	StaggerDelay       Duration `json:"staggerDelay"`
	ImportStaggerDelay Duration `json:"importStaggerDelay"`
	ItemTimeout        Duration `json:"itemTimeout"`
	FetchTimeout       Duration `json:"fetchTimeout"`
	RootFolder         string   `json:"rootFolder"`
	NormalFolder       string   `json:"normalFolder"`
	PrivateFolder      string   `json:"privateFolder"`
	DiagnosticsDir     string   `json:"diagnosticsDir"`
	RingSize           int      `json:"ringSize"`
	SkipURLPrefixes    []string `json:"skipUrlPrefixes"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	dataDir := defaultDataDir()
	return Config{
		DataDir:            dataDir,
		ServerAddr:         "127.0.0.1:7766",
		LogLevel:           "info",
		StaggerDelay:       Duration(2 * time.Second),
		ImportStaggerDelay: Duration(1500 * time.Millisecond),
		ItemTimeout:        Duration(10 * time.Second),
		FetchTimeout:       Duration(8 * time.Second),
		RootFolder:         "SynthCache",
		NormalFolder:       "Normal Browsing",
		PrivateFolder:      "Private Content",
		DiagnosticsDir:     filepath.Join(dataDir, "diagnostics"),
		RingSize:           500,
		SkipURLPrefixes:    []string{"chrome://", "about:", "moz-extension://", "javascript:", "data:"},
	}
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "synthcache")
	}
	return filepath.Join(homeDir, ".config", "synthcache")
}

// LoadConfig reads config from the JSON file, then applies SYNTHCACHE_*
// environment overrides. Creates the file with defaults if it doesn't
// exist.
func LoadConfig(path string) (*Config, error) {
	config, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(config)
	return config, nil
}

func readConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if save fails
			_ = SaveConfig(path, &config)
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.DataDir == "" {
		config.DataDir = defaults.DataDir
	}
	if config.ServerAddr == "" {
		config.ServerAddr = defaults.ServerAddr
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.StaggerDelay <= 0 {
		config.StaggerDelay = defaults.StaggerDelay
	}
	if config.ImportStaggerDelay <= 0 {
		config.ImportStaggerDelay = defaults.ImportStaggerDelay
	}
	if config.ItemTimeout <= 0 {
		config.ItemTimeout = defaults.ItemTimeout
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = defaults.FetchTimeout
	}
	if config.RootFolder == "" {
		config.RootFolder = defaults.RootFolder
	}
	if config.NormalFolder == "" {
		config.NormalFolder = defaults.NormalFolder
	}
	if config.PrivateFolder == "" {
		config.PrivateFolder = defaults.PrivateFolder
	}
	if config.DiagnosticsDir == "" {
		config.DiagnosticsDir = filepath.Join(config.DataDir, "diagnostics")
	}
	if config.RingSize <= 0 {
		config.RingSize = defaults.RingSize
	}
	if config.SkipURLPrefixes == nil {
		config.SkipURLPrefixes = defaults.SkipURLPrefixes
	}

	return &config, nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SYNTHCACHE_DATA_DIR"); v != "" {
		config.DataDir = v
	}
	if v := os.Getenv("SYNTHCACHE_ADDR"); v != "" {
		config.ServerAddr = v
	}
	if v := os.Getenv("SYNTHCACHE_TOKEN"); v != "" {
		config.APIToken = v
	}
	if v := os.Getenv("SYNTHCACHE_LOG_LEVEL"); v != "" {
		config.LogLevel = strings.ToLower(v)
	}
	durations := []struct {
		env string
		dst *Duration
	}{
		{"SYNTHCACHE_STAGGER", &config.StaggerDelay},
		{"SYNTHCACHE_ITEM_TIMEOUT", &config.ItemTimeout},
	}
	for _, d := range durations {
		raw := os.Getenv(d.env)
		if raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			fmt.Fprintf(os.Stderr, "[WARN] could not parse duration from env var %s=%q. Using configured value.\n", d.env, raw)
			continue
		}
		*d.dst = Duration(parsed)
	}
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfigFilePath returns the default config path:
// ~/.config/synthcache/config.json
func DefaultConfigFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "synthcache", "config.json"), nil
}

// BookmarksPath is the SQLite database inside the data dir.
func (c Config) BookmarksPath() string {
	return DefaultSQLitePath(c.DataDir)
}

// StatePath is the key-value state database inside the data dir.
func (c Config) StatePath() string {
	return filepath.Join(c.DataDir, "state.db")
}

// SkipURL reports whether url starts with one of the skipped prefixes.
func (c Config) SkipURL(url string) bool {
	lower := strings.ToLower(url)
	for _, p := range c.SkipURLPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
