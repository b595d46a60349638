package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
	// HomeDir replaces the user's home directory when set.
	HomeDir string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load attempts to load the configuration. A missing file yields defaults.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile parses and validates the file at path, choosing the YAML parser
// for .yaml and .yml files.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg *Config
	if IsYAML(path) {
		cfg, err = ParseYAML(f)
	} else {
		cfg, err = Parse(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// IsYAML reports whether path names a YAML file.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (l *Loader) home() string {
	if l.HomeDir != "" {
		return l.HomeDir
	}
	home, _ := os.UserHomeDir()
	return home
}

// Dir returns the per-user configuration directory.
func (l *Loader) Dir() string {
	return filepath.Join(l.home(), ".config", "captionshare")
}

// DefaultPath is where a new configuration is written.
func (l *Loader) DefaultPath() string {
	return filepath.Join(l.Dir(), "config.rc")
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".captionsharerc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	for _, name := range []string{"config.rc", "config.yaml", "config.yml"} {
		path := filepath.Join(l.Dir(), name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Save writes cfg to path in the format implied by its extension, creating
// the parent directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	var data []byte
	if IsYAML(path) {
		b, err := cfg.YAML()
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		data = b
	} else {
		data = []byte(cfg.String())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
