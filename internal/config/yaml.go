package config

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/example/captionshare/internal/theme"
)

// yamlFile is the YAML layout of a configuration file. Themes are plain
// key/colour maps so they read like the RC sections.
type yamlFile struct {
	Config `yaml:",inline"`
	Themes map[string]map[string]string `yaml:"themes,omitempty"`
}

// ParseYAML reads configuration in YAML format.
func ParseYAML(r io.Reader) (*Config, error) {
	var f yamlFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	cfg := f.Config
	cfg.Themes = make(map[string]*theme.Theme, len(f.Themes))
	names := make([]string, 0, len(f.Themes))
	for name := range f.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := theme.Default()
		t.Name = name
		for key, value := range f.Themes[name] {
			if err := theme.SetField(t, key, value); err != nil {
				return nil, fmt.Errorf("themes.%s: %w", name, err)
			}
		}
		cfg.Themes[name] = t
	}
	return &cfg, nil
}

// YAML returns the configuration in YAML format.
func (c *Config) YAML() ([]byte, error) {
	f := yamlFile{Config: *c}
	if len(c.Themes) > 0 {
		f.Themes = make(map[string]map[string]string, len(c.Themes))
		for name, t := range c.Themes {
			f.Themes[name] = theme.Fields(t)
		}
	}
	return yaml.Marshal(&f)
}
