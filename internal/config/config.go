package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/captionshare/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Pick  bool `yaml:"pick"`
	Share bool `yaml:"share"`
	Copy  bool `yaml:"copy"`
}

// Layout overrides the preview geometry. Zero values keep the defaults.
type Layout struct {
	ViewportHeight int     `yaml:"viewport_height" validate:"gte=0,lte=4096"`
	TextSize       float64 `yaml:"text_size" validate:"gte=0,lte=512"`
	TextX          int     `yaml:"text_x" validate:"gte=0,lte=4096"`
	TextY          int     `yaml:"text_y" validate:"gte=0,lte=4096"`
	TextColor      string  `yaml:"text_color" validate:"omitempty,rgbhex"`
}

// Config holds the application configuration.
type Config struct {
	Theme         string                  `yaml:"theme"`
	Scale         float64                 `yaml:"scale" validate:"gte=0,lte=8"`
	KeyboardShare string                  `yaml:"keyboard_share" validate:"omitempty,oneof=draft saved"`
	ShareTarget   string                  `yaml:"share_target" validate:"omitempty,oneof=email clipboard command"`
	ShareCommand  string                  `yaml:"share_command"`
	Notify        Notify                  `yaml:"notify"`
	Layout        Layout                  `yaml:"layout"`
	Themes        map[string]*theme.Theme `yaml:"-"`
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:  "", // Default to empty to allow fallback to Env/Default
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	root := []struct{ key, value string }{
		{"theme", c.Theme},
		{"keyboard_share", c.KeyboardShare},
		{"share_target", c.ShareTarget},
		{"share_command", c.ShareCommand},
	}
	for _, kv := range root {
		if kv.value != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv.key, kv.value)
		}
	}
	if c.Scale != 0 {
		fmt.Fprintf(&sb, "scale = %v\n", c.Scale)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "pick = %v\n", c.Notify.Pick)
	fmt.Fprintf(&sb, "share = %v\n", c.Notify.Share)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	if c.Layout != (Layout{}) {
		sb.WriteString("[layout]\n")
		if c.Layout.ViewportHeight != 0 {
			fmt.Fprintf(&sb, "viewport_height = %d\n", c.Layout.ViewportHeight)
		}
		if c.Layout.TextSize != 0 {
			fmt.Fprintf(&sb, "text_size = %v\n", c.Layout.TextSize)
		}
		if c.Layout.TextX != 0 {
			fmt.Fprintf(&sb, "text_x = %d\n", c.Layout.TextX)
		}
		if c.Layout.TextY != 0 {
			fmt.Fprintf(&sb, "text_y = %d\n", c.Layout.TextY)
		}
		if c.Layout.TextColor != "" {
			fmt.Fprintf(&sb, "text_color = %s\n", c.Layout.TextColor)
		}
		sb.WriteString("\n")
	}

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = theme.Format(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}
