package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Theme is an optional YAML color/font profile. Empty fields leave the
// configuration untouched.
type Theme struct {
	Background string `yaml:"background"`
	Window     string `yaml:"window"`
	Border     string `yaml:"border"`
	Font       string `yaml:"font"`
	Style      string `yaml:"style"`
}

// LoadTheme reads a theme from a YAML file.
func LoadTheme(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", path, err)
	}
	return &t, nil
}

// ApplyTheme copies non-empty theme values into the configuration.
// Fields whose flag name appears in explicit were set on the command line
// and win over the theme.
func (c *Config) ApplyTheme(t *Theme, explicit map[string]bool) {
	if t.Background != "" && !explicit["bg"] {
		c.BackgroundHex = t.Background
	}
	if t.Window != "" && !explicit["window"] {
		c.WindowHex = t.Window
	}
	if t.Border != "" && !explicit["border"] {
		c.BorderHex = t.Border
	}
	if t.Font != "" && !explicit["font"] {
		c.FontFamily = t.Font
	}
	if t.Style != "" && !explicit["style"] {
		c.RendererStyle = t.Style
	}
}
