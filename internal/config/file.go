package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// File is the optional YAML configuration of the frontend.
type File struct {
	Platforms    []string          `yaml:"platforms"`
	Colors       map[string]string `yaml:"colors"`
	DefaultColor string            `yaml:"default_color"`
	Interaction  Interaction       `yaml:"interaction"`
}

var defaultPlatforms = []string{"eBay", "Poshmark", "Depop", "Whatnot", "Facebook Marketplace", "Vinted"}

var defaultColors = map[string]string{
	"eBay":                 "#e6f2ff",
	"Poshmark":             "#f7e6f0",
	"Depop":                "#ffe6e6",
	"Whatnot":              "#fff8d9",
	"Facebook Marketplace": "#e6f0ff",
	"Vinted":               "#e6fff7",
}

const defaultPlatformColor = "#f0e6ff"

// Default returns a fresh File holding the built-in platforms, colours and thresholds.
func Default() File {
	colors := make(map[string]string, len(defaultColors))
	for k, v := range defaultColors {
		colors[k] = v
	}
	return File{
		Platforms:    append([]string(nil), defaultPlatforms...),
		Colors:       colors,
		DefaultColor: defaultPlatformColor,
		Interaction:  DefaultInteraction,
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("No config file found; using defaults")
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (File, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(cfg.Platforms) == 0 {
		return Default(), fmt.Errorf("config file lists no platforms")
	}
	if cfg.DefaultColor == "" {
		cfg.DefaultColor = defaultPlatformColor
	}
	if err := cfg.Interaction.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Color returns the card colour for platform, falling back to DefaultColor.
func (f File) Color(platform string) string {
	if c, ok := f.Colors[platform]; ok && c != "" {
		return c
	}
	return f.DefaultColor
}
