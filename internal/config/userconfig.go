// Package config holds the tunables of the stacktile core and demo host,
// backed by a TOML file in the user's XDG config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

const configRelPath = "stacktile/config.toml"

// UserConfig represents the user's custom configuration.
type UserConfig struct {
	Snapping   SnappingConfig   `toml:"snapping"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// SnappingConfig tunes the gesture recognition of the core.
type SnappingConfig struct {
	// ModifierKey is the key that arms stacking and tiling while held.
	ModifierKey string `toml:"modifier_key"`
	// SnapDistance is the edge-matching distance for tiling candidates.
	SnapDistance float64 `toml:"snap_distance"`
	// StayBelowMouse keeps the cursor over the same decorator element
	// when a window is evicted from a group.
	StayBelowMouse bool `toml:"stay_below_mouse"`
}

// AppearanceConfig holds demo host appearance settings.
type AppearanceConfig struct {
	Theme       string `toml:"theme"`
	BorderStyle string `toml:"border_style"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Snapping: SnappingConfig{
			ModifierKey:    "alt",
			SnapDistance:   DefaultSnapDistance,
			StayBelowMouse: true,
		},
		Appearance: AppearanceConfig{
			Theme:       "",
			BorderStyle: "rounded",
		},
	}
}

// LoadUserConfig loads the user configuration from the XDG config
// directory, creating a default config file on first run.
func LoadUserConfig() (*UserConfig, error) {
	configPath, err := xdg.SearchConfigFile(configRelPath)
	if err != nil {
		return createDefaultConfig()
	}

	// #nosec G304 - configPath comes from the XDG search
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	fillMissingValues(&cfg, DefaultConfig())

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// createDefaultConfig creates a default config file in the user's config
// directory.
func createDefaultConfig() (*UserConfig, error) {
	cfg := DefaultConfig()

	configPath, err := xdg.ConfigFile(configRelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# stacktile configuration file\n")
	sb.WriteString("# Configuration location: " + configPath + "\n\n")

	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	sb.Write(data)

	if err := os.WriteFile(configPath, []byte(sb.String()), 0600); err != nil {
		return nil, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfg, nil
}

// fillMissingValues fills an empty modifier key, a zero snap distance and
// an empty border style with defaults so a partial config file stays
// usable. stay_below_mouse and the theme are taken as written.
func fillMissingValues(cfg, defaults *UserConfig) {
	if cfg.Snapping.ModifierKey == "" {
		cfg.Snapping.ModifierKey = defaults.Snapping.ModifierKey
	}
	if cfg.Snapping.SnapDistance == 0 {
		cfg.Snapping.SnapDistance = defaults.Snapping.SnapDistance
	}
	if cfg.Appearance.BorderStyle == "" {
		cfg.Appearance.BorderStyle = defaults.Appearance.BorderStyle
	}
}

func validate(cfg *UserConfig) error {
	if cfg.Snapping.SnapDistance < 0 {
		return fmt.Errorf("snapping.snap_distance must not be negative, got %v",
			cfg.Snapping.SnapDistance)
	}
	switch cfg.Appearance.BorderStyle {
	case "rounded", "normal", "thick", "double", "hidden", "ascii":
	default:
		return fmt.Errorf("appearance.border_style %q is not a known style",
			cfg.Appearance.BorderStyle)
	}
	return nil
}

// GetConfigPath returns the path of the config file, whether or not it
// exists yet.
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile(configRelPath)
	if err != nil {
		return xdg.ConfigFile(configRelPath)
	}
	return path, nil
}
