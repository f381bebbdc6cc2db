package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name looked up in config directories.
const FileName = "cashrun.yaml"

// Load loads the application configuration.
// Search order: customPath -> ~/.cashrun/configs/cashrun.yaml -> ./configs/cashrun.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only overrides the keys it names.
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Default(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Default(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := UserConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes a YAML document over the built-in defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate rejects configurations the runner cannot play with.
func (c Config) Validate() error {
	t := c.Game.Track
	switch {
	case t.Lanes < 1:
		return fmt.Errorf("game.track.lanes must be at least 1, got %d", t.Lanes)
	case t.LaneWidth <= 0 || t.Height <= 0:
		return fmt.Errorf("game.track dimensions must be positive")
	case c.Game.Physics.StartLane < 0 || c.Game.Physics.StartLane >= t.Lanes:
		return fmt.Errorf("game.physics.start_lane %d outside 0..%d", c.Game.Physics.StartLane, t.Lanes-1)
	case c.Game.Spawn.MinInterval < 1 || c.Game.Spawn.BaseInterval < c.Game.Spawn.MinInterval:
		return fmt.Errorf("game.spawn intervals must satisfy 1 <= min_interval <= base_interval")
	case c.Economy.CoinValue <= 0:
		return fmt.Errorf("economy.coin_value must be positive")
	}
	return nil
}

// HomeDir returns ~/.cashrun, or empty if home is unavailable.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cashrun")
}

// UserConfigPath returns the path to user config file, or empty if home is unavailable.
func UserConfigPath(filename string) string {
	dir := HomeDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// ResolvePath returns the file Load would read, or empty when the embedded
// default is used.
func ResolvePath(customPath string) string {
	if customPath != "" {
		return customPath
	}
	if p := UserConfigPath(FileName); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	local := filepath.Join("configs", FileName)
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return ""
}
