package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const raceFile = "race.yaml"

// Load loads the race configuration.
// Search order: customPath -> ~/.derby/configs/race.yaml -> ./configs/race.yaml -> embedded default
//
// Files are layered over the defaults, so a partial file only overrides the
// keys it names.
func Load(customPath string) (RaceConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RaceConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return RaceConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(raceFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", raceFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	return Embedded(), nil
}

// Embedded returns the embedded default YAML, or the hard-coded defaults
// if it fails to parse.
func Embedded() RaceConfig {
	var cfg RaceConfig
	if err := yaml.Unmarshal(defaultRaceYAML, &cfg); err != nil {
		return DefaultRaceConfig() // Fallback to hardcoded if embed fails
	}
	return cfg.Normalize()
}

// Parse decodes YAML on top of the default configuration.
func Parse(data []byte) (RaceConfig, error) {
	cfg := DefaultRaceConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RaceConfig{}, err
	}
	return cfg.Normalize(), nil
}

// Marshal encodes a configuration as YAML.
func Marshal(cfg RaceConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".derby", "configs", filename)
}
