package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "connect4.yaml"

// Load reads the game configuration.
// Search order: customPath -> ~/.connect4/configs/connect4.yaml ->
// ./configs/connect4.yaml -> embedded default -> built-in default.
// Files only need the keys they change; the rest come from the defaults.
// A custom path that cannot be read or parsed is an error; the other
// locations are skipped silently.
func Load(customPath string) (Connect4Config, error) {
	cfg := embeddedDefault()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath(configFile), filepath.Join("configs", configFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := cfg
		if err := yaml.Unmarshal(data, &candidate); err != nil {
			continue
		}
		return candidate, candidate.Validate()
	}

	return cfg, cfg.Validate()
}

// embeddedDefault parses the embedded YAML, falling back to the built-in
// default if that fails.
func embeddedDefault() Connect4Config {
	cfg := DefaultConnect4Config()
	if err := yaml.Unmarshal(defaultConnect4YAML, &cfg); err != nil {
		return DefaultConnect4Config()
	}
	return cfg
}

// userConfigPath returns ~/.connect4/configs/<filename>, or "" without a home directory.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".connect4", "configs", filename)
}

// DataDir returns ~/.connect4, where the database lives by default.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".connect4"
	}
	return filepath.Join(home, ".connect4")
}
