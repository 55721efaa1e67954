package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ConsoleFileName is the console config file name looked up in the search path.
const ConsoleFileName = "config.json"

// LoadConsole loads the console configuration.
// Search order: customPath -> ~/.arcade/config.json -> ./config.json -> defaults.
//
// The file is decoded on top of DefaultConsole, so missing keys keep their
// default value and unknown keys are ignored. The result is validated.
func LoadConsole(customPath string) (Console, string, error) {
	cfg := DefaultConsole()

	candidates := []string{customPath}
	if customPath == "" {
		candidates = []string{userConfigPath(ConsoleFileName), ConsoleFileName}
	}

	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(ExpandPath(path))
		if err != nil {
			if customPath != "" {
				return cfg, "", fmt.Errorf("config: read %s: %w", path, err)
			}
			continue
		}
		if err := decodeConsole(data, &cfg); err != nil {
			return cfg, "", fmt.Errorf("config: parse %s: %w", path, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, path, err
		}
		return cfg, path, nil
	}

	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}
	return cfg, "", nil
}

// decodeConsole decodes a JSON console document over cfg. An empty file
// leaves cfg untouched.
func decodeConsole(data []byte, cfg *Console) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, cfg)
}

// decodeInto decodes a YAML game config over the existing values of v.
func decodeInto(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, v)
}

// SaveConsole writes the configuration as indented JSON, creating parent
// directories as needed.
func SaveConsole(path string, cfg Console) error {
	path = ExpandPath(path)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}
	data, err := MarshalConsole(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// MarshalConsole renders the configuration as indented JSON.
func MarshalConsole(cfg Console) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return append(data, '\n'), nil
}

// DefaultConsolePath returns ~/.arcade/config.json, or config.json when the
// home directory is unavailable.
func DefaultConsolePath() string {
	if p := userConfigPath(ConsoleFileName); p != "" {
		return p
	}
	return ConsoleFileName
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

var (
	presetMu sync.RWMutex
	preset   DifficultyPreset
)

// SetDifficultyPreset sets the preset applied on top of every game config
// loaded afterwards. An empty preset keeps the files' own settings.
func SetDifficultyPreset(p DifficultyPreset) {
	presetMu.Lock()
	defer presetMu.Unlock()
	preset = p
}

// CurrentDifficultyPreset returns the preset set by SetDifficultyPreset.
func CurrentDifficultyPreset() DifficultyPreset {
	presetMu.RLock()
	defer presetMu.RUnlock()
	return preset
}

// ParseDifficultyPreset validates a preset name. The empty string is allowed.
func ParseDifficultyPreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown difficulty %q (easy, normal, hard, fixed)", ErrInvalidConfig, s)
}

// LoadSnake loads Snake configuration.
// Search order: customPath -> ~/.arcade/configs/snake.yaml -> ./configs/snake.yaml -> embedded default
func LoadSnake(customPath string) (SnakeConfig, error) {
	cfg, err := loadGame("snake", customPath, DefaultSnakeConfig())
	ApplyPreset(&cfg.Difficulty, CurrentDifficultyPreset())
	return cfg, err
}

// LoadTetris loads the falling-blocks configuration.
func LoadTetris(customPath string) (TetrisConfig, error) {
	return loadGame("tetris", customPath, DefaultTetrisConfig())
}

// LoadBreakout loads Breakout configuration.
func LoadBreakout(customPath string) (BreakoutConfig, error) {
	cfg, err := loadGame("breakout", customPath, DefaultBreakoutConfig())
	ApplyPreset(&cfg.Difficulty, CurrentDifficultyPreset())
	return cfg, err
}

// LoadInvaders loads Space Invaders configuration.
func LoadInvaders(customPath string) (InvadersConfig, error) {
	cfg, err := loadGame("invaders", customPath, DefaultInvadersConfig())
	ApplyPreset(&cfg.Difficulty, CurrentDifficultyPreset())
	return cfg, err
}

// loadGame resolves a per-game YAML file. Every layer is decoded over the
// hardcoded defaults, so a partial file only overrides what it names.
func loadGame[T any](gameID, customPath string, defaults T) (T, error) {
	cfg := defaults

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(ExpandPath(customPath))
		if err != nil {
			return defaults, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := decodeInto(data, &cfg); err != nil {
			return defaults, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	filename := gameID + ".yaml"

	// Try user config directory
	if userCfgPath := userConfigPath(filepath.Join("configs", filename)); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := decodeInto(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = defaults
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", filename)); err == nil {
		if err := decodeInto(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = defaults
	}

	// Use embedded default YAML
	if err := decodeInto(GetDefaultYAML(gameID), &cfg); err != nil {
		return defaults, nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path below ~/.arcade, or empty if home is unavailable.
func userConfigPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", name)
}
