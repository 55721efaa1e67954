package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConsoleMergesDefaults(t *testing.T) {
	path := writeFile(t, "config.json", `{
  "display": {"fps": 30},
  "audio": {"volume": 0.8, "mystery_knob": true},
  "unknown_group": {"x": 1},
  "debug": {"log_level": "debug"}
}`)

	cfg, used, err := LoadConsole(path)
	if err != nil {
		t.Fatalf("LoadConsole failed: %v", err)
	}
	if used != path {
		t.Errorf("used path = %q, want %q", used, path)
	}

	def := DefaultConsole()
	if cfg.Display.FPS != 30 {
		t.Errorf("fps = %d, want 30", cfg.Display.FPS)
	}
	if cfg.Audio.Volume != 0.8 {
		t.Errorf("volume = %v, want 0.8", cfg.Audio.Volume)
	}
	if cfg.Debug.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Debug.LogLevel)
	}
	// Untouched keys keep defaults
	if cfg.Audio.BuzzerPin != def.Audio.BuzzerPin {
		t.Errorf("buzzer pin = %d, want default %d", cfg.Audio.BuzzerPin, def.Audio.BuzzerPin)
	}
	if cfg.Display.SPI.DCPin != def.Display.SPI.DCPin {
		t.Errorf("dc pin = %d, want default %d", cfg.Display.SPI.DCPin, def.Display.SPI.DCPin)
	}
	if len(cfg.Hardware.Keypad.RowPins) != 4 {
		t.Errorf("keypad rows = %v, want defaults", cfg.Hardware.Keypad.RowPins)
	}
}

func TestLoadConsoleMissingCustomPath(t *testing.T) {
	_, _, err := LoadConsole(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadConsoleBadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"display": [`)
	if _, _, err := LoadConsole(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConsoleJSONForms(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(Console) bool
	}{
		{"escaped solidus", `{"debug":{"log_file":"C:\/logs\/a.log"}}`,
			func(c Console) bool { return c.Debug.LogFile == "C:/logs/a.log" }},
		{"duplicate key keeps last", `{"display":{"fps":20,"fps":40}}`,
			func(c Console) bool { return c.Display.FPS == 40 }},
		{"null group keeps defaults", `{"audio":null}`,
			func(c Console) bool { return c.Audio == DefaultConsole().Audio }},
		{"tab indented", "{\n\t\"display\": {\n\t\t\"fps\": 50\n\t}\n}",
			func(c Console) bool { return c.Display.FPS == 50 }},
		{"empty file", "  \n",
			func(c Console) bool { return c.Display.FPS == DefaultConsole().Display.FPS }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _, err := LoadConsole(writeFile(t, "config.json", tt.content))
			if err != nil {
				t.Fatalf("LoadConsole: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("unexpected config %+v", cfg)
			}
		})
	}
}

func TestValidateClamps(t *testing.T) {
	tests := []struct {
		name       string
		volume     float64
		fps        int
		wantVolume float64
		wantFPS    int
	}{
		{"in range", 0.5, 60, 0.5, 60},
		{"loud", 3, 60, 1, 60},
		{"negative volume", -1, 60, 0, 60},
		{"slow", 0.5, 1, 0.5, 10},
		{"fast", 0.5, 1000, 0.5, 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConsole()
			cfg.Audio.Volume = tt.volume
			cfg.Display.FPS = tt.fps
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if cfg.Audio.Volume != tt.wantVolume {
				t.Errorf("volume = %v, want %v", cfg.Audio.Volume, tt.wantVolume)
			}
			if cfg.Display.FPS != tt.wantFPS {
				t.Errorf("fps = %d, want %d", cfg.Display.FPS, tt.wantFPS)
			}
		})
	}
}

func TestValidateRejectsSharedPins(t *testing.T) {
	cfg := DefaultConsole()
	cfg.Hardware.TrafficLight.RedPin = cfg.Hardware.PowerButton.Pin

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Validate = %v, want ErrInvalidConfig", err)
	}

	// Disabling one of the owners frees the pin
	cfg.Hardware.PowerButton.Enabled = false
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate after disabling power button: %v", err)
	}
}

func TestValidateKeypadPins(t *testing.T) {
	cfg := DefaultConsole()
	cfg.Hardware.Keypad.RowPins = []int{6, 13}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Validate = %v, want ErrInvalidConfig", err)
	}
}

func TestDefaultConsoleIsValid(t *testing.T) {
	cfg := DefaultConsole()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestSaveConsoleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConsole()
	cfg.Display.FPS = 45
	cfg.Debug.Simulate = true

	if err := SaveConsole(path, cfg); err != nil {
		t.Fatalf("SaveConsole: %v", err)
	}
	got, _, err := LoadConsole(path)
	if err != nil {
		t.Fatalf("LoadConsole: %v", err)
	}
	if got.Display.FPS != 45 || !got.Debug.Simulate {
		t.Errorf("round trip lost values: fps=%d simulate=%v", got.Display.FPS, got.Debug.Simulate)
	}
}

func TestLoadGameEmbeddedDefaults(t *testing.T) {
	snake, err := LoadSnake("")
	if err != nil {
		t.Fatalf("LoadSnake: %v", err)
	}
	if snake.Speed.Base <= 0 || snake.Speed.Boost <= snake.Speed.Base {
		t.Errorf("unexpected snake speeds: %+v", snake.Speed)
	}

	tetris, err := LoadTetris("")
	if err != nil {
		t.Fatalf("LoadTetris: %v", err)
	}
	if tetris.Board.Width != 10 || tetris.Board.Height != 20 {
		t.Errorf("tetris board = %+v", tetris.Board)
	}
	if len(tetris.Scoring.LinePoints) != 4 {
		t.Errorf("line points = %v", tetris.Scoring.LinePoints)
	}
}

func TestLoadGamePartialOverride(t *testing.T) {
	path := writeFile(t, "breakout.yaml", "gameplay:\n  lives: 5\n")

	cfg, err := LoadBreakout(path)
	if err != nil {
		t.Fatalf("LoadBreakout: %v", err)
	}
	if cfg.Gameplay.Lives != 5 {
		t.Errorf("lives = %d, want 5", cfg.Gameplay.Lives)
	}
	if cfg.Gameplay.PaddleWidth != DefaultBreakoutConfig().Gameplay.PaddleWidth {
		t.Errorf("paddle width lost default: %d", cfg.Gameplay.PaddleWidth)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultSnakeConfig().Difficulty

	ApplyPreset(&cfg, DifficultyHard)
	if !cfg.Enabled || cfg.InitialLevel != 0.7 {
		t.Errorf("hard preset = %+v", cfg)
	}

	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Enabled {
		t.Error("fixed preset should disable progression")
	}
}

func TestDifficultyPresetAppliedOnLoad(t *testing.T) {
	t.Cleanup(func() { SetDifficultyPreset("") })

	SetDifficultyPreset(DifficultyHard)
	cfg, err := LoadSnake("")
	if err != nil {
		t.Fatalf("LoadSnake: %v", err)
	}
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("snake difficulty = %+v, want hard preset", cfg.Difficulty)
	}

	SetDifficultyPreset(DifficultyFixed)
	inv, err := LoadInvaders("")
	if err != nil {
		t.Fatalf("LoadInvaders: %v", err)
	}
	if inv.Difficulty.Enabled {
		t.Error("fixed preset should disable invaders progression")
	}
}

func TestParseDifficultyPreset(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"", "", false},
		{"easy", DifficultyEasy, false},
		{" Hard ", DifficultyHard, false},
		{"fixed", DifficultyFixed, false},
		{"insane", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDifficultyPreset(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDifficultyPreset(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDifficultyPreset(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDifficultyManager(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:     ScalingConfig{SpeedMultiplier: 1.0},
	}
	dm := NewDifficultyManager(cfg)

	tests := []struct {
		score int
		want  float64
	}{
		{0, 0},
		{50, 0.5},
		{100, 1},
		{500, 1},
	}
	for _, tt := range tests {
		if got := dm.Level(tt.score, 0); got != tt.want {
			t.Errorf("Level(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}

	if got := dm.Speed(8, 100, 0); got != 16 {
		t.Errorf("Speed at max = %v, want 16", got)
	}
	if got := dm.Interval(8, 0, 0); got != 125*time.Millisecond {
		t.Errorf("Interval at start = %v, want 125ms", got)
	}
	if fast, slow := dm.Interval(8, 100, 0), dm.Interval(8, 0, 0); fast >= slow {
		t.Errorf("interval should shrink with score: %v >= %v", fast, slow)
	}
}

func TestDifficultyTimeProgression(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 60},
	})
	if got := dm.Level(0, 30*time.Second); got != 0.5 {
		t.Errorf("Level after 30s = %v, want 0.5", got)
	}

	fixed := NewDifficultyManager(DifficultyConfig{Enabled: false, InitialLevel: 0.3})
	if got := fixed.Level(1000, time.Hour); got != 0.3 {
		t.Errorf("disabled manager level = %v, want 0.3", got)
	}
}
