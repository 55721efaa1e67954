// Package config provides the console configuration (a JSON document with
// nested option groups) and YAML-based per-game tuning with difficulty
// progression.
package config

import (
	"errors"
	"fmt"
)

// Console is the top-level configuration of the arcade console.
// Every field carries both json and yaml tags; the file is JSON, decoded with
// the YAML decoder so that missing keys keep their defaults and unknown keys
// are ignored.
type Console struct {
	Display  DisplayConfig  `json:"display" yaml:"display"`
	Audio    AudioConfig    `json:"audio" yaml:"audio"`
	Hardware HardwareConfig `json:"hardware" yaml:"hardware"`
	Timing   TimingConfig   `json:"console" yaml:"console"`
	Scores   ScoresConfig   `json:"scores" yaml:"scores"`
	Debug    DebugConfig    `json:"debug" yaml:"debug"`
}

// DisplayConfig groups the HDMI output and the small SPI display.
type DisplayConfig struct {
	FPS        int       `json:"fps" yaml:"fps"`
	HDMIWidth  int       `json:"hdmi_width" yaml:"hdmi_width"`   // Character cells, 0 = terminal size
	HDMIHeight int       `json:"hdmi_height" yaml:"hdmi_height"` // Character cells, 0 = terminal size
	SPI        SPIConfig `json:"spi" yaml:"spi"`
}

// SPIConfig describes the ILI9341 SPI display wiring.
type SPIConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	Port       string `json:"port" yaml:"port"` // spireg name, "" = first port
	SpeedHz    int64  `json:"speed_hz" yaml:"speed_hz"`
	DCPin      int    `json:"dc_pin" yaml:"dc_pin"`
	ResetPin   int    `json:"reset_pin" yaml:"reset_pin"`
	LEDPin     int    `json:"led_pin" yaml:"led_pin"`
	Width      int    `json:"width" yaml:"width"`
	Height     int    `json:"height" yaml:"height"`
	Rotate     int    `json:"rotate" yaml:"rotate"` // 0-3, quarter turns
	Brightness int    `json:"brightness" yaml:"brightness"`
}

// AudioConfig configures the buzzer.
type AudioConfig struct {
	Enabled   bool    `json:"enabled" yaml:"enabled"`
	Volume    float64 `json:"volume" yaml:"volume"` // 0.0 - 1.0
	BuzzerPin int     `json:"buzzer_pin" yaml:"buzzer_pin"`
	RecordWAV string  `json:"record_wav" yaml:"record_wav"` // Record tones to this WAV file instead of/besides PWM
	QueueSize int     `json:"queue_size" yaml:"queue_size"`
}

// HardwareConfig toggles and wires the input/indicator peripherals.
type HardwareConfig struct {
	Keypad       KeypadConfig       `json:"keypad" yaml:"keypad"`
	Gamepad      GamepadConfig      `json:"gamepad" yaml:"gamepad"`
	TrafficLight TrafficLightConfig `json:"traffic_light" yaml:"traffic_light"`
	PowerButton  PowerButtonConfig  `json:"power_button" yaml:"power_button"`
}

// KeypadConfig wires the 4x4 matrix keypad.
type KeypadConfig struct {
	Enabled    bool  `json:"enabled" yaml:"enabled"`
	RowPins    []int `json:"row_pins" yaml:"row_pins"`
	ColPins    []int `json:"col_pins" yaml:"col_pins"`
	DebounceMS int   `json:"debounce_ms" yaml:"debounce_ms"`
}

// GamepadConfig configures the SDL game controller.
type GamepadConfig struct {
	Enabled   bool    `json:"enabled" yaml:"enabled"`
	Index     int     `json:"index" yaml:"index"`
	Threshold float64 `json:"threshold" yaml:"threshold"` // Stick deflection counted as a direction
}

// TrafficLightConfig wires the red/yellow/green indicator LEDs.
type TrafficLightConfig struct {
	Enabled   bool `json:"enabled" yaml:"enabled"`
	RedPin    int  `json:"red_pin" yaml:"red_pin"`
	YellowPin int  `json:"yellow_pin" yaml:"yellow_pin"`
	GreenPin  int  `json:"green_pin" yaml:"green_pin"`
}

// PowerButtonConfig wires the hold-to-power-off button.
type PowerButtonConfig struct {
	Enabled     bool    `json:"enabled" yaml:"enabled"`
	Pin         int     `json:"pin" yaml:"pin"`
	HoldSeconds float64 `json:"hold_seconds" yaml:"hold_seconds"`
	Shutdown    bool    `json:"shutdown" yaml:"shutdown"` // Run the shutdown command, not just quit
	Command     string  `json:"command" yaml:"command"`
}

// TimingConfig holds the console state machine durations, in seconds.
type TimingConfig struct {
	StartupSeconds   float64 `json:"startup_seconds" yaml:"startup_seconds"`
	CountdownSeconds int     `json:"countdown_seconds" yaml:"countdown_seconds"`
	GameOverSeconds  float64 `json:"game_over_seconds" yaml:"game_over_seconds"`
	ErrorSeconds     float64 `json:"error_seconds" yaml:"error_seconds"`
}

// ScoresConfig configures high score persistence.
type ScoresConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	DBPath  string `json:"db_path" yaml:"db_path"`
}

// DebugConfig holds diagnostics options.
type DebugConfig struct {
	LogLevel string `json:"log_level" yaml:"log_level"` // debug, info, warn, error
	LogFile  string `json:"log_file" yaml:"log_file"`
	ShowFPS  bool   `json:"show_fps" yaml:"show_fps"`
	Simulate bool   `json:"simulate" yaml:"simulate"` // Skip GPIO/SPI/SDL, use virtual peripherals
}

// ErrInvalidConfig is wrapped by Validate failures.
var ErrInvalidConfig = errors.New("config: invalid")

// Validate clamps soft limits in place and rejects configurations that cannot
// work, such as two peripherals sharing one GPIO pin.
func (c *Console) Validate() error {
	c.Audio.Volume = clampF(c.Audio.Volume, 0, 1)
	if c.Display.FPS < 10 {
		c.Display.FPS = 10
	}
	if c.Display.FPS > 240 {
		c.Display.FPS = 240
	}
	if c.Audio.QueueSize <= 0 {
		c.Audio.QueueSize = 32
	}
	if c.Timing.CountdownSeconds < 0 {
		c.Timing.CountdownSeconds = 0
	}

	kp := c.Hardware.Keypad
	if kp.Enabled && (len(kp.RowPins) != 4 || len(kp.ColPins) != 4) {
		return fmt.Errorf("%w: keypad needs 4 row and 4 column pins, got %d and %d",
			ErrInvalidConfig, len(kp.RowPins), len(kp.ColPins))
	}

	used := make(map[int]string)
	claim := func(pin int, owner string) error {
		if prev, ok := used[pin]; ok {
			return fmt.Errorf("%w: GPIO%d used by both %s and %s", ErrInvalidConfig, pin, prev, owner)
		}
		used[pin] = owner
		return nil
	}

	var claims []struct {
		pin   int
		owner string
	}
	add := func(pin int, owner string) {
		claims = append(claims, struct {
			pin   int
			owner string
		}{pin, owner})
	}
	if kp.Enabled {
		for _, p := range kp.RowPins {
			add(p, "keypad")
		}
		for _, p := range kp.ColPins {
			add(p, "keypad")
		}
	}
	if tl := c.Hardware.TrafficLight; tl.Enabled {
		add(tl.RedPin, "traffic light")
		add(tl.YellowPin, "traffic light")
		add(tl.GreenPin, "traffic light")
	}
	if c.Audio.Enabled && c.Audio.BuzzerPin > 0 {
		add(c.Audio.BuzzerPin, "buzzer")
	}
	if pb := c.Hardware.PowerButton; pb.Enabled {
		add(pb.Pin, "power button")
	}
	if spi := c.Display.SPI; spi.Enabled {
		add(spi.DCPin, "spi display")
		add(spi.ResetPin, "spi display")
		add(spi.LEDPin, "spi display")
	}
	for _, cl := range claims {
		if err := claim(cl.pin, cl.owner); err != nil {
			return err
		}
	}
	return nil
}

// SnakeConfig tunes the snake game.
type SnakeConfig struct {
	Speed      SnakeSpeed       `yaml:"speed"`
	Food       SnakeFood        `yaml:"food"`
	PowerUps   SnakePowerUps    `yaml:"powerups"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// SnakeSpeed holds movement rates in cells per second.
type SnakeSpeed struct {
	Base        float64 `yaml:"base"`
	Boost       float64 `yaml:"boost"`
	LevelEvery  int     `yaml:"level_every"` // Foods eaten per level
	ComboWindow float64 `yaml:"combo_window"`
}

// SnakeFood controls special food spawning.
type SnakeFood struct {
	SpecialInterval    float64 `yaml:"special_interval"`
	MinSpecialInterval float64 `yaml:"min_special_interval"`
	SpecialLifetime    float64 `yaml:"special_lifetime"`
}

// SnakePowerUps holds power-up durations in seconds.
type SnakePowerUps struct {
	Invincible      float64 `yaml:"invincible"`
	SpeedBoost      float64 `yaml:"speed_boost"`
	ScoreMultiplier float64 `yaml:"score_multiplier"`
	WallPhase       float64 `yaml:"wall_phase"`
}

// TetrisConfig tunes the falling-blocks game.
type TetrisConfig struct {
	Board    TetrisBoard    `yaml:"board"`
	Timing   TetrisTiming   `yaml:"timing"`
	Scoring  TetrisScoring  `yaml:"scoring"`
	Controls TetrisControls `yaml:"controls"`
}

// TetrisBoard is the playfield size in blocks.
type TetrisBoard struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TetrisTiming controls gravity.
type TetrisTiming struct {
	DropInterval    float64 `yaml:"drop_interval"`
	MinDropInterval float64 `yaml:"min_drop_interval"`
	LevelStep       float64 `yaml:"level_step"`
	SoftDropFactor  float64 `yaml:"soft_drop_factor"`
}

// TetrisScoring holds line clear points (before the level multiplier).
type TetrisScoring struct {
	LinePoints    []int `yaml:"line_points"`
	LinesPerLevel int   `yaml:"lines_per_level"`
}

// TetrisControls holds input repeat delays in seconds.
type TetrisControls struct {
	MoveRepeat   float64 `yaml:"move_repeat"`
	RotateRepeat float64 `yaml:"rotate_repeat"`
}

// BreakoutConfig tunes the brick breaker game.
type BreakoutConfig struct {
	Physics    BreakoutPhysics  `yaml:"physics"`
	Bricks     BreakoutBricks   `yaml:"bricks"`
	Gameplay   BreakoutGameplay `yaml:"gameplay"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BreakoutPhysics holds speeds in cells per second.
type BreakoutPhysics struct {
	BallSpeed   float64 `yaml:"ball_speed"`
	PaddleSpeed float64 `yaml:"paddle_speed"`
	MaxBounce   float64 `yaml:"max_bounce"` // Max bounce angle from vertical, degrees
}

// BreakoutBricks lays out the wall.
type BreakoutBricks struct {
	Rows   int   `yaml:"rows"`
	Cols   int   `yaml:"cols"`
	Points []int `yaml:"points"` // Per row, top first
}

// BreakoutGameplay holds rule parameters.
type BreakoutGameplay struct {
	Lives       int `yaml:"lives"`
	PaddleWidth int `yaml:"paddle_width"`
}

// InvadersConfig tunes the space invaders game.
type InvadersConfig struct {
	Player     InvadersPlayer   `yaml:"player"`
	Enemies    InvadersEnemies  `yaml:"enemies"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// InvadersPlayer holds player parameters.
type InvadersPlayer struct {
	Lives       int     `yaml:"lives"`
	Speed       float64 `yaml:"speed"`        // Cells per second
	ShotDelay   float64 `yaml:"shot_delay"`   // Seconds between shots
	BulletSpeed float64 `yaml:"bullet_speed"` // Cells per second
}

// InvadersEnemies holds formation parameters.
type InvadersEnemies struct {
	Rows             int     `yaml:"rows"`
	Cols             int     `yaml:"cols"`
	StepInterval     float64 `yaml:"step_interval"` // Seconds between formation steps
	MinStepInterval  float64 `yaml:"min_step_interval"`
	FireInterval     float64 `yaml:"fire_interval"`
	MinFireInterval  float64 `yaml:"min_fire_interval"`
	FireIntervalStep float64 `yaml:"fire_interval_step"` // Reduction per wave
	BulletSpeed      float64 `yaml:"bullet_speed"`
	Points           []int   `yaml:"points"` // Per row, top first
	Health           []int   `yaml:"health"` // Hits needed per row, top first
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "score", "time", or "none"
	MaxAt float64 `yaml:"max_at"` // Score or seconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Added to speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies a difficulty config based on a preset.
// An empty preset leaves the config untouched.
func ApplyPreset(cfg *DifficultyConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Enabled = false
	default:
		cfg.Enabled = true
		cfg.InitialLevel = InitialLevelForPreset(preset)
	}
}
