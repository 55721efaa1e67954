package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

//go:embed defaults/breakout.yaml
var defaultBreakoutYAML []byte

//go:embed defaults/invaders.yaml
var defaultInvadersYAML []byte

// DefaultConsole returns the console configuration used when no file exists.
// Pin numbers are BCM GPIO numbers of the reference wiring.
func DefaultConsole() Console {
	return Console{
		Display: DisplayConfig{
			FPS: 60,
			SPI: SPIConfig{
				Enabled:    true,
				SpeedHz:    32_000_000,
				DCPin:      25,
				ResetPin:   24,
				LEDPin:     27,
				Width:      240,
				Height:     320,
				Brightness: 100,
			},
		},
		Audio: AudioConfig{
			Enabled:   true,
			Volume:    0.5,
			BuzzerPin: 18,
			QueueSize: 32,
		},
		Hardware: HardwareConfig{
			Keypad: KeypadConfig{
				Enabled:    true,
				RowPins:    []int{6, 13, 19, 26},
				ColPins:    []int{12, 16, 20, 21},
				DebounceMS: 50,
			},
			Gamepad: GamepadConfig{
				Enabled:   true,
				Threshold: 0.5,
			},
			TrafficLight: TrafficLightConfig{
				Enabled:   true,
				RedPin:    5,
				YellowPin: 3,
				GreenPin:  2,
			},
			PowerButton: PowerButtonConfig{
				Enabled:     true,
				Pin:         4,
				HoldSeconds: 3,
				Command:     "shutdown -h now",
			},
		},
		Timing: TimingConfig{
			StartupSeconds:   2,
			CountdownSeconds: 3,
			GameOverSeconds:  3,
			ErrorSeconds:     2,
		},
		Scores: ScoresConfig{
			Enabled: true,
			DBPath:  "~/.arcade/scores.db",
		},
		Debug: DebugConfig{
			LogLevel: "info",
			LogFile:  "~/.arcade/console.log",
		},
	}
}

// DefaultSnakeConfig returns the default Snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Speed: SnakeSpeed{
			Base:        8,
			Boost:       15,
			LevelEvery:  10,
			ComboWindow: 2,
		},
		Food: SnakeFood{
			SpecialInterval:    10,
			MinSpecialInterval: 5,
			SpecialLifetime:    15,
		},
		PowerUps: SnakePowerUps{
			Invincible:      5,
			SpeedBoost:      3,
			ScoreMultiplier: 10,
			WallPhase:       8,
		},
		Difficulty: DifficultyConfig{
			Enabled: true,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 200,
			},
			Scaling: ScalingConfig{SpeedMultiplier: 1.0},
		},
	}
}

// DefaultTetrisConfig returns the default falling-blocks configuration.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Board: TetrisBoard{Width: 10, Height: 20},
		Timing: TetrisTiming{
			DropInterval:    1.0,
			MinDropInterval: 0.1,
			LevelStep:       0.05,
			SoftDropFactor:  10,
		},
		Scoring: TetrisScoring{
			LinePoints:    []int{100, 300, 500, 800},
			LinesPerLevel: 10,
		},
		Controls: TetrisControls{
			MoveRepeat:   0.12,
			RotateRepeat: 0.2,
		},
	}
}

// DefaultBreakoutConfig returns the default Breakout configuration.
func DefaultBreakoutConfig() BreakoutConfig {
	return BreakoutConfig{
		Physics: BreakoutPhysics{
			BallSpeed:   14,
			PaddleSpeed: 30,
			MaxBounce:   60,
		},
		Bricks: BreakoutBricks{
			Rows:   5,
			Cols:   10,
			Points: []int{50, 40, 30, 20, 10},
		},
		Gameplay: BreakoutGameplay{
			Lives:       3,
			PaddleWidth: 8,
		},
		Difficulty: DifficultyConfig{
			Enabled: true,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 3000,
			},
			Scaling: ScalingConfig{SpeedMultiplier: 0.6},
		},
	}
}

// DefaultInvadersConfig returns the default Space Invaders configuration.
func DefaultInvadersConfig() InvadersConfig {
	return InvadersConfig{
		Player: InvadersPlayer{
			Lives:       3,
			Speed:       20,
			ShotDelay:   0.4,
			BulletSpeed: 25,
		},
		Enemies: InvadersEnemies{
			Rows:             4,
			Cols:             8,
			StepInterval:     0.6,
			MinStepInterval:  0.08,
			FireInterval:     1.2,
			MinFireInterval:  0.4,
			FireIntervalStep: 0.1,
			BulletSpeed:      12,
			Points:           []int{30, 20, 10, 10},
			Health:           []int{3, 2, 1, 1},
		},
		Difficulty: DifficultyConfig{
			Enabled: true,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 300,
			},
			Scaling: ScalingConfig{SpeedMultiplier: 0.5},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "snake":
		return defaultSnakeYAML
	case "tetris":
		return defaultTetrisYAML
	case "breakout":
		return defaultBreakoutYAML
	case "invaders":
		return defaultInvadersYAML
	default:
		return nil
	}
}
