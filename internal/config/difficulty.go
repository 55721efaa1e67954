package config

import (
	"math"
	"time"
)

// DifficultyManager calculates dynamic game parameters based on score/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score or
// elapsed play time.
func (d *DifficultyManager) Level(score int, elapsed time.Duration) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := d.cfg.Progression.MaxAt
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = elapsed.Seconds() / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed returns the current speed based on difficulty level.
// Speed increases from base to base * (1 + speedMultiplier).
func (d *DifficultyManager) Speed(baseSpeed float64, score int, elapsed time.Duration) float64 {
	level := d.Level(score, elapsed)
	return baseSpeed * (1.0 + level*d.cfg.Scaling.SpeedMultiplier)
}

// Interval converts a rate in events per second, scaled by difficulty, into
// the wait between events. Non-positive rates give one second.
func (d *DifficultyManager) Interval(perSecond float64, score int, elapsed time.Duration) time.Duration {
	speed := d.Speed(perSecond, score, elapsed)
	if speed <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / speed)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
