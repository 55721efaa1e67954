package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to the HDMI screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in character cells
	ScreenH  int   // Screen height in character cells
	TickRate int   // Polling ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  30,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is the status a game reports back to the console after every tick.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
