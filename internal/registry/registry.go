// Package registry holds the game descriptors of the console.
// Games register themselves in init() functions, so the console can list and
// instantiate them without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/pi-arcade/internal/core"
)

// ErrUnknownGame is returned when no descriptor matches a lookup.
var ErrUnknownGame = errors.New("registry: unknown game")

// Game is the contract every console game implements.
// Games contain pure logic; the console handles input sampling, timing,
// peripherals and rendering to the outputs.
type Game interface {
	// ID returns the unique slug of the game (e.g. "snake").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes or restores the initial game state.
	Reset(cfg core.RuntimeConfig)

	// Step advances the game by one polling tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the HDMI screen buffer.
	Render(dst *core.Screen)

	// State returns the current status (score, game over, paused).
	State() core.GameState

	// Cleanup releases anything the game holds. The instance is discarded after.
	Cleanup()
}

// Sound names a buzzer effect a game can ask the console to play.
type Sound string

// Effects understood by the console's buzzer mapping.
const (
	SoundEat      Sound = "eat"
	SoundHit      Sound = "hit"
	SoundBounce   Sound = "bounce"
	SoundShoot    Sound = "shoot"
	SoundExplode  Sound = "explode"
	SoundPowerUp  Sound = "powerup"
	SoundMove     Sound = "move"
	SoundMatch    Sound = "match"
	SoundMiss     Sound = "miss"
	SoundLevelUp  Sound = "levelup"
	SoundLine     Sound = "line"
	SoundWin      Sound = "win"
	SoundLose     Sound = "lose"
	SoundSignal   Sound = "signal"
	SoundGameOver Sound = "gameover"
)

// SoundEmitter is implemented by games that want buzzer feedback.
// The console installs the callback right after creating the game.
type SoundEmitter interface {
	SetSound(play func(Sound))
}

// Difficulty is a coarse tag shown on the menu and instruction screens.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Factory creates a new instance of a game.
type Factory func() Game

// GameDescriptor describes a registered game. It is created once at startup
// and never mutated.
type GameDescriptor struct {
	Number      int      // Menu number, selected with keypad digit 1-9
	ID          string   // Slug used for scores and the CLI
	Name        string   // Display name
	Description string   // One-line description for the instruction screen
	Controls    []string // Control hints for the instruction screen
	Difficulty  Difficulty
	Factory     Factory
}

var (
	byID     = make(map[string]GameDescriptor)
	byNumber = make(map[int]string)
	mu       sync.RWMutex
)

// Register adds a game descriptor to the registry.
// Typically called from a game's init() function.
// Panics if the id or menu number is already taken, or the descriptor is incomplete.
func Register(d GameDescriptor) {
	mu.Lock()
	defer mu.Unlock()

	if d.ID == "" || d.Factory == nil || d.Number <= 0 {
		panic(fmt.Sprintf("registry: incomplete descriptor %+v", d))
	}
	if _, exists := byID[d.ID]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", d.ID))
	}
	if other, exists := byNumber[d.Number]; exists {
		panic(fmt.Sprintf("registry: number %d already used by %q", d.Number, other))
	}
	if d.Name == "" {
		d.Name = d.Factory().Title()
	}
	if d.Difficulty == "" {
		d.Difficulty = DifficultyMedium
	}

	byID[d.ID] = d
	byNumber[d.Number] = d.ID
}

// List returns all registered descriptors ordered by menu number.
func List() []GameDescriptor {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameDescriptor, 0, len(byID))
	for _, d := range byID {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Number < result[j].Number
	})
	return result
}

// Count returns the number of registered games.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(byID)
}

// Get returns the descriptor for a game slug.
func Get(id string) (GameDescriptor, error) {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := byID[id]
	if !ok {
		return GameDescriptor{}, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return d, nil
}

// ByNumber returns the descriptor selected by a menu number.
func ByNumber(n int) (GameDescriptor, error) {
	mu.RLock()
	id, ok := byNumber[n]
	mu.RUnlock()
	if !ok {
		return GameDescriptor{}, fmt.Errorf("%w number %d", ErrUnknownGame, n)
	}
	return Get(id)
}
