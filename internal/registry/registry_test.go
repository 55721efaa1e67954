package registry

import (
	"errors"
	"slices"
	"testing"

	"github.com/vovakirdan/pi-arcade/internal/core"
)

type nopGame struct{}

func (nopGame) ID() string                           { return "nop" }
func (nopGame) Title() string                        { return "Nop Game" }
func (nopGame) Reset(core.RuntimeConfig)             {}
func (nopGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (nopGame) Render(*core.Screen)                  {}
func (nopGame) State() core.GameState                { return core.GameState{} }
func (nopGame) Cleanup()                             {}

func nopFactory() Game { return nopGame{} }

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected a panic", name)
		}
	}()
	fn()
}

func TestRegisterFillsDefaults(t *testing.T) {
	Register(GameDescriptor{Number: 101, ID: "reg-defaults", Factory: nopFactory})

	d, err := Get("reg-defaults")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.Name != "Nop Game" {
		t.Errorf("name = %q, want the game title", d.Name)
	}
	if d.Difficulty != DifficultyMedium {
		t.Errorf("difficulty = %q, want medium", d.Difficulty)
	}

	Register(GameDescriptor{Number: 102, ID: "reg-named", Name: "Named", Difficulty: DifficultyHard, Factory: nopFactory})
	if d, _ := Get("reg-named"); d.Name != "Named" || d.Difficulty != DifficultyHard {
		t.Errorf("explicit fields overwritten: %+v", d)
	}
}

func TestRegisterRejects(t *testing.T) {
	Register(GameDescriptor{Number: 110, ID: "reg-taken", Factory: nopFactory})

	tests := []struct {
		name string
		d    GameDescriptor
	}{
		{"missing id", GameDescriptor{Number: 111, Factory: nopFactory}},
		{"missing factory", GameDescriptor{Number: 112, ID: "reg-nofactory"}},
		{"missing number", GameDescriptor{ID: "reg-nonumber", Factory: nopFactory}},
		{"negative number", GameDescriptor{Number: -1, ID: "reg-negative", Factory: nopFactory}},
		{"duplicate id", GameDescriptor{Number: 113, ID: "reg-taken", Factory: nopFactory}},
		{"duplicate number", GameDescriptor{Number: 110, ID: "reg-other", Factory: nopFactory}},
	}
	for _, tt := range tests {
		mustPanic(t, tt.name, func() { Register(tt.d) })
	}

	if _, err := Get("reg-other"); err == nil {
		t.Error("a rejected descriptor was stored")
	}
	if d, _ := ByNumber(110); d.ID != "reg-taken" {
		t.Errorf("number 110 = %q, want reg-taken", d.ID)
	}
}

func TestListOrderedByNumber(t *testing.T) {
	for _, n := range []int{123, 121, 122} {
		Register(GameDescriptor{Number: n, ID: "reg-order-" + string(rune('a'+n-121)), Factory: nopFactory})
	}

	list := List()
	if len(list) != Count() {
		t.Fatalf("List has %d games, Count = %d", len(list), Count())
	}
	if !slices.IsSortedFunc(list, func(a, b GameDescriptor) int { return a.Number - b.Number }) {
		t.Errorf("List not ordered by number: %v", list)
	}
}

func TestCount(t *testing.T) {
	before := Count()
	Register(GameDescriptor{Number: 130, ID: "reg-count", Factory: nopFactory})
	if got := Count(); got != before+1 {
		t.Errorf("Count = %d, want %d", got, before+1)
	}
}

func TestLookup(t *testing.T) {
	Register(GameDescriptor{Number: 140, ID: "reg-lookup", Factory: nopFactory})

	tests := []struct {
		name    string
		lookup  func() (GameDescriptor, error)
		wantID  string
		unknown bool
	}{
		{"get", func() (GameDescriptor, error) { return Get("reg-lookup") }, "reg-lookup", false},
		{"by number", func() (GameDescriptor, error) { return ByNumber(140) }, "reg-lookup", false},
		{"unknown id", func() (GameDescriptor, error) { return Get("reg-missing") }, "", true},
		{"unknown number", func() (GameDescriptor, error) { return ByNumber(999) }, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.lookup()
			if tt.unknown {
				if !errors.Is(err, ErrUnknownGame) {
					t.Errorf("err = %v, want ErrUnknownGame", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.ID != tt.wantID {
				t.Errorf("id = %q, want %q", d.ID, tt.wantID)
			}
		})
	}
}
