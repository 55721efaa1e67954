// Package console implements the arcade state machine. The Controller reads
// the keypad, gamepad and keyboard once per tick, runs the selected game and
// gives feedback on the buzzer, traffic light and small display whenever the
// state changes.
package console

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pi-arcade/internal/config"
	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/hw"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

// State is the top-level console state.
type State int

const (
	StateStartup State = iota
	StateMenu
	StateInstruction
	StateGameStarting
	StateGame
	StateGamePaused
	StateGameOver
	StateError
)

var stateNames = [...]string{
	StateStartup:      "STARTUP",
	StateMenu:         "MENU",
	StateInstruction:  "INSTRUCTION",
	StateGameStarting: "GAME_STARTING",
	StateGame:         "GAME",
	StateGamePaused:   "GAME_PAUSED",
	StateGameOver:     "GAME_OVER",
	StateError:        "ERROR",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "UNKNOWN"
}

// ErrNoSelection is returned when a game is started without a valid menu
// selection.
var ErrNoSelection = errors.New("console: no game selected")

const (
	// maxDelta caps the frame delta after a stall so games do not jump ahead.
	maxDelta = 250 * time.Millisecond

	// inputGuard ignores buttons right after game over and error screens
	// appear, so a player still mashing fire does not skip them.
	inputGuard = 500 * time.Millisecond
)

// Keypad keys outside the menu. Digits 2/4/6/8 form a d-pad around 5.
var keypadActions = map[rune][]core.Action{
	'2': {core.ActionUp},
	'8': {core.ActionDown},
	'4': {core.ActionLeft},
	'6': {core.ActionRight},
	'5': {core.ActionFire},
	'A': {core.ActionConfirm, core.ActionFire},
	'B': {core.ActionBack},
	'D': {core.ActionBack},
	'C': {core.ActionRotate},
	'*': {core.ActionPause},
	'#': {core.ActionExtra},
}

// ScoreStore persists finished games. *storage.Store satisfies it.
type ScoreStore interface {
	HighScore(gameID string) (int, error)
	SaveScore(gameID string, score int, played time.Duration) (int64, error)
}

// ranker is implemented by stores that can place a score on the board.
type ranker interface {
	Rank(gameID string, score int) (int, error)
}

// Config holds the controller settings.
type Config struct {
	Runtime core.RuntimeConfig
	Timing  config.TimingConfig
	ShowFPS bool
	Games   []registry.GameDescriptor // nil means every registered game
}

// Result describes the last finished game.
type Result struct {
	GameID  string
	Score   int
	High    int
	NewHigh bool
	Rank    int // Place on the stored board, 0 when unknown
	Played  time.Duration
}

// Controller owns the console state. It is not safe for concurrent use; the
// platform loop calls Update and reads Screen from one goroutine.
type Controller struct {
	dev    Devices
	store  ScoreStore
	cfg    Config
	logger *log.Logger
	games  []registry.GameDescriptor
	menu   []hw.MenuEntry
	screen *core.Screen

	started  bool
	state    State
	entered  time.Time
	lastTick time.Time
	selected int
	highs    map[string]int
	shown    int // Last countdown number or loading decile sent to the display

	game   registry.Game
	field  *core.Screen // Canvas the running game draws into, sized at start
	desc   registry.GameDescriptor
	gs     core.GameState
	played time.Duration
	result Result
	err    error

	keys       []rune
	fps        float64
	displayErr bool
	quit       bool
	powerOff   bool
}

// New creates a controller in the STARTUP state. Pass a nil store to keep
// high scores in memory only.
func New(dev Devices, store ScoreStore, cfg Config, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	def := core.DefaultConfig()
	if cfg.Runtime.ScreenW <= 0 || cfg.Runtime.ScreenH <= 0 {
		cfg.Runtime.ScreenW, cfg.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}
	if cfg.Runtime.TickRate <= 0 {
		cfg.Runtime.TickRate = def.TickRate
	}
	games := cfg.Games
	if games == nil {
		games = registry.List()
	}
	menu := make([]hw.MenuEntry, len(games))
	for i, d := range games {
		menu[i] = hw.MenuEntry{Number: d.Number, Name: d.Name}
	}
	return &Controller{
		dev:    dev,
		store:  store,
		cfg:    cfg,
		logger: logger,
		games:  games,
		menu:   menu,
		screen: core.NewScreen(cfg.Runtime.ScreenW, cfg.Runtime.ScreenH),
		highs:  make(map[string]int),
		shown:  -1,
	}
}

// State returns the current console state.
func (c *Controller) State() State { return c.state }

// Selected returns the menu index of the selected game.
func (c *Controller) Selected() int { return c.selected }

// Games returns the menu entries in order.
func (c *Controller) Games() []registry.GameDescriptor { return c.games }

// LastResult returns the outcome of the most recent finished game.
func (c *Controller) LastResult() Result { return c.result }

// Err returns the error that put the console in the ERROR state.
func (c *Controller) Err() error { return c.err }

// Done reports whether the console was asked to quit.
func (c *Controller) Done() bool { return c.quit }

// PowerOff reports whether the quit came from the power button.
func (c *Controller) PowerOff() bool { return c.powerOff }

// Screen returns the HDMI frame drawn by the last Update.
func (c *Controller) Screen() *core.Screen { return c.screen }

// PressKey queues a keypad key for the next Update. The keyboard uses it to
// stand in for the matrix keypad.
func (c *Controller) PressKey(r rune) {
	c.keys = append(c.keys, r)
}

// SelectGame moves the menu cursor to the game with the given id.
func (c *Controller) SelectGame(id string) error {
	for i, d := range c.games {
		if d.ID == id {
			c.selected = i
			return nil
		}
	}
	return fmt.Errorf("%w %q", registry.ErrUnknownGame, id)
}

// Resize changes the HDMI screen size. A running game keeps the size it
// started with and is letterboxed into the new screen; the next game starts
// at the new size.
func (c *Controller) Resize(w, h int) {
	if w <= 0 || h <= 0 || (w == c.screen.Width() && h == c.screen.Height()) {
		return
	}
	c.screen.Resize(w, h)
	c.cfg.Runtime.ScreenW, c.cfg.Runtime.ScreenH = w, h
	c.draw()
}

// Quit ends the console loop and releases the active game.
func (c *Controller) Quit() {
	if c.quit {
		return
	}
	c.quit = true
	c.endGame()
	if c.dev.Sound != nil {
		c.dev.Sound.Stop()
	}
	c.light(hw.LightOff)
	c.logger.Info("console stopped")
}

// Update advances the console by one tick. kbd carries the keyboard actions
// collected since the previous tick.
func (c *Controller) Update(now time.Time, kbd core.InputFrame) {
	if c.quit {
		return
	}
	if !c.started {
		c.started = true
		c.lastTick = now
		c.enter(StateStartup, now)
	}

	delta := min(max(now.Sub(c.lastTick), 0), maxDelta)
	if delta > 0 {
		c.fps = 0.9*c.fps + 0.1/delta.Seconds()
	}
	c.lastTick = now

	if c.dev.Power != nil && c.dev.Power.Poll(now) {
		c.logger.Warn("power button held")
		c.powerOff = true
		c.Quit()
		return
	}

	keys := append([]rune(nil), c.keys...)
	c.keys = c.keys[:0]
	if c.dev.Keys != nil {
		if k, ok := c.dev.Keys.Poll(now); ok {
			keys = append(keys, k)
		}
	}

	in := core.NewInputFrame()
	in.Delta = delta
	in.Merge(kbd)
	if c.dev.Pad != nil {
		in.Merge(c.dev.Pad.Poll(now))
	}
	for _, k := range keys {
		if c.state == StateMenu && k >= '0' && k <= '9' {
			continue
		}
		for _, a := range keypadActions[k] {
			in.Set(a)
		}
	}

	if in.Has(core.ActionQuit) {
		c.Quit()
		return
	}

	switch c.state {
	case StateStartup:
		c.updateStartup(now, in)
	case StateMenu:
		c.updateMenu(now, in, keys)
	case StateInstruction:
		c.updateInstruction(now, in)
	case StateGameStarting:
		c.updateCountdown(now, in)
	case StateGame, StateGamePaused:
		c.updateGame(now, in)
	case StateGameOver:
		c.updateGameOver(now, in)
	case StateError:
		c.updateError(now, in)
	}
	c.draw()
}

func (c *Controller) updateStartup(now time.Time, in core.InputFrame) {
	total := seconds(c.cfg.Timing.StartupSeconds)
	elapsed := now.Sub(c.entered)
	if elapsed >= total || in.Has(core.ActionConfirm) {
		c.enter(StateMenu, now)
		return
	}
	pct := int(100 * elapsed / total)
	if pct/10 != c.shown {
		c.shown = pct / 10
		c.show(func(d SmallDisplay) error { return d.ShowLoading("Starting", pct) })
	}
}

func (c *Controller) updateMenu(now time.Time, in core.InputFrame, keys []rune) {
	for _, k := range keys {
		if k < '1' || k > '9' {
			continue
		}
		if i := c.indexOf(int(k - '0')); i >= 0 {
			c.selected = i
			c.melody(hw.MelodySelect)
			c.enter(StateInstruction, now)
			return
		}
	}

	switch {
	case in.Has(core.ActionUp):
		c.moveSelection(-1)
	case in.Has(core.ActionDown):
		c.moveSelection(1)
	case in.Has(core.ActionConfirm), in.Has(core.ActionFire):
		if len(c.games) == 0 {
			c.logger.Warn("no games registered")
			return
		}
		c.melody(hw.MelodySelect)
		c.enter(StateInstruction, now)
	}
}

func (c *Controller) moveSelection(step int) {
	if len(c.games) == 0 {
		return
	}
	c.selected = core.Wrap(c.selected+step, len(c.games))
	c.play(registry.SoundMove)
	c.showMenu()
}

func (c *Controller) updateInstruction(now time.Time, in core.InputFrame) {
	switch {
	case in.Has(core.ActionConfirm), in.Has(core.ActionFire):
		if err := c.startGame(); err != nil {
			c.fail(now, err)
			return
		}
		c.enter(StateGameStarting, now)
	case in.Has(core.ActionBack), in.Has(core.ActionAlt):
		c.enter(StateMenu, now)
	}
}

func (c *Controller) updateCountdown(now time.Time, in core.InputFrame) {
	if in.Has(core.ActionBack) {
		c.enter(StateMenu, now)
		return
	}
	c.countdown(now)
}

// countdown shows the remaining seconds and starts the game when they run out.
func (c *Controller) countdown(now time.Time) {
	left := c.countdownLeft(now)
	if left <= 0 {
		c.melody(hw.MelodyGo)
		c.show(func(d SmallDisplay) error { return d.ShowCountdown(0) })
		c.enter(StateGame, now)
		return
	}
	if left == c.shown {
		return
	}
	c.shown = left
	switch {
	case left >= 3:
		c.light(hw.LightRed)
	case left == 2:
		c.light(hw.LightYellow)
	default:
		c.light(hw.LightGreen)
	}
	c.melody(hw.MelodyBeep)
	c.show(func(d SmallDisplay) error { return d.ShowCountdown(left) })
}

func (c *Controller) countdownLeft(now time.Time) int {
	return c.cfg.Timing.CountdownSeconds - int(now.Sub(c.entered)/time.Second)
}

func (c *Controller) updateGame(now time.Time, in core.InputFrame) {
	// Gamepad B sends Alt as well as Back; only a plain Back leaves the game.
	if in.Has(core.ActionBack) && !in.Has(core.ActionAlt) {
		c.logger.Info("game abandoned", "game", c.desc.ID, "score", c.gs.Score)
		c.enter(StateMenu, now)
		return
	}

	if c.state == StateGame {
		c.played += in.Delta
	}
	var res core.StepResult
	if err := c.guard("step", func() { res = c.game.Step(in) }); err != nil {
		c.fail(now, err)
		return
	}
	c.gs = res.State

	switch {
	case c.gs.GameOver:
		c.finish(now)
	case c.gs.Paused && c.state == StateGame:
		c.enter(StateGamePaused, now)
	case !c.gs.Paused && c.state == StateGamePaused:
		c.enter(StateGame, now)
	}
}

// finish records the score and moves to GAME_OVER.
func (c *Controller) finish(now time.Time) {
	id := c.desc.ID
	r := Result{GameID: id, Score: c.gs.Score, Played: c.played, High: c.highs[id]}
	if c.store != nil {
		if high, err := c.store.HighScore(id); err != nil {
			c.logger.Warn("reading high score failed", "game", id, "err", err)
		} else {
			r.High = max(r.High, high)
		}
		if r.Score > 0 {
			if _, err := c.store.SaveScore(id, r.Score, r.Played); err != nil {
				c.logger.Warn("saving score failed", "game", id, "err", err)
			} else if rk, ok := c.store.(ranker); ok {
				if r.Rank, err = rk.Rank(id, r.Score); err != nil {
					c.logger.Warn("ranking score failed", "game", id, "err", err)
				}
			}
		}
	}
	r.NewHigh = r.Score > 0 && r.Score > r.High
	r.High = max(r.High, r.Score)
	c.highs[id] = r.High
	c.result = r

	c.logger.Info("game over", "game", id, "score", r.Score, "high", r.High, "new_high", r.NewHigh,
		"rank", r.Rank, "played", r.Played.Round(time.Second))
	c.enter(StateGameOver, now)
}

func (c *Controller) updateGameOver(now time.Time, in core.InputFrame) {
	elapsed := now.Sub(c.entered)
	if elapsed >= inputGuard && (in.Has(core.ActionRestart) || in.Has(core.ActionPause)) {
		if err := c.startGame(); err != nil {
			c.fail(now, err)
			return
		}
		c.enter(StateGameStarting, now)
		return
	}
	confirmed := elapsed >= inputGuard && (in.Has(core.ActionConfirm) || in.Has(core.ActionFire) || in.Has(core.ActionBack))
	if confirmed || elapsed >= seconds(c.cfg.Timing.GameOverSeconds) {
		c.enter(StateMenu, now)
	}
}

func (c *Controller) updateError(now time.Time, in core.InputFrame) {
	elapsed := now.Sub(c.entered)
	confirmed := elapsed >= inputGuard && (in.Has(core.ActionConfirm) || in.Has(core.ActionBack))
	if confirmed || elapsed >= seconds(c.cfg.Timing.ErrorSeconds) {
		c.enter(StateMenu, now)
	}
}

// startGame creates and resets a fresh instance of the selected game.
// Any previous instance is cleaned up first.
func (c *Controller) startGame() error {
	if c.selected < 0 || c.selected >= len(c.games) {
		return ErrNoSelection
	}
	c.endGame()

	d := c.games[c.selected]
	var g registry.Game
	var rt core.RuntimeConfig
	err := c.guard("start", func() {
		g = d.Factory()
		if g == nil {
			return
		}
		if se, ok := g.(registry.SoundEmitter); ok {
			se.SetSound(c.play)
		}
		rt = c.runtime()
		g.Reset(rt)
	})
	if err == nil && g == nil {
		err = fmt.Errorf("console: %s: factory returned no game", d.ID)
	}
	if err != nil {
		return fmt.Errorf("console: starting %s: %w", d.ID, err)
	}

	c.game, c.desc, c.gs, c.played = g, d, g.State(), 0
	c.field = core.NewScreen(rt.ScreenW, rt.ScreenH)
	c.logger.Info("game started", "game", d.ID)
	return nil
}

func (c *Controller) endGame() {
	if c.game == nil {
		return
	}
	if err := c.guard("cleanup", c.game.Cleanup); err != nil {
		c.logger.Warn("cleanup failed", "game", c.desc.ID, "err", err)
	}
	c.game = nil
}

func (c *Controller) fail(now time.Time, err error) {
	c.err = err
	c.logger.Error("game failed", "err", err)
	c.endGame()
	c.enter(StateError, now)
}

// guard runs fn and turns a panic into an error.
func (c *Controller) guard(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", op, r)
		}
	}()
	fn()
	return nil
}

func (c *Controller) runtime() core.RuntimeConfig {
	rt := c.cfg.Runtime
	rt.ScreenW, rt.ScreenH = c.screen.Width(), c.screen.Height()
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	return rt
}

// enter switches state and gives the feedback that goes with the new state.
func (c *Controller) enter(s State, now time.Time) {
	prev := c.state
	c.state, c.entered, c.shown = s, now, -1
	c.logger.Debug("state change", "from", prev, "to", s)

	switch s {
	case StateStartup:
		c.light(hw.LightGreen)
		c.melody(hw.MelodyStartup)
		c.show(func(d SmallDisplay) error { return d.ShowLoading("Starting", 0) })
	case StateMenu:
		c.endGame()
		c.light(hw.LightGreen)
		c.refreshHighs()
		c.showMenu()
	case StateInstruction:
		d := c.games[c.selected]
		c.show(func(sd SmallDisplay) error { return sd.ShowInstructions(d.Name, d.Description, d.Controls) })
	case StateGameStarting:
		c.countdown(now)
	case StateGame:
		c.light(hw.LightGreen)
		c.show(func(d SmallDisplay) error {
			return d.ShowMessage(c.desc.Name, "Start pauses, Back returns to the menu", hw.Green)
		})
	case StateGamePaused:
		c.light(hw.LightYellow)
		c.show(func(d SmallDisplay) error { return d.ShowMessage("PAUSED", "Press Start to resume", hw.Yellow) })
	case StateGameOver:
		c.stopSound()
		c.melody(hw.MelodyGameOver)
		if c.result.NewHigh {
			c.melody(hw.MelodyFanfare)
		}
		c.light(hw.LightRed)
		r := c.result
		c.show(func(d SmallDisplay) error { return d.ShowGameOver(c.desc.Name, r.Score, r.High, r.NewHigh) })
	case StateError:
		c.stopSound()
		c.melody(hw.MelodyError)
		c.light(hw.LightRed)
		msg := "Unknown error"
		if c.err != nil {
			msg = c.err.Error()
		}
		c.show(func(d SmallDisplay) error { return d.ShowMessage("ERROR", msg, hw.Red) })
	}
}

func (c *Controller) refreshHighs() {
	if c.store == nil {
		return
	}
	for _, d := range c.games {
		high, err := c.store.HighScore(d.ID)
		if err != nil {
			c.logger.Debug("high score unavailable", "game", d.ID, "err", err)
			continue
		}
		c.highs[d.ID] = max(c.highs[d.ID], high)
	}
}

func (c *Controller) indexOf(number int) int {
	for i, d := range c.games {
		if d.Number == number {
			return i
		}
	}
	return -1
}

func (c *Controller) showMenu() {
	c.show(func(d SmallDisplay) error { return d.ShowMenu(c.menu, c.selected) })
}

func (c *Controller) show(fn func(SmallDisplay) error) {
	if c.dev.Display == nil {
		return
	}
	if err := fn(c.dev.Display); err != nil && !c.displayErr {
		c.displayErr = true
		c.logger.Warn("display update failed", "err", err)
	}
}

func (c *Controller) light(l hw.Light) {
	if c.dev.Lights == nil {
		return
	}
	if err := c.dev.Lights.Set(l); err != nil {
		c.logger.Debug("traffic light failed", "light", l, "err", err)
	}
}

func (c *Controller) melody(m hw.Melody) {
	if c.dev.Sound != nil {
		c.dev.Sound.Melody(m)
	}
}

func (c *Controller) play(s registry.Sound) {
	if c.dev.Sound != nil {
		c.dev.Sound.Play(s)
	}
}

func (c *Controller) stopSound() {
	if c.dev.Sound != nil {
		c.dev.Sound.Stop()
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
