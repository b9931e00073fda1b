// Package game is the bubble popper gameplay core: the round lifecycle, its
// timers, the bubble registry, hit resolution and scoring.
//
// A Game is driven from one goroutine. Time only moves when Advance is called,
// and every callback runs inside Advance or an input method, so no locking is
// needed. Hosts that share a Game between goroutines must serialize access.
package game

import (
	"math/rand"
	"time"

	"github.com/tomz197/bubblepop/internal/object"
)

// Options configures a new Game.
type Options struct {
	Screen object.Screen // Logical play area; 900x600 when zero
	Rand   *rand.Rand    // Spawn randomness; seeded from the clock when nil
	Sink   EventSink     // Receives change events; discarded when nil
}

// pointerState tracks the single pointer the gesture recognizer follows.
type pointerState struct {
	down     bool
	captured bool // Press landed on the gun and started a drag
	pressX   float64
}

// Game owns one round: its phase, timers, bubbles, gun, laser and effects.
type Game struct {
	screen   object.Screen
	sched    *Scheduler
	registry *Registry
	score    Scoreboard
	gun      object.Gun
	laser    object.Laser
	popups   []object.ScorePopup
	pops     []object.PopEffect
	effectID int
	phase    Phase
	sink     EventSink
	pointer  pointerState
	disposed bool

	spawnTask     *Task
	countdownTask *Task
	motionTask    *Task
	laserTask     *Task
}

// New creates a game in the NotStarted phase.
func New(opts Options) *Game {
	if opts.Screen.Width <= 0 || opts.Screen.Height <= 0 {
		opts.Screen = object.NewScreen(DefaultScreenWidth, DefaultScreenHeight)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Sink == nil {
		opts.Sink = discardSink{}
	}
	return &Game{
		screen:   opts.Screen,
		sched:    NewScheduler(),
		registry: NewRegistry(opts.Screen, opts.Rand),
		score:    NewScoreboard(),
		gun:      object.NewGun(opts.Screen),
		phase:    PhaseNotStarted,
		sink:     opts.Sink,
	}
}

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Score returns the current score.
func (g *Game) Score() int { return g.score.Score }

// TimeLeft returns the seconds left in the round.
func (g *Game) TimeLeft() int { return g.score.TimeLeft }

// Gun returns a copy of the gun.
func (g *Game) Gun() object.Gun { return g.gun }

// Pending returns the number of live timers.
func (g *Game) Pending() int { return g.sched.Pending() }

// Now returns the game's virtual clock.
func (g *Game) Now() time.Duration { return g.sched.Now() }

// Start begins a round from NotStarted or GameOver. Returns false if the game
// is already running or disposed.
func (g *Game) Start() bool {
	if g.disposed || g.phase == PhaseRunning {
		return false
	}
	g.stopRound()
	g.clearRound()

	g.setPhase(PhaseRunning)
	g.spawnTask = g.sched.Every(SpawnInterval, g.spawn)
	g.countdownTask = g.sched.Every(CountdownInterval, g.countdown)
	g.startMotion()
	return true
}

// Reset stops any round in progress and returns to NotStarted.
func (g *Game) Reset() {
	if g.disposed {
		return
	}
	g.stopRound()
	g.clearRound()
	g.setPhase(PhaseNotStarted)
}

// Dispose tears the game down. Every method is a no-op afterwards.
func (g *Game) Dispose() {
	if g.disposed {
		return
	}
	g.stopRound()
	g.sched.CancelAll()
	g.disposed = true
}

// Advance moves the game clock forward by dt, firing due timers and ageing
// effects.
func (g *Game) Advance(dt time.Duration) {
	if g.disposed || dt <= 0 {
		return
	}
	g.sched.Advance(dt)
	g.gun.Update(dt)
	g.sweepEffects(dt)
}

// Fire resolves a laser shot at x and returns the points scored.
func (g *Game) Fire(x float64) int {
	if !g.running() {
		return 0
	}
	hits := ResolveHits(g.registry, x)
	total := TotalPoints(hits)

	for _, h := range hits {
		b := h.Bubble
		g.effectID++
		g.popups = append(g.popups, object.ScorePopup{ID: g.effectID, X: b.CenterX(), Y: b.Y, Value: h.Points})
		g.emit(Event{Type: EventScorePopup, X: b.CenterX(), Y: b.Y, Value: h.Points})

		g.effectID++
		g.pops = append(g.pops, object.PopEffect{ID: g.effectID, X: b.X, Y: b.Y, Radius: b.Radius})
		g.emit(Event{Type: EventPopEffect, X: b.X, Y: b.Y, Radius: b.Radius})
	}
	if len(hits) > 0 {
		g.score.AddScore(total)
		g.emit(Event{Type: EventScoreChanged, Value: g.score.Score})
		g.emit(Event{Type: EventBubblesChanged, Value: g.registry.Len()})
	}

	g.showLaser(x)
	return total
}

// Tap fires from the gun centre.
func (g *Game) Tap() int {
	if !g.running() {
		return 0
	}
	return g.Fire(g.gun.Center())
}

// DragStart begins a drag if touchX is on the gun. Returns whether it was captured.
func (g *Game) DragStart(touchX float64) bool {
	if !g.running() || !g.gun.DragStart(touchX) {
		return false
	}
	g.emit(Event{Type: EventChargeChanged, Visible: true})
	return true
}

// DragMove moves the gun to its drag-start position plus deltaX, clamped.
func (g *Game) DragMove(deltaX float64) {
	if !g.running() {
		return
	}
	if g.gun.DragMove(deltaX) {
		g.emit(Event{Type: EventGunMoved, X: g.gun.X})
	}
}

// DragEnd ends a drag and fires from the gun centre. Returns the points scored.
func (g *Game) DragEnd() int {
	if !g.running() {
		return 0
	}
	x, ok := g.gun.DragEnd()
	if !ok {
		return 0
	}
	g.emit(Event{Type: EventChargeChanged, Visible: false})
	return g.Fire(x)
}

// NudgeGun moves the gun by dx without firing.
func (g *Game) NudgeGun(dx float64) {
	if !g.running() {
		return
	}
	if g.gun.Nudge(dx) {
		g.emit(Event{Type: EventGunMoved, X: g.gun.X})
	}
}

// PointerDown starts tracking a press at x. A press on the gun starts a drag;
// anywhere else the release will be a tap.
func (g *Game) PointerDown(x float64) {
	if !g.running() || g.pointer.down {
		return
	}
	g.pointer = pointerState{
		down:     true,
		pressX:   x,
		captured: g.DragStart(x),
	}
}

// PointerMove follows the tracked pointer.
func (g *Game) PointerMove(x float64) {
	if !g.running() || !g.pointer.down || !g.pointer.captured {
		return
	}
	g.DragMove(x - g.pointer.pressX)
}

// PointerUp releases the tracked pointer, ending a drag or tapping.
func (g *Game) PointerUp(x float64) {
	if !g.pointer.down {
		return
	}
	p := g.pointer
	g.pointer = pointerState{}
	if !g.running() {
		return
	}
	if p.captured {
		g.DragMove(x - p.pressX)
		g.DragEnd()
		return
	}
	g.Tap()
}

func (g *Game) running() bool {
	return !g.disposed && g.phase == PhaseRunning
}

func (g *Game) startMotion() {
	if g.motionTask.Active() {
		return
	}
	g.motionTask = g.sched.Every(MotionInterval, g.motion)
}

func (g *Game) spawn() {
	g.registry.Spawn()
	g.emit(Event{Type: EventBubblesChanged, Value: g.registry.Len()})
}

func (g *Game) motion() {
	removed := g.registry.Advance()
	if removed > 0 || g.registry.Len() > 0 {
		g.emit(Event{Type: EventBubblesChanged, Value: g.registry.Len()})
	}
}

func (g *Game) countdown() {
	over := g.score.Tick()
	g.emit(Event{Type: EventTimeChanged, Value: g.score.TimeLeft})
	if over {
		g.stopRound()
		g.setPhase(PhaseGameOver)
	}
}

func (g *Game) showLaser(x float64) {
	g.laser = object.Laser{Visible: true, X: x}
	g.emit(Event{Type: EventLaserChanged, Visible: true, X: x})
	g.laserTask.Cancel()
	g.laserTask = g.sched.After(LaserVisibleFor, g.hideLaser)
}

func (g *Game) hideLaser() {
	g.laserTask.Cancel()
	g.laserTask = nil
	if !g.laser.Visible {
		return
	}
	g.laser.Visible = false
	g.emit(Event{Type: EventLaserChanged, Visible: false, X: g.laser.X})
}

// stopRound cancels every round timer and drops transient input state.
func (g *Game) stopRound() {
	g.spawnTask.Cancel()
	g.countdownTask.Cancel()
	g.motionTask.Cancel()
	g.spawnTask, g.countdownTask, g.motionTask = nil, nil, nil
	g.hideLaser()

	if g.gun.Charging {
		g.gun.StopCharge()
		g.emit(Event{Type: EventChargeChanged, Visible: false})
	}
	g.pointer = pointerState{}
}

// clearRound resets score, bubbles and effects. The gun keeps its position.
func (g *Game) clearRound() {
	g.score.Reset()
	g.registry.Reset()
	g.popups = g.popups[:0]
	g.pops = g.pops[:0]
	g.effectID = 0

	g.emit(Event{Type: EventScoreChanged, Value: g.score.Score})
	g.emit(Event{Type: EventTimeChanged, Value: g.score.TimeLeft})
	g.emit(Event{Type: EventBubblesChanged, Value: 0})
}

func (g *Game) setPhase(p Phase) {
	if g.phase == p {
		return
	}
	g.phase = p
	g.emit(Event{Type: EventPhaseChanged, Phase: p})
}

func (g *Game) sweepEffects(dt time.Duration) {
	keptPopups := g.popups[:0]
	for i := range g.popups {
		if !g.popups[i].Update(dt) {
			keptPopups = append(keptPopups, g.popups[i])
		}
	}
	g.popups = keptPopups

	keptPops := g.pops[:0]
	for i := range g.pops {
		if !g.pops[i].Update(dt) {
			keptPops = append(keptPops, g.pops[i])
		}
	}
	g.pops = keptPops
}

func (g *Game) emit(e Event) {
	g.sink.HandleEvent(e)
}
