package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/bubblepop/internal/object"
)

type recorder struct {
	events []Event
}

func (r *recorder) HandleEvent(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) count(typ EventType, match func(Event) bool) int {
	n := 0
	for _, e := range r.events {
		if e.Type == typ && (match == nil || match(e)) {
			n++
		}
	}
	return n
}

func newTestGame() (*Game, *recorder) {
	rec := &recorder{}
	g := New(Options{
		Screen: object.NewScreen(900, 600),
		Rand:   rand.New(rand.NewSource(42)),
		Sink:   rec,
	})
	return g, rec
}

func TestGameDefaults(t *testing.T) {
	g := New(Options{})
	s := g.Snapshot()
	if s.Screen.Width != DefaultScreenWidth || s.Screen.Height != DefaultScreenHeight {
		t.Fatalf("got screen %+v", s.Screen)
	}
	if g.Phase() != PhaseNotStarted || g.TimeLeft() != RoundSeconds || g.Score() != 0 {
		t.Fatalf("got phase=%v time=%d score=%d", g.Phase(), g.TimeLeft(), g.Score())
	}
	if g.Pending() != 0 {
		t.Fatalf("timers running before start: %d", g.Pending())
	}
}

func TestGameStartSchedulesOnce(t *testing.T) {
	g, rec := newTestGame()
	if !g.Start() {
		t.Fatalf("Start() = false from NotStarted")
	}
	if g.Pending() != 3 {
		t.Fatalf("got %d timers, want spawn, countdown and motion", g.Pending())
	}
	if g.Start() {
		t.Fatalf("Start() = true while running")
	}
	if g.Pending() != 3 {
		t.Fatalf("restart double scheduled: %d timers", g.Pending())
	}
	if n := rec.count(EventPhaseChanged, nil); n != 1 {
		t.Fatalf("got %d phase events, want 1", n)
	}
}

func TestGameStartThenResetLeavesNoTimers(t *testing.T) {
	g, rec := newTestGame()
	g.Start()
	g.Reset()

	if g.Pending() != 0 {
		t.Fatalf("got %d timers after reset, want 0", g.Pending())
	}
	if g.Phase() != PhaseNotStarted {
		t.Fatalf("got phase %v", g.Phase())
	}

	mark := len(rec.events)
	g.Advance(10 * time.Second)

	if len(rec.events) != mark {
		t.Fatalf("events after reset: %+v", rec.events[mark:])
	}
	if s := g.Snapshot(); len(s.Bubbles) != 0 || s.TimeLeft != RoundSeconds {
		t.Fatalf("state moved after reset: %d bubbles, %d seconds", len(s.Bubbles), s.TimeLeft)
	}
}

func TestGameSpawnsWhileRunning(t *testing.T) {
	g, _ := newTestGame()
	g.Advance(5 * time.Second)
	if n := len(g.Snapshot().Bubbles); n != 0 {
		t.Fatalf("spawned %d bubbles before start", n)
	}

	g.Start()
	g.Advance(500 * time.Millisecond)
	s := g.Snapshot()
	if len(s.Bubbles) != 1 || s.Bubbles[0].ID != 1 || s.Bubbles[0].Y != 500 {
		t.Fatalf("got %+v", s.Bubbles)
	}

	g.Advance(time.Second)
	if n := len(g.Snapshot().Bubbles); n != 3 {
		t.Fatalf("got %d bubbles after 1.5s, want 3", n)
	}
}

func TestGameBubblesRiseAndLeave(t *testing.T) {
	g, _ := newTestGame()
	g.Start()
	g.Advance(500 * time.Millisecond)

	last := map[int]float64{}
	for i := 0; i < 600; i++ {
		g.Advance(MotionInterval)
		for _, b := range g.Snapshot().Bubbles {
			if b.Y <= -2*b.Radius {
				t.Fatalf("bubble %d at y=%v still present", b.ID, b.Y)
			}
			if prev, ok := last[b.ID]; ok && b.Y >= prev {
				t.Fatalf("bubble %d did not rise: %v -> %v", b.ID, prev, b.Y)
			}
			last[b.ID] = b.Y
		}
	}
	for _, b := range g.Snapshot().Bubbles {
		if b.ID == 1 {
			t.Fatalf("first bubble should have left the screen by now, y=%v", b.Y)
		}
	}
}

func TestGameCountdownEndsOnce(t *testing.T) {
	g, rec := newTestGame()
	g.Start()
	for i := 0; i < 200; i++ {
		g.Advance(time.Second)
	}

	if g.TimeLeft() != 0 || g.Phase() != PhaseGameOver {
		t.Fatalf("got time=%d phase=%v", g.TimeLeft(), g.Phase())
	}
	overs := rec.count(EventPhaseChanged, func(e Event) bool { return e.Phase == PhaseGameOver })
	if overs != 1 {
		t.Fatalf("got %d game-over transitions, want 1", overs)
	}
	if g.Pending() != 0 {
		t.Fatalf("got %d timers after game over", g.Pending())
	}

	prev := RoundSeconds + 1
	for _, e := range rec.events {
		if e.Type != EventTimeChanged || e.Value == RoundSeconds {
			continue
		}
		if e.Value >= prev {
			t.Fatalf("time went %d -> %d", prev, e.Value)
		}
		prev = e.Value
	}

	n := len(g.Snapshot().Bubbles)
	g.Advance(10 * time.Second)
	if len(g.Snapshot().Bubbles) != n {
		t.Fatalf("bubbles changed after game over")
	}
}

func TestGameFireScenario(t *testing.T) {
	g, rec := newTestGame()
	g.Start()
	g.registry.add(100, 300, object.ColorRed)

	if got := g.Fire(115); got != 4 {
		t.Fatalf("Fire(115) = %d, want 4", got)
	}
	s := g.Snapshot()
	if s.Score != 4 || len(s.Bubbles) != 0 {
		t.Fatalf("got score=%d bubbles=%d", s.Score, len(s.Bubbles))
	}
	if !s.Laser.Visible || s.Laser.X != 115 {
		t.Fatalf("got laser %+v", s.Laser)
	}
	if len(s.Popups) != 1 || s.Popups[0].X != 130 || s.Popups[0].Y != 300 || s.Popups[0].Value != 4 {
		t.Fatalf("got popups %+v", s.Popups)
	}
	if len(s.Pops) != 1 || s.Pops[0].X != 100 || s.Pops[0].Radius != 30 {
		t.Fatalf("got pops %+v", s.Pops)
	}

	if got := g.Fire(115); got != 0 {
		t.Fatalf("second Fire(115) = %d, want 0", got)
	}
	if g.Score() != 4 {
		t.Fatalf("score changed on a miss: %d", g.Score())
	}
	if n := rec.count(EventScorePopup, nil); n != 1 {
		t.Fatalf("got %d popup events, want 1", n)
	}
}

func TestGameLaserHideRearms(t *testing.T) {
	g, rec := newTestGame()
	g.Start()

	g.Fire(10)
	g.Advance(200 * time.Millisecond)
	g.Fire(10)
	g.Advance(200 * time.Millisecond)
	if !g.Snapshot().Laser.Visible {
		t.Fatalf("laser hidden before the re-armed timer ran out")
	}
	if g.Pending() != 4 {
		t.Fatalf("got %d timers, want 3 round timers and one hide", g.Pending())
	}

	g.Advance(100 * time.Millisecond)
	if g.Snapshot().Laser.Visible {
		t.Fatalf("laser still visible 300ms after the last fire")
	}
	hides := rec.count(EventLaserChanged, func(e Event) bool { return !e.Visible })
	if hides != 1 {
		t.Fatalf("got %d hide events, want 1", hides)
	}
	if g.Pending() != 3 {
		t.Fatalf("got %d timers, want 3", g.Pending())
	}
}

func TestGameInputsIgnoredUnlessRunning(t *testing.T) {
	g, rec := newTestGame()
	x := g.Gun().X

	if g.Tap() != 0 || g.Fire(100) != 0 || g.DragStart(g.Gun().Center()) {
		t.Fatalf("input accepted before start")
	}
	g.NudgeGun(100)
	g.PointerDown(10)
	g.PointerUp(10)
	if g.Gun().X != x || g.Snapshot().Laser.Visible || len(rec.events) != 0 {
		t.Fatalf("state changed before start: gun=%v events=%+v", g.Gun().X, rec.events)
	}
}

func TestGameGunClampsHugeDeltas(t *testing.T) {
	g, _ := newTestGame()
	g.Start()

	if !g.DragStart(450) {
		t.Fatalf("drag on the gun not captured")
	}
	g.DragMove(1e12)
	if g.Gun().X != 840 {
		t.Fatalf("got x=%v, want 840", g.Gun().X)
	}
	g.DragMove(-1e12)
	if g.Gun().X != 0 {
		t.Fatalf("got x=%v, want 0", g.Gun().X)
	}
	g.DragEnd()
	if l := g.Snapshot().Laser; !l.Visible || l.X != 30 {
		t.Fatalf("got laser %+v, want fire at the gun centre 30", l)
	}

	g.NudgeGun(-1e12)
	if g.Gun().X != 0 {
		t.Fatalf("nudge went out of bounds: %v", g.Gun().X)
	}
}

func TestGameDragOutsideGunIgnored(t *testing.T) {
	g, rec := newTestGame()
	g.Start()

	if g.DragStart(10) {
		t.Fatalf("drag outside the gun captured")
	}
	g.DragMove(300)
	if g.DragEnd() != 0 || g.Gun().X != 420 || g.Snapshot().Laser.Visible {
		t.Fatalf("uncaptured drag had an effect")
	}
	if n := rec.count(EventChargeChanged, nil); n != 0 {
		t.Fatalf("got %d charge events", n)
	}
}

func TestGamePointerTapFiresFromGun(t *testing.T) {
	g, _ := newTestGame()
	g.Start()
	g.registry.add(420, 200, object.ColorPurple)

	g.PointerDown(50)
	g.PointerMove(700)
	g.PointerUp(700)

	if g.Score() != 5 {
		t.Fatalf("tap outside the gun should fire from its centre: score=%d", g.Score())
	}
	if g.Gun().X != 420 {
		t.Fatalf("tap moved the gun to %v", g.Gun().X)
	}
}

func TestGamePointerDragMovesAndFires(t *testing.T) {
	g, rec := newTestGame()
	g.Start()

	g.PointerDown(450)
	if !g.Gun().Charging {
		t.Fatalf("press on the gun did not start charging")
	}
	g.PointerDown(100)
	g.PointerMove(250)
	if g.Gun().X != 220 {
		t.Fatalf("got x=%v, want 220", g.Gun().X)
	}
	g.PointerUp(250)

	if g.Gun().Charging {
		t.Fatalf("still charging after release")
	}
	if l := g.Snapshot().Laser; !l.Visible || l.X != 250 {
		t.Fatalf("got laser %+v", l)
	}
	on := rec.count(EventChargeChanged, func(e Event) bool { return e.Visible })
	off := rec.count(EventChargeChanged, func(e Event) bool { return !e.Visible })
	if on != 1 || off != 1 {
		t.Fatalf("charge cue on=%d off=%d, want 1 and 1", on, off)
	}
}

func TestGameEffectsExpire(t *testing.T) {
	g, _ := newTestGame()
	g.Start()
	g.registry.add(100, 300, object.ColorRed)
	g.Fire(115)

	g.Advance(260 * time.Millisecond)
	s := g.Snapshot()
	if len(s.Pops) != 0 || len(s.Popups) != 1 {
		t.Fatalf("at 260ms got pops=%d popups=%d", len(s.Pops), len(s.Popups))
	}

	g.Advance(440 * time.Millisecond)
	if n := len(g.Snapshot().Popups); n != 0 {
		t.Fatalf("popup alive at 700ms")
	}
}

func TestGameOverStopsCharge(t *testing.T) {
	g, _ := newTestGame()
	g.Start()
	g.PointerDown(450)
	g.Fire(10)

	g.Advance(time.Duration(RoundSeconds) * time.Second)

	if g.Phase() != PhaseGameOver {
		t.Fatalf("got phase %v", g.Phase())
	}
	s := g.Snapshot()
	if s.Gun.Charging || s.Laser.Visible {
		t.Fatalf("charge=%v laser=%v after game over", s.Gun.Charging, s.Laser.Visible)
	}
	g.PointerUp(450)
	if g.Snapshot().Laser.Visible {
		t.Fatalf("release after game over fired")
	}

	if !g.Start() {
		t.Fatalf("Start() from game over = false")
	}
	if g.Score() != 0 || g.TimeLeft() != RoundSeconds || len(g.Snapshot().Bubbles) != 0 {
		t.Fatalf("restart did not clear the round")
	}
}

func TestGameResetKeepsGunPosition(t *testing.T) {
	g, _ := newTestGame()
	g.Start()
	g.NudgeGun(-100)
	g.Reset()
	g.Start()
	if g.Gun().X != 320 {
		t.Fatalf("got x=%v, want 320", g.Gun().X)
	}
}

func TestGameDisposeIsFinal(t *testing.T) {
	g, rec := newTestGame()
	g.Start()
	g.Fire(10)
	g.Dispose()

	if g.Pending() != 0 {
		t.Fatalf("got %d timers after dispose", g.Pending())
	}
	mark := len(rec.events)
	g.Advance(time.Minute)
	g.Reset()
	if g.Start() || g.Tap() != 0 {
		t.Fatalf("disposed game accepted input")
	}
	if len(rec.events) != mark {
		t.Fatalf("events after dispose: %+v", rec.events[mark:])
	}
}

func TestGameSnapshotIsCopy(t *testing.T) {
	g, _ := newTestGame()
	g.Start()
	g.registry.add(100, 300, object.ColorRed)
	g.registry.add(600, 300, object.ColorBlue)
	g.Fire(115)

	s := g.Snapshot()
	s.Bubbles[0].Y = -999
	s.Popups[0].Value = 1000
	s2 := g.Snapshot()
	if s2.Bubbles[0].Y == -999 || s2.Popups[0].Value == 1000 {
		t.Fatalf("snapshot shares memory with the game")
	}
}
