package server

import (
	"testing"
	"time"

	"github.com/tomz197/bubblepop/internal/game"
	"github.com/tomz197/bubblepop/internal/loop/config"
)

// drain collects every event currently buffered on ch.
func drain(ch chan ClientEvent) []ClientEvent {
	var out []ClientEvent
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestRegisterPublishesInitialSnapshot(t *testing.T) {
	s := NewServer(nil)
	h := s.RegisterClient("alice")

	snap := s.GetSnapshot(h.ID)
	if snap == nil {
		t.Fatalf("no snapshot for a registered client")
	}
	if snap.Phase != game.PhaseNotStarted {
		t.Fatalf("got phase %v", snap.Phase)
	}
	if snap.Screen.Width != config.ViewWidth || snap.Screen.Height != config.ViewHeight {
		t.Fatalf("got screen %+v", snap.Screen)
	}
	if s.GetSnapshot(h.ID+1) != nil {
		t.Fatalf("snapshot for an unknown client")
	}
	if s.Sessions() != 1 {
		t.Fatalf("got %d sessions", s.Sessions())
	}
}

func TestCommandsApplyOnTick(t *testing.T) {
	s := NewServer(nil)
	h := s.RegisterClient("alice")

	s.SendCommand(h.ID, Command{Kind: CommandStart})
	s.SendCommand(h.ID, Command{Kind: CommandNudge, X: -90})
	if s.GetSnapshot(h.ID).Phase != game.PhaseNotStarted {
		t.Fatalf("command applied before the tick")
	}
	s.Tick(config.ServerTickTime)

	snap := s.GetSnapshot(h.ID)
	if snap.Phase != game.PhaseRunning {
		t.Fatalf("got phase %v, want running", snap.Phase)
	}
	if snap.Gun.X != 330 {
		t.Fatalf("got gun x=%v, want 330", snap.Gun.X)
	}

	var sawRunning bool
	for _, e := range drain(h.EventsCh) {
		if e.Type == EventGame && e.Game.Type == game.EventPhaseChanged && e.Game.Phase == game.PhaseRunning {
			sawRunning = true
		}
	}
	if !sawRunning {
		t.Fatalf("phase change not forwarded")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	s := NewServer(nil)
	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	if a.ID == b.ID {
		t.Fatalf("duplicate client id %d", a.ID)
	}

	s.SendCommand(a.ID, Command{Kind: CommandStart})
	s.Tick(config.ServerTickTime)

	if s.GetSnapshot(a.ID).Phase != game.PhaseRunning {
		t.Fatalf("alice not running")
	}
	if s.GetSnapshot(b.ID).Phase != game.PhaseNotStarted {
		t.Fatalf("bob's round started by alice's command")
	}
}

func TestTickCapsFrameDelta(t *testing.T) {
	s := NewServer(nil)
	h := s.RegisterClient("alice")
	s.SendCommand(h.ID, Command{Kind: CommandStart})

	s.Tick(10 * time.Second)

	if got := s.GetSnapshot(h.ID).Now; got != config.MaxFrameDelta {
		t.Fatalf("game advanced %v, want %v", got, config.MaxFrameDelta)
	}
	if got := s.GetSnapshot(h.ID).TimeLeft; got != game.RoundSeconds {
		t.Fatalf("countdown moved during a capped stall: %d", got)
	}
}

func TestUnregisterDisposesAndCloses(t *testing.T) {
	s := NewServer(nil)
	h := s.RegisterClient("alice")
	s.SendCommand(h.ID, Command{Kind: CommandStart})
	s.Tick(config.ServerTickTime)

	s.UnregisterClient(h.ID)
	s.Tick(config.ServerTickTime)

	if s.Sessions() != 0 {
		t.Fatalf("got %d sessions", s.Sessions())
	}
	drain(h.EventsCh)
	if _, ok := <-h.EventsCh; ok {
		t.Fatalf("events channel still open")
	}
	s.SendCommand(h.ID, Command{Kind: CommandTap})
	s.Tick(config.ServerTickTime)
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	s := NewServer(nil)
	h := s.RegisterClient("alice")

	done := make(chan struct{})
	go func() {
		s.Shutdown(5 * time.Second)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for notified := false; !notified; {
		select {
		case e := <-h.EventsCh:
			notified = e.Type == EventServerShutdown
		case <-deadline:
			t.Fatalf("no shutdown event")
		}
	}

	s.UnregisterClient(h.ID)
	s.Tick(config.ServerTickTime)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Shutdown did not return after the last client left")
	}
}

func TestShutdownTimesOut(t *testing.T) {
	s := NewServer(nil)
	s.RegisterClient("alice")

	start := time.Now()
	s.Shutdown(300 * time.Millisecond)
	if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
		t.Fatalf("returned after %v with a client still connected", elapsed)
	}
}
