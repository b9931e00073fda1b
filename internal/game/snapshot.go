package game

import (
	"time"

	"github.com/tomz197/bubblepop/internal/object"
)

// Snapshot is a copy of everything needed to draw one frame. It shares no
// memory with the Game and may be handed to another goroutine.
type Snapshot struct {
	Phase    Phase
	Score    int
	TimeLeft int
	Now      time.Duration
	Screen   object.Screen
	Bubbles  []object.Bubble
	Gun      object.Gun
	Laser    object.Laser
	Popups   []object.ScorePopup
	Pops     []object.PopEffect
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Phase:    g.phase,
		Score:    g.score.Score,
		TimeLeft: g.score.TimeLeft,
		Now:      g.sched.Now(),
		Screen:   g.screen,
		Bubbles:  g.registry.Bubbles(),
		Gun:      g.gun,
		Laser:    g.laser,
		Popups:   append([]object.ScorePopup(nil), g.popups...),
		Pops:     append([]object.PopEffect(nil), g.pops...),
	}
}
