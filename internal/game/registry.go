package game

import (
	"math/rand"

	"github.com/tomz197/bubblepop/internal/object"
)

// Registry owns the live bubbles. IDs come from a counter that starts at 1 and
// only goes back to 1 on Reset.
type Registry struct {
	screen  object.Screen
	rng     *rand.Rand
	bubbles []object.Bubble
	nextID  int
}

// NewRegistry creates an empty registry for the given screen.
func NewRegistry(screen object.Screen, rng *rand.Rand) *Registry {
	return &Registry{
		screen: screen,
		rng:    rng,
		nextID: 1,
	}
}

// Spawn adds one bubble near the bottom of the screen with a random x in
// [0, width-2r) and a random palette colour.
func (r *Registry) Spawn() object.Bubble {
	span := r.screen.W() - 2*BubbleRadius
	x := 0.0
	if span > 0 {
		x = r.rng.Float64() * span
	}
	color := object.Palette[r.rng.Intn(len(object.Palette))]
	return r.add(x, r.screen.H()-BubbleSpawnOffset, color)
}

func (r *Registry) add(x, y float64, color object.Color) object.Bubble {
	b := object.Bubble{
		ID:     r.nextID,
		X:      x,
		Y:      y,
		Radius: BubbleRadius,
		Color:  color,
	}
	r.nextID++
	r.bubbles = append(r.bubbles, b)
	return b
}

// Advance raises every bubble by one step, then drops the ones that have left
// the top of the screen. Returns how many were dropped.
func (r *Registry) Advance() int {
	for i := range r.bubbles {
		r.bubbles[i].Rise(BubbleRiseStep)
	}

	kept := r.bubbles[:0]
	for _, b := range r.bubbles {
		if !b.OffTop() {
			kept = append(kept, b)
		}
	}
	removed := len(r.bubbles) - len(kept)
	r.bubbles = kept
	return removed
}

// RemoveByIDs drops every bubble whose id is in ids. Returns how many were dropped.
func (r *Registry) RemoveByIDs(ids map[int]struct{}) int {
	if len(ids) == 0 {
		return 0
	}
	kept := r.bubbles[:0]
	for _, b := range r.bubbles {
		if _, hit := ids[b.ID]; !hit {
			kept = append(kept, b)
		}
	}
	removed := len(r.bubbles) - len(kept)
	r.bubbles = kept
	return removed
}

// Reset clears all bubbles and restarts ids at 1.
func (r *Registry) Reset() {
	r.bubbles = r.bubbles[:0]
	r.nextID = 1
}

// Bubbles returns a copy of the live bubbles.
func (r *Registry) Bubbles() []object.Bubble {
	out := make([]object.Bubble, len(r.bubbles))
	copy(out, r.bubbles)
	return out
}

// Len returns the number of live bubbles.
func (r *Registry) Len() int {
	return len(r.bubbles)
}
