package object

import (
	"fmt"
	"time"

	"github.com/tomz197/bubblepop/internal/draw"
)

// Effect lifetimes.
const (
	ScorePopupLifetime = 700 * time.Millisecond
	ScorePopupRise     = 30.0
	PopEffectLifetime  = 260 * time.Millisecond
	popAnimation       = 250 * time.Millisecond
)

// ScorePopup is the "+N" label that floats up from a popped bubble.
type ScorePopup struct {
	ID    int
	X, Y  float64 // Bubble centre-x and top
	Value int
	Age   time.Duration
}

// Update ages the popup. Returns true once it has expired.
func (p *ScorePopup) Update(dt time.Duration) bool {
	p.Age += dt
	return p.Age >= ScorePopupLifetime
}

// Progress returns 0 at creation and 1 at expiry.
func (p ScorePopup) Progress() float64 {
	return progress(p.Age, ScorePopupLifetime)
}

// Offset returns how far the label has floated up.
func (p ScorePopup) Offset() float64 {
	return -ScorePopupRise * p.Progress()
}

// Draw writes the label. It disappears for the last quarter of its life.
func (p ScorePopup) Draw(ctx DrawContext) error {
	if p.Progress() > 0.75 {
		return nil
	}
	writeLabel(ctx, p.X, p.Y+p.Offset(), draw.ColorBrightCyan+draw.ColorBold, fmt.Sprintf("+%d", p.Value))
	return nil
}

// PopEffect is the expanding ring left behind by a popped bubble.
type PopEffect struct {
	ID     int
	X, Y   float64 // Bubble top-left
	Radius float64
	Age    time.Duration
}

// Update ages the effect. Returns true once it has expired.
func (e *PopEffect) Update(dt time.Duration) bool {
	e.Age += dt
	return e.Age >= PopEffectLifetime
}

// Scale returns the ring scale: 0.5 growing to 1.5 over the animation.
func (e PopEffect) Scale() float64 {
	return 0.5 + progress(e.Age, popAnimation)
}

// Opacity returns 1 fading to 0 over the animation.
func (e PopEffect) Opacity() float64 {
	return 1 - progress(e.Age, popAnimation)
}

// Draw renders the ring around the bubble's former centre.
func (e PopEffect) Draw(ctx DrawContext) error {
	if e.Opacity() < 0.2 {
		return nil
	}
	ctx.Canvas.SetInk(draw.InkWhite)
	ctx.Canvas.DrawCircle(e.X+e.Radius, e.Y+e.Radius, e.Radius*e.Scale())
	return nil
}

func progress(age, total time.Duration) float64 {
	if total <= 0 || age >= total {
		return 1
	}
	if age <= 0 {
		return 0
	}
	return float64(age) / float64(total)
}
