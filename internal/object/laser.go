package object

import (
	"github.com/tomz197/bubblepop/internal/draw"
)

// Laser is the vertical beam shown briefly after a fire.
type Laser struct {
	Visible bool
	X       float64 // Horizontal position of the beam
}

// Draw renders a beam from the gun muzzle to the top of the screen.
func (l Laser) Draw(ctx DrawContext) error {
	if !l.Visible {
		return nil
	}
	bottom := ctx.Screen.H() - GunBottomOffset - GunHeight

	ctx.Canvas.SetInk(draw.InkRed)
	ctx.Canvas.DrawLine(draw.Point{X: l.X - 2, Y: bottom}, draw.Point{X: l.X - 2, Y: 0})
	ctx.Canvas.DrawLine(draw.Point{X: l.X + 2, Y: bottom}, draw.Point{X: l.X + 2, Y: 0})
	ctx.Canvas.SetInk(draw.InkWhite)
	ctx.Canvas.DrawLine(draw.Point{X: l.X, Y: bottom}, draw.Point{X: l.X, Y: 0})
	return nil
}
