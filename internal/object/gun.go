package object

import (
	"math"
	"time"

	"github.com/tomz197/bubblepop/internal/draw"
	"github.com/tomz197/bubblepop/internal/physics"
)

// Gun geometry in logical units.
const (
	GunWidth        = 60.0
	GunHeight       = 60.0
	GunBottomOffset = 30.0 // Gap between the gun and the bottom edge
)

// Charge cue: a ball above the gun tip that pulses while a drag is held.
const (
	ChargePulseLeg    = 400 * time.Millisecond // One grow or shrink leg
	ChargePulseMax    = 1.5
	ChargeBallRadius  = 11.0
	chargeBallBottomY = 85.0 // Ball bottom edge, measured up from the screen bottom
)

// Gun is the player-controlled horizontal shooter.
type Gun struct {
	X        float64 // Left edge
	Width    float64
	Height   float64
	MaxX     float64 // Right-most X: screen width minus gun width
	Charging bool
	Pulse    time.Duration // Time spent charging, drives the pulse

	dragOriginX float64
}

// NewGun creates a gun centred horizontally on the screen.
func NewGun(screen Screen) Gun {
	maxX := screen.W() - GunWidth
	if maxX < 0 {
		maxX = 0
	}
	return Gun{
		X:      physics.Clamp(screen.W()/2-GunWidth/2, 0, maxX),
		Width:  GunWidth,
		Height: GunHeight,
		MaxX:   maxX,
	}
}

// Center returns the horizontal centre of the gun, where the laser leaves.
func (g Gun) Center() float64 {
	return g.X + g.Width/2
}

// Contains reports whether x falls within the gun's horizontal span.
func (g Gun) Contains(x float64) bool {
	return physics.InRange(x, g.X, g.X+g.Width)
}

// DragStart begins a drag if touchX lands on the gun. It reports whether the
// gesture was captured.
func (g *Gun) DragStart(touchX float64) bool {
	if g.Charging || !g.Contains(touchX) {
		return false
	}
	g.dragOriginX = g.X
	g.Charging = true
	g.Pulse = 0
	return true
}

// DragMove places the gun at the drag origin plus deltaX, clamped to the screen.
// It reports whether the position changed.
func (g *Gun) DragMove(deltaX float64) bool {
	if !g.Charging {
		return false
	}
	return g.moveTo(g.dragOriginX + deltaX)
}

// DragEnd finishes a drag and returns the coordinate to fire at.
func (g *Gun) DragEnd() (fireX float64, ok bool) {
	if !g.Charging {
		return 0, false
	}
	g.StopCharge()
	return g.Center(), true
}

// StopCharge cancels a drag without firing.
func (g *Gun) StopCharge() {
	g.Charging = false
	g.Pulse = 0
}

// Nudge moves the gun by dx, clamped to the screen.
func (g *Gun) Nudge(dx float64) bool {
	return g.moveTo(g.X + dx)
}

func (g *Gun) moveTo(x float64) bool {
	x = physics.Clamp(x, 0, g.MaxX)
	if x == g.X {
		return false
	}
	g.X = x
	return true
}

// Update advances the charge pulse.
func (g *Gun) Update(dt time.Duration) {
	if g.Charging {
		g.Pulse += dt
	}
}

// PulseScale returns the charge ball scale: 1 -> 1.5 -> 1, repeating.
func (g Gun) PulseScale() float64 {
	if !g.Charging {
		return 1
	}
	period := 2 * ChargePulseLeg
	t := g.Pulse % period
	frac := float64(t) / float64(ChargePulseLeg)
	if frac > 1 {
		frac = 2 - frac
	}
	return 1 + (ChargePulseMax-1)*frac
}

// Top returns the y coordinate of the gun's muzzle.
func (g Gun) Top(screen Screen) float64 {
	return screen.H() - GunBottomOffset - g.Height
}

// ChargeBall returns the centre and radius of the charge cue.
func (g Gun) ChargeBall(screen Screen) (x, y, r float64) {
	r = ChargeBallRadius * g.PulseScale()
	return g.Center(), screen.H() - chargeBallBottomY - ChargeBallRadius, r
}

// Draw renders the gun as a tank: body, turret and barrel.
func (g Gun) Draw(ctx DrawContext) error {
	c := ctx.Canvas
	top := g.Top(ctx.Screen)
	bottom := top + g.Height

	c.SetInk(draw.InkGrey)
	c.FillRect(g.X, bottom-g.Height*0.35, g.Width, g.Height*0.35)

	c.SetInk(draw.InkCyan)
	c.DrawPolygon([]draw.Point{
		{X: g.X + g.Width*0.15, Y: bottom - g.Height*0.35},
		{X: g.X + g.Width*0.30, Y: bottom - g.Height*0.65},
		{X: g.X + g.Width*0.70, Y: bottom - g.Height*0.65},
		{X: g.X + g.Width*0.85, Y: bottom - g.Height*0.35},
	}, true)

	barrel := g.Width * 0.1
	c.FillRect(g.Center()-barrel/2, top, barrel, g.Height*0.35)

	if g.Charging {
		x, y, r := g.ChargeBall(ctx.Screen)
		c.SetInk(draw.InkRed)
		c.FillCircle(x, y, r)
		c.SetInk(draw.InkWhite)
		c.FillCircle(x, y, math.Max(r-3, 1))
	}
	return nil
}
