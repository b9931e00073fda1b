package object

import (
	"image/color"
	"strconv"

	"github.com/tomz197/bubblepop/internal/draw"
	"github.com/tomz197/bubblepop/internal/physics"
)

// Color is a bubble colour, written as a CSS hex string.
type Color string

const (
	ColorRed    Color = "#ff4d4d"
	ColorGreen  Color = "#4dff4d"
	ColorYellow Color = "#ffe14d"
	ColorBlue   Color = "#4d4dff"
	ColorPurple Color = "#b84dff"
)

// Palette lists the colours a bubble can spawn with.
var Palette = [...]Color{
	ColorRed,
	ColorGreen,
	ColorYellow,
	ColorBlue,
	ColorPurple,
}

// Ink maps the colour to the closest terminal ink.
func (c Color) Ink() draw.Ink {
	switch c {
	case ColorRed:
		return draw.InkRed
	case ColorGreen:
		return draw.InkGreen
	case ColorYellow:
		return draw.InkYellow
	case ColorBlue:
		return draw.InkBlue
	case ColorPurple:
		return draw.InkPurple
	default:
		return draw.InkWhite
	}
}

// RGBA parses the hex string. Malformed colours come back white.
func (c Color) RGBA() color.RGBA {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// Bubble is a scoring target rising from the bottom of the play area.
// X and Y locate the top-left corner of its bounding square.
type Bubble struct {
	ID     int
	X, Y   float64
	Radius float64
	Color  Color
}

// CenterX returns the horizontal centre.
func (b Bubble) CenterX() float64 {
	return b.X + b.Radius
}

// CenterY returns the vertical centre.
func (b Bubble) CenterY() float64 {
	return b.Y + b.Radius
}

// Rise moves the bubble up by step.
func (b *Bubble) Rise(step float64) {
	b.Y -= step
}

// OffTop reports whether the bubble has fully left the top of the screen.
func (b Bubble) OffTop() bool {
	return b.Y <= -2*b.Radius
}

// Spans reports whether x falls within the bubble's horizontal extent.
// Vertical position is not considered.
func (b Bubble) Spans(x float64) bool {
	return physics.WithinSpan(x, b.CenterX(), b.Radius)
}

// Draw renders the bubble as a filled disc with a lighter highlight.
func (b Bubble) Draw(ctx DrawContext) error {
	ctx.Canvas.SetInk(b.Color.Ink())
	ctx.Canvas.FillCircle(b.CenterX(), b.CenterY(), b.Radius)
	ctx.Canvas.SetInk(draw.InkWhite)
	ctx.Canvas.FillCircle(b.CenterX()-b.Radius*0.4, b.CenterY()-b.Radius*0.4, b.Radius*0.15)
	return nil
}
