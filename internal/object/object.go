// Package object defines the game entities and how each one draws itself.
package object

import (
	"github.com/tomz197/bubblepop/internal/draw"
)

// Screen is the logical play area. Y grows downward; bubbles rise toward 0.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen builds a Screen with its centre filled in.
func NewScreen(width, height int) Screen {
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
}

// W returns the width as a float.
func (s Screen) W() float64 { return float64(s.Width) }

// H returns the height as a float.
func (s Screen) H() float64 { return float64(s.Height) }

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas      // Half-block canvas in logical coordinates
	Writer *draw.ChunkWriter // Text overlays, written after the canvas
	Screen Screen            // Logical play area
}

// Drawable is anything that renders itself into a DrawContext.
type Drawable interface {
	Draw(ctx DrawContext) error
}

// writeLabel writes text centred on a logical position and marks the cells
// so the canvas repaints them next frame.
func writeLabel(ctx DrawContext, x, y float64, color, text string) {
	if ctx.Writer == nil || text == "" {
		return
	}
	col, row := ctx.Canvas.LogicalToTerminal(x, y)
	col -= len(text) / 2
	if row < 1 || row > ctx.Canvas.TerminalHeight() {
		return
	}
	if col < 1 || col+len(text)-1 > ctx.Canvas.TerminalWidth() {
		return
	}
	ctx.Writer.WriteAtColor(col, row, color, text)
	ctx.Canvas.MarkTextDirty(col, row, len(text))
}
