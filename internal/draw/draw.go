// Package draw renders to ANSI terminals: a half-block colour canvas,
// a chunked writer for network-friendly output, and escape helpers.
package draw

import (
	"fmt"
	"io"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Ink is a canvas pixel colour. InkNone is an unset pixel.
type Ink uint8

const (
	InkNone Ink = iota
	InkWhite
	InkRed
	InkGreen
	InkYellow
	InkBlue
	InkPurple
	InkCyan
	InkGrey
	inkCount
)

// inkCodes maps each Ink to an xterm 256-colour index.
var inkCodes = [inkCount]int{
	InkNone:   0,
	InkWhite:  231,
	InkRed:    203,
	InkGreen:  83,
	InkYellow: 221,
	InkBlue:   63,
	InkPurple: 135,
	InkCyan:   51,
	InkGrey:   245,
}

// Code returns the xterm 256-colour index for the ink.
func (i Ink) Code() int {
	if i >= inkCount {
		return inkCodes[InkWhite]
	}
	return inkCodes[i]
}

// Text colours for UI overlays.
const (
	ColorReset      = "\033[0m"
	ColorBold       = "\033[1m"
	ColorBrightCyan = "\033[96m"
	ColorYellow     = "\033[93m"
	ColorDim        = "\033[2m"
)

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// MoveCursor moves cursor to a specific position (1-based).
func MoveCursor(w io.Writer, x, y int) {
	fmt.Fprintf(w, "\033[%d;%dH", y, x)
}

// EnableMouse turns on button, drag and SGR extended mouse reporting.
func EnableMouse(w io.Writer) {
	fmt.Fprint(w, "\033[?1000h\033[?1002h\033[?1006h")
}

// DisableMouse reverts EnableMouse.
func DisableMouse(w io.Writer) {
	fmt.Fprint(w, "\033[?1006l\033[?1002l\033[?1000l")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
