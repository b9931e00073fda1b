package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestCanvasRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)

	var first bytes.Buffer
	c.Render(&first)
	if strings.Count(first.String(), "H") < 50 {
		t.Fatalf("first render should paint every cell, got %q", first.String())
	}

	var second bytes.Buffer
	c.Render(&second)
	if second.Len() != 0 {
		t.Fatalf("unchanged frame should render nothing, got %q", second.String())
	}

	c.SetInk(InkRed)
	c.SetFloat(2, 2)
	var third bytes.Buffer
	c.Render(&third)
	if !strings.Contains(third.String(), "\033[2;3H") {
		t.Fatalf("changed cell (3,2) not rendered: %q", third.String())
	}
	if !strings.Contains(third.String(), "38;5;203") {
		t.Fatalf("red ink not emitted: %q", third.String())
	}
	if strings.Count(third.String(), "H") != 1 {
		t.Fatalf("expected exactly one cell, got %q", third.String())
	}
}

func TestCanvasMarkTextDirtyRepaints(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.Render(&bytes.Buffer{})

	c.MarkTextDirty(4, 2, 3)
	var out bytes.Buffer
	c.Render(&out)
	for _, pos := range []string{"\033[2;4H", "\033[2;5H", "\033[2;6H"} {
		if !strings.Contains(out.String(), pos) {
			t.Fatalf("dirty cell %q not repainted: %q", pos, out.String())
		}
	}
}

func TestCanvasForceRedraw(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.Render(&bytes.Buffer{})
	c.ForceRedraw()

	var out bytes.Buffer
	c.Render(&out)
	if got := strings.Count(out.String(), "H"); got != 8 {
		t.Fatalf("forced redraw painted %d cells, want 8", got)
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		name string
		in   cell
		want rune
		st   style
	}{
		{"empty", cell{}, BlockEmpty, style{}},
		{"full", cell{InkRed, InkRed}, BlockFull, style{fg: InkRed}},
		{"top", cell{InkRed, InkNone}, BlockUpperHalf, style{fg: InkRed}},
		{"bottom", cell{InkNone, InkBlue}, BlockLowerHalf, style{fg: InkBlue}},
		{"split", cell{InkRed, InkBlue}, BlockUpperHalf, style{fg: InkRed, bg: InkBlue}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, st := glyph(tt.in)
			if got != tt.want || st != tt.st {
				t.Fatalf("glyph(%v) = %q %v, want %q %v", tt.in, got, st, tt.want, tt.st)
			}
		})
	}
}

func TestFillCircleStaysInsideRadius(t *testing.T) {
	c := NewScaledCanvas(40, 20, 40, 40)
	c.SetInk(InkGreen)
	c.FillCircle(20, 20, 5)

	if c.Pixel(20, 20) != InkGreen {
		t.Fatalf("centre pixel not filled")
	}
	if c.Pixel(26, 20) != InkNone || c.Pixel(20, 26) != InkNone {
		t.Fatalf("pixels beyond the radius were filled")
	}
}

func TestTerminalToLogicalRoundTrip(t *testing.T) {
	c := NewScaledCanvas(90, 30, 900, 600)
	c.SetOffset(3, 2)

	col, row := c.LogicalToTerminal(450, 300)
	x, y := c.TerminalToLogical(col+c.OffsetCol(), row+c.OffsetRow())
	if x < 440 || x > 460 {
		t.Fatalf("x = %v, want ~450", x)
	}
	if y < 280 || y > 320 {
		t.Fatalf("y = %v, want ~300", y)
	}
}

func TestChunkWriterAppliesOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out)
	cw.SetArea(10, 5, 2, 1)
	cw.WriteAt(1, 1, "hi")
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if out.String() != "\033[2;3Hhi" {
		t.Fatalf("got %q", out.String())
	}
	if cw.Len() != 0 {
		t.Fatalf("buffer not reset after Flush")
	}
}
