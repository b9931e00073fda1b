package draw

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ChunkWriter collects one frame of terminal output for a render area and
// sends it in MTU-sized chunks on Flush. Canvas.Render and the text overlays
// both write into it, so a frame reaches an SSH channel as a few large writes.
//
// Text positions are 1-based and relative to the render area. Text that falls
// outside the area is clipped so small terminals never wrap.
type ChunkWriter struct {
	frame  bytes.Buffer
	out    *bufio.Writer
	width  int // Render area size in cells; 0 disables clipping
	height int
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. Call SetArea before
// drawing text.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{out: bufio.NewWriterSize(w, 8192)}
}

// SetArea sets the render area size and its offset inside the terminal.
func (cw *ChunkWriter) SetArea(width, height, offsetCol, offsetRow int) {
	cw.width, cw.height = width, height
	cw.offCol, cw.offRow = offsetCol, offsetRow
}

// Width returns the render area width in cells.
func (cw *ChunkWriter) Width() int {
	return cw.width
}

// ClearTerminal queues a full terminal clear.
func (cw *ChunkWriter) ClearTerminal() {
	cw.frame.WriteString("\033[H\033[2J")
}

func (cw *ChunkWriter) moveTo(col, row int) {
	b := cw.frame.AvailableBuffer()
	b = append(b, "\033["...)
	b = strconv.AppendInt(b, int64(row+cw.offRow), 10)
	b = append(b, ';')
	b = strconv.AppendInt(b, int64(col+cw.offCol), 10)
	b = append(b, 'H')
	cw.frame.Write(b)
}

// WriteAt writes s starting at (col, row), clipped to the render area.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	if cw.height > 0 && (row < 1 || row > cw.height) {
		return
	}
	if col < 1 {
		s = skipVisible(s, 1-col)
		col = 1
	}
	if cw.width > 0 {
		s = clipVisible(s, cw.width-col+1)
	}
	if s == "" {
		return
	}
	cw.moveTo(col, row)
	cw.frame.WriteString(s)
}

// WriteAtColor writes s at (col, row) wrapped in the given SGR colour and a reset.
func (cw *ChunkWriter) WriteAtColor(col, row int, color, s string) {
	cw.WriteAt(col, row, color+s+ColorReset)
}

// WriteCentered writes s horizontally centred in the render area.
func (cw *ChunkWriter) WriteCentered(row int, s string) {
	cw.WriteAt(cw.width/2-VisibleLen(s)/2, row, s)
}

// WriteCenteredColor is WriteCentered with a colour.
func (cw *ChunkWriter) WriteCenteredColor(row int, color, s string) {
	cw.WriteCentered(row, color+s+ColorReset)
}

// Write implements io.Writer. Bytes are copied verbatim, without clipping.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.frame.Write(p)
}

// Len returns the number of bytes waiting for Flush.
func (cw *ChunkWriter) Len() int {
	return cw.frame.Len()
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush sends the frame in chunks and resets it.
func (cw *ChunkWriter) Flush() error {
	defer cw.frame.Reset()
	for data := cw.frame.Bytes(); len(data) > 0; {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return cw.out.Flush()
}

// VisibleLen counts the runes of s that occupy a cell, skipping escape sequences.
func VisibleLen(s string) int {
	n := 0
	var esc escapeState
	for _, r := range s {
		if !esc.step(r) {
			n++
		}
	}
	return n
}

// sliceVisible keeps the visible runes of s whose index is in [from, to).
// Escape sequences are always kept so colours still get set and reset.
func sliceVisible(s string, from, to int) string {
	var b strings.Builder
	seen := 0
	var esc escapeState
	for _, r := range s {
		if esc.step(r) {
			b.WriteRune(r)
			continue
		}
		if seen >= from && seen < to {
			b.WriteRune(r)
		}
		seen++
	}
	return b.String()
}

func clipVisible(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return sliceVisible(s, 0, n)
}

func skipVisible(s string, n int) string {
	return sliceVisible(s, n, math.MaxInt)
}

// escapeState tracks whether a rune stream is inside an ESC [ ... sequence.
type escapeState uint8

const (
	escNone escapeState = iota
	escStart
	escCSI
)

// step consumes r and reports whether it belongs to an escape sequence.
func (e *escapeState) step(r rune) bool {
	switch *e {
	case escStart:
		*e = escNone
		if r == '[' {
			*e = escCSI
		}
		return true
	case escCSI:
		if r >= 0x40 && r <= 0x7e {
			*e = escNone
		}
		return true
	}
	if r == 0x1b {
		*e = escStart
		return true
	}
	return false
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalSizeRawWith returns actual terminal dimensions using the provided size function.
func TerminalSizeRawWith(sizeFunc TermSizeFunc) (width, height int, err error) {
	return sizeFunc()
}
