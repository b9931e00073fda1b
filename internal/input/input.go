// Package input turns a raw terminal byte stream into per-frame key and mouse input.
package input

import (
	"bufio"
	"strconv"
	"time"
)

// keyHoldDuration is how long a movement key counts as held after its last
// byte. Terminal auto-repeat sends roughly every 30-50 ms.
const keyHoldDuration = 60 * time.Millisecond

// An unterminated escape sequence is held back for the next frame until no
// byte has arrived for escapeTimeout. Then it is decoded as it stands, so a
// lone ESC key still gets through.
const (
	escapeTimeout   = 50 * time.Millisecond
	maxPendingBytes = 32
)

// MouseKind identifies a left-button mouse event.
type MouseKind int

const (
	MousePress   MouseKind = iota // Button went down
	MouseDrag                     // Motion with the button held
	MouseRelease                  // Button went up
)

// MouseEvent is a left-button event at an absolute 1-based terminal cell.
type MouseEvent struct {
	Kind MouseKind
	Col  int
	Row  int
}

// Input represents the current frame's input state.
//
// Left and Right stay true while the key is held; the other keys are true
// only in the frame their byte arrived.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Space   bool
	Enter   bool
	Reset   bool
	Escape  bool // Lone ESC key, not part of a sequence
	Mouse   []MouseEvent
	Pressed []byte
	Closed  bool // The underlying reader returned an error
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and tracks key state.
type Stream struct {
	ch       chan byte
	state    keyState
	closed   bool
	pending  []byte // Unterminated escape sequence from earlier frames
	lastByte time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 256),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	return readInputAt(s, time.Now())
}

func readInputAt(s *Stream, now time.Time) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	if len(buf) > 0 {
		s.lastByte = now
	}

	data := append(s.pending, buf...)
	s.pending = nil
	if cut := pendingStart(data); cut < len(data) && !s.closed &&
		len(data)-cut <= maxPendingBytes && now.Sub(s.lastByte) < escapeTimeout {
		s.pending = append([]byte(nil), data[cut:]...)
		data = data[:cut]
	}

	in := parseBytes(&s.state, data, now)
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Closed = s.closed
	if s.closed {
		in.Quit = true
	}
	return in
}

// ResetKeyInput forgets held keys and discards buffered bytes, so a key used
// to leave one screen does not leak into the next.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.state = keyState{}
	s.pending = nil
	for {
		select {
		case _, ok := <-s.ch:
			if !ok {
				s.closed = true
				return
			}
		default:
			return
		}
	}
}

// pendingStart returns the offset of an unterminated escape sequence at the
// end of buf, or len(buf).
func pendingStart(buf []byte) int {
	for i := 0; i < len(buf); i++ {
		if buf[i] != '\x1b' {
			continue
		}
		n, complete := escapeLen(buf[i:])
		if !complete {
			return i
		}
		i += n - 1
	}
	return len(buf)
}

// escapeLen returns the length of the escape sequence at the start of buf and
// whether it is complete. ESC followed by an ordinary byte has length 1.
func escapeLen(buf []byte) (int, bool) {
	if len(buf) < 2 {
		return 1, false
	}
	switch buf[1] {
	case 'O': // SS3, e.g. arrows in application cursor mode
		if len(buf) < 3 {
			return 2, false
		}
		return 3, true
	case '[':
		for i := 2; i < len(buf); i++ {
			switch c := buf[i]; {
			case c >= 0x40 && c <= 0x7e:
				return i + 1, true
			case c < 0x20 || c > 0x7e:
				// Malformed; stop before the stray byte.
				return i, true
			}
		}
		return len(buf), false
	}
	return 1, true
}

// parseBytes decodes one frame of bytes, updating held-key timestamps.
func parseBytes(state *keyState, buf []byte, now time.Time) Input {
	in := Input{Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			n, _ := escapeLen(buf[i:])
			if n == 1 {
				in.Escape = true
				continue
			}
			decodeEscape(&in, state, buf[i:i+n], now)
			i += n - 1
			continue
		}

		switch b {
		case 'q', 'Q':
			in.Quit = true
		case 'a', 'A', 'h', 'H':
			state.left = now
		case 'd', 'D', 'l', 'L':
			state.right = now
		case 'r', 'R':
			in.Reset = true
		case ' ':
			in.Space = true
		case '\n', '\r':
			in.Enter = true
		case '\x03': // Ctrl+C in raw mode
			in.Quit = true
		}
	}

	return in
}

// decodeEscape handles one escape sequence. Sequences other than arrows and
// SGR mouse reports, and incomplete ones, are dropped.
func decodeEscape(in *Input, state *keyState, seq []byte, now time.Time) {
	if len(seq) > 3 && seq[1] == '[' && seq[2] == '<' {
		if ev, n, ok := parseSGRMouse(seq[3:]); ok && n == len(seq)-3 && ev != nil {
			in.Mouse = append(in.Mouse, *ev)
		}
		return
	}
	if len(seq) != 3 {
		return
	}
	switch seq[2] {
	case 'C':
		state.right = now
	case 'D':
		state.left = now
	}
}

// parseSGRMouse parses "Cb;Cx;Cy(M|m)" following "ESC [ <". It returns the
// number of bytes consumed. Events for buttons other than left are consumed
// and reported as a nil event.
func parseSGRMouse(buf []byte) (*MouseEvent, int, bool) {
	var fields [3]int
	field := 0
	start := 0
	for i, b := range buf {
		switch {
		case b >= '0' && b <= '9':
			continue
		case b == ';':
			if field >= 2 {
				return nil, 0, false
			}
			v, err := strconv.Atoi(string(buf[start:i]))
			if err != nil {
				return nil, 0, false
			}
			fields[field] = v
			field++
			start = i + 1
		case b == 'M' || b == 'm':
			if field != 2 {
				return nil, 0, false
			}
			v, err := strconv.Atoi(string(buf[start:i]))
			if err != nil {
				return nil, 0, false
			}
			fields[2] = v
			return mouseEvent(fields[0], fields[1], fields[2], b == 'm'), i + 1, true
		default:
			return nil, 0, false
		}
	}
	return nil, 0, false
}

func mouseEvent(cb, col, row int, release bool) *MouseEvent {
	// Wheel and extra buttons.
	if cb >= 64 {
		return nil
	}
	// Left button only; modifiers (shift/meta/ctrl) are ignored.
	if cb&3 != 0 {
		return nil
	}
	ev := &MouseEvent{Col: col, Row: row}
	switch {
	case release:
		ev.Kind = MouseRelease
	case cb&32 != 0:
		ev.Kind = MouseDrag
	default:
		ev.Kind = MousePress
	}
	return ev
}
