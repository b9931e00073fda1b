package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func TestParseBytesKeys(t *testing.T) {
	now := time.Now()
	var st keyState

	in := parseBytes(&st, []byte(" \rrq\x1b[D"), now)
	if !in.Space || !in.Enter || !in.Reset || !in.Quit {
		t.Fatalf("edge keys not decoded: %+v", in)
	}
	if !st.left.Equal(now) {
		t.Fatalf("left arrow did not update held state")
	}
	if !st.right.IsZero() {
		t.Fatalf("right should be untouched")
	}
}

func TestParseBytesMouse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []MouseEvent
	}{
		{"press", "\x1b[<0;10;5M", []MouseEvent{{MousePress, 10, 5}}},
		{"drag", "\x1b[<32;12;5M", []MouseEvent{{MouseDrag, 12, 5}}},
		{"release", "\x1b[<0;12;5m", []MouseEvent{{MouseRelease, 12, 5}}},
		{"right button ignored", "\x1b[<2;1;1M", nil},
		{"wheel ignored", "\x1b[<64;1;1M", nil},
		{
			"gesture in one read",
			"\x1b[<0;3;4M\x1b[<32;9;4M\x1b[<0;9;4m",
			[]MouseEvent{{MousePress, 3, 4}, {MouseDrag, 9, 4}, {MouseRelease, 9, 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var st keyState
			in := parseBytes(&st, []byte(tt.in), time.Now())
			if len(in.Mouse) != len(tt.want) {
				t.Fatalf("got %d events %+v, want %d", len(in.Mouse), in.Mouse, len(tt.want))
			}
			for i := range tt.want {
				if in.Mouse[i] != tt.want[i] {
					t.Fatalf("event %d = %+v, want %+v", i, in.Mouse[i], tt.want[i])
				}
			}
			if in.Quit || in.Reset || in.Space {
				t.Fatalf("mouse bytes leaked into key decoding: %+v", in)
			}
		})
	}
}

func TestParseBytesOtherSequencesAreNotKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"ctrl arrow", "\x1b[1;5D"},
		{"focus in", "\x1b[I"},
		{"ss3 up", "\x1bOA"},
		{"cut mouse report", "\x1b[<0;1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var st keyState
			in := parseBytes(&st, []byte(tt.in), time.Now())
			if in.Escape || in.Quit || in.Reset || len(in.Mouse) != 0 {
				t.Fatalf("sequence decoded as input: %+v", in)
			}
			if !st.left.IsZero() || !st.right.IsZero() {
				t.Fatalf("sequence moved the gun")
			}
		})
	}
}

func TestParseBytesLoneEscape(t *testing.T) {
	var st keyState
	if in := parseBytes(&st, []byte("\x1b"), time.Now()); !in.Escape {
		t.Fatalf("lone escape not reported")
	}
	if in := parseBytes(&st, []byte("\x1bq"), time.Now()); !in.Escape || !in.Quit {
		t.Fatalf("escape before a key: %+v", in)
	}
}

// feed pushes bytes into a stream without a reader goroutine.
func feed(s *Stream, data string) {
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
}

func TestReadInputJoinsMouseSplitAcrossFrames(t *testing.T) {
	s := &Stream{ch: make(chan byte, 64)}
	now := time.Now()

	feed(s, " \x1b[<0;10")
	first := readInputAt(s, now)
	if !first.Space {
		t.Fatalf("bytes before the cut were lost")
	}
	if first.Escape || len(first.Mouse) != 0 {
		t.Fatalf("cut sequence decoded early: %+v", first)
	}

	feed(s, ";5m")
	second := readInputAt(s, now.Add(16*time.Millisecond))
	want := MouseEvent{Kind: MouseRelease, Col: 10, Row: 5}
	if len(second.Mouse) != 1 || second.Mouse[0] != want {
		t.Fatalf("got %+v, want [%+v]", second.Mouse, want)
	}
	if second.Escape {
		t.Fatalf("joined sequence reported as escape")
	}
}

func TestReadInputHoldsCutSequenceWhileBytesArrive(t *testing.T) {
	s := &Stream{ch: make(chan byte, 64)}
	now := time.Now()

	for i, part := range []string{"\x1b", "[", "<32;", "7;", "3", "M"} {
		feed(s, part)
		in := readInputAt(s, now.Add(time.Duration(i)*10*time.Millisecond))
		if i < 5 && len(in.Mouse) != 0 {
			t.Fatalf("frame %d decoded early: %+v", i, in.Mouse)
		}
		if i == 5 && (len(in.Mouse) != 1 || in.Mouse[0] != MouseEvent{MouseDrag, 7, 3}) {
			t.Fatalf("got %+v, want one drag at 7,3", in.Mouse)
		}
	}
}

func TestReadInputFlushesLoneEscapeAfterTimeout(t *testing.T) {
	s := &Stream{ch: make(chan byte, 4)}
	now := time.Now()

	feed(s, "\x1b")
	if in := readInputAt(s, now); in.Escape {
		t.Fatalf("escape reported before the timeout")
	}
	if in := readInputAt(s, now.Add(escapeTimeout/2)); in.Escape {
		t.Fatalf("escape reported before the timeout")
	}
	if in := readInputAt(s, now.Add(escapeTimeout)); !in.Escape {
		t.Fatalf("escape not reported after the timeout")
	}
	if len(s.pending) != 0 {
		t.Fatalf("pending bytes left: %q", s.pending)
	}
}

func TestReadInputReportsClosedStream(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader(" ")))

	deadline := time.After(time.Second)
	sawSpace := false
	for {
		in := ReadInput(s)
		if in.Space {
			sawSpace = true
		}
		if in.Closed {
			if !in.Quit {
				t.Fatalf("closed stream should request quit")
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("stream never reported closed")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if !sawSpace {
		t.Fatalf("space byte was lost")
	}
}

func TestResetKeyInputClearsHeldKeys(t *testing.T) {
	s := &Stream{ch: make(chan byte, 4), pending: []byte("\x1b[")}
	s.state.left = time.Now()
	s.ch <- 'd'

	ResetKeyInput(s)
	if !s.state.left.IsZero() {
		t.Fatalf("held key survived reset")
	}
	if len(s.ch) != 0 || len(s.pending) != 0 {
		t.Fatalf("buffered bytes survived reset")
	}
	if in := ReadInput(s); in.Right {
		t.Fatalf("discarded byte still registered")
	}
}
