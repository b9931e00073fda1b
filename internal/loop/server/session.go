package server

import (
	"sync/atomic"

	"github.com/tomz197/bubblepop/internal/game"
)

// CommandKind identifies a player action.
type CommandKind int

const (
	CommandStart CommandKind = iota
	CommandReset
	CommandTap
	CommandPointerDown
	CommandPointerMove
	CommandPointerUp
	CommandNudge
)

func (k CommandKind) String() string {
	switch k {
	case CommandStart:
		return "start"
	case CommandReset:
		return "reset"
	case CommandTap:
		return "tap"
	case CommandPointerDown:
		return "pointer-down"
	case CommandPointerMove:
		return "pointer-move"
	case CommandPointerUp:
		return "pointer-up"
	case CommandNudge:
		return "nudge"
	default:
		return "unknown"
	}
}

// Command is a player action. X is a logical x coordinate for pointer
// commands and a signed distance for nudges.
type Command struct {
	Kind CommandKind
	X    float64
}

// ClientCommand is a command from a specific client.
type ClientCommand struct {
	ClientID int
	Command  Command
}

// session is one client's round. Its game is only touched by the server loop.
type session struct {
	handle   *ClientHandle
	game     *game.Game
	snapshot atomic.Pointer[game.Snapshot]
}

// apply runs a command against the session's game.
func (s *session) apply(cmd Command) {
	switch cmd.Kind {
	case CommandStart:
		s.game.Start()
	case CommandReset:
		s.game.Reset()
	case CommandTap:
		s.game.Tap()
	case CommandPointerDown:
		s.game.PointerDown(cmd.X)
	case CommandPointerMove:
		s.game.PointerMove(cmd.X)
	case CommandPointerUp:
		s.game.PointerUp(cmd.X)
	case CommandNudge:
		s.game.NudgeGun(cmd.X)
	}
}

func (s *session) publish() {
	snap := s.game.Snapshot()
	s.snapshot.Store(&snap)
}
