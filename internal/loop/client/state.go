package client

import (
	"time"

	"github.com/tomz197/bubblepop/internal/draw"
	"github.com/tomz197/bubblepop/internal/game"
	"github.com/tomz197/bubblepop/internal/input"
)

// GameState is the screen a client is showing.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Round running
	GameStateOver                      // Round finished, show final score
	GameStateShutdown                  // Server is shutting down
)

// stateForPhase maps a round phase to the screen that shows it.
func stateForPhase(p game.Phase) GameState {
	switch p {
	case game.PhaseRunning:
		return GameStatePlaying
	case game.PhaseGameOver:
		return GameStateOver
	default:
		return GameStateStart
	}
}

// ClientState holds per-connection state. Gameplay state lives on the server
// and arrives as snapshots.
type ClientState struct {
	Input         input.Input
	GameState     GameState
	Running       bool              // Client loop running
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	delta         time.Duration     // Frame delta time (client-side)
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state
	prevGameState GameState
	wasInactive   bool
	needsClear    bool // Full clear requested by a phase change event
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}
