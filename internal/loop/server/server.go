// Package server hosts one bubble popper round per connected client. All
// rounds are advanced from a single loop goroutine, so each game.Game is only
// ever touched by that goroutine.
package server

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/bubblepop/internal/game"
	"github.com/tomz197/bubblepop/internal/loop/config"
	"github.com/tomz197/bubblepop/internal/object"
)

// GameServer is the interface clients use to communicate with the game server.
// Decouples the Client from the concrete Server implementation, enabling
// testing and potential network-based server implementations.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SendCommand(clientID int, cmd Command)
	GetSnapshot(clientID int) *game.Snapshot
	Sessions() int
}

// Server runs every client's round and publishes snapshots for rendering.
type Server struct {
	sessions     map[int]*session
	nextClientID int
	commandCh    chan ClientCommand
	unregisterCh chan int
	mu           sync.RWMutex
	logger       *log.Logger
	screen       object.Screen
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Closed once the client is unregistered
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
	Game game.Event // For EventGame
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventGame ClientEventType = iota
	EventServerShutdown
)

// NewServer creates a new game server. A nil logger discards output.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		sessions:     make(map[int]*session),
		nextClientID: 1,
		commandCh:    make(chan ClientCommand, config.CommandBuffer),
		unregisterCh: make(chan int, 16),
		logger:       logger,
		screen:       object.NewScreen(config.ViewWidth, config.ViewHeight),
	}
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	lastTime := time.Now()
	defer s.disposeAll()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		s.Tick(delta)

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// Tick runs one server frame: unregistrations, queued commands, then every
// game advanced by delta (capped at MaxFrameDelta) and a fresh snapshot.
func (s *Server) Tick(delta time.Duration) {
	if delta > config.MaxFrameDelta {
		delta = config.MaxFrameDelta
	}

	s.processUnregistrations()
	s.collectCommands()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		sess.game.Advance(delta)
		sess.publish()
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	s.logger.Info("notifying clients about shutdown", "clients", len(s.sessions))
	for _, sess := range s.sessions {
		select {
		case sess.handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "remaining", s.Sessions())
			return
		case <-ticker.C:
			if s.Sessions() == 0 {
				return
			}
		}
	}
}

// RegisterClient creates a round for a new client and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextClientID
	s.nextClientID++

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, config.EventBuffer),
	}
	sess := &session{handle: handle}
	sess.game = game.New(game.Options{
		Screen: s.screen,
		Sink:   s.forwarder(handle),
	})
	sess.publish()
	s.sessions[id] = sess

	s.logger.Info("client registered", "id", id, "user", username, "sessions", len(s.sessions))
	return handle
}

// UnregisterClient removes a client. Its game is disposed on the next tick.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// SendCommand queues a command for the client's game.
func (s *Server) SendCommand(clientID int, cmd Command) {
	select {
	case s.commandCh <- ClientCommand{ClientID: clientID, Command: cmd}:
	default:
		// Command channel full, drop command
	}
}

// GetSnapshot returns the latest snapshot of the client's round, or nil for
// an unknown client.
func (s *Server) GetSnapshot(clientID int) *game.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[clientID]; ok {
		return sess.snapshot.Load()
	}
	return nil
}

// Sessions returns the number of connected clients.
func (s *Server) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// forwarder passes game events to the client without ever blocking the loop.
func (s *Server) forwarder(handle *ClientHandle) game.EventSink {
	return game.EventSinkFunc(func(e game.Event) {
		if e.Type == game.EventPhaseChanged {
			s.logger.Debug("phase changed", "id", handle.ID, "user", handle.Username, "phase", e.Phase)
		}
		select {
		case handle.EventsCh <- ClientEvent{Type: EventGame, Game: e}:
		default:
		}
	})
}

// processUnregistrations handles pending client unregistrations.
func (s *Server) processUnregistrations() {
	for {
		select {
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if sess, ok := s.sessions[clientID]; ok {
				sess.game.Dispose()
				close(sess.handle.EventsCh)
				delete(s.sessions, clientID)
				s.logger.Info("client unregistered", "id", clientID, "user", sess.handle.Username, "sessions", len(s.sessions))
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// collectCommands applies pending commands in arrival order.
func (s *Server) collectCommands() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		select {
		case cc := <-s.commandCh:
			if sess, ok := s.sessions[cc.ClientID]; ok {
				sess.apply(cc.Command)
			}
		default:
			return
		}
	}
}

func (s *Server) disposeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.game.Dispose()
	}
}
