// Package client renders one player's round in a terminal and turns their
// keys and mouse into server commands.
package client

import (
	"bufio"
	"io"
	"sync"
	"time"

	"github.com/tomz197/bubblepop/internal/draw"
	"github.com/tomz197/bubblepop/internal/game"
	"github.com/tomz197/bubblepop/internal/input"
	"github.com/tomz197/bubblepop/internal/loop/config"
	"github.com/tomz197/bubblepop/internal/loop/server"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	stop         chan struct{}
	stopOnce     sync.Once
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	username := opts.Username
	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}

	handle := gs.RegisterClient(username)
	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w)
	chunkWriter.SetArea(renderWidth, renderHeight, offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		reader:       r,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     username,
		termSizeFunc: termSizeFunc,
		stop:         make(chan struct{}),
	}
}

// Stop makes Run return at the next frame, skipping the shutdown screen.
// It may be called from any goroutine, more than once.
func (c *Client) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	// Unregister from server
	defer c.server.UnregisterClient(c.handle.ID)

	lastTime := time.Now()

	for c.state.Running {
		select {
		case <-c.stop:
			c.state.Running = false
			continue
		default:
		}

		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Check for server events
		c.processServerEvents()

		// Follow the round phase
		c.syncState()

		// Process input
		c.processInput()

		// Handle screen resize
		c.updateScreen()

		if c.state.GameState == GameStateShutdown {
			c.updateShutdownState()
		}

		// Draw frame
		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and sends the resulting commands to the server.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 || len(c.state.Input.Mouse) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit || c.state.Input.Escape {
		c.state.Running = false
		return
	}

	for _, cmd := range c.commands(c.state.Input) {
		c.server.SendCommand(c.handle.ID, cmd)
	}
	if c.state.GameState != GameStatePlaying && (c.state.Input.Space || c.state.Input.Enter) {
		input.ResetKeyInput(c.inputStream)
	}
}

// commands maps one frame of input to server commands for the current screen.
func (c *Client) commands(in input.Input) []server.Command {
	var cmds []server.Command

	if in.Reset && c.state.GameState != GameStateShutdown {
		return append(cmds, server.Command{Kind: server.CommandReset})
	}

	switch c.state.GameState {
	case GameStateStart:
		if in.Space || in.Enter {
			cmds = append(cmds, server.Command{Kind: server.CommandStart})
		}
	case GameStateOver:
		if in.Space || in.Enter {
			cmds = append(cmds, server.Command{Kind: server.CommandReset})
		}
	case GameStatePlaying:
		cmds = append(cmds, c.mouseCommands(in.Mouse)...)
		if step := config.NudgeSpeed * c.state.delta.Seconds(); step > 0 {
			if in.Left && !in.Right {
				cmds = append(cmds, server.Command{Kind: server.CommandNudge, X: -step})
			}
			if in.Right && !in.Left {
				cmds = append(cmds, server.Command{Kind: server.CommandNudge, X: step})
			}
		}
		if in.Space || in.Enter {
			cmds = append(cmds, server.Command{Kind: server.CommandTap})
		}
	}
	return cmds
}

// mouseCommands converts terminal mouse events to pointer commands in logical
// coordinates. Presses outside the canvas are ignored; drags and releases
// always pass through so a gesture that leaves the canvas still ends.
func (c *Client) mouseCommands(events []input.MouseEvent) []server.Command {
	var cmds []server.Command
	for _, ev := range events {
		x, y := c.canvas.TerminalToLogical(ev.Col, ev.Row)
		switch ev.Kind {
		case input.MousePress:
			if x < 0 || x > c.canvas.LogicalWidth() || y < 0 || y > c.canvas.LogicalHeight() {
				continue
			}
			cmds = append(cmds, server.Command{Kind: server.CommandPointerDown, X: x})
		case input.MouseDrag:
			cmds = append(cmds, server.Command{Kind: server.CommandPointerMove, X: x})
		case input.MouseRelease:
			cmds = append(cmds, server.Command{Kind: server.CommandPointerUp, X: x})
		}
	}
	return cmds
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventGame:
				if event.Game.Type == game.EventPhaseChanged {
					c.state.needsClear = true
				}
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// syncState follows the round phase from the latest snapshot. The shutdown
// screen is sticky.
func (c *Client) syncState() {
	if c.state.GameState == GameStateShutdown {
		return
	}
	if snap := c.server.GetSnapshot(c.handle.ID); snap != nil {
		c.state.GameState = stateForPhase(snap.Phase)
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetArea(renderWidth, renderHeight, offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
