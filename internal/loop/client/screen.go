package client

import (
	"fmt"
	"time"

	"github.com/tomz197/bubblepop/internal/draw"
	"github.com/tomz197/bubblepop/internal/game"
	"github.com/tomz197/bubblepop/internal/loop/config"
	"github.com/tomz197/bubblepop/internal/object"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged || c.state.needsClear {
		c.chunkWriter.ClearTerminal()
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.needsClear = false
	}

	if c.tooSmall() {
		c.drawTooSmallScreen()
		return c.chunkWriter.Flush()
	}

	c.canvas.Clear()

	snapshot := c.server.GetSnapshot(c.handle.ID)
	if snapshot == nil {
		return c.chunkWriter.Flush()
	}

	ctx := object.DrawContext{
		Canvas: c.canvas,
		Writer: c.chunkWriter,
		Screen: snapshot.Screen,
	}

	// Canvas layer, back to front
	for _, b := range snapshot.Bubbles {
		if err := b.Draw(ctx); err != nil {
			return err
		}
	}
	for _, p := range snapshot.Pops {
		if err := p.Draw(ctx); err != nil {
			return err
		}
	}
	if err := snapshot.Laser.Draw(ctx); err != nil {
		return err
	}
	if c.state.GameState == GameStatePlaying {
		if err := snapshot.Gun.Draw(ctx); err != nil {
			return err
		}
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	// Text layer
	for _, p := range snapshot.Popups {
		if err := p.Draw(ctx); err != nil {
			return err
		}
	}

	// Draw UI overlay
	c.drawUI(snapshot)

	return c.chunkWriter.Flush()
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI(snapshot *game.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, snapshot)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStateOver:
		c.drawGameOverScreen(centerX, centerY, snapshot)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerY int) {
	cw := c.chunkWriter
	title := "INACTIVITY WARNING"
	cw.WriteCentered(centerY-2, title)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteCentered(centerY, msg)

	hint := "Press any key to continue"
	cw.WriteCentered(centerY+2, hint)
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		`  ___ _   _ ___ ___ _    ___   ___  ___  ___  `,
		` | _ ) | | | _ ) _ ) |  | __| | _ \/ _ \| _ \ `,
		` | _ \ |_| | _ \ _ \ |__| _|  |  _/ (_) |  _/ `,
		` |___/\___/|___/___/____|___| |_|  \___/|_|   `,
		`                                              `,
	}

	// Find max width for centering
	titleWidth := 0
	for _, line := range titleArt {
		if len(line) > titleWidth {
			titleWidth = len(line)
		}
	}

	// Draw title art centered
	cw := c.chunkWriter
	titleStartY := centerY - 8
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, titleStartY+i, line)
	}

	subtitle := fmt.Sprintf("~ Pop as many bubbles as you can in %d seconds ~", game.RoundSeconds)
	cw.WriteCentered(titleStartY+len(titleArt)+1, subtitle)

	// Controls section
	controlsY := titleStartY + len(titleArt) + 3
	controlHeader := "Controls"
	cw.WriteCentered(controlsY, controlHeader)

	controlLines := []string{
		"Drag the gun (mouse) . .  Aim",
		"Release / click . . . .  Fire",
		"A D / < > . . . . . Move gun",
		"SPACE . . . . . . . . .  Fire",
		"R . . . . . . . . . .  Reset",
		"Q / ESC . . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		cw.WriteCentered(controlsY+1+i, line)
	}

	// Score legend, one swatch per palette colour
	legendY := controlsY + len(controlLines) + 2
	legendWidth := len(object.Palette) * 6
	col := centerX - legendWidth/2
	for _, color := range object.Palette {
		swatch := fmt.Sprintf("\033[38;5;%dm%c\033[0m %d", color.Ink().Code(), draw.BlockFull, game.Points(color))
		cw.WriteAt(col, legendY, swatch)
		col += 6
	}

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Press SPACE to Start  <<"
		cw.WriteCentered(legendY+2, prompt)
	} else {
		c.canvas.MarkTextDirty(1, legendY+2, c.canvas.TerminalWidth())
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen (since we no longer clear every frame).
func (c *Client) drawPlayingHUD(termWidth int, snapshot *game.Snapshot) {
	cw := c.chunkWriter

	scoreText := fmt.Sprintf("Score: %-6d", snapshot.Score)
	cw.WriteAtColor(2, 1, draw.ColorBold, scoreText)

	timeColor := draw.ColorBold
	if snapshot.TimeLeft <= 10 {
		timeColor = draw.ColorBold + draw.ColorYellow
	}
	timeText := fmt.Sprintf("Time: %3d", snapshot.TimeLeft)
	cw.WriteAtColor(termWidth-len(timeText)-1, 1, timeColor, timeText)
}

// drawGameOverScreen draws the end-of-round screen.
func (c *Client) drawGameOverScreen(centerX, centerY int, snapshot *game.Snapshot) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
		`                                              `,
	}

	// Find max width for centering
	titleWidth := 0
	for _, line := range titleArt {
		if len(line) > titleWidth {
			titleWidth = len(line)
		}
	}

	// Draw title art
	cw := c.chunkWriter
	titleStartY := centerY - 6
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, titleStartY+i, line)
	}

	scoreText := fmt.Sprintf("Final score: %d", snapshot.Score)
	cw.WriteCenteredColor(titleStartY+len(titleArt)+1, draw.ColorBold+draw.ColorBrightCyan, scoreText)

	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Press SPACE to Play Again  <<"
		cw.WriteCentered(titleStartY+len(titleArt)+3, prompt)
	} else {
		c.canvas.MarkTextDirty(1, titleStartY+len(titleArt)+3, c.canvas.TerminalWidth())
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerY int) {
	cw := c.chunkWriter
	title := "SERVER SHUTTING DOWN"
	cw.WriteCentered(centerY-3, title)

	msg1 := "The server is restarting for maintenance."
	cw.WriteCentered(centerY-1, msg1)

	msg2 := "Please reconnect in a moment."
	cw.WriteCentered(centerY, msg2)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %d seconds...", remaining)
	cw.WriteCentered(centerY+2, countdown)

	hint := "Press Q or ESC to disconnect now"
	cw.WriteCentered(centerY+4, hint)
}

// tooSmall reports whether the terminal cannot fit a readable canvas.
func (c *Client) tooSmall() bool {
	return c.canvas.TerminalWidth() < config.MinTermWidth || c.canvas.TerminalHeight() < config.MinTermHeight
}

// drawTooSmallScreen asks the player to enlarge the terminal. It replaces the
// whole frame; the round keeps running on the server.
func (c *Client) drawTooSmallScreen() {
	cw := c.chunkWriter
	centerY := c.canvas.TerminalHeight() / 2

	cw.WriteCentered(centerY-1, "Terminal too small")
	cw.WriteCentered(centerY+1, fmt.Sprintf("Need %dx%d, have %dx%d",
		config.MinTermWidth, config.MinTermHeight, c.canvas.TerminalWidth(), c.canvas.TerminalHeight()))
}
