// Package desktop runs a round in an ebiten window. Mouse and touch feed the
// same gesture recognizer the terminal client uses.
package desktop

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/bubblepop/internal/game"
	"github.com/tomz197/bubblepop/internal/loop/config"
	"github.com/tomz197/bubblepop/internal/object"
)

// Window
const (
	WindowTitle = "Bubble Pop"
)

// pointerSource is the one mouse button or touch the app is following.
type pointerSource struct {
	active  bool
	touch   bool
	touchID ebiten.TouchID
	lastX   float64
}

// App implements ebiten.Game around a game.Game.
type App struct {
	game    *game.Game
	screen  object.Screen
	pointer pointerSource
	logger  *log.Logger
}

var _ ebiten.Game = (*App)(nil)

// New creates the app with a fresh round on the start screen.
func New(logger *log.Logger) *App {
	a := &App{
		screen: object.NewScreen(config.ViewWidth, config.ViewHeight),
		logger: logger,
	}
	a.game = game.New(game.Options{
		Screen: a.screen,
		Sink:   game.EventSinkFunc(a.handleEvent),
	})
	return a
}

// Close disposes the round.
func (a *App) Close() {
	a.game.Dispose()
}

// Update: Logic (60 TPS)
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	dt := time.Second / time.Duration(ebiten.TPS())
	a.updateKeys(dt)
	a.updatePointer()
	a.game.Advance(dt)
	return nil
}

// Layout: Scaling Strategy
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	// Always render at the logical resolution, let Ebiten scale it up
	return a.screen.Width, a.screen.Height
}

func (a *App) updateKeys(dt time.Duration) {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.game.Reset()
		return
	}

	confirm := inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	switch a.game.Phase() {
	case game.PhaseNotStarted:
		if confirm {
			a.game.Start()
		}
	case game.PhaseGameOver:
		if confirm {
			a.game.Reset()
		}
	case game.PhaseRunning:
		step := config.NudgeSpeed * dt.Seconds()
		left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
		right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
		if left && !right {
			a.game.NudgeGun(-step)
		}
		if right && !left {
			a.game.NudgeGun(step)
		}
		if confirm {
			a.game.Tap()
		}
	}
}

// updatePointer follows a single pointer: the left mouse button, or the first
// touch when the mouse is idle.
func (a *App) updatePointer() {
	p := &a.pointer

	if !p.active {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, _ := ebiten.CursorPosition()
			*p = pointerSource{active: true, lastX: float64(x)}
			a.game.PointerDown(p.lastX)
			return
		}
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			x, _ := ebiten.TouchPosition(ids[0])
			*p = pointerSource{active: true, touch: true, touchID: ids[0], lastX: float64(x)}
			a.game.PointerDown(p.lastX)
		}
		return
	}

	if p.touch {
		if inpututil.IsTouchJustReleased(p.touchID) {
			a.game.PointerUp(p.lastX)
			*p = pointerSource{}
			return
		}
		x, _ := ebiten.TouchPosition(p.touchID)
		a.move(float64(x))
		return
	}

	x, _ := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		a.game.PointerUp(float64(x))
		*p = pointerSource{}
		return
	}
	a.move(float64(x))
}

func (a *App) move(x float64) {
	if x == a.pointer.lastX {
		return
	}
	a.pointer.lastX = x
	a.game.PointerMove(x)
}

func (a *App) handleEvent(e game.Event) {
	if e.Type != game.EventPhaseChanged {
		return
	}
	if e.Phase == game.PhaseGameOver {
		a.logger.Info("round over", "score", a.game.Score())
	} else {
		a.logger.Debug("phase changed", "phase", e.Phase)
	}
	if e.Phase != game.PhaseRunning {
		a.pointer = pointerSource{}
	}
}
