package desktop

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/bubblepop/internal/game"
	"github.com/tomz197/bubblepop/internal/object"
)

var (
	colorBackground = color.RGBA{0x10, 0x13, 0x1a, 0xff}
	colorGunBody    = color.RGBA{0x80, 0x80, 0x80, 0xff}
	colorGunTurret  = color.RGBA{0x4d, 0xd2, 0xff, 0xff}
	colorLaser      = color.RGBA{0xff, 0x4d, 0x4d, 0xff}
	colorWhite      = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorOverlay    = color.RGBA{0x00, 0x00, 0x00, 0xa0}
)

// Draw: Rendering (VSync)
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	snap := a.game.Snapshot()
	for _, b := range snap.Bubbles {
		drawBubble(screen, b)
	}
	for _, p := range snap.Pops {
		drawPop(screen, p)
	}
	if snap.Laser.Visible {
		drawLaser(screen, snap)
	}
	if snap.Phase == game.PhaseRunning {
		drawGun(screen, snap)
	}
	for _, p := range snap.Popups {
		if p.Progress() <= 0.75 {
			label := fmt.Sprintf("+%d", p.Value)
			ebitenutil.DebugPrintAt(screen, label, int(p.X)-len(label)*3, int(p.Y+p.Offset()))
		}
	}

	switch snap.Phase {
	case game.PhaseRunning:
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", snap.Score), 10, 10)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Time: %d", snap.TimeLeft), snap.Screen.Width-80, 10)
	case game.PhaseNotStarted:
		drawPanel(screen, snap.Screen, []string{
			"BUBBLE POP",
			"",
			"Drag the gun to aim, release to fire",
			"Click or tap anywhere to fire",
			"A D / arrows move the gun, SPACE fires",
			"",
			"Press SPACE to start",
		})
	case game.PhaseGameOver:
		drawPanel(screen, snap.Screen, []string{
			"GAME OVER",
			"",
			fmt.Sprintf("Final score: %d", snap.Score),
			"",
			"Press SPACE to play again",
		})
	}
}

func drawBubble(screen *ebiten.Image, b object.Bubble) {
	cx, cy, r := float32(b.CenterX()), float32(b.CenterY()), float32(b.Radius)
	vector.DrawFilledCircle(screen, cx, cy, r, b.Color.RGBA(), true)
	vector.DrawFilledCircle(screen, cx-r*0.4, cy-r*0.4, r*0.2, color.RGBA{0xff, 0xff, 0xff, 0xb0}, true)
}

func drawPop(screen *ebiten.Image, p object.PopEffect) {
	alpha := uint8(255 * p.Opacity())
	if alpha == 0 {
		return
	}
	r := float32(p.Radius * p.Scale())
	vector.StrokeCircle(screen, float32(p.X+p.Radius), float32(p.Y+p.Radius), r, 3, color.RGBA{alpha, alpha, alpha, alpha}, true)
}

func drawLaser(screen *ebiten.Image, snap game.Snapshot) {
	x := float32(snap.Laser.X)
	bottom := float32(snap.Gun.Top(snap.Screen))
	vector.StrokeLine(screen, x, bottom, x, 0, 6, colorLaser, true)
	vector.StrokeLine(screen, x, bottom, x, 0, 2, colorWhite, true)
}

func drawGun(screen *ebiten.Image, snap game.Snapshot) {
	g := snap.Gun
	x, w, h := float32(g.X), float32(g.Width), float32(g.Height)
	top := float32(g.Top(snap.Screen))
	bottom := top + h

	vector.DrawFilledRect(screen, x, bottom-h*0.35, w, h*0.35, colorGunBody, true)
	vector.DrawFilledRect(screen, x+w*0.25, bottom-h*0.65, w*0.5, h*0.3, colorGunTurret, true)
	vector.DrawFilledRect(screen, x+w*0.45, top, w*0.1, h*0.35, colorGunTurret, true)

	if g.Charging {
		cx, cy, r := g.ChargeBall(snap.Screen)
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(r), colorLaser, true)
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(r*0.6), colorWhite, true)
	}
}

func drawPanel(screen *ebiten.Image, s object.Screen, lines []string) {
	vector.DrawFilledRect(screen, 0, 0, float32(s.Width), float32(s.Height), colorOverlay, false)
	// Debug font glyphs are 6x16
	y := s.CenterY - len(lines)*16/2
	for _, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, s.CenterX-len(line)*3, y)
		y += 16
	}
}
