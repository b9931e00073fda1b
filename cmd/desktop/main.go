package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/bubblepop/internal/config"
	"github.com/tomz197/bubblepop/internal/desktop"
	loopconfig "github.com/tomz197/bubblepop/internal/loop/config"
)

func main() {
	envErr := config.LoadDotEnv()
	logger := config.NewLogger("desktop")
	if envErr != nil {
		logger.Warn("ignoring .env", "err", envErr)
	}

	scale := config.GetEnvInt("DESKTOP_SCALE", 1)
	if scale < 1 {
		scale = 1
	}

	// Window Setup
	ebiten.SetWindowSize(loopconfig.ViewWidth*scale, loopconfig.ViewHeight*scale)
	ebiten.SetWindowTitle(desktop.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	app := desktop.New(logger)
	defer app.Close()

	logger.Info("starting desktop window", "scale", scale)
	if err := ebiten.RunGame(app); err != nil {
		logger.Fatal("game error", "err", err)
	}
}
