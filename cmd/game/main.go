package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/bubblepop/internal/config"
	"github.com/tomz197/bubblepop/internal/loop"
)

func main() {
	envErr := config.LoadDotEnv()
	logger := config.NewLogger("game")
	if envErr != nil {
		logger.Warn("ignoring .env", "err", envErr)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Fatal("failed to enable raw mode", "err", err)
	}
	restore := func() { _ = term.Restore(fd, oldState) }

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(ctx, reader, os.Stdout, loop.Options{
		Username: config.GetEnv("USER", "player"),
	})
	restore()
	if err != nil {
		logger.Error("game error", "err", err)
		os.Exit(1)
	}
}
