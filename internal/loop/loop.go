// Package loop runs a single local game: a private server plus one terminal
// client on the caller's reader and writer.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/bubblepop/internal/draw"
	"github.com/tomz197/bubblepop/internal/loop/client"
	"github.com/tomz197/bubblepop/internal/loop/server"
)

// Options configures Run.
type Options struct {
	TermSizeFunc draw.TermSizeFunc // Defaults to the size of stdout
	Username     string
	Logger       *log.Logger // Defaults to discarding
}

// Run plays one session until the player quits or ctx is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gs := server.NewServer(opts.Logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		gs.Run(ctx)
	}()

	c := client.NewClient(gs, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run() }()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		c.Stop()
		err = <-errCh
	}
	cancel()
	<-done

	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	return nil
}
