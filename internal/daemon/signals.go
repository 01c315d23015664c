package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// waitForShutdown blocks until an interrupt, termination, or hangup signal
// arrives, or until ctx is cancelled. Returns the received signal, or nil
// when the context ended first.
func waitForShutdown(ctx context.Context) os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(ch)

	select {
	case sig := <-ch:
		return sig
	case <-ctx.Done():
		return nil
	}
}
