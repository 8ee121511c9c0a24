package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"quadterm/internal/logging"
)

func notifySignals() (<-chan os.Signal, func()) {
	signalCh := make(chan os.Signal, 2)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	return signalCh, func() {
		signal.Stop(signalCh)
	}
}

// watchSignals cancels on the first signal. Later signals are logged once
// and otherwise ignored so cleanup can finish.
func watchSignals(logger *logging.Logger, cancel context.CancelFunc, signalCh <-chan os.Signal) func() {
	if signalCh == nil {
		return func() {}
	}

	done := make(chan struct{})
	var started atomic.Bool
	var loggedRepeat atomic.Bool

	go func() {
		for {
			select {
			case <-done:
				return
			case sig, ok := <-signalCh:
				if !ok {
					return
				}
				fields := map[string]string{}
				if sig != nil {
					fields["signal"] = sig.String()
				}
				if started.CompareAndSwap(false, true) {
					logger.Info("interrupted; stopping", fields)
					cancel()
					continue
				}
				if loggedRepeat.CompareAndSwap(false, true) {
					logger.Info("already stopping; ignoring signal", fields)
				}
			}
		}
	}()

	return func() {
		close(done)
	}
}
