//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// watchSignals wires the runtime control signals: SIGHUP reloads the
// config file, SIGUSR1 toggles dictation on and off.
func watchSignals(a *app) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGUSR1)

	go func() {
		for sig := range ch {
			switch sig {
			case syscall.SIGHUP:
				a.reload()
			case syscall.SIGUSR1:
				a.toggle()
			}
		}
	}()
}
