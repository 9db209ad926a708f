// Command test-hotkey is a manual probe for the keyboard hook. It prints
// every canonical key event plus the activation edges for the given
// push-to-talk combination.
// Press Ctrl+C to exit.
//
// Usage:
//
//	go run ./cmd/test-hotkey [--hotkey caps_lock]
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/LuzGuilherme/Ditado/internal/hotkey"
)

type printer struct{}

func (printer) HandlePress(key string)   { fmt.Printf("  down: %s\n", key) }
func (printer) HandleRelease(key string) { fmt.Printf("  up:   %s\n", key) }

func main() {
	spec := flag.String("hotkey", "caps_lock", "push-to-talk combination to track")
	flag.Parse()

	combo := hotkey.NewCombo(*spec,
		func() { fmt.Println(">>> ACTIVATE (recording would start)") },
		func() { fmt.Println("<<< DEACTIVATE (recording would stop)") },
	)

	fmt.Printf("Tracking %s...\n", hotkey.Format(combo.Spec()))
	fmt.Println("Press Ctrl+C to exit.")

	monitor := hotkey.NewMonitor()
	monitor.Attach(printer{})
	monitor.Attach(combo)

	// Handle Ctrl+C
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nShutting down...")
		monitor.Stop()
	}()

	// Blocks until stopped
	monitor.Start()
	fmt.Println("Done.")
}
