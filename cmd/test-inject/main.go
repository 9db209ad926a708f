// Command test-inject is a manual test for text injection.
// It waits 3 seconds, then types or pastes test text.
// Focus a text editor before the countdown finishes.
//
// Usage:
//
//	go run ./cmd/test-inject [--method direct|clipboard]
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/LuzGuilherme/Ditado/internal/inject"
)

func main() {
	method := flag.String("method", "direct", "inject method: direct or clipboard")
	flag.Parse()

	text := "Hello from Ditado!"

	fmt.Printf("Will inject %q using %q method in 3 seconds...\n", text, *method)
	fmt.Println("Focus a text editor now!")

	for i := 3; i > 0; i-- {
		fmt.Printf("%d...\n", i)
		time.Sleep(time.Second)
	}

	inj := inject.NewInjector()

	var err error
	switch *method {
	case "direct":
		err = inj.TypeDirect(text)
	case "clipboard":
		err = inj.TypeViaClipboard(text)
	default:
		fmt.Printf("Unknown method %q (want direct or clipboard)\n", *method)
		return
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("\nDone!")
}
