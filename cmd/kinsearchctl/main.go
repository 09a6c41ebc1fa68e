// Command kinsearchctl seeds and searches a kinsearch record store directly,
// without going through the HTTP server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
