// StoneQuote prices stone stair parts, allocates their edge layers from
// leftover stone and exports cutting sheets, labels and quotes.
//
// Build:
//
//	go build -o stonequote ./cmd/stonequote
package main

import (
	"os"

	"github.com/piwi3910/StoneQuote/cmd/stonequote/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
