// stairgen replaces stair template brushes in Source engine map files with
// generated ramps.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
