// File: cmd/ringgauge/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ringgauge pushes stdin lines through an owning ring and renders its
// occupancy gauge after every operation.

package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
