//go:build !linux

package main

import (
	"errors"
	"os"
)

func enterRawTerm() error {
	return errors.New("raw terminal not supported on this platform")
}

func exitRawTerm() {
}

// waitKey blocks for a line of input. Returns false on 'q' or end of input.
func waitKey() bool {
	var key [1]byte
	n, err := os.Stdin.Read(key[:])
	if err != nil || n == 0 {
		return false
	}

	return key[0] != 'q'
}
