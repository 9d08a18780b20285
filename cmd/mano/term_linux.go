//go:build linux

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

var termRestore *unix.Termios

// enterRawTerm puts stdin in unbuffered, no-echo mode.
func enterRawTerm() (err error) {
	termios, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), unix.TCGETS)
	if err != nil {
		return
	}

	restore := *termios
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cc[unix.VMIN] = 1
	termstate.Cc[unix.VTIME] = 0

	err = unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, &termstate)
	if err != nil {
		return
	}

	termRestore = &restore
	return
}

// exitRawTerm restores stdin, if enterRawTerm changed it.
func exitRawTerm() {
	if termRestore == nil {
		return
	}

	unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, termRestore)
	termRestore = nil
}

// waitKey blocks for a key press. Returns false on 'q' or end of input.
func waitKey() bool {
	var key [1]byte
	n, err := os.Stdin.Read(key[:])
	if err != nil || n == 0 {
		return false
	}

	return key[0] != 'q'
}
