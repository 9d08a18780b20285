// Package io connects the character registers of the basic computer to
// byte streams. A Device is the machine side, a Tape is the host side.
package io

// Device defines the character I/O side of a machine.
type Device interface {
	// Feed offers an input character. Returns false while the previous
	// one has not been taken.
	Feed(value byte) bool
	// Drain takes a pending output character, and marks output ready.
	Drain() (value byte, ok bool)
}
