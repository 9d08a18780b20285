package io

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Tape moves characters between byte streams and a Device.
// Input is read by a background goroutine, so Service never blocks on it.
// Close stops the goroutine once its pending Read returns.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	once    sync.Once
	input   chan byte
	readErr error         // Set before input is closed.
	done    chan struct{} // Closed by Close.
	stopped chan struct{} // Closed when the reader goroutine exits.
	closed  bool

	hasInput  bool
	lastInput byte
	eof       bool
}

func (tc *Tape) start() {
	if tc.done == nil {
		tc.done = make(chan struct{})
	}
	tc.input = make(chan byte)
	tc.stopped = make(chan struct{})

	input, done, stopped := tc.input, tc.done, tc.stopped
	go func() {
		defer close(stopped)
		defer close(input)
		var one [1]byte
		for {
			select {
			case <-done:
				return
			default:
			}

			n, err := tc.Input.Read(one[:])
			if n == 1 {
				select {
				case input <- one[0]:
				case <-done:
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					tc.readErr = err
				}
				return
			}
		}
	}()
}

// Close stops reading Input. Characters not yet fed are discarded; Output
// is still serviced.
func (tc *Tape) Close() (err error) {
	if tc.closed {
		return
	}
	tc.closed = true

	if tc.done == nil {
		tc.done = make(chan struct{})
	}
	close(tc.done)

	tc.eof = true
	tc.hasInput = false
	return
}

// Eof returns true once all input has been delivered.
func (tc *Tape) Eof() bool {
	return tc.Input == nil || (tc.eof && !tc.hasInput)
}

// Service moves at most one character in each direction: a pending output
// character of dev is written to Output, and the next Input character is
// fed to dev if it is ready for one.
func (tc *Tape) Service(dev Device) (err error) {
	if tc.Output != nil {
		value, ok := dev.Drain()
		if ok {
			_, err = tc.Output.Write([]byte{value})
			if err != nil {
				err = fmt.Errorf("%w: %w", ErrTapeOutput, err)
				return
			}
		}
	}

	if tc.Input == nil || tc.eof {
		return
	}

	tc.once.Do(tc.start)

	if !tc.hasInput {
		select {
		case value, ok := <-tc.input:
			if !ok {
				tc.eof = true
				if tc.readErr != nil {
					err = fmt.Errorf("%w: %w", ErrTapeInput, tc.readErr)
				}
				return
			}
			tc.lastInput = value
			tc.hasInput = true
		default:
			return
		}
	}

	if dev.Feed(tc.lastInput) {
		tc.hasInput = false
	}

	return
}
