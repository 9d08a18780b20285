package io

import (
	"errors"

	"github.com/ezrec/mano/translate"
)

var f = translate.From

var (
	// Tape errors
	ErrTapeInput  = errors.New(f("tape input failed"))
	ErrTapeOutput = errors.New(f("tape output failed"))
)
