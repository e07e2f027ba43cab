package main

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	ErrArguments = errors.New(f("unknown arguments"))
	ErrMaxSteps  = errors.New(f("max_steps must not be negative"))
)
