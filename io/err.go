package io

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Dump errors
	ErrDumpRange  = errors.New(f("dump range invalid"))
	ErrDumpFormat = errors.New(f("dump format unknown"))
)
