package emulator

import (
	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/translate"
)

var f = translate.From

// ErrRuntime locates a runtime error: the instruction pointer, and the
// source line and instruction when a listing is available.
type ErrRuntime struct {
	LineNo int // Source line, or 0 when running a bare binary.
	Ip     uint32
	Code   cpu.Code // Listed instruction at Ip, if any.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("ip 0x%04x: %v", err.Ip, err.Err)
	}
	return f("line %d ip 0x%04x '%v': %v", err.LineNo, err.Ip, err.Code, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
