package io

import (
	"io"

	"github.com/ezrec/uvm/cpu"
)

// ReadBinary reads an assembled binary, refusing anything larger than the
// CPU memory.
func ReadBinary(input io.Reader) (bin []byte, err error) {
	bin, err = io.ReadAll(io.LimitReader(input, cpu.MEMORY_SIZE+1))
	if err != nil {
		bin = nil
		return
	}

	if len(bin) > cpu.MEMORY_SIZE {
		err = &cpu.ErrProgramSize{Size: len(bin), Capacity: cpu.MEMORY_SIZE}
		bin = nil
		return
	}

	return
}
