package cpu

import (
	"encoding/binary"
)

// Decode recovers the instruction at the start of window.
//
// Frame sizes are tried largest first. A size is only considered if the
// window holds that many bytes, and only accepted if the opcode in the low
// bits belongs to a mnemonic of that size. If no size matches, ok is false.
func Decode(window []byte) (code Code, size int, ok bool) {
	for _, try := range _frameSizes {
		if len(window) < try {
			continue
		}

		var buff [8]byte
		copy(buff[:], window[:try])
		value := binary.LittleEndian.Uint64(buff[:])

		ft := _byOpcode[value&OPCODE_MASK]
		if ft == nil || ft.Size != try {
			continue
		}

		args := make([]uint32, ft.Arity())
		for n, fd := range ft.Operands() {
			args[n] = fd.Extract(value)
		}

		code = Code{Mnemonic: ft.Mnemonic, Args: args}
		size = try
		ok = true
		return
	}

	return
}
