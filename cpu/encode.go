package cpu

import (
	"encoding/binary"
)

// Encode packs an instruction into its little-endian frame.
// On error, no frame is returned.
func Encode(mnemonic Mnemonic, args ...uint32) (frame []byte, err error) {
	ft, ok := mnemonic.Format()
	if !ok {
		err = ErrMnemonic(mnemonic.String())
		return
	}

	if len(args) != ft.Arity() {
		err = &ErrArgCount{Mnemonic: mnemonic, Expected: ft.Arity(), Got: len(args)}
		return
	}

	value := uint64(mnemonic)
	for n, fd := range ft.Operands() {
		arg := uint64(args[n])
		if arg > fd.Max() {
			err = &ErrArgRange{Mnemonic: mnemonic, Field: fd.Name, Value: int64(arg), Width: fd.Width}
			return
		}
		value |= arg << fd.Offset
	}

	var buff [8]byte
	binary.LittleEndian.PutUint64(buff[:], value)

	frame = make([]byte, ft.Size)
	copy(frame, buff[:ft.Size])

	return
}

// Encode the instruction into its frame.
func (code Code) Encode() ([]byte, error) {
	return Encode(code.Mnemonic, code.Args...)
}
