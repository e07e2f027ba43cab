package cpu

import (
	"iter"
	"strings"
)

// Opcode represents a line of assembled code with its source location and
// generated instruction.
type Opcode struct {
	LineNo int
	Ip     int // Byte offset of the frame in the binary.
	Words  []string
	Code   Code
	Links  map[int]string // Operand index to label, resolved at link time.
}

// Line returns the source words of the opcode as a single line.
func (op *Opcode) Line() string {
	return strings.Join(op.Words, " ")
}

// Program is an assembled instruction stream.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the opcode whose frame contains a byte offset.
type Debug struct {
	*Opcode
	Index int // Byte index within the frame.
}

func (prog *Program) Debug(ip uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(ip) >= op.Ip && int(ip) < op.Ip+op.Code.Size() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(ip) - op.Ip,
			}
			break
		}
	}

	return
}

// Size returns the length of the binary, in bytes.
func (prog *Program) Size() (size int) {
	for _, op := range prog.Opcodes {
		size += op.Code.Size()
	}
	return
}

// Codes iterates over the instructions and their byte offsets.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(ip int, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Ip, op.Code) {
				return
			}
		}
	}
}

// Binary encodes the program as the concatenation of its frames.
func (prog *Program) Binary() (bin []byte, err error) {
	bin = make([]byte, 0, prog.Size())
	for n := range prog.Opcodes {
		op := &prog.Opcodes[n]
		var frame []byte
		frame, err = op.Code.Encode()
		if err != nil {
			err = ErrSyntax{LineNo: op.LineNo, Line: op.Line(), Err: err}
			bin = nil
			return
		}
		bin = append(bin, frame...)
	}

	return
}
