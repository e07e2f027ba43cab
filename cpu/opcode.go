package cpu

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Mnemonic is an instruction, identified by its opcode.
type Mnemonic int

const (
	POPCNT     = Mnemonic(14) // POPCNT
	READ_MEM   = Mnemonic(31) // READ_MEM
	WRITE_MEM  = Mnemonic(34) // WRITE_MEM
	LOAD_CONST = Mnemonic(45) // LOAD_CONST
)

const (
	OPCODE_BITS = 6                      // Width of the opcode field.
	OPCODE_MASK = (1 << OPCODE_BITS) - 1 // Mask of the opcode field.
)

// Field is a fixed width slot within an instruction frame.
type Field struct {
	Name   string
	Width  uint // Width in bits.
	Offset uint // Offset in bits from the frame LSB.
}

// Max returns the largest value the field can hold.
func (fd Field) Max() uint64 {
	return (1 << fd.Width) - 1
}

// Extract the field from an assembled frame value.
func (fd Field) Extract(value uint64) uint32 {
	return uint32((value >> fd.Offset) & fd.Max())
}

// Format describes the binary layout of a mnemonic.
// The first field is always the opcode, 'A'.
type Format struct {
	Mnemonic Mnemonic
	Name     string
	Size     int // Frame size in bytes.
	Fields   []Field
}

// Arity is the number of operands, not counting the opcode.
func (ft *Format) Arity() int {
	return len(ft.Fields) - 1
}

// Operands returns the operand fields, in order.
func (ft *Format) Operands() []Field {
	return ft.Fields[1:]
}

var _formats = []Format{
	{LOAD_CONST, "LOAD_CONST", 6, []Field{{"A", 6, 0}, {"B", 12, 6}, {"C", 25, 18}}},
	{READ_MEM, "READ_MEM", 4, []Field{{"A", 6, 0}, {"B", 12, 6}, {"C", 12, 18}}},
	{WRITE_MEM, "WRITE_MEM", 6, []Field{{"A", 6, 0}, {"B", 12, 6}, {"C", 13, 18}, {"D", 12, 31}}},
	{POPCNT, "POPCNT", 4, []Field{{"A", 6, 0}, {"B", 12, 6}, {"C", 12, 18}}},
}

var (
	_byOpcode   [1 << OPCODE_BITS](*Format)
	_byName     = map[string]Mnemonic{}
	_frameSizes []int // Distinct frame sizes, largest first.
)

// init indexes the format table, and refuses to start if the table would
// make trial decoding ambiguous.
func init() {
	for n := range _formats {
		ft := &_formats[n]
		op := int(ft.Mnemonic)
		if op < 0 || op > OPCODE_MASK {
			panic(fmt.Sprintf("%v: opcode %d does not fit in %d bits", ft.Name, op, OPCODE_BITS))
		}
		if prior := _byOpcode[op]; prior != nil {
			panic(fmt.Sprintf("%v: opcode %d already used by %v", ft.Name, op, prior.Name))
		}
		if len(ft.Fields) == 0 || ft.Fields[0] != (Field{"A", OPCODE_BITS, 0}) {
			panic(fmt.Sprintf("%v: first field must be the opcode", ft.Name))
		}
		var end uint
		for _, fd := range ft.Fields {
			if fd.Offset != end {
				panic(fmt.Sprintf("%v: field %v is not contiguous", ft.Name, fd.Name))
			}
			end = fd.Offset + fd.Width
		}
		if end > uint(ft.Size*8) || ft.Size > 8 {
			panic(fmt.Sprintf("%v: fields overflow %d byte frame", ft.Name, ft.Size))
		}
		_byOpcode[op] = ft
		_byName[ft.Name] = ft.Mnemonic
		if !slices.Contains(_frameSizes, ft.Size) {
			_frameSizes = append(_frameSizes, ft.Size)
		}
	}

	slices.SortFunc(_frameSizes, func(a, b int) int { return b - a })
}

// LookupMnemonic finds a mnemonic by its assembly name.
func LookupMnemonic(name string) (mnemonic Mnemonic, ok bool) {
	mnemonic, ok = _byName[name]
	return
}

// Mnemonics iterates over all defined mnemonics.
func Mnemonics() iter.Seq[Mnemonic] {
	return func(yield func(Mnemonic) bool) {
		for _, ft := range _formats {
			if !yield(ft.Mnemonic) {
				return
			}
		}
	}
}

// Format returns the binary layout of the mnemonic.
func (mn Mnemonic) Format() (ft *Format, ok bool) {
	if mn < 0 || int(mn) >= len(_byOpcode) {
		return
	}

	ft = _byOpcode[mn]
	ok = ft != nil
	return
}

func (mn Mnemonic) String() string {
	ft, ok := mn.Format()
	if !ok {
		return fmt.Sprintf("Mnemonic(%d)", int(mn))
	}
	return ft.Name
}

// Code is a single instruction and its operand values.
type Code struct {
	Mnemonic Mnemonic
	Args     []uint32
}

// Size returns the frame size of the instruction, or 0 if unknown.
func (code Code) Size() int {
	ft, ok := code.Mnemonic.Format()
	if !ok {
		return 0
	}
	return ft.Size
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	args := make([]string, len(code.Args))
	for n, arg := range code.Args {
		args[n] = fmt.Sprintf("%d", arg)
	}

	if len(args) == 0 {
		return code.Mnemonic.String()
	}

	return code.Mnemonic.String() + " " + strings.Join(args, ", ")
}

// Intermediate returns the field-by-field listing form of the instruction,
// ie 'LOAD_CONST: A=45, B=100, C=10'.
func (code Code) Intermediate() string {
	ft, ok := code.Mnemonic.Format()
	if !ok {
		return code.String()
	}

	fields := []string{fmt.Sprintf("A=%d", int(code.Mnemonic))}
	for n, fd := range ft.Operands() {
		if n >= len(code.Args) {
			break
		}
		fields = append(fields, fmt.Sprintf("%v=%d", fd.Name, code.Args[n]))
	}

	return ft.Name + ": " + strings.Join(fields, ", ")
}
