package cpu

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Encoding errors
	ErrArity           = errors.New(f("wrong argument count"))
	ErrRange           = errors.New(f("argument out of range"))
	ErrMnemonicUnknown = errors.New(f("mnemonic unknown"))

	// Cpu errors
	ErrIpEmpty             = errors.New(f("ip empty"))
	ErrAddressRange        = errors.New(f("address out of range"))
	ErrProgramTooLarge     = errors.New(f("program too large"))
	ErrOpcodeUnimplemented = errors.New(f("opcode unimplemented"))
	ErrStepLimit           = errors.New(f("step limit reached"))
	ErrHalted              = errors.New(f("cpu halted"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrMacroSyntax     = errors.New(f(".macro syntax"))
	ErrMacroNesting    = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate  = errors.New(f(".macro duplicated"))
	ErrMacroLonely     = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm = errors.New(f(".endm without .macro"))
)

// ErrMnemonic is an unknown instruction name.
type ErrMnemonic string

func (err ErrMnemonic) Error() string {
	return f("mnemonic '%v' unknown", string(err))
}

func (err ErrMnemonic) Is(target error) bool {
	return target == ErrMnemonicUnknown
}

// ErrArgCount is an instruction with the wrong number of operands.
type ErrArgCount struct {
	Mnemonic Mnemonic
	Expected int
	Got      int
}

func (err *ErrArgCount) Error() string {
	return f("%v expects %d arguments, got %d", err.Mnemonic, err.Expected, err.Got)
}

func (err *ErrArgCount) Is(target error) bool {
	return target == ErrArity
}

// ErrArgRange is an operand that does not fit in its field.
type ErrArgRange struct {
	Mnemonic Mnemonic
	Field    string
	Value    int64
	Width    uint
}

func (err *ErrArgRange) Error() string {
	return f("%v field %v value %v exceeds %d bits", err.Mnemonic, err.Field, err.Value, err.Width)
}

func (err *ErrArgRange) Is(target error) bool {
	return target == ErrRange
}

// ErrAddress is a memory access outside of the memory array.
type ErrAddress struct {
	Ip      uint32
	Address uint64
}

func (err *ErrAddress) Error() string {
	return f("ip 0x%04x: address 0x%x out of range", err.Ip, err.Address)
}

func (err *ErrAddress) Is(target error) bool {
	return target == ErrAddressRange
}

// ErrProgramSize is a program that does not fit in memory.
type ErrProgramSize struct {
	Size     int
	Capacity int
}

func (err *ErrProgramSize) Error() string {
	return f("program of %v bytes exceeds memory of %v cells", err.Size, err.Capacity)
}

func (err *ErrProgramSize) Is(target error) bool {
	return target == ErrProgramTooLarge
}

// ErrOpcode decorates an execution failure with the failing instruction.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode %v", Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
