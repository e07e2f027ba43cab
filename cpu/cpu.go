package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
)

// State is the execution state of the Cpu.
type State int

const (
	STATE_LOADING = State(0) // loading
	STATE_RUNNING = State(1) // running
	STATE_HALTED  = State(2) // halted
)

func (st State) String() string {
	switch st {
	case STATE_LOADING:
		return "loading"
	case STATE_RUNNING:
		return "running"
	case STATE_HALTED:
		return "halted"
	}
	return fmt.Sprintf("State(%d)", int(st))
}

// Halt is the reason the Cpu stopped.
type Halt int

const (
	HALT_NONE       = Halt(0) // -
	HALT_END        = Halt(1) // end
	HALT_DECODE     = Halt(2) // decode
	HALT_STEP_LIMIT = Halt(3) // step-limit
	HALT_FAULT      = Halt(4) // fault
)

func (ht Halt) String() string {
	switch ht {
	case HALT_NONE:
		return "-"
	case HALT_END:
		return "end"
	case HALT_DECODE:
		return "decode"
	case HALT_STEP_LIMIT:
		return "step-limit"
	case HALT_FAULT:
		return "fault"
	}
	return fmt.Sprintf("Halt(%d)", int(ht))
}

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	"STEP_LIMIT":  fmt.Sprintf("%d", STEP_LIMIT),
}

// Cpu is the simulation context for the μVM.
type Cpu struct {
	Verbose  bool // Set to enable verbose logging.
	MaxSteps int  // Maximum instructions per run, 0 for no limit.

	Memory []uint32 // Unified program and data memory.
	Ip     uint32   // Current instruction pointer.
	Length int      // Length in bytes of the loaded program.
	Steps  int      // Instructions executed since load.
	State  State    // Execution state.
	Halt   Halt     // Reason for STATE_HALTED.
}

// NewCpu creates a new CPU with empty memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		MaxSteps: STEP_LIMIT,
		Memory:   make([]uint32, MEMORY_SIZE),
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for key, value := range maps.All(_cpu_defines) {
			if !yield(key, value) {
				return
			}
		}
		for mn := range Mnemonics() {
			if !yield("OP_"+mn.String(), fmt.Sprintf("%d", int(mn))) {
				return
			}
		}
	}
}

// Reset the CPU state.
// - Zeros all of memory.
// - Rewinds the IP, and zeros the step counter.
// - Forgets any loaded program.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory)
	cpu.Ip = 0
	cpu.Length = 0
	cpu.Steps = 0
	cpu.State = STATE_RUNNING
	cpu.Halt = HALT_NONE
}

// Load resets the CPU, then copies a program into memory at address 0,
// one byte per cell.
// A program larger than memory is refused, and leaves the CPU untouched.
func (cpu *Cpu) Load(program []byte) (length int, err error) {
	if len(program) > len(cpu.Memory) {
		err = &ErrProgramSize{Size: len(program), Capacity: len(cpu.Memory)}
		return
	}

	cpu.Reset()

	cpu.State = STATE_LOADING
	for n, data := range program {
		cpu.Memory[n] = uint32(data)
	}
	cpu.Length = len(program)
	cpu.State = STATE_RUNNING

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", cpu.Length)
	}

	length = cpu.Length
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 6s: %04X\n", "ip", cpu.Ip)
	text += fmt.Sprintf("% 6s: %d\n", "length", cpu.Length)
	text += fmt.Sprintf("% 6s: %d\n", "steps", cpu.Steps)
	text += fmt.Sprintf("% 6s: %v\n", "state", cpu.State)
	text += fmt.Sprintf("% 6s: %v\n", "halt", cpu.Halt)
	return
}

// halt stops the CPU.
func (cpu *Cpu) halt(reason Halt) {
	cpu.State = STATE_HALTED
	cpu.Halt = reason

	if cpu.Verbose {
		log.Printf("cpu: halted (%v) at %04x after %d steps", reason, cpu.Ip, cpu.Steps)
	}
}

// window returns the bytes at the IP, up to WINDOW_SIZE of them.
// The window stops early at the end of memory, or at a cell that does
// not hold a byte value (data written over the program).
func (cpu *Cpu) window() (window []byte) {
	start := int(cpu.Ip)
	end := min(start+WINDOW_SIZE, len(cpu.Memory))
	if start >= end {
		return
	}

	window = make([]byte, 0, WINDOW_SIZE)
	for _, cell := range cpu.Memory[start:end] {
		if cell > 0xff {
			break
		}
		window = append(window, byte(cell))
	}

	return
}

// FetchCode decodes the instruction at the IP.
func (cpu *Cpu) FetchCode() (code Code, size int, err error) {
	code, size, ok := Decode(cpu.window())
	if !ok {
		err = ErrIpEmpty
		return
	}

	return
}

// Tick executes a single CPU instruction cycle.
//
// ErrIpEmpty is returned when the program has ended, or the IP no longer
// points at a decodable instruction. ErrStepLimit is returned once MaxSteps
// instructions have run. After either the CPU is halted, and further ticks
// return ErrHalted.
func (cpu *Cpu) Tick() (err error) {
	if cpu.State != STATE_RUNNING {
		err = ErrHalted
		return
	}

	if int(cpu.Ip) >= cpu.Length {
		cpu.halt(HALT_END)
		err = ErrIpEmpty
		return
	}

	if cpu.MaxSteps > 0 && cpu.Steps >= cpu.MaxSteps {
		cpu.halt(HALT_STEP_LIMIT)
		err = ErrStepLimit
		return
	}

	code, size, err := cpu.FetchCode()
	if err != nil {
		cpu.halt(HALT_DECODE)
		return
	}

	err = cpu.Execute(code)
	if err != nil {
		cpu.halt(HALT_FAULT)
		return
	}

	cpu.Ip += uint32(size)
	cpu.Steps++

	return
}

// Stalled reports that the CPU halted on an undecodable instruction before
// reaching the end of the loaded program, usually because the program wrote
// data over its own code.
func (cpu *Cpu) Stalled() bool {
	return cpu.State == STATE_HALTED && cpu.Halt == HALT_DECODE && int(cpu.Ip) < cpu.Length
}

// Run ticks the CPU until it halts, returning the number of executed
// instructions. Reaching the end of the program, an undecodable
// instruction or the step limit is not an error.
func (cpu *Cpu) Run() (steps int, err error) {
	for {
		err = cpu.Tick()
		if errors.Is(err, ErrIpEmpty) || errors.Is(err, ErrStepLimit) {
			err = nil
			break
		}
		if err != nil {
			break
		}
	}

	steps = cpu.Steps
	return
}

// Execute executes a single decoded instruction.
//
// Execution is not atomic: a failure leaves in place any memory writes
// already made by the instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Ip, code)
	}

	ft, ok := code.Mnemonic.Format()
	if !ok {
		err = ErrMnemonic(code.Mnemonic.String())
		return
	}
	if len(code.Args) != ft.Arity() {
		err = &ErrArgCount{Mnemonic: code.Mnemonic, Expected: ft.Arity(), Got: len(code.Args)}
		return
	}

	args := code.Args

	switch code.Mnemonic {
	case LOAD_CONST:
		// M[B] = C
		err = cpu.store(uint64(args[0]), args[1])
	case READ_MEM:
		// M[C] = M[B]
		var value uint32
		value, err = cpu.load(uint64(args[0]))
		if err != nil {
			return
		}
		err = cpu.store(uint64(args[1]), value)
	case WRITE_MEM:
		// M[M[D] + C] = M[B]
		var base, value uint32
		base, err = cpu.load(uint64(args[2]))
		if err != nil {
			return
		}
		value, err = cpu.load(uint64(args[0]))
		if err != nil {
			return
		}
		err = cpu.store(uint64(base)+uint64(args[1]), value)
	default:
		err = ErrOpcodeUnimplemented
	}

	return
}

// load reads a memory cell.
func (cpu *Cpu) load(address uint64) (value uint32, err error) {
	if address >= uint64(len(cpu.Memory)) {
		err = &ErrAddress{Ip: cpu.Ip, Address: address}
		return
	}

	value = cpu.Memory[address]
	return
}

// store writes a memory cell.
func (cpu *Cpu) store(address uint64, value uint32) (err error) {
	if address >= uint64(len(cpu.Memory)) {
		err = &ErrAddress{Ip: cpu.Ip, Address: address}
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: memory[%d] = %d", cpu.Ip, address, value)
	}

	cpu.Memory[address] = value
	return
}

// Peek returns the value of a memory cell.
func (cpu *Cpu) Peek(address uint32) (value uint32, err error) {
	return cpu.load(uint64(address))
}

// Snapshot returns a copy of memory, indexed by address.
func (cpu *Cpu) Snapshot() Snapshot {
	return Snapshot(slices.Clone(cpu.Memory))
}

// Cells iterates over the non-zero cells in [start, end) of live memory.
func (cpu *Cpu) Cells(start, end uint32) iter.Seq2[uint32, uint32] {
	return Snapshot(cpu.Memory).Cells(start, end)
}

// Snapshot is a read-only view of memory, indexed by address.
type Snapshot []uint32

// Cells iterates over the non-zero cells in [start, end).
// The range is clipped to the size of the snapshot.
func (ss Snapshot) Cells(start, end uint32) iter.Seq2[uint32, uint32] {
	return func(yield func(address, value uint32) bool) {
		limit := uint32(min(uint64(end), uint64(len(ss))))
		for address := start; address < limit; address++ {
			value := ss[address]
			if value == 0 {
				continue
			}
			if !yield(address, value) {
				return
			}
		}
	}
}
