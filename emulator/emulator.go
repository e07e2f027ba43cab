// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/internal"
)

const (
	DUMP_START = 0    // Default first address of a memory dump.
	DUMP_END   = 1100 // Default end address (exclusive) of a memory dump.
)

var _emulator_defines = map[string]string{
	"DUMP_START": fmt.Sprintf("%v", DUMP_START),
	"DUMP_END":   fmt.Sprintf("%v", DUMP_END),
}

// Emulator state. CPU + the program listing it runs.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble parses assembly source into the emulator's program, with the
// emulator defines available as equates.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Reset the emulator: encode the program, and load it into the CPU.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	bin, err := emu.Program.Binary()
	if err != nil {
		return
	}

	_, err = emu.Cpu.Load(bin)
	return
}

// LoadBinary loads an already assembled binary, without a listing.
func (emu *Emulator) LoadBinary(bin []byte) (err error) {
	emu.Cpu.Verbose = emu.Verbose

	_, err = emu.Cpu.Load(bin)
	if err != nil {
		return
	}

	emu.Program = &cpu.Program{}
	return
}

// Steps returns the instructions executed since a reset.
func (emu *Emulator) Steps() int {
	return emu.Cpu.Steps
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Cpu.Ip)
}

// Code returns the current instruction code from the listing.
func (emu *Emulator) Code() cpu.Code {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return cpu.Code{}
	}

	return dbg.Code
}

// LineNo returns the current line number for the executing opcode,
// or 0 if the IP is not at a listed opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// done is set once the CPU has halted, for any reason.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	ip := emu.Cpu.Ip
	lineno := emu.LineNo()
	code := emu.Code()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: ip, Code: code, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	switch {
	case errors.Is(err, cpu.ErrIpEmpty),
		errors.Is(err, cpu.ErrStepLimit),
		errors.Is(err, cpu.ErrHalted):
		err = nil
	}

	done = emu.Cpu.State == cpu.STATE_HALTED

	return
}

// Run ticks the emulator until the CPU halts.
func (emu *Emulator) Run() (steps int, err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			break
		}
	}

	steps = emu.Cpu.Steps
	return
}
