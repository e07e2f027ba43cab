// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/emulator"
	"github.com/ezrec/uvm/internal"
	uvmio "github.com/ezrec/uvm/io"
	"github.com/ezrec/uvm/samples"
	"github.com/ezrec/uvm/translate"
)

func main() {
	err := run(os.Args[0], os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
}

// run is the whole command line tool, writing its results to stdout.
func run(name string, args []string, stdout io.Writer) (err error) {
	var compile string
	var output string
	var listing bool
	var binary string
	var dump string
	var start uint
	var end uint
	var format string
	var steps int
	var configFile string
	var sample string
	var defines bool
	var verbose bool
	var lang string

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.StringVar(&compile, "c", "", ".asm file to compile")
	flags.StringVar(&output, "o", "", "Binary (or sample) output file")
	flags.BoolVar(&listing, "l", false, "Print intermediate and hex listing")
	flags.StringVar(&binary, "r", "", ".bin file to run")
	flags.StringVar(&dump, "d", "", "Memory dump output after running ('-' for stdout)")
	flags.UintVar(&start, "start", emulator.DUMP_START, "First address of the memory dump")
	flags.UintVar(&end, "end", emulator.DUMP_END, "End address (exclusive) of the memory dump")
	flags.StringVar(&format, "format", "json", "Memory dump format: json or table")
	flags.IntVar(&steps, "steps", cpu.STEP_LIMIT, "Maximum instructions to run (0 for no limit)")
	flags.StringVar(&configFile, "config", "", ".toml configuration file")
	flags.StringVar(&sample, "sample", "", "Write a sample program source")
	flags.BoolVar(&defines, "defines", false, "Print the predefined equates")
	flags.BoolVar(&verbose, "v", false, "Verbose mode")
	flags.StringVar(&lang, "lang", "", "Message locale, ie 'en-US'")

	err = flags.Parse(args)
	if err != nil {
		return
	}

	if flags.NArg() != 0 {
		err = fmt.Errorf("%w: %v", ErrArguments, flags.Args())
		return
	}

	config, err := LoadConfig(configFile)
	if err != nil {
		err = fmt.Errorf("%v: %w", configFile, err)
		return
	}

	// Flags given on the command line override the configuration file.
	var errs []error
	flags.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "start":
			if start > cpu.MEMORY_SIZE {
				errs = append(errs, fmt.Errorf("%w: -start 0x%x", uvmio.ErrDumpRange, start))
				break
			}
			config.Dump.Start = uint32(start)
		case "end":
			if end > cpu.MEMORY_SIZE {
				errs = append(errs, fmt.Errorf("%w: -end 0x%x", uvmio.ErrDumpRange, end))
				break
			}
			config.Dump.End = uint32(end)
		case "format":
			config.Dump.Format = format
		case "steps":
			config.MaxSteps = steps
		case "v":
			config.Verbose = verbose
		case "lang":
			config.Lang = lang
		}
	})
	err = errors.Join(errs...)
	if err != nil {
		return
	}

	err = config.Validate()
	if err != nil {
		return
	}

	if len(config.Lang) != 0 {
		tag := translate.Use(config.Lang)
		if config.Verbose {
			log.Printf("locale: %v", tag)
		}
	}

	emu := emulator.NewEmulator()
	emu.Verbose = config.Verbose
	emu.Cpu.MaxSteps = config.MaxSteps

	if len(sample) != 0 {
		var text string
		text, err = samples.Source(sample)
		if err != nil {
			err = fmt.Errorf("%v: %w", sample, err)
			return
		}
		err = writeOutput(output, []byte(text), stdout)
		return
	}

	if defines {
		for key, value := range internal.IterSeq2Sorted(emu.Defines()) {
			fmt.Fprintf(stdout, "%v %v\n", key, value)
		}
		return
	}

	source := compile

	// Compile a new instruction stream.
	if len(compile) != 0 {
		err = assemble(emu, compile, output, listing, stdout)
		if err != nil {
			return
		}
	}

	if len(binary) != 0 {
		source = binary
		err = load(emu, binary)
		if err != nil {
			return
		}
	}

	if len(binary) == 0 && len(dump) == 0 {
		return
	}

	steps_run, err := emu.Run()
	if err != nil {
		err = fmt.Errorf("%v: %w", source, err)
		return
	}

	if config.Verbose {
		log.Printf("%d steps\n%v", steps_run, emu.Cpu.String())
	}

	if emu.Cpu.Stalled() {
		log.Printf("%v: halted (%v) at ip 0x%04x, line %d, before the end of the program",
			source, emu.Cpu.Halt, emu.Cpu.Ip, emu.LineNo())
	}

	if emu.Cpu.Halt == cpu.HALT_STEP_LIMIT {
		log.Printf("%v: halted (%v) after %d steps", source, emu.Cpu.Halt, steps_run)
	}

	if len(dump) == 0 {
		return
	}

	df, err := uvmio.ParseDumpFormat(config.Dump.Format)
	if err != nil {
		return
	}

	memDump := &uvmio.Dump{Start: config.Dump.Start, End: config.Dump.End, Format: df}

	ouf := stdout
	if dump != "-" {
		var file *os.File
		file, err = os.Create(dump)
		if err != nil {
			return
		}
		defer file.Close()
		ouf = file
	}

	err = memDump.Write(ouf, emu.Cpu)
	if err != nil {
		err = fmt.Errorf("%v: %w", dump, err)
		return
	}

	return
}

// assemble compiles a source file into the emulator, optionally writing the
// listing and the binary.
func assemble(emu *emulator.Emulator, compile string, output string, listing bool, stdout io.Writer) (err error) {
	inf, err := os.Open(compile)
	if err != nil {
		return
	}
	defer inf.Close()

	defer func() {
		if err != nil {
			err = fmt.Errorf("%v: %w", compile, err)
		}
	}()

	err = emu.Assemble(inf)
	if err != nil {
		return
	}

	bin, err := emu.Program.Binary()
	if err != nil {
		return
	}

	if listing {
		err = uvmio.WriteListing(stdout, emu.Program)
		if err != nil {
			return
		}
		err = uvmio.WriteHex(stdout, bin)
		if err != nil {
			return
		}
	}

	if len(output) != 0 {
		err = writeOutput(output, bin, stdout)
		if err != nil {
			return
		}
		if emu.Verbose {
			log.Printf("%v: %d bytes", output, len(bin))
		}
	}

	err = emu.Reset()
	return
}

// load reads a binary file into the emulator.
func load(emu *emulator.Emulator, binary string) (err error) {
	inf, err := os.Open(binary)
	if err != nil {
		return
	}
	defer inf.Close()

	bin, err := uvmio.ReadBinary(inf)
	if err == nil {
		err = emu.LoadBinary(bin)
	}
	if err != nil {
		err = fmt.Errorf("%v: %w", binary, err)
		return
	}

	return
}

// writeOutput writes data to a file, or stdout for "" and "-".
func writeOutput(path string, data []byte, stdout io.Writer) (err error) {
	if len(path) == 0 || path == "-" {
		_, err = stdout.Write(data)
		return
	}

	err = os.WriteFile(path, data, 0o644)
	return
}
