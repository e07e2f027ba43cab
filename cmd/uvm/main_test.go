package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/uvm/cpu"
	uvmio "github.com/ezrec/uvm/io"
	"github.com/ezrec/uvm/translate"
)

// uvm runs the tool, returning what it wrote to stdout and to the log.
func uvm(t *testing.T, args ...string) (stdout string, logged string, err error) {
	t.Helper()

	var logBuf bytes.Buffer
	log.SetOutput(&logBuf)
	defer log.SetOutput(os.Stderr)

	var outBuf bytes.Buffer
	err = run("uvm", args, &outBuf)

	stdout = outBuf.String()
	logged = logBuf.String()
	return
}

func TestRunCompileAndDump(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "copy.asm")
	binary := filepath.Join(dir, "copy.bin")

	_, _, err := uvm(t, "-sample", "copy", "-o", source)
	assert.NoError(err)

	stdout, _, err := uvm(t, "-c", source, "-o", binary, "-l")
	assert.NoError(err)
	assert.True(strings.HasPrefix(stdout, "LOAD_CONST: A=45, B=100, C=10\n"), stdout)
	assert.Contains(stdout, "WRITE_MEM: A=34, B=200, C=5, D=300\n")
	assert.Contains(stdout, "0x2D, 0x19, 0x28, 0x00, 0x00, 0x00, ")

	bin, err := os.ReadFile(binary)
	assert.NoError(err)
	assert.Equal(62, len(bin))

	stdout, logged, err := uvm(t, "-r", binary, "-d", "-", "-start", "1000", "-end", "1010")
	assert.NoError(err)
	assert.Equal("{\n  \"0x3ed\": 10\n}\n", stdout)
	assert.Equal("", logged)

	dump := filepath.Join(dir, "dump.txt")
	_, _, err = uvm(t, "-r", binary, "-d", dump, "-format", "table", "-start", "200", "-end", "205")
	assert.NoError(err)
	text, err := os.ReadFile(dump)
	assert.NoError(err)
	assert.Contains(string(text), "0x00c8")
	assert.Contains(string(text), "0x00cc")
	assert.NotContains(string(text), "0x0064")
}

func TestRunCompileThenRun(t *testing.T) {
	assert := assert.New(t)

	source := filepath.Join(t.TempDir(), "prog.asm")
	err := os.WriteFile(source, []byte("LOAD_CONST 100, 10\nREAD_MEM 100, 200\n"), 0o644)
	assert.NoError(err)

	stdout, _, err := uvm(t, "-c", source, "-d", "-", "-start", "100", "-end", "201")
	assert.NoError(err)
	assert.Equal("{\n  \"0x64\": 10,\n  \"0xc8\": 10\n}\n", stdout)
}

func TestRunStalled(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "simple.asm")
	binary := filepath.Join(dir, "simple.bin")

	_, _, err := uvm(t, "-sample", "simple", "-o", source)
	assert.NoError(err)
	_, _, err = uvm(t, "-c", source, "-o", binary)
	assert.NoError(err)

	stdout, logged, err := uvm(t, "-r", binary, "-d", "-", "-start", "10", "-end", "11")
	assert.NoError(err)
	assert.Equal("{\n  \"0xa\": 12345\n}\n", stdout)
	assert.Contains(logged, "halted (decode) at ip 0x000a")
	assert.Contains(logged, "before the end of the program")
}

func TestRunSteps(t *testing.T) {
	assert := assert.New(t)

	source := filepath.Join(t.TempDir(), "prog.asm")
	err := os.WriteFile(source, []byte("LOAD_CONST 100, 1\nLOAD_CONST 101, 2\nLOAD_CONST 102, 3\n"), 0o644)
	assert.NoError(err)

	stdout, logged, err := uvm(t, "-c", source, "-steps", "2", "-d", "-", "-start", "100", "-end", "103")
	assert.NoError(err)
	assert.Equal("{\n  \"0x64\": 1,\n  \"0x65\": 2\n}\n", stdout)
	assert.Contains(logged, "halted (step-limit) after 2 steps")

	_, _, err = uvm(t, "-c", source, "-steps", "-1")
	assert.ErrorIs(err, ErrMaxSteps)
}

func TestRunDefines(t *testing.T) {
	assert := assert.New(t)

	stdout, _, err := uvm(t, "-defines")
	assert.NoError(err)
	assert.Contains(stdout, "MEMORY_SIZE 65536\n")
	assert.Contains(stdout, "OP_LOAD_CONST 45\n")
	assert.Contains(stdout, "STEP_LIMIT 1000\n")
	assert.True(strings.HasPrefix(stdout, "DUMP_END 1100\n"), stdout)
}

func TestRunFlags(t *testing.T) {
	assert := assert.New(t)

	_, _, err := uvm(t, "extra")
	assert.ErrorIs(err, ErrArguments)

	_, _, err = uvm(t, "-start", "4294967296", "-d", "-")
	assert.ErrorIs(err, uvmio.ErrDumpRange)

	_, _, err = uvm(t, "-end", "65537", "-d", "-")
	assert.ErrorIs(err, uvmio.ErrDumpRange)

	_, _, err = uvm(t, "-start", "200", "-end", "100", "-d", "-")
	assert.ErrorIs(err, uvmio.ErrDumpRange)

	_, _, err = uvm(t, "-format", "xml", "-d", "-")
	assert.ErrorIs(err, uvmio.ErrDumpFormat)

	_, _, err = uvm(t, "-sample", "missing")
	assert.Error(err)

	_, _, err = uvm(t, "-c", filepath.Join(t.TempDir(), "missing.asm"))
	assert.ErrorIs(err, os.ErrNotExist)

	// The whole of memory may be dumped.
	stdout, _, err := uvm(t, "-start", "0", "-end", "65536", "-d", "-")
	assert.NoError(err)
	assert.Equal("{}\n", stdout)
}

func TestRunAssembleError(t *testing.T) {
	assert := assert.New(t)

	source := filepath.Join(t.TempDir(), "bad.asm")
	assert.NoError(os.WriteFile(source, []byte("LOAD_CONST 100\n"), 0o644))

	_, _, err := uvm(t, "-c", source)
	assert.ErrorIs(err, cpu.ErrArity)
	assert.Contains(err.Error(), source)
}

func TestRunStepsDefault(t *testing.T) {
	assert := assert.New(t)

	source := filepath.Join(t.TempDir(), "long.asm")
	program := strings.Repeat("READ_MEM 4095, 4094\n", cpu.STEP_LIMIT+1)
	assert.NoError(os.WriteFile(source, []byte(program), 0o644))

	_, logged, err := uvm(t, "-c", source, "-d", "-")
	assert.NoError(err)
	assert.Contains(logged, "halted (step-limit) after 1000 steps")

	_, logged, err = uvm(t, "-c", source, "-steps", "0", "-d", "-")
	assert.NoError(err)
	assert.Equal("", logged)
}

func TestRunLang(t *testing.T) {
	assert := assert.New(t)

	defer translate.Use()

	stdout, _, err := uvm(t, "-lang", "en-GB", "-defines")
	assert.NoError(err)
	assert.Contains(stdout, "MEMORY_SIZE 65536\n")

	source := filepath.Join(t.TempDir(), "bad.asm")
	assert.NoError(os.WriteFile(source, []byte("LOAD_CONST 1 2 3\n"), 0o644))
	_, _, err = uvm(t, "-lang", "en-US", "-c", source)
	assert.ErrorIs(err, cpu.ErrArity)
}
