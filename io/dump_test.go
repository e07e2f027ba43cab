package io

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/uvm/cpu"
)

func testMemory() cpu.Snapshot {
	mem := make(cpu.Snapshot, cpu.MEMORY_SIZE)
	mem[100] = 10
	mem[1005] = 10
	mem[2000] = 0xdeadbeef
	return mem
}

func TestDump_JSON(t *testing.T) {
	assert := assert.New(t)

	dump := &Dump{Start: 0, End: 1100, Format: DUMP_FORMAT_JSON}

	var buf bytes.Buffer
	err := dump.Write(&buf, testMemory())
	assert.NoError(err)
	assert.Equal("{\n  \"0x64\": 10,\n  \"0x3ed\": 10\n}\n", buf.String())

	values := map[string]uint32{}
	assert.NoError(json.Unmarshal(buf.Bytes(), &values))
	assert.Equal(map[string]uint32{"0x64": 10, "0x3ed": 10}, values)
}

func TestDump_JSON_Empty(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	dump := &Dump{Start: 101, End: 1005}
	assert.NoError(dump.Write(&buf, testMemory()))
	assert.Equal("{}\n", buf.String())

	buf.Reset()
	dump = &Dump{Start: 5, End: 5}
	assert.NoError(dump.Write(&buf, testMemory()))
	assert.Equal("{}\n", buf.String())
}

func TestDump_Range(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer

	// The end address is exclusive.
	dump := &Dump{Start: 100, End: 1005}
	assert.NoError(dump.Write(&buf, testMemory()))
	assert.Equal("{\n  \"0x64\": 10\n}\n", buf.String())

	buf.Reset()
	dump = &Dump{Start: 1000, End: 0xffffffff}
	assert.NoError(dump.Write(&buf, testMemory()))
	assert.Equal("{\n  \"0x3ed\": 10,\n  \"0x7d0\": 3735928559\n}\n", buf.String())

	buf.Reset()
	dump = &Dump{Start: 200, End: 100}
	err := dump.Write(&buf, testMemory())
	assert.ErrorIs(err, ErrDumpRange)
	assert.Equal(0, buf.Len())
}

func TestDump_Table(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	dump := &Dump{Start: 0, End: cpu.MEMORY_SIZE, Format: DUMP_FORMAT_TABLE}
	assert.NoError(dump.Write(&buf, testMemory()))

	text := buf.String()
	assert.Contains(text, "Address")
	assert.Contains(text, "0x0064")
	assert.Contains(text, "0x03ed")
	assert.Contains(text, "0x07d0")
	assert.Contains(text, "0xdeadbeef")
	assert.Contains(text, "3735928559")

	// Header, two rulers, a bottom ruler, and one row per cell.
	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Equal(7, len(lines))
}

func TestDump_Format(t *testing.T) {
	assert := assert.New(t)

	df, err := ParseDumpFormat("json")
	assert.NoError(err)
	assert.Equal(DUMP_FORMAT_JSON, df)

	df, err = ParseDumpFormat("table")
	assert.NoError(err)
	assert.Equal(DUMP_FORMAT_TABLE, df)
	assert.Equal("table", df.String())

	_, err = ParseDumpFormat("xml")
	assert.ErrorIs(err, ErrDumpFormat)

	dump := &Dump{End: 10, Format: DumpFormat(7)}
	err = dump.Write(&bytes.Buffer{}, testMemory())
	assert.ErrorIs(err, ErrDumpFormat)
	assert.Equal("DumpFormat(7)", DumpFormat(7).String())
}

func TestDump_LiveCpu(t *testing.T) {
	assert := assert.New(t)

	proc := cpu.NewCpu()
	_, err := proc.Load([]byte{0x2d, 0x19, 0x28, 0x00, 0x00, 0x00})
	assert.NoError(err)
	_, err = proc.Run()
	assert.NoError(err)

	var buf bytes.Buffer
	dump := &Dump{Start: 0, End: 1100}
	assert.NoError(dump.Write(&buf, proc))
	assert.Equal("{\n  \"0x0\": 45,\n  \"0x1\": 25,\n  \"0x2\": 40,\n  \"0x64\": 10\n}\n", buf.String())
}
