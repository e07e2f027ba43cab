package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// DumpFormat is the output format of a memory dump.
type DumpFormat int

const (
	DUMP_FORMAT_JSON  = DumpFormat(0) // json
	DUMP_FORMAT_TABLE = DumpFormat(1) // table
)

func (df DumpFormat) String() string {
	switch df {
	case DUMP_FORMAT_JSON:
		return "json"
	case DUMP_FORMAT_TABLE:
		return "table"
	}
	return fmt.Sprintf("DumpFormat(%d)", int(df))
}

// ParseDumpFormat returns the dump format by name.
func ParseDumpFormat(name string) (df DumpFormat, err error) {
	switch name {
	case "json":
		df = DUMP_FORMAT_JSON
	case "table":
		df = DUMP_FORMAT_TABLE
	default:
		err = fmt.Errorf("%w: %v", ErrDumpFormat, name)
	}
	return
}

// Memory is a source of non-zero memory cells, by address.
type Memory interface {
	Cells(start, end uint32) iter.Seq2[uint32, uint32]
}

// Dump writes the non-zero cells of a memory range.
type Dump struct {
	Start  uint32 // First address.
	End    uint32 // Last address, exclusive.
	Format DumpFormat
}

// Write the dump in its format.
func (dump *Dump) Write(output io.Writer, mem Memory) (err error) {
	if dump.Start > dump.End {
		err = fmt.Errorf("%w: 0x%x > 0x%x", ErrDumpRange, dump.Start, dump.End)
		return
	}

	switch dump.Format {
	case DUMP_FORMAT_JSON:
		err = dump.WriteJSON(output, mem)
	case DUMP_FORMAT_TABLE:
		err = dump.WriteTable(output, mem)
	default:
		err = fmt.Errorf("%w: %v", ErrDumpFormat, dump.Format)
	}

	return
}

// WriteJSON writes the dump as a JSON object mapping lower-case hex
// addresses to values, ie {"0x64": 10}, in address order.
func (dump *Dump) WriteJSON(output io.Writer, mem Memory) (err error) {
	bw := bufio.NewWriter(output)

	count := 0
	for address, value := range mem.Cells(dump.Start, dump.End) {
		var key []byte
		key, err = json.Marshal(fmt.Sprintf("0x%x", address))
		if err != nil {
			return
		}
		if count == 0 {
			bw.WriteString("{\n")
		} else {
			bw.WriteString(",\n")
		}
		fmt.Fprintf(bw, "  %s: %d", key, value)
		count++
	}

	if count == 0 {
		bw.WriteString("{}\n")
	} else {
		bw.WriteString("\n}\n")
	}

	err = bw.Flush()
	return
}

// WriteTable writes the dump as a text table.
func (dump *Dump) WriteTable(output io.Writer, mem Memory) (err error) {
	table := tablewriter.NewWriter(output)
	table.SetHeader([]string{"Address", "Hex", "Value"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoFormatHeaders(false)

	for address, value := range mem.Cells(dump.Start, dump.End) {
		table.Append([]string{
			fmt.Sprintf("0x%04x", address),
			fmt.Sprintf("0x%x", value),
			strconv.FormatUint(uint64(value), 10),
		})
	}

	table.Render()
	return
}
