package io

import (
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/uvm/cpu"
)

// WriteListing writes the intermediate form of each instruction, one per line.
func WriteListing(output io.Writer, prog *cpu.Program) (err error) {
	for _, code := range prog.Codes() {
		_, err = fmt.Fprintln(output, code.Intermediate())
		if err != nil {
			return
		}
	}

	return
}

// WriteHex writes a binary as a comma separated list of hex bytes.
func WriteHex(output io.Writer, bin []byte) (err error) {
	hex := make([]string, len(bin))
	for n, data := range bin {
		hex[n] = fmt.Sprintf("0x%02X", data)
	}

	_, err = fmt.Fprintln(output, strings.Join(hex, ", "))
	return
}
