// Package cpu implements the μVM processor and its assembler.
//
// The machine has no registers: a single program counter (PC) walks a flat
// memory of 65536 cells. The loaded program occupies the low cells, one byte
// per cell, and instructions are free to read or write any cell, including
// the ones holding code.
//
// Instructions are variable length (4 or 6 byte) little-endian frames with a
// 6-bit opcode in the low bits, followed by the operand fields. Since the
// frame size is not stored in the stream, the decoder tries the 6-byte
// interpretation first and the 4-byte one second; this is unambiguous only
// because no opcode is shared between the two size classes.
//
// The assembler accepts one instruction per line, with ';' comments, equates,
// labels, macros, and compile-time $(...) expressions.
package cpu
