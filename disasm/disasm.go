// Package disasm renders IRRE instruction words as human-readable
// assembly text. Unlike the codec's DecodeSequence, it never aborts on a
// malformed word: a bad word becomes an inline error comment and
// disassembly continues with the next word.
package disasm

import (
	"fmt"
	"strings"

	"irre/isa"
	"irre/objfile"
)

// AddressFormat selects how the address column is rendered.
type AddressFormat uint8

const (
	AddressHex AddressFormat = iota
	AddressDecimal
)

// Options controls which optional columns appear in each disassembly
// line.
type Options struct {
	ShowAddress  bool
	ShowHexBytes bool
	AddrFormat   AddressFormat
}

// Basic is the column-free, address-free rendering used by round-trip
// checks: mnemonic and operands only.
var Basic = Options{}

// Annotated shows every column, used by the CLI's -annotated listing mode.
var Annotated = Options{ShowAddress: true, ShowHexBytes: true}

// Line renders one decoded instruction (or decode failure) at the given
// byte address, according to opts.
func Line(addr uint32, word uint32, opts Options) string {
	var b strings.Builder
	if opts.ShowAddress {
		b.WriteString(formatAddress(addr, opts.AddrFormat))
		b.WriteByte(' ')
	}
	if opts.ShowHexBytes {
		fmt.Fprintf(&b, "%08x ", word)
	}

	inst, err := isa.Decode(word)
	if err != nil {
		b0, b1, b2, b3 := byte(word), byte(word>>8), byte(word>>16), byte(word>>24)
		fmt.Fprintf(&b, "; ERROR: %s (0x%08x = %02x %02x %02x %02x)", err, word, b0, b1, b2, b3)
		return b.String()
	}
	b.WriteString(instructionText(inst))
	return b.String()
}

func formatAddress(addr uint32, format AddressFormat) string {
	if format == AddressDecimal {
		return fmt.Sprintf("%-8d", addr)
	}
	return fmt.Sprintf("0x%04x", addr)
}

// instructionText formats a decoded instruction's mnemonic and operands.
// Numeric operands are hex with a width matching their field: 6 digits
// for 24-bit, 4 for 16-bit, 2 for 8-bit.
func instructionText(inst isa.Instruction) string {
	mnemonic, _ := isa.Mnemonic(inst.Opcode())
	switch v := inst.(type) {
	case isa.InstOp:
		return mnemonic
	case isa.InstOpReg:
		return fmt.Sprintf("%s %s", mnemonic, v.A)
	case isa.InstOpImm24:
		return fmt.Sprintf("%s 0x%06x", mnemonic, v.Addr&0xFFFFFF)
	case isa.InstOpRegImm16:
		return fmt.Sprintf("%s %s 0x%04x", mnemonic, v.A, v.Imm)
	case isa.InstOpRegReg:
		return fmt.Sprintf("%s %s %s", mnemonic, v.A, v.B)
	case isa.InstOpRegRegImm8:
		return fmt.Sprintf("%s %s %s 0x%02x", mnemonic, v.A, v.B, v.Offset)
	case isa.InstOpRegImm8x2:
		return fmt.Sprintf("%s %s 0x%02x 0x%02x", mnemonic, v.A, v.V0, v.V1)
	case isa.InstOpRegRegReg:
		return fmt.Sprintf("%s %s %s %s", mnemonic, v.A, v.B, v.C)
	default:
		return mnemonic
	}
}

// DisassembleBytes decodes a raw byte slice 4 bytes at a time, tolerating
// malformed words. baseAddr is the address of the first byte, used for
// the address column.
func DisassembleBytes(b []byte, baseAddr uint32, opts Options) ([]string, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("input length %d is not a multiple of 4", len(b))
	}
	lines := make([]string, 0, len(b)/4)
	for i := 0; i < len(b); i += 4 {
		word := uint32(b[i]) | uint32(b[i+1])<<8 | uint32(b[i+2])<<16 | uint32(b[i+3])<<24
		lines = append(lines, Line(baseAddr+uint32(i), word, opts))
	}
	return lines, nil
}

// DisassembleObjectFile renders an object file's code section, and in
// annotated mode a header block describing the file plus a trailing raw
// hex dump of the data section.
func DisassembleObjectFile(f *objfile.File, opts Options) (string, error) {
	var b strings.Builder
	if opts == Annotated {
		instCount := len(f.Code) / 4
		fmt.Fprintf(&b, "; entry offset: 0x%04x\n", f.EntryOffset)
		fmt.Fprintf(&b, "; code size: %d bytes (%d instructions)\n", len(f.Code), instCount)
		fmt.Fprintf(&b, "; data size: %d bytes\n", len(f.Data))
	}
	lines, err := DisassembleBytes(f.Code, 0, opts)
	if err != nil {
		return "", err
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if opts == Annotated && len(f.Data) > 0 {
		b.WriteString("; data section\n")
		for i := 0; i < len(f.Data); i += 16 {
			end := i + 16
			if end > len(f.Data) {
				end = len(f.Data)
			}
			fmt.Fprintf(&b, "0x%04x ", i)
			for _, c := range f.Data[i:end] {
				fmt.Fprintf(&b, "%02x ", c)
			}
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
