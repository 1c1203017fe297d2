package isa

import "fmt"

// DecodeErrorKind enumerates the ways a 32-bit word can fail to decode.
type DecodeErrorKind uint8

const (
	InvalidOpcode DecodeErrorKind = iota
	InvalidRegister
	MalformedInstruction
)

func (k DecodeErrorKind) String() string {
	switch k {
	case InvalidOpcode:
		return "invalid opcode"
	case InvalidRegister:
		return "invalid register"
	case MalformedInstruction:
		return "malformed instruction"
	default:
		return "unknown decode error"
	}
}

// DecodeError is returned by Decode/DecodeBytes on a malformed word.
type DecodeError struct {
	Kind DecodeErrorKind
	Word uint32
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: word 0x%08x", e.Kind, e.Word)
}

// Encode places an instruction's fields at their fixed bit positions and
// returns the 32-bit word.
func Encode(inst Instruction) uint32 {
	return inst.Encode()
}

// EncodeBytes returns the little-endian byte split of Encode(inst): byte 0
// is the low-order byte.
func EncodeBytes(inst Instruction) [4]byte {
	w := Encode(inst)
	return [4]byte{
		byte(w),
		byte(w >> 8),
		byte(w >> 16),
		byte(w >> 24),
	}
}

func validReg(v uint8) bool { return v <= uint8(SP) }

// Decode extracts the opcode from bits [31:24], looks up its format,
// validates any register fields used by that format, and constructs the
// matching instruction variant.
func Decode(w uint32) (Instruction, error) {
	op := Opcode(w >> 24)
	format, known := FormatOf(op)
	if !known {
		return nil, &DecodeError{Kind: InvalidOpcode, Word: w}
	}

	a1 := uint8(w >> 16)
	a2 := uint8(w >> 8)
	a3 := uint8(w)

	switch format {
	case FormatOp:
		return InstOp{Op: op}, nil

	case FormatOpReg:
		if !validReg(a1) {
			return nil, &DecodeError{Kind: InvalidRegister, Word: w}
		}
		return InstOpReg{Op: op, A: Reg(a1)}, nil

	case FormatOpImm24:
		return InstOpImm24{Op: op, Addr: w & 0xFFFFFF}, nil

	case FormatOpRegImm16:
		if !validReg(a1) {
			return nil, &DecodeError{Kind: InvalidRegister, Word: w}
		}
		return InstOpRegImm16{Op: op, A: Reg(a1), Imm: uint16(w & 0xFFFF)}, nil

	case FormatOpRegReg:
		if !validReg(a1) || !validReg(a2) {
			return nil, &DecodeError{Kind: InvalidRegister, Word: w}
		}
		return InstOpRegReg{Op: op, A: Reg(a1), B: Reg(a2)}, nil

	case FormatOpRegRegImm8:
		if !validReg(a1) || !validReg(a2) {
			return nil, &DecodeError{Kind: InvalidRegister, Word: w}
		}
		return InstOpRegRegImm8{Op: op, A: Reg(a1), B: Reg(a2), Offset: a3}, nil

	case FormatOpRegImm8x2:
		if !validReg(a1) {
			return nil, &DecodeError{Kind: InvalidRegister, Word: w}
		}
		return InstOpRegImm8x2{Op: op, A: Reg(a1), V0: a2, V1: a3}, nil

	case FormatOpRegRegReg:
		if !validReg(a1) || !validReg(a2) || !validReg(a3) {
			return nil, &DecodeError{Kind: InvalidRegister, Word: w}
		}
		return InstOpRegRegReg{Op: op, A: Reg(a1), B: Reg(a2), C: Reg(a3)}, nil

	default:
		return nil, &DecodeError{Kind: InvalidOpcode, Word: w}
	}
}

// DecodeBytes composes a little-endian word from at least 4 bytes and
// delegates to Decode.
func DecodeBytes(b []byte) (Instruction, error) {
	if len(b) < 4 {
		return nil, &DecodeError{Kind: MalformedInstruction}
	}
	w := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return Decode(w)
}

// EncodeSequence encodes a slice of instructions to a flat byte buffer,
// four bytes per instruction, in order.
func EncodeSequence(insts []Instruction) []byte {
	out := make([]byte, 0, len(insts)*4)
	for _, inst := range insts {
		b := EncodeBytes(inst)
		out = append(out, b[0], b[1], b[2], b[3])
	}
	return out
}

// DecodeSequence decodes a byte buffer whose length must be a multiple of
// 4 into a slice of instructions, stopping at the first decode error.
func DecodeSequence(b []byte) ([]Instruction, error) {
	if len(b)%4 != 0 {
		return nil, &DecodeError{Kind: MalformedInstruction}
	}
	out := make([]Instruction, 0, len(b)/4)
	for i := 0; i < len(b); i += 4 {
		inst, err := DecodeBytes(b[i : i+4])
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}
