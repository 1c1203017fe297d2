package asm

import "irre/isa"

// slotKind describes what a single operand position of a format accepts,
// mirroring the "type shape" column of the validator's operand table.
type slotKind uint8

const (
	slotRegister slotKind = iota
	slotRegisterOrImmediate // op_reg only: a bare number names a register by index
	slotImmediate
)

// shape is the ordered list of operand slots for a format, plus the bit
// width immediate slots are narrowed to.
type shape struct {
	slots  []slotKind
	widths []int // width in bits per slot; 0 for register slots
}

var formatShapes = map[isa.Format]shape{
	isa.FormatOp:           {slots: nil, widths: nil},
	isa.FormatOpReg:        {slots: []slotKind{slotRegisterOrImmediate}, widths: []int{0}},
	isa.FormatOpImm24:      {slots: []slotKind{slotImmediate}, widths: []int{24}},
	isa.FormatOpRegImm16:   {slots: []slotKind{slotRegister, slotImmediate}, widths: []int{0, 16}},
	isa.FormatOpRegReg:     {slots: []slotKind{slotRegister, slotRegister}, widths: []int{0, 0}},
	isa.FormatOpRegRegImm8: {slots: []slotKind{slotRegister, slotRegister, slotImmediate}, widths: []int{0, 0, 8}},
	isa.FormatOpRegImm8x2:  {slots: []slotKind{slotRegister, slotImmediate, slotImmediate}, widths: []int{0, 8, 8}},
	isa.FormatOpRegRegReg:  {slots: []slotKind{slotRegister, slotRegister, slotRegister}, widths: []int{0, 0, 0}},
}

// classifyToken turns a raw operand token into an Operand, without regard
// to which slot it will fill. Registers and numeric literals are
// recognized outright; anything else is treated as a label reference,
// deferred to symbol resolution.
func classifyToken(tok string) (Operand, error) {
	if r, ok := isa.ParseReg(tok); ok {
		return Operand{Kind: OperandRegister, Reg: r}, nil
	}
	if v, ok, err := ParseNumeric(tok); err != nil {
		return Operand{}, err
	} else if ok {
		return Operand{Kind: OperandImmediate, Value: v}, nil
	}
	return Operand{Kind: OperandLabel, Label: tok}, nil
}

// immediateRange reports whether v (a uint32 two's-complement carrier) is
// representable in an N-bit immediate field: v <= 2^N-1, or v is the
// wraparound of a negative number that fits in N bits.
func immediateRange(v uint32, width int) bool {
	if width <= 0 || width >= 32 {
		return true
	}
	maxUnsigned := uint32(1)<<uint(width) - 1
	if v <= maxUnsigned {
		return true
	}
	minNegative := 0 - uint32(1)<<uint(width-1)
	return v >= minNegative
}

func narrow(v uint32, width int) uint32 {
	if width <= 0 || width >= 32 {
		return v
	}
	return v & (uint32(1)<<uint(width) - 1)
}
