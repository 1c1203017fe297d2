package isa

// Instruction is the closed sum type over the eight instruction formats.
// Concrete instructions type-assert or type-switch on the eight structs
// below rather than through virtual dispatch: the set is fixed and known
// at compile time.
type Instruction interface {
	Opcode() Opcode
	Format() Format
	Encode() uint32
	isInstruction()
}

// InstOp carries no operands (nop, ret, hlt).
type InstOp struct {
	Op Opcode
}

func (i InstOp) Opcode() Opcode  { return i.Op }
func (i InstOp) Format() Format  { return FormatOp }
func (i InstOp) Encode() uint32  { return uint32(i.Op) << 24 }
func (InstOp) isInstruction() {}

// InstOpReg carries a single register operand (jmp, cal).
type InstOpReg struct {
	Op Opcode
	A  Reg
}

func (i InstOpReg) Opcode() Opcode { return i.Op }
func (i InstOpReg) Format() Format { return FormatOpReg }
func (i InstOpReg) Encode() uint32 { return uint32(i.Op)<<24 | uint32(i.A)<<16 }
func (InstOpReg) isInstruction() {}

// InstOpImm24 carries a 24-bit immediate (jmi, int).
type InstOpImm24 struct {
	Op   Opcode
	Addr uint32
}

func (i InstOpImm24) Opcode() Opcode { return i.Op }
func (i InstOpImm24) Format() Format { return FormatOpImm24 }
func (i InstOpImm24) Encode() uint32 { return uint32(i.Op)<<24 | (i.Addr & 0xFFFFFF) }
func (InstOpImm24) isInstruction() {}

// InstOpRegImm16 carries a register and a 16-bit immediate (set, sup).
type InstOpRegImm16 struct {
	Op  Opcode
	A   Reg
	Imm uint16
}

func (i InstOpRegImm16) Opcode() Opcode { return i.Op }
func (i InstOpRegImm16) Format() Format { return FormatOpRegImm16 }
func (i InstOpRegImm16) Encode() uint32 {
	return uint32(i.Op)<<24 | uint32(i.A)<<16 | uint32(i.Imm)
}
func (InstOpRegImm16) isInstruction() {}

// InstOpRegReg carries two registers (mov, not, sxt).
type InstOpRegReg struct {
	Op   Opcode
	A, B Reg
}

func (i InstOpRegReg) Opcode() Opcode { return i.Op }
func (i InstOpRegReg) Format() Format { return FormatOpRegReg }
func (i InstOpRegReg) Encode() uint32 {
	return uint32(i.Op)<<24 | uint32(i.A)<<16 | uint32(i.B)<<8
}
func (InstOpRegReg) isInstruction() {}

// InstOpRegRegImm8 carries two registers and an 8-bit immediate (ldw, stw,
// ldb, stb, bve, bvn, seq).
type InstOpRegRegImm8 struct {
	Op     Opcode
	A, B   Reg
	Offset uint8
}

func (i InstOpRegRegImm8) Opcode() Opcode { return i.Op }
func (i InstOpRegRegImm8) Format() Format { return FormatOpRegRegImm8 }
func (i InstOpRegRegImm8) Encode() uint32 {
	return uint32(i.Op)<<24 | uint32(i.A)<<16 | uint32(i.B)<<8 | uint32(i.Offset)
}
func (InstOpRegRegImm8) isInstruction() {}

// InstOpRegImm8x2 carries a register and two 8-bit immediates (sia).
type InstOpRegImm8x2 struct {
	Op     Opcode
	A      Reg
	V0, V1 uint8
}

func (i InstOpRegImm8x2) Opcode() Opcode { return i.Op }
func (i InstOpRegImm8x2) Format() Format { return FormatOpRegImm8x2 }
func (i InstOpRegImm8x2) Encode() uint32 {
	return uint32(i.Op)<<24 | uint32(i.A)<<16 | uint32(i.V0)<<8 | uint32(i.V1)
}
func (InstOpRegImm8x2) isInstruction() {}

// InstOpRegRegReg carries three registers (add, sub, mul, div, mod, and,
// orr, xor, lsh, ash, tcu, tcs, snd).
type InstOpRegRegReg struct {
	Op      Opcode
	A, B, C Reg
}

func (i InstOpRegRegReg) Opcode() Opcode { return i.Op }
func (i InstOpRegRegReg) Format() Format { return FormatOpRegRegReg }
func (i InstOpRegRegReg) Encode() uint32 {
	return uint32(i.Op)<<24 | uint32(i.A)<<16 | uint32(i.B)<<8 | uint32(i.C)
}
func (InstOpRegRegReg) isInstruction() {}

// Make holds convenience constructors for common instructions, mirroring
// the reference implementation's make:: namespace.
var Make = struct {
	Op           func(op Opcode) Instruction
	OpReg        func(op Opcode, a Reg) Instruction
	OpImm24      func(op Opcode, addr uint32) Instruction
	OpRegImm16   func(op Opcode, a Reg, imm uint16) Instruction
	OpRegReg     func(op Opcode, a, b Reg) Instruction
	OpRegRegImm8 func(op Opcode, a, b Reg, offset uint8) Instruction
	OpRegImm8x2  func(op Opcode, a Reg, v0, v1 uint8) Instruction
	OpRegRegReg  func(op Opcode, a, b, c Reg) Instruction
}{
	Op:           func(op Opcode) Instruction { return InstOp{Op: op} },
	OpReg:        func(op Opcode, a Reg) Instruction { return InstOpReg{Op: op, A: a} },
	OpImm24:      func(op Opcode, addr uint32) Instruction { return InstOpImm24{Op: op, Addr: addr} },
	OpRegImm16:   func(op Opcode, a Reg, imm uint16) Instruction { return InstOpRegImm16{Op: op, A: a, Imm: imm} },
	OpRegReg:     func(op Opcode, a, b Reg) Instruction { return InstOpRegReg{Op: op, A: a, B: b} },
	OpRegRegImm8: func(op Opcode, a, b Reg, offset uint8) Instruction {
		return InstOpRegRegImm8{Op: op, A: a, B: b, Offset: offset}
	},
	OpRegImm8x2: func(op Opcode, a Reg, v0, v1 uint8) Instruction {
		return InstOpRegImm8x2{Op: op, A: a, V0: v0, V1: v1}
	},
	OpRegRegReg: func(op Opcode, a, b, c Reg) Instruction {
		return InstOpRegRegReg{Op: op, A: a, B: b, C: c}
	},
}
