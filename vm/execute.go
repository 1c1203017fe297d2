package vm

import (
	"fmt"

	"irre/isa"
)

// execute runs the semantics of a single decoded instruction against vm,
// per the authoritative opcode table: all arithmetic is modulo 2^32
// unless noted.
func execute(v *VM, inst isa.Instruction) error {
	switch i := inst.(type) {
	case isa.InstOp:
		return executeOp(v, i)
	case isa.InstOpReg:
		return executeOpReg(v, i)
	case isa.InstOpImm24:
		return executeOpImm24(v, i)
	case isa.InstOpRegImm16:
		return executeOpRegImm16(v, i)
	case isa.InstOpRegReg:
		return executeOpRegReg(v, i)
	case isa.InstOpRegRegImm8:
		return executeOpRegRegImm8(v, i)
	case isa.InstOpRegImm8x2:
		return executeOpRegImm8x2(v, i)
	case isa.InstOpRegRegReg:
		return executeOpRegRegReg(v, i)
	default:
		return &RuntimeError{Kind: InvalidInstruction, Message: "unrecognized instruction variant"}
	}
}

func executeOp(v *VM, i isa.InstOp) error {
	switch i.Op {
	case isa.NOP:
		return nil
	case isa.RET:
		lr, err := v.Registers.Read(isa.LR)
		if err != nil {
			return err
		}
		if err := v.Registers.Write(isa.PC, lr); err != nil {
			return err
		}
		return v.Registers.Write(isa.LR, 0)
	case isa.HLT:
		v.State = Halted
		return nil
	default:
		return &RuntimeError{Kind: InvalidInstruction, Message: fmt.Sprintf("opcode %#x has no op-format semantics", i.Op)}
	}
}

func executeOpReg(v *VM, i isa.InstOpReg) error {
	a, err := v.Registers.Read(i.A)
	if err != nil {
		return err
	}
	switch i.Op {
	case isa.JMP:
		return v.Registers.Write(isa.PC, a)
	case isa.CAL:
		pc, err := v.Registers.Read(isa.PC)
		if err != nil {
			return err
		}
		if err := v.Registers.Write(isa.LR, pc+4); err != nil {
			return err
		}
		return v.Registers.Write(isa.PC, a)
	default:
		return &RuntimeError{Kind: InvalidInstruction, Message: fmt.Sprintf("opcode %#x has no op_reg semantics", i.Op)}
	}
}

func executeOpImm24(v *VM, i isa.InstOpImm24) error {
	switch i.Op {
	case isa.JMI:
		return v.Registers.Write(isa.PC, i.Addr&0xFFFFFF)
	case isa.INT:
		if v.OnInterrupt != nil {
			v.OnInterrupt(i.Addr & 0xFFFFFF)
		}
		return nil
	default:
		return &RuntimeError{Kind: InvalidInstruction, Message: fmt.Sprintf("opcode %#x has no op_imm24 semantics", i.Op)}
	}
}

func executeOpRegImm16(v *VM, i isa.InstOpRegImm16) error {
	switch i.Op {
	case isa.SET:
		return v.Registers.Write(i.A, uint32(i.Imm))
	case isa.SUP:
		cur, err := v.Registers.Read(i.A)
		if err != nil {
			return err
		}
		return v.Registers.Write(i.A, (cur&0xFFFF)|(uint32(i.Imm)<<16))
	default:
		return &RuntimeError{Kind: InvalidInstruction, Message: fmt.Sprintf("opcode %#x has no op_reg_imm16 semantics", i.Op)}
	}
}

func executeOpRegReg(v *VM, i isa.InstOpRegReg) error {
	b, err := v.Registers.Read(i.B)
	if err != nil {
		return err
	}
	switch i.Op {
	case isa.MOV:
		return v.Registers.Write(i.A, b)
	case isa.NOT:
		return v.Registers.Write(i.A, ^b)
	case isa.SXT:
		return v.Registers.Write(i.A, uint32(int32(int16(uint16(b)))))
	default:
		return &RuntimeError{Kind: InvalidInstruction, Message: fmt.Sprintf("opcode %#x has no op_reg_reg semantics", i.Op)}
	}
}

func executeOpRegRegImm8(v *VM, i isa.InstOpRegRegImm8) error {
	switch i.Op {
	case isa.LDW, isa.LDB, isa.STW, isa.STB:
		return executeMemAccess(v, i)
	case isa.BVE, isa.BVN:
		return executeBranch(v, i)
	case isa.SEQ:
		b, err := v.Registers.Read(i.B)
		if err != nil {
			return err
		}
		var result uint32
		if b == uint32(i.Offset) {
			result = 1
		}
		return v.Registers.Write(i.A, result)
	default:
		return &RuntimeError{Kind: InvalidInstruction, Message: fmt.Sprintf("opcode %#x has no op_reg_reg_imm8 semantics", i.Op)}
	}
}

func executeMemAccess(v *VM, i isa.InstOpRegRegImm8) error {
	base, err := v.Registers.Read(i.B)
	if err != nil {
		return err
	}
	addr := uint32(int64(base) + int64(int8(i.Offset)))

	switch i.Op {
	case isa.LDW:
		val, err := v.readWord(addr)
		if err != nil {
			return err
		}
		return v.Registers.Write(i.A, val)
	case isa.LDB:
		b, err := v.readByte(addr)
		if err != nil {
			return err
		}
		return v.Registers.Write(i.A, uint32(b))
	case isa.STW:
		val, err := v.Registers.Read(i.A)
		if err != nil {
			return err
		}
		return v.writeWord(addr, val)
	case isa.STB:
		val, err := v.Registers.Read(i.A)
		if err != nil {
			return err
		}
		return v.writeByte(addr, byte(val))
	}
	return &RuntimeError{Kind: InvalidInstruction, Message: "unreachable memory opcode"}
}

func executeBranch(v *VM, i isa.InstOpRegRegImm8) error {
	a, err := v.Registers.Read(i.A)
	if err != nil {
		return err
	}
	b, err := v.Registers.Read(i.B)
	if err != nil {
		return err
	}
	taken := false
	switch i.Op {
	case isa.BVE:
		taken = b == uint32(i.Offset)
	case isa.BVN:
		taken = b != uint32(i.Offset)
	}
	if taken {
		return v.Registers.Write(isa.PC, a)
	}
	return nil
}

func executeOpRegImm8x2(v *VM, i isa.InstOpRegImm8x2) error {
	switch i.Op {
	case isa.SIA:
		a, err := v.Registers.Read(i.A)
		if err != nil {
			return err
		}
		return v.Registers.Write(i.A, a+(uint32(i.V0)<<i.V1))
	default:
		return &RuntimeError{Kind: InvalidInstruction, Message: fmt.Sprintf("opcode %#x has no op_reg_imm8x2 semantics", i.Op)}
	}
}

func executeOpRegRegReg(v *VM, i isa.InstOpRegRegReg) error {
	b, err := v.Registers.Read(i.B)
	if err != nil {
		return err
	}
	c, err := v.Registers.Read(i.C)
	if err != nil {
		return err
	}
	if i.Op == isa.SND {
		deviceID, err := v.Registers.Read(i.A)
		if err != nil {
			return err
		}
		result, err := v.Devices.Dispatch(deviceID, b, c)
		if err != nil {
			return err
		}
		return v.Registers.Write(i.C, result)
	}
	switch i.Op {
	case isa.ADD:
		return v.Registers.Write(i.A, b+c)
	case isa.SUB:
		return v.Registers.Write(i.A, b-c)
	case isa.MUL:
		return v.Registers.Write(i.A, b*c)
	case isa.DIV:
		if c == 0 {
			return &RuntimeError{Kind: DivisionByZero, Message: "division by zero"}
		}
		return v.Registers.Write(i.A, b/c)
	case isa.MOD:
		if c == 0 {
			return &RuntimeError{Kind: DivisionByZero, Message: "modulus by zero"}
		}
		return v.Registers.Write(i.A, b%c)
	case isa.AND:
		return v.Registers.Write(i.A, b&c)
	case isa.ORR:
		return v.Registers.Write(i.A, b|c)
	case isa.XOR:
		return v.Registers.Write(i.A, b^c)
	case isa.LSH:
		return executeShift(v, i.A, b, c, false)
	case isa.ASH:
		return executeShift(v, i.A, b, c, true)
	case isa.TCU:
		return v.Registers.Write(i.A, compareResult(b < c, b > c))
	case isa.TCS:
		return v.Registers.Write(i.A, compareResult(int32(b) < int32(c), int32(b) > int32(c)))
	default:
		return &RuntimeError{Kind: InvalidInstruction, Message: fmt.Sprintf("opcode %#x has no op_reg_reg_reg semantics", i.Op)}
	}
}

func executeShift(v *VM, dst isa.Reg, b, c uint32, arithmetic bool) error {
	amount := int32(c)
	if amount < -32 || amount > 32 {
		return &RuntimeError{Kind: InvalidInstruction, Message: fmt.Sprintf("shift amount %d out of range [-32, 32]", amount)}
	}
	var result uint32
	switch {
	case amount == 0:
		result = b
	case amount > 0:
		result = b << uint32(amount)
	case arithmetic:
		result = uint32(int32(b) >> uint32(-amount))
	default:
		result = b >> uint32(-amount)
	}
	return v.Registers.Write(dst, result)
}

func compareResult(less, greater bool) uint32 {
	switch {
	case less:
		return 0xFFFFFFFF // -1
	case greater:
		return 1
	default:
		return 0
	}
}
