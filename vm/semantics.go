package vm

import (
	"fmt"

	"irre/isa"
)

// DataFlow describes which registers an instruction reads from and
// writes to, without executing it. It backs the semantic trace
// observer's human-readable log lines.
type DataFlow struct {
	Reads  []isa.Reg
	Writes []isa.Reg
}

// AnalyzeDataFlow computes the read/write register sets for inst.
func AnalyzeDataFlow(inst isa.Instruction) DataFlow {
	switch i := inst.(type) {
	case isa.InstOp:
		switch i.Op {
		case isa.RET:
			return DataFlow{Reads: []isa.Reg{isa.LR}, Writes: []isa.Reg{isa.PC, isa.LR}}
		default:
			return DataFlow{}
		}
	case isa.InstOpReg:
		switch i.Op {
		case isa.CAL:
			return DataFlow{Reads: []isa.Reg{i.A, isa.PC}, Writes: []isa.Reg{isa.PC, isa.LR}}
		default:
			return DataFlow{Reads: []isa.Reg{i.A}, Writes: []isa.Reg{isa.PC}}
		}
	case isa.InstOpImm24:
		if i.Op == isa.JMI {
			return DataFlow{Writes: []isa.Reg{isa.PC}}
		}
		return DataFlow{}
	case isa.InstOpRegImm16:
		if i.Op == isa.SUP {
			return DataFlow{Reads: []isa.Reg{i.A}, Writes: []isa.Reg{i.A}}
		}
		return DataFlow{Writes: []isa.Reg{i.A}}
	case isa.InstOpRegReg:
		return DataFlow{Reads: []isa.Reg{i.B}, Writes: []isa.Reg{i.A}}
	case isa.InstOpRegRegImm8:
		switch i.Op {
		case isa.STW, isa.STB:
			return DataFlow{Reads: []isa.Reg{i.A, i.B}}
		case isa.BVE, isa.BVN:
			return DataFlow{Reads: []isa.Reg{i.A, i.B}, Writes: []isa.Reg{isa.PC}}
		default:
			return DataFlow{Reads: []isa.Reg{i.B}, Writes: []isa.Reg{i.A}}
		}
	case isa.InstOpRegImm8x2:
		return DataFlow{Reads: []isa.Reg{i.A}, Writes: []isa.Reg{i.A}}
	case isa.InstOpRegRegReg:
		if i.Op == isa.SND {
			return DataFlow{Reads: []isa.Reg{i.A, i.B, i.C}, Writes: []isa.Reg{i.C}}
		}
		return DataFlow{Reads: []isa.Reg{i.B, i.C}, Writes: []isa.Reg{i.A}}
	default:
		return DataFlow{}
	}
}

// ControlFlowKind classifies how an instruction can affect the program
// counter beyond the ordinary +4 advance.
type ControlFlowKind uint8

const (
	FlowSequential ControlFlowKind = iota
	FlowUnconditionalJump
	FlowConditionalBranch
	FlowCall
	FlowReturn
	FlowHalt
)

// AnalyzeControlFlow classifies inst's effect on control flow.
func AnalyzeControlFlow(inst isa.Instruction) ControlFlowKind {
	switch i := inst.(type) {
	case isa.InstOp:
		switch i.Op {
		case isa.RET:
			return FlowReturn
		case isa.HLT:
			return FlowHalt
		}
	case isa.InstOpReg:
		switch i.Op {
		case isa.JMP:
			return FlowUnconditionalJump
		case isa.CAL:
			return FlowCall
		}
	case isa.InstOpImm24:
		if i.Op == isa.JMI {
			return FlowUnconditionalJump
		}
	case isa.InstOpRegRegImm8:
		if i.Op == isa.BVE || i.Op == isa.BVN {
			return FlowConditionalBranch
		}
	}
	return FlowSequential
}

// DescribeExecution renders a one-line human-readable summary of an
// instruction's effect, used by the semantic tracing observer.
func DescribeExecution(inst isa.Instruction) string {
	flow := AnalyzeControlFlow(inst)
	df := AnalyzeDataFlow(inst)
	mnemonic, _ := isa.Mnemonic(inst.Opcode())

	switch flow {
	case FlowUnconditionalJump:
		return fmt.Sprintf("%s: unconditional jump", mnemonic)
	case FlowConditionalBranch:
		return fmt.Sprintf("%s: conditional branch", mnemonic)
	case FlowCall:
		return fmt.Sprintf("%s: call, link register updated", mnemonic)
	case FlowReturn:
		return fmt.Sprintf("%s: return via link register", mnemonic)
	case FlowHalt:
		return fmt.Sprintf("%s: halts execution", mnemonic)
	default:
		if len(df.Writes) == 0 {
			return fmt.Sprintf("%s: no register effect", mnemonic)
		}
		return fmt.Sprintf("%s: writes %v, reads %v", mnemonic, df.Writes, df.Reads)
	}
}
