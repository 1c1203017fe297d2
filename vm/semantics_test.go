package vm

import (
	"testing"

	"irre/isa"
)

func TestAnalyzeControlFlow(t *testing.T) {
	cases := []struct {
		inst isa.Instruction
		want ControlFlowKind
	}{
		{isa.InstOp{Op: isa.HLT}, FlowHalt},
		{isa.InstOp{Op: isa.RET}, FlowReturn},
		{isa.InstOpReg{Op: isa.JMP, A: isa.R0}, FlowUnconditionalJump},
		{isa.InstOpReg{Op: isa.CAL, A: isa.R0}, FlowCall},
		{isa.InstOpImm24{Op: isa.JMI, Addr: 4}, FlowUnconditionalJump},
		{isa.InstOpRegRegImm8{Op: isa.BVE, A: isa.R0, B: isa.R1}, FlowConditionalBranch},
		{isa.InstOpRegRegReg{Op: isa.ADD, A: isa.R0, B: isa.R1, C: isa.R2}, FlowSequential},
	}
	for _, c := range cases {
		if got := AnalyzeControlFlow(c.inst); got != c.want {
			t.Fatalf("AnalyzeControlFlow(%#v) = %v, want %v", c.inst, got, c.want)
		}
	}
}

func TestAnalyzeDataFlowAdd(t *testing.T) {
	df := AnalyzeDataFlow(isa.InstOpRegRegReg{Op: isa.ADD, A: isa.R0, B: isa.R1, C: isa.R2})
	if len(df.Writes) != 1 || df.Writes[0] != isa.R0 {
		t.Fatalf("writes = %v, want [r0]", df.Writes)
	}
	if len(df.Reads) != 2 || df.Reads[0] != isa.R1 || df.Reads[1] != isa.R2 {
		t.Fatalf("reads = %v, want [r1 r2]", df.Reads)
	}
}
