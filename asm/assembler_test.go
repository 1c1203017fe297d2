package asm

import (
	"strings"
	"testing"

	"irre/disasm"
	"irre/isa"
)

func TestAssembleBasicProgram(t *testing.T) {
	src := "%entry: main\nmain:\n  set r0 42\n  set r1 100\n  add r2 r0 r1\n  hlt"
	f, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if f.EntryOffset != 0 {
		t.Fatalf("entry offset = %d, want 0", f.EntryOffset)
	}
	if len(f.Code) != 16 {
		t.Fatalf("code length = %d, want 16", len(f.Code))
	}
	insts, err := isa.DecodeSequence(f.Code)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []isa.Instruction{
		isa.InstOpRegImm16{Op: isa.SET, A: isa.R0, Imm: 42},
		isa.InstOpRegImm16{Op: isa.SET, A: isa.R1, Imm: 100},
		isa.InstOpRegRegReg{Op: isa.ADD, A: isa.R2, B: isa.R0, C: isa.R1},
		isa.InstOp{Op: isa.HLT},
	}
	for i, w := range want {
		if insts[i] != w {
			t.Fatalf("instruction %d = %#v, want %#v", i, insts[i], w)
		}
	}
}

func TestAssemblePseudoAdi(t *testing.T) {
	f, err := Assemble("adi r0 r1 10")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	insts, err := isa.DecodeSequence(f.Code)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(insts) != 2 {
		t.Fatalf("got %d instructions, want 2", len(insts))
	}
	if insts[0] != (isa.InstOpRegImm16{Op: isa.SET, A: isa.AT, Imm: 10}) {
		t.Fatalf("first instruction = %#v", insts[0])
	}
	if insts[1] != (isa.InstOpRegRegReg{Op: isa.ADD, A: isa.R0, B: isa.R1, C: isa.AT}) {
		t.Fatalf("second instruction = %#v", insts[1])
	}
}

func TestAssembleForwardLabelReference(t *testing.T) {
	src := "jmi target\ntarget:\n  hlt"
	f, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	insts, err := isa.DecodeSequence(f.Code)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if insts[0] != (isa.InstOpImm24{Op: isa.JMI, Addr: 4}) {
		t.Fatalf("jmi = %#v, want target address 4", insts[0])
	}
}

func TestAssembleUndefinedSymbol(t *testing.T) {
	_, err := Assemble("jmi missing")
	ae, ok := err.(*AssemblyError)
	if !ok || ae.Kind != UndefinedSymbol {
		t.Fatalf("expected UndefinedSymbol assemble error, got %v", err)
	}
}

func TestAssembleDuplicateLabel(t *testing.T) {
	src := "foo:\n  nop\nfoo:\n  hlt"
	_, err := Assemble(src)
	ae, ok := err.(*AssemblyError)
	if !ok || ae.Kind != UndefinedSymbol {
		t.Fatalf("expected duplicate label to surface as UndefinedSymbol kind, got %v", err)
	}
}

func TestAssembleUnknownInstruction(t *testing.T) {
	_, err := Assemble("frobnicate r0")
	ae, ok := err.(*AssemblyError)
	if !ok || ae.Kind != InvalidInstruction {
		t.Fatalf("expected InvalidInstruction, got %v", err)
	}
}

func TestAssembleImmediateOutOfRange(t *testing.T) {
	_, err := Assemble("set r0 999999")
	ae, ok := err.(*AssemblyError)
	if !ok || ae.Kind != InvalidImmediate {
		t.Fatalf("expected InvalidImmediate, got %v", err)
	}
}

func TestAssembleNegativeImmediateWraps(t *testing.T) {
	f, err := Assemble("set r0 -1")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	insts, err := isa.DecodeSequence(f.Code)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if insts[0] != (isa.InstOpRegImm16{Op: isa.SET, A: isa.R0, Imm: 0xFFFF}) {
		t.Fatalf("got %#v", insts[0])
	}
}

func TestAssembleHexAndDecimalLiterals(t *testing.T) {
	f, err := Assemble("set r0 $2A\nset r1 #42")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	insts, err := isa.DecodeSequence(f.Code)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if insts[0].(isa.InstOpRegImm16).Imm != 42 || insts[1].(isa.InstOpRegImm16).Imm != 42 {
		t.Fatalf("got %#v / %#v", insts[0], insts[1])
	}
}

func TestAssembleZeroXHexLiteral(t *testing.T) {
	f, err := Assemble("set r0 0x2a\njmi 0x000004\nhlt")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	insts, err := isa.DecodeSequence(f.Code)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if insts[0] != (isa.InstOpRegImm16{Op: isa.SET, A: isa.R0, Imm: 42}) {
		t.Fatalf("got %#v", insts[0])
	}
	if insts[1] != (isa.InstOpImm24{Op: isa.JMI, Addr: 4}) {
		t.Fatalf("got %#v", insts[1])
	}
}

// TestAssembleDisassemblyRoundTrips exercises the round-trip property
// directly: disassembling a program and reassembling the basic listing
// must reproduce the original code bytes, since the disassembler's own
// 0x-prefixed operand syntax must be accepted by the parser.
func TestAssembleDisassemblyRoundTrips(t *testing.T) {
	src := "set r0 42\nset r1 100\nadd r2 r0 r1\nldw r3 r2 4\njmi 0\nhlt"
	f, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	lines, err := disasm.DisassembleBytes(f.Code, 0, disasm.Basic)
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	reassembled, err := Assemble(strings.Join(lines, "\n"))
	if err != nil {
		t.Fatalf("reassemble: %v", err)
	}
	if string(reassembled.Code) != string(f.Code) {
		t.Fatalf("round trip mismatch:\noriginal:  %x\nreassembled: %x", f.Code, reassembled.Code)
	}
}

func TestAssembleDataDirective(t *testing.T) {
	f, err := Assemble("%d \"hi\" 5")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{'h', 'i', 5, 0, 0, 0}
	if string(f.Data) != string(want) {
		t.Fatalf("data = %v, want %v", f.Data, want)
	}
}

func TestAssembleDataDirectiveWithSemicolonInString(t *testing.T) {
	f, err := Assemble(`%d "a;b"`)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if string(f.Data) != "a;b" {
		t.Fatalf("data = %q, want %q", f.Data, "a;b")
	}
}

func TestAssembleCommentsAndBlankLines(t *testing.T) {
	src := "; a comment\n\n  ; another\nnop ; trailing\nhlt\n"
	f, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(f.Code) != 8 {
		t.Fatalf("code length = %d, want 8", len(f.Code))
	}
}
