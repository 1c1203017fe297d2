package vm

import (
	"testing"

	"irre/isa"
)

func mustAssembleWords(t *testing.T, insts []isa.Instruction) []byte {
	t.Helper()
	return isa.EncodeSequence(insts)
}

func TestStepArithmetic(t *testing.T) {
	code := mustAssembleWords(t, []isa.Instruction{
		isa.InstOpRegImm16{Op: isa.SET, A: isa.R0, Imm: 5},
		isa.InstOpRegImm16{Op: isa.SET, A: isa.R1, Imm: 7},
		isa.InstOpRegRegReg{Op: isa.ADD, A: isa.R2, B: isa.R0, C: isa.R1},
		isa.InstOp{Op: isa.HLT},
	})
	m := New(0)
	if err := m.LoadBinary(code); err != nil {
		t.Fatalf("LoadBinary: %v", err)
	}
	steps := m.Run(100)
	if steps != 4 {
		t.Fatalf("ran %d steps, want 4", steps)
	}
	if m.State != Halted {
		t.Fatalf("state = %v, want halted", m.State)
	}
	r2, _ := m.Registers.Read(isa.R2)
	if r2 != 12 {
		t.Fatalf("r2 = %d, want 12", r2)
	}
}

func TestStepDivisionByZero(t *testing.T) {
	code := mustAssembleWords(t, []isa.Instruction{
		isa.InstOpRegImm16{Op: isa.SET, A: isa.R0, Imm: 1},
		isa.InstOpRegImm16{Op: isa.SET, A: isa.R1, Imm: 0},
		isa.InstOpRegRegReg{Op: isa.DIV, A: isa.R2, B: isa.R0, C: isa.R1},
	})
	m := New(0)
	m.LoadBinary(code)
	m.Run(100)
	if m.State != Errored {
		t.Fatalf("state = %v, want error", m.State)
	}
	if m.LastError == nil || m.LastError.Kind != DivisionByZero {
		t.Fatalf("LastError = %v, want division_by_zero", m.LastError)
	}
}

func TestStepMisalignedFetch(t *testing.T) {
	m := New(0)
	m.LoadBinary([]byte{0, 0, 0, 0, 0, 0, 0, 0})
	m.Registers.Write(isa.PC, 1)
	m.State = Running
	m.Step()
	if m.State != Errored || m.LastError.Kind != MisalignedInstruction {
		t.Fatalf("expected misaligned_instruction error, got %v", m.LastError)
	}
}

func TestStepShiftOutOfRange(t *testing.T) {
	code := mustAssembleWords(t, []isa.Instruction{
		isa.InstOpRegImm16{Op: isa.SET, A: isa.R1, Imm: 33},
		isa.InstOpRegRegReg{Op: isa.LSH, A: isa.R0, B: isa.R0, C: isa.R1},
	})
	m := New(0)
	m.LoadBinary(code)
	m.Run(100)
	if m.State != Errored || m.LastError.Kind != InvalidInstruction {
		t.Fatalf("expected invalid_instruction for out-of-range shift, got %v", m.LastError)
	}
}

func TestStepDecodeInvalidRegisterPreservesKind(t *testing.T) {
	// JMP (op_reg) with a register field one past the valid range.
	word := uint32(isa.JMP)<<24 | uint32(0x25)<<16
	m := New(0)
	m.LoadBinary([]byte{byte(word), byte(word >> 8), byte(word >> 16), byte(word >> 24)})
	m.Run(1)
	if m.State != Errored || m.LastError.Kind != InvalidRegister {
		t.Fatalf("expected invalid_register from decode failure, got %v", m.LastError)
	}
}

func TestStepNoOpWhenNotRunning(t *testing.T) {
	m := New(0)
	if m.Step() {
		t.Fatal("Step on a halted VM should return false")
	}
}

func TestConsoleDeviceWrite(t *testing.T) {
	const consoleDeviceID = 0
	code := mustAssembleWords(t, []isa.Instruction{
		isa.InstOpRegImm16{Op: isa.SET, A: isa.R0, Imm: consoleDeviceID}, // device id
		isa.InstOpRegImm16{Op: isa.SET, A: isa.R1, Imm: 0},               // command: putchar
		isa.InstOpRegImm16{Op: isa.SET, A: isa.R2, Imm: 'H'},             // argument
		isa.InstOpRegRegReg{Op: isa.SND, A: isa.R0, B: isa.R1, C: isa.R2},
		isa.InstOp{Op: isa.HLT},
	})
	m := New(0)
	console := NewConsoleDevice()
	m.Devices.Register(consoleDeviceID, console)
	m.LoadBinary(code)
	m.Run(100)
	if m.State != Halted {
		t.Fatalf("state = %v, want halted", m.State)
	}
	if string(console.Output()) != "H" {
		t.Fatalf("console output = %q, want %q", console.Output(), "H")
	}
	r2, _ := m.Registers.Read(isa.R2)
	if r2 != 1 {
		t.Fatalf("r2 = %d, want 1", r2)
	}
}

func TestObserverCallbackOrder(t *testing.T) {
	var events []string
	rec := &recordingObserver{events: &events}
	code := mustAssembleWords(t, []isa.Instruction{
		isa.InstOp{Op: isa.NOP},
		isa.InstOp{Op: isa.HLT},
	})
	m := New(0)
	m.AddObserver(rec)
	m.LoadBinary(code)
	m.Run(100)
	want := []string{"pre", "post", "pre", "post", "halt"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

type recordingObserver struct {
	BaseObserver
	events *[]string
}

func (r *recordingObserver) PreExecute(ExecutionContext)  { *r.events = append(*r.events, "pre") }
func (r *recordingObserver) PostExecute(ExecutionContext) { *r.events = append(*r.events, "post") }
func (r *recordingObserver) OnHalt(ExecutionContext)      { *r.events = append(*r.events, "halt") }
