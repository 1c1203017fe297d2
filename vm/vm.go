// Package vm implements the IRRE fetch-decode-execute loop: memory,
// register file, device dispatch, and an observer bus that
// instrumentation (tracing, interactive debuggers) attaches to.
package vm

import (
	"irre/isa"
	"irre/objfile"
)

// VM owns every piece of mutable machine state: memory, registers, the
// device registry, and the observer list. Observers receive read-only
// views during callbacks; the only supported way to mutate VM state from
// a callback is through the debug mutators below, used by tests and
// interactive debuggers between steps.
type VM struct {
	Memory      *Memory
	Registers   RegisterFile
	State       ExecutionState
	Devices     *DeviceRegistry
	Observers   []Observer
	OnInterrupt func(code uint32)

	InstCount  uint64
	CycleCount uint64
	LastError  *RuntimeError

	stepCtx ExecutionContext
}

// New returns a VM with the given memory size (0 selects
// DefaultMemorySize) and an empty device registry.
func New(memSize int) *VM {
	return &VM{
		Memory:    NewMemory(memSize),
		Devices:   NewDeviceRegistry(),
		State:     Halted,
	}
}

// AddObserver installs an observer; it will receive every subsequent
// callback until removed by rebuilding VM.Observers directly.
func (v *VM) AddObserver(o Observer) {
	v.Observers = append(v.Observers, o)
}

// LoadProgram loads an object file's code and data sections into memory
// at address 0 and address len(code) respectively, sets PC to the entry
// offset, and transitions to running.
func (v *VM) LoadProgram(f *objfile.File) error {
	if err := v.Memory.Load(0, f.Code); err != nil {
		return err
	}
	if err := v.Memory.Load(uint32(len(f.Code)), f.Data); err != nil {
		return err
	}
	return v.start(f.EntryOffset)
}

// LoadBinary loads a flat instruction stream at address 0 and starts
// execution at address 0.
func (v *VM) LoadBinary(code []byte) error {
	if err := v.Memory.Load(0, code); err != nil {
		return err
	}
	return v.start(0)
}

func (v *VM) start(entry uint32) error {
	v.Registers = RegisterFile{}
	if err := v.Registers.Write(isa.PC, entry); err != nil {
		return err
	}
	v.State = Running
	v.InstCount = 0
	v.CycleCount = 0
	v.LastError = nil
	return nil
}

// Reset clears registers, counters, and error state without reloading
// memory, and returns the VM to halted.
func (v *VM) Reset() {
	v.Registers = RegisterFile{}
	v.State = Halted
	v.InstCount = 0
	v.CycleCount = 0
	v.LastError = nil
}

// SetHalted is a debug mutator for tests and interactive debuggers: it
// forces the VM to the halted state outside of normal step execution.
func (v *VM) SetHalted() {
	v.State = Halted
}

// Step executes one instruction. It returns false without effect when
// the VM is not running; otherwise it performs exactly one fetch-decode-
// execute cycle and returns true, whether that cycle ended in running,
// halted, or error.
func (v *VM) Step() bool {
	if v.State != Running {
		return false
	}

	pc, err := v.Registers.Read(isa.PC)
	if err != nil {
		v.fail(pc, 0, false, err)
		return true
	}

	if pc%4 != 0 {
		v.fail(pc, 0, false, &RuntimeError{Kind: MisalignedInstruction, Message: "instruction fetch address is not 4-byte aligned"})
		return true
	}

	word, err := v.Memory.ReadWord(pc)
	if err != nil {
		v.fail(pc, 0, false, err)
		return true
	}

	inst, err := isa.Decode(word)
	if err != nil {
		v.fail(pc, word, true, &RuntimeError{Kind: decodeRuntimeKind(err), Message: err.Error()})
		return true
	}

	v.stepCtx = ExecutionContext{
		PC:          pc,
		Instruction: inst,
		HasInst:     true,
		Registers:   v.Registers.Snapshot(),
		InstCount:   v.InstCount,
		CycleCount:  v.CycleCount,
	}
	for _, o := range v.Observers {
		o.PreExecute(v.stepCtx)
	}

	if err := execute(v, inst); err != nil {
		rerr := toRuntimeError(err)
		v.fail(pc, word, true, rerr)
		return true
	}

	newPC, _ := v.Registers.Read(isa.PC)
	if newPC == pc {
		v.Registers.Write(isa.PC, pc+4)
	}

	v.stepCtx.Registers = v.Registers.Snapshot()
	for _, o := range v.Observers {
		o.PostExecute(v.stepCtx)
	}
	v.InstCount++
	v.CycleCount++

	if v.State == Halted {
		for _, o := range v.Observers {
			o.OnHalt(v.stepCtx)
		}
	}
	return true
}

// Run steps the VM at most max times, stopping early if it leaves the
// running state. It returns the number of steps actually taken.
func (v *VM) Run(max int) int {
	n := 0
	for n < max {
		if !v.Step() {
			break
		}
		n++
		if v.State != Running {
			break
		}
	}
	return n
}

func (v *VM) fail(pc, word uint32, hasWord bool, err error) {
	rerr := toRuntimeError(err)
	rerr.PC = pc
	rerr.Word = word
	rerr.HasWord = hasWord
	v.LastError = rerr
	v.State = Errored
	v.stepCtx = ExecutionContext{
		PC:         pc,
		Registers:  v.Registers.Snapshot(),
		InstCount:  v.InstCount,
		CycleCount: v.CycleCount,
	}
	for _, o := range v.Observers {
		o.OnError(v.stepCtx, rerr)
	}
}

// decodeRuntimeKind maps a decode failure to its runtime-error kind:
// isa.InvalidRegister is preserved as InvalidRegister, everything else
// (invalid opcode, malformed instruction) surfaces as InvalidInstruction.
func decodeRuntimeKind(err error) RuntimeErrorKind {
	if derr, ok := err.(*isa.DecodeError); ok && derr.Kind == isa.InvalidRegister {
		return InvalidRegister
	}
	return InvalidInstruction
}

func toRuntimeError(err error) *RuntimeError {
	if rerr, ok := err.(*RuntimeError); ok {
		return rerr
	}
	return &RuntimeError{Kind: InvalidInstruction, Message: err.Error()}
}

func (v *VM) readWord(addr uint32) (uint32, error) {
	val, err := v.Memory.ReadWord(addr)
	if err != nil {
		return 0, err
	}
	for _, o := range v.Observers {
		o.OnMemoryRead(v.stepCtx, addr, val)
	}
	return val, nil
}

func (v *VM) writeWord(addr, val uint32) error {
	if err := v.Memory.WriteWord(addr, val); err != nil {
		return err
	}
	for _, o := range v.Observers {
		o.OnMemoryWrite(v.stepCtx, addr, val)
	}
	return nil
}

func (v *VM) readByte(addr uint32) (byte, error) {
	b, err := v.Memory.ReadByte(addr)
	if err != nil {
		return 0, err
	}
	for _, o := range v.Observers {
		o.OnMemoryRead(v.stepCtx, addr, uint32(b))
	}
	return b, nil
}

func (v *VM) writeByte(addr uint32, b byte) error {
	if err := v.Memory.WriteByte(addr, b); err != nil {
		return err
	}
	for _, o := range v.Observers {
		o.OnMemoryWrite(v.stepCtx, addr, uint32(b))
	}
	return nil
}
