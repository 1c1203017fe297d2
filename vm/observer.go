package vm

import "irre/isa"

// ExecutionContext is the read-only view of VM state handed to observer
// callbacks. Observers must treat it as a snapshot, not a handle into
// live state.
type ExecutionContext struct {
	PC           uint32
	Instruction  isa.Instruction
	HasInst      bool
	Registers    [isa.NumRegisters]uint32
	InstCount    uint64
	CycleCount   uint64
}

// Observer receives instrumentation callbacks around every step. Embed
// BaseObserver to get no-op defaults and override only the hooks you
// need, the way the reference implementation's execution_observer base
// class supplies virtual no-ops.
type Observer interface {
	PreExecute(ctx ExecutionContext)
	PostExecute(ctx ExecutionContext)
	OnMemoryRead(ctx ExecutionContext, addr uint32, value uint32)
	OnMemoryWrite(ctx ExecutionContext, addr uint32, value uint32)
	OnError(ctx ExecutionContext, err *RuntimeError)
	OnHalt(ctx ExecutionContext)
}

// BaseObserver implements Observer with no-op bodies.
type BaseObserver struct{}

func (BaseObserver) PreExecute(ExecutionContext)                          {}
func (BaseObserver) PostExecute(ExecutionContext)                         {}
func (BaseObserver) OnMemoryRead(ExecutionContext, uint32, uint32)        {}
func (BaseObserver) OnMemoryWrite(ExecutionContext, uint32, uint32)       {}
func (BaseObserver) OnError(ExecutionContext, *RuntimeError)              {}
func (BaseObserver) OnHalt(ExecutionContext)                              {}
