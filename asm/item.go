// Package asm implements the two-pass IRRE assembler: line-based parsing,
// operand-shape and immediate-range validation, pseudo-instruction
// expansion, symbol resolution, and the driver that ties them together
// into an object file.
package asm

import (
	"fmt"

	"irre/isa"
)

// Location is a 1-based line/column position in the source text.
type Location struct {
	Line   int
	Column int
}

// OperandKind tags the three-way sum a raw operand can be before symbol
// resolution: a register, a literal integer, or a label reference.
type OperandKind uint8

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandLabel
)

// Operand is one raw operand of an unresolved or concrete-in-waiting
// instruction, before it has been narrowed to a field width.
type Operand struct {
	Kind  OperandKind
	Reg   isa.Reg
	Value uint32 // valid when Kind == OperandImmediate
	Label string // valid when Kind == OperandLabel
}

// Item is the closed sum type over the four assembly-item variants:
// label definitions, concrete instructions, unresolved instructions, and
// data blocks.
type Item interface {
	isItem()
}

// LabelDef binds a name to the address of the item following it.
type LabelDef struct {
	Name string
	Loc  Location
}

func (LabelDef) isItem() {}

// ConcreteInstruction is an instruction whose operands were fully known
// at parse time (no label references).
type ConcreteInstruction struct {
	Inst isa.Instruction
}

func (ConcreteInstruction) isItem() {}

// UnresolvedInstruction is an instruction with at least one label operand,
// retained until the symbol-resolution pass.
type UnresolvedInstruction struct {
	Op       isa.Opcode
	Operands []Operand
	Loc      Location
}

func (UnresolvedInstruction) isItem() {}

// DataBlock is a raw byte payload produced by a %d directive.
type DataBlock struct {
	Bytes []byte
}

func (DataBlock) isItem() {}

// ValidationErrorKind enumerates the ways a parsed line can fail
// validation. Names match the reference implementation's vocabulary so
// the driver's kind-mapping table (validationKindToAssemblyKind in
// assembler.go) reads the same way.
type ValidationErrorKind uint8

const (
	UnknownInstruction ValidationErrorKind = iota
	UnknownRegister
	ImmediateParseError
	ImmediateOutOfRange
	OperandCountMismatch
	OperandTypeMismatch
	DirectiveError
)

// ValidationError is collected into ParseState rather than raised
// immediately, so parsing continues and the first error is reported at
// its true source location.
type ValidationError struct {
	Kind    ValidationErrorKind
	Message string
	Loc     Location
}

// ParseState is the explicit, non-global context threaded through every
// grammar action: items in source order, the optional entry label, the
// current section name, and accumulated validation errors.
type ParseState struct {
	Items      []Item
	EntryLabel string
	Section    string
	Errors     []ValidationError
}

// NewParseState returns a ParseState with the default "code" section.
func NewParseState() *ParseState {
	return &ParseState{Section: "code"}
}

func (s *ParseState) fail(kind ValidationErrorKind, loc Location, format string, args ...any) {
	s.Errors = append(s.Errors, ValidationError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Loc:     loc,
	})
}
