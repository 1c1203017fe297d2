package asm

import (
	"fmt"

	"irre/isa"
	"irre/objfile"
)

// AssemblyErrorKind is the small, stable vocabulary of assembly-error
// categories surfaced to callers, independent of which internal stage
// produced the failure.
type AssemblyErrorKind uint8

const (
	ParseError AssemblyErrorKind = iota
	InvalidInstruction
	InvalidRegister
	InvalidImmediate
	UndefinedSymbol
	InvalidDirective
)

func (k AssemblyErrorKind) String() string {
	switch k {
	case ParseError:
		return "parse_error"
	case InvalidInstruction:
		return "invalid_instruction"
	case InvalidRegister:
		return "invalid_register"
	case InvalidImmediate:
		return "invalid_immediate"
	case UndefinedSymbol:
		return "undefined_symbol"
	case InvalidDirective:
		return "invalid_directive"
	default:
		return "unknown"
	}
}

// AssemblyError is the single error type returned by Assemble: a kind, a
// 1-based source location when known, and a human message.
type AssemblyError struct {
	Kind    AssemblyErrorKind
	Loc     Location
	Message string
}

func (e *AssemblyError) Error() string {
	if e.Loc.Line > 0 {
		return fmt.Sprintf("%d:%d: %s: %s", e.Loc.Line, e.Loc.Column, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// validationKindToAssemblyKind is the mapping table named by the
// validator: unknown_instruction -> invalid_instruction, unknown_register
// -> invalid_register, invalid_immediate/immediate_out_of_range ->
// invalid_immediate, operand_* -> invalid_instruction.
func validationKindToAssemblyKind(k ValidationErrorKind) AssemblyErrorKind {
	switch k {
	case UnknownInstruction:
		return InvalidInstruction
	case UnknownRegister:
		return InvalidRegister
	case ImmediateParseError, ImmediateOutOfRange:
		return InvalidImmediate
	case OperandCountMismatch, OperandTypeMismatch:
		return InvalidInstruction
	case DirectiveError:
		return InvalidDirective
	default:
		return ParseError
	}
}

// Assemble runs the full two-pass pipeline over source: parse, take the
// first validation error if any, build the symbol table, resolve labels,
// encode every instruction, and package the result into an object file.
func Assemble(source string) (*objfile.File, error) {
	state := Parse(source)
	if len(state.Errors) > 0 {
		first := state.Errors[0]
		return nil, &AssemblyError{
			Kind:    validationKindToAssemblyKind(first.Kind),
			Loc:     first.Loc,
			Message: first.Message,
		}
	}

	table, err := BuildSymbolTable(state.Items)
	if err != nil {
		if sym, ok := err.(*SymbolError); ok {
			return nil, &AssemblyError{Kind: UndefinedSymbol, Loc: sym.Loc, Message: sym.Error()}
		}
		return nil, &AssemblyError{Kind: ParseError, Message: err.Error()}
	}

	insts, data, err := Resolve(state.Items, table)
	if err != nil {
		if sym, ok := err.(*SymbolError); ok {
			return nil, &AssemblyError{Kind: UndefinedSymbol, Message: sym.Error()}
		}
		return nil, &AssemblyError{Kind: ParseError, Message: err.Error()}
	}

	code := isa.EncodeSequence(insts)

	entryOffset := uint32(0)
	if addr, ok := table.EntryAddress(state.EntryLabel); ok {
		entryOffset = addr
	}

	return &objfile.File{
		EntryOffset: entryOffset,
		Code:        code,
		Data:        data,
	}, nil
}
