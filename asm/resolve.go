package asm

import "irre/isa"

// SymbolEntry records where a label was defined: its resolved address and
// the source location of the (first) definition.
type SymbolEntry struct {
	Address uint32
	Loc     Location
}

// SymbolTable maps label names to addresses, built by a single linear
// walk over the parsed items before any label reference is resolved.
type SymbolTable struct {
	entries map[string]SymbolEntry
}

// SymbolErrorKind distinguishes the two ways symbol resolution fails.
type SymbolErrorKind uint8

const (
	DuplicateSymbol SymbolErrorKind = iota
	UndefinedSymbolRef
)

// SymbolError reports a label problem found while building or resolving
// against the symbol table: either a name defined more than once, or a
// name referenced but never defined.
type SymbolError struct {
	Kind SymbolErrorKind
	Name string
	Loc  Location
}

func (e *SymbolError) Error() string {
	if e.Kind == DuplicateSymbol {
		return "duplicate label " + e.Name
	}
	return "undefined symbol " + e.Name
}

// BuildSymbolTable walks items in order, assigning each label the
// running address at the point it appears: instructions contribute 4
// bytes, data blocks contribute their byte length, labels contribute 0.
func BuildSymbolTable(items []Item) (*SymbolTable, error) {
	table := &SymbolTable{entries: make(map[string]SymbolEntry)}
	var addr uint32
	for _, item := range items {
		switch v := item.(type) {
		case LabelDef:
			if existing, ok := table.entries[v.Name]; ok {
				_ = existing
				return nil, &SymbolError{Kind: DuplicateSymbol, Name: v.Name, Loc: v.Loc}
			}
			table.entries[v.Name] = SymbolEntry{Address: addr, Loc: v.Loc}
		case ConcreteInstruction, UnresolvedInstruction:
			addr += 4
		case DataBlock:
			addr += uint32(len(v.Bytes))
		}
	}
	return table, nil
}

// Lookup returns the address bound to name, if any.
func (t *SymbolTable) Lookup(name string) (uint32, bool) {
	e, ok := t.entries[name]
	return e.Address, ok
}

// EntryAddress resolves the entry label, if one was set.
func (t *SymbolTable) EntryAddress(label string) (uint32, bool) {
	if label == "" {
		return 0, false
	}
	return t.Lookup(label)
}

// Resolve walks items a second time, turning every unresolved
// instruction into a concrete one by looking up its label operands, and
// concatenating data block bytes into a single data buffer. Labels and
// data blocks are skipped in the returned instruction stream; data bytes
// are collected separately.
func Resolve(items []Item, table *SymbolTable) ([]isa.Instruction, []byte, error) {
	var insts []isa.Instruction
	var data []byte
	for _, item := range items {
		switch v := item.(type) {
		case LabelDef:
			continue
		case DataBlock:
			data = append(data, v.Bytes...)
		case ConcreteInstruction:
			insts = append(insts, v.Inst)
		case UnresolvedInstruction:
			inst, err := resolveInstruction(v, table)
			if err != nil {
				return nil, nil, err
			}
			insts = append(insts, inst)
		}
	}
	return insts, data, nil
}

func resolveInstruction(u UnresolvedInstruction, table *SymbolTable) (isa.Instruction, error) {
	format, _ := isa.FormatOf(u.Op)
	sh := formatShapes[format]
	resolved := make([]Operand, len(u.Operands))
	for i, op := range u.Operands {
		if op.Kind != OperandLabel {
			resolved[i] = op
			continue
		}
		addr, ok := table.Lookup(op.Label)
		if !ok {
			return nil, &SymbolError{Kind: UndefinedSymbolRef, Name: op.Label}
		}
		width := sh.widths[i]
		resolved[i] = Operand{Kind: OperandImmediate, Value: narrow(addr, width)}
	}
	return buildConcrete(u.Op, format, resolved)
}
