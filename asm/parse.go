package asm

import (
	"strings"

	"irre/isa"
)

// Parse turns source text into a ParseState: a sequence of assembly
// items plus any validation errors collected along the way. Parsing
// never stops at the first error; every line is attempted so the first
// error reported is the one at the true earliest source location.
func Parse(source string) *ParseState {
	state := NewParseState()
	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		loc := Location{Line: i + 1, Column: leadingColumn(raw)}
		line := trimComment(raw)
		if line == "" {
			continue
		}
		parseLine(state, line, loc)
	}
	return state
}

// leadingColumn returns the 1-based column of the first non-whitespace
// byte on raw, or 1 if the line is entirely blank.
func leadingColumn(raw string) int {
	for i := 0; i < len(raw); i++ {
		if raw[i] != ' ' && raw[i] != '\t' {
			return i + 1
		}
	}
	return 1
}

func parseLine(state *ParseState, line string, loc Location) {
	switch {
	case strings.HasPrefix(line, "%"):
		parseDirective(state, line, loc)
	case isLabelDefinition(line):
		name := strings.TrimSuffix(strings.TrimSpace(line), ":")
		state.Items = append(state.Items, LabelDef{Name: name, Loc: loc})
	default:
		parseInstructionLine(state, line, loc)
	}
}

// isLabelDefinition reports whether line is exactly "identifier:" with no
// trailing content, per the grammar's label-definition line kind.
func isLabelDefinition(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasSuffix(trimmed, ":") {
		return false
	}
	name := strings.TrimSuffix(trimmed, ":")
	return looksLikeIdentifier(name)
}

func parseDirective(state *ParseState, line string, loc Location) {
	body := strings.TrimPrefix(line, "%")
	switch {
	case strings.HasPrefix(body, "entry"):
		rest := strings.TrimPrefix(body, "entry")
		rest = strings.TrimPrefix(strings.TrimSpace(rest), ":")
		label := strings.TrimSpace(rest)
		if !looksLikeIdentifier(label) {
			state.fail(DirectiveError, loc, "malformed %%entry directive: %q", line)
			return
		}
		state.EntryLabel = label
	case strings.HasPrefix(body, "section"):
		rest := strings.TrimSpace(strings.TrimPrefix(body, "section"))
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		if !looksLikeIdentifier(rest) {
			state.fail(DirectiveError, loc, "malformed %%section directive: %q", line)
			return
		}
		state.Section = rest
	case strings.HasPrefix(body, "d"):
		payload := strings.TrimSpace(body[1:])
		bytes, err := parseDataPayload(payload)
		if err != nil {
			state.fail(DirectiveError, loc, "malformed %%d payload: %v", err)
			return
		}
		state.Items = append(state.Items, DataBlock{Bytes: bytes})
	default:
		state.fail(DirectiveError, loc, "unknown directive %q", line)
	}
}

func parseInstructionLine(state *ParseState, line string, loc Location) {
	fields := strings.Fields(line)
	mnemonic := fields[0]
	operands := fields[1:]

	if expansions, isPseudo := expandPseudo(mnemonic, operands); isPseudo {
		if expansions == nil {
			state.fail(OperandCountMismatch, loc, "pseudo-instruction %q takes 3 operands, got %d", mnemonic, len(operands))
			return
		}
		for _, exp := range expansions {
			buildInstructionItem(state, exp.mnemonic, exp.operands, loc)
		}
		return
	}
	buildInstructionItem(state, mnemonic, operands, loc)
}

// buildInstructionItem shape-checks a real (non-pseudo) mnemonic's
// operands and appends either a ConcreteInstruction or an
// UnresolvedInstruction to state.Items.
func buildInstructionItem(state *ParseState, mnemonic string, operandTokens []string, loc Location) {
	op, ok := isa.LookupMnemonic(mnemonic)
	if !ok {
		if isPseudoMnemonic(mnemonic) {
			// arity already checked by expandPseudo's caller
			return
		}
		state.fail(UnknownInstruction, loc, "unknown instruction %q", mnemonic)
		return
	}
	format, _ := isa.FormatOf(op)
	sh := formatShapes[format]

	if len(operandTokens) != len(sh.slots) {
		state.fail(OperandCountMismatch, loc, "%s takes %d operand(s), got %d", mnemonic, len(sh.slots), len(operandTokens))
		return
	}

	operands := make([]Operand, len(operandTokens))
	hasLabel := false
	for i, tok := range operandTokens {
		val, err := classifyToken(tok)
		if err != nil {
			state.fail(ImmediateParseError, loc, "%v", err)
			return
		}
		switch sh.slots[i] {
		case slotRegister:
			if val.Kind != OperandRegister {
				state.fail(OperandTypeMismatch, loc, "%s: operand %d must be a register, got %q", mnemonic, i+1, tok)
				return
			}
		case slotRegisterOrImmediate:
			switch val.Kind {
			case OperandRegister:
				// already a register
			case OperandImmediate:
				r := isa.Reg(val.Value)
				if !r.Valid() {
					state.fail(UnknownRegister, loc, "%s: register index %d out of range", mnemonic, val.Value)
					return
				}
				val = Operand{Kind: OperandRegister, Reg: r}
			default:
				state.fail(OperandTypeMismatch, loc, "%s: operand %d must be a register or register index, got %q", mnemonic, i+1, tok)
				return
			}
		case slotImmediate:
			switch val.Kind {
			case OperandImmediate:
				if !immediateRange(val.Value, sh.widths[i]) {
					state.fail(ImmediateOutOfRange, loc, "%s: immediate %d out of range for %d-bit field", mnemonic, int32(val.Value), sh.widths[i])
					return
				}
				val.Value = narrow(val.Value, sh.widths[i])
			case OperandLabel:
				hasLabel = true
			default:
				state.fail(OperandTypeMismatch, loc, "%s: operand %d must be an immediate or label, got %q", mnemonic, i+1, tok)
				return
			}
		}
		operands[i] = val
	}

	if !hasLabel {
		inst, err := buildConcrete(op, format, operands)
		if err != nil {
			state.fail(OperandTypeMismatch, loc, "%s: %v", mnemonic, err)
			return
		}
		state.Items = append(state.Items, ConcreteInstruction{Inst: inst})
		return
	}
	state.Items = append(state.Items, UnresolvedInstruction{Op: op, Operands: operands, Loc: loc})
}

// buildConcrete assembles a fully-known operand list into a concrete
// isa.Instruction for its format.
func buildConcrete(op isa.Opcode, format isa.Format, operands []Operand) (isa.Instruction, error) {
	reg := func(i int) isa.Reg { return operands[i].Reg }
	imm := func(i int) uint32 { return operands[i].Value }

	switch format {
	case isa.FormatOp:
		return isa.Make.Op(op), nil
	case isa.FormatOpReg:
		return isa.Make.OpReg(op, reg(0)), nil
	case isa.FormatOpImm24:
		return isa.Make.OpImm24(op, imm(0)), nil
	case isa.FormatOpRegImm16:
		return isa.Make.OpRegImm16(op, reg(0), uint16(imm(1))), nil
	case isa.FormatOpRegReg:
		return isa.Make.OpRegReg(op, reg(0), reg(1)), nil
	case isa.FormatOpRegRegImm8:
		return isa.Make.OpRegRegImm8(op, reg(0), reg(1), uint8(imm(2))), nil
	case isa.FormatOpRegImm8x2:
		return isa.Make.OpRegImm8x2(op, reg(0), uint8(imm(1)), uint8(imm(2))), nil
	case isa.FormatOpRegRegReg:
		return isa.Make.OpRegRegReg(op, reg(0), reg(1), reg(2)), nil
	}
	return nil, errUnknownFormat
}

var errUnknownFormat = &Error{Message: "unknown instruction format"}

// parseDataPayload tokenizes a %d payload into its byte sequence: quoted
// strings contribute their literal bytes, numeric literals contribute 4
// little-endian bytes each.
func parseDataPayload(payload string) ([]byte, error) {
	tokens, err := tokenizeDataPayload(payload)
	if err != nil {
		return nil, err
	}
	var out []byte
	for _, tok := range tokens {
		if strings.HasPrefix(tok, "\"") {
			s, err := unquoteData(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, s...)
			continue
		}
		v, ok, err := ParseNumeric(tok)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &Error{Message: "expected quoted string or numeric literal, got " + tok}
		}
		out = append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return out, nil
}

func tokenizeDataPayload(payload string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(payload) {
		for i < len(payload) && payload[i] == ' ' {
			i++
		}
		if i >= len(payload) {
			break
		}
		if payload[i] == '"' {
			start := i
			i++
			for i < len(payload) && payload[i] != '"' {
				if payload[i] == '\\' && i+1 < len(payload) {
					i++
				}
				i++
			}
			if i >= len(payload) {
				return nil, &Error{Message: "unterminated quoted string"}
			}
			i++
			tokens = append(tokens, payload[start:i])
			continue
		}
		start := i
		for i < len(payload) && payload[i] != ' ' {
			i++
		}
		tokens = append(tokens, payload[start:i])
	}
	return tokens, nil
}

func unquoteData(tok string) ([]byte, error) {
	body := tok[1 : len(tok)-1]
	var out []byte
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		i++
		if i >= len(body) {
			return nil, &Error{Message: "trailing backslash in quoted string"}
		}
		switch body[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case '\\':
			out = append(out, '\\')
		case '"':
			out = append(out, '"')
		case '0':
			out = append(out, 0)
		default:
			return nil, &Error{Message: "unknown escape \\" + string(body[i])}
		}
	}
	return out, nil
}

// Error is a package-local error type used for conditions that never
// reach a caller expecting a *ValidationError-shaped diagnostic.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }
