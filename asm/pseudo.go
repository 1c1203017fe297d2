package asm

// pseudoExpansion is one line of a pseudo-instruction's rewrite: a real
// mnemonic and the operand tokens to build it from.
type pseudoExpansion struct {
	mnemonic string
	operands []string
}

// expandPseudo rewrites a pseudo-instruction into the sequence of real
// instructions it stands for. ok is false when mnemonic names no known
// pseudo-instruction, in which case the caller falls through to the
// ordinary opcode-table lookup.
func expandPseudo(mnemonic string, operands []string) ([]pseudoExpansion, bool) {
	switch mnemonic {
	case "adi":
		if len(operands) != 3 {
			return nil, true
		}
		rA, rB, imm := operands[0], operands[1], operands[2]
		return []pseudoExpansion{
			{"set", []string{"at", imm}},
			{"add", []string{rA, rB, "at"}},
		}, true
	case "sbi":
		if len(operands) != 3 {
			return nil, true
		}
		rA, rB, imm := operands[0], operands[1], operands[2]
		return []pseudoExpansion{
			{"set", []string{"at", imm}},
			{"sub", []string{rA, rB, "at"}},
		}, true
	case "bif":
		if len(operands) != 3 {
			return nil, true
		}
		r, addr, v := operands[0], operands[1], operands[2]
		return []pseudoExpansion{
			{"set", []string{"ad", addr}},
			{"bve", []string{"ad", r, v}},
		}, true
	}
	return nil, false
}

// isPseudoMnemonic reports whether mnemonic is a recognized pseudo-op
// name, independent of arity, so a wrong-arity use is reported as
// operand_count_mismatch rather than unknown_instruction.
func isPseudoMnemonic(mnemonic string) bool {
	switch mnemonic {
	case "adi", "sbi", "bif":
		return true
	}
	return false
}
