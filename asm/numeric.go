package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumeric recognizes the grammar's three numeric literal forms —
// "$[-]hex", "#[-]dec", and a bare "[-]dec" — plus the "0x"/"0X" hex
// form the disassembler itself emits, so that assembling a disassembly
// round-trips. The result is the two's-complement uint32 representation
// of the value; negative literals wrap around.
func ParseNumeric(tok string) (uint32, bool, error) {
	if tok == "" {
		return 0, false, nil
	}

	neg := false
	body := tok
	base := 10
	switch {
	case body[0] == '$':
		base = 16
		body = body[1:]
	case body[0] == '#':
		base = 10
		body = body[1:]
	case len(body) > 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X'):
		base = 16
		body = body[2:]
	default:
		if !isDigitOrSign(body[0]) {
			return 0, false, nil
		}
	}
	if body == "" {
		return 0, false, fmt.Errorf("empty numeric literal %q", tok)
	}
	if body[0] == '-' {
		neg = true
		body = body[1:]
	}
	if body == "" {
		return 0, false, fmt.Errorf("malformed numeric literal %q", tok)
	}
	if base == 10 {
		if !isAllDigits(body) {
			return 0, false, nil
		}
	}
	v, err := strconv.ParseUint(body, base, 64)
	if err != nil {
		return 0, false, fmt.Errorf("malformed numeric literal %q: %w", tok, err)
	}
	if neg {
		return uint32(-int64(v)), true, nil
	}
	return uint32(v), true, nil
}

func isDigitOrSign(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-'
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// looksLikeIdentifier reports whether tok is a syntactically valid label
// or mnemonic name: starts with a letter or underscore, followed by
// letters, digits, or underscores.
func looksLikeIdentifier(tok string) bool {
	if tok == "" {
		return false
	}
	first := tok[0]
	if !(first == '_' || (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return false
	}
	for i := 1; i < len(tok); i++ {
		c := tok[i]
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

// trimComment strips a trailing "; ..." comment from line, ignoring any
// ';' that appears inside a double-quoted string (a %d payload may
// legally contain one as ordinary content).
func trimComment(line string) string {
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			if inString {
				i++
			}
		case '"':
			inString = !inString
		case ';':
			if !inString {
				return strings.TrimSpace(line[:i])
			}
		}
	}
	return strings.TrimSpace(line)
}
