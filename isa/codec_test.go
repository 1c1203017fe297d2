package isa

import "testing"

func roundTripInsts() []Instruction {
	return []Instruction{
		InstOp{Op: NOP},
		InstOp{Op: HLT},
		InstOp{Op: RET},
		InstOpReg{Op: JMP, A: R3},
		InstOpReg{Op: CAL, A: SP},
		InstOpImm24{Op: JMI, Addr: 0xABCDEF},
		InstOpImm24{Op: INT, Addr: 1},
		InstOpRegImm16{Op: SET, A: R0, Imm: 0xFFFF},
		InstOpRegImm16{Op: SUP, A: AT, Imm: 0x1234},
		InstOpRegReg{Op: MOV, A: R1, B: R2},
		InstOpRegReg{Op: NOT, A: R1, B: R2},
		InstOpRegReg{Op: SXT, A: R1, B: R2},
		InstOpRegRegImm8{Op: LDW, A: R0, B: R1, Offset: 4},
		InstOpRegRegImm8{Op: BVE, A: PC, B: R1, Offset: 0xFF},
		InstOpRegImm8x2{Op: SIA, A: R5, V0: 1, V1: 2},
		InstOpRegRegReg{Op: ADD, A: R0, B: R1, C: R2},
		InstOpRegRegReg{Op: SND, A: R0, B: R1, C: R2},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, inst := range roundTripInsts() {
		w := Encode(inst)
		decoded, err := Decode(w)
		if err != nil {
			t.Fatalf("decode(encode(%#v)) failed: %v", inst, err)
		}
		if decoded != inst {
			t.Fatalf("round trip mismatch: %#v != %#v", decoded, inst)
		}
		if Encode(decoded) != w {
			t.Fatalf("re-encode mismatch for %#v", inst)
		}
	}
}

func TestEncodeBytesLittleEndian(t *testing.T) {
	for _, inst := range roundTripInsts() {
		w := Encode(inst)
		b := EncodeBytes(inst)
		for k := 0; k < 4; k++ {
			want := byte(w >> (8 * uint(k)))
			if b[k] != want {
				t.Fatalf("byte %d: got %#x want %#x", k, b[k], want)
			}
		}
	}
}

func TestDecodeInvalidOpcode(t *testing.T) {
	_, err := Decode(0xAB000000)
	var de *DecodeError
	if err == nil {
		t.Fatal("expected error")
	}
	if !asDecodeError(err, &de) || de.Kind != InvalidOpcode {
		t.Fatalf("expected InvalidOpcode, got %v", err)
	}
}

func TestDecodeInvalidRegister(t *testing.T) {
	// mov is op_reg_reg; register field A = 0xFF is out of range
	w := uint32(MOV)<<24 | uint32(0xFF)<<16
	_, err := Decode(w)
	var de *DecodeError
	if !asDecodeError(err, &de) || de.Kind != InvalidRegister {
		t.Fatalf("expected InvalidRegister, got %v", err)
	}
}

func TestDecodeBytesShort(t *testing.T) {
	_, err := DecodeBytes([]byte{1, 2, 3})
	var de *DecodeError
	if !asDecodeError(err, &de) || de.Kind != MalformedInstruction {
		t.Fatalf("expected MalformedInstruction, got %v", err)
	}
}

func TestDecodeSequenceStopsOnError(t *testing.T) {
	good := EncodeBytes(InstOp{Op: NOP})
	bad := []byte{0x00, 0x00, 0x00, 0xAB}
	buf := append(append([]byte{}, good[:]...), bad...)
	_, err := DecodeSequence(buf)
	if err == nil {
		t.Fatal("expected error from malformed second word")
	}
}

func asDecodeError(err error, out **DecodeError) bool {
	de, ok := err.(*DecodeError)
	if ok {
		*out = de
	}
	return ok
}
