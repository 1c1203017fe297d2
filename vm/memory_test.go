package vm

import "testing"

func TestMemoryWordRoundTrip(t *testing.T) {
	m := NewMemory(64)
	if err := m.WriteWord(4, 0xDEADBEEF); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	got, err := m.ReadWord(4)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Fatalf("got 0x%08x, want 0xDEADBEEF", got)
	}
}

func TestMemoryOutOfBounds(t *testing.T) {
	m := NewMemory(8)
	if _, err := m.ReadWord(6); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
	if err := m.WriteWord(6, 1); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

func TestMemoryLoadExceedsSize(t *testing.T) {
	m := NewMemory(4)
	if err := m.Load(0, []byte{1, 2, 3, 4, 5}); err == nil {
		t.Fatal("expected load-too-large error")
	}
}

func TestMemoryDefaultSize(t *testing.T) {
	m := NewMemory(0)
	if m.Size() != DefaultMemorySize {
		t.Fatalf("size = %d, want %d", m.Size(), DefaultMemorySize)
	}
}
