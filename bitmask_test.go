package main

import "testing"

func TestNewMask32RejectsZero(t *testing.T) {
	if _, err := NewMask32(0); err != ErrInvalidMask {
		t.Fatalf("expected ErrInvalidMask for zero mask, got %v", err)
	}
}

func TestNewMask32RejectsNonContiguous(t *testing.T) {
	if _, err := NewMask32(0b1011); err != ErrInvalidMask {
		t.Fatalf("expected ErrInvalidMask for non-contiguous mask, got %v", err)
	}
}

func TestMask32GetSet(t *testing.T) {
	m := MustMask32(0x0000_0F00)
	word := uint32(0xABCD_1234)
	if got := m.Get(word); got != 0x2 {
		t.Fatalf("Get: got %#x want %#x", got, 0x2)
	}
	word = m.Set(word, 0xF)
	if got := m.Get(word); got != 0xF {
		t.Fatalf("Set then Get: got %#x want %#x", got, 0xF)
	}
	if word&^uint32(0x0000_0F00) != 0xABCD_1234&^uint32(0x0000_0F00) {
		t.Fatalf("Set must not disturb bits outside the field")
	}
}

func TestMask32ShlShr(t *testing.T) {
	m := MustMask32(0x0000_00FF)
	word := m.Set(0, 0x01)
	word = m.Shl(word, 2)
	if m.Get(word) != 0x04 {
		t.Fatalf("Shl: got %#x want %#x", m.Get(word), 0x04)
	}
	word = m.Shr(word, 1)
	if m.Get(word) != 0x02 {
		t.Fatalf("Shr: got %#x want %#x", m.Get(word), 0x02)
	}
}

func TestMask16RoundTrip(t *testing.T) {
	m := MustMask16(0x003F)
	word := uint16(0xFFC0)
	word = m.Set(word, 0x2A)
	if m.Get(word) != 0x2A {
		t.Fatalf("got %#x want %#x", m.Get(word), 0x2A)
	}
	if word&0xFFC0 != 0xFFC0 {
		t.Fatalf("Set disturbed bits outside the field: %#x", word)
	}
}

func TestMask16Test(t *testing.T) {
	m := MustMask16(0x0001)
	if m.Test(0) {
		t.Fatal("Test should be false on zero field")
	}
	if !m.Test(1) {
		t.Fatal("Test should be true when field bit is set")
	}
}
