package main

import (
	"encoding/binary"
	"testing"
)

func TestLoadBIOSCopiesImageVerbatim(t *testing.T) {
	b := NewBoard(nil)
	image := make([]byte, romSize)
	image[0] = 0xAB
	image[romSize-1] = 0xCD
	if err := LoadBIOS(b, image); err != nil {
		t.Fatalf("LoadBIOS: %v", err)
	}
	if b.ROM.mem[0] != 0xAB || b.ROM.mem[romSize-1] != 0xCD {
		t.Fatal("BIOS image not copied verbatim")
	}
}

func TestLoadBIOSRejectsWrongSize(t *testing.T) {
	b := NewBoard(nil)
	if err := LoadBIOS(b, make([]byte, 10)); err == nil {
		t.Fatal("expected an error for a short BIOS image")
	}
}

func buildTestEXE() []byte {
	file := make([]byte, exeCodeOffset+2048)
	copy(file[0:8], exeMagic[:])
	binary.LittleEndian.PutUint32(file[exeOffPC:], 0x8001_0000)
	binary.LittleEndian.PutUint32(file[exeOffGP:], 0x8001_F800)
	binary.LittleEndian.PutUint32(file[exeOffLoadAddr:], 0x8001_0000)
	binary.LittleEndian.PutUint32(file[exeOffSize:], 2048)
	binary.LittleEndian.PutUint32(file[exeOffMemfillAddr:], 0x8001_E000)
	binary.LittleEndian.PutUint32(file[exeOffMemfillSize:], 16)
	binary.LittleEndian.PutUint32(file[exeOffSPBase:], 0x8002_0000)
	file[exeCodeOffset] = 0x42 // first code byte, arbitrary
	return file
}

func TestLoadEXERejectsBadMagic(t *testing.T) {
	b := NewBoard(nil)
	if err := LoadEXE(b, make([]byte, exeCodeOffset+4)); err != ErrBadMagic {
		t.Fatalf("err = %v, want ErrBadMagic", err)
	}
}

func TestLoadEXECopiesCodeAndZeroFillsMemfillRegion(t *testing.T) {
	b := NewBoard(nil)
	file := buildTestEXE()
	b.Bus.Write(0x8001_E000, W1, 0xFF) // pre-dirty the memfill region
	if err := LoadEXE(b, file); err != nil {
		t.Fatalf("LoadEXE: %v", err)
	}
	if b.Bus.Read(0x8001_0000, W1) != 0x42 {
		t.Fatal("code image not copied to load address")
	}
	if b.Bus.Read(0x8001_E000, W1) != 0 {
		t.Fatal("memfill region not zeroed")
	}
}

func TestLoadEXEStampsJumpStubAtResetVector(t *testing.T) {
	b := NewBoard(nil)
	file := buildTestEXE()
	if err := LoadEXE(b, file); err != nil {
		t.Fatalf("LoadEXE: %v", err)
	}
	word := b.Bus.Read(ResetVector, W4)
	if opOf(word) != opLUI {
		t.Fatalf("first stub instruction op = %#x, want LUI", opOf(word))
	}
}
