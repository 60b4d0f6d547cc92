// loader.go - BIOS and PSX-EXE image loaders
//
// Grounded on the reference emulator's ROM/RAM image loading in
// src/main.cpp: a BIOS is copied verbatim into ROM, while a PSX-EXE is
// parsed against its fixed header table and stamped with a synthesised
// entry stub.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var exeMagic = [8]byte{'P', 'S', '-', 'X', ' ', 'E', 'X', 'E'}

// ErrBadMagic is returned by LoadEXE when the file does not start with the
// PSX-EXE magic string.
var ErrBadMagic = errors.New("not a PS-X EXE image")

// LoadBIOS copies image verbatim into ROM at offset 0. image must be
// exactly romSize bytes; anything else is a load failure (exit code 2).
func LoadBIOS(b *Board, image []byte) error {
	if len(image) != romSize {
		return fmt.Errorf("BIOS image is %d bytes, want %d", len(image), romSize)
	}
	copy(b.ROM.mem, image)
	return nil
}

const (
	exeOffPC          = 0x010
	exeOffGP          = 0x014
	exeOffLoadAddr    = 0x018
	exeOffSize        = 0x01C
	exeOffMemfillAddr = 0x028
	exeOffMemfillSize = 0x02C
	exeOffSPBase      = 0x030
	exeOffSPOffset    = 0x034
	exeCodeOffset     = 0x800
)

// stubEntry is where LoadEXE synthesises its tiny BIOS stub; it is the
// address the board's reset vector already points at.
const stubEntry = ResetVector

func u32le(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// LoadEXE parses a PSX-EXE image, zero-fills its memfill region, copies
// the code image to its load address, and synthesises a small stub at the
// reset vector that materialises GP/SP/FP and jumps to the recorded entry
// PC — so a board built with LoadEXE can Run exactly as one booted from a
// real BIOS.
func LoadEXE(b *Board, file []byte) error {
	if len(file) < exeCodeOffset || [8]byte(file[0:8]) != exeMagic {
		return ErrBadMagic
	}

	entryPC := u32le(file, exeOffPC)
	gp := u32le(file, exeOffGP)
	loadAddr := u32le(file, exeOffLoadAddr)
	size := u32le(file, exeOffSize)
	memfillAddr := u32le(file, exeOffMemfillAddr)
	memfillSize := u32le(file, exeOffMemfillSize)
	spBase := u32le(file, exeOffSPBase)
	spOffset := u32le(file, exeOffSPOffset)

	if int(exeCodeOffset+size) > len(file) {
		return fmt.Errorf("exe size %d exceeds file length %d", size, len(file))
	}

	for i := uint32(0); i < memfillSize; i++ {
		b.Bus.Write(memfillAddr+i, W1, 0)
	}
	code := file[exeCodeOffset : exeCodeOffset+size]
	for i, byteVal := range code {
		b.Bus.Write(loadAddr+uint32(i), W1, uint32(byteVal))
	}

	sp := spBase
	if spOffset != 0 {
		sp = spBase + spOffset
	}
	stampEntryStub(b, entryPC, gp, sp)
	return nil
}

func encodeIWord(op, rs, rt uint32, imm uint16) uint32 {
	return op<<26 | rs<<21 | rt<<16 | uint32(imm)
}

func encodeRWord(funct, rs, rt, rd, shamt uint32) uint32 {
	return rs<<21 | rt<<16 | rd<<11 | shamt<<6 | funct
}

// stampEntryStub writes a handful of instructions at stubEntry that load
// gp/sp into r28/r29, copy sp into fp (r30), then jump to entryPC. The stub
// lives in ROM, which the reset vector already targets.
func stampEntryStub(b *Board, entryPC, gp, sp uint32) {
	prog := []uint32{
		encodeIWord(opLUI, 0, 28, uint16(gp>>16)),
		encodeIWord(opORI, 28, 28, uint16(gp)),
		encodeIWord(opLUI, 0, 29, uint16(sp>>16)),
		encodeIWord(opORI, 29, 29, uint16(sp)),
		encodeRWord(fnADDU, 29, 0, 30, 0), // fp = sp
		encodeIWord(opLUI, 0, 1, uint16(entryPC>>16)),
		encodeIWord(opORI, 1, 1, uint16(entryPC)),
		encodeRWord(fnJR, 1, 0, 0, 0),
		encodeRWord(fnSLL, 0, 0, 0, 0), // delay slot: nop
	}
	for i, w := range prog {
		off := uint32(i * 4)
		b.Bus.Write(stubEntry+off, W4, w)
	}
}
