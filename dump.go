// dump.go - binary state snapshot/restore
//
// Grounded on the reference emulator's debug_snapshot save/load routines:
// a fixed-layout little-endian record (board revision, CPU state, then the
// full board memory buffer — RAM, ROM, and every device's register bytes)
// written and read with encoding/binary.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

import (
	"encoding/binary"
	"fmt"
	"io"
)

// boardRevision is bumped whenever the dump layout changes incompatibly.
const boardRevision uint16 = 2

// UnsupportedRevision is returned by Restore when a dump's revision field
// does not match boardRevision.
type UnsupportedRevision struct {
	Got, Want uint16
}

func (e *UnsupportedRevision) Error() string {
	return fmt.Sprintf("unsupported dump revision %d, want %d", e.Got, e.Want)
}

// Dump serializes board state: revision, CPU registers and clock, cop0
// registers, then the entire board memory buffer — RAM, ROM, and every
// memory-mapped device's register bytes, in the order the Board struct
// declares them.
func Dump(w io.Writer, b *Board) error {
	bw := &byteWriter{w: w}
	bw.u16(boardRevision)
	bw.u64(b.CPU.Clock)
	bw.u32(b.CPU.Ins)
	bw.u32(b.CPU.PC)
	bw.u32(b.CPU.NextIns)
	bw.u32(b.CPU.NPC)
	for _, r := range b.CPU.Regs {
		bw.u32(r)
	}
	bw.u32(b.CPU.HI)
	bw.u32(b.CPU.LO)
	for _, r := range b.Cop0.Regs {
		bw.u32(r)
	}
	bw.bytes(b.RAM.mem)
	bw.bytes(b.ROM.mem)
	bw.bytes(b.IRQ.mem)
	bw.bytes(b.DMA.mem)
	bw.bytes(b.TMR0.mem)
	bw.bytes(b.TMR1.mem)
	bw.bytes(b.TMR2.mem)
	bw.bytes(b.SPU.mem)
	bw.bytes(b.GPUIO.readMem)
	bw.bytes(b.GPUIO.writeMem)
	return bw.err
}

// Restore reads a dump written by Dump back into b, failing with
// *UnsupportedRevision* if the revision field does not match.
func Restore(r io.Reader, b *Board) error {
	br := &byteReader{r: r}
	rev := br.u16()
	if br.err != nil {
		return br.err
	}
	if rev != boardRevision {
		return &UnsupportedRevision{Got: rev, Want: boardRevision}
	}
	b.CPU.Clock = br.u64()
	b.CPU.Ins = br.u32()
	b.CPU.PC = br.u32()
	b.CPU.NextIns = br.u32()
	b.CPU.NPC = br.u32()
	for i := range b.CPU.Regs {
		b.CPU.Regs[i] = br.u32()
	}
	b.CPU.HI = br.u32()
	b.CPU.LO = br.u32()
	for i := range b.Cop0.Regs {
		b.Cop0.Regs[i] = br.u32()
	}
	br.fullBytes(b.RAM.mem)
	br.fullBytes(b.ROM.mem)
	br.fullBytes(b.IRQ.mem)
	br.fullBytes(b.DMA.mem)
	br.fullBytes(b.TMR0.mem)
	br.fullBytes(b.TMR1.mem)
	br.fullBytes(b.TMR2.mem)
	br.fullBytes(b.SPU.mem)
	br.fullBytes(b.GPUIO.readMem)
	br.fullBytes(b.GPUIO.writeMem)
	return br.err
}

// byteWriter/byteReader keep Dump/Restore free of repetitive error checks;
// the first error short-circuits every subsequent call.

type byteWriter struct {
	w   io.Writer
	err error
}

func (bw *byteWriter) u16(v uint16) { bw.write(v) }
func (bw *byteWriter) u32(v uint32) { bw.write(v) }
func (bw *byteWriter) u64(v uint64) { bw.write(v) }

func (bw *byteWriter) write(v any) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.LittleEndian, v)
}

func (bw *byteWriter) bytes(b []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(b)
}

type byteReader struct {
	r   io.Reader
	err error
}

func (br *byteReader) u16() uint16 {
	var v uint16
	br.read(&v)
	return v
}

func (br *byteReader) u32() uint32 {
	var v uint32
	br.read(&v)
	return v
}

func (br *byteReader) u64() uint64 {
	var v uint64
	br.read(&v)
	return v
}

func (br *byteReader) read(v any) {
	if br.err != nil {
		return
	}
	br.err = binary.Read(br.r, binary.LittleEndian, v)
}

func (br *byteReader) fullBytes(dst []byte) {
	if br.err != nil {
		return
	}
	_, br.err = io.ReadFull(br.r, dst)
}
