// decode.go - instruction field accessors
//
// Grounded on src/cpu/decoder.hpp's bit-field extraction methods, ported
// to free functions over a raw instruction word.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

func opOf(ins uint32) uint32    { return ins >> 26 & 0x3F }
func rsOf(ins uint32) uint32    { return ins >> 21 & 0x1F }
func rtOf(ins uint32) uint32    { return ins >> 16 & 0x1F }
func rdOf(ins uint32) uint32    { return ins >> 11 & 0x1F }
func shamtOf(ins uint32) uint32 { return ins >> 6 & 0x1F }
func functOf(ins uint32) uint32 { return ins & 0x3F }
func uimmOf(ins uint32) uint32  { return ins & 0xFFFF }
func immOf(ins uint32) int32    { return int32(int16(ins & 0xFFFF)) }
func targetOf(ins uint32) uint32 { return ins & 0x03FF_FFFF }

func isCop(ins uint32) bool   { return ins&0x4000_0000 != 0 }
func copN(ins uint32) uint32  { return opOf(ins) & 0x3 }
func isCopFn(ins uint32) bool { return ins&0x0200_0000 != 0 }
func copSubop(ins uint32) uint32 { return rsOf(ins) }
func copFn(ins uint32) uint32    { return ins & 0x01FF_FFFF }

// Primary opcodes.
const (
	opSpecial = 0x00
	opBcond   = 0x01
	opJ       = 0x02
	opJAL     = 0x03
	opBEQ     = 0x04
	opBNE     = 0x05
	opBLEZ    = 0x06
	opBGTZ    = 0x07
	opADDI    = 0x08
	opADDIU   = 0x09
	opSLTI    = 0x0A
	opSLTIU   = 0x0B
	opANDI    = 0x0C
	opORI     = 0x0D
	opLUI     = 0x0F
	opCOP0    = 0x10
	opCOP1    = 0x11
	opCOP2    = 0x12
	opCOP3    = 0x13
	opLB      = 0x20
	opLH      = 0x21
	opLW      = 0x23
	opLBU     = 0x24
	opLHU     = 0x25
	opSB      = 0x28
	opSH      = 0x29
	opSW      = 0x2B
)

// SPECIAL (opcode 0) funct codes.
const (
	fnSLL  = 0x00
	fnSRL  = 0x02
	fnSRA  = 0x03
	fnSLLV = 0x04
	fnSRAV = 0x07
	fnJR   = 0x08
	fnJALR = 0x09
	fnSYS  = 0x0C
	fnMFHI = 0x10
	fnMTHI = 0x11
	fnMFLO = 0x12
	fnMTLO = 0x13
	fnMULT = 0x18
	fnMULTU = 0x19
	fnDIV  = 0x1A
	fnDIVU = 0x1B
	fnADD  = 0x20
	fnADDU = 0x21
	fnSUBU = 0x23
	fnAND  = 0x24
	fnOR   = 0x25
	fnNOR  = 0x27
	fnSLT  = 0x2A
	fnSLTU = 0x2B
)

// BCOND (opcode 1) rt codes.
const (
	rtBLTZ   = 0x00
	rtBGEZ   = 0x01
	rtBLTZAL = 0x10
	rtBGEZAL = 0x11
)

// cop0 rs sub-ops (when not a funct-form cop0 instruction).
const (
	copMFC = 0x00
	copMTC = 0x04
)

const fnRFE = 0x10
