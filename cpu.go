// cpu.go - MIPS R3000A-compatible integer interpreter: fetch/decode/execute
// with branch delay slots, coprocessor dispatch, and arithmetic traps
//
// Grounded on src/libemu/cpu/cpu.cpp's run() loop and instruction switch,
// generalized with the overflow trap wired to cop0 instead of a
// process-exit on overflow.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

import "fmt"

// ResetVector is the address of the first instruction fetched after reset;
// it is also where a dumped image's BIOS window must place its entry point.
const ResetVector uint32 = 0x1FC0_0000

const (
	excVectorRAM = 0x8000_0080
	excVectorROM = 0xBFC0_0180
)

// CPU is the MIPS interpreter state: general registers, HI/LO, the pc/npc
// pair modelling the branch delay slot, and the embedded cop0 coprocessor.
type CPU struct {
	Regs        [32]uint32
	HI, LO      uint32
	PC, NPC     uint32
	Ins, NextIns uint32
	Clock       uint64

	Cop0 *Cop0
	Bus  *Bus

	onTrace      func(pc, ins uint32)
	onWarn       func(format string, args ...any)
	onFatal      func(format string, args ...any) // unimplemented opcode
}

// NewCPU constructs a CPU wired to bus and cop0; both must already exist
// (board construction order: memory, devices, bus, then CPU).
func NewCPU(bus *Bus, cop0 *Cop0) *CPU {
	c := &CPU{Bus: bus, Cop0: cop0}
	c.Reset()
	return c
}

func (c *CPU) OnTrace(fn func(pc, ins uint32))           { c.onTrace = fn }
func (c *CPU) OnWarn(fn func(format string, args ...any)) { c.onWarn = fn }
func (c *CPU) OnFatal(fn func(format string, args ...any)) { c.onFatal = fn }

func (c *CPU) warn(format string, args ...any) {
	if c.onWarn != nil {
		c.onWarn(format, args...)
	}
}

func (c *CPU) fatal(format string, args ...any) {
	if c.onFatal != nil {
		c.onFatal(format, args...)
		return
	}
	panic(fmt.Sprintf(format, args...))
}

// Reset zeroes the register file and HI/LO, resets cop0, and sets pc/npc
// so that the first fetch pulls the word at ResetVector.
func (c *CPU) Reset() {
	c.Regs = [32]uint32{}
	c.HI, c.LO = 0, 0
	c.Cop0.Reset()
	c.PC = ResetVector - 4
	c.NPC = ResetVector
	c.Ins = 0
	c.NextIns = 0
	c.Clock = 0
}

func (c *CPU) reg(i uint32) uint32 { return c.Regs[i] }

func (c *CPU) setReg(i uint32, v uint32) {
	if i != 0 {
		c.Regs[i] = v
	}
}

// Run advances Clock one tick per iteration until Clock >= until. Never
// blocks; the scheduler calls this once per quantum.
func (c *CPU) Run(until uint64) {
	for c.Clock < until {
		c.Clock++
		c.step()
	}
}

func (c *CPU) step() {
	fetched := c.Bus.Read(c.NPC, W4)
	c.PC = c.NPC
	c.NPC += 4

	if c.onTrace != nil {
		c.onTrace(c.PC-4, c.Ins)
	}
	c.dispatch(c.Ins)

	c.Ins = fetched
	c.NextIns = fetched
}

// trap redirects control into the exception vector. EPC is set to the
// address of the instruction that raised it — PC-4 at dispatch time, since
// PC has already been advanced to the delay-slot address by step().
func (c *CPU) trap(code uint32) {
	c.Cop0.SetEPC(c.PC - 4)
	c.Cop0.EnterException(code)
	if c.Cop0.BEV() {
		c.NPC = excVectorROM
	} else {
		c.NPC = excVectorRAM
	}
}

func (c *CPU) readMem(addr uint32, width Width) uint32 {
	if addr&uint32(width-1) != 0 {
		c.warn("unaligned read at %#x (width %d), realigning", addr, width)
		addr &^= uint32(width - 1)
	}
	return c.Bus.Read(addr, width)
}

func (c *CPU) writeMem(addr uint32, width Width, val uint32) {
	if addr&uint32(width-1) != 0 {
		c.warn("unaligned write at %#x (width %d), realigning", addr, width)
		addr &^= uint32(width - 1)
	}
	if c.Cop0.IsCacheIsolated() {
		return
	}
	c.Bus.Write(addr, width, val)
}

func signExtendByte(b byte) uint32  { return uint32(int32(int8(b))) }
func signExtendHalf(h uint16) uint32 { return uint32(int32(int16(h))) }

func addOverflows(a, b int32) (int32, bool) {
	sum := a + b
	return sum, ((a ^ sum) & (b ^ sum)) < 0
}

func (c *CPU) dispatch(ins uint32) {
	op := opOf(ins)
	switch op {
	case opSpecial:
		c.execSpecial(ins)
	case opBcond:
		c.execBcond(ins)
	case opJ:
		c.execJump(ins, false)
	case opJAL:
		c.execJump(ins, true)
	case opBEQ:
		c.execBranch(ins, c.reg(rsOf(ins)) == c.reg(rtOf(ins)))
	case opBNE:
		c.execBranch(ins, c.reg(rsOf(ins)) != c.reg(rtOf(ins)))
	case opBLEZ:
		c.execBranch(ins, int32(c.reg(rsOf(ins))) <= 0)
	case opBGTZ:
		c.execBranch(ins, int32(c.reg(rsOf(ins))) > 0)
	case opADDI:
		a := int32(c.reg(rsOf(ins)))
		sum, overflow := addOverflows(a, immOf(ins))
		if overflow {
			c.trap(ExcOv)
			return
		}
		c.setReg(rtOf(ins), uint32(sum))
	case opADDIU:
		c.setReg(rtOf(ins), c.reg(rsOf(ins))+uint32(immOf(ins)))
	case opSLTI:
		if int32(c.reg(rsOf(ins))) < immOf(ins) {
			c.setReg(rtOf(ins), 1)
		} else {
			c.setReg(rtOf(ins), 0)
		}
	case opSLTIU:
		if c.reg(rsOf(ins)) < uint32(immOf(ins)) {
			c.setReg(rtOf(ins), 1)
		} else {
			c.setReg(rtOf(ins), 0)
		}
	case opANDI:
		c.setReg(rtOf(ins), c.reg(rsOf(ins))&uimmOf(ins))
	case opORI:
		c.setReg(rtOf(ins), c.reg(rsOf(ins))|uimmOf(ins))
	case opLUI:
		c.setReg(rtOf(ins), uimmOf(ins)<<16)
	case opCOP0, opCOP1, opCOP2, opCOP3:
		c.execCop(ins, copN(ins))
	case opLB:
		c.setReg(rtOf(ins), signExtendByte(byte(c.readMem(c.reg(rsOf(ins))+uint32(immOf(ins)), W1))))
	case opLH:
		c.setReg(rtOf(ins), signExtendHalf(uint16(c.readMem(c.reg(rsOf(ins))+uint32(immOf(ins)), W2))))
	case opLW:
		c.setReg(rtOf(ins), c.readMem(c.reg(rsOf(ins))+uint32(immOf(ins)), W4))
	case opLBU:
		c.setReg(rtOf(ins), c.readMem(c.reg(rsOf(ins))+uint32(immOf(ins)), W1))
	case opLHU:
		c.setReg(rtOf(ins), c.readMem(c.reg(rsOf(ins))+uint32(immOf(ins)), W2))
	case opSB:
		c.writeMem(c.reg(rsOf(ins))+uint32(immOf(ins)), W1, c.reg(rtOf(ins)))
	case opSH:
		c.writeMem(c.reg(rsOf(ins))+uint32(immOf(ins)), W2, c.reg(rtOf(ins)))
	case opSW:
		c.writeMem(c.reg(rsOf(ins))+uint32(immOf(ins)), W4, c.reg(rtOf(ins)))
	default:
		c.fatal("unimplemented opcode %#x (ins %#08x) at pc %#x", op, ins, c.PC-4)
	}
}

func (c *CPU) execSpecial(ins uint32) {
	rs, rt, rd, sh := rsOf(ins), rtOf(ins), rdOf(ins), shamtOf(ins)
	switch functOf(ins) {
	case fnSLL:
		c.setReg(rd, c.reg(rt)<<sh)
	case fnSRL:
		c.setReg(rd, c.reg(rt)>>sh)
	case fnSRA:
		c.setReg(rd, uint32(int32(c.reg(rt))>>sh))
	case fnSLLV:
		c.setReg(rd, c.reg(rt)<<(c.reg(rs)&0x1F))
	case fnSRAV:
		c.setReg(rd, uint32(int32(c.reg(rt))>>(c.reg(rs)&0x1F)))
	case fnJR:
		c.NPC = c.reg(rs)
	case fnJALR:
		ret := c.NPC
		c.NPC = c.reg(rs)
		c.setReg(rd, ret)
	case fnSYS:
		c.trap(ExcSyscall)
	case fnMFHI:
		c.setReg(rd, c.HI)
	case fnMTHI:
		c.HI = c.reg(rs)
	case fnMFLO:
		c.setReg(rd, c.LO)
	case fnMTLO:
		c.LO = c.reg(rs)
	case fnMULT:
		prod := int64(int32(c.reg(rs))) * int64(int32(c.reg(rt)))
		c.HI, c.LO = uint32(uint64(prod)>>32), uint32(prod)
	case fnMULTU:
		prod := uint64(c.reg(rs)) * uint64(c.reg(rt))
		c.HI, c.LO = uint32(prod>>32), uint32(prod)
	case fnDIV:
		n, d := int32(c.reg(rs)), int32(c.reg(rt))
		if d == 0 {
			c.LO = map[bool]uint32{true: 0xFFFF_FFFF, false: 1}[n >= 0]
			c.HI = uint32(n)
		} else {
			c.LO, c.HI = uint32(n/d), uint32(n%d)
		}
	case fnDIVU:
		n, d := c.reg(rs), c.reg(rt)
		if d == 0 {
			c.LO = 0xFFFF_FFFF
			c.HI = n
		} else {
			c.LO, c.HI = n/d, n%d
		}
	case fnADD:
		sum, overflow := addOverflows(int32(c.reg(rs)), int32(c.reg(rt)))
		if overflow {
			c.trap(ExcOv)
			return
		}
		c.setReg(rd, uint32(sum))
	case fnADDU:
		c.setReg(rd, c.reg(rs)+c.reg(rt))
	case fnSUBU:
		c.setReg(rd, c.reg(rs)-c.reg(rt))
	case fnAND:
		c.setReg(rd, c.reg(rs)&c.reg(rt))
	case fnOR:
		c.setReg(rd, c.reg(rs)|c.reg(rt))
	case fnNOR:
		c.setReg(rd, ^(c.reg(rs) | c.reg(rt)))
	case fnSLT:
		if int32(c.reg(rs)) < int32(c.reg(rt)) {
			c.setReg(rd, 1)
		} else {
			c.setReg(rd, 0)
		}
	case fnSLTU:
		if c.reg(rs) < c.reg(rt) {
			c.setReg(rd, 1)
		} else {
			c.setReg(rd, 0)
		}
	default:
		c.fatal("unimplemented SPECIAL funct %#x (ins %#08x) at pc %#x", functOf(ins), ins, c.PC-4)
	}
}

func (c *CPU) execBcond(ins uint32) {
	rs := rsOf(ins)
	switch rtOf(ins) {
	case rtBLTZ:
		c.execBranch(ins, int32(c.reg(rs)) < 0)
	case rtBGEZ:
		c.execBranch(ins, int32(c.reg(rs)) >= 0)
	case rtBLTZAL:
		c.setReg(31, c.NPC)
		c.execBranch(ins, int32(c.reg(rs)) < 0)
	case rtBGEZAL:
		c.setReg(31, c.NPC)
		c.execBranch(ins, int32(c.reg(rs)) >= 0)
	default:
		c.fatal("unimplemented BCOND rt %#x at pc %#x", rtOf(ins), c.PC-4)
	}
}

// execBranch redirects NPC to PC + imm*4 (PC, at dispatch time, already
// holds the delay-slot instruction's address) when taken is true.
func (c *CPU) execBranch(ins uint32, taken bool) {
	if !taken {
		return
	}
	c.NPC = c.PC + uint32(immOf(ins)<<2)
}

// execJump replaces the low 28 bits of PC (the delay-slot address) with
// target<<2, preserving the upper 4 bits. link writes the unredirected
// NPC (the address after the delay slot) into r31 first.
func (c *CPU) execJump(ins uint32, link bool) {
	ret := c.NPC
	c.NPC = (c.PC & 0xF000_0000) | (targetOf(ins) << 2)
	if link {
		c.setReg(31, ret)
	}
}

func (c *CPU) execCop(ins uint32, n uint32) {
	if n != 0 {
		c.warn("coprocessor %d not implemented, ignoring (ins %#08x)", n, ins)
		return
	}
	if isCopFn(ins) {
		switch copFn(ins) {
		case fnRFE:
			c.Cop0.RestoreFromException()
		default:
			c.warn("unimplemented cop0 function %#x, ignoring", copFn(ins))
		}
		return
	}
	switch copSubop(ins) {
	case copMFC:
		c.setReg(rtOf(ins), c.Cop0.Regs[rdOf(ins)])
	case copMTC:
		c.Cop0.Regs[rdOf(ins)] = c.reg(rtOf(ins))
	default:
		c.warn("unimplemented cop0 sub-op %#x, ignoring", copSubop(ins))
	}
}
