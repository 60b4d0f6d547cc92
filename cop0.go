// cop0.go - coprocessor 0: system control registers and the exception
// entry/exit state machine
//
// Grounded on src/cpu/cop0.{hpp,cpp} (register file, interrupt_request stub)
// generalized to the full exception engine the CPU interpreter needs.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

// cop0 register indices that the core reads or writes.
const (
	cop0BadVaddr = 8
	cop0SR       = 12
	cop0Cause    = 13
	cop0EPC      = 14
	cop0PRId     = 15
)

// Exception codes (Cause.ExcCode), MIPS R3000A numbering.
const (
	ExcInt     = 0
	ExcMod     = 1
	ExcTLBL    = 2
	ExcTLBS    = 3
	ExcAdEL    = 4
	ExcAdES    = 5
	ExcIBE     = 6
	ExcDBE     = 7
	ExcSyscall = 8
	ExcBp      = 9
	ExcRi      = 10
	ExcCpU     = 11
	ExcOv      = 12
)

var (
	srModeStack  = MustMask32(0x0000_003F) // IEc,KUc,IEp,KUp,IEo,KUo
	srIEc        = MustMask32(0x0000_0001)
	srKUc        = MustMask32(0x0000_0002)
	srIsC        = MustMask32(0x0001_0000)
	srBEV        = MustMask32(0x0040_0000)
	causeExcCode = MustMask32(0x0000_007C)
	causeIPPeer  = MustMask32(0x0000_0400) // IP2: latched on a peripheral interrupt request
)

// Cop0 is the system-control coprocessor state: 32 general registers plus
// the named fields (SR, Cause, EPC, BadVaddr, PRId) the core interprets.
type Cop0 struct {
	Regs [32]uint32

	onInterruptRequest func()
}

func NewCop0() *Cop0 {
	return &Cop0{}
}

func (c *Cop0) Reset() {
	c.Regs = [32]uint32{}
	c.Regs[cop0PRId] = 0x0000_0002 // PSX CPU revision, matches the reference boot ROM's expectation
}

func (c *Cop0) SR() uint32    { return c.Regs[cop0SR] }
func (c *Cop0) Cause() uint32 { return c.Regs[cop0Cause] }
func (c *Cop0) EPC() uint32   { return c.Regs[cop0EPC] }

func (c *Cop0) SetSR(v uint32)    { c.Regs[cop0SR] = v }
func (c *Cop0) SetEPC(v uint32)   { c.Regs[cop0EPC] = v }
func (c *Cop0) SetCause(v uint32) { c.Regs[cop0Cause] = v }

// IsCacheIsolated reports SR.IsC: when set, data writes are swallowed.
func (c *Cop0) IsCacheIsolated() bool { return srIsC.Test(c.SR()) }

// BEV reports SR.BEV: boot exception vectors in ROM vs RAM.
func (c *Cop0) BEV() bool { return srBEV.Test(c.SR()) }

// EnterException pushes the current {IEc,KUc} pair onto SR's two-deep
// stack, sets KUc=1 (kernel mode) and IEc=0 (interrupts disabled), and
// writes code into Cause.ExcCode. The caller must have already written EPC.
func (c *Cop0) EnterException(code uint32) {
	sr := c.SR()
	stack := srModeStack.Get(sr)
	sr = srModeStack.Set(sr, (stack<<2)&0x3F)
	sr = srKUc.Set(sr, 1)
	sr = srIEc.Set(sr, 0)
	c.SetSR(sr)
	c.SetCause(causeExcCode.Set(c.Cause(), code))
}

// RestoreFromException implements RFE: shift SR bits 0..5 right by 2 into
// bits 0..3, leaving bits 4..5 (the oldest saved pair) unchanged.
func (c *Cop0) RestoreFromException() {
	sr := c.SR()
	restored := (sr >> 2) & 0x0F
	sr = (sr &^ uint32(0x0F)) | restored
	c.SetSR(sr)
}

// InterruptRequest models an external IRQ assertion reaching cop0: it
// latches IP2 in Cause and notifies an observer (used by the CLI's
// --verbose trace), but does not itself redirect the instruction stream
// — preemptive dispatch is not implemented.
func (c *Cop0) InterruptRequest() {
	c.SetCause(causeIPPeer.Set(c.Cause(), 1))
	if c.onInterruptRequest != nil {
		c.onInterruptRequest()
	}
}

// OnInterruptRequest registers an observer invoked by InterruptRequest,
// used by the CLI to log a trace line without coupling cop0 to the
// logging package.
func (c *Cop0) OnInterruptRequest(fn func()) { c.onInterruptRequest = fn }
