// devices.go - memory-mapped devices: RAM, ROM, interrupt controller, DMA,
// timers and the SPU front-end
//
// Port layouts and write-callback semantics are grounded on the mmap_device
// port framework and the per-device wcb() implementations of the reference
// emulator (interrupt_control, dma, timer, spu).
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

import "encoding/binary"

// RAM is plain read/write memory with no ports; devices such as main
// system RAM need no write-side-effects.
type RAM struct {
	mem []byte
}

func NewRAM(size int) *RAM            { return &RAM{mem: make([]byte, size)} }
func (r *RAM) ReadableMemory() []byte { return r.mem }
func (r *RAM) WritableMemory() []byte { return r.mem }
func (r *RAM) Ports() []Port          { return nil }

// ROM is loaded once (the BIOS image) and never written by the running
// core; it still exposes a writable half so a stray store is absorbed
// rather than panicking the bus.
type ROM struct {
	mem []byte
}

func NewROM(size int) *ROM           { return &ROM{mem: make([]byte, size)} }
func (r *ROM) ReadableMemory() []byte { return r.mem }
func (r *ROM) WritableMemory() []byte { return r.mem }
func (r *ROM) Ports() []Port          { return nil }

// --- Interrupt controller -------------------------------------------------

// Interrupt is one bit of I_STAT/I_MASK.
type Interrupt uint32

const (
	IntVBlank   Interrupt = 1 << 0
	IntGPU      Interrupt = 1 << 1
	IntCDROM    Interrupt = 1 << 2
	IntDMA      Interrupt = 1 << 3
	IntTMR0     Interrupt = 1 << 4
	IntTMR1     Interrupt = 1 << 5
	IntTMR2     Interrupt = 1 << 6
	IntMemCard  Interrupt = 1 << 7
	IntSIO      Interrupt = 1 << 8
	IntSPU      Interrupt = 1 << 9
	IntLightPen Interrupt = 1 << 10
)

// InterruptController holds I_STAT (offset 0) and I_MASK (offset 4). A
// peripheral requests an interrupt via Request, which ORs the flag into
// I_STAT and re-runs the same gating logic a bus write to I_STAT would.
type InterruptController struct {
	mem   []byte
	ports []Port
	cop0  *Cop0
}

func NewInterruptController(cop0 *Cop0) *InterruptController {
	ic := &InterruptController{mem: make([]byte, 8), cop0: cop0}
	ic.ports = []Port{
		{Offset: 0, Size: 4, OnWrite: func(n, o uint32) { ic.onIStatWrite(n, o) }},
	}
	if err := ValidatePorts(len(ic.mem), ic.ports); err != nil {
		panic(err)
	}
	return ic
}

func (ic *InterruptController) ReadableMemory() []byte { return ic.mem }
func (ic *InterruptController) WritableMemory() []byte { return ic.mem }
func (ic *InterruptController) Ports() []Port           { return ic.ports }

// Request sets flag in I_STAT as if the owning peripheral had written it
// via the bus, running the same mask-gated cop0 notification.
func (ic *InterruptController) Request(flag Interrupt) {
	old := binary.LittleEndian.Uint32(ic.mem[0:4])
	newV := old | uint32(flag)
	binary.LittleEndian.PutUint32(ic.mem[0:4], newV)
	ic.onIStatWrite(newV, old)
}

// onIStatWrite gates a cop0 interrupt notification on bits that transitioned
// and are enabled in I_MASK: (old^new) & mask. The request is latched into
// Cause.IP and logged, but does not preempt the running instruction stream
// mid-quantum.
func (ic *InterruptController) onIStatWrite(newV, old uint32) {
	mask := binary.LittleEndian.Uint32(ic.mem[4:8])
	if (old^newV)&mask != 0 {
		ic.cop0.InterruptRequest()
	}
}

// --- DMA controller --------------------------------------------------------

var (
	dicrForceIRQ         = MustMask32(0x0000_8000)
	dicrEnabledChannels  = MustMask32(0x003F_0000)
	dicrMasterEnable     = MustMask32(0x0080_0000)
	dicrFlaggedChannels  = MustMask32(0x3F00_0000)
	dicrMasterFlag       = MustMask32(0x8000_0000)
)

// DMA holds DPCR (offset 0, priority/enable control) and DICR (offset 4,
// IRQ control). Grounded on src/hw/devices/dma.hpp and
// src/libemu/devices/dma.cpp.
type DMA struct {
	mem   []byte
	ports []Port
	ic    *InterruptController
}

func NewDMA(ic *InterruptController) *DMA {
	d := &DMA{mem: make([]byte, 8), ic: ic}
	binary.LittleEndian.PutUint32(d.mem[4:8], 0x0765_4321)
	d.ports = []Port{
		{Offset: 4, Size: 4, OnWrite: func(n, o uint32) { d.onDICRWrite(n, o) }},
	}
	if err := ValidatePorts(len(d.mem), d.ports); err != nil {
		panic(err)
	}
	return d
}

func (d *DMA) ReadableMemory() []byte { return d.mem }
func (d *DMA) WritableMemory() []byte { return d.mem }
func (d *DMA) Ports() []Port          { return d.ports }

// onDICRWrite acknowledges flagged channels (writing 1 to a flag bit
// clears it), recomputes the master IRQ request, and forwards a DMA
// interrupt to the interrupt controller on the 0-to-1 transition of the
// master flag bit.
func (d *DMA) onDICRWrite(newV, old uint32) {
	ack := dicrFlaggedChannels.Get(newV)
	newV = dicrFlaggedChannels.Set(newV, dicrFlaggedChannels.Get(old)&^ack)

	request := dicrForceIRQ.Test(newV) ||
		(dicrMasterEnable.Get(newV)&dicrEnabledChannels.Get(newV)&dicrFlaggedChannels.Get(newV)) != 0
	newV = dicrMasterFlag.Set(newV, b2u32(request))

	binary.LittleEndian.PutUint32(d.mem[4:8], newV)

	if request && !dicrMasterFlag.Test(old) {
		d.ic.Request(IntDMA)
	}
}

func b2u32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// --- Timers ------------------------------------------------------------

// TimerSource selects which clock increments a timer's counter.
type TimerSource int

const (
	SourceSystemClock TimerSource = iota
	SourceDotClock
	SourceHBlank
	SourceVBlank
)

var (
	modeSyncEnable   = MustMask32(0x0000_0001)
	modeSyncMode     = MustMask32(0x0000_0006)
	modeResetOnTgt   = MustMask32(0x0000_0008)
	modeIRQOnTarget  = MustMask32(0x0000_0010)
	modeIRQOnEnd     = MustMask32(0x0000_0020)
	modeIRQRepeat    = MustMask32(0x0000_0040)
	modeIRQToggle    = MustMask32(0x0000_0080)
	modeClockSource  = MustMask32(0x0000_0300)
	modeTargetReach  = MustMask32(0x0000_0800)
	modeEndReach     = MustMask32(0x0000_1000)
)

// Timer is one of the three PSX timers: CounterValue (offset 0),
// CounterMode (offset 4), CounterTarget (offset 8). Grounded on
// src/libemu/devices/timer.{hpp,cpp}; the clock-source selection and
// target/overflow IRQ bookkeeping follow timer_impl::increment there.
type Timer struct {
	id     int
	source TimerSource // which of Increment's callers actually drives this timer
	mem    []byte
	ports  []Port
	ic     *InterruptController
	irq    Interrupt
}

func NewTimer(id int, source TimerSource, ic *InterruptController, irq Interrupt) *Timer {
	t := &Timer{id: id, source: source, mem: make([]byte, 12), ic: ic, irq: irq}
	t.ports = []Port{{Offset: 8, Size: 4}} // target writes have no side effect of their own
	if err := ValidatePorts(len(t.mem), t.ports); err != nil {
		panic(err)
	}
	return t
}

func (t *Timer) ReadableMemory() []byte { return t.mem }
func (t *Timer) WritableMemory() []byte { return t.mem }
func (t *Timer) Ports() []Port          { return t.ports }

func (t *Timer) value() uint32  { return binary.LittleEndian.Uint32(t.mem[0:4]) & 0xFFFF }
func (t *Timer) mode() uint32   { return binary.LittleEndian.Uint32(t.mem[4:8]) }
func (t *Timer) target() uint32 { return binary.LittleEndian.Uint32(t.mem[8:12]) & 0xFFFF }

func (t *Timer) setValue(v uint32) { binary.LittleEndian.PutUint32(t.mem[0:4], v&0xFFFF) }
func (t *Timer) setMode(m uint32)  { binary.LittleEndian.PutUint32(t.mem[4:8], m) }

// Increment advances the counter by n ticks if src matches this timer's
// configured clock source, applying target/overflow wrap and requesting
// an IRQ per COUNTER_MODE.
func (t *Timer) Increment(src TimerSource, n uint32) {
	if src != t.source {
		return
	}
	mode := t.mode()
	cur := t.value() + n
	tgt := t.target()

	hitTarget := cur >= tgt
	hitEnd := cur > 0xFFFF

	if modeResetOnTgt.Test(mode) && hitTarget {
		cur = cur - tgt
		mode = modeTargetReach.Set(mode, 1)
	}
	if hitEnd {
		cur &= 0xFFFF
		mode = modeEndReach.Set(mode, 1)
	}

	wantIRQ := (hitTarget && modeIRQOnTarget.Test(mode)) || (hitEnd && modeIRQOnEnd.Test(mode))
	t.setValue(cur)
	t.setMode(mode)
	if wantIRQ {
		t.ic.Request(t.irq)
	}
}

// Sync delivers an hblank/vblank edge event as a single Increment tick to a
// timer whose clock source is that event (on the board, timer1 counts
// hblank edges). COUNTER_MODE's sync-enable and sync-mode bits are not
// applied. Nothing in the core calls Sync; no video timing source exists
// to drive it.
func (t *Timer) Sync(event TimerSource) {
	t.Increment(event, 1)
}

// --- SPU front-end -----------------------------------------------------

var spuStatusMask = MustMask16(0x003F)

// SPU is a 512-byte front-end stub: only SPUCNT (offset 0x1AA) and
// SPUSTAT (offset 0x1AE) are modeled. SPUCNT's low 6 bits mirror into
// SPUSTAT on write; SPUSTAT itself is read-only and a write to it only
// logs.
type SPU struct {
	mem    []byte
	ports  []Port
	onWarn func(string)
}

func NewSPU(onWarn func(string)) *SPU {
	s := &SPU{mem: make([]byte, 512), onWarn: onWarn}
	s.ports = []Port{
		{Offset: 0x1AA, Size: 2, OnWrite: func(n, o uint32) { s.onSPUCNTWrite(uint16(n)) }},
		{Offset: 0x1AE, Size: 2, OnWrite: func(n, o uint32) {
			if s.onWarn != nil {
				s.onWarn("SPUSTAT should be read-only")
			}
		}},
	}
	if err := ValidatePorts(len(s.mem), s.ports); err != nil {
		panic(err)
	}
	return s
}

func (s *SPU) ReadableMemory() []byte { return s.mem }
func (s *SPU) WritableMemory() []byte { return s.mem }
func (s *SPU) Ports() []Port          { return s.ports }

func (s *SPU) onSPUCNTWrite(cnt uint16) {
	stat := binary.LittleEndian.Uint16(s.mem[0x1AE : 0x1AE+2])
	stat = spuStatusMask.Set(stat, spuStatusMask.Get(cnt))
	binary.LittleEndian.PutUint16(s.mem[0x1AE:0x1AE+2], stat)
}
