// gpu.go - GPU front-end: bus-facing controller (GP0/GP1/GPUREAD/GPUSTAT)
// and the command engine draining the GP0 FIFO
//
// Grounded on src/libemu/gpu/gpu.hpp's controller/cxd split and fixed_fifo
// (src/libemu/fixed_fifo.hpp); the GP0 0xE1 Draw Mode Setting decode
// follows the documented texture-page/semi-transparency/dither field layout.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

import "encoding/binary"

const gp0FifoCapacity = 16

// GP0 command opcodes (top byte of the command word).
const gp0DrawModeSetting = 0xE1

var (
	statTexPageX  = MustMask32(0x0000_000F)
	statTexPageY  = MustMask32(0x0000_0010)
	statSemiTrans = MustMask32(0x0000_0060)
	statTexDepth  = MustMask32(0x0000_0180)
	statDither    = MustMask32(0x0000_0200)
	statDrawOK    = MustMask32(0x0000_0400)
	statTexDisable = MustMask32(0x0000_8000)
)

// GPUController is the bus-facing half: GP0 (offset 0) and GP1 (offset 4)
// are write-only command ports; GPUREAD (offset 0) and GPUSTAT (offset 4)
// are the corresponding read-only halves at the same offsets.
type GPUController struct {
	readMem  []byte
	writeMem []byte
	ports    []Port

	fifo   *Fifo32
	onWarn func(string)
}

func NewGPUController(onWarn func(string)) *GPUController {
	g := &GPUController{
		readMem:  make([]byte, 8),
		writeMem: make([]byte, 8),
		fifo:     NewFifo32(gp0FifoCapacity),
		onWarn:   onWarn,
	}
	g.ports = []Port{
		{Offset: 0, Size: 4, OnWrite: func(n, o uint32) { g.onGP0Write(n) }},
		{Offset: 4, Size: 4, OnWrite: func(n, o uint32) { g.onGP1Write(n) }},
	}
	if err := ValidatePorts(len(g.writeMem), g.ports); err != nil {
		panic(err)
	}
	return g
}

func (g *GPUController) ReadableMemory() []byte { return g.readMem }
func (g *GPUController) WritableMemory() []byte { return g.writeMem }
func (g *GPUController) Ports() []Port          { return g.ports }

func (g *GPUController) onGP0Write(word uint32) {
	if err := g.fifo.Push(word); err != nil {
		if g.onWarn != nil {
			g.onWarn("GP0 FIFO full, dropping command")
		}
	}
}

func (g *GPUController) onGP1Write(word uint32) {
	if g.onWarn != nil {
		g.onWarn("GP1 command ignored (display control out of scope)")
	}
}

func (g *GPUController) gpustat() uint32 {
	return binary.LittleEndian.Uint32(g.readMem[4:8])
}

func (g *GPUController) setGPUSTAT(v uint32) {
	binary.LittleEndian.PutUint32(g.readMem[4:8], v)
}

// GPUCxd is the command engine: it owns the scheduler-visible clock and
// drains GP0 words pushed by the controller, interpreting the ones this
// core implements.
type GPUCxd struct {
	Clock uint64
	ctrl  *GPUController
}

func NewGPUCxd(ctrl *GPUController) *GPUCxd {
	return &GPUCxd{ctrl: ctrl}
}

// Run advances Clock to until and drains every GP0 word currently queued.
// Never blocks; returns once the FIFO is empty.
func (g *GPUCxd) Run(until uint64) {
	g.Clock = until
	for {
		word, err := g.ctrl.fifo.Pop()
		if err != nil {
			return
		}
		g.execute(word)
	}
}

func (g *GPUCxd) execute(word uint32) {
	opcode := word >> 24
	switch opcode {
	case gp0DrawModeSetting:
		g.drawModeSetting(word)
	default:
		// Unimplemented GP0 commands are accepted and dropped: the full
		// rasterizer is out of core scope.
	}
}

func (g *GPUCxd) drawModeSetting(word uint32) {
	stat := g.ctrl.gpustat()
	stat = statTexPageX.Set(stat, statTexPageX.Get(word))
	stat = statTexPageY.Set(stat, statTexPageY.Get(word))
	stat = statSemiTrans.Set(stat, statSemiTrans.Get(word))
	stat = statTexDepth.Set(stat, statTexDepth.Get(word))
	stat = statDither.Set(stat, statDither.Get(word))
	stat = statDrawOK.Set(stat, statDrawOK.Get(word))
	stat = statTexDisable.Set(stat, (word>>11)&1)
	g.ctrl.setGPUSTAT(stat)
}
