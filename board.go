// board.go - system board: aggregates RAM, ROM and the memory-mapped
// devices into one address space, mirrored across the KUSEG/KSEG0/KSEG1
// windows
//
// Grounded on the reference emulator's board.cpp wiring of its device set
// onto a single memory_bus, generalized to the PSX memory map this core
// targets.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

const (
	ramSize = 2 * 1024 * 1024
	romSize = 512 * 1024

	addrIRQ = 0x1F80_1070
	addrDMA = 0x1F80_10F0
	addrTMR = 0x1F80_1100
	addrGPU = 0x1F80_1810
	addrSPU = 0x1F80_1C00
	addrROM = 0x1FC0_0000

	windowKUSEG = 0x0000_0000
	windowKSEG0 = 0x8000_0000
	windowKSEG1 = 0xA000_0000
)

// Board is the full PSX system: CPU, GPU command engine, and the shared
// bus every device and CPU load/store goes through.
type Board struct {
	Bus  *Bus
	CPU  *CPU
	Cop0 *Cop0
	GPU  *GPUCxd

	RAM   *RAM
	ROM   *ROM
	IRQ   *InterruptController
	DMA   *DMA
	TMR0  *Timer
	TMR1  *Timer
	TMR2  *Timer
	SPU   *SPU
	GPUIO *GPUController
}

// NewBoard wires the board's devices onto a bus, mirroring RAM and ROM
// across KUSEG, KSEG0 and KSEG1 as the CPU's addressing modes require.
func NewBoard(onWarn func(format string, args ...any)) *Board {
	warnf := func(s string) {
		if onWarn != nil {
			onWarn("%s", s)
		}
	}

	var missLogger func(addr uint32, width Width, isWrite bool)
	if onWarn != nil {
		missLogger = BusMissLogger(onWarn)
	}

	b := &Board{
		Bus:   NewBus(missLogger),
		Cop0:  NewCop0(),
		RAM:   NewRAM(ramSize),
		ROM:   NewROM(romSize),
		SPU:   NewSPU(warnf),
		GPUIO: NewGPUController(warnf),
	}
	b.IRQ = NewInterruptController(b.Cop0)
	b.DMA = NewDMA(b.IRQ)
	b.TMR0 = NewTimer(0, SourceSystemClock, b.IRQ, IntTMR0)
	b.TMR1 = NewTimer(1, SourceHBlank, b.IRQ, IntTMR1)
	b.TMR2 = NewTimer(2, SourceSystemClock, b.IRQ, IntTMR2)

	for _, window := range []uint32{windowKUSEG, windowKSEG0, windowKSEG1} {
		b.Bus.Connect(window, ramSize, b.RAM)
		b.Bus.Connect(window+addrIRQ, 8, b.IRQ)
		b.Bus.Connect(window+addrDMA, 8, b.DMA)
		b.Bus.Connect(window+addrTMR, 12, b.TMR0)
		b.Bus.Connect(window+addrTMR+16, 12, b.TMR1)
		b.Bus.Connect(window+addrTMR+32, 12, b.TMR2)
		b.Bus.Connect(window+addrGPU, 8, b.GPUIO)
		b.Bus.Connect(window+addrSPU, 512, b.SPU)
		b.Bus.Connect(window+addrROM, romSize, b.ROM)
	}

	b.CPU = NewCPU(b.Bus, b.Cop0)
	b.GPU = NewGPUCxd(b.GPUIO)
	if onWarn != nil {
		b.CPU.OnWarn(onWarn)
	}
	return b
}
