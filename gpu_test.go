package main

import "testing"

func TestGP0DrawModeSettingMirrorsIntoGPUSTAT(t *testing.T) {
	ctrl := NewGPUController(nil)
	cxd := NewGPUCxd(ctrl)

	bus := NewBus(nil)
	bus.Connect(0x1F80_1810, 8, ctrl)

	// GP0(E1h): texPageX=5, texPageY=1, semiTrans=2, texDepth=1, dither=1,
	// drawToDisplay=1, textureDisable=1.
	word := uint32(gp0DrawModeSetting)<<24 |
		5 | // bits 0-3
		1<<4 |
		2<<5 |
		1<<7 |
		1<<9 |
		1<<10 |
		1<<11

	bus.Write(0x1F80_1810, W4, word)
	cxd.Run(1)

	stat := bus.Read(0x1F80_1814, W4)
	if statTexPageX.Get(stat) != 5 {
		t.Fatalf("texPageX = %d, want 5", statTexPageX.Get(stat))
	}
	if statTexPageY.Get(stat) != 1 {
		t.Fatal("texPageY not set")
	}
	if statSemiTrans.Get(stat) != 2 {
		t.Fatalf("semiTrans = %d, want 2", statSemiTrans.Get(stat))
	}
	if !statDither.Test(stat) {
		t.Fatal("dither not set")
	}
	if !statDrawOK.Test(stat) {
		t.Fatal("drawToDisplay not set")
	}
	if !statTexDisable.Test(stat) {
		t.Fatal("textureDisable not set")
	}
}

func TestGP0FifoDropsWhenFullAndWarns(t *testing.T) {
	var warnings int
	ctrl := NewGPUController(func(string) { warnings++ })
	bus := NewBus(nil)
	bus.Connect(0x1F80_1810, 8, ctrl)

	for i := 0; i < gp0FifoCapacity+2; i++ {
		bus.Write(0x1F80_1810, W4, uint32(i))
	}
	if warnings == 0 {
		t.Fatal("expected a warning once the FIFO overflowed")
	}
}

func TestGP1WriteIsIgnoredButWarns(t *testing.T) {
	var warnings int
	ctrl := NewGPUController(func(string) { warnings++ })
	bus := NewBus(nil)
	bus.Connect(0x1F80_1810, 8, ctrl)

	bus.Write(0x1F80_1814, W4, 0x0100_0000) // GP1 reset command
	if warnings != 1 {
		t.Fatalf("warnings = %d, want 1", warnings)
	}
}

func TestCxdDrainsMultipleQueuedCommandsInOneRun(t *testing.T) {
	ctrl := NewGPUController(nil)
	cxd := NewGPUCxd(ctrl)
	bus := NewBus(nil)
	bus.Connect(0x1F80_1810, 8, ctrl)

	bus.Write(0x1F80_1810, W4, uint32(gp0DrawModeSetting)<<24|1)
	bus.Write(0x1F80_1810, W4, uint32(gp0DrawModeSetting)<<24|2)
	cxd.Run(1)

	stat := bus.Read(0x1F80_1814, W4)
	if statTexPageX.Get(stat) != 2 {
		t.Fatalf("expected last-queued command to win, got texPageX=%d", statTexPageX.Get(stat))
	}
	if !ctrl.fifo.Empty() {
		t.Fatal("FIFO should be drained after Run")
	}
}
