// address_map.go - best-effort I/O port name lookup for diagnostics
//
// Grounded on the reference emulator's registers.go, which mapped known
// hardware addresses to human-readable names for its logging; kept as a
// small table rather than that file's generated constant dump.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

import "fmt"

var knownPorts = map[uint32]string{
	0x1F80_1070: "I_STAT",
	0x1F80_1074: "I_MASK",
	0x1F80_10F0: "DPCR",
	0x1F80_10F4: "DICR",
	0x1F80_1100: "TIMER0_VALUE",
	0x1F80_1104: "TIMER0_MODE",
	0x1F80_1108: "TIMER0_TARGET",
	0x1F80_1110: "TIMER1_VALUE",
	0x1F80_1114: "TIMER1_MODE",
	0x1F80_1118: "TIMER1_TARGET",
	0x1F80_1120: "TIMER2_VALUE",
	0x1F80_1124: "TIMER2_MODE",
	0x1F80_1128: "TIMER2_TARGET",
	0x1F80_1810: "GP0/GPUREAD",
	0x1F80_1814: "GP1/GPUSTAT",
	0x1F80_1DAA: "SPUCNT",
	0x1F80_1DAE: "SPUSTAT",
}

// kusegOf strips the KSEG0/KSEG1 cache/translation bits so lookups hit the
// table regardless of which window the miss came from.
func kusegOf(addr uint32) uint32 { return addr &^ 0xE000_0000 }

// guessIOPort renders a best-effort name for addr, falling back to the raw
// hex address when the table has no entry.
func guessIOPort(addr uint32) string {
	if name, ok := knownPorts[kusegOf(addr)]; ok {
		return name
	}
	return fmt.Sprintf("%#08x", addr)
}

// BusMissLogger builds an onMiss callback for NewBus that logs unmapped
// accesses via warn, naming the port when it is recognised.
func BusMissLogger(warn func(format string, args ...any)) func(addr uint32, width Width, isWrite bool) {
	return func(addr uint32, width Width, isWrite bool) {
		verb := "read from"
		if isWrite {
			verb = "write to"
		}
		warn("unmapped %s %s (width %d)", verb, guessIOPort(addr), width)
	}
}
