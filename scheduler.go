// scheduler.go - fixed-quantum interleaving of the CPU and GPU clocks
//
// Grounded on the reference emulator's main run loop (src/main.cpp), which
// advances each core device by a fixed slice per iteration rather than
// event-driving them; the PAL/NTSC quantum constants and the CPU/GPU ratio
// are carried over from src/libemu/board.cpp's scheduler setup.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

// VideoStandard selects the GPU quantum the scheduler advances by.
type VideoStandard int

const (
	StandardPAL VideoStandard = iota
	StandardNTSC
)

const (
	gpuQuantumPAL  = 3406
	gpuQuantumNTSC = 3413
)

// cpuQuantumFor derives the CPU's per-quantum tick budget from the GPU's,
// matching the reference ratio of roughly 7 CPU cycles per 11 GPU cycles.
func cpuQuantumFor(gpuQuantum uint64) uint64 {
	return gpuQuantum * 7 / 11
}

// Scheduler interleaves the board's CPU and GPU at a fixed quantum. Step
// never blocks: each call advances both clocks by exactly one quantum.
type Scheduler struct {
	board      *Board
	gpuQuantum uint64
	cpuQuantum uint64
}

func NewScheduler(board *Board, standard VideoStandard) *Scheduler {
	gpuQ := uint64(gpuQuantumPAL)
	if standard == StandardNTSC {
		gpuQ = gpuQuantumNTSC
	}
	return &Scheduler{
		board:      board,
		gpuQuantum: gpuQ,
		cpuQuantum: cpuQuantumFor(gpuQ),
	}
}

// Step advances both the CPU and the GPU command engine by one quantum.
// Timer0 (system clock source) is ticked once per CPU quantum. Timer1's
// hblank source has no real video timing driver in this core, and neither
// timer1 nor timer2 is ticked here.
func (s *Scheduler) Step() {
	s.board.CPU.Run(s.board.CPU.Clock + s.cpuQuantum)
	s.board.TMR0.Increment(SourceSystemClock, 1)
	s.board.GPU.Run(s.board.GPU.Clock + s.gpuQuantum)
}

// Run calls Step quanta times.
func (s *Scheduler) Run(quanta uint64) {
	for i := uint64(0); i < quanta; i++ {
		s.Step()
	}
}
