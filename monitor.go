// monitor.go - interactive inspector gated behind --monitor
//
// The debugger UI itself is an external collaborator; the core only
// exposes what this needs (register/cop0 snapshots, bus.Read, single-
// quantum stepping). Built on golang.org/x/term, putting stdin into raw
// mode and draining it from a background goroutine, so a keypress can
// interrupt a running `continue` without blocking on a blocking read.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// runMonitor drives a small REPL over board/sched until "quit" or EOF.
func runMonitor(board *Board, sched *Scheduler, log *Logger) {
	m := &monitor{
		board:       board,
		sched:       sched,
		log:         log,
		breakpoints: map[uint32]bool{},
		scanner:     bufio.NewScanner(os.Stdin),
	}
	fmt.Println("psxcore monitor — step | regs | mem <addr> <n> | break <addr> | continue | quit")
	for {
		fmt.Print("(psxcore) ")
		if !m.scanner.Scan() {
			return
		}
		if m.dispatch(strings.Fields(m.scanner.Text())) {
			return
		}
	}
}

type monitor struct {
	board       *Board
	sched       *Scheduler
	log         *Logger
	breakpoints map[uint32]bool
	scanner     *bufio.Scanner
}

// dispatch runs one command; the return value is true when the monitor
// should exit.
func (m *monitor) dispatch(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "step":
		n := uint64(1)
		if len(fields) > 1 {
			if v, err := strconv.ParseUint(fields[1], 10, 64); err == nil {
				n = v
			}
		}
		m.board.CPU.Run(m.board.CPU.Clock + n)
		m.printPC()
	case "regs":
		m.printRegs()
	case "mem":
		m.printMem(fields[1:])
	case "break":
		m.setBreak(fields[1:])
	case "continue":
		m.continueUntilBreakOrInterrupt()
	case "quit", "q":
		return true
	default:
		fmt.Printf("unknown command %q\n", fields[0])
	}
	return false
}

func (m *monitor) printPC() {
	fmt.Printf("pc=%08x npc=%08x ins=%08x  %s\n",
		m.board.CPU.PC, m.board.CPU.NPC, m.board.CPU.Ins,
		Disassemble(m.board.CPU.PC, m.board.CPU.Ins))
}

func (m *monitor) printRegs() {
	for i := 0; i < 32; i += 4 {
		fmt.Printf("r%-2d=%08x r%-2d=%08x r%-2d=%08x r%-2d=%08x\n",
			i, m.board.CPU.Regs[i], i+1, m.board.CPU.Regs[i+1],
			i+2, m.board.CPU.Regs[i+2], i+3, m.board.CPU.Regs[i+3])
	}
	fmt.Printf("hi=%08x lo=%08x sr=%08x cause=%08x epc=%08x\n",
		m.board.CPU.HI, m.board.CPU.LO, m.board.Cop0.SR(), m.board.Cop0.Cause(), m.board.Cop0.EPC())
}

func (m *monitor) printMem(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: mem <addr> [n]")
		return
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 32)
	if err != nil {
		fmt.Printf("bad address %q\n", args[0])
		return
	}
	n := uint64(16)
	if len(args) > 1 {
		if v, err := strconv.ParseUint(args[1], 10, 64); err == nil {
			n = v
		}
	}
	for i := uint64(0); i < n; i += 4 {
		fmt.Printf("%08x: %08x\n", uint32(addr)+uint32(i), m.board.Bus.Read(uint32(addr)+uint32(i), W4))
	}
}

func (m *monitor) setBreak(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: break <addr>")
		return
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 32)
	if err != nil {
		fmt.Printf("bad address %q\n", args[0])
		return
	}
	m.breakpoints[uint32(addr)] = true
	fmt.Printf("breakpoint set at %08x\n", uint32(addr))
}

// continueUntilBreakOrInterrupt single-steps the CPU (and keeps the GPU
// quantum roughly in step via the scheduler ratio) until a breakpoint
// hits or a keypress arrives on stdin.
func (m *monitor) continueUntilBreakOrInterrupt() {
	interrupted := newRawInterruptWatcher()
	defer interrupted.stop()

	for {
		if interrupted.fired() {
			fmt.Println("interrupted")
			return
		}
		m.board.CPU.Run(m.board.CPU.Clock + 1)
		if m.board.CPU.Clock%m.sched.cpuQuantum == 0 {
			m.board.GPU.Run(m.board.GPU.Clock + m.sched.gpuQuantum)
		}
		if m.breakpoints[m.board.CPU.PC] {
			fmt.Printf("breakpoint hit at %08x\n", m.board.CPU.PC)
			m.printPC()
			return
		}
	}
}

// rawInterruptWatcher puts stdin in raw mode and watches for any keypress
// in a background goroutine, following terminal_host.go's non-blocking
// read loop; it restores cooked mode on stop.
type rawInterruptWatcher struct {
	fd       int
	oldState *term.State
	stopCh   chan struct{}
	hit      chan struct{}
	once     sync.Once
}

func newRawInterruptWatcher() *rawInterruptWatcher {
	w := &rawInterruptWatcher{
		fd:     int(os.Stdin.Fd()),
		stopCh: make(chan struct{}),
		hit:    make(chan struct{}, 1),
	}
	if !term.IsTerminal(w.fd) {
		return w
	}
	old, err := term.MakeRaw(w.fd)
	if err != nil {
		return w
	}
	w.oldState = old
	_ = syscall.SetNonblock(w.fd, true)
	go w.watch()
	return w
}

func (w *rawInterruptWatcher) watch() {
	buf := make([]byte, 1)
	for {
		select {
		case <-w.stopCh:
			return
		default:
		}
		n, err := syscall.Read(w.fd, buf)
		if n > 0 {
			select {
			case w.hit <- struct{}{}:
			default:
			}
			return
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(2 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
	}
}

func (w *rawInterruptWatcher) fired() bool {
	select {
	case <-w.hit:
		return true
	default:
		return false
	}
}

func (w *rawInterruptWatcher) stop() {
	w.once.Do(func() { close(w.stopCh) })
	if w.oldState != nil {
		_ = syscall.SetNonblock(w.fd, false)
		_ = term.Restore(w.fd, w.oldState)
	}
}
