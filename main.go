// main.go - CLI entry point: loads a BIOS or PSX-EXE image (or restores a
// dump), runs the scheduler for a tick budget, and optionally writes a
// dump on exit
//
// Grounded on the reference emulator's src/main.cpp argument handling,
// translated from hand-rolled os.Args parsing to the standard library
// flag package (the pack carries no CLI framework dependency).
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"
)

const (
	exitOK          = 0
	exitInputError  = 1
	exitLoadFailure = 2
	exitFatal       = 99
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("psxcore", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "trace every retired instruction")
	ticks := fs.Uint64("ticks", 10000, "number of scheduler quanta to run")
	dumpOnExit := fs.Bool("dump-on-exit", false, "write a state dump next to the input file on exit")
	restore := fs.Bool("restore", false, "treat the input file as a dump instead of a BIOS/EXE image")
	display := fs.Bool("display", false, "open a framebuffer viewer window")
	monitor := fs.Bool("monitor", false, "attach the interactive monitor instead of free-running")
	if err := fs.Parse(args); err != nil {
		return exitInputError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: psxcore [flags] <bios-or-exe-or-dump>")
		return exitInputError
	}
	inputPath := fs.Arg(0)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", inputPath, err)
		return exitInputError
	}

	log := &Logger{Verbose: *verbose}
	board := NewBoard(log.Warnf)
	board.CPU.OnTrace(func(pc, ins uint32) {
		log.Tracef("%08x: %s", pc, Disassemble(pc, ins))
	})
	board.Cop0.OnInterruptRequest(func() {
		log.Tracef("interrupt request latched into Cause.IP")
	})

	fatalCode := new(atomic.Int32)
	board.CPU.OnFatal(func(format string, args ...any) {
		log.Criticalf(format, args...)
		fatalCode.Store(exitFatal)
	})

	if *restore {
		if err := Restore(bytes.NewReader(data), board); err != nil {
			fmt.Fprintf(os.Stderr, "restoring %s: %v\n", inputPath, err)
			return exitLoadFailure
		}
	} else if len(data) >= 8 && string(data[0:8]) == "PS-X EXE" {
		if err := LoadEXE(board, data); err != nil {
			fmt.Fprintf(os.Stderr, "loading EXE %s: %v\n", inputPath, err)
			return exitLoadFailure
		}
	} else {
		if err := LoadBIOS(board, data); err != nil {
			fmt.Fprintf(os.Stderr, "loading BIOS %s: %v\n", inputPath, err)
			return exitLoadFailure
		}
	}

	sched := NewScheduler(board, StandardNTSC)

	var stopped atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)
		select {
		case <-sig:
			stopped.Store(true)
		case <-ctx.Done():
		}
		return nil
	})

	if *display {
		view := newFramebufferViewer(board.GPUIO)
		view.start()
		defer view.stop()
	}

	if *monitor {
		runMonitor(board, sched, log)
	} else {
		var quantum uint64
		for quantum < *ticks && !stopped.Load() && fatalCode.Load() == 0 {
			sched.Step()
			quantum++
		}
	}
	cancel()
	_ = g.Wait()

	if *dumpOnExit {
		if err := dumpToFile(inputPath, board); err != nil {
			fmt.Fprintf(os.Stderr, "dump-on-exit: %v\n", err)
		}
	}

	if code := fatalCode.Load(); code != 0 {
		return int(code)
	}
	return exitOK
}

func dumpToFile(inputPath string, board *Board) error {
	f, err := os.Create(inputPath + ".dump")
	if err != nil {
		return err
	}
	defer f.Close()
	return Dump(f, board)
}
