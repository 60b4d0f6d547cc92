package main

import (
	"fmt"
	"strings"
	"testing"
)

func TestGuessIOPortNamesKnownAddress(t *testing.T) {
	if got := guessIOPort(0x1F80_1070); got != "I_STAT" {
		t.Fatalf("got %q, want I_STAT", got)
	}
}

func TestGuessIOPortResolvesThroughKSEGWindows(t *testing.T) {
	if got := guessIOPort(0x9F80_1070); got != "I_STAT" {
		t.Fatalf("got %q, want I_STAT through KSEG0", got)
	}
	if got := guessIOPort(0xBF80_1070); got != "I_STAT" {
		t.Fatalf("got %q, want I_STAT through KSEG1", got)
	}
}

func TestGuessIOPortFallsBackToHexForUnknownAddress(t *testing.T) {
	got := guessIOPort(0x1F80_9999)
	if !strings.HasPrefix(got, "0x") {
		t.Fatalf("got %q", got)
	}
}

func TestBusMissLoggerNamesThePort(t *testing.T) {
	var msg string
	logger := BusMissLogger(func(format string, args ...any) {
		msg = fmt.Sprintf(format, args...)
	})
	logger(0x1F80_1070, W4, false)
	if !strings.Contains(msg, "I_STAT") {
		t.Fatalf("message %q does not name I_STAT", msg)
	}
}
