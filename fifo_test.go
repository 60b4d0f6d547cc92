package main

import "testing"

func TestFifoFIFOness(t *testing.T) {
	f := NewFifo32(4)
	in := []uint32{1, 2, 3, 4}
	for _, v := range in {
		if err := f.Push(v); err != nil {
			t.Fatalf("Push(%d): %v", v, err)
		}
	}
	for _, want := range in {
		got, err := f.Pop()
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if got != want {
			t.Fatalf("Pop order: got %d want %d", got, want)
		}
	}
}

func TestFifoFullEmpty(t *testing.T) {
	f := NewFifo32(2)
	if !f.Empty() {
		t.Fatal("new fifo should be empty")
	}
	_ = f.Push(1)
	_ = f.Push(2)
	if !f.Full() {
		t.Fatal("fifo should be full at capacity")
	}
	if err := f.Push(3); err != ErrFifoFull {
		t.Fatalf("expected ErrFifoFull, got %v", err)
	}
	_, _ = f.Pop()
	_, _ = f.Pop()
	if _, err := f.Pop(); err != ErrFifoEmpty {
		t.Fatalf("expected ErrFifoEmpty, got %v", err)
	}
}

func TestFifoWrapsThroughCircularIndex(t *testing.T) {
	f := NewFifo32(3)
	_ = f.Push(1)
	_ = f.Push(2)
	_, _ = f.Pop()
	_ = f.Push(3)
	_ = f.Push(4)
	want := []uint32{2, 3, 4}
	for _, w := range want {
		got, err := f.Pop()
		if err != nil || got != w {
			t.Fatalf("got (%d,%v) want %d", got, err, w)
		}
	}
}
