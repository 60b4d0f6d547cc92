package main

import "testing"

// TestCop0SRStackDepth exercises the mode-stack shift with an initial value
// that is a fixed point of EnterException's push: 0x2A (IEc=0,KUc=1,IEp=0,
// KUp=1,IEo=0,KUo=1). The SR mode stack only has two previous-mode slots
// (IEp/KUp, IEo/KUo) behind the current one, so three consecutive pushes
// with no intervening pop discard whatever sat in the oldest slot before
// the third push: starting from an arbitrary SR, three enters followed by
// three exits do not, in general, reproduce the original value — only a
// push/pop fixed point round-trips through three of each.
func TestCop0SRStackDepth(t *testing.T) {
	c := NewCop0()
	c.Reset()
	c.SetSR(0x2A)
	initial := c.SR() & 0x3F

	c.EnterException(ExcInt)
	c.EnterException(ExcInt)
	c.EnterException(ExcInt)
	c.RestoreFromException()
	c.RestoreFromException()
	c.RestoreFromException()

	if c.SR()&0x3F != initial {
		t.Fatalf("SR stack not restored: got %#x want %#x", c.SR()&0x3F, initial)
	}
}

func TestCop0EnterExceptionSetsKernelModeAndDisablesInterrupts(t *testing.T) {
	c := NewCop0()
	c.Reset()
	c.SetSR(0x3) // IEc=1, KUc=1
	c.EnterException(ExcOv)
	if srIEc.Test(c.SR()) {
		t.Fatal("IEc should be cleared on exception entry")
	}
	if !srKUc.Test(c.SR()) {
		t.Fatal("KUc should be set on exception entry")
	}
	if causeExcCode.Get(c.Cause()) != ExcOv {
		t.Fatalf("ExcCode: got %d want %d", causeExcCode.Get(c.Cause()), ExcOv)
	}
}

func TestCop0InterruptRequestLatchesCauseAndNotifies(t *testing.T) {
	c := NewCop0()
	c.Reset()
	notified := false
	c.OnInterruptRequest(func() { notified = true })
	c.InterruptRequest()
	if !causeIPPeer.Test(c.Cause()) {
		t.Fatal("Cause IP2 should be latched")
	}
	if !notified {
		t.Fatal("observer should have been notified")
	}
}
