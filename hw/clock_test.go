package hw

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCompareValue(t *testing.T) {
	// 16 MHz at 10 kPPS: 1599
	v, err := CompareValue(ClockFreq, 10000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v != 1599 {
		t.Errorf("Expected 1599, got %d", v)
	}

	// Exactly at the register limit: 16 MHz / 245 - 1 = 65305
	v, err = CompareValue(ClockFreq, 245)
	if err != nil {
		t.Fatalf("245 PPS should fit: %v", err)
	}
	if v != 65305 {
		t.Errorf("Expected 65305, got %d", v)
	}

	// Too slow for a 16-bit register
	if _, err = CompareValue(ClockFreq, 100); err != ErrCompareOverflow {
		t.Errorf("Expected ErrCompareOverflow, got %v", err)
	}

	if _, err = CompareValue(ClockFreq, 0); err != ErrZeroPPS {
		t.Errorf("Expected ErrZeroPPS, got %v", err)
	}
}

func TestSampleClockTicks(t *testing.T) {
	var ticks uint32
	c := NewSampleClock(func() { atomic.AddUint32(&ticks, 1) })

	if err := c.Start(1000); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	c.Stop()

	got := atomic.LoadUint32(&ticks)
	if got < 50 || got > 150 {
		t.Errorf("Expected roughly 100 ticks at 1 kPPS over 100 ms, got %d", got)
	}

	// Stopped clock must be quiescent
	after := atomic.LoadUint32(&ticks)
	time.Sleep(20 * time.Millisecond)
	if atomic.LoadUint32(&ticks) != after {
		t.Error("Clock ticked after Stop")
	}
}

func TestSampleClockRejectsZero(t *testing.T) {
	c := NewSampleClock(func() {})
	if err := c.Start(0); err != ErrZeroPPS {
		t.Errorf("Expected ErrZeroPPS, got %v", err)
	}
	if err := c.SetPPS(0); err != ErrZeroPPS {
		t.Errorf("Expected ErrZeroPPS, got %v", err)
	}
}

func TestSampleClockSetPPSWhileStopped(t *testing.T) {
	c := NewSampleClock(func() {})
	if err := c.SetPPS(2000); err != nil {
		t.Fatalf("SetPPS failed: %v", err)
	}
	if c.PPS() != 2000 {
		t.Errorf("Expected 2000, got %d", c.PPS())
	}
}
