package hw

import (
	"testing"

	"github.com/charliebeadle/galvonium/geom"
)

func TestDACFraming(t *testing.T) {
	bus := &TraceBus{}
	cs := &TracePin{}
	d := NewDAC(bus, cs)

	// (100, 100) lifted to Q12.4 truncates back to 100 on each channel
	if err := d.Write(geom.FromCoord8(100, 100)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	frames := bus.Frames()
	if len(frames) != 2 {
		t.Fatalf("Expected 2 frames, got %d", len(frames))
	}
	if frames[0] != 0x1064 {
		t.Errorf("Channel A frame: expected 0x1064, got 0x%04X", frames[0])
	}
	if frames[1] != 0x9064 {
		t.Errorf("Channel B frame: expected 0x9064, got 0x%04X", frames[1])
	}

	// CS toggles per frame: low-high twice
	if cs.Edges() != 4 {
		t.Errorf("Expected 4 CS edges, got %d", cs.Edges())
	}
}

func TestDACTruncation(t *testing.T) {
	bus := &TraceBus{}
	d := NewDAC(bus, NopPin{})

	// Fractional bits are discarded at the output stage
	d.Write(geom.Point{X: 0x45, Y: 0x10F})
	frames := bus.Frames()
	if frames[0]&0x0FFF != 0x004 {
		t.Errorf("X should truncate to 0x004, got 0x%03X", frames[0]&0x0FFF)
	}
	if frames[1]&0x0FFF != 0x010 {
		t.Errorf("Y should truncate to 0x010, got 0x%03X", frames[1]&0x0FFF)
	}
}

func TestDACTransforms(t *testing.T) {
	bus := &TraceBus{}
	d := NewDAC(bus, NopPin{})

	d.FlipX = true
	d.Write(geom.FromCoord8(0, 50))
	frames := bus.Frames()
	if frames[0]&0x0FFF != DACMaxValue {
		t.Errorf("Flipped X=0 should emit full scale, got 0x%03X", frames[0]&0x0FFF)
	}

	bus.Reset()
	d.FlipX = false
	d.SwapXY = true
	d.Write(geom.FromCoord8(10, 20))
	frames = bus.Frames()
	if frames[0]&0x0FFF != 20 || frames[1]&0x0FFF != 10 {
		t.Errorf("SwapXY should exchange axes, got 0x%03X / 0x%03X",
			frames[0]&0x0FFF, frames[1]&0x0FFF)
	}

	// Swap applies before flip
	bus.Reset()
	d.FlipX = true
	d.Write(geom.FromCoord8(10, 20))
	frames = bus.Frames()
	if frames[0]&0x0FFF != DACMaxValue-20 {
		t.Errorf("Swap-then-flip mismatch: got 0x%03X", frames[0]&0x0FFF)
	}
}

func TestDACCommandBytes(t *testing.T) {
	bus := &TraceBus{}
	d := NewDAC(bus, NopPin{})
	d.FlagsA = 0x30
	d.FlagsB = 0xB0

	d.Write(geom.Point{})
	frames := bus.Frames()
	if frames[0]>>8 != 0x30 || frames[1]>>8 != 0xB0 {
		t.Errorf("Command bytes not honoured: 0x%02X / 0x%02X",
			frames[0]>>8, frames[1]>>8)
	}
}

func TestDACTrace(t *testing.T) {
	bus := &TraceBus{}
	d := NewDAC(bus, NopPin{})

	var traced [][2]uint16
	d.TraceFn = func(x, y uint16) { traced = append(traced, [2]uint16{x, y}) }

	// Hook installed but trace off: silent
	d.Write(geom.FromCoord8(10, 20))
	if len(traced) != 0 {
		t.Fatal("Trace should be off by default")
	}

	d.Trace = true
	d.FlipX = true
	d.Write(geom.FromCoord8(10, 20))
	if len(traced) != 1 {
		t.Fatalf("Expected 1 traced sample, got %d", len(traced))
	}
	// The trace sees the transformed values the DAC emits
	if traced[0][0] != DACMaxValue-10 || traced[0][1] != 20 {
		t.Errorf("Traced sample wrong: %v", traced[0])
	}

	d.Trace = false
	d.Write(geom.FromCoord8(1, 2))
	if len(traced) != 1 {
		t.Error("Trace off should stop mirroring")
	}
}

func TestLaserGate(t *testing.T) {
	pin := &TracePin{}
	l := NewLaser(pin)

	l.Set(true)
	if !pin.Level() {
		t.Error("Laser on should drive the pin high")
	}
	l.Set(false)
	if pin.Level() {
		t.Error("Laser off should drive the pin low")
	}

	l.Invert = true
	l.Set(true)
	if pin.Level() {
		t.Error("Inverted gate should drive low for on")
	}
}
