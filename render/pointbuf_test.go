package render

import "testing"

func TestPointBufferBounds(t *testing.T) {
	var b PointBuffer

	if err := b.SetPoint(0, Waypoint{X: 1, Y: 2, Flags: 0}); err != nil {
		t.Errorf("In-range write failed: %v", err)
	}
	if err := b.SetPoint(MaxPoints-1, Waypoint{}); err != nil {
		t.Errorf("Write at capacity-1 failed: %v", err)
	}
	if err := b.SetPoint(MaxPoints, Waypoint{}); err != ErrIndexRange {
		t.Errorf("Write at capacity should be rejected, got %v", err)
	}
	if err := b.SetPoint(-1, Waypoint{}); err != ErrIndexRange {
		t.Errorf("Negative index should be rejected, got %v", err)
	}

	w := b.Point(0)
	if w.X != 1 || w.Y != 2 {
		t.Errorf("Read back mismatch: %v", w)
	}
}

func TestPointBufferCount(t *testing.T) {
	var b PointBuffer

	if !b.IsEmpty() {
		t.Error("New buffer should be empty")
	}

	if err := b.SetPointCount(MaxPoints); err != nil {
		t.Errorf("Count at capacity failed: %v", err)
	}
	if err := b.SetPointCount(MaxPoints + 1); err != ErrCountRange {
		t.Errorf("Count beyond capacity should be rejected, got %v", err)
	}
	if b.PointCount() != MaxPoints {
		t.Errorf("Rejected count must leave the old value, got %d", b.PointCount())
	}

	b.Clear()
	if !b.IsEmpty() || b.PointCount() != 0 {
		t.Error("Clear should empty the buffer")
	}
}

func TestWaypointFlags(t *testing.T) {
	w := Waypoint{X: 10, Y: 20, Flags: BlankingBit}
	if w.LaserOn() {
		t.Error("Blanking bit set means laser off")
	}
	if w.LastPoint() {
		t.Error("Last-point bit is not set")
	}

	w.Flags = LastPointBit
	if !w.LaserOn() || !w.LastPoint() {
		t.Error("Last point with laser on misread")
	}

	p := Waypoint{X: 100, Y: 100}.Q12_4()
	if p.X != 0x640 || p.Y != 0x640 {
		t.Errorf("Q12.4 lift: expected (0x640, 0x640), got (0x%X, 0x%X)", p.X, p.Y)
	}
}
