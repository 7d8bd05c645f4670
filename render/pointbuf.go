package render

import (
	"errors"

	"github.com/charliebeadle/galvonium/debug"
)

// MaxPoints is the waypoint buffer capacity. The renderer does not
// depend on the exact value.
const MaxPoints = 256

var (
	// ErrIndexRange is returned for waypoint writes beyond the buffer
	// capacity.
	ErrIndexRange = errors.New("waypoint index out of range")

	// ErrCountRange is returned when a point count exceeds the buffer
	// capacity.
	ErrCountRange = errors.New("point count out of range")
)

// PointBuffer is a fixed-capacity ordered sequence of waypoints. Two of
// these form the double buffer: the renderer reads the active one, the
// command layer writes the inactive one.
type PointBuffer struct {
	points [MaxPoints]Waypoint
	count  int
}

// Clear zeroes the buffer and its point count.
func (b *PointBuffer) Clear() {
	b.points = [MaxPoints]Waypoint{}
	b.count = 0
}

// SetPoint stores a waypoint at index. Writes beyond capacity are
// rejected and leave the buffer unchanged.
func (b *PointBuffer) SetPoint(index int, w Waypoint) error {
	if index < 0 || index >= MaxPoints {
		debug.Error("PointBuffer.SetPoint: index out of range: " + debug.Itoa(index))
		return ErrIndexRange
	}
	b.points[index] = w
	return nil
}

// Point returns the waypoint at index. Callers must bound-check against
// PointCount first; reads beyond capacity return the zero waypoint.
func (b *PointBuffer) Point(index int) Waypoint {
	if index < 0 || index >= MaxPoints {
		debug.Error("PointBuffer.Point: index out of range: " + debug.Itoa(index))
		return Waypoint{}
	}
	return b.points[index]
}

// SetPointCount sets the number of live waypoints. Counts beyond
// capacity are rejected and leave the count unchanged.
func (b *PointBuffer) SetPointCount(n int) error {
	if n < 0 || n > MaxPoints {
		debug.Error("PointBuffer.SetPointCount: count out of range: " + debug.Itoa(n))
		return ErrCountRange
	}
	b.count = n
	return nil
}

// PointCount returns the number of live waypoints.
func (b *PointBuffer) PointCount() int {
	return b.count
}

// IsEmpty reports whether the buffer holds no live waypoints.
func (b *PointBuffer) IsEmpty() bool {
	return b.count == 0
}
