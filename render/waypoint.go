// Package render implements the real-time rendering core: the waypoint
// double buffer written by the command layer, the transition-based
// interpolator, the renderer state machine that refines waypoints into
// sub-steps, and the SPSC step ring consumed from the sample-clock
// context.
package render

import "github.com/charliebeadle/galvonium/geom"

// Waypoint flag bits, per the ILDA IDTF convention.
//
// Bit 7 (MSB) is the last-point marker, always 0 except on the final
// point of an image. Bit 6 is the blanking bit: 1 means the laser is
// off. Bits 0-5 are reserved.
const (
	LastPointBit = 0x80
	BlankingBit  = 0x40
)

// Waypoint is a user-supplied source point: 8-bit coordinates plus the
// ILDA flag byte.
type Waypoint struct {
	X     uint8
	Y     uint8
	Flags uint8
}

// LaserOn reports whether the laser is on at this waypoint (blanking
// bit clear).
func (w Waypoint) LaserOn() bool {
	return w.Flags&BlankingBit == 0
}

// LastPoint reports whether this waypoint carries the last-point marker.
func (w Waypoint) LastPoint() bool {
	return w.Flags&LastPointBit != 0
}

// Q12_4 lifts the waypoint coordinates into the fixed-point domain.
func (w Waypoint) Q12_4() geom.Point {
	return geom.FromCoord8(w.X, w.Y)
}
