// Package geom provides the Q12.4 fixed-point point type used throughout
// the rendering pipeline. Q12.4 is a signed 16-bit format with 12 integer
// and 4 fractional bits, covering -2048.0 to +2047.9375 at a scale
// factor of 16.
package geom

// Fixed-point format constants
const (
	FractionalBits = 4  // Number of fractional bits
	ScaleFactor    = 16 // 2^FractionalBits
)

// Q12.4 integer-part limits
const (
	MinValue = -2048 // -2048.0
	MaxValue = 2047  // +2047.9375 with all fractional bits set
)

// Point is a 2D point with Q12.4 fixed-point coordinates.
// Arithmetic wraps on overflow; inputs lifted from the 8-bit waypoint
// domain stay well inside the representable range.
type Point struct {
	X int16
	Y int16
}

// FromCoord8 lifts an 8-bit waypoint coordinate pair into Q12.4.
func FromCoord8(x, y uint8) Point {
	return Point{X: int16(x) << FractionalBits, Y: int16(y) << FractionalBits}
}

// FromInt builds a point from integer coordinates.
func FromInt(x, y int16) Point {
	return Point{X: x << FractionalBits, Y: y << FractionalBits}
}

// ToInt truncates both components to their integer parts, discarding the
// fractional bits.
func (p Point) ToInt() Point {
	return Point{X: p.X >> FractionalBits, Y: p.Y >> FractionalBits}
}

// Add returns p + q component-wise.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q component-wise.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Shr shifts both components right by n. The shift is arithmetic, so
// negative components round toward negative infinity.
func (p Point) Shr(n uint8) Point {
	return Point{X: p.X >> n, Y: p.Y >> n}
}

// Shl shifts both components left by n.
func (p Point) Shl(n uint8) Point {
	return Point{X: p.X << n, Y: p.Y << n}
}

// Less reports whether both components of p are strictly less than those
// of q. Component-wise AND ordering: diagnostic use only, never a total
// order.
func (p Point) Less(q Point) bool {
	return p.X < q.X && p.Y < q.Y
}

// LessEq reports whether both components of p are less than or equal to
// those of q.
func (p Point) LessEq(q Point) bool {
	return p.X <= q.X && p.Y <= q.Y
}

// Chebyshev returns the L-infinity distance between p and q: the larger
// of the per-axis absolute deltas. The controlling axis for interpolation
// is the one with the larger magnitude.
func Chebyshev(p, q Point) uint16 {
	dx := absDelta(p.X, q.X)
	dy := absDelta(p.Y, q.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func absDelta(a, b int16) uint16 {
	d := int32(a) - int32(b)
	if d < 0 {
		d = -d
	}
	return uint16(d)
}
