package geom

import "testing"

func TestFromCoord8(t *testing.T) {
	p := FromCoord8(0, 0)
	if p.X != 0 || p.Y != 0 {
		t.Errorf("Expected origin, got (%d, %d)", p.X, p.Y)
	}

	p = FromCoord8(1, 2)
	if p.X != 16 || p.Y != 32 {
		t.Errorf("Expected (16, 32), got (%d, %d)", p.X, p.Y)
	}

	p = FromCoord8(255, 255)
	if p.X != 4080 || p.Y != 4080 {
		t.Errorf("Expected (4080, 4080), got (%d, %d)", p.X, p.Y)
	}
}

func TestToInt(t *testing.T) {
	p := Point{X: 0x45, Y: 0x100}
	i := p.ToInt()
	if i.X != 4 || i.Y != 16 {
		t.Errorf("Expected (4, 16), got (%d, %d)", i.X, i.Y)
	}

	// Arithmetic shift: -1.5 truncates toward negative infinity
	p = Point{X: -24, Y: -24}
	i = p.ToInt()
	if i.X != -2 || i.Y != -2 {
		t.Errorf("Expected (-2, -2), got (%d, %d)", i.X, i.Y)
	}
}

func TestAddSub(t *testing.T) {
	a := Point{X: 100, Y: -50}
	b := Point{X: 28, Y: 50}

	sum := a.Add(b)
	if sum.X != 128 || sum.Y != 0 {
		t.Errorf("Add: expected (128, 0), got (%d, %d)", sum.X, sum.Y)
	}

	diff := sum.Sub(b)
	if diff != a {
		t.Errorf("Sub: expected %v, got %v", a, diff)
	}
}

func TestShifts(t *testing.T) {
	p := Point{X: 0x100, Y: 0x40}

	r := p.Shr(2)
	if r.X != 0x40 || r.Y != 0x10 {
		t.Errorf("Shr(2): expected (0x40, 0x10), got (0x%X, 0x%X)", r.X, r.Y)
	}

	l := p.Shl(1)
	if l.X != 0x200 || l.Y != 0x80 {
		t.Errorf("Shl(1): expected (0x200, 0x80), got (0x%X, 0x%X)", l.X, l.Y)
	}

	// Negative components shift arithmetically
	n := Point{X: -16, Y: -16}.Shr(3)
	if n.X != -2 || n.Y != -2 {
		t.Errorf("Shr(3) of -16: expected -2, got (%d, %d)", n.X, n.Y)
	}
}

func TestComponentwiseOrdering(t *testing.T) {
	a := Point{X: 1, Y: 1}
	b := Point{X: 2, Y: 2}
	c := Point{X: 2, Y: 0}

	if !a.Less(b) {
		t.Error("(1,1) should be Less than (2,2)")
	}
	if a.Less(c) {
		t.Error("(1,1) should not be Less than (2,0): ordering is AND of both axes")
	}
	if !a.LessEq(a) {
		t.Error("LessEq should be reflexive")
	}
}

func TestChebyshev(t *testing.T) {
	if d := Chebyshev(Point{0, 0}, Point{0x100, 0x100}); d != 0x100 {
		t.Errorf("Diagonal: expected 0x100, got 0x%X", d)
	}
	if d := Chebyshev(Point{0, 0}, Point{0x40, 0x10}); d != 0x40 {
		t.Errorf("X-dominant: expected 0x40, got 0x%X", d)
	}
	if d := Chebyshev(Point{0x40, 0}, Point{0, 0x90}); d != 0x90 {
		t.Errorf("Y-dominant: expected 0x90, got 0x%X", d)
	}
	if d := Chebyshev(Point{5, 5}, Point{5, 5}); d != 0 {
		t.Errorf("Degenerate: expected 0, got %d", d)
	}
}
