package render

import (
	"sync/atomic"

	"github.com/charliebeadle/galvonium/geom"
)

// Step ring geometry. The size must be a power of two so head/tail
// arithmetic reduces to a bitwise AND.
const (
	StepRingSize = 16
	StepRingMask = StepRingSize - 1
)

// StepRing is the single-producer/single-consumer ring of pre-computed
// samples between the renderer (foreground) and the sample clock
// (interrupt context). head is written only by the producer, tail only
// by the consumer; one slot is always left empty so empty and full are
// distinguishable without extra state.
//
// The laser flag is stored per slot rather than packed into a shared
// word, so push and pop never touch the same memory and no critical
// section is needed around either.
type StepRing struct {
	points [StepRingSize]geom.Point
	laser  [StepRingSize]bool
	head   uint32
	tail   uint32
}

// IsEmpty reports whether the ring holds no samples.
func (r *StepRing) IsEmpty() bool {
	return atomic.LoadUint32(&r.head) == atomic.LoadUint32(&r.tail)
}

// IsFull reports whether the ring cannot accept another sample.
func (r *StepRing) IsFull() bool {
	head := atomic.LoadUint32(&r.head)
	tail := atomic.LoadUint32(&r.tail)
	return (head+1)&StepRingMask == tail
}

// Size returns the number of samples in the ring.
func (r *StepRing) Size() uint8 {
	head := atomic.LoadUint32(&r.head)
	tail := atomic.LoadUint32(&r.tail)
	return uint8((head - tail) & StepRingMask)
}

// Space returns the number of free slots.
func (r *StepRing) Space() uint8 {
	return StepRingSize - 1 - r.Size()
}

// Push appends a sample. Returns false if the ring is full. Producer
// side only: the slot is written before the head advance is published,
// so the consumer never observes a half-written slot.
func (r *StepRing) Push(p geom.Point, laser bool) bool {
	head := atomic.LoadUint32(&r.head)
	next := (head + 1) & StepRingMask
	if next == atomic.LoadUint32(&r.tail) {
		return false
	}

	r.points[head] = p
	r.laser[head] = laser
	atomic.StoreUint32(&r.head, next)
	return true
}

// Pop removes the oldest sample. Returns false if the ring is empty.
// Consumer side only: the slot is read before the tail advance is
// published, so the producer never reuses a slot still being read.
func (r *StepRing) Pop() (geom.Point, bool, bool) {
	tail := atomic.LoadUint32(&r.tail)
	if tail == atomic.LoadUint32(&r.head) {
		return geom.Point{}, false, false
	}

	p := r.points[tail]
	laser := r.laser[tail]
	atomic.StoreUint32(&r.tail, (tail+1)&StepRingMask)
	return p, laser, true
}

// Peek returns the oldest sample without removing it. Returns false if
// the ring is empty.
func (r *StepRing) Peek() (geom.Point, bool, bool) {
	tail := atomic.LoadUint32(&r.tail)
	if tail == atomic.LoadUint32(&r.head) {
		return geom.Point{}, false, false
	}
	return r.points[tail], r.laser[tail], true
}

// Clear resets the ring. Only safe when the consumer is known
// quiescent.
func (r *StepRing) Clear() {
	r.points = [StepRingSize]geom.Point{}
	r.laser = [StepRingSize]bool{}
	atomic.StoreUint32(&r.head, 0)
	atomic.StoreUint32(&r.tail, 0)
}
