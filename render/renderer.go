package render

import (
	"sync/atomic"

	"github.com/charliebeadle/galvonium/debug"
	"github.com/charliebeadle/galvonium/geom"
)

// Dwell parameter limits.
const (
	MinDwell = 1
	MaxDwell = 255
)

// State is the renderer state machine state.
type State uint8

const (
	IdleEmpty State = iota
	IdleReady
	IdleBufferSwap
	RenderGetPoint
	RenderDwell
	RenderInterpolate
	RenderBufferEnd
	RenderBufferSwap
	ErrorInterpFault
	ErrorBufferFault
)

var stateNames = [...]string{
	"IdleEmpty",
	"IdleReady",
	"IdleBufferSwap",
	"RenderGetPoint",
	"RenderDwell",
	"RenderInterpolate",
	"RenderBufferEnd",
	"RenderBufferSwap",
	"ErrorInterpFault",
	"ErrorBufferFault",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(" + debug.Itoa(int(s)) + ")"
}

// Params are the rendering parameters the renderer reads when starting
// each transition. DwellOn applies to off-to-on laser changes, DwellOff
// to on-to-off.
type Params struct {
	StepSize  uint8
	AccFactor uint8
	DecFactor uint8
	DwellOn   uint8
	DwellOff  uint8
}

// DefaultParams returns the factory rendering parameters.
func DefaultParams() Params {
	return Params{
		StepSize:  4,
		AccFactor: 0,
		DecFactor: 0,
		DwellOn:   10,
		DwellOff:  10,
	}
}

// Stats are diagnostic counters. They are not required for correctness.
type Stats struct {
	PointBufWait   uint32 // ticks spent waiting for waypoints
	PointBufRepeat uint32 // frames re-rendered because no swap arrived
	StepBufWait    uint32 // ticks spent waiting for ring space
}

// Renderer is the foreground cooperative state machine connecting the
// waypoint double buffer to the step ring. Each Process call advances at
// most one state transition or emits at most one sub-step.
//
// Ownership: the waypoint buffers, interpolator and transition belong
// exclusively to the foreground. The step ring is the only structure
// shared with the sample-clock context, and only through NextStep.
type Renderer struct {
	stepBuf StepRing
	interp  Interpolator

	bufA     PointBuffer
	bufB     PointBuffer
	active   *PointBuffer
	inactive *PointBuffer
	index    int

	swapRequested uint32 // set by the command layer, cleared here

	state      State
	stats      Stats
	dwell      uint8
	transition Transition
	params     Params
}

// New returns an initialised renderer with default parameters.
func New() *Renderer {
	r := &Renderer{}
	r.Init()
	return r
}

// Init resets the renderer: empty buffers, cleared ring, idle state.
// Only safe when the sample clock is not consuming.
func (r *Renderer) Init() {
	r.stepBuf.Clear()
	r.interp.Clear()
	r.bufA.Clear()
	r.bufB.Clear()
	r.active = &r.bufA
	r.inactive = &r.bufB
	r.index = 0
	atomic.StoreUint32(&r.swapRequested, 0)

	r.transition = Transition{}
	r.stats = Stats{}
	r.dwell = 0
	r.params = DefaultParams()

	r.state = IdleEmpty
	debug.Info("renderer initialised")
}

// SetParams replaces the rendering parameters. Takes effect from the
// next transition.
func (r *Renderer) SetParams(p Params) {
	r.params = p
}

// Params returns the current rendering parameters.
func (r *Renderer) Params() Params {
	return r.params
}

// State returns the current state machine state.
func (r *Renderer) State() State {
	return r.state
}

// Stats returns the diagnostic counters.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// ResetStats zeroes the diagnostic counters.
func (r *Renderer) ResetStats() {
	r.stats = Stats{}
}

// Active returns the waypoint buffer currently being rendered. Foreground
// use only; writing it mid-frame produces visible glitches.
func (r *Renderer) Active() *PointBuffer {
	return r.active
}

// Inactive returns the waypoint buffer open for command writes.
func (r *Renderer) Inactive() *PointBuffer {
	return r.inactive
}

// RequestSwap asks for a buffer swap at the next frame boundary. Safe to
// call repeatedly; the renderer clears the request once a swap completes.
func (r *Renderer) RequestSwap() {
	atomic.StoreUint32(&r.swapRequested, 1)
}

// SwapPending reports whether a swap request is outstanding.
func (r *Renderer) SwapPending() bool {
	return atomic.LoadUint32(&r.swapRequested) != 0
}

// NextStep pops one sample from the step ring. This is the consumer
// port: the only renderer method the sample-clock context may call.
func (r *Renderer) NextStep() (geom.Point, bool, bool) {
	return r.stepBuf.Pop()
}

// StepSpace returns the free slots in the step ring. Diagnostic.
func (r *Renderer) StepSpace() uint8 {
	return r.stepBuf.Space()
}

// swapBuffers exchanges the active and inactive buffer designations and
// clears the outstanding request. The sample clock never touches the
// waypoint buffers, so exchanging the two foreground-owned references
// needs no further protection.
func (r *Renderer) swapBuffers() {
	r.active, r.inactive = r.inactive, r.active
	atomic.StoreUint32(&r.swapRequested, 0)
	debug.Verbose("renderer: buffers swapped")
}

// nextTransition rolls the transition to the waypoint at the current
// index. Returns false when the index has exhausted the active buffer.
func (r *Renderer) nextTransition() bool {
	if r.active.IsEmpty() {
		return false
	}
	if r.index >= r.active.PointCount() {
		return false
	}

	w := r.active.Point(r.index)
	r.transition.SetNext(w.Q12_4(), w.LaserOn())
	r.index++
	return true
}

// computeDwell loads the dwell counter for the current transition.
// Dwell only applies across a laser state change; the held samples
// assert the target state so the galvos settle before unblanking and
// after blanking.
func (r *Renderer) computeDwell() bool {
	switch {
	case r.transition.StartLaser() && !r.transition.EndLaser():
		r.dwell = r.params.DwellOff
	case !r.transition.StartLaser() && r.transition.EndLaser():
		r.dwell = r.params.DwellOn
	default:
		r.dwell = 0
		return false
	}
	return r.dwell > 0
}

// Process advances the state machine by at most one step. It never
// blocks: a full ring or an empty waypoint buffer returns immediately.
func (r *Renderer) Process() {
	switch r.state {
	case IdleEmpty:
		if r.active.IsEmpty() && r.inactive.IsEmpty() {
			r.stats.PointBufWait++
			return
		}
		if r.active.IsEmpty() {
			r.state = IdleBufferSwap
		} else {
			r.state = IdleReady
		}

	case IdleReady:
		r.index = 0

		// Seed the transition: waypoint 0 becomes the end with an
		// undefined start, so no interpolation happens yet.
		if r.nextTransition() {
			r.state = RenderGetPoint
		} else {
			r.state = ErrorBufferFault
		}

	case IdleBufferSwap:
		if !r.SwapPending() {
			r.stats.PointBufWait++
			return
		}

		r.swapBuffers()

		if r.active.IsEmpty() {
			r.state = ErrorBufferFault
			return
		}
		r.state = IdleReady

	case RenderGetPoint:
		if !r.nextTransition() {
			r.state = RenderBufferEnd
			return
		}

		r.interp.Init(&r.transition, r.params.StepSize, r.params.AccFactor, r.params.DecFactor)

		if r.computeDwell() {
			r.state = RenderDwell
		} else {
			r.state = RenderInterpolate
		}

	case RenderDwell:
		if r.stepBuf.IsFull() {
			r.stats.StepBufWait++
			return
		}

		r.stepBuf.Push(r.transition.Current, r.transition.CurrentLaser())
		r.dwell--

		if r.dwell == 0 {
			r.state = RenderInterpolate
		}

	case RenderInterpolate:
		if r.stepBuf.IsFull() {
			r.stats.StepBufWait++
			return
		}

		if err := r.interp.Next(&r.transition); err != nil {
			r.state = ErrorInterpFault
			return
		}

		r.stepBuf.Push(r.transition.Current, r.transition.CurrentLaser())

		if !r.interp.Active() {
			r.state = RenderGetPoint
		}

	case RenderBufferEnd:
		r.index = 0
		if r.SwapPending() {
			r.state = RenderBufferSwap
		} else {
			r.stats.PointBufRepeat++
			r.state = RenderGetPoint
		}

	case RenderBufferSwap:
		if r.inactive.IsEmpty() {
			// Nothing published yet: keep showing the current frame
			// and leave the request pending for the next boundary.
			r.stats.PointBufRepeat++
			r.state = RenderGetPoint
			return
		}

		r.swapBuffers()
		r.state = RenderGetPoint

	case ErrorInterpFault:
		debug.Error("renderer: interpolation fault, reinitialising interpolator")
		r.interp.Clear()
		r.state = IdleReady

	case ErrorBufferFault:
		debug.Error("renderer: buffer fault, returning to idle")
		r.state = IdleEmpty
	}
}
