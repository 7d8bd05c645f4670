package render

import (
	"errors"

	"github.com/charliebeadle/galvonium/debug"
	"github.com/charliebeadle/galvonium/geom"
)

// Interpolation parameter limits.
const (
	MinStepSize = 1
	MaxStepSize = 50

	MaxAccFactor = 7
	MaxDecFactor = 7
)

// InterpState is the interpolator's internal state.
type InterpState uint8

const (
	InterpReady InterpState = iota
	InterpFirst
	InterpInterpolate
	InterpLast
	InterpFinished
)

var (
	// ErrInterpFinished is returned when Next is called on a finished
	// interpolator.
	ErrInterpFinished = errors.New("interpolator already finished")

	// ErrInterpState is returned on an unreachable interpolator state.
	ErrInterpState = errors.New("interpolator state invalid")
)

// Interpolator refines a transition into sub-steps, one per call. The
// step delta follows the Chebyshev-controlling axis: total steps is the
// ceiling of the larger axis delta over the step size, so the dominant
// axis moves at most one step size per sample.
//
// With a non-zero acceleration factor the first sub-steps are a
// geometric ramp-up: increments of step>>acc, step>>(acc-1), ...
// emitted before the first normal sub-step. Ramp sub-steps do not count
// toward the planned total, so they add acc samples to the transition
// and the final snap covers the shorter remaining distance. A non-zero
// deceleration factor
// halves the step repeatedly at the tail, then snaps exactly to the end
// point so no division error accumulates.
type Interpolator struct {
	step        geom.Point
	currentStep uint8
	totalSteps  uint8
	accFactor   uint8
	decFactor   uint8
	state       InterpState
}

// Clear resets the interpolator to the finished state.
func (in *Interpolator) Clear() {
	in.step = geom.Point{}
	in.currentStep = 0
	in.totalSteps = 0
	in.accFactor = 0
	in.decFactor = 0
	in.state = InterpFinished
}

// State returns the interpolator state.
func (in *Interpolator) State() InterpState {
	return in.state
}

// TotalSteps returns the planned number of normal sub-steps for the
// current transition.
func (in *Interpolator) TotalSteps() uint8 {
	return in.totalSteps
}

// Init prepares the interpolator for a transition. Parameters outside
// their legal ranges are clamped. When the whole move is no longer than
// one step the interpolator emits a single step straight to the end and
// the ramps are suppressed.
func (in *Interpolator) Init(t *Transition, stepSize, accFactor, decFactor uint8) {
	if stepSize < MinStepSize {
		stepSize = MinStepSize
	} else if stepSize > MaxStepSize {
		stepSize = MaxStepSize
	}
	if accFactor > MaxAccFactor {
		accFactor = MaxAccFactor
	}
	if decFactor > MaxDecFactor {
		decFactor = MaxDecFactor
	}

	// Lift the 8-bit step size into Q12.4
	step := uint16(stepSize) << geom.FractionalBits

	in.accFactor = accFactor
	in.decFactor = decFactor
	in.currentStep = 0
	in.state = InterpFirst

	delta := t.End.Sub(t.Start)
	maxDistance := geom.Chebyshev(t.End, t.Start)

	if maxDistance <= step {
		// No longer than one step: single hop to the end, no ramps.
		// A move of exactly one step must take this path too, or the
		// general path would emit the end point twice.
		in.totalSteps = 1
		in.step = delta
		in.accFactor = 0
		in.decFactor = 0
		in.state = InterpLast
		return
	}

	// Ceiling division on the dominant axis. maxDistance is at most
	// 4080 and step at least 16, so totalSteps fits in a uint8.
	in.totalSteps = uint8((maxDistance + step - 1) / step)

	// Widen to 32-bit for the per-axis division; signed 16-bit
	// deltas divided by a uint8 cannot overflow the narrowed result.
	in.step = geom.Point{
		X: int16(int32(delta.X) / int32(in.totalSteps)),
		Y: int16(int32(delta.Y) / int32(in.totalSteps)),
	}
}

// Next advances the transition's current point by one sub-step. Returns
// an error only if called past completion, which the renderer treats as
// an interpolator fault.
func (in *Interpolator) Next(t *Transition) error {
	switch in.state {
	case InterpReady:
		in.state = InterpFirst
		fallthrough

	case InterpFirst:
		if in.accFactor > 0 {
			// Ramp-up: e.g. acc=3 with step 16 advances by 2, 4, 8
			// before the first full step. Ramp calls do not advance
			// currentStep.
			t.Current = t.Current.Add(in.step.Shr(in.accFactor))
			in.accFactor--
			return nil
		}

		t.Current = t.Current.Add(in.step)
		in.state = InterpInterpolate
		in.currentStep++
		return nil

	case InterpInterpolate:
		if in.currentStep < in.totalSteps-1 {
			t.Current = t.Current.Add(in.step)
			in.currentStep++
			return nil
		}
		in.state = InterpLast
		fallthrough

	case InterpLast:
		if in.decFactor > 0 {
			// Ramp-down: halve the step in place each call.
			in.step = in.step.Shr(1)
			t.Current = t.Current.Add(in.step)
			in.decFactor--
			return nil
		}

		// Snap exactly to the end so truncation in the step division
		// never accumulates into the endpoint.
		t.Current = t.End
		in.currentStep = in.totalSteps
		in.state = InterpFinished
		return nil

	case InterpFinished:
		debug.Error("Interpolator.Next: called in finished state")
		return ErrInterpFinished
	}

	debug.Error("Interpolator.Next: invalid state " + debug.Itoa(int(in.state)))
	return ErrInterpState
}

// Active reports whether the interpolator has sub-steps remaining.
func (in *Interpolator) Active() bool {
	return in.state != InterpFinished
}
