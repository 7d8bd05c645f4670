// Package galvo wires the rendering core to the hardware layer: the
// sample clock pops pre-computed steps from the renderer's consumer
// port and forwards them to the DAC and laser gate, while the
// foreground loop advances the renderer and drains diagnostics.
package galvo

import (
	"sync/atomic"

	"github.com/charliebeadle/galvonium/config"
	"github.com/charliebeadle/galvonium/debug"
	"github.com/charliebeadle/galvonium/hw"
	"github.com/charliebeadle/galvonium/render"
)

// Controller owns the renderer, the output hardware and the sample
// clock. Tick runs on the clock goroutine; everything else belongs to
// the foreground.
type Controller struct {
	Renderer *render.Renderer

	dac   *hw.DAC
	laser *hw.Laser
	clock *hw.SampleClock

	errs      ErrFlag
	underruns uint32
}

// New builds a controller around the given output hardware.
func New(dac *hw.DAC, laser *hw.Laser) *Controller {
	c := &Controller{
		Renderer: render.New(),
		dac:      dac,
		laser:    laser,
	}
	c.clock = hw.NewSampleClock(c.Tick)
	return c
}

// DAC returns the output stage, for transform toggles.
func (c *Controller) DAC() *hw.DAC {
	return c.dac
}

// Clock returns the sample clock.
func (c *Controller) Clock() *hw.SampleClock {
	return c.clock
}

// Tick is the sample-clock callback: pop one step, emit it. On an empty
// ring the outputs are left holding their previous values and the
// underrun is signalled through the error flag; the clock never blocks
// waiting for the renderer.
func (c *Controller) Tick() {
	p, laser, ok := c.Renderer.NextStep()
	if !ok {
		atomic.AddUint32(&c.underruns, 1)
		c.errs.Raise(ErrCodeStepUnderrun)
		return
	}

	if err := c.dac.Write(p); err != nil {
		c.errs.Raise(ErrCodeDACWrite)
		return
	}
	c.laser.Set(laser)
}

// Start runs the sample clock at the given rate.
func (c *Controller) Start(pps uint16) error {
	return c.clock.Start(pps)
}

// Stop halts the sample clock and waits for it to quiesce.
func (c *Controller) Stop() {
	c.clock.Stop()
}

// ApplyParams pushes a parameter set into the live pipeline: renderer
// step/dwell settings, DAC command bytes and transforms, and the sample
// rate (a running clock restarts at it; a stopped clock records it).
func (c *Controller) ApplyParams(p *config.Params) error {
	c.Renderer.SetParams(p.RenderParams())

	c.dac.FlagsA = p.DACFlagsA
	c.dac.FlagsB = p.DACFlagsB
	c.dac.FlipX = p.FlipX
	c.dac.FlipY = p.FlipY
	c.dac.SwapXY = p.SwapXY

	if p.PPS != c.clock.PPS() {
		return c.clock.SetPPS(p.PPS)
	}
	return nil
}

// Underruns returns the total number of empty-ring ticks.
func (c *Controller) Underruns() uint32 {
	return atomic.LoadUint32(&c.underruns)
}

// Process advances the foreground: drain any pending clock-side error,
// then step the renderer state machine once.
func (c *Controller) Process() {
	if code, ok := c.errs.Take(); ok {
		debug.Verbose("clock: " + CodeString(code))
	}
	c.Renderer.Process()
}
