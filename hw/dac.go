package hw

import "github.com/charliebeadle/galvonium/geom"

// DAC configuration defaults. The command byte occupies the top byte of
// each 16-bit frame: channel select, unbuffered, 2x gain, active.
const (
	DefaultFlagsA = 0x10
	DefaultFlagsB = 0x90

	DACResolution = 12
	DACMaxValue   = 4095
)

// DAC drives a dual-channel 12-bit SPI DAC. Each sample becomes two
// 16-bit frames: command byte A plus the top 12 bits of X, then command
// byte B plus the top 12 bits of Y, chip select toggled per frame.
//
// The Q12.4 fractional bits are discarded here, at the output stage;
// the interpolator keeps them upstream for accumulation fidelity.
type DAC struct {
	bus SPIBus
	cs  Pin

	FlagsA uint8
	FlagsB uint8

	// Post-interpolation geometric transforms, applied in the order
	// swap, then flips, to the truncated 12-bit values.
	FlipX  bool
	FlipY  bool
	SwapXY bool

	// Trace mirrors every emitted sample to TraceFn, after transforms.
	// Toggled at runtime by FLAGS trace on|off.
	Trace   bool
	TraceFn func(x, y uint16)
}

// NewDAC returns a DAC on the given bus and chip-select pin with the
// default command bytes.
func NewDAC(bus SPIBus, cs Pin) *DAC {
	return &DAC{
		bus:    bus,
		cs:     cs,
		FlagsA: DefaultFlagsA,
		FlagsB: DefaultFlagsB,
	}
}

// Write emits one sample. Runs in the sample-clock context.
func (d *DAC) Write(p geom.Point) error {
	x := truncate(p.X)
	y := truncate(p.Y)

	if d.SwapXY {
		x, y = y, x
	}
	if d.FlipX {
		x = DACMaxValue - x
	}
	if d.FlipY {
		y = DACMaxValue - y
	}

	if d.Trace && d.TraceFn != nil {
		d.TraceFn(x, y)
	}

	if err := d.transfer(uint16(d.FlagsA)<<8 | x); err != nil {
		return err
	}
	return d.transfer(uint16(d.FlagsB)<<8 | y)
}

func (d *DAC) transfer(frame uint16) error {
	d.cs.Set(false)
	err := d.bus.Transfer16(frame)
	d.cs.Set(true)
	return err
}

// truncate drops the fractional bits and masks to the DAC's 12-bit
// range.
func truncate(v int16) uint16 {
	return uint16(v>>geom.FractionalBits) & DACMaxValue
}
