// Package config holds the controller's tunable parameters, their
// validation, and the two persistence forms: the packed EEPROM-style
// image used over the wire protocol, and the YAML file used host side.
package config

import (
	"errors"

	"github.com/charliebeadle/galvonium/hw"
	"github.com/charliebeadle/galvonium/render"
)

// Operating modes. Only the dual-buffer mode exists today; the field is
// kept in the parameter set and the persisted image for compatibility.
const (
	ModeDualBuffer uint8 = 0
	modeCount            = 1
)

var (
	// ErrUnknownParam is returned for a parameter name that does not
	// exist.
	ErrUnknownParam = errors.New("unknown parameter")

	// ErrValueRange is returned when a value is outside the parameter's
	// legal range. The parameter keeps its previous value.
	ErrValueRange = errors.New("value out of range")
)

// Params is the full tunable parameter set.
type Params struct {
	Mode uint8
	PPS  uint16

	StepSize  uint8
	AccFactor uint8
	DecFactor uint8
	DwellOn   uint8
	DwellOff  uint8

	FlipX  bool
	FlipY  bool
	SwapXY bool

	DACFlagsA uint8
	DACFlagsB uint8
}

// Defaults returns the factory parameter set.
func Defaults() Params {
	return Params{
		Mode:      ModeDualBuffer,
		PPS:       hw.DefaultPPS,
		StepSize:  4,
		AccFactor: 0,
		DecFactor: 0,
		DwellOn:   10,
		DwellOff:  10,
		DACFlagsA: hw.DefaultFlagsA,
		DACFlagsB: hw.DefaultFlagsB,
	}
}

// RenderParams extracts the subset the renderer consumes.
func (p *Params) RenderParams() render.Params {
	return render.Params{
		StepSize:  p.StepSize,
		AccFactor: p.AccFactor,
		DecFactor: p.DecFactor,
		DwellOn:   p.DwellOn,
		DwellOff:  p.DwellOff,
	}
}

// paramSpec describes one named parameter for generic get/set access
// from the CONFIG command.
type paramSpec struct {
	name string
	min  uint16
	max  uint16
	get  func(*Params) uint16
	set  func(*Params, uint16)
}

func boolGet(v bool) uint16 {
	if v {
		return 1
	}
	return 0
}

var paramTable = []paramSpec{
	{"mode", 0, modeCount - 1,
		func(p *Params) uint16 { return uint16(p.Mode) },
		func(p *Params, v uint16) { p.Mode = uint8(v) }},
	{"pps", hw.MinPPS, hw.MaxPPS,
		func(p *Params) uint16 { return p.PPS },
		func(p *Params, v uint16) { p.PPS = v }},
	{"stepsize", render.MinStepSize, render.MaxStepSize,
		func(p *Params) uint16 { return uint16(p.StepSize) },
		func(p *Params, v uint16) { p.StepSize = uint8(v) }},
	{"accel", 0, render.MaxAccFactor,
		func(p *Params) uint16 { return uint16(p.AccFactor) },
		func(p *Params, v uint16) { p.AccFactor = uint8(v) }},
	{"decel", 0, render.MaxDecFactor,
		func(p *Params) uint16 { return uint16(p.DecFactor) },
		func(p *Params, v uint16) { p.DecFactor = uint8(v) }},
	{"dwellon", render.MinDwell, render.MaxDwell,
		func(p *Params) uint16 { return uint16(p.DwellOn) },
		func(p *Params, v uint16) { p.DwellOn = uint8(v) }},
	{"dwelloff", render.MinDwell, render.MaxDwell,
		func(p *Params) uint16 { return uint16(p.DwellOff) },
		func(p *Params, v uint16) { p.DwellOff = uint8(v) }},
	{"flipx", 0, 1,
		func(p *Params) uint16 { return boolGet(p.FlipX) },
		func(p *Params, v uint16) { p.FlipX = v != 0 }},
	{"flipy", 0, 1,
		func(p *Params) uint16 { return boolGet(p.FlipY) },
		func(p *Params, v uint16) { p.FlipY = v != 0 }},
	{"swapxy", 0, 1,
		func(p *Params) uint16 { return boolGet(p.SwapXY) },
		func(p *Params, v uint16) { p.SwapXY = v != 0 }},
	{"daca", 0, 0xFF,
		func(p *Params) uint16 { return uint16(p.DACFlagsA) },
		func(p *Params, v uint16) { p.DACFlagsA = uint8(v) }},
	{"dacb", 0, 0xFF,
		func(p *Params) uint16 { return uint16(p.DACFlagsB) },
		func(p *Params, v uint16) { p.DACFlagsB = uint8(v) }},
}

func findParam(name string) *paramSpec {
	for i := range paramTable {
		if paramTable[i].name == name {
			return &paramTable[i]
		}
	}
	return nil
}

// Names returns the parameter names in declaration order.
func Names() []string {
	out := make([]string, len(paramTable))
	for i := range paramTable {
		out[i] = paramTable[i].name
	}
	return out
}

// Get returns a parameter by name.
func (p *Params) Get(name string) (uint16, error) {
	spec := findParam(name)
	if spec == nil {
		return 0, ErrUnknownParam
	}
	return spec.get(p), nil
}

// Set stores a parameter by name. Out-of-range values are rejected and
// leave the parameter unchanged.
func (p *Params) Set(name string, value uint16) error {
	spec := findParam(name)
	if spec == nil {
		return ErrUnknownParam
	}
	if value < spec.min || value > spec.max {
		return ErrValueRange
	}
	spec.set(p, value)
	return nil
}

// Validate checks every field against its parameter range.
func (p *Params) Validate() error {
	for i := range paramTable {
		spec := &paramTable[i]
		v := spec.get(p)
		if v < spec.min || v > spec.max {
			return ErrValueRange
		}
	}
	return nil
}
