package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"

	yml "gopkg.in/yaml.v2"
)

// FileConfig is the host-side YAML form of the parameter set.
type FileConfig struct {
	PPS       int  `koanf:"pps" yaml:"pps"`
	StepSize  int  `koanf:"stepsize" yaml:"stepsize"`
	Accel     int  `koanf:"accel" yaml:"accel"`
	Decel     int  `koanf:"decel" yaml:"decel"`
	DwellOn   int  `koanf:"dwellon" yaml:"dwellon"`
	DwellOff  int  `koanf:"dwelloff" yaml:"dwelloff"`
	FlipX     bool `koanf:"flipx" yaml:"flipx"`
	FlipY     bool `koanf:"flipy" yaml:"flipy"`
	SwapXY    bool `koanf:"swapxy" yaml:"swapxy"`
	DACFlagsA int  `koanf:"daca" yaml:"daca"`
	DACFlagsB int  `koanf:"dacb" yaml:"dacb"`
}

func fileConfigFrom(p Params) FileConfig {
	return FileConfig{
		PPS:       int(p.PPS),
		StepSize:  int(p.StepSize),
		Accel:     int(p.AccFactor),
		Decel:     int(p.DecFactor),
		DwellOn:   int(p.DwellOn),
		DwellOff:  int(p.DwellOff),
		FlipX:     p.FlipX,
		FlipY:     p.FlipY,
		SwapXY:    p.SwapXY,
		DACFlagsA: int(p.DACFlagsA),
		DACFlagsB: int(p.DACFlagsB),
	}
}

func (fc FileConfig) params() (Params, error) {
	p := Defaults()

	numeric := []struct {
		name  string
		value int
	}{
		{"pps", fc.PPS},
		{"stepsize", fc.StepSize},
		{"accel", fc.Accel},
		{"decel", fc.Decel},
		{"dwellon", fc.DwellOn},
		{"dwelloff", fc.DwellOff},
		{"daca", fc.DACFlagsA},
		{"dacb", fc.DACFlagsB},
	}
	for _, n := range numeric {
		if n.value < 0 || n.value > 0xFFFF {
			return p, fmt.Errorf("%s: %w", n.name, ErrValueRange)
		}
		if err := p.Set(n.name, uint16(n.value)); err != nil {
			return p, fmt.Errorf("%s: %w", n.name, err)
		}
	}

	p.FlipX = fc.FlipX
	p.FlipY = fc.FlipY
	p.SwapXY = fc.SwapXY
	return p, nil
}

// LoadFile merges the YAML config file over the defaults. A missing
// file is not an error: the defaults stand.
func LoadFile(path string) (Params, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(fileConfigFrom(Defaults()), "koanf"), nil); err != nil {
		return Defaults(), err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// file missing, who cares
		if !strings.Contains(err.Error(), "no such") {
			return Defaults(), fmt.Errorf("loading %s: %w", path, err)
		}
	}

	var fc FileConfig
	if err := k.Unmarshal("", &fc); err != nil {
		return Defaults(), err
	}
	return fc.params()
}

// WriteFile writes the parameters as a YAML config file.
func WriteFile(path string, p Params) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return yml.NewEncoder(f).Encode(fileConfigFrom(p))
}
