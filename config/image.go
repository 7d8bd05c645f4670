package config

import (
	"encoding/binary"
	"errors"

	"github.com/snksoft/crc"
)

// EEPROM image layout. One small page: magic, version, the packed
// parameters, reserved pad, and a trailing CRC-8 over everything before
// it.
const (
	ImageMagic   = 0x6A17
	ImageVersion = 1
	ImageSize    = 24
)

// Flag bit positions within the image's flag byte.
const (
	imgFlipXBit  = 1 << 0
	imgFlipYBit  = 1 << 1
	imgSwapXYBit = 1 << 2
)

var (
	// ErrImageBlank is returned for an erased (all 0xFF) image.
	ErrImageBlank = errors.New("config image blank")

	// ErrImageMagic is returned when the magic marker is wrong.
	ErrImageMagic = errors.New("config image bad magic")

	// ErrImageVersion is returned for an unknown image version.
	ErrImageVersion = errors.New("config image unknown version")

	// ErrImageChecksum is returned when the CRC does not match.
	ErrImageChecksum = errors.New("config image bad checksum")

	// ErrImageSize is returned for an image of the wrong length.
	ErrImageSize = errors.New("config image wrong size")
)

// crc8Table is CRC-8 (poly 0x07), matching the single checksum byte the
// image has room for.
var crc8Table = crc.NewTable(&crc.Parameters{
	Width:      8,
	Polynomial: 0x07,
	Init:       0x00,
	ReflectIn:  false,
	ReflectOut: false,
	FinalXor:   0x00,
})

// EncodeImage packs the parameters into the persisted image form.
func EncodeImage(p *Params) []byte {
	img := make([]byte, ImageSize)
	binary.LittleEndian.PutUint16(img[0:2], ImageMagic)
	img[2] = ImageVersion
	img[3] = p.Mode
	binary.LittleEndian.PutUint16(img[4:6], p.PPS)
	img[6] = p.StepSize
	img[7] = p.AccFactor
	img[8] = p.DecFactor
	img[9] = p.DwellOn
	img[10] = p.DwellOff

	var flags uint8
	if p.FlipX {
		flags |= imgFlipXBit
	}
	if p.FlipY {
		flags |= imgFlipYBit
	}
	if p.SwapXY {
		flags |= imgSwapXYBit
	}
	img[11] = flags

	img[12] = p.DACFlagsA
	img[13] = p.DACFlagsB
	// img[14:23] reserved, zero

	img[ImageSize-1] = uint8(crc8Table.CalculateCRC(img[:ImageSize-1]))
	return img
}

// DecodeImage validates and unpacks a persisted image. The distinct
// failure modes let the caller tell an erased part from a corrupt one.
func DecodeImage(img []byte) (Params, error) {
	var p Params

	if len(img) != ImageSize {
		return p, ErrImageSize
	}

	blank := true
	for _, b := range img {
		if b != 0xFF {
			blank = false
			break
		}
	}
	if blank {
		return p, ErrImageBlank
	}

	if binary.LittleEndian.Uint16(img[0:2]) != ImageMagic {
		return p, ErrImageMagic
	}
	if img[2] != ImageVersion {
		return p, ErrImageVersion
	}
	if uint8(crc8Table.CalculateCRC(img[:ImageSize-1])) != img[ImageSize-1] {
		return p, ErrImageChecksum
	}

	p.Mode = img[3]
	p.PPS = binary.LittleEndian.Uint16(img[4:6])
	p.StepSize = img[6]
	p.AccFactor = img[7]
	p.DecFactor = img[8]
	p.DwellOn = img[9]
	p.DwellOff = img[10]

	flags := img[11]
	p.FlipX = flags&imgFlipXBit != 0
	p.FlipY = flags&imgFlipYBit != 0
	p.SwapXY = flags&imgSwapXYBit != 0

	p.DACFlagsA = img[12]
	p.DACFlagsB = img[13]

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}
