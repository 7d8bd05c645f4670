package config

import (
	"errors"
	"io/fs"
	"os"
)

// Store abstracts the nonvolatile part holding the config image. The
// MCU implementation is an EEPROM page; the host stand-in is a file.
type Store interface {
	// Load returns the stored image. A part that has never been
	// written returns an erased image, not an error.
	Load() ([]byte, error)

	// Save writes the image.
	Save(img []byte) error
}

// FileStore keeps the image in a file, mimicking EEPROM semantics: a
// missing file reads as erased.
type FileStore struct {
	Path string
}

// Load reads the image file. Missing file yields an erased image.
func (s *FileStore) Load() ([]byte, error) {
	img, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErasedImage(), nil
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Save writes the image file.
func (s *FileStore) Save(img []byte) error {
	return os.WriteFile(s.Path, img, 0o644)
}

// Erase overwrites the store with an erased image.
func (s *FileStore) Erase() error {
	return s.Save(ErasedImage())
}

// ErasedImage returns an all-0xFF image, the state of a factory-fresh
// EEPROM.
func ErasedImage() []byte {
	img := make([]byte, ImageSize)
	for i := range img {
		img[i] = 0xFF
	}
	return img
}

// LoadStore reads and decodes the store's image. On any decode failure
// the defaults are returned along with the cause, so startup can fall
// back and re-save.
func LoadStore(s Store) (Params, error) {
	img, err := s.Load()
	if err != nil {
		return Defaults(), err
	}
	p, err := DecodeImage(img)
	if err != nil {
		return Defaults(), err
	}
	return p, nil
}

// SaveStore encodes and writes the parameters.
func SaveStore(s Store, p *Params) error {
	return s.Save(EncodeImage(p))
}
