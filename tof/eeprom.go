package tof

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	// EEPROMSize is the size of the emulated EEPROM in bytes.
	EEPROMSize = 256

	factoryArea = 0x00
	userArea    = 0x40
	serialArea  = 0x80

	// SerialNumberSize is the longest serial number the EEPROM holds.
	SerialNumberSize = 16

	erased = 0xFF
)

// ErrImageSize is returned by LoadEEPROM for an image that is not
// EEPROMSize bytes long.
var ErrImageSize = errors.New("tof: eeprom image has wrong size")

// EEPROM is an emulated I2C EEPROM. When it is backed by a file every write
// goes through to the file before it is visible.
type EEPROM struct {
	mu   sync.Mutex
	data [EEPROMSize]byte
	path string
}

// NewEEPROM returns an erased, memory only EEPROM.
func NewEEPROM() *EEPROM {
	e := &EEPROM{}
	for i := range e.data {
		e.data[i] = erased
	}
	return e
}

// LoadEEPROM returns an EEPROM backed by the image at path. A missing file
// gives an erased EEPROM, written on first write.
func LoadEEPROM(path string) (*EEPROM, error) {
	e := NewEEPROM()
	e.path = path

	image, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return e, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read eeprom image: %w", err)
	}
	if len(image) != EEPROMSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrImageSize, path, len(image))
	}
	copy(e.data[:], image)
	return e, nil
}

// ReadAt implements io.ReaderAt.
func (e *EEPROM) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= EEPROMSize {
		return 0, io.EOF
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	n := copy(p, e.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt. Writes past the end are refused whole.
func (e *EEPROM) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > EEPROMSize {
		return 0, fmt.Errorf("tof: eeprom write of %d bytes at 0x%02X out of range", len(p), off)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.data
	copy(next[off:], p)
	if e.path != "" {
		if err := os.WriteFile(e.path, next[:], 0o644); err != nil {
			return 0, fmt.Errorf("write eeprom image: %w", err)
		}
	}
	e.data = next
	return len(p), nil
}
