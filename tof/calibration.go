package tof

import (
	"encoding/binary"
	"hash/crc32"
	"math"

	"i4.energy/across/tofterm/status"
)

// calibrationMagic marks an EEPROM area holding a calibration record.
const calibrationMagic uint32 = 0x546F4631

// recordSize is magic, offset, gain and CRC, all big endian.
const recordSize = 4 + 8 + 8 + 4

// Calibration maps a raw reading r to a distance gain*r + offset, both in
// metres.
type Calibration struct {
	Offset float64
	Gain   float64
}

// Apply returns the calibrated distance for a raw reading.
func (c Calibration) Apply(raw float64) float64 {
	return c.Gain*raw + c.Offset
}

func (c Calibration) marshal() []byte {
	b := make([]byte, recordSize)
	binary.BigEndian.PutUint32(b[0:], calibrationMagic)
	binary.BigEndian.PutUint64(b[4:], math.Float64bits(c.Offset))
	binary.BigEndian.PutUint64(b[12:], math.Float64bits(c.Gain))
	binary.BigEndian.PutUint32(b[20:], crc32.ChecksumIEEE(b[:20]))
	return b
}

// unmarshalCalibration checks and decodes a record read from the EEPROM.
func unmarshalCalibration(b []byte) (Calibration, status.Code) {
	if len(b) < recordSize {
		return Calibration{}, status.EpromRead
	}
	if binary.BigEndian.Uint32(b[0:]) != calibrationMagic {
		return Calibration{}, status.EpromMagicNo
	}
	if binary.BigEndian.Uint32(b[20:]) != crc32.ChecksumIEEE(b[:20]) {
		return Calibration{}, status.EpromCRC
	}
	return Calibration{
		Offset: math.Float64frombits(binary.BigEndian.Uint64(b[4:])),
		Gain:   math.Float64frombits(binary.BigEndian.Uint64(b[12:])),
	}, status.Success
}
