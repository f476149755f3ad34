package command

//go:generate go tool mockgen -source=sensor.go -destination=mock_test.go -package=command

import (
	"context"

	"i4.energy/across/tofterm/status"
)

// Sensor is the distance sensor driven by the commands. Every operation
// reports its outcome as a status code; the interpreter never retries.
type Sensor interface {
	// StartCalibration runs a manual calibration against a target placed at
	// the given distance, in centimetres.
	StartCalibration(ctx context.Context, distanceCm float64) status.Code
	// MeasureDistance takes one sample and returns the distance in metres.
	MeasureDistance(ctx context.Context) (float64, status.Code)
	ReadSerialNumber(ctx context.Context) (string, status.Code)
	// SaveCalibration writes the current calibration to the user area of
	// the EEPROM.
	SaveCalibration(ctx context.Context) status.Code
	// RestoreFactoryCalibration loads the factory calibration from EEPROM.
	RestoreFactoryCalibration(ctx context.Context) status.Code
}

// Port is the serial line the interpreter talks over.
type Port interface {
	SendString(s string) error
	ReceiveFrame(ctx context.Context) (string, error)
	ReadChar(ctx context.Context) (byte, error)
}
