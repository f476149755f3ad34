// Package tof simulates the Pmod ToF distance sensor: a time-of-flight
// front end that needs a calibration, and an I2C EEPROM holding the factory
// calibration, a user calibration and the serial number.
//
// Results are reported as status codes so that they can be passed to the
// terminal unchanged.
package tof

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"i4.energy/across/tofterm/status"
)

const (
	// MinCalibrationDistanceCm is the closest a calibration target may be.
	MinCalibrationDistanceCm = 5
	// MaxCalibrationDistanceCm is the farthest a calibration target may be,
	// the range limit of the front end.
	MaxCalibrationDistanceCm = 3300
	// DefaultSerialNumber is programmed into an erased EEPROM.
	DefaultSerialNumber = "TOF-00000001"
	// DefaultTarget is the simulated distance to the target, in metres.
	DefaultTarget = 1.0
	// DefaultNoise is the standard deviation of a raw sample, in metres.
	DefaultNoise = 0.002

	calibrationSamples = 10

	// The uncalibrated front end reads distances scaled and shifted by these.
	rawScale = 1.02
	rawBias  = 0.035
)

// factoryCalibration exactly undoes the raw response of the front end.
var factoryCalibration = Calibration{Gain: 1 / rawScale, Offset: -rawBias / rawScale}

// Operation names a sensor operation, for fault injection.
type Operation int

const (
	OpStartCalibration Operation = iota
	OpMeasure
	OpReadSerialNumber
	OpSaveCalibration
	OpRestoreFactoryCalibration
)

// Option configures a Sensor.
type Option func(*Sensor)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sensor) {
		s.logger = logger
	}
}

// WithTarget sets the simulated distance to the target, in metres.
func WithTarget(metres float64) Option {
	return func(s *Sensor) {
		s.target = metres
	}
}

// WithNoise sets the standard deviation of a raw sample, in metres. Zero
// gives exact readings.
func WithNoise(stddev float64) Option {
	return func(s *Sensor) {
		s.noise = stddev
	}
}

// WithRand sets the source of sample noise.
func WithRand(r *rand.Rand) Option {
	return func(s *Sensor) {
		s.rng = r
	}
}

// WithSerialNumber sets the serial number programmed into an erased EEPROM.
func WithSerialNumber(sn string) Option {
	return func(s *Sensor) {
		s.serialNumber = sn
	}
}

// Sensor is a simulated Pmod ToF. It is safe for concurrent use.
type Sensor struct {
	eeprom       *EEPROM
	logger       *slog.Logger
	serialNumber string

	mu     sync.Mutex
	cal    Calibration
	target float64
	noise  float64
	rng    *rand.Rand
	faults map[Operation]status.Code
}

// New returns a sensor using eeprom. An erased EEPROM is programmed with
// the factory calibration and serial number first, the way a unit leaves
// the factory. The user calibration is loaded when it is valid, the factory
// calibration otherwise.
func New(eeprom *EEPROM, opts ...Option) (*Sensor, error) {
	s := &Sensor{
		eeprom:       eeprom,
		serialNumber: DefaultSerialNumber,
		target:       DefaultTarget,
		noise:        DefaultNoise,
		faults:       make(map[Operation]status.Code),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if len(s.serialNumber) > SerialNumberSize {
		return nil, fmt.Errorf("tof: serial number %q longer than %d bytes", s.serialNumber, SerialNumberSize)
	}

	if err := s.programIfErased(); err != nil {
		return nil, err
	}

	s.cal = factoryCalibration
	if cal, code := s.readCalibration(userArea); code == status.Success {
		s.cal = cal
		s.logger.Info("user calibration loaded", "offset", cal.Offset, "gain", cal.Gain)
	} else if cal, code := s.readCalibration(factoryArea); code == status.Success {
		s.cal = cal
		s.logger.Info("factory calibration loaded", "offset", cal.Offset, "gain", cal.Gain)
	} else {
		s.logger.Warn("no valid calibration in eeprom", "status", code)
	}
	return s, nil
}

func (s *Sensor) programIfErased() error {
	head := make([]byte, 4)
	if _, err := s.eeprom.ReadAt(head, factoryArea); err != nil {
		return fmt.Errorf("read factory area: %w", err)
	}
	if !bytes.Equal(head, []byte{erased, erased, erased, erased}) {
		return nil
	}

	if _, err := s.eeprom.WriteAt(factoryCalibration.marshal(), factoryArea); err != nil {
		return fmt.Errorf("program factory calibration: %w", err)
	}
	sn := make([]byte, SerialNumberSize)
	copy(sn, s.serialNumber)
	if _, err := s.eeprom.WriteAt(sn, serialArea); err != nil {
		return fmt.Errorf("program serial number: %w", err)
	}
	s.logger.Info("eeprom programmed", "serial_number", s.serialNumber)
	return nil
}

func (s *Sensor) readCalibration(area int64) (Calibration, status.Code) {
	b := make([]byte, recordSize)
	if _, err := s.eeprom.ReadAt(b, area); err != nil {
		return Calibration{}, status.EpromRead
	}
	return unmarshalCalibration(b)
}

// SetFault makes every call of op fail with code until it is cleared by
// setting status.Success.
func (s *Sensor) SetFault(op Operation, code status.Code) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == status.Success {
		delete(s.faults, op)
		return
	}
	s.faults[op] = code
}

// Calibration returns the calibration in use.
func (s *Sensor) Calibration() Calibration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cal
}

// sample returns one raw reading. The caller holds mu.
func (s *Sensor) sample() float64 {
	raw := s.target*rawScale + rawBias
	if s.noise > 0 {
		raw += s.rng.NormFloat64() * s.noise
	}
	return raw
}

// StartCalibration calibrates against a target placed distanceCm away.
func (s *Sensor) StartCalibration(ctx context.Context, distanceCm float64) status.Code {
	if math.IsNaN(distanceCm) || distanceCm < MinCalibrationDistanceCm || distanceCm > MaxCalibrationDistanceCm {
		return status.IncorrectCalibDistance
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.faults[OpStartCalibration]; ok {
		return code
	}
	if ctx.Err() != nil {
		return status.FailedStartingCalib
	}

	s.target = distanceCm / 100
	var sum float64
	for range calibrationSamples {
		sum += s.sample()
	}
	s.cal.Offset = s.target - s.cal.Gain*sum/calibrationSamples

	s.logger.Info("calibrated", "distance_cm", distanceCm, "offset", s.cal.Offset, "gain", s.cal.Gain)
	return status.Success
}

// MeasureDistance takes one sample, in metres.
func (s *Sensor) MeasureDistance(ctx context.Context) (float64, status.Code) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.faults[OpMeasure]; ok {
		return 0, code
	}
	if ctx.Err() != nil {
		return 0, status.FailedStartingMeasure
	}
	return s.cal.Apply(s.sample()), status.Success
}

// ReadSerialNumber reads the serial number from the EEPROM.
func (s *Sensor) ReadSerialNumber(ctx context.Context) (string, status.Code) {
	s.mu.Lock()
	code, ok := s.faults[OpReadSerialNumber]
	s.mu.Unlock()
	if ok {
		return "", code
	}

	b := make([]byte, SerialNumberSize)
	if _, err := s.eeprom.ReadAt(b, serialArea); err != nil {
		return "", status.EpromRead
	}
	n := len(b)
	for n > 0 && (b[n-1] == 0 || b[n-1] == erased) {
		n--
	}
	if n == 0 {
		return "", status.EpromRead
	}
	return string(b[:n]), status.Success
}

// SaveCalibration writes the calibration in use to the user area.
func (s *Sensor) SaveCalibration(ctx context.Context) status.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.faults[OpSaveCalibration]; ok {
		return code
	}
	if _, err := s.eeprom.WriteAt(s.cal.marshal(), userArea); err != nil {
		s.logger.Error("saving calibration", "error", err)
		return status.EpromWrite
	}
	return status.Success
}

// RestoreFactoryCalibration replaces the calibration in use with the one
// in the factory area.
func (s *Sensor) RestoreFactoryCalibration(ctx context.Context) status.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.faults[OpRestoreFactoryCalibration]; ok {
		return code
	}
	cal, code := s.readCalibration(factoryArea)
	if code != status.Success {
		s.logger.Warn("factory calibration unreadable", "status", code)
		return code
	}
	s.cal = cal
	return status.Success
}
