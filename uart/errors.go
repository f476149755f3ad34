package uart

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDialer is returned when a Port is opened without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// reach the serial line.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrAlreadyClosed is returned when Close is called on a Port that has
	// already been closed, and by every I/O operation after that.
	ErrAlreadyClosed = errors.New("port already closed")

	// ErrConfigurationFailed is returned by Open when the line could not be
	// configured, usually because the dialer failed to open the device.
	ErrConfigurationFailed = errors.New("serial configuration failed")

	// ErrBaudRateUnattainable is returned by Open when the requested rate is
	// not one the line can be clocked at.
	ErrBaudRateUnattainable = errors.New("baud rate unattainable")

	// ErrSelfTestFailed is returned by Open when the opened transport does not
	// pass its self-test.
	ErrSelfTestFailed = errors.New("serial self-test failed")
)

// TransportError describes a failure to bring the serial line up. Err always
// wraps one of ErrConfigurationFailed, ErrBaudRateUnattainable or
// ErrSelfTestFailed so callers can test it with errors.Is.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("uart %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
