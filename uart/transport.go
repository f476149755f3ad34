package uart

//go:generate go tool mockgen -source=transport.go -destination=mock_test.go -package=uart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Transport represents an established, bidirectional byte stream to the
// remote terminal.
//
// A Transport is assumed to be already connected and ready for use. Typical
// implementations are serial ports, pseudo terminals or in-memory fakes used
// for testing.
type Transport interface {
	io.ReadWriteCloser
}

// Dialer opens a Transport.
//
// Dialer abstracts how the line is created and is only used while a Port is
// being opened. Once a Transport is obtained the Dialer is no longer needed.
type Dialer interface {
	// Dial creates and returns a connected Transport. It may block and should
	// respect cancellation provided by the context.
	Dial(ctx context.Context) (Transport, error)
}

// ReadTimeouter is implemented by transports that can bound a single Read.
// A Read that times out returns 0 bytes and a nil error, which the receiver
// treats as the inter-character gap that terminates a frame.
type ReadTimeouter interface {
	SetReadTimeout(t time.Duration) error
}

// SelfTester is implemented by transports that can verify the line before
// use.
type SelfTester interface {
	SelfTest() error
}

// SerialDialer opens the line over a local serial port using go.bug.st/serial.
type SerialDialer struct {
	// PortName is the device path, e.g. "/dev/ttyUSB0" or "/dev/ttyGS0".
	PortName string
	// Mode is the line setting. A nil Mode means 115200 8N1.
	Mode *serial.Mode
}

// Dial opens the serial port.
func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, errors.New("uart: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("uart: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		mode = &serial.Mode{
			BaudRate: DefaultBaudRate,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
		}
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("uart: open %s: %w", d.PortName, err)
	}
	return &serialTransport{Port: port}, nil
}

// serialTransport adds the self-test hook on top of a serial.Port.
type serialTransport struct {
	serial.Port
}

// SelfTest queries the modem status lines, which fails on a port that has
// been unplugged or does not answer ioctls.
func (t *serialTransport) SelfTest() error {
	_, err := t.Port.GetModemStatusBits()
	return err
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (Transport, error)

// Dial calls f(ctx).
func (f DialerFunc) Dial(ctx context.Context) (Transport, error) {
	return f(ctx)
}
