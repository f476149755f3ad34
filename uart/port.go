package uart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// readChunkSize is how much is asked of the transport per Read.
const readChunkSize = 64

// Port is a half-duplex serial line carrying timeout-terminated frames.
//
// A single goroutine receives from the transport into a RecvBuffer. The
// foreground consumes frames with TryTakeFrame, ReceiveFrame or ReadChar and
// answers with SendString. Only one foreground goroutine may receive.
type Port struct {
	transport Transport
	buf       *RecvBuffer
	config    Config
	logger    *slog.Logger

	writeMu sync.Mutex

	// chars holds the rest of a raw frame being consumed by ReadChar. It is
	// only touched by the foreground.
	chars []byte

	mu     sync.Mutex
	closed bool

	// done is closed when the receive goroutine exits.
	done   chan struct{}
	cancel context.CancelFunc
}

// Open configures the line described by config, verifies it and starts
// receiving. The receive goroutine stops when ctx is cancelled or the port
// is closed.
//
// Errors are *TransportError values wrapping ErrBaudRateUnattainable,
// ErrConfigurationFailed or ErrSelfTestFailed.
func Open(ctx context.Context, config Config) (*Port, error) {
	if err := config.validate(); err != nil {
		return nil, &TransportError{Op: "open", Err: fmt.Errorf("%w: %w", ErrConfigurationFailed, err)}
	}
	config.setDefaults()

	if !baudRateAttainable(config.BaudRate) {
		return nil, &TransportError{Op: "open", Err: fmt.Errorf("%w: %d", ErrBaudRateUnattainable, config.BaudRate)}
	}

	transport, err := config.Dialer.Dial(ctx)
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: fmt.Errorf("%w: %w", ErrConfigurationFailed, err)}
	}
	if transport == nil {
		return nil, &TransportError{Op: "dial", Err: fmt.Errorf("%w: dialer returned no transport", ErrConfigurationFailed)}
	}

	if st, ok := transport.(SelfTester); ok {
		if err := st.SelfTest(); err != nil {
			transport.Close()
			return nil, &TransportError{Op: "self-test", Err: fmt.Errorf("%w: %w", ErrSelfTestFailed, err)}
		}
	}

	if rt, ok := transport.(ReadTimeouter); ok {
		if err := rt.SetReadTimeout(config.InterCharTimeout); err != nil {
			transport.Close()
			return nil, &TransportError{Op: "set read timeout", Err: fmt.Errorf("%w: %w", ErrConfigurationFailed, err)}
		}
	}

	p := &Port{
		transport: transport,
		buf:       NewRecvBuffer(config.BufferSize),
		config:    config,
		logger:    config.Logger,
		done:      make(chan struct{}),
	}

	var recvCtx context.Context
	recvCtx, p.cancel = context.WithCancel(ctx)
	go p.receive(recvCtx)

	p.logger.Info("serial line open",
		"baud_rate", config.BaudRate,
		"inter_char_timeout", config.InterCharTimeout,
		"buffer_size", config.BufferSize)
	return p, nil
}

// SendString writes every byte of s to the line. It blocks until the
// transport has accepted all of them, re-issuing the write with whatever
// tail is left after a short write.
func (p *Port) SendString(s string) error {
	if p.isClosed() {
		return ErrAlreadyClosed
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	data := []byte(s)
	for len(data) > 0 {
		n, err := p.transport.Write(data)
		if err != nil {
			return fmt.Errorf("uart: write: %w", err)
		}
		data = data[n:]
	}
	return nil
}

// TryTakeFrame returns the pending frame without blocking.
func (p *Port) TryTakeFrame() (string, bool) {
	return p.buf.TryTakeFrame()
}

// ReceiveFrame blocks until a complete frame is available, the port is
// closed or ctx is done. When Config.ReceiveTimeout is set it also bounds
// the wait.
func (p *Port) ReceiveFrame(ctx context.Context) (string, error) {
	if len(p.chars) > 0 {
		frame := string(bytes.TrimRight(p.chars, "\r\n"))
		p.chars = nil
		return frame, nil
	}
	ctx, cancel := p.receiveContext(ctx)
	defer cancel()
	return p.buf.wait(ctx, p.done, true)
}

// ReadChar returns the next received character. Line endings are not
// stripped, so a carriage return typed by the operator is returned as '\r'.
func (p *Port) ReadChar(ctx context.Context) (byte, error) {
	if len(p.chars) == 0 {
		ctx, cancel := p.receiveContext(ctx)
		defer cancel()
		for len(p.chars) == 0 {
			frame, err := p.buf.wait(ctx, p.done, false)
			if err != nil {
				return 0, err
			}
			p.chars = append(p.chars, frame...)
		}
	}
	c := p.chars[0]
	p.chars = p.chars[1:]
	return c, nil
}

func (p *Port) receiveContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.config.ReceiveTimeout > 0 {
		return context.WithTimeout(ctx, p.config.ReceiveTimeout)
	}
	return ctx, func() {}
}

// ErrorCount returns the number of receive errors seen on the line.
func (p *Port) ErrorCount() uint64 {
	return p.buf.ErrorCount()
}

// FrameCount returns the number of frames consumed by the foreground.
func (p *Port) FrameCount() uint64 {
	return p.buf.FrameCount()
}

// Done is closed once the port stops receiving.
func (p *Port) Done() <-chan struct{} {
	return p.done
}

// Close stops receiving and closes the transport. After Close every
// operation returns ErrAlreadyClosed.
func (p *Port) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrAlreadyClosed
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	return p.transport.Close()
}

func (p *Port) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// receive is the asynchronous half of the port. It fills one receive
// request at a time and publishes it to the buffer.
func (p *Port) receive(ctx context.Context) {
	defer close(p.done)

	chunk := make([]byte, readChunkSize)
	var carry []byte
	for {
		storage, err := p.buf.Next(ctx)
		if err != nil {
			return
		}
		n, ev, err := p.fill(storage, chunk, &carry)
		if ev.isError() {
			p.logger.Warn("receive error", "event", ev, "bytes", n, "error", err)
		} else {
			p.logger.Debug("frame received", "event", ev, "bytes", n)
		}
		p.buf.OnBytesReceived(n, ev)
		if err != nil {
			if !errors.Is(err, io.EOF) && !p.isClosed() {
				p.logger.Error("receive stopped", "error", err)
			}
			return
		}
	}
}

// fill copies bytes from the transport into storage until a line ending is
// seen, storage is full or the line goes quiet with a partial frame. Bytes
// read past the end of the frame are left in carry for the next call.
func (p *Port) fill(storage, chunk []byte, carry *[]byte) (int, RecvEvent, error) {
	n := 0
	for {
		var data []byte
		if len(*carry) > 0 {
			data, *carry = *carry, nil
		} else {
			m, err := p.transport.Read(chunk)
			if err != nil {
				n += copy(storage[n:], chunk[:m])
				return n, RecvError, err
			}
			if m == 0 {
				if n > 0 {
					return n, RecvTimeout, nil
				}
				continue
			}
			data = chunk[:m]
		}

		for i := 0; i < len(data); i++ {
			c := data[i]
			storage[n] = c
			n++
			if c == '\r' || c == '\n' {
				j := i + 1
				for j < len(data) && n < len(storage) && (data[j] == '\r' || data[j] == '\n') {
					storage[n] = data[j]
					n++
					j++
				}
				if j < len(data) {
					*carry = data[j:]
				}
				return n, RecvData, nil
			}
			if n == len(storage) {
				if i+1 < len(data) {
					*carry = data[i+1:]
				}
				return n, RecvData, nil
			}
		}
	}
}
