package uart

import (
	"bytes"
	"context"
	"sync"
)

// RecvEvent tells why a receive request completed.
type RecvEvent int

const (
	// RecvData means the requested number of bytes arrived or a terminator
	// was seen.
	RecvData RecvEvent = iota
	// RecvTimeout means the line went quiet with a partial frame buffered.
	RecvTimeout
	// RecvError means the read failed. The bytes received so far are kept.
	RecvError
	// RecvParityFrameBreak reports a parity, framing or break condition.
	RecvParityFrameBreak
	// RecvOverrun reports a receiver overrun.
	RecvOverrun
)

func (e RecvEvent) isError() bool {
	return e >= RecvError
}

func (e RecvEvent) String() string {
	switch e {
	case RecvData:
		return "data"
	case RecvTimeout:
		return "timeout"
	case RecvError:
		return "error"
	case RecvParityFrameBreak:
		return "parity/frame/break"
	case RecvOverrun:
		return "overrun"
	default:
		return "unknown"
	}
}

// RecvBuffer is the single-frame handoff between the goroutine receiving from
// the line and the foreground loop.
//
// The backing storage is owned by exactly one side at a time. The receiver
// obtains it with Next and gives it back with OnBytesReceived. The foreground
// copies the frame out in TryTakeFrame and only then issues the next receive
// request, so the receiver never writes while a frame is being read.
type RecvBuffer struct {
	storage []byte
	// requests holds the outstanding receive request. It never has more than
	// one element.
	requests chan []byte
	// ready is poked every time a frame is published.
	ready chan struct{}

	mu      sync.Mutex
	filling bool
	pending int
	errors  uint64
	frames  uint64
}

// NewRecvBuffer allocates a buffer of the given capacity and issues the first
// receive request.
func NewRecvBuffer(size int) *RecvBuffer {
	if size <= 0 {
		size = DefaultRecvBufferSize
	}
	b := &RecvBuffer{
		storage:  make([]byte, size),
		requests: make(chan []byte, 1),
		ready:    make(chan struct{}, 1),
	}
	b.rearm()
	return b
}

// Cap returns the capacity of the backing storage.
func (b *RecvBuffer) Cap() int {
	return len(b.storage)
}

func (b *RecvBuffer) rearm() {
	b.requests <- b.storage
}

// Next blocks until a receive request is outstanding and returns the storage
// to fill. The caller owns the storage until it calls OnBytesReceived with a
// non-zero count.
func (b *RecvBuffer) Next(ctx context.Context) ([]byte, error) {
	select {
	case buf := <-b.requests:
		b.mu.Lock()
		b.filling = true
		b.mu.Unlock()
		return buf, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// OnBytesReceived completes the outstanding receive request with n valid
// bytes. Error events are counted but the bytes are still delivered. Calls
// that report zero bytes leave the request outstanding, and repeated calls
// for an already completed request can only grow the count. It reports
// whether a frame is now pending.
func (b *RecvBuffer) OnBytesReceived(n int, ev RecvEvent) bool {
	b.mu.Lock()
	if ev.isError() {
		b.errors++
	}
	if n <= 0 || (!b.filling && b.pending == 0) {
		b.mu.Unlock()
		return false
	}
	if n > len(b.storage) {
		n = len(b.storage)
	}
	if n > b.pending {
		b.pending = n
	}
	b.filling = false
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}
	return true
}

// TryTakeFrame returns the pending frame with trailing CR and LF bytes
// removed and rearms the receiver. It returns false when nothing is pending.
func (b *RecvBuffer) TryTakeFrame() (string, bool) {
	return b.take(true)
}

func (b *RecvBuffer) take(strip bool) (string, bool) {
	b.mu.Lock()
	n := b.pending
	if n == 0 {
		b.mu.Unlock()
		return "", false
	}
	raw := b.storage[:n]
	if strip {
		raw = bytes.TrimRight(raw, "\r\n")
	}
	frame := string(raw)
	b.pending = 0
	b.frames++
	b.mu.Unlock()

	b.rearm()
	return frame, true
}

// WaitFrame blocks until a frame is available or ctx is done.
func (b *RecvBuffer) WaitFrame(ctx context.Context) (string, error) {
	return b.wait(ctx, nil, true)
}

func (b *RecvBuffer) wait(ctx context.Context, done <-chan struct{}, strip bool) (string, error) {
	for {
		if frame, ok := b.take(strip); ok {
			return frame, nil
		}
		select {
		case <-b.ready:
		case <-done:
			// The receiver may have published a last frame before leaving.
			if frame, ok := b.take(strip); ok {
				return frame, nil
			}
			return "", ErrAlreadyClosed
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// ErrorCount returns the number of receive errors seen so far.
func (b *RecvBuffer) ErrorCount() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errors
}

// FrameCount returns the number of frames handed to the foreground.
func (b *RecvBuffer) FrameCount() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}
